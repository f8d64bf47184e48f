/*
Package backend abstracts the wire-compatible passive DNS providers behind
a single capability interface.

# Variants

Dnsdb v1:
  - Legacy record-per-line NDJSON encoding
  - API key in the X-API-Key request header
  - HTTP 404 is a real error

Dnsdb v2:
  - Structured record framing: each line is a {"cond","obj","msg"} envelope
  - HTTP 404 decodes as "no results", not an error
  - Same auth and URL grammar as v1 under the /dnsdb/v2 base

Circl:
  - Bare query-value paths, HTTP basic auth
  - Lookup verb only; no server-side fencing, rrtype, offset, or row limit
  - rrtype filtering happens client side (EncodesRRType reports false)

# Selection

A provider is selected once at process start from its name and credentials
and held as a shared immutable value for the rest of the run. URL building,
auth injection, status decoding, per-line decoding and capability
validation all dispatch through the Provider interface, so the fetch
pipeline never branches on the concrete variant.
*/
package backend
