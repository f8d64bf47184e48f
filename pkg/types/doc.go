/*
Package types defines the data model shared by every pdnsq component.

# Core Types

Tuple:
  - One parsed passive DNS observation record
  - Per-field presence tracking via OptInt/OptString
  - Rdata decodes both the string and array-of-strings wire forms
  - Raw preserves the original JSON bytes for passthrough output

TimeFence:
  - Time-range constraint derived once from (after, before, complete)
  - Strict mode selects records fully inside the range
  - Loose mode selects records whose interval intersects the range

RateInfo:
  - Account/quota record from a backend's info operation
  - Each field is independently absent, "n/a", "unlimited", or an integer

Error:
  - Tagged error kinds: transport, logical, malformed, usage
  - Transport failures never abort sibling transfers
  - Malformed payloads are fatal to the run

# Presence Tracking

Presenters render "field absent" differently from "field present with a
falsy value" (a zero count is printed, a missing count is not), so optional
fields carry an explicit Set flag instead of relying on zero values.
*/
package types
