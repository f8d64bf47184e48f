/*
Package sorter provides global ordering and dedup for passive DNS records
via an external sort(1) subprocess, plus the collatable-key construction
that makes structured DNS data byte-sortable.

# Key Lines

Each qualifying record is re-serialized as

	<time_first> <time_last> <name-key> <rdata-key> <raw JSON>

with one line per rdata element. The first two columns sort numerically,
the last two bytewise under LC_ALL=C. On output the four key columns are
stripped and the payload is re-parsed as JSON.

# Collation

CollateName reverses a domain name's labels so the TLD sorts first:
"foo.example.com" and "bar.example.com" share the "comexample" prefix and
group together. CollateRdata renders A/AAAA addresses as fixed-width hex so
numeric address order matches byte order, collates name-valued types
(NS, PTR, CNAME, DNAME, and the target of MX/RP) like owner names, and
falls back to raw hex for everything else. Both transforms are lossy and
never reversed.

# Pipe Choreography

The subprocess is driven over two independent pipes. sort(1) emits nothing
until it sees end-of-input, so the writer can finish writing before it
begins reading, with no pump goroutine and no deadlock. When the caller
stops early it keeps reading and discarding the remaining output, signals
the subprocess once to bound drain time, and suppresses the resulting
non-zero exit status.
*/
package sorter
