/*
Package query turns one logical user request into its fan-out of fetches.

A request's "thing" (owner name, rdata value, or raw hex form) combines
with an optional comma-separated rrtype list to produce one fetch per
type, or a single unconstrained fetch when no type is given. The rrtype
list is validated before any fetch exists: duplicates are rejected, the
"any" and "any-dnssec" pseudo-types exclude the specific types they cover,
and the list is bounded by the engine's concurrency ceiling so one query
can never monopolize more than its share of transfers.

The time fence is derived once per query from (after, before, complete)
and applied by the writer to every record the query's fetches produce. A
query's aggregate status is the first non-success status observed among
its fetches.
*/
package query
