/*
Package engine multiplexes many outstanding HTTP transfers into one
cooperative drain loop.

# Architecture

	┌─────────────── I/O ENGINE ───────────────┐
	│                                           │
	│  Launch(fetch)          Drain(threshold)  │
	│      │                        │           │
	│      ▼                        ▼           │
	│  ┌────────┐   events    ┌──────────┐     │
	│  │transfer│ ──────────▶ │  drain   │     │
	│  │goroutine│  chunk/done │  loop    │     │
	│  └────────┘             └────┬─────┘     │
	│   ≤ MaxFetches at once       │           │
	│                               ▼           │
	│                    Fetch.Feed → OnRecord  │
	└───────────────────────────────────────────┘

Transfer goroutines do nothing but move bytes; every Fetch's parse, filter
and present logic runs synchronously inside the drain loop, so there is one
consumer goroutine and downstream code needs no locks. Drain(0) blocks
until everything is reaped; Drain(n) returns as soon as at most n transfers
remain outstanding, which batch parallel-merge mode uses for throttling.

# Failure Semantics

Transport failures (resolution, connect, per-transfer timeout) are logged
as warnings and latch a failure flag for the caller's exit status; they
never abort sibling transfers. Malformed payload lines abort the drain:
they cannot be skipped without risking silent data loss.
*/
package engine
