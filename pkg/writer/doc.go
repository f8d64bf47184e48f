/*
Package writer owns the output side of the pipeline: fence filtering,
output limits, format selection, and the optional external-sorter
integration.

# Paths

Unsorted: each qualifying tuple is presented immediately while under the
output limit; past the limit further input is silently discarded, without
cancelling the upstream fetches.

Sorted: each qualifying tuple is re-serialized as a keyed line and written
to the sorter subprocess. Once all fetches finish, Drain closes the
sorter's stdin and presents its totally ordered, deduplicated output. If
the output limit is reached mid-drain the remaining output is still read
and discarded while the subprocess is signalled exactly once.

# Presenters

text, json, csv and minimal presenters implement the Presenter interface.
They run on the single drain goroutine and write to the stream the writer
was constructed with. The text presenter can annotate address records with
origin-AS data via pkg/asinfo.

# Failure Capture

Each writer captures at most one logical (status, message) pair, first
occurrence wins. A batch of queries sharing a writer therefore reports the
first backend failure while the remaining entries keep running.
*/
package writer
