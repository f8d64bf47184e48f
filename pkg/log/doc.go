/*
Package log provides structured logging for pdnsq using zerolog.

The log package wraps the zerolog library to provide JSON-structured logging
with component-specific loggers and configurable log levels. All logs include
timestamps and are written to stderr so that query output on stdout stays
clean for piping into other tools.

# Usage

Initializing the logger:

	import "github.com/dnsdb/pdnsq/pkg/log"

	// Console output (interactive use)
	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: false,
	})

Component loggers:

	logger := log.WithComponent("engine")
	logger.Warn().Str("url", u).Msg("transfer failed")

Per-transfer detail is logged as a job_id field on the component logger,
so one transfer's lines can be followed across the run.

# Log Levels

Debug is verbose per-chunk and per-record detail, Info is the default, Warn
covers transport failures that do not stop the run, and Error/Fatal cover
protocol violations and unrecoverable setup problems.
*/
package log
