package writer

import (
	"io"

	"github.com/dnsdb/pdnsq/pkg/types"
)

// Presenter renders tuples onto one output stream. Header runs once per
// stream before the first record; formats without a preamble ignore it.
//
// Presenters are invoked from the engine's drain loop and from sorter
// draining, always on a single goroutine.
type Presenter interface {
	Header(out io.Writer) error
	Record(out io.Writer, t *types.Tuple) error
}

// ForFormat returns the presenter for a format name: text, json, csv, or
// minimal.
func ForFormat(format string) (Presenter, error) {
	switch format {
	case "", "text", "dns":
		return &TextPresenter{}, nil
	case "json":
		return &JSONPresenter{}, nil
	case "csv":
		return &CSVPresenter{}, nil
	case "minimal":
		return NewMinimalPresenter(), nil
	default:
		return nil, types.UsageErrorf("unknown output format %q (want text, json, csv, or minimal)", format)
	}
}
