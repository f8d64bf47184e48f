package writer

import (
	"fmt"
	"io"

	"github.com/dnsdb/pdnsq/pkg/dedup"
	"github.com/dnsdb/pdnsq/pkg/types"
)

// MinimalPresenter emits one "rrname  rrtype" line per distinct pair.
// Concurrent fetches can return overlapping records, so repeats are
// suppressed with a dedup set living for the process run.
type MinimalPresenter struct {
	seen *dedup.Set
}

// NewMinimalPresenter returns a minimal presenter with an empty dedup set.
func NewMinimalPresenter() *MinimalPresenter {
	return &MinimalPresenter{seen: dedup.New()}
}

// Header implements Presenter.
func (p *MinimalPresenter) Header(out io.Writer) error {
	return nil
}

// Record implements Presenter.
func (p *MinimalPresenter) Record(out io.Writer, t *types.Tuple) error {
	if t.RRName == "" {
		return nil
	}
	if !p.seen.Insert(t.RRName + "\x00" + t.RRType) {
		return nil
	}
	_, err := fmt.Fprintf(out, "%s  %s\n", t.RRName, t.RRType)
	return err
}
