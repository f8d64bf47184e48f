package writer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dnsdb/pdnsq/pkg/asinfo"
	"github.com/dnsdb/pdnsq/pkg/types"
)

const timeLayout = "2006-01-02 15:04:05"

func formatEpoch(o types.OptInt) string {
	if !o.Set {
		return ""
	}
	return time.Unix(o.Value, 0).UTC().Format(timeLayout)
}

// TextPresenter renders one labeled block per tuple: a times line, a
// count/bailiwick line, then one line per rdata element, separated from
// the next block by a blank line.
type TextPresenter struct {
	// Annotate, when set, appends origin-AS comment lines for address
	// records. Lookups are synchronous; failures degrade to no annotation.
	Annotate *asinfo.Annotator
}

// Header implements Presenter.
func (p *TextPresenter) Header(out io.Writer) error {
	return nil
}

// Record implements Presenter.
func (p *TextPresenter) Record(out io.Writer, t *types.Tuple) error {
	first, last := t.First(), t.Last()
	if first.Set || last.Set {
		label := "record times"
		if t.ZoneOnly() {
			label = "zone times"
		}
		if _, err := fmt.Fprintf(out, ";; %s: %s .. %s\n", label, formatEpoch(first), formatEpoch(last)); err != nil {
			return err
		}
	}

	var notes []string
	if t.Count.Set {
		notes = append(notes, fmt.Sprintf("count: %d", t.Count.Value))
	}
	if t.Bailiwick.Set {
		notes = append(notes, fmt.Sprintf("bailiwick: %s", t.Bailiwick.Value))
	}
	if t.NumResults.Set {
		notes = append(notes, fmt.Sprintf("num_results: %d", t.NumResults.Value))
	}
	if len(notes) > 0 {
		if _, err := fmt.Fprintf(out, ";; %s\n", strings.Join(notes, "; ")); err != nil {
			return err
		}
	}

	if t.RRName != "" {
		for _, rd := range t.Rdata {
			if _, err := fmt.Fprintf(out, "%s  %s  %s\n", t.RRName, t.RRType, rd); err != nil {
				return err
			}
			if err := p.annotate(out, t.RRType, rd); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintln(out)
	return err
}

func (p *TextPresenter) annotate(out io.Writer, rrtype, rdatum string) error {
	if p.Annotate == nil {
		return nil
	}
	up := strings.ToUpper(rrtype)
	if up != "A" && up != "AAAA" {
		return nil
	}
	origin, ok := p.Annotate.Lookup(rdatum)
	if !ok {
		return nil
	}
	_, err := fmt.Fprintf(out, ";; %s\n", origin)
	return err
}
