package writer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dnsdb/pdnsq/pkg/types"
)

const csvHeader = "time_first,time_last,zone_first,zone_last,count,bailiwick,rrname,rrtype,rdata"

// CSVPresenter emits a fixed header row and one fully-quoted row per rdata
// element. Absent fields render as empty quoted strings, distinct from
// present-but-zero values.
type CSVPresenter struct{}

// Header implements Presenter.
func (p *CSVPresenter) Header(out io.Writer) error {
	_, err := fmt.Fprintln(out, csvHeader)
	return err
}

// quote always quotes, doubling embedded quotes, so every row has the same
// shape regardless of content.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteOptInt(o types.OptInt) string {
	if !o.Set {
		return `""`
	}
	return quote(strconv.FormatInt(o.Value, 10))
}

func quoteEpoch(o types.OptInt) string {
	if !o.Set {
		return `""`
	}
	return quote(formatEpoch(o))
}

// Record implements Presenter.
func (p *CSVPresenter) Record(out io.Writer, t *types.Tuple) error {
	bailiwick := `""`
	if t.Bailiwick.Set {
		bailiwick = quote(t.Bailiwick.Value)
	}
	prefix := strings.Join([]string{
		quoteEpoch(t.TimeFirst),
		quoteEpoch(t.TimeLast),
		quoteEpoch(t.ZoneFirst),
		quoteEpoch(t.ZoneLast),
		quoteOptInt(t.Count),
		bailiwick,
		quote(t.RRName),
		quote(t.RRType),
	}, ",")

	if len(t.Rdata) == 0 {
		_, err := fmt.Fprintf(out, "%s,%s\n", prefix, `""`)
		return err
	}
	for _, rd := range t.Rdata {
		if _, err := fmt.Fprintf(out, "%s,%s\n", prefix, quote(rd)); err != nil {
			return err
		}
	}
	return nil
}
