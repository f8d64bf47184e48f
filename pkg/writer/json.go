package writer

import (
	"encoding/json"
	"io"

	"github.com/dnsdb/pdnsq/pkg/types"
)

// JSONPresenter emits the original record encoding, one object per line.
// The passthrough keeps backend fields this client does not model.
type JSONPresenter struct{}

// Header implements Presenter.
func (p *JSONPresenter) Header(out io.Writer) error {
	return nil
}

// Record implements Presenter.
func (p *JSONPresenter) Record(out io.Writer, t *types.Tuple) error {
	raw := t.Raw
	if len(raw) == 0 {
		// A synthesized tuple has no original encoding; fall back to
		// marshalling the model.
		var err error
		raw, err = json.Marshal(t)
		if err != nil {
			return err
		}
	}
	if _, err := out.Write(raw); err != nil {
		return err
	}
	_, err := out.Write([]byte{'\n'})
	return err
}
