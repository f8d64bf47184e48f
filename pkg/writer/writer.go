package writer

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/dnsdb/pdnsq/pkg/log"
	"github.com/dnsdb/pdnsq/pkg/sorter"
	"github.com/dnsdb/pdnsq/pkg/types"
)

// Mode selects how a writer is shared across batch entries.
type Mode int

const (
	// ModeSingle serves one top-level query.
	ModeSingle Mode = iota

	// ModeSerial serves batch entries one at a time on the same stream.
	ModeSerial

	// ModeMerge serves concurrently running batch entries merged into one
	// stream.
	ModeMerge
)

// Options are the writer construction parameters.
type Options struct {
	// Limit caps presented tuples; -1 means unbounded.
	Limit int64

	// Presenter renders qualifying tuples.
	Presenter Presenter

	// Sort requests global total ordering plus dedup through the external
	// sorter.
	Sort bool

	// Mode is the stream-sharing mode.
	Mode Mode
}

// Writer owns one output stream: it fence-tests and counts tuples, hands
// them to the presenter or the external sorter, and captures the stream's
// first logical failure.
type Writer struct {
	out        io.Writer
	limit      int64
	emitted    int64
	presenter  Presenter
	srt        *sorter.Sorter
	mode       Mode
	status     string
	message    string
	headerDone bool
	logger     zerolog.Logger
}

// New creates a writer. When sorting is requested the external sorter
// subprocess is spawned immediately.
func New(out io.Writer, opts Options) (*Writer, error) {
	if opts.Presenter == nil {
		return nil, fmt.Errorf("writer needs a presenter")
	}
	w := &Writer{
		out:       out,
		limit:     opts.Limit,
		presenter: opts.Presenter,
		mode:      opts.Mode,
		logger:    log.WithComponent("writer"),
	}
	if opts.Sort {
		srt, err := sorter.Start()
		if err != nil {
			return nil, fmt.Errorf("failed to start sorter: %w", err)
		}
		w.srt = srt
	}
	return w, nil
}

// Accept offers one parsed tuple to the stream. Tuples failing the fence
// are dropped; past the output limit further input is silently discarded
// without cancelling the upstream fetch.
func (w *Writer) Accept(fence types.TimeFence, t *types.Tuple) error {
	if !fence.Allow(t) {
		return nil
	}
	if w.srt != nil {
		return w.srt.Add(t)
	}
	if w.limitReached() {
		return nil
	}
	return w.present(t)
}

func (w *Writer) limitReached() bool {
	return w.limit >= 0 && w.emitted >= w.limit
}

func (w *Writer) present(t *types.Tuple) error {
	if !w.headerDone {
		w.headerDone = true
		if err := w.presenter.Header(w.out); err != nil {
			return err
		}
	}
	if err := w.presenter.Record(w.out, t); err != nil {
		return err
	}
	w.emitted++
	return nil
}

// RecordStatus captures a logical failure for the stream. The first
// occurrence wins; later occurrences are logged but do not replace it.
func (w *Writer) RecordStatus(status, message string) {
	if w.status != "" {
		w.logger.Warn().Str("status", status).Str("message", message).
			Msg("additional backend failure on stream")
		return
	}
	w.status = status
	w.message = message
}

// Status returns the stream's captured (status, message) pair, empty
// strings when every fetch succeeded.
func (w *Writer) Status() (string, string) {
	return w.status, w.message
}

// Emitted returns the number of tuples presented so far.
func (w *Writer) Emitted() int64 {
	return w.emitted
}

// Drain finishes the stream. With sorting enabled it closes the sorter's
// input, presents the globally ordered output up to the limit, discards
// the remainder while terminating the subprocess once, and reaps it.
func (w *Writer) Drain() error {
	if w.srt == nil {
		return nil
	}
	if err := w.srt.CloseInput(); err != nil {
		return err
	}
	for {
		payload, err := w.srt.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if w.limitReached() {
			// Never just stop reading: the subprocess would take a broken
			// pipe. Signal it once and consume what it still emits.
			w.srt.Terminate()
			for {
				more, err := w.srt.Discard()
				if err != nil {
					return err
				}
				if !more {
					break
				}
			}
			break
		}
		t, err := types.ParseTuple(payload)
		if err != nil {
			return err
		}
		if err := w.present(t); err != nil {
			return err
		}
	}
	return w.srt.Wait()
}
