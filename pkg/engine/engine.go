package engine

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dnsdb/pdnsq/pkg/log"
)

const (
	// MaxFetches is the ceiling on concurrently outstanding transfers. The
	// rrtype fan-out bound is the same constant, so one query can never
	// exceed it.
	MaxFetches = 10

	// waitInterval bounds one blocking wait for readiness.
	waitInterval = 500 * time.Millisecond

	// spuriousBackoff is slept after two consecutive wakeups that
	// delivered nothing, to avoid busy-spinning.
	spuriousBackoff = 100 * time.Millisecond
)

// event is one readiness notification from a transfer goroutine.
type event struct {
	fetch *Fetch
	chunk []byte
	done  bool
	code  int
	err   error
}

// Engine is the single multiplexer driving every Fetch to completion. All
// parse, filter and present work runs on the goroutine calling Drain, so
// downstream consumers never need locks.
type Engine struct {
	client  *http.Client
	events  chan event
	pending []*Fetch
	active  int
	failed  bool
	logger  zerolog.Logger
}

// New creates an engine whose transfers share one per-transfer timeout.
func New(timeout time.Duration) *Engine {
	return &Engine{
		client: &http.Client{Timeout: timeout},
		events: make(chan event, 1024),
		logger: log.WithComponent("engine"),
	}
}

// Launch registers a fetch. At most MaxFetches transfers run at once;
// excess fetches queue until a slot is reaped.
func (e *Engine) Launch(f *Fetch) {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	e.logger.Debug().Str("job_id", f.ID).Str("url", f.URL).Msg("fetch launched")
	if e.active >= MaxFetches {
		e.pending = append(e.pending, f)
		return
	}
	e.start(f)
}

func (e *Engine) start(f *Fetch) {
	e.active++
	go e.transfer(f)
}

// transfer runs one HTTP GET, streaming body chunks to the drain loop. It
// is the only code that runs off the drain goroutine.
func (e *Engine) transfer(f *Fetch) {
	req, err := http.NewRequest(http.MethodGet, f.URL, nil)
	if err != nil {
		e.events <- event{fetch: f, done: true, err: err}
		return
	}
	if f.Prepare != nil {
		f.Prepare(req)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		e.events <- event{fetch: f, done: true, err: err}
		return
	}
	defer resp.Body.Close()

	buf := make([]byte, 32*1024)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			e.events <- event{fetch: f, chunk: chunk}
		}
		if err == io.EOF {
			e.events <- event{fetch: f, done: true, code: resp.StatusCode}
			return
		}
		if err != nil {
			e.events <- event{fetch: f, done: true, code: resp.StatusCode, err: err}
			return
		}
	}
}

// Outstanding returns the number of registered transfers not yet reaped.
func (e *Engine) Outstanding() int {
	return e.active + len(e.pending)
}

// Drain advances transfers until the outstanding count drops to
// maxOutstanding. Zero drains fully, which serial execution uses; a
// positive bound implements throttled parallel batch execution.
//
// A fatal error (malformed payload) aborts the drain; transport failures
// are logged, latch the failure flag, and never stop sibling transfers.
func (e *Engine) Drain(maxOutstanding int) error {
	spurious := 0
	for e.Outstanding() > maxOutstanding {
		select {
		case ev := <-e.events:
			spurious = 0
			if err := e.handle(ev); err != nil {
				return err
			}
		case <-time.After(waitInterval):
			spurious++
			if spurious >= 2 {
				time.Sleep(spuriousBackoff)
				spurious = 0
			}
		}
	}
	return nil
}

func (e *Engine) handle(ev event) error {
	if !ev.done {
		return ev.fetch.Feed(ev.chunk)
	}

	e.active--
	if len(e.pending) > 0 {
		next := e.pending[0]
		e.pending = e.pending[1:]
		e.start(next)
	}

	if ev.err != nil {
		// Resolution, connect, timeout: warn, latch the exit indicator,
		// keep the siblings running.
		e.failed = true
		e.logger.Warn().Str("job_id", ev.fetch.ID).Str("url", ev.fetch.URL).
			Err(ev.err).Msg("transfer failed")
	} else if err := ev.fetch.complete(ev.code); err != nil {
		return fmt.Errorf("fetch %s: %w", ev.fetch.ID, err)
	}

	if ev.fetch.OnFinish != nil {
		ev.fetch.OnFinish(ev.fetch)
	}
	return nil
}

// Failed reports whether any transfer hit a transport failure. Callers
// merge this into the process exit status.
func (e *Engine) Failed() bool {
	return e.failed
}
