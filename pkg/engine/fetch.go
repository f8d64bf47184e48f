package engine

import (
	"bytes"
	"net/http"
	"strings"
)

// Fetch is one outstanding HTTP transfer together with its accumulation
// buffer and line splitter. A Fetch is created at launch time and reaped by
// the engine when its transfer completes.
type Fetch struct {
	// ID identifies the transfer in log output.
	ID string

	// URL is the backend-assigned transfer URL, immutable after launch.
	URL string

	// Prepare injects auth and headers into the outgoing request.
	Prepare func(*http.Request)

	// OnRecord is invoked once per complete response line.
	OnRecord func(line []byte) error

	// CheckStatus decodes the transport result code into a logical outcome.
	CheckStatus func(code int) (ok bool, status string)

	// OnFinish is invoked after the transfer has been reaped, whatever the
	// outcome.
	OnFinish func(f *Fetch)

	buf     []byte
	decided bool
	errBody bool
	errText []byte

	httpCode int
	status   string
	message  string
}

// Feed appends chunk to the accumulation buffer and consumes it fully.
//
// The first byte of the entire response decides, once, whether the stream
// is newline-delimited JSON records or an opaque error body. The decision
// tolerates error text arriving across many chunks. Backends do not set
// Content-Type reliably, so this stays a first-byte check on purpose.
func (f *Fetch) Feed(chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}
	if !f.decided {
		f.decided = true
		f.errBody = chunk[0] != '{'
	}
	if f.errBody {
		f.errText = append(f.errText, chunk...)
		return nil
	}
	f.buf = append(f.buf, chunk...)
	for {
		nl := bytes.IndexByte(f.buf, '\n')
		if nl < 0 {
			return nil
		}
		line := f.buf[:nl]
		f.buf = f.buf[nl+1:]
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if f.OnRecord == nil {
			continue
		}
		if err := f.OnRecord(line); err != nil {
			return err
		}
	}
}

// SetStatus records the fetch's terminal status. The first status wins and
// is immutable afterwards.
func (f *Fetch) SetStatus(status, message string) {
	if f.status != "" {
		return
	}
	f.status = status
	f.message = message
}

// Status returns the terminal (status, message) pair, empty while the
// transfer is still considered successful.
func (f *Fetch) Status() (string, string) {
	return f.status, f.message
}

// HTTPCode returns the transport result code, zero until known.
func (f *Fetch) HTTPCode() int {
	return f.httpCode
}

// complete finishes the fetch once the transfer ends: the final
// unterminated line is processed, an empty body is classified as an error
// body, and the transport code is decoded into the logical status.
func (f *Fetch) complete(code int) error {
	f.httpCode = code
	if !f.errBody && len(f.buf) > 0 {
		line := f.buf
		f.buf = nil
		if len(bytes.TrimSpace(line)) > 0 && f.OnRecord != nil {
			if err := f.OnRecord(line); err != nil {
				return err
			}
		}
	}
	if !f.decided {
		// Nothing ever arrived. An empty body is an error body too.
		f.decided = true
		f.errBody = true
	}
	if f.CheckStatus == nil {
		return nil
	}
	text := strings.TrimSpace(string(f.errText))
	if ok, status := f.CheckStatus(code); !ok {
		f.SetStatus(status, text)
	} else if f.errBody && text != "" && status == "" {
		// Success code but a diagnostic body: keep the text as the status
		// message rather than dropping it.
		f.SetStatus("error", text)
	}
	return nil
}
