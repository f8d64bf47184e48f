package backend

import (
	"net/http"

	"github.com/dnsdb/pdnsq/pkg/types"
)

// Mode selects what the query "thing" is matched against.
type Mode int

const (
	RRSetName Mode = iota // owner name
	RdataName             // rdata value as a name
	RdataIP               // rdata value as an address or prefix
	RdataRaw              // rdata value in raw hex form
)

// pathFragment returns the wire path piece for the mode.
func (m Mode) pathFragment() string {
	switch m {
	case RRSetName:
		return "rrset/name"
	case RdataName:
		return "rdata/name"
	case RdataIP:
		return "rdata/ip"
	case RdataRaw:
		return "rdata/raw"
	default:
		return ""
	}
}

// String names the mode for messages.
func (m Mode) String() string {
	return m.pathFragment()
}

// Verb is the operation applied to the matched records.
type Verb string

const (
	VerbLookup    Verb = "lookup"
	VerbSummarize Verb = "summarize"
)

// Request describes one fetchable transfer against a provider. The rrtype
// fan-out has already happened by the time a Request exists: RRType is
// either one concrete type or empty, meaning any.
type Request struct {
	Mode      Mode
	Thing     string
	RRType    string
	Bailiwick string
	Verb      Verb

	// Fence inputs, passed to backends that support server-side fencing.
	After    types.OptInt
	Before   types.OptInt
	Complete bool

	// Server-side row limit and offset. Only meaningful for lookup against
	// the DNSDB variants.
	Limit  types.OptInt
	Offset types.OptInt
}

// Control is a non-record framing line, produced by backends that envelope
// their record streams.
type Control struct {
	Cond string
	Msg  string
}

// Provider abstracts one wire-compatible passive DNS backend. A provider is
// chosen once at process start and never mutated afterwards.
type Provider interface {
	// Name returns the provider's selection name.
	Name() string

	// Validate checks verb and option capability before any fetch exists.
	Validate(req *Request) error

	// QueryURL builds the ready-to-fetch URL for the request.
	QueryURL(req *Request) (string, error)

	// Auth injects the provider's credentials into an outgoing request.
	Auth(httpReq *http.Request)

	// CheckStatus decodes an HTTP status into a logical outcome. ok=false
	// means the transfer logically failed with the returned status word.
	CheckStatus(code int) (ok bool, status string)

	// Decode interprets one response line as either a record or a control
	// message. Exactly one of the two results is non-nil on success.
	Decode(line []byte) (*types.Tuple, *Control, error)

	// EncodesRRType reports whether the provider filters by rrtype server
	// side. When false the caller must filter records itself.
	EncodesRRType() bool

	// InfoURL returns the account/quota endpoint, if the provider has one.
	InfoURL() (string, bool)
}

// Config carries the credentials and server overrides used to construct a
// provider.
type Config struct {
	Server    string // base URL override, empty for the provider default
	APIKey    string // DNSDB variants
	CirclUser string
	CirclPass string
	Version   string // client version reported to the service
}

// New constructs the named provider. Valid names are "dnsdb1", "dnsdb2"
// (the default) and "circl".
func New(name string, cfg Config) (Provider, error) {
	switch name {
	case "", "dnsdb2":
		return newDnsdb(cfg, true), nil
	case "dnsdb1", "dnsdb":
		return newDnsdb(cfg, false), nil
	case "circl":
		return newCircl(cfg), nil
	default:
		return nil, types.UsageErrorf("unknown backend %q (want dnsdb1, dnsdb2, or circl)", name)
	}
}
