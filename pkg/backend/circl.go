package backend

import (
	"net/http"
	"net/url"

	"github.com/dnsdb/pdnsq/pkg/types"
)

const circlBase = "https://www.circl.lu/pdns/query"

// Circl implements Provider for the CIRCL passive DNS service. The service
// takes a bare query value in the path, authenticates with HTTP basic auth,
// and understands neither verbs other than lookup nor server-side fencing,
// rrtype selection, offsets, or row limits. Those constraints are enforced
// here or compensated for client side.
type Circl struct {
	base string
	user string
	pass string
}

func newCircl(cfg Config) *Circl {
	base := cfg.Server
	if base == "" {
		base = circlBase
	}
	return &Circl{base: base, user: cfg.CirclUser, pass: cfg.CirclPass}
}

// Name implements Provider.
func (c *Circl) Name() string {
	return "circl"
}

// Validate implements Provider.
func (c *Circl) Validate(req *Request) error {
	if req.Verb != VerbLookup {
		return types.UsageErrorf("backend circl supports only the lookup verb, not %q", req.Verb)
	}
	if req.Mode == RdataRaw {
		return types.UsageErrorf("backend circl does not support raw rdata queries")
	}
	if req.Bailiwick != "" {
		return types.UsageErrorf("backend circl does not support bailiwick filtering")
	}
	if req.Limit.Set || req.Offset.Set {
		return types.UsageErrorf("offset and row limits are only valid for lookups against dnsdb")
	}
	return nil
}

// QueryURL implements Provider. Every query mode maps to the same bare
// path; the service decides whether the value is a name or an address.
func (c *Circl) QueryURL(req *Request) (string, error) {
	return c.base + "/" + url.PathEscape(req.Thing), nil
}

// Auth implements Provider.
func (c *Circl) Auth(httpReq *http.Request) {
	httpReq.SetBasicAuth(c.user, c.pass)
}

// CheckStatus implements Provider.
func (c *Circl) CheckStatus(code int) (bool, string) {
	switch {
	case code >= 200 && code < 300:
		return true, ""
	case code == http.StatusUnauthorized:
		return false, "unauthorized"
	case code == http.StatusForbidden:
		return false, "forbidden"
	case code == http.StatusTooManyRequests:
		return false, "quota exceeded"
	case code >= 500:
		return false, "server error"
	default:
		return false, "error"
	}
}

// Decode implements Provider.
func (c *Circl) Decode(line []byte) (*types.Tuple, *Control, error) {
	tup, err := types.ParseTuple(line)
	return tup, nil, err
}

// EncodesRRType implements Provider.
func (c *Circl) EncodesRRType() bool {
	return false
}

// InfoURL implements Provider.
func (c *Circl) InfoURL() (string, bool) {
	return "", false
}
