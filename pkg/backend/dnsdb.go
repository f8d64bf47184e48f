package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dnsdb/pdnsq/pkg/types"
)

const (
	dnsdbV1Base = "https://api.dnsdb.info"
	dnsdbV2Base = "https://api.dnsdb.info/dnsdb/v2"
)

// Dnsdb implements Provider for the DNSDB service, in both the legacy
// record-per-line encoding (v1) and the structured record framing (v2).
type Dnsdb struct {
	base    string
	apiKey  string
	version string
	v2      bool
}

func newDnsdb(cfg Config, v2 bool) *Dnsdb {
	base := cfg.Server
	if base == "" {
		if v2 {
			base = dnsdbV2Base
		} else {
			base = dnsdbV1Base
		}
	}
	return &Dnsdb{base: base, apiKey: cfg.APIKey, version: cfg.Version, v2: v2}
}

// Name implements Provider.
func (d *Dnsdb) Name() string {
	if d.v2 {
		return "dnsdb2"
	}
	return "dnsdb1"
}

// Validate implements Provider.
func (d *Dnsdb) Validate(req *Request) error {
	switch req.Verb {
	case VerbLookup:
	case VerbSummarize:
		if req.Offset.Set {
			return types.UsageErrorf("offset is only valid with the lookup verb")
		}
	default:
		return types.UsageErrorf("backend %s does not support verb %q", d.Name(), req.Verb)
	}
	if req.Bailiwick != "" && req.Mode != RRSetName {
		return types.UsageErrorf("bailiwick filtering applies to rrset queries only")
	}
	return nil
}

// QueryURL implements Provider.
func (d *Dnsdb) QueryURL(req *Request) (string, error) {
	path := fmt.Sprintf("%s/%s/%s/%s", d.base, req.Verb, req.Mode.pathFragment(), url.PathEscape(req.Thing))
	if req.RRType != "" {
		path += "/" + url.PathEscape(req.RRType)
		if req.Bailiwick != "" {
			path += "/" + url.PathEscape(req.Bailiwick)
		}
	} else if req.Bailiwick != "" {
		// The bailiwick path element follows the rrtype element, so an
		// unconstrained type is spelled out as ANY.
		path += "/ANY/" + url.PathEscape(req.Bailiwick)
	}

	params := url.Values{}
	params.Set("swclient", "pdnsq")
	if d.version != "" {
		params.Set("version", d.version)
	}
	fenceParams(params, req)
	if req.Limit.Set {
		params.Set("limit", strconv.FormatInt(req.Limit.Value, 10))
	}
	if req.Offset.Set {
		params.Set("offset", strconv.FormatInt(req.Offset.Value, 10))
	}
	return path + "?" + params.Encode(), nil
}

// fenceParams appends the server-side time fence. Strict fencing asks for
// records fully inside the window, loose fencing for records overlapping it.
func fenceParams(params url.Values, req *Request) {
	if req.Complete {
		if req.After.Set {
			params.Set("time_first_after", strconv.FormatInt(req.After.Value, 10))
		}
		if req.Before.Set {
			params.Set("time_last_before", strconv.FormatInt(req.Before.Value, 10))
		}
		return
	}
	if req.After.Set {
		params.Set("time_last_after", strconv.FormatInt(req.After.Value, 10))
	}
	if req.Before.Set {
		params.Set("time_first_before", strconv.FormatInt(req.Before.Value, 10))
	}
}

// Auth implements Provider.
func (d *Dnsdb) Auth(httpReq *http.Request) {
	httpReq.Header.Set("X-API-Key", d.apiKey)
	httpReq.Header.Set("Accept", "application/jsonl")
}

// CheckStatus implements Provider. The v2 service reports an empty result
// set as HTTP 404, which is not an error; the v1 service uses 404 for a
// genuinely bad path.
func (d *Dnsdb) CheckStatus(code int) (bool, string) {
	switch {
	case code >= 200 && code < 300:
		return true, ""
	case code == http.StatusNotFound && d.v2:
		return true, "no results"
	case code == http.StatusNotFound:
		return false, "not found"
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

// safLine is the v2 streaming framing: every line is an envelope holding
// either a record object or a condition marker.
type safLine struct {
	Cond string          `json:"cond"`
	Obj  json.RawMessage `json:"obj"`
	Msg  string          `json:"msg"`
}

// Decode implements Provider.
func (d *Dnsdb) Decode(line []byte) (*types.Tuple, *Control, error) {
	if !d.v2 {
		tup, err := types.ParseTuple(line)
		return tup, nil, err
	}
	var saf safLine
	if err := json.Unmarshal(line, &saf); err != nil {
		return nil, nil, &types.Error{
			Kind:    types.KindMalformed,
			Message: fmt.Sprintf("framing line is not valid JSON: %v", err),
			Err:     err,
		}
	}
	if len(saf.Obj) > 0 {
		tup, err := types.ParseTuple(saf.Obj)
		return tup, nil, err
	}
	return nil, &Control{Cond: saf.Cond, Msg: saf.Msg}, nil
}

// EncodesRRType implements Provider.
func (d *Dnsdb) EncodesRRType() bool {
	return true
}

// InfoURL implements Provider.
func (d *Dnsdb) InfoURL() (string, bool) {
	if d.v2 {
		return d.base + "/rate_limit", true
	}
	return d.base + "/lookup/rate_limit", true
}
