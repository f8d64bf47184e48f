package query

import (
	"strings"

	"github.com/miekg/dns"

	"github.com/dnsdb/pdnsq/pkg/backend"
	"github.com/dnsdb/pdnsq/pkg/engine"
	"github.com/dnsdb/pdnsq/pkg/log"
	"github.com/dnsdb/pdnsq/pkg/types"
	"github.com/dnsdb/pdnsq/pkg/writer"
)

// dnssecTypes are the types the any-dnssec pseudo-type expands to.
var dnssecTypes = map[string]bool{
	"DS": true, "RRSIG": true, "NSEC": true, "DNSKEY": true,
	"CDNSKEY": true, "CDS": true, "TA": true, "NSEC3": true,
	"NSEC3PARAM": true, "DLV": true,
}

// Spec describes one logical user request before validation.
type Spec struct {
	Mode       backend.Mode
	Thing      string
	RRTypeList string // comma-separated, empty for any
	Bailiwick  string
	Verb       backend.Verb
	After      types.OptInt
	Before     types.OptInt
	Complete   bool
	Limit      types.OptInt // server-side row limit
	Offset     types.OptInt
}

// Query is one validated logical request, owning the fetches created from
// its rrtype fan-out and the time fence derived once from its spec.
type Query struct {
	Spec
	RRTypes []string
	Fence   types.TimeFence

	status  string
	message string
}

// New validates the spec and derives the fence. Validation failures are
// usage errors raised before any network activity.
func New(spec Spec) (*Query, error) {
	if spec.Thing == "" {
		return nil, types.UsageErrorf("query has nothing to look up")
	}
	rrtypes, err := ParseRRTypeList(spec.RRTypeList)
	if err != nil {
		return nil, err
	}
	if spec.Verb == "" {
		spec.Verb = backend.VerbLookup
	}
	return &Query{
		Spec:    spec,
		RRTypes: rrtypes,
		Fence:   types.NewTimeFence(spec.After, spec.Before, spec.Complete),
	}, nil
}

// ParseRRTypeList validates and canonicalizes a comma-separated rrtype
// list. Rules, checked case-insensitively: no duplicates; "any" excludes
// every specific non-DNSSEC type; "any-dnssec" excludes every specific
// DNSSEC type; at most engine.MaxFetches distinct entries.
func ParseRRTypeList(list string) ([]string, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	var (
		out       []string
		seen      = map[string]bool{}
		hasAny    bool
		hasAnySec bool
		specSec   bool // at least one specific DNSSEC type
		specPlain bool // at least one specific non-DNSSEC type
	)
	for _, raw := range strings.Split(list, ",") {
		entry := strings.ToUpper(strings.TrimSpace(raw))
		if entry == "" {
			return nil, types.UsageErrorf("empty entry in rrtype list %q", list)
		}
		if seen[entry] {
			return nil, types.UsageErrorf("duplicate rrtype %q", strings.ToLower(entry))
		}
		seen[entry] = true

		switch entry {
		case "ANY":
			hasAny = true
		case "ANY-DNSSEC":
			hasAnySec = true
		default:
			if dnssecTypes[entry] {
				specSec = true
			} else {
				specPlain = true
			}
			// Canonicalize mnemonics the resolver library knows; unknown
			// tokens pass through for the server to judge.
			if code, known := dns.StringToType[entry]; known {
				entry = dns.TypeToString[code]
			}
		}
		out = append(out, entry)
	}
	if hasAny && specPlain {
		return nil, types.UsageErrorf("any cannot be combined with specific rrtypes")
	}
	if hasAnySec && specSec {
		return nil, types.UsageErrorf("any-dnssec cannot be combined with specific DNSSEC rrtypes")
	}
	if len(out) > engine.MaxFetches {
		return nil, types.UsageErrorf("rrtype list has %d entries, more than the %d concurrent fetches allowed",
			len(out), engine.MaxFetches)
	}
	return out, nil
}

// Launch expands the query into one fetch per rrtype (or a single
// unconstrained fetch), wires each fetch into the writer, and registers
// them with the engine. Capability violations surface before any fetch is
// registered.
func (q *Query) Launch(eng *engine.Engine, p backend.Provider, w *writer.Writer) error {
	rrtypes := q.RRTypes
	if len(rrtypes) == 0 {
		rrtypes = []string{""}
	}

	// Validate and build every URL first so a bad combination fails the
	// whole query with no network activity.
	requests := make([]*backend.Request, 0, len(rrtypes))
	urls := make([]string, 0, len(rrtypes))
	for _, rt := range rrtypes {
		req := &backend.Request{
			Mode:      q.Mode,
			Thing:     q.Thing,
			RRType:    rt,
			Bailiwick: q.Bailiwick,
			Verb:      q.Verb,
			After:     q.After,
			Before:    q.Before,
			Complete:  q.Complete,
			Limit:     q.Limit,
			Offset:    q.Offset,
		}
		if err := p.Validate(req); err != nil {
			return err
		}
		u, err := p.QueryURL(req)
		if err != nil {
			return err
		}
		requests = append(requests, req)
		urls = append(urls, u)
	}

	logger := log.WithComponent("query")
	for i, req := range requests {
		rt := req.RRType
		f := &engine.Fetch{
			URL:         urls[i],
			Prepare:     p.Auth,
			CheckStatus: p.CheckStatus,
		}
		f.OnRecord = func(line []byte) error {
			tup, ctrl, err := p.Decode(line)
			if err != nil {
				return err
			}
			if ctrl != nil {
				switch ctrl.Cond {
				case "failed":
					f.SetStatus("failed", ctrl.Msg)
				case "limited":
					logger.Debug().Str("job_id", f.ID).Str("msg", ctrl.Msg).Msg("stream limited")
				}
				return nil
			}
			if rt != "" && !p.EncodesRRType() && !strings.EqualFold(tup.RRType, rt) {
				return nil
			}
			return w.Accept(q.Fence, tup)
		}
		f.OnFinish = func(f *engine.Fetch) {
			status, message := f.Status()
			if status == "" {
				return
			}
			if q.status == "" {
				q.status = status
				q.message = message
			}
			w.RecordStatus(status, message)
		}
		eng.Launch(f)
	}
	return nil
}

// Status returns the query's aggregate (status, message): the first
// non-success status observed among its fetches.
func (q *Query) Status() (string, string) {
	return q.status, q.message
}
