// Package asinfo looks up origin-AS information for addresses seen in
// passive DNS rdata.
//
// Lookups are synchronous DNS TXT queries against the Team Cymru origin
// zones, answered as "asn | prefix | cc | registry | allocated". The
// subsystem is independent of the fetch pipeline: a failed lookup degrades
// to no annotation and never fails the record being presented.
package asinfo

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
	"github.com/rs/zerolog"

	"github.com/dnsdb/pdnsq/pkg/log"
)

const (
	originV4Zone = "origin.asn.cymru.com."
	originV6Zone = "origin6.asn.cymru.com."
)

// Annotator resolves origin-AS TXT records, caching results for the
// process lifetime.
type Annotator struct {
	client *dns.Client
	server string
	cache  map[string]cached
	logger zerolog.Logger
}

type cached struct {
	text string
	ok   bool
}

// New creates an annotator using the given resolver address
// ("host:port"). An empty address uses the system resolver configuration.
func New(resolver string) (*Annotator, error) {
	if resolver == "" {
		conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
		if err != nil {
			return nil, fmt.Errorf("failed to read resolver configuration: %w", err)
		}
		if len(conf.Servers) == 0 {
			return nil, fmt.Errorf("no resolvers configured")
		}
		resolver = net.JoinHostPort(conf.Servers[0], conf.Port)
	}
	return &Annotator{
		client: &dns.Client{Timeout: 3 * time.Second},
		server: resolver,
		cache:  map[string]cached{},
		logger: log.WithComponent("asinfo"),
	}, nil
}

// Lookup returns the origin-AS text for an address, reporting false when
// the address is unparseable or the lookup yields nothing.
func (a *Annotator) Lookup(addr string) (string, bool) {
	if hit, found := a.cache[addr]; found {
		return hit.text, hit.ok
	}
	text, ok := a.resolve(addr)
	a.cache[addr] = cached{text: text, ok: ok}
	return text, ok
}

func (a *Annotator) resolve(addr string) (string, bool) {
	qname, err := OriginName(addr)
	if err != nil {
		return "", false
	}
	msg := new(dns.Msg)
	msg.SetQuestion(qname, dns.TypeTXT)
	msg.RecursionDesired = true

	resp, _, err := a.client.Exchange(msg, a.server)
	if err != nil {
		a.logger.Debug().Str("addr", addr).Err(err).Msg("origin lookup failed")
		return "", false
	}
	if resp.Rcode != dns.RcodeSuccess {
		return "", false
	}
	for _, rr := range resp.Answer {
		if txt, isTXT := rr.(*dns.TXT); isTXT && len(txt.Txt) > 0 {
			return strings.Join(txt.Txt, " "), true
		}
	}
	return "", false
}

// OriginName builds the reverse-notation query name for an address in the
// Cymru origin zones.
func OriginName(addr string) (string, error) {
	ip := net.ParseIP(addr)
	if ip == nil {
		return "", fmt.Errorf("not an address: %q", addr)
	}
	if v4 := ip.To4(); v4 != nil {
		return fmt.Sprintf("%d.%d.%d.%d.%s", v4[3], v4[2], v4[1], v4[0], originV4Zone), nil
	}
	v6 := ip.To16()
	var b strings.Builder
	for i := len(v6) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "%x.%x.", v6[i]&0x0f, v6[i]>>4)
	}
	return b.String() + originV6Zone, nil
}
