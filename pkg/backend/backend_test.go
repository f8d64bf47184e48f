package backend

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnsdb/pdnsq/pkg/types"
)

func mustParams(t *testing.T, rawURL string) url.Values {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return u.Query()
}

// TestNewProvider tests provider selection by name
func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		selector string
		want     string
		wantErr  bool
	}{
		{name: "default is dnsdb2", selector: "", want: "dnsdb2"},
		{name: "dnsdb2 explicit", selector: "dnsdb2", want: "dnsdb2"},
		{name: "dnsdb1", selector: "dnsdb1", want: "dnsdb1"},
		{name: "dnsdb alias", selector: "dnsdb", want: "dnsdb1"},
		{name: "circl", selector: "circl", want: "circl"},
		{name: "unknown", selector: "dnsgrep", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.selector, Config{})
			if tt.wantErr {
				require.Error(t, err)
				var perr *types.Error
				require.ErrorAs(t, err, &perr)
				assert.Equal(t, types.KindUsage, perr.Kind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Name())
		})
	}
}

// TestDnsdbQueryURL tests path layout and fence parameters
func TestDnsdbQueryURL(t *testing.T) {
	p, err := New("dnsdb2", Config{APIKey: "k", Version: "1.0"})
	require.NoError(t, err)

	req := &Request{
		Mode:   RRSetName,
		Thing:  "www.example.com",
		RRType: "A",
		Verb:   VerbLookup,
		After:  types.NewOptInt(100),
		Before: types.NewOptInt(200),
		Limit:  types.NewOptInt(50),
	}
	u, err := p.QueryURL(req)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(u, "https://api.dnsdb.info/dnsdb/v2/lookup/rrset/name/www.example.com/A?"), "got %s", u)
	params := mustParams(t, u)
	assert.Equal(t, "100", params.Get("time_last_after"), "loose fence keys on last_after")
	assert.Equal(t, "200", params.Get("time_first_before"), "loose fence keys on first_before")
	assert.Equal(t, "50", params.Get("limit"))
	assert.Equal(t, "pdnsq", params.Get("swclient"))
}

// TestDnsdbStrictFenceParams tests complete=true parameter selection
func TestDnsdbStrictFenceParams(t *testing.T) {
	p, err := New("dnsdb1", Config{})
	require.NoError(t, err)

	u, err := p.QueryURL(&Request{
		Mode:     RdataIP,
		Thing:    "192.0.2.1",
		Verb:     VerbLookup,
		After:    types.NewOptInt(100),
		Before:   types.NewOptInt(200),
		Complete: true,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(u, "https://api.dnsdb.info/lookup/rdata/ip/192.0.2.1?"), "got %s", u)
	params := mustParams(t, u)
	assert.Equal(t, "100", params.Get("time_first_after"))
	assert.Equal(t, "200", params.Get("time_last_before"))
	assert.Empty(t, params.Get("time_last_after"))
}

// TestDnsdbBailiwickPath tests the ANY placeholder for bailiwick-only queries
func TestDnsdbBailiwickPath(t *testing.T) {
	p, err := New("dnsdb2", Config{})
	require.NoError(t, err)

	u, err := p.QueryURL(&Request{
		Mode:      RRSetName,
		Thing:     "www.example.com",
		Bailiwick: "example.com",
		Verb:      VerbLookup,
	})
	require.NoError(t, err)
	assert.Contains(t, u, "/rrset/name/www.example.com/ANY/example.com?")
}

// TestDnsdbStatusDecoding tests the v1/v2 404 divergence
func TestDnsdbStatusDecoding(t *testing.T) {
	v1, err := New("dnsdb1", Config{})
	require.NoError(t, err)
	v2, err := New("dnsdb2", Config{})
	require.NoError(t, err)

	ok, status := v1.CheckStatus(http.StatusNotFound)
	assert.False(t, ok)
	assert.Equal(t, "not found", status)

	ok, status = v2.CheckStatus(http.StatusNotFound)
	assert.True(t, ok, "v2 treats 404 as no results")
	assert.Equal(t, "no results", status)

	ok, _ = v2.CheckStatus(http.StatusOK)
	assert.True(t, ok)
	ok, status = v2.CheckStatus(http.StatusTooManyRequests)
	assert.False(t, ok)
	assert.Equal(t, "quota exceeded", status)
}

// TestDnsdbV2Decode tests SAF envelope unwrapping
func TestDnsdbV2Decode(t *testing.T) {
	p, err := New("dnsdb2", Config{})
	require.NoError(t, err)

	tup, ctrl, err := p.Decode([]byte(`{"cond":"begin"}`))
	require.NoError(t, err)
	assert.Nil(t, tup)
	require.NotNil(t, ctrl)
	assert.Equal(t, "begin", ctrl.Cond)

	tup, ctrl, err = p.Decode([]byte(`{"obj":{"rrname":"x.example.com","rrtype":"A","rdata":"1.2.3.4"}}`))
	require.NoError(t, err)
	assert.Nil(t, ctrl)
	require.NotNil(t, tup)
	assert.Equal(t, "x.example.com", tup.RRName)
	assert.JSONEq(t, `{"rrname":"x.example.com","rrtype":"A","rdata":"1.2.3.4"}`, string(tup.Raw))

	_, ctrl, err = p.Decode([]byte(`{"cond":"limited","msg":"query limit reached"}`))
	require.NoError(t, err)
	require.NotNil(t, ctrl)
	assert.Equal(t, "limited", ctrl.Cond)
	assert.Equal(t, "query limit reached", ctrl.Msg)

	_, _, err = p.Decode([]byte(`not json`))
	require.Error(t, err)
	var perr *types.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, types.KindMalformed, perr.Kind)
}

// TestDnsdbV1Decode tests the legacy record-per-line encoding
func TestDnsdbV1Decode(t *testing.T) {
	p, err := New("dnsdb1", Config{})
	require.NoError(t, err)

	tup, ctrl, err := p.Decode([]byte(`{"rrname":"x.example.com","rrtype":"A","rdata":"1.2.3.4"}`))
	require.NoError(t, err)
	assert.Nil(t, ctrl)
	assert.Equal(t, "x.example.com", tup.RRName)
}

// TestDnsdbAuthHeader tests API key injection
func TestDnsdbAuthHeader(t *testing.T) {
	p, err := New("dnsdb2", Config{APIKey: "secret"})
	require.NoError(t, err)

	httpReq := httptest.NewRequest(http.MethodGet, "https://api.dnsdb.info/", nil)
	p.Auth(httpReq)
	assert.Equal(t, "secret", httpReq.Header.Get("X-API-Key"))
}

// TestCirclCapabilities tests verb and option validation
func TestCirclCapabilities(t *testing.T) {
	p, err := New("circl", Config{CirclUser: "u", CirclPass: "p"})
	require.NoError(t, err)

	assert.NoError(t, p.Validate(&Request{Mode: RRSetName, Thing: "example.com", Verb: VerbLookup}))
	assert.Error(t, p.Validate(&Request{Mode: RRSetName, Thing: "example.com", Verb: VerbSummarize}))
	assert.Error(t, p.Validate(&Request{Mode: RdataRaw, Thing: "0a", Verb: VerbLookup}))
	assert.Error(t, p.Validate(&Request{Mode: RRSetName, Thing: "example.com", Verb: VerbLookup, Offset: types.NewOptInt(10)}))
	assert.False(t, p.EncodesRRType())

	_, hasInfo := p.InfoURL()
	assert.False(t, hasInfo)
}

// TestCirclURLAndAuth tests the bare-path URL and basic auth
func TestCirclURLAndAuth(t *testing.T) {
	p, err := New("circl", Config{CirclUser: "user", CirclPass: "pass"})
	require.NoError(t, err)

	u, err := p.QueryURL(&Request{Mode: RRSetName, Thing: "example.com", Verb: VerbLookup})
	require.NoError(t, err)
	assert.Equal(t, "https://www.circl.lu/pdns/query/example.com", u)

	httpReq := httptest.NewRequest(http.MethodGet, u, nil)
	p.Auth(httpReq)
	user, pass, set := httpReq.BasicAuth()
	assert.True(t, set)
	assert.Equal(t, "user", user)
	assert.Equal(t, "pass", pass)
}

// TestDnsdbOffsetValidation tests offsets being lookup-only
func TestDnsdbOffsetValidation(t *testing.T) {
	p, err := New("dnsdb2", Config{})
	require.NoError(t, err)

	assert.NoError(t, p.Validate(&Request{Mode: RRSetName, Thing: "example.com", Verb: VerbLookup, Offset: types.NewOptInt(100)}))
	assert.Error(t, p.Validate(&Request{Mode: RRSetName, Thing: "example.com", Verb: VerbSummarize, Offset: types.NewOptInt(100)}))
}

// TestInfoURLs tests the per-variant info endpoints
func TestInfoURLs(t *testing.T) {
	v1, _ := New("dnsdb1", Config{})
	u, ok := v1.InfoURL()
	assert.True(t, ok)
	assert.Equal(t, "https://api.dnsdb.info/lookup/rate_limit", u)

	v2, _ := New("dnsdb2", Config{})
	u, ok = v2.InfoURL()
	assert.True(t, ok)
	assert.Equal(t, "https://api.dnsdb.info/dnsdb/v2/rate_limit", u)
}
