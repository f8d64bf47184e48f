package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnsdb/pdnsq/pkg/backend"
	"github.com/dnsdb/pdnsq/pkg/query"
	"github.com/dnsdb/pdnsq/pkg/types"
)

func TestParseBatch(t *testing.T) {
	in := strings.NewReader(`# comment
rrset/name/www.example.com/A/example.com

rdata/name/ns1.example.com/NS
rdata/ip/192.0.2.0,24
rdata/raw/0123456789abcdef
`)
	common := query.Spec{Limit: types.OptInt{Value: 5, Set: true}}
	specs, err := parseBatch(in, common)
	require.NoError(t, err)
	require.Len(t, specs, 4)

	assert.Equal(t, backend.RRSetName, specs[0].Mode)
	assert.Equal(t, "www.example.com", specs[0].Thing)
	assert.Equal(t, "A", specs[0].RRTypeList)
	assert.Equal(t, "example.com", specs[0].Bailiwick)

	assert.Equal(t, backend.RdataName, specs[1].Mode)
	assert.Equal(t, "NS", specs[1].RRTypeList)

	assert.Equal(t, backend.RdataIP, specs[2].Mode)
	assert.Equal(t, "192.0.2.0,24", specs[2].Thing)

	assert.Equal(t, backend.RdataRaw, specs[3].Mode)
	assert.Equal(t, "0123456789abcdef", specs[3].Thing)

	// Command-line options carry into every entry.
	for _, spec := range specs {
		assert.Equal(t, int64(5), spec.Limit.Value)
	}
}

func TestParseBatchLineErrors(t *testing.T) {
	for _, line := range []string{
		"rrset",
		"rrset/name",
		"rrset/name/",
		"rrset/owner/www.example.com",
		"rdata/name/ns1.example.com/NS/example.com",
		"gibberish",
	} {
		_, err := parseBatchLine(line, query.Spec{})
		assert.Error(t, err, "line %q", line)
	}
}

func TestParseBatchReportsLineNumber(t *testing.T) {
	in := strings.NewReader("rrset/name/www.example.com\nbogus line\n")
	_, err := parseBatch(in, query.Spec{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch line 2")
}
