package writer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnsdb/pdnsq/pkg/types"
)

// TestPresentRateText tests quota rendering, including the epoch fields
func TestPresentRateText(t *testing.T) {
	info, err := types.ParseRateInfo([]byte(`{"rate":{"reset":100,"limit":1000,"remaining":"n/a","burst_size":"unlimited"}}`))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, PresentRateText(&out, info))

	got := out.String()
	assert.Contains(t, got, ";; reset: 1970-01-01 00:01:40\n")
	assert.Contains(t, got, ";; limit: 1000\n")
	assert.Contains(t, got, ";; remaining: n/a\n")
	assert.Contains(t, got, ";; burst_size: unlimited\n")
	assert.NotContains(t, got, "expires", "absent quotas are omitted")
}

// TestPresentRateJSON tests the wire-envelope rendering
func TestPresentRateJSON(t *testing.T) {
	info, err := types.ParseRateInfo([]byte(`{"rate":{"limit":1000,"remaining":"unlimited"}}`))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, PresentRateJSON(&out, info))
	assert.JSONEq(t, `{"rate":{"limit":1000,"remaining":"unlimited"}}`, out.String())
}
