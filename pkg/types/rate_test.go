package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseRateInfo tests the mixed integer/"n/a"/"unlimited" quota states
func TestParseRateInfo(t *testing.T) {
	body := []byte(`{"rate":{"reset":1468275600,"limit":1000,"remaining":999,"results_max":"n/a","burst_size":"unlimited"}}`)
	info, err := ParseRateInfo(body)
	require.NoError(t, err)

	assert.Equal(t, Quota{Kind: QuotaValue, Value: 1468275600}, info.Reset)
	assert.Equal(t, Quota{Kind: QuotaValue, Value: 1000}, info.Limit)
	assert.Equal(t, Quota{Kind: QuotaValue, Value: 999}, info.Remaining)
	assert.Equal(t, QuotaNA, info.ResultsMax.Kind)
	assert.Equal(t, QuotaUnlimited, info.BurstSize.Kind)
	assert.Equal(t, QuotaAbsent, info.Expires.Kind)
	assert.Equal(t, QuotaAbsent, info.OffsetMax.Kind)
	assert.Equal(t, QuotaAbsent, info.BurstWindow.Kind)
}

// TestParseRateInfoErrors tests malformed rate-info bodies
func TestParseRateInfoErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "quota exceeded"},
		{name: "no rate object", body: `{"error":"nope"}`},
		{name: "bad quota string", body: `{"rate":{"limit":"lots"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRateInfo([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}

// TestQuotaString tests quota rendering
func TestQuotaString(t *testing.T) {
	assert.Equal(t, "n/a", Quota{Kind: QuotaNA}.String())
	assert.Equal(t, "unlimited", Quota{Kind: QuotaUnlimited}.String())
	assert.Equal(t, "42", Quota{Kind: QuotaValue, Value: 42}.String())
	assert.Equal(t, "", Quota{}.String())
}
