package sorter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCollateNameNormalization tests case, trailing-dot, and separator
// insensitivity
func TestCollateNameNormalization(t *testing.T) {
	assert.Equal(t, CollateName("www.example.com"), CollateName("WWW.Example.com."))
	assert.Equal(t, "comexamplewww", CollateName("www.example.com"))
}

// TestCollateNameTLDFirst tests that sibling names share a reversed-label
// prefix and differ only in the trailing label
func TestCollateNameTLDFirst(t *testing.T) {
	foo := CollateName("foo.example.com")
	bar := CollateName("bar.example.com")

	assert.True(t, strings.HasPrefix(foo, "comexample"), "foo key %q", foo)
	assert.True(t, strings.HasPrefix(bar, "comexample"), "bar key %q", bar)
	assert.Equal(t, "comexamplefoo", foo)
	assert.Equal(t, "comexamplebar", bar)
}

// TestCollateNameStripsNonAlnum tests removal of separators and punycode
// punctuation
func TestCollateNameStripsNonAlnum(t *testing.T) {
	assert.Equal(t, "comexamplesub1", CollateName("sub-1.example.com"))
	assert.Equal(t, "comexamplewild", CollateName("_wild.example.com"))
}

// TestCollateNameEmpty tests that degenerate names still yield a usable key
func TestCollateNameEmpty(t *testing.T) {
	assert.NotEmpty(t, CollateName(""))
	assert.NotEmpty(t, CollateName("."))
}

func TestCollateRdata(t *testing.T) {
	tests := []struct {
		name   string
		rrtype string
		rdatum string
		want   string
	}{
		{
			name:   "A address fixed width",
			rrtype: "A",
			rdatum: "1.2.3.4",
			want:   "01020304",
		},
		{
			name:   "A invalid collates as zero bytes",
			rrtype: "A",
			rdatum: "not-an-address",
			want:   "00000000",
		},
		{
			name:   "AAAA address fixed width",
			rrtype: "AAAA",
			rdatum: "2001:db8::1",
			want:   "20010db8000000000000000000000001",
		},
		{
			name:   "AAAA invalid collates as zero bytes",
			rrtype: "aaaa",
			rdatum: "::gg",
			want:   "00000000000000000000000000000000",
		},
		{
			name:   "NS collates as name",
			rrtype: "NS",
			rdatum: "ns1.Example.COM.",
			want:   "comexamplens1",
		},
		{
			name:   "CNAME collates as name",
			rrtype: "cname",
			rdatum: "www.example.com.",
			want:   "comexamplewww",
		},
		{
			name:   "MX collates target after last space",
			rrtype: "MX",
			rdatum: "10 mail.example.com.",
			want:   "comexamplemail",
		},
		{
			name:   "MX without space falls back to hex",
			rrtype: "MX",
			rdatum: "oops",
			want:   "6f6f7073",
		},
		{
			name:   "TXT collates as hex of bytes",
			rrtype: "TXT",
			rdatum: "v=spf1 -all",
			want:   "763d73706631202d616c6c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CollateRdata(tt.rrtype, tt.rdatum))
		})
	}
}

// TestCollateAddrOrdering tests that hex rendering preserves numeric
// address order
func TestCollateAddrOrdering(t *testing.T) {
	low := CollateRdata("A", "1.2.3.4")
	high := CollateRdata("A", "10.2.3.4")
	assert.Less(t, low, high)
}
