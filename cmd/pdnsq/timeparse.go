package main

import (
	"strconv"
	"time"

	"github.com/dnsdb/pdnsq/pkg/types"
)

// timeLayouts are the accepted absolute time forms, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimeFlag interprets a fence flag value: empty means unset, a
// non-negative integer is epoch seconds, a negative integer is seconds
// before now, anything else must match one of the absolute layouts
// (interpreted as UTC).
func parseTimeFlag(s string) (types.OptInt, error) {
	return parseTimeAt(s, time.Now())
}

func parseTimeAt(s string, now time.Time) (types.OptInt, error) {
	if s == "" {
		return types.OptInt{}, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			n += now.Unix()
		}
		return types.OptInt{Value: n, Set: true}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return types.OptInt{Value: t.Unix(), Set: true}, nil
		}
	}
	return types.OptInt{}, types.UsageErrorf("unparseable time %q", s)
}
