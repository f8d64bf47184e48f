package writer

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dnsdb/pdnsq/pkg/types"
)

// PresentRateText renders a rate-info record as a labeled block. Epoch
// quotas that mark points in time are shown as timestamps.
func PresentRateText(out io.Writer, info *types.RateInfo) error {
	rows := []struct {
		label string
		quota types.Quota
		epoch bool
	}{
		{label: "reset", quota: info.Reset, epoch: true},
		{label: "expires", quota: info.Expires, epoch: true},
		{label: "limit", quota: info.Limit},
		{label: "remaining", quota: info.Remaining},
		{label: "results_max", quota: info.ResultsMax},
		{label: "offset_max", quota: info.OffsetMax},
		{label: "burst_size", quota: info.BurstSize},
		{label: "burst_window", quota: info.BurstWindow},
	}
	for _, row := range rows {
		if row.quota.Kind == types.QuotaAbsent {
			continue
		}
		value := row.quota.String()
		if row.epoch && row.quota.Kind == types.QuotaValue {
			value = time.Unix(row.quota.Value, 0).UTC().Format(timeLayout)
		}
		if _, err := fmt.Fprintf(out, ";; %s: %s\n", row.label, value); err != nil {
			return err
		}
	}
	return nil
}

// PresentRateJSON renders a rate-info record as its wire envelope.
func PresentRateJSON(out io.Writer, info *types.RateInfo) error {
	fields := map[string]interface{}{}
	add := func(name string, q types.Quota) {
		switch q.Kind {
		case types.QuotaNA:
			fields[name] = "n/a"
		case types.QuotaUnlimited:
			fields[name] = "unlimited"
		case types.QuotaValue:
			fields[name] = q.Value
		}
	}
	add("reset", info.Reset)
	add("expires", info.Expires)
	add("limit", info.Limit)
	add("remaining", info.Remaining)
	add("results_max", info.ResultsMax)
	add("offset_max", info.OffsetMax)
	add("burst_size", info.BurstSize)
	add("burst_window", info.BurstWindow)

	data, err := json.Marshal(map[string]interface{}{"rate": fields})
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		return err
	}
	_, err = out.Write([]byte{'\n'})
	return err
}
