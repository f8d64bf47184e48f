package types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// QuotaKind distinguishes the four states a rate-limit field can be in.
type QuotaKind int

const (
	QuotaAbsent QuotaKind = iota
	QuotaNA
	QuotaUnlimited
	QuotaValue
)

// Quota is one rate-limit field: absent, "n/a", "unlimited", or an integer.
type Quota struct {
	Kind  QuotaKind
	Value int64
}

// UnmarshalJSON implements json.Unmarshaler.
func (q *Quota) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*q = Quota{Kind: QuotaAbsent}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		switch s {
		case "n/a":
			*q = Quota{Kind: QuotaNA}
		case "unlimited":
			*q = Quota{Kind: QuotaUnlimited}
		default:
			return fmt.Errorf("unexpected quota string %q", s)
		}
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*q = Quota{Kind: QuotaValue, Value: v}
	return nil
}

// String renders the quota the way the backend spells it.
func (q Quota) String() string {
	switch q.Kind {
	case QuotaNA:
		return "n/a"
	case QuotaUnlimited:
		return "unlimited"
	case QuotaValue:
		return strconv.FormatInt(q.Value, 10)
	default:
		return ""
	}
}

// RateInfo is the account/quota record returned by a backend's info
// operation.
type RateInfo struct {
	Reset       Quota `json:"reset"`
	Expires     Quota `json:"expires"`
	Limit       Quota `json:"limit"`
	Remaining   Quota `json:"remaining"`
	ResultsMax  Quota `json:"results_max"`
	OffsetMax   Quota `json:"offset_max"`
	BurstSize   Quota `json:"burst_size"`
	BurstWindow Quota `json:"burst_window"`
}

// ParseRateInfo decodes a rate-info response body of the form
// {"rate": {...}}.
func ParseRateInfo(body []byte) (*RateInfo, error) {
	var envelope struct {
		Rate *RateInfo `json:"rate"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &Error{
			Kind:    KindMalformed,
			Message: fmt.Sprintf("rate info is not valid JSON: %v", err),
			Err:     err,
		}
	}
	if envelope.Rate == nil {
		return nil, &Error{Kind: KindMalformed, Message: "rate info has no rate object"}
	}
	return envelope.Rate, nil
}
