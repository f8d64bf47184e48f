package types

import (
	"encoding/json"
	"fmt"
)

// OptInt is an integer field whose presence is tracked separately from its
// value. Passive DNS records may legitimately carry zero counts and epoch
// zero timestamps, so absence can never be inferred from the value itself.
type OptInt struct {
	Value int64
	Set   bool
}

// NewOptInt returns a present OptInt holding v.
func NewOptInt(v int64) OptInt {
	return OptInt{Value: v, Set: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptInt) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = OptInt{}
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = v
	o.Set = true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (o OptInt) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// OptString is a string field with explicit presence tracking.
type OptString struct {
	Value string
	Set   bool
}

// NewOptString returns a present OptString holding v.
func NewOptString(v string) OptString {
	return OptString{Value: v, Set: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = OptString{}
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = v
	o.Set = true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (o OptString) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Rdata holds a record's data as an ordered sequence of strings. The wire
// format allows either a single string or an array of strings; both decode
// into the same representation.
type Rdata []string

// UnmarshalJSON implements json.Unmarshaler.
func (r *Rdata) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		var seq []string
		if err := json.Unmarshal(data, &seq); err != nil {
			return err
		}
		*r = seq
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = Rdata{s}
	return nil
}

// Tuple is one parsed passive DNS observation record.
type Tuple struct {
	TimeFirst  OptInt    `json:"time_first"`
	TimeLast   OptInt    `json:"time_last"`
	ZoneFirst  OptInt    `json:"zone_first"`
	ZoneLast   OptInt    `json:"zone_last"`
	Count      OptInt    `json:"count"`
	Bailiwick  OptString `json:"bailiwick"`
	RRName     string    `json:"rrname"`
	RRType     string    `json:"rrtype"`
	Rdata      Rdata     `json:"rdata"`
	NumResults OptInt    `json:"num_results"`

	// Raw is the original JSON encoding of the record, preserved for
	// passthrough presentation and for the sorter payload.
	Raw []byte `json:"-"`
}

// ParseTuple decodes one newline-delimited JSON record. A line that is not
// valid JSON is a protocol violation by the backend and yields a Malformed
// error.
func ParseTuple(line []byte) (*Tuple, error) {
	var t Tuple
	if err := json.Unmarshal(line, &t); err != nil {
		return nil, &Error{
			Kind:    KindMalformed,
			Message: fmt.Sprintf("record is not valid JSON: %v", err),
			Err:     err,
		}
	}
	t.Raw = append([]byte(nil), line...)
	return &t, nil
}

// First returns the earliest observation time, preferring the record time
// and falling back to the zone time.
func (t *Tuple) First() OptInt {
	if t.TimeFirst.Set {
		return t.TimeFirst
	}
	return t.ZoneFirst
}

// Last returns the latest observation time, preferring the record time and
// falling back to the zone time.
func (t *Tuple) Last() OptInt {
	if t.TimeLast.Set {
		return t.TimeLast
	}
	return t.ZoneLast
}

// ZoneOnly reports whether the record carries zone times but no record
// times, which presenters label differently.
func (t *Tuple) ZoneOnly() bool {
	return !t.TimeFirst.Set && !t.TimeLast.Set && (t.ZoneFirst.Set || t.ZoneLast.Set)
}
