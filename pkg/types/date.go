package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date marshals a calendar day as "YYYY-MM-DD".
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// DatePtr converts an optional time into an optional Date.
func DatePtr(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	d := NewDate(*t)
	return &d
}

// String implements fmt.Stringer.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD" or a full RFC 3339 timestamp.
func (d *Date) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	if parsed, err := time.Parse(DateLayout, raw); err == nil {
		d.Time = parsed
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("invalid date %q", raw)
	}
	*d = NewDate(parsed)
	return nil
}
