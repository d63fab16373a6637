package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateMarshalsCalendarDay(t *testing.T) {
	d := NewDate(time.Date(2026, 3, 7, 22, 15, 0, 0, time.UTC))
	out, err := json.Marshal(struct {
		Delivery Date `json:"delivery_date"`
	}{Delivery: d})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"delivery_date":"2026-03-07"}` {
		t.Fatalf("unexpected json %s", out)
	}
}

func TestDateUnmarshal(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2026-03-07"`), &d); err != nil {
		t.Fatalf("unmarshal date: %v", err)
	}
	if d.String() != "2026-03-07" {
		t.Fatalf("unexpected date %s", d)
	}

	if err := json.Unmarshal([]byte(`"2026-03-08T10:00:00Z"`), &d); err != nil {
		t.Fatalf("unmarshal timestamp: %v", err)
	}
	if d.String() != "2026-03-08" {
		t.Fatalf("expected timestamp truncated to day, got %s", d)
	}

	if err := json.Unmarshal([]byte(`"March 7"`), &d); err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestDatePtr(t *testing.T) {
	if DatePtr(nil) != nil {
		t.Fatal("expected nil")
	}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if got := DatePtr(&now); got == nil || got.String() != "2026-01-02" {
		t.Fatalf("unexpected %v", got)
	}
}
