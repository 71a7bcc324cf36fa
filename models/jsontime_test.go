package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestJSONTimeUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"rfc3339 with zone", `"2026-03-15T10:30:00+05:30"`, false},
		{"rfc3339 utc", `"2026-03-15T10:30:00Z"`, false},
		{"nanoseconds", `"2026-03-15T10:30:00.123456789Z"`, false},
		{"microseconds no zone", `"2026-03-15T10:30:00.123456"`, false},
		{"milliseconds no zone", `"2026-03-15T10:30:00.000"`, false},
		{"seconds no zone", `"2026-03-15T10:30:00"`, false},
		{"date only", `"2026-03-15"`, true},
		{"garbage", `"next tuesday"`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var jt JSONTime
			err := json.Unmarshal([]byte(tt.input), &jt)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && time.Time(jt).IsZero() {
				t.Errorf("Unmarshal(%s) produced zero time", tt.input)
			}
		})
	}
}

func TestJSONTimeMarshalIsRFC3339(t *testing.T) {
	jt := JSONTime(time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC))

	out, err := json.Marshal(jt)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != `"2026-03-15T10:30:00Z"` {
		t.Errorf("Marshal = %s, want %q", out, `"2026-03-15T10:30:00Z"`)
	}
}

func TestJSONTimeRoundTripNormalizes(t *testing.T) {
	var jt JSONTime
	if err := json.Unmarshal([]byte(`"2026-03-15T10:30:00.500"`), &jt); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	out, err := json.Marshal(jt)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	// Fractional seconds are dropped on output; clients always read RFC3339.
	if string(out) != `"2026-03-15T10:30:00Z"` {
		t.Errorf("round trip = %s, want %q", out, `"2026-03-15T10:30:00Z"`)
	}
}

func TestJSONTimeScan(t *testing.T) {
	ref := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	var jt JSONTime
	if err := jt.Scan(ref); err != nil {
		t.Fatalf("Scan(time.Time): %v", err)
	}
	if !time.Time(jt).Equal(ref) {
		t.Errorf("Scan(time.Time) = %v, want %v", time.Time(jt), ref)
	}

	if err := jt.Scan("2026-03-15T10:30:00Z"); err != nil {
		t.Fatalf("Scan(string): %v", err)
	}
	if err := jt.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if !time.Time(jt).IsZero() {
		t.Errorf("Scan(nil) should zero the value")
	}
	if err := jt.Scan(42); err == nil {
		t.Errorf("Scan(int) should fail")
	}
}
