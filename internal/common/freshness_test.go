package common

import (
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{"rfc3339", "2026-08-29T10:00:00Z", time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC), true},
		{"rfc3339 offset", "2026-08-29T12:00:00+02:00", time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC), true},
		{"naive T", "2026-08-29T10:00:00", time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC), true},
		{"naive space", "2026-08-29 10:00:00", time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"garbage", "yesterday", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.input)
			if ok != tt.ok {
				t.Fatalf("ok=%v, want %v", ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsFreshAt(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 5, 0, 0, time.UTC)
	ttl := 300 * time.Second

	tests := []struct {
		name        string
		lastRefresh string
		want        bool
	}{
		{"just refreshed", "2026-08-29T10:05:00Z", true},
		{"exactly at ttl", "2026-08-29T10:00:00Z", true},
		{"one second past ttl", "2026-08-29T09:59:59Z", false},
		{"naive within ttl", "2026-08-29 10:03:00", true},
		{"empty", "", false},
		{"unparsable", "not-a-time", false},
		{"future", "2026-08-29T11:00:00Z", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFreshAt(tt.lastRefresh, ttl, now); got != tt.want {
				t.Errorf("IsFreshAt(%q) = %v, want %v", tt.lastRefresh, got, tt.want)
			}
		})
	}
}

func TestFormatTimestampRoundTrip(t *testing.T) {
	original := time.Date(2026, 8, 29, 10, 0, 0, 500, time.UTC)
	formatted := FormatTimestamp(original)
	parsed, ok := ParseTimestamp(formatted)
	if !ok {
		t.Fatalf("failed to parse %q", formatted)
	}
	if !parsed.Equal(original.Truncate(time.Second)) {
		t.Errorf("round trip changed the value: %v -> %v", original, parsed)
	}
}
