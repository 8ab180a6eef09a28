package common

import "time"

// DefaultRatesTTL is the freshness window for the rate cache unless
// configured otherwise.
const DefaultRatesTTL = 300 * time.Second

// timestampLayouts are tried in order when parsing persisted timestamps.
// The naive layouts (no zone) are interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses a persisted timestamp string. The boolean is false
// for empty or unparsable values.
func ParseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

// IsFreshAt reports whether the timestamp is within the TTL as of now.
// Absent or unparsable timestamps are always stale.
func IsFreshAt(lastRefresh string, ttl time.Duration, now time.Time) bool {
	ts, ok := ParseTimestamp(lastRefresh)
	if !ok {
		return false
	}
	return now.UTC().Sub(ts) <= ttl
}

// NowUTC returns the current UTC time at second precision, the resolution
// used for all persisted timestamps.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// FormatTimestamp renders a timestamp the way it is persisted.
func FormatTimestamp(ts time.Time) string {
	return ts.UTC().Truncate(time.Second).Format(time.RFC3339)
}
