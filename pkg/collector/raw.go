package collector

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/ledgersync/collector/pkg/lcd"
)

// rawString extracts a field as a string, tolerating the numeric encodings
// JSON decoding may produce. Missing or foreign-typed fields yield "".
func rawString(raw lcd.RawEntity, key string) string {
	switch v := raw[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// rawChild extracts a nested object field, nil when absent or not an object.
func rawChild(raw lcd.RawEntity, key string) lcd.RawEntity {
	if child, ok := raw[key].(map[string]any); ok {
		return child
	}
	return nil
}

// rawTime parses an ISO timestamp field, falling back to the given time when
// the field is absent or unparsable.
func rawTime(raw lcd.RawEntity, key string, fallback time.Time) time.Time {
	s := rawString(raw, key)
	if s == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fallback
	}
	return t
}

// parseTimeOrZero parses an ISO timestamp, zero when absent or unparsable.
func parseTimeOrZero(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// parseInt64OrZero parses a decimal string, zero when absent or unparsable.
func parseInt64OrZero(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
