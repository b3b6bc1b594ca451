// Package timestamps converts the date shapes found on stored records into
// time.Time values and renders them for display.
package timestamps

import (
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultFallback is rendered in place of a date that cannot be normalized
const DefaultFallback = "Invalid date"

type timeConverter interface {
	Time() time.Time
}

var stringLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalize converts v into a time.Time. The second return value is false when
// v is nil, zero, or in a shape that cannot be read as a date.
func Normalize(v interface{}) (time.Time, bool) {
	var t time.Time
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case timeConverter:
		t = val.Time()
	case primitive.Timestamp:
		t = time.Unix(int64(val.T), 0)
	case time.Time:
		t = val
	case *time.Time:
		if val == nil {
			return time.Time{}, false
		}
		t = *val
	case primitive.M:
		return fromSecondsDoc(map[string]interface{}(val))
	case map[string]interface{}:
		return fromSecondsDoc(val)
	case primitive.D:
		return fromSecondsDoc(val.Map())
	case string:
		return parseString(val)
	default:
		ms, ok := toFloat(v)
		if !ok {
			return time.Time{}, false
		}
		return fromMillis(ms)
	}
	if t.IsZero() {
		return time.Time{}, false
	}
	return t, true
}

// EpochOrZero returns the instant for v, or the Unix epoch when v cannot be
// normalized, so that undated records still have a place in an ordering.
func EpochOrZero(v interface{}) time.Time {
	if t, ok := Normalize(v); ok {
		return t
	}
	return time.Unix(0, 0)
}

func fromSecondsDoc(m map[string]interface{}) (time.Time, bool) {
	secRaw, ok := m["seconds"]
	if !ok {
		secRaw, ok = m["_seconds"]
	}
	if !ok {
		return time.Time{}, false
	}
	sec, ok := toFloat(secRaw)
	if !ok {
		return time.Time{}, false
	}
	var nanos float64
	if n, found := m["nanoseconds"]; found {
		nanos, _ = toFloat(n)
	} else if n, found := m["_nanoseconds"]; found {
		nanos, _ = toFloat(n)
	}
	t := time.Unix(int64(sec), int64(nanos))
	if t.IsZero() {
		return time.Time{}, false
	}
	return t, true
}

func fromMillis(ms float64) (time.Time, bool) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)), true
}

func parseString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range stringLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
