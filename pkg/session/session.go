package session

import (
	"encoding/json"
	"maps"
	"slices"
)

// Reserved keys.
const (
	// CookieName is the name of the cookie carrying the signed session.
	CookieName = "shipy"

	// CSRFKey holds the per-session CSRF token.
	CSRFKey = "csrf"

	// FlashKey holds queued flash messages.
	FlashKey = "_flash"
)

// Values is the session mapping. It is carried by value inside a signed token,
// so mutating a Values has no effect until it is written back to a response.
//
// Values round-trip through JSON: numbers come back as json.Number, lists as
// []any and objects as map[string]any. Use the typed helpers to read them.
type Values map[string]any

// Clone returns a deep copy of v.
// A nil Values clones to an empty, non-nil Values.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = cloneValue(val)
	}
	return out
}

// Has reports whether key is present.
func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

// Keys returns the keys in sorted order.
func (v Values) Keys() []string {
	return slices.Sorted(maps.Keys(v))
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case Values:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	case []Flash:
		return slices.Clone(t)
	default:
		return v
	}
}

// String returns the string stored under key.
func String(v Values, key string) (string, bool) {
	s, ok := v[key].(string)
	return s, ok
}

// Int returns the integer stored under key.
// Accepts json.Number from a decoded token, and float64 as long as it has no
// fraction.
func Int(v Values, key string) (int64, bool) {
	switch n := v[key].(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}

// Bool returns the boolean stored under key.
func Bool(v Values, key string) (bool, bool) {
	b, ok := v[key].(bool)
	return b, ok
}

// Value is a typed helper to retrieve session values.
// Returns ErrNotFound if the key doesn't exist and ErrTypeMismatch if the
// stored value has a different type.
func Value[T any](v Values, key string) (T, error) {
	var zero T
	raw, ok := v[key]
	if !ok {
		return zero, ErrNotFound
	}
	typed, ok := raw.(T)
	if !ok {
		return zero, ErrTypeMismatch
	}
	return typed, nil
}

// ValueOr returns the typed value for key or defaultVal.
func ValueOr[T any](v Values, key string, defaultVal T) T {
	val, err := Value[T](v, key)
	if err != nil {
		return defaultVal
	}
	return val
}
