package internal

import (
	"net/url"
	"slices"
	"strings"
)

// Values is an ordered multi-valued mapping used for query strings and forms.
// Keys keep the order of their first appearance; values keep submission order.
type Values struct {
	m    map[string][]string
	keys []string
}

// ParseValues decodes an application/x-www-form-urlencoded string.
// Pairs are split on "&", then on the first "=". Keys and values are
// percent-decoded with "+" as space; a pair that fails to decode is kept raw.
// Empty pairs are skipped, blank values are kept.
func ParseValues(s string) Values {
	var v Values
	for pair := range strings.SplitSeq(s, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		v.Add(unescape(key), unescape(value))
	}
	return v
}

func unescape(s string) string {
	out, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return out
}

// Add appends value to key.
func (v *Values) Add(key, value string) {
	if v.m == nil {
		v.m = make(map[string][]string)
	}
	if _, ok := v.m[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.m[key] = append(v.m[key], value)
}

// Get returns the first value for key, or "".
func (v Values) Get(key string) string {
	if vals := v.m[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// All returns every value for key in submission order.
func (v Values) All(key string) []string {
	return slices.Clone(v.m[key])
}

// Value returns a string for single-valued keys and a []string for repeated ones.
// Returns nil when key is absent.
func (v Values) Value(key string) any {
	switch vals := v.m[key]; len(vals) {
	case 0:
		return nil
	case 1:
		return vals[0]
	default:
		return slices.Clone(vals)
	}
}

// Has reports whether key is present.
func (v Values) Has(key string) bool {
	_, ok := v.m[key]
	return ok
}

// Keys returns the keys in order of first appearance.
func (v Values) Keys() []string {
	return slices.Clone(v.keys)
}

// Len returns the number of distinct keys.
func (v Values) Len() int {
	return len(v.keys)
}

// URLValues converts v to url.Values.
func (v Values) URLValues() url.Values {
	out := make(url.Values, len(v.m))
	for k, vals := range v.m {
		out[k] = slices.Clone(vals)
	}
	return out
}
