package internal

import (
	"fmt"
	"strings"

	"github.com/dmitrymomot/shipy/pkg/session"
)

// ExtractorSource extracts a value from a request.
// Returns the value and true if found, or ("", false) if not present.
type ExtractorSource = func(*Request) (string, bool)

// Extractor tries multiple sources in order and returns the first match.
//
// Example:
//
//	clientKey := shipy.NewExtractor(
//	    shipy.FromHeader("X-Real-IP"),
//	    shipy.FromRemoteIP(),
//	)
type Extractor struct {
	sources []ExtractorSource
}

// NewExtractor creates an Extractor that tries the given sources in order.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return Extractor{sources: sources}
}

// Extract iterates sources in order and returns the first non-empty value.
// Returns ("", false) if all sources miss.
func (e Extractor) Extract(r *Request) (string, bool) {
	for _, src := range e.sources {
		if v, ok := src(r); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

func nonEmpty(v string) (string, bool) {
	return v, v != ""
}

// FromHeader returns a source that reads from a request header.
// For comma-separated lists such as X-Forwarded-For the first entry is used.
func FromHeader(name string) ExtractorSource {
	return func(r *Request) (string, bool) {
		v, _, _ := strings.Cut(r.Header(name), ",")
		return nonEmpty(strings.TrimSpace(v))
	}
}

// FromQuery returns a source that reads from a query parameter.
func FromQuery(name string) ExtractorSource {
	return func(r *Request) (string, bool) {
		return nonEmpty(r.Query().Get(name))
	}
}

// FromCookie returns a source that reads from a request cookie.
func FromCookie(name string) ExtractorSource {
	return func(r *Request) (string, bool) {
		v, _ := r.Cookie(name)
		return nonEmpty(v)
	}
}

// FromParam returns a source that reads from a path parameter.
func FromParam(name string) ExtractorSource {
	return func(r *Request) (string, bool) {
		return nonEmpty(r.Param(name))
	}
}

// FromForm returns a source that reads from a form field.
// The body must already be loaded.
func FromForm(name string) ExtractorSource {
	return func(r *Request) (string, bool) {
		return nonEmpty(r.FormValue(name))
	}
}

// FromSession returns a source that reads from a session value.
// Non-string values are formatted with fmt.Sprint.
func FromSession(key string) ExtractorSource {
	return func(r *Request) (string, bool) {
		val, ok := r.sess.load(r)[key]
		if !ok || val == nil {
			return "", false
		}
		if s, ok := val.(string); ok {
			return nonEmpty(s)
		}
		if n, ok := session.Int(session.Values{key: val}, key); ok {
			return fmt.Sprint(n), true
		}
		return nonEmpty(fmt.Sprint(val))
	}
}

// FromRemoteIP returns a source that reads the peer address without port.
func FromRemoteIP() ExtractorSource {
	return func(r *Request) (string, bool) {
		return nonEmpty(r.RemoteIP())
	}
}

// FromBearerToken returns a source that reads a Bearer token from the Authorization header.
// Uses case-insensitive comparison on the "Bearer " prefix.
func FromBearerToken() ExtractorSource {
	return func(r *Request) (string, bool) {
		auth := r.Header("Authorization")
		if len(auth) < 7 || !strings.EqualFold(auth[:7], "bearer ") {
			return "", false
		}
		return nonEmpty(auth[7:])
	}
}
