// Package csrf provides the synchronizer-token primitives used by the
// dispatcher: token generation, constant-time comparison and the hidden form
// field that carries the token back on submission.
package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"html/template"
)

const (
	// FieldName is the form field carrying the token.
	FieldName = "csrf"

	// HeaderName is checked when the form field is absent, for scripted clients.
	HeaderName = "X-CSRF-Token"

	tokenBytes = 16
)

// NewToken returns a fresh URL-safe token built from 16 random bytes.
func NewToken() string {
	b := make([]byte, tokenBytes)
	// crypto/rand.Read never returns an error since Go 1.24.
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// Match reports whether the submitted token equals the expected one.
// An empty expected or submitted token never matches.
func Match(expected, submitted string) bool {
	if expected == "" || submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(submitted)) == 1
}

// HiddenField renders the hidden input for token.
func HiddenField(token string) template.HTML {
	return template.HTML(`<input type="hidden" name="` + FieldName + `" value="` +
		template.HTMLEscapeString(token) + `">`)
}
