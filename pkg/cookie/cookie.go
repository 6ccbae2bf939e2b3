package cookie

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalid is returned by Validate for cookies that cannot be serialized.
var ErrInvalid = errors.New("cookie: invalid cookie")

// Option configures a cookie's attributes.
type Option func(*http.Cookie)

// New builds a cookie with the default attributes:
// Path "/", HttpOnly and SameSite=Lax. Options override them.
func New(name, value string, opts ...Option) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Expire builds a deletion directive: an empty value with Max-Age=0.
func Expire(name string, opts ...Option) *http.Cookie {
	c := New(name, "", opts...)
	c.Value = ""
	c.MaxAge = -1
	return c
}

// WithPath sets the cookie path.
func WithPath(path string) Option {
	return func(c *http.Cookie) {
		c.Path = path
	}
}

// WithDomain sets the cookie domain.
func WithDomain(domain string) Option {
	return func(c *http.Cookie) {
		c.Domain = domain
	}
}

// WithMaxAge sets Max-Age in seconds. Zero or negative expires the cookie immediately.
func WithMaxAge(seconds int) Option {
	return func(c *http.Cookie) {
		if seconds <= 0 {
			c.MaxAge = -1
			return
		}
		c.MaxAge = seconds
	}
}

// WithSecure sets the Secure flag.
// Has no effect in production, where Policy forces it on.
func WithSecure(secure bool) Option {
	return func(c *http.Cookie) {
		c.Secure = secure
	}
}

// WithHTTPOnly sets the HttpOnly flag.
func WithHTTPOnly(httpOnly bool) Option {
	return func(c *http.Cookie) {
		c.HttpOnly = httpOnly
	}
}

// WithSameSite sets the SameSite attribute.
func WithSameSite(ss http.SameSite) Option {
	return func(c *http.Cookie) {
		c.SameSite = ss
	}
}

// Policy holds process-wide cookie rules applied when a response is finalized.
type Policy struct {
	// Domain is used for cookies that don't set one.
	Domain string

	// Production forces the Secure attribute on every cookie.
	Production bool
}

// Apply returns a copy of c with the policy enforced.
func (p Policy) Apply(c *http.Cookie) *http.Cookie {
	out := *c
	if out.Domain == "" {
		out.Domain = p.Domain
	}
	if p.Production {
		out.Secure = true
	}
	return &out
}

// Validate reports whether c can be written as a Set-Cookie header.
func Validate(c *http.Cookie) error {
	if c == nil {
		return fmt.Errorf("%w: nil cookie", ErrInvalid)
	}
	if err := c.Valid(); err != nil {
		return errors.Join(ErrInvalid, err)
	}
	return nil
}
