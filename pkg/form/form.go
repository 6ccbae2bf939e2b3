package form

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmitrymomot/shipy/pkg/sanitizer"
)

// Error messages attached by the validators.
const (
	MsgRequired     = "required"
	MsgInvalidEmail = "invalid email"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Form holds submitted fields and the validation errors found so far.
// Multi-valued fields keep their first value.
//
// Example:
//
//	f := form.New(r.Form().URLValues()).
//	    Require("email", "password").
//	    Email("email").
//	    Min("password", 8)
//	if !f.OK() {
//	    return render(f)
//	}
type Form struct {
	data   map[string]string
	errors map[string][]string
	order  []string
}

// New creates a Form from submitted values.
func New(values url.Values) *Form {
	f := &Form{
		data:   make(map[string]string, len(values)),
		errors: make(map[string][]string),
	}
	for k, vs := range values {
		if len(vs) > 0 {
			f.data[k] = vs[0]
		} else {
			f.data[k] = ""
		}
	}
	return f
}

// OK reports whether no validator failed.
func (f *Form) OK() bool {
	return len(f.errors) == 0
}

// Require fails every field that is missing or blank.
func (f *Form) Require(fields ...string) *Form {
	for _, field := range fields {
		if strings.TrimSpace(f.data[field]) == "" {
			f.AddError(field, MsgRequired)
		}
	}
	return f
}

// Min fails field when it has fewer than n characters.
func (f *Form) Min(field string, n int) *Form {
	if utf8.RuneCountInString(f.data[field]) < n {
		f.AddError(field, fmt.Sprintf("min %d chars", n))
	}
	return f
}

// Email fails field when it is present but not shaped like an address.
// Use Require to reject a blank field.
func (f *Form) Email(field string) *Form {
	v := strings.TrimSpace(f.data[field])
	if v != "" && !emailRe.MatchString(v) {
		f.AddError(field, MsgInvalidEmail)
	}
	return f
}

// AddError attaches msg to field.
func (f *Form) AddError(field, msg string) {
	if _, ok := f.errors[field]; !ok {
		f.order = append(f.order, field)
	}
	f.errors[field] = append(f.errors[field], msg)
}

// Get returns the submitted value of field, or "".
func (f *Form) Get(field string) string {
	return f.data[field]
}

// Sanitized returns field with all HTML removed and surrounding space trimmed.
func (f *Form) Sanitized(field string) string {
	return sanitizer.StripHTML(f.data[field])
}

// Errors returns the messages attached to field.
func (f *Form) Errors(field string) []string {
	return f.errors[field]
}

// Fields returns the fields with errors in the order they first failed.
func (f *Form) Fields() []string {
	return append([]string(nil), f.order...)
}

// Data returns a copy of the submitted values, for refilling templates.
func (f *Form) Data() map[string]string {
	out := make(map[string]string, len(f.data))
	for k, v := range f.data {
		out[k] = v
	}
	return out
}
