package internal

import (
	"github.com/dmitrymomot/shipy/pkg/csrf"
	"github.com/dmitrymomot/shipy/pkg/session"
)

// sessionState caches the session for one request.
// The mapping is decoded from the cookie on first use. Writes update the
// cache so later reads in the same request see them; dirty marks writes
// that have not been attached to a response yet.
type sessionState struct {
	codec  *session.Codec
	values session.Values
	loaded bool
	dirty  bool
}

func (s *sessionState) load(r *Request) session.Values {
	if !s.loaded {
		token, _ := r.Cookie(session.CookieName)
		s.values = s.codec.Unpack(token)
		s.loaded = true
	}
	return s.values
}

// Session returns a copy of the request session.
// Changes to the copy are not kept until passed to SaveSession.
func (r *Request) Session() session.Values {
	return r.sess.load(r).Clone()
}

// SaveSession replaces the session with v and, when resp is not nil,
// attaches the signed cookie to it.
func (r *Request) SaveSession(resp *Response, v session.Values) error {
	token, err := r.sess.codec.Pack(v)
	if err != nil {
		return err
	}
	r.sess.values = v.Clone()
	r.sess.loaded = true
	r.sess.dirty = resp == nil
	if resp != nil {
		resp.SetCookie(session.CookieName, token)
	}
	return nil
}

// FlushSession attaches session changes saved without a response
// (SaveSession, CSRFToken or Flashes called with nil) to resp.
// It does nothing when there are no pending changes.
func (r *Request) FlushSession(resp *Response) error {
	if !r.sess.dirty || resp == nil {
		return nil
	}
	return r.SaveSession(resp, r.sess.values)
}

// ClearSession empties the session and expires its cookie on resp.
func (r *Request) ClearSession(resp *Response) {
	r.sess.values = session.Values{}
	r.sess.loaded = true
	r.sess.dirty = false
	if resp != nil {
		resp.DeleteCookie(session.CookieName)
	}
}

// AddFlash queues a one-time message for the next page view.
// An empty kind means session.FlashInfo.
func (r *Request) AddFlash(resp *Response, msg, kind string) error {
	v := r.Session()
	session.AddFlash(v, kind, msg)
	return r.SaveSession(resp, v)
}

// Flashes returns the queued messages and clears them.
// The session is only rewritten when there was something to clear.
func (r *Request) Flashes(resp *Response) []session.Flash {
	v := r.Session()
	out := session.PullFlashes(v)
	if len(out) > 0 {
		_ = r.SaveSession(resp, v)
	}
	return out
}

// CSRFToken returns the session's CSRF token, creating one if needed.
// A new token is stored in the session and, when resp is not nil,
// persisted on it. Pass the token to templates for csrf.HiddenField.
func (r *Request) CSRFToken(resp *Response) string {
	v := r.Session()
	if token, ok := session.String(v, session.CSRFKey); ok && token != "" {
		if r.sess.dirty && resp != nil {
			_ = r.SaveSession(resp, v)
		}
		return token
	}

	token := csrf.NewToken()
	v[session.CSRFKey] = token
	// A session that was decoded or saved before always re-encodes.
	_ = r.SaveSession(resp, v)
	return token
}

// hasCSRFToken reports whether the session already carries a token.
func (r *Request) hasCSRFToken() bool {
	token, ok := session.String(r.sess.load(r), session.CSRFKey)
	return ok && token != ""
}

// verifyCSRF compares the submitted token to the session's.
// The form field wins; the header is checked when the field is absent.
// The body must already be loaded.
func (r *Request) verifyCSRF() bool {
	expected, _ := session.String(r.sess.load(r), session.CSRFKey)
	submitted := r.FormValue(csrf.FieldName)
	if submitted == "" {
		submitted = r.Header(csrf.HeaderName)
	}
	return csrf.Match(expected, submitted)
}
