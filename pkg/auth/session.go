package auth

import (
	"github.com/dmitrymomot/shipy/internal"
	"github.com/dmitrymomot/shipy/pkg/session"
)

// Session keys.
const (
	UserIDKey  = "uid"
	VersionKey = "sv"
)

// SessionVersion is stored at login. Raising it logs out every session
// issued under an older version.
const SessionVersion = 1

// Login stores userID in the session and attaches the cookie to resp.
// Other session values survive; the CSRF token is dropped so a fresh one is
// issued for the signed-in session.
func Login(r *internal.Request, resp *internal.Response, userID int64) error {
	v := r.Session()
	SetUser(v, userID)
	return r.SaveSession(resp, v)
}

// Logout clears the whole session.
func Logout(r *internal.Request, resp *internal.Response) {
	r.ClearSession(resp)
}

// UserID returns the signed-in user, if any.
func UserID(r *internal.Request) (int64, bool) {
	return User(r.Session())
}

// SetUser marks v as signed in as userID.
func SetUser(v session.Values, userID int64) {
	v[UserIDKey] = userID
	v[VersionKey] = SessionVersion
	delete(v, session.CSRFKey)
}

// User reads the user ID from v. Sessions from another SessionVersion
// count as anonymous.
func User(v session.Values) (int64, bool) {
	if ver, ok := session.Int(v, VersionKey); !ok || ver != SessionVersion {
		return 0, false
	}
	return session.Int(v, UserIDKey)
}
