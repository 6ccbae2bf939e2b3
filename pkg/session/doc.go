// Package session implements signed client-side sessions.
//
// A session is a plain key-value mapping (Values) serialized to JSON and sealed
// with an HMAC-SHA256 signature by a Codec. The token lives in a single cookie
// named CookieName. There is no server-side storage: the mapping is rebuilt from
// the cookie on every request and only persists when re-packed into a response.
//
// Unpack never fails. Any decoding or signature problem produces an empty
// mapping, so a tampered cookie behaves like no cookie at all.
//
// Reserved keys: CSRFKey stores the CSRF token, FlashKey stores queued Flash
// messages which PullFlashes consumes.
package session
