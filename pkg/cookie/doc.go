// Package cookie builds Set-Cookie directives with safe defaults.
//
// Cookies created with [New] are HttpOnly, SameSite=Lax and scoped to "/"
// unless options say otherwise. [Expire] produces the deletion form of a cookie
// (empty value, Max-Age=0).
//
//	c := cookie.New("theme", "dark", cookie.WithMaxAge(86400))
//	gone := cookie.Expire("theme")
//
// A [Policy] is applied once, when the response is written. In production it
// forces the Secure flag on regardless of what the caller asked for:
//
//	p := cookie.Policy{Production: true}
//	http.SetCookie(w, p.Apply(c))
//
// Options:
//   - [WithPath]: cookie path (default "/")
//   - [WithDomain]: cookie domain
//   - [WithMaxAge]: lifetime in seconds
//   - [WithSecure]: Secure flag
//   - [WithHTTPOnly]: HttpOnly flag (default true)
//   - [WithSameSite]: SameSite attribute (default Lax)
package cookie
