// Package internal provides the core types and implementation for shipy.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/shipy" instead, which re-exports the public API.
//
// # Core Types
//
//   - App: owns the route table, the dispatcher and the server lifecycle
//   - Router: interface handlers use to declare routes
//   - Handler: implemented by types that declare routes on a Router
//   - HandlerFunc: func(*Request) (Result, error)
//   - Middleware: wraps a HandlerFunc
//   - Request: parsed inbound request with lazy body loading and session access
//   - Response: status, ordered headers, body and pending cookies
//   - Result: anything convertible to a Response (HTML, Text, *Response)
//
// # Request pipeline
//
// Every request goes through chi (transport middleware, /metrics, /health/ready)
// and then the dispatcher, which in order:
//
//  1. serves static files for GET/HEAD under the static prefix
//  2. answers /health with 200 OK
//  3. matches the route table in registration order (405 with Allow on a
//     method mismatch, 404 when nothing matches, HEAD falls back to GET)
//  4. for POST, PUT, PATCH and DELETE loads the body and checks the CSRF token
//  5. calls the handler, recovering panics
//  6. converts errors into error pages (trace in development, generic in production)
//  7. writes the response, adding security headers and Set-Cookie lines
//
// # Sessions
//
// Sessions live entirely in a signed cookie. Request.Session returns a copy
// of the mapping; changes persist only through Request.SaveSession, which
// attaches the re-signed cookie to a Response. CSRF tokens and flash messages
// are stored in reserved session keys.
package internal
