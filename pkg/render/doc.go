// Package render loads html/template views from disk.
//
// Views are addressed by their path relative to the view directory and may
// include each other with {{template "partials/nav.html" .}}. Two helpers are
// always available: csrf_field renders the hidden CSRF input for a token, and
// markdown turns user text into sanitized HTML.
//
//	views, err := render.New("app/views")
//	if err != nil {
//	    return err
//	}
//	html, err := views.Render("index.html", map[string]any{
//	    "csrf":  r.CSRFToken(resp),
//	    "posts": posts,
//	})
//
// The same engine backs custom error pages: the dispatcher looks up 404.html
// and 500.html in the configured error template directories.
package render
