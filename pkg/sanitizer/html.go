// Package sanitizer cleans untrusted HTML with bluemonday policies.
//
// StripHTML turns form input into plain text. SanitizeMarkdown cleans the
// HTML produced by rendering user markdown before it reaches a template
// as trusted markup.
package sanitizer

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicy = sync.OnceValue(bluemonday.StrictPolicy)

	markdownPolicy = sync.OnceValue(func() *bluemonday.Policy {
		p := bluemonday.UGCPolicy()
		p.RequireNoFollowOnLinks(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		return p
	})
)

// StripHTML removes all markup and returns the trimmed text content.
// Entities are decoded so the result can be escaped once by html/template.
func StripHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy().Sanitize(s)))
}

// SanitizeMarkdown cleans HTML rendered from markdown.
// Headings, tables, images and links survive; external links open in a new
// tab with rel="nofollow noopener".
func SanitizeMarkdown(s string) string {
	return markdownPolicy().Sanitize(s)
}
