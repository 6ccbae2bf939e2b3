package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/shipy/pkg/sanitizer"
)

func TestStripHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "hello world", "hello world"},
		{"tags", "<p>Hello <strong>world</strong></p>", "Hello world"},
		{"script body dropped", "<p>Hi</p><script>alert(1)</script>", "Hi"},
		{"event handler", `<img src="x" onerror="alert(1)">`, ""},
		{"javascript link", `<a href="javascript:alert(1)">click</a>`, "click"},
		{"trims", "  <b>title</b>  ", "title"},
		{"entities decoded once", "Tom &amp; Jerry <i>&lt;3</i>", "Tom & Jerry <3"},
		{"raw ampersand", "fish & chips", "fish & chips"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sanitizer.StripHTML(tt.in))
		})
	}
}

func TestSanitizeMarkdown(t *testing.T) {
	t.Parallel()

	t.Run("keeps formatting", func(t *testing.T) {
		t.Parallel()
		in := "<h2>Title</h2><p>some <strong>bold</strong> and <code>code</code></p>"
		assert.Equal(t, in, sanitizer.SanitizeMarkdown(in))
	})

	t.Run("removes scripts and handlers", func(t *testing.T) {
		t.Parallel()
		out := sanitizer.SanitizeMarkdown(`<p onclick="x()">hi</p><script>alert(1)</script>`)
		assert.Equal(t, "<p>hi</p>", out)
	})

	t.Run("external links get rel and target", func(t *testing.T) {
		t.Parallel()
		out := sanitizer.SanitizeMarkdown(`<a href="https://example.com">x</a>`)
		assert.Contains(t, out, `rel="nofollow noopener"`)
		assert.Contains(t, out, `target="_blank"`)
	})

	t.Run("relative links stay in place", func(t *testing.T) {
		t.Parallel()
		out := sanitizer.SanitizeMarkdown(`<a href="/posts/1">x</a>`)
		assert.Contains(t, out, `href="/posts/1"`)
		assert.NotContains(t, out, "_blank")
	})

	t.Run("javascript urls dropped", func(t *testing.T) {
		t.Parallel()
		out := sanitizer.SanitizeMarkdown(`<a href="javascript:alert(1)">x</a>`)
		assert.NotContains(t, out, "javascript")
	})
}
