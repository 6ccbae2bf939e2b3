package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/dmitrymomot/shipy/pkg/csrf"
	"github.com/dmitrymomot/shipy/pkg/sanitizer"
)

// Template errors.
var (
	ErrNotFound = errors.New("render: template not found")
	ErrLoad     = errors.New("render: failed to load templates")
	ErrExecute  = errors.New("render: failed to execute template")
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Engine renders html/template files loaded from one or more directories.
type Engine struct {
	tmpl  *template.Template
	names map[string]string
}

// New loads every *.html file under dirs. Templates are named by their path
// relative to their directory, with forward slashes ("errors/404.html").
// When two directories hold the same name, the first directory wins.
// Missing directories are skipped.
func New(dirs ...string) (*Engine, error) {
	e := &Engine{
		tmpl:  template.New("").Funcs(Funcs()),
		names: make(map[string]string),
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(path) != ".html" {
				return nil
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			return e.add(filepath.ToSlash(rel), path)
		})
		if err != nil {
			return nil, errors.Join(ErrLoad, err)
		}
	}
	return e, nil
}

func (e *Engine) add(name, path string) error {
	if _, ok := e.names[name]; ok {
		return nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if _, err := e.tmpl.New(name).Parse(string(src)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	e.names[name] = path
	return nil
}

// Has reports whether a template named name was loaded.
func (e *Engine) Has(name string) bool {
	if e == nil {
		return false
	}
	_, ok := e.names[name]
	return ok
}

// Render executes the named template with data.
func (e *Engine) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := e.Execute(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Execute writes the named template to w.
func (e *Engine) Execute(w io.Writer, name string, data any) error {
	if !e.Has(name) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err := e.tmpl.ExecuteTemplate(w, name, data); err != nil {
		return errors.Join(ErrExecute, err)
	}
	return nil
}

// Component adapts the named template to a templ.Component.
func (e *Engine) Component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return e.Execute(w, name, data)
	})
}

// Funcs returns the helpers available to every template:
//
//	csrf_field TOKEN   hidden input carrying the CSRF token
//	markdown TEXT      markdown rendered to sanitized HTML
func Funcs() template.FuncMap {
	return template.FuncMap{
		"csrf_field": csrf.HiddenField,
		"markdown":   Markdown,
	}
}

// Markdown converts src to HTML and sanitizes the result.
// Rendering errors fall back to the escaped source.
func Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(strings.TrimSpace(sanitizer.SanitizeMarkdown(buf.String())))
}
