package internal

import (
	"fmt"
	"net/http"
	"regexp"
	"slices"
	"strings"
)

// Placeholder patterns. {name} captures one non-slash segment, {name:int} one or more digits.
const (
	segmentPattern = `[^/]+`
	intPattern     = `[0-9]+`
)

var placeholderName = regexp.MustCompile(`^\w+$`)

// knownMethods are the methods a route may be registered for.
var knownMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

// route is a compiled entry of the route table.
type route struct {
	method  string
	pattern string
	re      *regexp.Regexp
	names   []string
	handler HandlerFunc
}

// compilePattern turns a path pattern into an anchored regular expression.
// Literal text is matched verbatim; placeholders become named groups.
func compilePattern(pattern string) (*regexp.Regexp, []string, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, nil, fmt.Errorf("%w: %q must start with /", ErrInvalidPattern, pattern)
	}

	var (
		expr  strings.Builder
		names []string
		rest  = pattern
	)
	expr.WriteString("^")

	for rest != "" {
		open := strings.IndexAny(rest, "{}")
		if open < 0 {
			expr.WriteString(regexp.QuoteMeta(rest))
			break
		}
		if rest[open] == '}' {
			return nil, nil, fmt.Errorf("%w: %q has unbalanced }", ErrInvalidPattern, pattern)
		}
		expr.WriteString(regexp.QuoteMeta(rest[:open]))
		rest = rest[open+1:]

		end := strings.IndexAny(rest, "{}")
		if end < 0 || rest[end] == '{' {
			return nil, nil, fmt.Errorf("%w: %q has unbalanced {", ErrInvalidPattern, pattern)
		}
		name, kind, _ := strings.Cut(rest[:end], ":")
		rest = rest[end+1:]

		if !placeholderName.MatchString(name) {
			return nil, nil, fmt.Errorf("%w: %q has invalid placeholder name %q", ErrInvalidPattern, pattern, name)
		}
		if slices.Contains(names, name) {
			return nil, nil, fmt.Errorf("%w: %q repeats placeholder %q", ErrInvalidPattern, pattern, name)
		}

		var group string
		switch kind {
		case "":
			group = segmentPattern
		case "int":
			group = intPattern
		default:
			return nil, nil, fmt.Errorf("%w: %q has unknown placeholder type %q", ErrInvalidPattern, pattern, kind)
		}
		names = append(names, name)
		expr.WriteString("(?P<" + name + ">" + group + ")")
	}
	expr.WriteString("$")

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, pattern, err)
	}
	return re, names, nil
}

// matchKind classifies the outcome of a route lookup.
type matchKind int

const (
	matchNotFound matchKind = iota
	matchFound
	matchMethodNotAllowed
)

// match is the result of looking up method+path in the route table.
type match struct {
	route    *route
	params   map[string]string
	allow    []string
	kind     matchKind
	headShim bool
}

// routeTable is the ordered list of registered routes.
// It is written during App construction and read-only afterwards.
type routeTable struct {
	routes []*route
	errs   []error
}

func (t *routeTable) add(method, pattern string, h HandlerFunc) {
	method = strings.ToUpper(method)
	if !slices.Contains(knownMethods, method) {
		t.errs = append(t.errs, fmt.Errorf("%w: %q for %s", ErrInvalidMethod, method, pattern))
		return
	}
	if h == nil {
		t.errs = append(t.errs, fmt.Errorf("%w: %s %s", ErrNilHandler, method, pattern))
		return
	}
	re, names, err := compilePattern(pattern)
	if err != nil {
		t.errs = append(t.errs, err)
		return
	}
	t.routes = append(t.routes, &route{
		method:  method,
		pattern: pattern,
		re:      re,
		names:   names,
		handler: h,
	})
}

// match scans routes in registration order.
// The first route matching both method and path wins. A HEAD request
// falls back to the first matching GET route with the body suppressed.
func (t *routeTable) match(method, path string) match {
	var (
		found   *route
		get     *route
		allowed []string
		groups  []string
		getGrps []string
	)

	for _, rt := range t.routes {
		sub := rt.re.FindStringSubmatch(path)
		if sub == nil {
			continue
		}
		if !slices.Contains(allowed, rt.method) {
			allowed = append(allowed, rt.method)
		}
		if found == nil && rt.method == method {
			found, groups = rt, sub
		}
		if get == nil && rt.method == http.MethodGet {
			get, getGrps = rt, sub
		}
	}

	switch {
	case found != nil:
		return match{kind: matchFound, route: found, params: found.params(groups)}
	case method == http.MethodHead && get != nil:
		return match{kind: matchFound, route: get, params: get.params(getGrps), headShim: true}
	case len(allowed) > 0:
		if slices.Contains(allowed, http.MethodGet) && !slices.Contains(allowed, http.MethodHead) {
			allowed = append(allowed, http.MethodHead)
		}
		slices.Sort(allowed)
		return match{kind: matchMethodNotAllowed, allow: allowed}
	default:
		return match{kind: matchNotFound}
	}
}

func (rt *route) params(groups []string) map[string]string {
	params := make(map[string]string, len(rt.names))
	for i, name := range rt.names {
		params[name] = groups[i+1]
	}
	return params
}
