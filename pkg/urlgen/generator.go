// Package urlgen builds absolute URLs for paths, named routes and controller
// actions. A Generator satisfies menu.Resolver.
package urlgen

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
)

var (
	// ErrRouteNotFound is returned for route names that were never registered.
	ErrRouteNotFound = errors.New("route not defined")

	// ErrActionNotFound is returned for actions that were never registered.
	ErrActionNotFound = errors.New("action not defined")

	// ErrMissingParameter is returned when a pattern has more placeholders than params.
	ErrMissingParameter = errors.New("missing route parameter")

	// ErrExtraParameter is returned when more params are given than a pattern takes.
	ErrExtraParameter = errors.New("too many route parameters")
)

// Generator resolves paths against a root URL.
//
// Routes and actions are registered up front; a Generator is safe for
// concurrent reads once registration is done. Copies made with WithBase
// share the registered tables.
type Generator struct {
	scheme string
	host   string
	prefix string

	routes  map[string]string
	actions map[string]string
}

// New returns a Generator rooted at base, e.g. "http://localhost:9876" or
// "https://example.com/app".
func New(base string) (*Generator, error) {
	g := &Generator{
		routes:  make(map[string]string),
		actions: make(map[string]string),
	}
	if err := g.setBase(base); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Generator) setBase(base string) error {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return fmt.Errorf("parsing base url %q: %w", base, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base url %q: scheme must be http or https", base)
	}
	if u.Host == "" {
		return fmt.Errorf("base url %q: host is required", base)
	}

	g.scheme = u.Scheme
	g.host = u.Host
	g.prefix = strings.TrimRight(u.Path, "/")
	return nil
}

// WithBase returns a copy of g rooted at base.
func (g *Generator) WithBase(base string) (*Generator, error) {
	c := &Generator{routes: g.routes, actions: g.actions}
	if err := c.setBase(base); err != nil {
		return nil, err
	}
	return c, nil
}

// Base returns the root URL.
func (g *Generator) Base() string {
	return g.root(false)
}

// Name registers a named route pattern in chi syntax ("/users/{id}").
func (g *Generator) Name(name, pattern string) *Generator {
	g.routes[name] = pattern
	return g
}

// NameAction registers the pattern a controller action is served on.
func (g *Generator) NameAction(action, pattern string) *Generator {
	g.actions[action] = pattern
	return g
}

// Handle mounts h on r and registers the pattern under name.
func (g *Generator) Handle(r chi.Router, method, name, pattern string, h http.Handler) {
	r.Method(method, pattern, h)
	g.Name(name, pattern)
}

// Routes returns the registered route names in sorted order.
func (g *Generator) Routes() []string {
	names := make([]string, 0, len(g.routes))
	for name := range g.routes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every named route and action pattern is mounted on r.
func (g *Generator) Validate(r chi.Routes) error {
	mounted := make(map[string]bool)
	err := chi.Walk(r, func(_ string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		mounted[route] = true
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking routes: %w", err)
	}

	var missing []string
	for name, pattern := range g.routes {
		if !mounted[pattern] {
			missing = append(missing, fmt.Sprintf("route %s (%s)", name, pattern))
		}
	}
	for name, pattern := range g.actions {
		if !mounted[pattern] {
			missing = append(missing, fmt.Sprintf("action %s (%s)", name, pattern))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("patterns not mounted: %s", strings.Join(missing, ", "))
	}
	return nil
}

// To resolves path against the root. Absolute URLs are returned unchanged and
// secure switches the scheme to https. The root itself has no trailing slash.
func (g *Generator) To(path string, secure bool) string {
	if isAbsolute(path) {
		return path
	}
	root := g.root(secure)
	p := strings.Trim(path, "/")
	if p == "" {
		return root
	}
	return root + "/" + p
}

// Route resolves a named route, filling its placeholders with params in order.
func (g *Generator) Route(name string, params ...any) (string, error) {
	pattern, ok := g.routes[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrRouteNotFound, name)
	}
	path, err := Expand(pattern, params...)
	if err != nil {
		return "", fmt.Errorf("route %s: %w", name, err)
	}
	return g.To(path, false), nil
}

// Action resolves a controller action, filling its placeholders with params in order.
func (g *Generator) Action(name string, params ...any) (string, error) {
	pattern, ok := g.actions[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrActionNotFound, name)
	}
	path, err := Expand(pattern, params...)
	if err != nil {
		return "", fmt.Errorf("action %s: %w", name, err)
	}
	return g.To(path, false), nil
}

func (g *Generator) root(secure bool) string {
	scheme := g.scheme
	if secure {
		scheme = "https"
	}
	return scheme + "://" + g.host + g.prefix
}

// Expand replaces the chi placeholders of pattern ("{id}", "{slug:[a-z-]+}")
// with params in order. Values are path-escaped.
func Expand(pattern string, params ...any) (string, error) {
	var (
		b    strings.Builder
		next int
	)

	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '{' {
			b.WriteByte(pattern[i])
			continue
		}

		end := closingBrace(pattern, i)
		if end < 0 {
			return "", fmt.Errorf("unterminated placeholder in %q", pattern)
		}
		if next >= len(params) {
			return "", fmt.Errorf("%w: %s in %q", ErrMissingParameter, placeholderName(pattern[i+1:end]), pattern)
		}
		b.WriteString(url.PathEscape(fmt.Sprint(params[next])))
		next++
		i = end
	}

	if next < len(params) {
		return "", fmt.Errorf("%w: %q takes %d, got %d", ErrExtraParameter, pattern, next, len(params))
	}
	return b.String(), nil
}

func closingBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func placeholderName(p string) string {
	if idx := strings.IndexByte(p, ':'); idx >= 0 {
		return p[:idx]
	}
	return p
}

func isAbsolute(u string) bool {
	parsed, err := url.Parse(u)
	return err == nil && parsed.Scheme != ""
}
