// Package site serves a page for every configured route with all menus
// rendered for the request, and the menu trees as JSON.
package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/mchmarny/navmenu/pkg/config"
	"github.com/mchmarny/navmenu/pkg/metric"
	"github.com/mchmarny/navmenu/pkg/request"
	"github.com/mchmarny/navmenu/pkg/urlgen"
)

// MenusPath is the prefix of the JSON menu tree endpoint.
const MenusPath = "/_menus"

//go:embed templates/page.html
var templates embed.FS

var pageTemplate = template.Must(template.ParseFS(templates, "templates/page.html"))

// Site holds the live config and the router derived from it.
type Site struct {
	mu    sync.RWMutex
	state *state

	renders metric.IncrementalCounter
	reloads metric.IncrementalCounter

	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

type state struct {
	cfg    *config.Config
	gen    *urlgen.Generator
	router chi.Router
}

// Option configures a Site.
type Option func(*Site)

// WithRenderCounter counts menu renders by menu and status.
func WithRenderCounter(c metric.IncrementalCounter) Option {
	return func(s *Site) { s.renders = c }
}

// WithReloadCounter counts config swaps by status.
func WithReloadCounter(c metric.IncrementalCounter) Option {
	return func(s *Site) { s.reloads = c }
}

// New returns a Site serving cfg.
func New(cfg *config.Config, opts ...Option) (*Site, error) {
	s := &Site{
		renders:  metric.Discard,
		reloads:  metric.Discard,
		markdown: goldmark.New(),
		policy:   bluemonday.UGCPolicy(),
	}
	for _, opt := range opts {
		opt(s)
	}

	st, err := s.build(cfg)
	if err != nil {
		return nil, err
	}
	s.state = st
	return s, nil
}

// Swap replaces the live config. When cfg cannot be mounted the current
// config keeps serving and the error is returned.
func (s *Site) Swap(cfg *config.Config) error {
	st, err := s.build(cfg)
	if err != nil {
		s.reloads.Increment(metric.StatusError)
		return err
	}

	s.mu.Lock()
	s.state = st
	s.mu.Unlock()

	s.reloads.Increment(metric.StatusOK)
	slog.Info("site config swapped", "routes", len(cfg.Routes), "menus", len(cfg.Menus))
	return nil
}

// Reload swaps in cfg and logs a failure. It fits config.Watch.
func (s *Site) Reload(cfg *config.Config) {
	if err := s.Swap(cfg); err != nil {
		slog.Error("config swap failed", "path", cfg.Path, "error", err)
	}
}

// Config returns the live config.
func (s *Site) Config() *config.Config {
	return s.current().cfg
}

// ServeHTTP dispatches to the router of the live config.
func (s *Site) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.current().router.ServeHTTP(w, r)
}

func (s *Site) current() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// build mounts the routes and actions of cfg on a fresh router and checks
// that every named pattern resolves to a mounted one.
func (s *Site) build(cfg *config.Config) (st *state, err error) {
	gen, err := urlgen.New(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	// chi panics on malformed patterns
	defer func() {
		if p := recover(); p != nil {
			st, err = nil, fmt.Errorf("mounting routes: %v", p)
		}
	}()

	r := chi.NewRouter()
	r.Use(request.Middleware)
	r.Get(MenusPath+"/{name}", s.menuTree)

	for _, rc := range cfg.Routes {
		gen.Handle(r, http.MethodGet, rc.Name, rc.Path, s.page(rc))
	}
	for _, ac := range cfg.Actions {
		r.Method(http.MethodGet, ac.Path, s.page(ac))
		gen.NameAction(ac.Name, ac.Path)
	}

	if err := gen.Validate(r); err != nil {
		return nil, err
	}

	return &state{cfg: cfg, gen: gen, router: r}, nil
}

type renderedMenu struct {
	Name string
	HTML template.HTML
}

type pageData struct {
	Title string
	Path  string
	Body  template.HTML
	Menus []renderedMenu
}

// renderMenus builds and renders every menu of st for cur. Links resolve
// against the host the request came in on.
func (s *Site) renderMenus(st *state, cur request.Current) ([]renderedMenu, error) {
	gen, err := st.gen.WithBase(cur.Base())
	if err != nil {
		return nil, err
	}

	out := make([]renderedMenu, 0, len(st.cfg.Menus))
	for _, def := range st.cfg.Menus {
		m, err := def.Build(gen, cur)
		var html string
		if err == nil {
			html, err = def.Render(m)
		}
		if err != nil {
			s.renders.Increment(def.Name, metric.StatusError)
			return nil, fmt.Errorf("menu %s: %w", def.Name, err)
		}

		s.renders.Increment(def.Name, metric.StatusOK)
		// attribute values are escaped and titles sanitized by the menu renderer
		out = append(out, renderedMenu{Name: def.Name, HTML: template.HTML(html)}) //nolint:gosec
	}
	return out, nil
}

// markdownBody renders src as sanitized HTML.
func (s *Site) markdownBody(src string) (template.HTML, error) {
	if src == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return template.HTML(s.policy.SanitizeBytes(buf.Bytes())), nil //nolint:gosec
}
