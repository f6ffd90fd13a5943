package site

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mchmarny/navmenu/pkg/config"
	"github.com/mchmarny/navmenu/pkg/menu"
	"github.com/mchmarny/navmenu/pkg/metric"
	"github.com/mchmarny/navmenu/pkg/request"
)

// TreeResponse is the body of the menu tree endpoint.
type TreeResponse struct {
	Name  string      `json:"name"`
	Path  string      `json:"path"`
	Items []menu.Node `json:"items"`
}

// page renders the page of a route: every menu followed by the route title
// and body. Route parameters ("{id}") in the body are filled in.
func (s *Site) page(rc config.RouteConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cur, ok := request.FromContext(r.Context())
		if !ok {
			cur = request.FromHTTP(r)
		}

		st := s.current()
		menus, err := s.renderMenus(st, cur)
		if err != nil {
			slog.Error("rendering menus", "path", cur.Path(), "error", err)
			writeError(w, http.StatusInternalServerError, "error rendering menus, see logs for details")
			return
		}

		body, err := s.markdownBody(fillParams(rc.Body, chi.RouteContext(r.Context())))
		if err != nil {
			slog.Error("rendering page body", "route", rc.Name, "error", err)
			writeError(w, http.StatusInternalServerError, "error rendering page, see logs for details")
			return
		}

		var buf bytes.Buffer
		if err := pageTemplate.Execute(&buf, pageData{
			Title: rc.Title,
			Path:  cur.Path(),
			Body:  body,
			Menus: menus,
		}); err != nil {
			slog.Error("executing page template", "route", rc.Name, "error", err)
			writeError(w, http.StatusInternalServerError, "error rendering page, see logs for details")
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			slog.Error("failed to write page", "error", err)
		}
	}
}

// menuTree returns the named menu as JSON. The path query parameter sets the
// request path the menu is activated for; it defaults to "/".
func (s *Site) menuTree(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	st := s.current()
	def, ok := st.cfg.Menu(name)
	if !ok {
		writeError(w, http.StatusNotFound, "menu not found: "+name)
		return
	}

	cur := request.New(request.Base(r), r.URL.Query().Get("path"))
	gen, err := st.gen.WithBase(cur.Base())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	m, err := def.Build(gen, cur)
	if err != nil {
		s.renders.Increment(name, metric.StatusError)
		slog.Error("building menu", "menu", name, "error", err)
		writeError(w, http.StatusInternalServerError, "error building menu, see logs for details")
		return
	}

	items, err := m.Tree()
	if err != nil {
		s.renders.Increment(name, metric.StatusError)
		slog.Error("resolving menu tree", "menu", name, "error", err)
		writeError(w, http.StatusInternalServerError, "error resolving menu, see logs for details")
		return
	}
	s.renders.Increment(name, metric.StatusOK)

	if items == nil {
		items = []menu.Node{}
	}
	writeJSON(w, http.StatusOK, TreeResponse{Name: name, Path: cur.Path(), Items: items})
}

func fillParams(body string, rctx *chi.Context) string {
	if body == "" || rctx == nil {
		return body
	}
	for i, key := range rctx.URLParams.Keys {
		if key == "*" || i >= len(rctx.URLParams.Values) {
			continue
		}
		body = strings.ReplaceAll(body, "{"+key+"}", rctx.URLParams.Values[i])
	}
	return body
}

func writeError(w http.ResponseWriter, status int, message string) {
	slog.Debug("handling error response",
		"status", status,
		"message", message,
	)
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}
