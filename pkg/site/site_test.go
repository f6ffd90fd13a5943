package site

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/navmenu/pkg/config"
	"github.com/mchmarny/navmenu/pkg/metric"
)

type recordingCounter struct {
	mu    sync.Mutex
	calls []string
}

func (c *recordingCounter) Increment(val ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, strings.Join(val, "/"))
}

func (c *recordingCounter) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("../config/testdata/menu.yaml")
	require.NoError(t, err)
	return cfg
}

func serve(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestPage(t *testing.T) {
	t.Parallel()

	renders := &recordingCounter{}
	s, err := New(loadConfig(t), WithRenderCounter(renders))
	require.NoError(t, err)

	rec := serve(t, s, "http://localhost:9876/users/5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)

	assert.Equal(t, "User", doc.Find("title").Text())
	assert.Equal(t, "/users/5", doc.Find("body").AttrOr("data-path", ""))
	assert.Equal(t, 2, doc.Find("nav.navmenu").Length())

	main := doc.Find(`nav[data-menu="main"]`)
	assert.Equal(t, 1, main.Find("ul#main-nav.nav").Length())
	active := main.Find("li.active > a.active[title]")
	assert.Equal(t, "http://localhost:9876/users/5", active.AttrOr("href", ""), "links resolve against the request host")
	assert.Equal(t, "Profile", active.Text())

	assert.Equal(t, 1, doc.Find(`nav[data-menu="footer"] > div`).Length())

	body := doc.Find("main p")
	assert.Equal(t, "Profile of user 5.", strings.TrimSpace(body.Text()))
	assert.Equal(t, "user", body.Find("strong").Text())

	assert.Equal(t, []string{"main/ok", "footer/ok"}, renders.Calls())
}

func TestActionPage(t *testing.T) {
	t.Parallel()

	s, err := New(loadConfig(t))
	require.NoError(t, err)

	rec := serve(t, s, "http://example.test/users/5/edit")
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	edit := doc.Find("li.active:not(.opened) > a")
	assert.Equal(t, "Edit", edit.Text())
	assert.Equal(t, "http://example.test/users/5/edit", edit.AttrOr("href", ""))
	assert.Equal(t, "Users", doc.Find("li.active.opened > a").Text(), "subtree pattern keeps users active")
}

func TestPageNotFound(t *testing.T) {
	t.Parallel()

	s, err := New(loadConfig(t))
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, serve(t, s, "/nowhere").Code)
}

func TestMenuTree(t *testing.T) {
	t.Parallel()

	s, err := New(loadConfig(t))
	require.NoError(t, err)

	rec := serve(t, s, "http://example.test/_menus/main?path=/users/5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp TreeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "main", resp.Name)
	assert.Equal(t, "/users/5", resp.Path)
	require.Len(t, resp.Items, 3)

	users := resp.Items[1]
	assert.Equal(t, "users", users.Slug)
	assert.True(t, users.Active)
	require.Len(t, users.Children, 2)
	assert.True(t, users.Children[0].Active)
	assert.Equal(t, "http://example.test/users/5", users.Children[0].URL)
	assert.True(t, users.Children[1].Divider)

	rec = serve(t, s, "http://example.test/_menus/main")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "/", resp.Path)
	assert.True(t, resp.Items[0].Active, "home matches the root path")

	rec = serve(t, s, "http://example.test/_menus/main?path=users/5")
	require.Equal(t, http.StatusOK, rec.Code)
	var rel TreeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rel))
	assert.Equal(t, "/users/5", rel.Path, "relative path is rooted")
	require.Len(t, rel.Items, 3)
	assert.True(t, rel.Items[1].Children[0].Active)

	rec = serve(t, s, "/_menus/sidebar")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "menu not found: sidebar")
}

func TestRenderErrors(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse([]byte(`
routes:
  - name: home
    path: /
menus:
  - name: broken
    items:
      - id: ghost
        title: Ghost
        options:
          route: missing
`))
	require.NoError(t, err)

	renders := &recordingCounter{}
	s, err := New(cfg, WithRenderCounter(renders))
	require.NoError(t, err)

	rec := serve(t, s, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "error rendering menus")

	rec = serve(t, s, "/_menus/broken")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	assert.Equal(t, []string{"broken/error", "broken/error"}, renders.Calls())
}

func TestSwap(t *testing.T) {
	t.Parallel()

	reloads := &recordingCounter{}
	s, err := New(loadConfig(t), WithReloadCounter(reloads))
	require.NoError(t, err)

	next, err := config.Parse([]byte(`
routes:
  - name: about
    path: /about
    title: About
menus:
  - name: side
    tag: ol
    items:
      - id: about
        title: About
        options:
          route: about
`))
	require.NoError(t, err)

	require.NoError(t, s.Swap(next))
	assert.Same(t, next, s.Config())
	assert.Equal(t, http.StatusNotFound, serve(t, s, "/users/5").Code)

	rec := serve(t, s, "http://example.test/about")
	require.Equal(t, http.StatusOK, rec.Code)
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find(`nav[data-menu="side"] > ol > li.active`).Length())

	bad, err := config.Parse([]byte("routes: [{name: u, path: '/users/{id'}]\nmenus: [{name: m}]"))
	require.NoError(t, err)
	require.Error(t, s.Swap(bad))
	assert.Same(t, next, s.Config(), "a bad config keeps the current one")

	s.Reload(bad)
	assert.Same(t, next, s.Config())

	assert.Equal(t, []string{metric.StatusOK, metric.StatusError, metric.StatusError}, reloads.Calls())
}

func TestNewRejectsUnmountable(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse([]byte("routes: [{name: u, path: '/users/{id'}]\nmenus: [{name: m}]"))
	require.NoError(t, err)

	_, err = New(cfg)
	require.Error(t, err)
}
