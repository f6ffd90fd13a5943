package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/navmenu/pkg/site"
)

const testConfig = "../../pkg/config/testdata/menu.yaml"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		renderMenus = nil
		renderPath = "/"
		renderTag = ""
		renderJSON = false
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestRenderHTML(t *testing.T) {
	out, err := run(t, "render", "--config", testConfig, "--path", "/users/5", "--menu", "main", "--log-level", "error")
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("ul#main-nav").Length())
	assert.Equal(t, "http://example.test/users/5", doc.Find("li.active:not(.opened) > a").AttrOr("href", ""))
}

func TestRenderTagOverride(t *testing.T) {
	out, err := run(t, "render", "--config", testConfig, "--path", "/", "--menu", "footer", "--tag", "ol", "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, `<ol><li><a href="http://example.test/about">About</a></li></ol>`+"\n", out)
}

func TestRenderJSON(t *testing.T) {
	out, err := run(t, "render", "--config", testConfig, "--path", "/about/team", "--menu", "footer", "--json", "--log-level", "error")
	require.NoError(t, err)

	var resp site.TreeResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "footer", resp.Name)
	assert.Equal(t, "/about/team", resp.Path)
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].Active)
}

func TestRenderErrors(t *testing.T) {
	_, err := run(t, "render", "--config", testConfig, "--menu", "sidebar", "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sidebar")

	_, err = run(t, "render", "--config", "missing.yaml", "--menu", "main", "--log-level", "error")
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version", "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, "navmenu dev (commit none, built unknown)\n", out)
}

func TestRenderSampleConfig(t *testing.T) {
	out, err := run(t, "render", "--config", "../../navmenu.yaml", "--path", "/docs/install", "--log-level", "error")
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)

	assert.Equal(t, 1, doc.Find("ul.nav.navbar-nav").Length())
	assert.Equal(t, 1, doc.Find("div.footer-links").Length())
	assert.Equal(t, "Docs", doc.Find("li.active.opened > a").Text())
	assert.Equal(t, "http://localhost:9876/docs/install", doc.Find("li.active:not(.opened) > a").AttrOr("href", ""))
	assert.Equal(t, 1, doc.Find("li.divider").Length())
}
