package menu

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestRenderNestedTree(t *testing.T) {
	t.Parallel()

	m := New(newTestResolver(), nil)
	root := m.Add("root", "Root", WithURL("/root"))
	child := root.Add("child", "Child", WithURL("/child"))
	child.Add("grand", "Grand", WithURL("/grand"))
	m.Add("other", "Other", WithURL("https://x.test/"))

	html, err := m.AsUl(Attrs("class", "nav"))
	require.NoError(t, err)
	require.Equal(t,
		`<ul class="nav">`+
			`<li><a href="http://example.test/root">Root</a>`+
			`<ul><li><a href="http://example.test/child">Child</a>`+
			`<ul><li><a href="http://example.test/grand">Grand</a></li></ul>`+
			`</li></ul>`+
			`</li>`+
			`<li><a href="https://x.test/">Other</a></li>`+
			`</ul>`,
		html)
}

func TestRenderTags(t *testing.T) {
	t.Parallel()

	m := New(newTestResolver(), nil)
	m.Add("a", "A", WithURL("/a")).Add("b", "B", WithURL("/b"))

	ol, err := m.AsOl(nil)
	require.NoError(t, err)
	require.Equal(t, `<ol><li><a href="http://example.test/a">A</a><ol><li><a href="http://example.test/b">B</a></li></ol></li></ol>`, ol)

	div, err := m.AsDiv(Attrs("id", "menu"))
	require.NoError(t, err)
	require.Equal(t, `<div id="menu"><div><a href="http://example.test/a">A</a><div><div><a href="http://example.test/b">B</a></div></div></div></div>`, div)

	empty, err := New(nil, nil).AsUl(nil)
	require.NoError(t, err)
	require.Equal(t, "<ul></ul>", empty)
}

func TestRenderAttributesAndLinks(t *testing.T) {
	t.Parallel()

	m := New(newTestResolver(), nil)
	home := m.Add("home", "Home", WithRoute("home"), WithAttribute("id", "nav-home"))
	home.Link().SetAttr("target", "_blank")
	m.Add("heading", "Heading")
	m.Add("search", "Search", WithURL("https://x.test/?q=a&page=2"))

	html, err := m.AsUl(nil)
	require.NoError(t, err)
	require.Equal(t,
		`<ul>`+
			`<li id="nav-home"><a target="_blank" href="http://example.test">Home</a></li>`+
			`<li><a>Heading</a></li>`+
			`<li><a href="https://x.test/?q=a&amp;page=2">Search</a></li>`+
			`</ul>`,
		html)
}

func TestRenderDividerIsSibling(t *testing.T) {
	t.Parallel()

	m := New(newTestResolver(), nil)
	a := m.Add("a", "A", WithURL("/a"))
	a.Add("a1", "A1", WithURL("/a1")).Divide(nil)
	a.Divide(Attrs("class", "thin", "role", "separator"))
	m.Add("b", "B", WithURL("/b"))

	html, err := m.AsUl(nil)
	require.NoError(t, err)
	require.Equal(t,
		`<ul>`+
			`<li><a href="http://example.test/a">A</a><ul><li><a href="http://example.test/a1">A1</a></li><li class="divider"></li></ul></li>`+
			`<li class="divider thin" role="separator"></li>`+
			`<li><a href="http://example.test/b">B</a></li>`+
			`</ul>`,
		html)
}

func TestRenderActiveTrail(t *testing.T) {
	t.Parallel()

	m := New(newTestResolver(), requestFor("/users/5"))
	m.Add("home", "Home", WithRoute("home"))
	users := m.Add("users", "Users", WithURL("/users"), WithAttribute("class", "nav-item"))
	users.Add("profile", "Profile", WithRoute("users.show", 5))
	users.Add("settings", "Settings", WithRoute("users.show", 6))

	html, err := m.AsUl(nil)
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	require.Equal(t, 4, doc.Find("li").Length(), "one li per item")
	require.Equal(t, 1, doc.Find("li.nav-item.opened").Length(), "parent is opened")
	active := doc.Find("li.active > a.active")
	require.Equal(t, 1, active.Length())
	require.Equal(t, "http://example.test/users/5", active.AttrOr("href", ""))
	require.Equal(t, "Profile", active.Text())
	require.Equal(t, 2, doc.Find("li.opened > ul > li").Length())
}

func TestRenderSanitizesTitles(t *testing.T) {
	t.Parallel()

	m := New(newTestResolver(), nil)
	m.Add("home", "Home", WithURL("/")).
		Prepend(`<i class="fa fa-home"></i>`).
		Append(`<script>alert(1)</script>`)

	html, err := m.AsUl(nil)
	require.NoError(t, err)
	require.NotContains(t, html, "<script")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find("a > i.fa.fa-home").Length(), "icon markup survives")

	raw := New(newTestResolver(), nil, WithTitlePolicy(nil))
	raw.Add("home", "<b>Home</b> <script>x</script>", WithURL("/"))
	html, err = raw.AsUl(nil)
	require.NoError(t, err)
	require.Contains(t, html, "<script>x</script>", "nil policy renders titles as given")
}

func TestRenderPropagatesResolverErrors(t *testing.T) {
	t.Parallel()

	m := New(newTestResolver(), nil)
	m.Add("ghost", "Ghost", WithRoute("missing"))

	_, err := m.AsUl(nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "ghost")

	_, err = m.Tree()
	require.Error(t, err)
}

func TestRenderRejectsParentCycles(t *testing.T) {
	t.Parallel()

	m := New(newTestResolver(), nil)
	m.Add("root", "Root", WithURL("/"))
	m.Add("a", "A", WithURL("/a"), WithParent(3))
	m.Add("b", "B", WithURL("/b"), WithParent(2))

	html, err := m.AsUl(nil)
	require.ErrorIs(t, err, ErrCycle)
	require.Empty(t, html)

	tree, err := m.Tree()
	require.ErrorIs(t, err, ErrCycle)
	require.Nil(t, tree)
}

func TestRenderSkipsOrphans(t *testing.T) {
	t.Parallel()

	m := New(newTestResolver(), nil)
	m.Add("root", "Root", WithURL("/"))
	m.Add("orphan", "Orphan", WithURL("/orphan"), WithParent(42))

	html, err := m.AsUl(nil)
	require.NoError(t, err)
	require.Equal(t, `<ul><li><a href="http://example.test">Root</a></li></ul>`, html)

	tree, err := m.Tree()
	require.NoError(t, err)
	require.Len(t, tree, 1)
}

func TestRenderActiveLinkKeepsConfiguredClass(t *testing.T) {
	t.Parallel()

	m := New(newTestResolver(), requestFor("/docs"))
	m.Add("docs", "Docs", WithURL("/docs"), WithLinkAttributes(Attrs("class", "btn")))

	html, err := m.AsUl(nil)
	require.NoError(t, err)
	require.Equal(t, `<ul><li class="active"><a class="btn active" href="http://example.test/docs">Docs</a></li></ul>`, html)
}

func TestTree(t *testing.T) {
	t.Parallel()

	m := New(newTestResolver(), requestFor("/docs/intro"))
	docs := m.Add("docs", "Docs", WithURL("/docs"))
	docs.Add("intro", "Intro", WithURL("/docs/intro")).SetData("Icon", "book")
	docs.Divide(nil)
	m.Add("blog", "Blog", WithURL("/blog"))

	tree, err := m.Tree()
	require.NoError(t, err)
	require.Len(t, tree, 2)

	require.Equal(t, "docs", tree[0].Slug)
	require.True(t, tree[0].Divider)
	require.False(t, tree[0].Active)
	require.Equal(t, map[string]any{"class": "opened"}, tree[0].Attributes)
	require.Len(t, tree[0].Children, 1)

	intro := tree[0].Children[0]
	require.True(t, intro.Active)
	require.Equal(t, "http://example.test/docs/intro", intro.URL)
	require.Equal(t, "book", intro.Data["icon"])

	require.Empty(t, tree[1].Children)

	data, err := json.Marshal(tree)
	require.NoError(t, err)
	require.Contains(t, string(data), `"slug":"intro"`)
	require.NotContains(t, string(data), `"children":null`)
}
