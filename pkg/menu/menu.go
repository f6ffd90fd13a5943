// Package menu builds hierarchical navigation menus and renders them as
// nested HTML lists.
//
// Items are kept in a flat, insertion-ordered list and refer to their parent
// by id. Link targets are resolved through a Resolver, and items whose link
// points at the current Request are activated together with their ancestors.
//
// A Menu is request-scoped and not safe for concurrent use.
//
// Example:
//
//	m := menu.New(gen, request.FromHTTP(r))
//	users := m.Add("users", "Users", menu.WithURL("/users"))
//	users.Add("profile", "Profile", menu.WithRoute("users.show", 5))
//	users.Divide(nil)
//	m.Add("docs", "Docs", menu.WithURL("https://docs.example.test"),
//	    menu.WithLinkAttributes(menu.Attrs("target", "_blank")))
//
//	html, err := m.AsUl(menu.Attrs("class", "nav"))
package menu

import (
	"fmt"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"
)

// Resolver turns link descriptors into URLs.
type Resolver interface {
	// To resolves a path relative to the application base, optionally under https.
	To(path string, secure bool) string

	// Route resolves a named route with positional params.
	Route(name string, params ...any) (string, error)

	// Action resolves a controller action with positional params.
	Action(name string, params ...any) (string, error)
}

// Request exposes the in-flight request used to decide which items are active.
type Request interface {
	// URL returns the absolute request URL without query string.
	URL() string

	// Path returns the request path.
	Path() string
}

// Menu is the ordered collection of all items of one menu.
type Menu struct {
	resolver Resolver
	request  Request
	logger   *slog.Logger
	titles   *bluemonday.Policy

	items  []*Item
	lastID int
}

// Option configures a Menu.
type Option func(*Menu)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(m *Menu) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithTitlePolicy sets the policy titles are sanitized with when rendering.
// A nil policy renders titles as given.
func WithTitlePolicy(p *bluemonday.Policy) Option {
	return func(m *Menu) { m.titles = p }
}

// DefaultTitlePolicy allows the inline markup commonly put in menu titles,
// such as icons and badges, and strips everything else.
func DefaultTitlePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("i", "span", "em", "strong", "b", "small", "sup", "sub")
	p.AllowAttrs("class", "title", "aria-hidden").Globally()
	p.AllowImages()
	p.AllowURLSchemes("http", "https")
	p.AllowRelativeURLs(true)
	return p
}

// New creates an empty menu.
//
// Parameters:
//   - resolver: Resolves relative paths, routes and actions. When nil only
//     absolute URLs can be dispatched.
//   - request: The request items are activated against as they are added.
//     When nil nothing is activated automatically.
//   - opts: Menu options such as WithLogger and WithTitlePolicy.
//
// Returns:
//   - *Menu: An empty menu using slog.Default and DefaultTitlePolicy unless
//     overridden.
func New(resolver Resolver, request Request, opts ...Option) *Menu {
	m := &Menu{
		resolver: resolver,
		request:  request,
		logger:   slog.Default(),
		titles:   DefaultTitlePolicy(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Make returns a new empty menu sharing the collaborators of m.
func (m *Menu) Make() *Menu {
	return &Menu{
		resolver: m.resolver,
		request:  m.request,
		logger:   m.logger,
		titles:   m.titles,
	}
}

// Add appends an item and returns it. The item gets the next id and a slug
// derived from identifier. Identifiers need not be unique; lookups by slug
// return the first match.
//
// Options set the link target, parent, wrapper attributes, anchor attributes
// and metadata. They are all applied before the link is compared with the
// current request, so an item whose link matches is returned already active
// with its ancestors opened.
func (m *Menu) Add(identifier, title string, opts ...ItemOption) *Item {
	item := newItem(m, m.lastID+1, identifier, title, newItemOptions(opts))
	m.items = append(m.items, item)
	m.lastID = item.id
	return item
}

// ancestors calls fn for every ancestor of it, nearest first. The walk stops
// at a root item or at a parent id that does not exist. A chain that reaches
// an id twice yields ErrCycle; fn may be nil.
func (m *Menu) ancestors(it *Item, fn func(*Item)) error {
	seen := map[int]bool{it.id: true}
	for id := it.parent; id != 0; {
		if seen[id] {
			return fmt.Errorf("%w: item %d (%s) reaches item %d again", ErrCycle, it.id, it.slug, id)
		}
		seen[id] = true

		parent := m.ItemByID(id)
		if parent == nil {
			m.logger.Debug("menu parent not found", "slug", it.slug, "parent", id)
			return nil
		}
		if fn != nil {
			fn(parent)
		}
		id = parent.parent
	}
	return nil
}

// checkCycles fails on the first item whose parent chain loops. Such items
// are unreachable from the root and would otherwise be left out silently.
func (m *Menu) checkCycles() error {
	for _, it := range m.items {
		if err := m.ancestors(it, nil); err != nil {
			return err
		}
	}
	return nil
}

// LastID returns the id of the most recently added item.
func (m *Menu) LastID() int {
	return m.lastID
}

// Dispatch resolves a link descriptor. Absolute URLs are returned verbatim.
// A TargetNone descriptor resolves to the empty string.
func (m *Menu) Dispatch(t Target) (string, error) {
	switch t.Kind {
	case TargetURL:
		if IsAbsolute(t.Value) || m.resolver == nil {
			return t.Value, nil
		}
		return m.resolver.To(t.Value, t.Secure), nil
	case TargetRoute:
		if m.resolver == nil {
			return "", fmt.Errorf("route %q: %w", t.Value, ErrNoResolver)
		}
		return m.resolver.Route(t.Value, t.Params...)
	case TargetAction:
		if m.resolver == nil {
			return "", fmt.Errorf("action %q: %w", t.Value, ErrNoResolver)
		}
		return m.resolver.Action(t.Value, t.Params...)
	}
	return "", nil
}

// All returns the items in insertion order.
func (m *Menu) All() []*Item {
	return m.items
}

// First returns the first item or nil.
func (m *Menu) First() *Item {
	if len(m.items) == 0 {
		return nil
	}
	return m.items[0]
}

// Last returns the last item or nil.
func (m *Menu) Last() *Item {
	if len(m.items) == 0 {
		return nil
	}
	return m.items[len(m.items)-1]
}

// Item returns the first item with the given slug or nil.
func (m *Menu) Item(slug string) *Item {
	for _, it := range m.items {
		if it.slug == slug {
			return it
		}
	}
	return nil
}

// Lookup returns an item by name. Names are matched as slugs first and then
// as identifiers, so both "userProfile" and "user-profile" find the same item.
func (m *Menu) Lookup(name string) *Item {
	if it := m.Item(name); it != nil {
		return it
	}
	return m.Item(Slug(name))
}

// ItemByID returns the item with the given id or nil.
func (m *Menu) ItemByID(id int) *Item {
	for _, it := range m.items {
		if it.id == id {
			return it
		}
	}
	return nil
}

// ChildrenOf returns the items whose parent is id, in insertion order.
// Zero returns the root items.
func (m *Menu) ChildrenOf(id int) []*Item {
	var out []*Item
	for _, it := range m.items {
		if it.parent == id {
			out = append(out, it)
		}
	}
	return out
}

// Active returns the activated items.
func (m *Menu) Active() []*Item {
	var out []*Item
	for _, it := range m.items {
		if it.IsActive() {
			out = append(out, it)
		}
	}
	return out
}

// Where returns the items whose metadata attribute, or failing that whose
// property of that name, equals value. Comparison is loose: nil equals the
// zero value, and numbers compare by value.
//
//	m.Where("parent", nil)   // root items
//	m.Where("slug", "about") // items with slug "about"
//	m.Where("icon", "home")  // items with metadata icon=home
func (m *Menu) Where(attribute string, value any) []*Item {
	var out []*Item
	for _, it := range m.items {
		if v, ok := it.data.Get(attribute); ok && looseEqual(v, value) {
			out = append(out, it)
			continue
		}
		if v, ok := it.Property(attribute); ok && looseEqual(v, value) {
			out = append(out, it)
		}
	}
	return out
}

// Filter keeps only the items fn returns true for.
func (m *Menu) Filter(fn func(*Item) bool) *Menu {
	if fn == nil {
		return m
	}
	kept := make([]*Item, 0, len(m.items))
	for _, it := range m.items {
		if fn(it) {
			kept = append(kept, it)
		}
	}
	m.items = kept
	return m
}

func looseEqual(a, b any) bool {
	if a == nil || b == nil {
		return isZero(a) && isZero(b)
	}
	if x, ok := number(a); ok {
		if y, ok := number(b); ok {
			return x == y
		}
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func isZero(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	}
	n, ok := number(v)
	return ok && n == 0
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
