package menu

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Item represents a single node in the menu. Items are created with Menu.Add
// or Item.Add and live as long as their menu.
type Item struct {
	menu *Menu

	id     int
	slug   string
	title  string
	parent int

	attrs   *Attributes
	divider *Attributes
	data    Metadata
	link    *Link
}

func newItem(m *Menu, id int, identifier, title string, o itemOptions) *Item {
	i := &Item{
		menu:   m,
		id:     id,
		slug:   Slug(identifier),
		title:  title,
		parent: o.parent,
		attrs:  o.attrs,
	}
	i.data.Merge(o.data)
	i.configureLink(o.target, o.linkAttrs)
	return i
}

// configureLink builds the item link and activates the item when the link
// points at the current request.
func (i *Item) configureLink(t Target, attrs *Attributes) {
	i.link = newLink(t)
	i.link.MergeAttrs(attrs)
	i.checkActiveStatus()
}

func (i *Item) checkActiveStatus() {
	req := i.menu.request
	if req == nil || i.link.target.Kind == TargetNone {
		return
	}

	u, err := i.URL()
	if err != nil {
		i.menu.logger.Debug("menu link not resolvable", "slug", i.slug, "target", i.link.target.String(), "error", err)
		return
	}
	if u == "" {
		return
	}

	match := u == req.URL()
	if !match && i.menu.resolver != nil {
		match = u == i.menu.resolver.To(req.Path(), true)
	}
	if !match {
		return
	}

	if err := i.Activate(); err != nil {
		i.menu.logger.Warn("menu item activation failed", "slug", i.slug, "error", err)
	}
}

// ID returns the item id.
func (i *Item) ID() int { return i.id }

// Slug returns the lookup name derived from the item identifier.
func (i *Item) Slug() string { return i.slug }

// Title returns the item title.
func (i *Item) Title() string { return i.title }

// ParentID returns the id of the parent item or zero for root items.
func (i *Item) ParentID() int { return i.parent }

// Link returns the item link.
func (i *Item) Link() *Link { return i.link }

// Divider returns the divider attributes or nil when the item has none.
func (i *Item) Divider() *Attributes { return i.divider }

// Add adds a child item under i.
func (i *Item) Add(identifier, title string, opts ...ItemOption) *Item {
	return i.menu.Add(identifier, title, append(opts[:len(opts):len(opts)], WithParent(i.id))...)
}

// URL resolves the item link.
func (i *Item) URL() (string, error) {
	return i.menu.Dispatch(i.link.target)
}

// SetTitle replaces the item title.
func (i *Item) SetTitle(title string) *Item {
	i.title = title
	return i
}

// Prepend puts html in front of the title, separated by a space.
func (i *Item) Prepend(html string) *Item {
	i.title = html + " " + i.title
	return i
}

// Append adds html after the title, separated by a space.
func (i *Item) Append(html string) *Item {
	i.title = i.title + " " + html
	return i
}

// Divide renders a divider right after the item. The divider always carries
// the "divider" class; classes in attrs are added to it.
func (i *Item) Divide(attrs *Attributes) *Item {
	d := attrs.Clone()
	if class, ok := FormatGroupClass(d, Attrs("class", "divider")); ok {
		d.Set("class", class)
	}
	i.divider = d
	return i
}

// HasChildren reports whether any item is nested under i.
func (i *Item) HasChildren() bool {
	for _, it := range i.menu.items {
		if it.parent == i.id {
			return true
		}
	}
	return false
}

// Children returns the items nested directly under i.
func (i *Item) Children() []*Item {
	return i.menu.ChildrenOf(i.id)
}

// Activate marks the item as the current location: it gets the active class
// on itself and its link, and the active metadata flag. Every ancestor gets
// the opened class. The walk stops at a root item or at a parent id that
// does not exist; an item that is its own ancestor yields ErrCycle.
func (i *Item) Activate() error {
	addClass(i.attrs, "active")
	i.link.Active()
	i.data.Set("active", true)

	if err := i.menu.ancestors(i, func(parent *Item) {
		addClass(parent.attrs, "opened")
	}); err != nil {
		return err
	}

	i.menu.logger.Debug("menu item activated", "id", i.id, "slug", i.slug)
	return nil
}

// IsActive reports whether the item has been activated.
func (i *Item) IsActive() bool {
	v, _ := i.data.Get("active")
	b, _ := v.(bool)
	return b
}

// Active activates the item when the request path matches pattern. A "/*"
// matches the segment and everything beneath it; the match is anchored at
// the end of the path.
//
//	item.Active("users/*") // matches "users", "users/5", "admin/users/5/edit"
func (i *Item) Active(pattern string) error {
	if pattern == "" || i.menu.request == nil {
		return nil
	}

	expr := strings.TrimLeft(strings.ReplaceAll(pattern, "/*", "(/.*)?"), "/")
	re, err := regexp.Compile(expr + `\z`)
	if err != nil {
		return fmt.Errorf("compiling active pattern %q: %w", pattern, err)
	}

	if re.MatchString(strings.TrimLeft(i.menu.request.Path(), "/")) {
		return i.Activate()
	}
	return nil
}

// Match activates the item when the request path matches the glob pattern
// ("**" spans segments). Leading slashes are ignored on both sides.
func (i *Item) Match(glob string) error {
	if glob == "" || i.menu.request == nil {
		return nil
	}

	ok, err := doublestar.Match(strings.TrimLeft(glob, "/"), strings.TrimLeft(i.menu.request.Path(), "/"))
	if err != nil {
		return fmt.Errorf("matching glob %q: %w", glob, err)
	}
	if ok {
		return i.Activate()
	}
	return nil
}

// Attributes returns the attributes of the item wrapper tag.
func (i *Item) Attributes() *Attributes {
	return i.attrs
}

// AttributeString renders the item attributes.
func (i *Item) AttributeString() string {
	return AttributeString(i.attrs)
}

// Attribute returns the attribute stored under key or nil.
func (i *Item) Attribute(key string) any {
	return i.attrs.Value(key)
}

// SetAttribute sets a single attribute, see MergeAttributes.
func (i *Item) SetAttribute(key string, value any) *Item {
	return i.MergeAttributes(Attrs(key, value))
}

// MergeAttributes copies attrs onto the item. A class is added to the
// existing classes instead of replacing them.
func (i *Item) MergeAttributes(attrs *Attributes) *Item {
	attrs = attrs.Clone()
	if class, ok := attrs.Get("class"); ok {
		if merged, ok := FormatGroupClass(Attrs("class", class), i.attrs); ok {
			i.attrs.Set("class", merged)
		}
		attrs.Delete("class")
	}
	i.attrs.Merge(attrs)
	return i
}

// Data returns a copy of the item metadata.
func (i *Item) Data() map[string]any {
	return i.data.Map()
}

// DataValue returns the metadata stored under key or nil.
func (i *Item) DataValue(key string) any {
	v, _ := i.data.Get(key)
	return v
}

// SetData stores a metadata value.
func (i *Item) SetData(key string, value any) *Item {
	i.data.Set(key, value)
	return i
}

// MergeData stores every entry of values as metadata.
func (i *Item) MergeData(values map[string]any) *Item {
	i.data.Merge(values)
	return i
}

// Property returns a declared item field by name. It is the second lookup
// tier of Menu.Where, after metadata.
func (i *Item) Property(name string) (any, bool) {
	switch name {
	case "id":
		return i.id, true
	case "slug":
		return i.slug, true
	case "title":
		return i.title, true
	case "parent":
		if i.parent == 0 {
			return nil, true
		}
		return i.parent, true
	}
	return nil, false
}
