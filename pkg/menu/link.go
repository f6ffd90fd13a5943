package menu

// Link is the navigation target of an item together with the attributes of
// its anchor element.
type Link struct {
	target Target
	attrs  *Attributes
}

func newLink(t Target) *Link {
	return &Link{target: t, attrs: NewAttributes()}
}

// Target returns the link descriptor.
func (l *Link) Target() Target {
	return l.target
}

// Attr returns the anchor attribute stored under key or nil.
func (l *Link) Attr(key string) any {
	return l.attrs.Value(key)
}

// SetAttr sets an anchor attribute.
func (l *Link) SetAttr(key string, value any) *Link {
	l.attrs.Set(key, value)
	return l
}

// MergeAttrs copies attrs onto the anchor attributes. Unlike Item, no key is
// special-cased.
func (l *Link) MergeAttrs(attrs *Attributes) *Link {
	l.attrs.Merge(attrs)
	return l
}

// Attrs returns the anchor attributes.
func (l *Link) Attrs() *Attributes {
	return l.attrs
}

// Active adds the active class to the anchor.
func (l *Link) Active() *Link {
	addClass(l.attrs, "active")
	return l
}

// Lookup resolves a property by name: "target" (or "path") returns the
// descriptor, "attributes" the anchor attributes, any other name an anchor
// attribute.
func (l *Link) Lookup(name string) any {
	switch name {
	case "target", "path":
		return l.target
	case "attributes":
		return l.attrs
	}
	return l.Attr(name)
}
