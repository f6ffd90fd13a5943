package menu

import (
	"fmt"
	"html"
	"strings"
)

// AsUl renders the menu as an unordered list.
func (m *Menu) AsUl(attrs *Attributes) (string, error) {
	return m.Render("ul", attrs)
}

// AsOl renders the menu as an ordered list.
func (m *Menu) AsOl(attrs *Attributes) (string, error) {
	return m.Render("ol", attrs)
}

// AsDiv renders the menu as nested div elements.
func (m *Menu) AsDiv(attrs *Attributes) (string, error) {
	return m.Render("div", attrs)
}

// Render renders the menu wrapped in tag. For "ul" and "ol" every item is an
// "li"; for any other tag the items use the tag itself. Children are nested in
// a bare tag inside their parent and dividers follow their item as siblings.
//
// Render fails with ErrCycle when an item's parent chain loops back on itself,
// and with the resolver error of the first link that cannot be resolved.
// Items whose parent does not exist are not rendered.
func (m *Menu) Render(tag string, attrs *Attributes) (string, error) {
	if err := m.checkCycles(); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<%s%s>", tag, AttributeString(attrs))
	if err := m.render(&b, tag, 0); err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "</%s>", tag)
	return b.String(), nil
}

func (m *Menu) render(b *strings.Builder, tag string, parent int) error {
	itemTag := tag
	if tag == "ul" || tag == "ol" {
		itemTag = "li"
	}

	for _, it := range m.ChildrenOf(parent) {
		fmt.Fprintf(b, "<%s%s>", itemTag, it.AttributeString())
		if err := m.renderLink(b, it); err != nil {
			return err
		}

		if it.HasChildren() {
			fmt.Fprintf(b, "<%s>", tag)
			if err := m.render(b, tag, it.id); err != nil {
				return err
			}
			fmt.Fprintf(b, "</%s>", tag)
		}

		fmt.Fprintf(b, "</%s>", itemTag)

		if it.divider != nil {
			fmt.Fprintf(b, "<%s%s></%s>", itemTag, AttributeString(it.divider), itemTag)
		}
	}

	return nil
}

// renderLink writes the anchor of an item. An empty URL leaves out href.
func (m *Menu) renderLink(b *strings.Builder, it *Item) error {
	u, err := it.URL()
	if err != nil {
		return fmt.Errorf("resolving link of %q: %w", it.slug, err)
	}

	b.WriteString("<a")
	b.WriteString(AttributeString(it.link.attrs))
	if u != "" {
		fmt.Fprintf(b, ` href="%s"`, html.EscapeString(u))
	}
	b.WriteString(">")
	b.WriteString(m.title(it))
	b.WriteString("</a>")
	return nil
}

func (m *Menu) title(it *Item) string {
	if m.titles == nil {
		return it.title
	}
	return m.titles.Sanitize(it.title)
}
