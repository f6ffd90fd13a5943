package menu

import "fmt"

// Node is a nested, JSON-serializable view of an item.
type Node struct {
	// ID is the item id.
	ID int `json:"id"`

	// Slug is the lookup name of the item.
	Slug string `json:"slug"`

	// Title is the item title as given, without sanitizing.
	Title string `json:"title"`

	// URL is the resolved link, empty when the item links nowhere.
	URL string `json:"url,omitempty"`

	// Active is set on the item matching the current request.
	Active bool `json:"active,omitempty"`

	// Attributes are the wrapper tag attributes.
	Attributes map[string]any `json:"attributes,omitempty"`

	// Data is the item metadata.
	Data map[string]any `json:"data,omitempty"`

	// Divider is set when a divider follows the item.
	Divider bool `json:"divider,omitempty"`

	// Children are the nested items.
	Children []Node `json:"children,omitempty"`
}

// Tree returns the menu as nested nodes. Like Render, it fails with ErrCycle
// when a parent chain loops.
func (m *Menu) Tree() ([]Node, error) {
	if err := m.checkCycles(); err != nil {
		return nil, err
	}
	return m.tree(0)
}

func (m *Menu) tree(parent int) ([]Node, error) {
	items := m.ChildrenOf(parent)
	if len(items) == 0 {
		return nil, nil
	}

	nodes := make([]Node, 0, len(items))
	for _, it := range items {
		u, err := it.URL()
		if err != nil {
			return nil, fmt.Errorf("resolving link of %q: %w", it.slug, err)
		}

		children, err := m.tree(it.id)
		if err != nil {
			return nil, err
		}

		n := Node{
			ID:       it.id,
			Slug:     it.slug,
			Title:    it.title,
			URL:      u,
			Active:   it.IsActive(),
			Divider:  it.divider != nil,
			Children: children,
		}
		if it.attrs.Len() > 0 {
			n.Attributes = it.attrs.Map()
		}
		if data := it.Data(); len(data) > 0 {
			n.Data = data
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}
