package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/mchmarny/navmenu/pkg/menu"
)

// Build creates the named menu for req.
func (c *Config) Build(name string, resolver menu.Resolver, req menu.Request, opts ...menu.Option) (*menu.Menu, error) {
	def, ok := c.Menu(name)
	if !ok {
		return nil, fmt.Errorf("menu %q is not defined", name)
	}
	return def.Build(resolver, req, opts...)
}

// BuildAll creates every configured menu for req, keyed by menu name.
func (c *Config) BuildAll(resolver menu.Resolver, req menu.Request, opts ...menu.Option) (map[string]*menu.Menu, error) {
	menus := make(map[string]*menu.Menu, len(c.Menus))
	for _, def := range c.Menus {
		m, err := def.Build(resolver, req, opts...)
		if err != nil {
			return nil, err
		}
		menus[def.Name] = m
	}
	return menus, nil
}

// Build creates the menu for req.
func (d MenuConfig) Build(resolver menu.Resolver, req menu.Request, opts ...menu.Option) (*menu.Menu, error) {
	m := menu.New(resolver, req, opts...)
	if err := addItems(m, nil, d.Items); err != nil {
		return nil, fmt.Errorf("menu %s: %w", d.Name, err)
	}
	return m, nil
}

// Render renders m with the configured wrapper tag and attributes.
func (d MenuConfig) Render(m *menu.Menu) (string, error) {
	attrs, err := attributesFromNode(&d.Attributes)
	if err != nil {
		return "", fmt.Errorf("menu %s attributes: %w", d.Name, err)
	}
	tag := d.Tag
	if tag == "" {
		tag = DefaultTag
	}
	return m.Render(tag, attrs)
}

func addItems(m *menu.Menu, parent *menu.Item, items []ItemConfig) error {
	for _, ic := range items {
		opts, err := itemOptions(&ic.Options)
		if err != nil {
			return fmt.Errorf("item %s options: %w", ic.ID, err)
		}

		link, err := attributesFromNode(&ic.Link)
		if err != nil {
			return fmt.Errorf("item %s link: %w", ic.ID, err)
		}
		opts = append(opts, menu.WithLinkAttributes(link))
		if len(ic.Data) > 0 {
			opts = append(opts, menu.WithData(ic.Data))
		}

		var it *menu.Item
		if parent == nil {
			it = m.Add(ic.ID, ic.Title, opts...)
		} else {
			it = parent.Add(ic.ID, ic.Title, opts...)
		}

		if err := configureItem(it, &ic); err != nil {
			return fmt.Errorf("item %s: %w", ic.ID, err)
		}

		if err := addItems(m, it, ic.Items); err != nil {
			return err
		}
	}
	return nil
}

// configureItem applies the settings that only make sense once the item
// exists. Link attributes and data go in as options so activation sees them.
func configureItem(it *menu.Item, ic *ItemConfig) error {
	if ic.Prepend != "" {
		it.Prepend(ic.Prepend)
	}
	if ic.Append != "" {
		it.Append(ic.Append)
	}

	if err := divider(it, &ic.Divider); err != nil {
		return fmt.Errorf("divider: %w", err)
	}

	if ic.Active != "" {
		if err := it.Active(ic.Active); err != nil {
			return err
		}
	}
	if ic.Match != "" {
		if err := it.Match(ic.Match); err != nil {
			return err
		}
	}
	return nil
}

func itemOptions(n *yaml.Node) ([]menu.ItemOption, error) {
	n = resolveAlias(n)
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil, nil
		}
		return menu.OptionsFrom(n.Value)
	case yaml.MappingNode:
		attrs, err := attributesFromNode(n)
		if err != nil {
			return nil, err
		}
		return menu.OptionsFrom(attrs)
	default:
		return nil, fmt.Errorf("line %d: expected a url or a mapping", n.Line)
	}
}

func divider(it *menu.Item, n *yaml.Node) error {
	n = resolveAlias(n)
	switch n.Kind {
	case 0:
		return nil
	case yaml.ScalarNode:
		var on bool
		if err := n.Decode(&on); err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		if on {
			it.Divide(nil)
		}
		return nil
	default:
		attrs, err := attributesFromNode(n)
		if err != nil {
			return err
		}
		it.Divide(attrs)
		return nil
	}
}

// attributesFromNode converts a YAML mapping into ordered attributes,
// keeping the document order. Integer keys become positional flags.
func attributesFromNode(n *yaml.Node) (*menu.Attributes, error) {
	n = resolveAlias(n)
	if n.Kind == 0 {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping", n.Line)
	}

	attrs := menu.NewAttributes()
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		var v any
		if err := val.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: attribute %s: %w", val.Line, key.Value, err)
		}
		attrs.Set(key.Value, v)
	}
	return attrs, nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n == nil {
		return &yaml.Node{}
	}
	return n
}
