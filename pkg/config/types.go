package config

import "gopkg.in/yaml.v3"

// Config is the top-level navmenu configuration loaded from YAML.
type Config struct {
	BaseURL string        `yaml:"base_url"`
	Routes  []RouteConfig `yaml:"routes"`
	Actions []RouteConfig `yaml:"actions"`
	Menus   []MenuConfig  `yaml:"menus"`

	// Path is the file the config was loaded from (set at load time).
	Path string `yaml:"-"`
}

// RouteConfig names a path pattern in chi syntax. Title and Body (markdown)
// are used by the site server for the page served on the route.
type RouteConfig struct {
	Name  string `yaml:"name"`
	Path  string `yaml:"path"`
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// MenuConfig defines one menu.
type MenuConfig struct {
	Name       string       `yaml:"name"`
	Tag        string       `yaml:"tag"` // "ul", "ol" or any wrapper tag
	Attributes yaml.Node    `yaml:"attributes"`
	Items      []ItemConfig `yaml:"items"`
}

// ItemConfig defines a menu item and its children.
type ItemConfig struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`

	// Options is either a URL string or a mapping of url, route, action,
	// secure and HTML attributes.
	Options yaml.Node `yaml:"options"`

	// Link holds the anchor attributes.
	Link yaml.Node `yaml:"link"`

	// Divider is true or a mapping of divider attributes.
	Divider yaml.Node `yaml:"divider"`

	Data    map[string]any `yaml:"data"`
	Active  string         `yaml:"active"` // regex path pattern, "/*" for a subtree
	Match   string         `yaml:"match"`  // glob path pattern
	Prepend string         `yaml:"prepend"`
	Append  string         `yaml:"append"`

	Items []ItemConfig `yaml:"items"`
}
