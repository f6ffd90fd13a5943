// Package config loads menu definitions from YAML.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mchmarny/navmenu/pkg/urlgen"
)

const (
	// DefaultBaseURL is used when the config does not set base_url.
	DefaultBaseURL = "http://localhost:9876"

	// DefaultTag is the wrapper tag of menus that do not set one.
	DefaultTag = "ul"
)

// Load reads and parses a YAML config file, applies defaults, and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Path = path

	return cfg, nil
}

// Parse parses YAML config data, applies defaults, and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	for i := range cfg.Menus {
		if cfg.Menus[i].Tag == "" {
			cfg.Menus[i].Tag = DefaultTag
		}
	}
}

func validate(cfg *Config) error {
	if _, err := urlgen.New(cfg.BaseURL); err != nil {
		return err
	}

	if err := validateRoutes("routes", cfg.Routes); err != nil {
		return err
	}
	if err := validateRoutes("actions", cfg.Actions); err != nil {
		return err
	}

	if len(cfg.Menus) == 0 {
		return fmt.Errorf("at least one menu is required")
	}
	seen := make(map[string]bool)
	for i, m := range cfg.Menus {
		if m.Name == "" {
			return fmt.Errorf("menus[%d].name is required", i)
		}
		if seen[m.Name] {
			return fmt.Errorf("menu %q is defined twice", m.Name)
		}
		seen[m.Name] = true
		if err := validateItems(m.Name, m.Items); err != nil {
			return err
		}
	}
	return nil
}

func validateRoutes(kind string, routes []RouteConfig) error {
	seen := make(map[string]bool)
	for i, r := range routes {
		if r.Name == "" {
			return fmt.Errorf("%s[%d].name is required", kind, i)
		}
		if !strings.HasPrefix(r.Path, "/") {
			return fmt.Errorf("%s[%d].path must begin with '/'", kind, i)
		}
		if seen[r.Name] {
			return fmt.Errorf("%s: %q is defined twice", kind, r.Name)
		}
		seen[r.Name] = true
	}
	return nil
}

func validateItems(path string, items []ItemConfig) error {
	for i, it := range items {
		if it.ID == "" {
			return fmt.Errorf("%s.items[%d].id is required", path, i)
		}
		if err := validateItems(path+"."+it.ID, it.Items); err != nil {
			return err
		}
	}
	return nil
}

// Menu returns the definition of the named menu.
func (c *Config) Menu(name string) (MenuConfig, bool) {
	for _, m := range c.Menus {
		if m.Name == name {
			return m, true
		}
	}
	return MenuConfig{}, false
}

// Generator returns a URL generator rooted at base_url with every route and
// action registered.
func (c *Config) Generator() (*urlgen.Generator, error) {
	g, err := urlgen.New(c.BaseURL)
	if err != nil {
		return nil, err
	}
	for _, r := range c.Routes {
		g.Name(r.Name, r.Path)
	}
	for _, a := range c.Actions {
		g.NameAction(a.Name, a.Path)
	}
	return g, nil
}
