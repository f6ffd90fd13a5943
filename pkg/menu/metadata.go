package menu

import "strings"

// Metadata is freeform item data, separate from HTML attributes. Keys are
// case-insensitive.
type Metadata struct {
	values map[string]any
}

// Set stores value under the lower-cased key.
func (m *Metadata) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	m.values[strings.ToLower(key)] = value
}

// Merge stores every entry of values.
func (m *Metadata) Merge(values map[string]any) {
	for k, v := range values {
		m.Set(k, v)
	}
}

// Get returns the value stored under key.
func (m *Metadata) Get(key string) (any, bool) {
	v, ok := m.values[strings.ToLower(key)]
	return v, ok
}

// Map returns a copy of all entries.
func (m *Metadata) Map() map[string]any {
	out := make(map[string]any, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}
