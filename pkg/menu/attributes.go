package menu

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Attributes is an insertion-ordered set of HTML attributes.
//
// Keys that parse as integers are positional: their value is rendered verbatim,
// which is how boolean attributes such as "required" are expressed. Use Flag to
// append one. A nil *Attributes behaves as an empty set for all read methods.
type Attributes struct {
	om   *orderedmap.OrderedMap[string, any]
	next int
}

// NewAttributes returns an empty attribute set.
func NewAttributes() *Attributes {
	return &Attributes{om: orderedmap.New[string, any]()}
}

// Attrs builds Attributes from alternating key/value pairs. A trailing key
// without a value is added as a positional flag.
func Attrs(kv ...any) *Attributes {
	a := NewAttributes()
	for i := 0; i < len(kv); i += 2 {
		if i+1 == len(kv) {
			a.Flag(kv[i])
			break
		}
		a.Set(fmt.Sprint(kv[i]), kv[i+1])
	}
	return a
}

// Set stores value under key, keeping the position of an existing key.
func (a *Attributes) Set(key string, value any) *Attributes {
	if n, ok := positional(key); ok && n >= a.next {
		a.next = n + 1
	}
	a.om.Set(key, value)
	return a
}

// Flag appends a positional attribute rendered verbatim.
func (a *Attributes) Flag(value any) *Attributes {
	a.om.Set(strconv.Itoa(a.next), value)
	a.next++
	return a
}

// Get returns the value stored under key.
func (a *Attributes) Get(key string) (any, bool) {
	if a == nil {
		return nil, false
	}
	return a.om.Get(key)
}

// Value returns the value stored under key or nil.
func (a *Attributes) Value(key string) any {
	v, _ := a.Get(key)
	return v
}

// Delete removes key.
func (a *Attributes) Delete(key string) {
	if a == nil {
		return
	}
	a.om.Delete(key)
}

// Len returns the number of attributes.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return a.om.Len()
}

// Keys returns the attribute keys in insertion order.
func (a *Attributes) Keys() []string {
	keys := make([]string, 0, a.Len())
	a.Each(func(k string, _ any) {
		keys = append(keys, k)
	})
	return keys
}

// Each calls fn for every attribute in insertion order.
func (a *Attributes) Each(fn func(key string, value any)) {
	if a == nil {
		return
	}
	for pair := a.om.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Clone returns an independent copy. Cloning nil yields an empty set.
func (a *Attributes) Clone() *Attributes {
	c := NewAttributes()
	a.Each(func(k string, v any) {
		c.Set(k, v)
	})
	return c
}

// Merge copies other into a. Named keys overwrite, positional entries are
// appended after the existing ones.
func (a *Attributes) Merge(other *Attributes) *Attributes {
	other.Each(func(k string, v any) {
		if _, ok := positional(k); ok {
			a.Flag(v)
			return
		}
		a.Set(k, v)
	})
	return a
}

// Map returns the attributes as a plain map.
func (a *Attributes) Map() map[string]any {
	m := make(map[string]any, a.Len())
	a.Each(func(k string, v any) {
		m[k] = v
	})
	return m
}

// String renders the attributes, see AttributeString.
func (a *Attributes) String() string {
	return AttributeString(a)
}

// AttributeString builds an HTML attribute string. Positional values are
// written verbatim, booleans render as the bare key when true and are dropped
// when false (except for "value"), nil values are dropped and everything else
// is written as key="escaped value". A non-empty result starts with a space.
func AttributeString(a *Attributes) string {
	var parts []string
	a.Each(func(k string, v any) {
		if el, ok := attributeElement(k, v); ok {
			parts = append(parts, el)
		}
	})
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}

func attributeElement(key string, value any) (string, bool) {
	if value == nil {
		return "", false
	}
	if _, ok := positional(key); ok {
		return fmt.Sprint(value), true
	}
	if b, ok := value.(bool); ok {
		if key == "value" {
			return key + `="` + boolValue(b) + `"`, true
		}
		if b {
			return key, true
		}
		return "", false
	}
	return key + `="` + html.EscapeString(fmt.Sprint(value)) + `"`, true
}

func boolValue(b bool) string {
	if b {
		return "1"
	}
	return ""
}

func positional(key string) (int, bool) {
	n, err := strconv.Atoi(key)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// FormatGroupClass merges the class of next onto the class of prev. Tokens are
// de-duplicated keeping their first occurrence. When next carries no class the
// class of prev is returned unchanged; ok is false when neither has one.
func FormatGroupClass(next, prev *Attributes) (class string, ok bool) {
	nc := next.Value("class")
	if nc == nil {
		pc := prev.Value("class")
		if pc == nil {
			return "", false
		}
		return fmt.Sprint(pc), true
	}

	var pc string
	if v := prev.Value("class"); v != nil {
		pc = fmt.Sprint(v)
	}

	seen := make(map[string]struct{})
	var tokens []string
	for _, tok := range strings.Fields(pc + " " + fmt.Sprint(nc)) {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return strings.Join(tokens, " "), true
}

// addClass merges class into the class attribute of a.
func addClass(a *Attributes, class string) {
	if merged, ok := FormatGroupClass(Attrs("class", class), a); ok {
		a.Set("class", merged)
	}
}
