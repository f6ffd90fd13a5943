package menu

import (
	"fmt"
	"sort"
)

// ItemOption configures an item passed to Add.
type ItemOption func(*itemOptions)

type itemOptions struct {
	target    Target
	parent    int
	attrs     *Attributes
	linkAttrs *Attributes
	data      map[string]any
}

func newItemOptions(opts []ItemOption) itemOptions {
	o := itemOptions{attrs: NewAttributes(), linkAttrs: NewAttributes()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithURL links the item to a literal URL.
func WithURL(u string) ItemOption {
	return WithTarget(URLTarget(u, false))
}

// WithSecureURL links the item to a literal URL resolved under https.
func WithSecureURL(u string) ItemOption {
	return WithTarget(URLTarget(u, true))
}

// WithRoute links the item to a named route.
func WithRoute(name string, params ...any) ItemOption {
	return WithTarget(RouteTarget(name, params...))
}

// WithAction links the item to a controller action.
func WithAction(name string, params ...any) ItemOption {
	return WithTarget(ActionTarget(name, params...))
}

// WithTarget sets the link target. The last target option wins.
func WithTarget(t Target) ItemOption {
	return func(o *itemOptions) { o.target = t }
}

// WithParent nests the item under the item with the given id. Zero means root.
func WithParent(id int) ItemOption {
	return func(o *itemOptions) { o.parent = id }
}

// WithAttributes merges HTML attributes for the item's wrapper tag.
func WithAttributes(a *Attributes) ItemOption {
	return func(o *itemOptions) { o.attrs.Merge(a) }
}

// WithAttribute sets a single HTML attribute for the item's wrapper tag.
func WithAttribute(key string, value any) ItemOption {
	return func(o *itemOptions) { o.attrs.Set(key, value) }
}

// WithLinkAttributes merges HTML attributes for the item's anchor. They are
// applied before the item is activated, so a configured class keeps the
// active class added on activation.
func WithLinkAttributes(a *Attributes) ItemOption {
	return func(o *itemOptions) { o.linkAttrs.Merge(a) }
}

// WithData stores freeform metadata on the item before it is activated.
// Activation always sets the "active" flag, whatever the given data says.
func WithData(values map[string]any) ItemOption {
	return func(o *itemOptions) {
		if o.data == nil {
			o.data = make(map[string]any, len(values))
		}
		for k, v := range values {
			o.data[k] = v
		}
	}
}

// reserved option keys; everything else in an option bag is an HTML attribute.
const (
	optURL    = "url"
	optRoute  = "route"
	optAction = "action"
	optSecure = "secure"
	optParent = "parent"
)

// OptionsFrom converts an untyped option bag into item options.
//
// A string is shorthand for a URL. An *Attributes or map[string]any may hold
// url, route, action, secure and parent; the remaining keys become HTML
// attributes (map keys are taken in sorted order). When several targets are
// present url wins over route, and route over action. A route or action is
// either a name or a list whose first element is the name and the rest are
// positional params.
func OptionsFrom(bag any) ([]ItemOption, error) {
	switch v := bag.(type) {
	case nil:
		return nil, nil
	case string:
		return []ItemOption{WithURL(v)}, nil
	case *Attributes:
		return optionsFromAttributes(v)
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		a := NewAttributes()
		for _, k := range keys {
			a.Set(k, v[k])
		}
		return optionsFromAttributes(a)
	default:
		return nil, fmt.Errorf("%w: options of type %T", ErrInvalidOption, bag)
	}
}

func optionsFromAttributes(bag *Attributes) ([]ItemOption, error) {
	attrs := NewAttributes()
	var (
		opts   []ItemOption
		secure bool
	)

	bag.Each(func(k string, v any) {
		switch k {
		case optURL, optRoute, optAction, optSecure, optParent:
		default:
			if _, ok := positional(k); ok {
				attrs.Flag(v)
				return
			}
			attrs.Set(k, v)
		}
	})

	if v, ok := bag.Get(optSecure); ok && v != nil {
		b, isBool := v.(bool)
		if !isBool {
			return nil, fmt.Errorf("%w: secure must be a boolean, got %T", ErrInvalidOption, v)
		}
		secure = b
	}

	if v, ok := bag.Get(optParent); ok && v != nil {
		id, err := toInt(v)
		if err != nil {
			return nil, fmt.Errorf("%w: parent: %w", ErrInvalidOption, err)
		}
		opts = append(opts, WithParent(id))
	}

	switch {
	case bag.Value(optURL) != nil:
		opts = append(opts, WithTarget(URLTarget(fmt.Sprint(bag.Value(optURL)), secure)))
	case bag.Value(optRoute) != nil:
		name, params, err := namedTarget(bag.Value(optRoute))
		if err != nil {
			return nil, fmt.Errorf("route: %w", err)
		}
		opts = append(opts, WithRoute(name, params...))
	case bag.Value(optAction) != nil:
		name, params, err := namedTarget(bag.Value(optAction))
		if err != nil {
			return nil, fmt.Errorf("action: %w", err)
		}
		opts = append(opts, WithAction(name, params...))
	}

	if attrs.Len() > 0 {
		opts = append(opts, WithAttributes(attrs))
	}
	return opts, nil
}

func namedTarget(v any) (string, []any, error) {
	switch t := v.(type) {
	case string:
		return t, nil, nil
	case []string:
		if len(t) == 0 {
			return "", nil, fmt.Errorf("%w: empty target list", ErrInvalidOption)
		}
		params := make([]any, 0, len(t)-1)
		for _, p := range t[1:] {
			params = append(params, p)
		}
		return t[0], params, nil
	case []any:
		if len(t) == 0 {
			return "", nil, fmt.Errorf("%w: empty target list", ErrInvalidOption)
		}
		name, ok := t[0].(string)
		if !ok {
			return "", nil, fmt.Errorf("%w: target name must be a string, got %T", ErrInvalidOption, t[0])
		}
		return name, t[1:], nil
	default:
		return "", nil, fmt.Errorf("%w: target of type %T", ErrInvalidOption, v)
	}
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}
