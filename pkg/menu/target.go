package menu

import (
	"fmt"
	"net/url"
)

// TargetKind identifies what a link points at.
type TargetKind int

const (
	// TargetNone links nowhere; the item renders as an anchor without href.
	TargetNone TargetKind = iota
	// TargetURL is a literal URL, absolute or relative to the resolver base.
	TargetURL
	// TargetRoute is a named route.
	TargetRoute
	// TargetAction is a controller action.
	TargetAction
)

func (k TargetKind) String() string {
	switch k {
	case TargetURL:
		return "url"
	case TargetRoute:
		return "route"
	case TargetAction:
		return "action"
	default:
		return "none"
	}
}

// Target is a link descriptor. Value holds the URL, route name or action name
// depending on Kind. Secure only applies to TargetURL.
type Target struct {
	Kind   TargetKind
	Value  string
	Secure bool
	Params []any
}

// URLTarget returns a literal URL target.
func URLTarget(u string, secure bool) Target {
	return Target{Kind: TargetURL, Value: u, Secure: secure}
}

// RouteTarget returns a named route target with positional params.
func RouteTarget(name string, params ...any) Target {
	return Target{Kind: TargetRoute, Value: name, Params: params}
}

// ActionTarget returns a controller action target with positional params.
func ActionTarget(name string, params ...any) Target {
	return Target{Kind: TargetAction, Value: name, Params: params}
}

func (t Target) String() string {
	if t.Kind == TargetNone {
		return "none"
	}
	return fmt.Sprintf("%s:%s", t.Kind, t.Value)
}

// IsAbsolute reports whether u carries a scheme.
func IsAbsolute(u string) bool {
	parsed, err := url.Parse(u)
	return err == nil && parsed.Scheme != ""
}
