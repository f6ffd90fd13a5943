package menu

import "errors"

var (
	// ErrCycle is returned when an item turns out to be its own ancestor.
	ErrCycle = errors.New("menu: parent cycle")

	// ErrInvalidOption is returned by OptionsFrom for values of the wrong shape.
	ErrInvalidOption = errors.New("menu: invalid option")

	// ErrNoResolver is returned when a route or action target is dispatched
	// on a menu built without a Resolver.
	ErrNoResolver = errors.New("menu: no url resolver")
)
