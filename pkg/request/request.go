// Package request exposes the in-flight HTTP request to menus.
package request

import (
	"context"
	"net/http"
	"strings"
)

type contextKeyType int

const contextKey contextKeyType = iota

// Current is the request a menu is built for. It satisfies menu.Request.
type Current struct {
	base string
	path string
}

// New returns a Current for the given root URL (scheme and host) and path.
// A path without a leading slash is taken relative to the root.
func New(base, path string) Current {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return Current{base: strings.TrimRight(base, "/"), path: path}
}

// FromHTTP describes r. The scheme is https when the connection is TLS or
// a proxy says so in X-Forwarded-Proto.
func FromHTTP(r *http.Request) Current {
	return New(Base(r), r.URL.Path)
}

// Base returns scheme://host of r.
func Base(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// URL returns the absolute URL without query string or trailing slash.
func (c Current) URL() string {
	return c.base + strings.TrimRight(c.path, "/")
}

// Path returns the request path.
func (c Current) Path() string {
	return c.path
}

// Base returns scheme://host.
func (c Current) Base() string {
	return c.base
}

// Middleware stores the Current of every request in its context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), contextKey, FromHTTP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the Current stored by Middleware.
func FromContext(ctx context.Context) (Current, bool) {
	c, ok := ctx.Value(contextKey).(Current)
	return c, ok
}
