// Package metric holds the Prometheus collectors navmenu exports.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// RenderCounterName counts menu renders by menu and outcome.
	RenderCounterName = "navmenu_renders_total"

	// ReloadCounterName counts config reloads by outcome.
	ReloadCounterName = "navmenu_config_reloads_total"

	// StatusOK and StatusError are the values of the status label.
	StatusOK    = "ok"
	StatusError = "error"
)

// IncrementalCounter increments a counter for the given label values.
type IncrementalCounter interface {
	Increment(val ...string)
}

// Counter is a labeled Prometheus counter.
type Counter struct {
	Name string
	Help string

	vec *prometheus.CounterVec
}

// Increment adds one to the series identified by val.
func (c *Counter) Increment(val ...string) {
	c.vec.WithLabelValues(val...).Inc()
}

// NewCounter registers a counter on the default registerer.
func NewCounter(name, help string, labels ...string) IncrementalCounter {
	return NewCounterWithRegistry(prometheus.DefaultRegisterer, name, help, labels...)
}

// NewCounterWithRegistry registers a counter on reg. It panics when the name
// is already registered there.
func NewCounterWithRegistry(reg prometheus.Registerer, name, help string, labels ...string) IncrementalCounter {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: help,
	}, labels)

	reg.MustRegister(counter)

	return &Counter{
		Name: name,
		Help: help,
		vec:  counter,
	}
}

// NewRenderCounter registers the menu render counter, labeled by menu and status.
func NewRenderCounter(reg prometheus.Registerer) IncrementalCounter {
	return NewCounterWithRegistry(reg, RenderCounterName, "Number of menu renders by menu and status.", "menu", "status")
}

// NewReloadCounter registers the config reload counter, labeled by status.
func NewReloadCounter(reg prometheus.Registerer) IncrementalCounter {
	return NewCounterWithRegistry(reg, ReloadCounterName, "Number of config reloads by status.", "status")
}

// Discard is a counter that drops every increment.
var Discard IncrementalCounter = discard{}

type discard struct{}

func (discard) Increment(...string) {}

// Handler serves the metrics of the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// HandlerFor serves the metrics of reg.
func HandlerFor(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
