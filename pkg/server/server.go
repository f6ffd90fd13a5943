// Package server runs the navmenu HTTP server with graceful shutdown.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/mchmarny/navmenu/pkg/metric"
)

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = 9876

	// DefaultReadTimeout bounds reading the entire request, body included.
	DefaultReadTimeout = 10 * time.Second

	// DefaultWriteTimeout bounds writing the response. Keep it above ReadTimeout
	// to leave room for rendering.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the keep-alive idle limit.
	DefaultIdleTimeout = 60 * time.Second

	// DefaultShutdownTimeout is the grace period for in-flight requests on shutdown.
	DefaultShutdownTimeout = 5 * time.Second

	// DefaultMaxHeaderBytes caps request header size.
	DefaultMaxHeaderBytes = 1 << 20 // 1 MB
)

// Server is an HTTP server that stops gracefully when its context is canceled.
type Server interface {
	// Serve starts the server and blocks until ctx is canceled. It returns nil
	// on a clean shutdown.
	Serve(ctx context.Context) error

	// IsRunning reports whether the socket is bound and accepting connections.
	IsRunning() bool

	// Addr returns the bound listener address once running.
	Addr() string
}

// server implements Server on top of a chi router and http.Server.
type server struct {
	router          chi.Router           // Routes, with request id and panic recovery middleware
	port            int                  // Port to listen on, zero for any free port
	readTimeout     time.Duration        // Maximum duration for reading requests
	writeTimeout    time.Duration        // Maximum duration for writing responses
	idleTimeout     time.Duration        // Maximum idle time for keep-alive connections
	shutdownTimeout time.Duration        // Grace period for shutdown
	maxHeaderBytes  int                  // Maximum header size in bytes
	errLog          *log.Logger          // Logger for http.Server errors
	tlsConfig       *TLSConfig           // Optional TLS configuration
	registry        *prometheus.Registry // Registry served at /metrics

	mu      sync.RWMutex // Protects running and addr
	running bool         // Set while the listener accepts connections
	addr    string       // Bound listener address
}

// TLSConfig contains the certificate and key file paths for TLS/HTTPS support.
type TLSConfig struct {
	CertFile string // Path to the PEM certificate file
	KeyFile  string // Path to the PEM private key file
}

// Option is a functional option for configuring the Server.
type Option func(*server)

// WithPort sets the listen port. Zero picks a free port, which Addr reports
// once the server runs. If not specified, DefaultPort (9876) is used.
func WithPort(port int) Option {
	return func(s *server) { s.port = port }
}

// WithReadTimeout sets the maximum duration for reading the entire request.
func WithReadTimeout(d time.Duration) Option {
	return func(s *server) { s.readTimeout = d }
}

// WithWriteTimeout sets the maximum duration before timing out writes of the response.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *server) { s.writeTimeout = d }
}

// WithIdleTimeout sets the keep-alive idle limit.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *server) { s.idleTimeout = d }
}

// WithShutdownTimeout sets the maximum duration to wait for graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *server) { s.shutdownTimeout = d }
}

// WithMaxHeaderBytes sets the maximum number of bytes to read from request headers.
func WithMaxHeaderBytes(n int) Option {
	return func(s *server) { s.maxHeaderBytes = n }
}

// WithHandler mounts handler under pattern on the server router. Use "/" to
// mount a site router that owns every path not claimed by another option.
// Routes registered by WithSimpleHealth and WithPrometheusMetrics take
// precedence over a handler mounted at "/".
//
// Parameters:
//   - pattern: The chi mount point (e.g., "/", "/api").
//   - handler: The handler serving every path under pattern.
//
// Example:
//
//	s, err := site.New(cfg)
//	if err != nil {
//	    return err
//	}
//	srv := server.New(
//	    server.WithSimpleHealth(),
//	    server.WithHandler("/", s),
//	)
func WithHandler(pattern string, handler http.Handler) Option {
	return func(s *server) {
		s.router.Mount(pattern, handler)
	}
}

// WithRegistry sets the Prometheus registry served by WithPrometheusMetrics.
// It must precede WithPrometheusMetrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *server) { s.registry = reg }
}

// WithPrometheusMetrics serves the server registry at /metrics. Counters
// registered on the same registry, such as the render and reload counters,
// show up there.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	renders := metric.NewRenderCounter(reg)
//	srv := server.New(
//	    server.WithRegistry(reg),
//	    server.WithPrometheusMetrics(),
//	)
func WithPrometheusMetrics() Option {
	return func(s *server) {
		s.router.Handle("/metrics", metric.HandlerFor(s.registry))
	}
}

// WithSimpleHealth adds a /healthz endpoint that always returns 200 "ok".
func WithSimpleHealth() Option {
	return func(s *server) {
		s.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
	}
}

// WithTLS serves HTTPS with the given certificate and key files.
//
//	srv := server.New(
//	    server.WithPort(8443),
//	    server.WithTLS(server.TLSConfig{
//	        CertFile: "/path/to/cert.pem",
//	        KeyFile:  "/path/to/key.pem",
//	    }),
//	)
func WithTLS(cfg TLSConfig) Option {
	return func(s *server) {
		s.tlsConfig = &cfg
	}
}

// New creates a server with the provided options. Every server gets its own
// Prometheus registry and a chi router with request id and panic recovery
// middleware. Options run in order.
//
// Default configuration:
//   - Port: 9876
//   - ReadTimeout: 10s
//   - WriteTimeout: 10s
//   - IdleTimeout: 60s
//   - ShutdownTimeout: 5s
//   - MaxHeaderBytes: 1 MB
//
// Parameters:
//   - opts: Functional options applied over the defaults.
//
// Returns:
//   - Server: A server that is not listening until Serve is called.
//
// Example:
//
//	srv := server.New(
//	    server.WithPort(9876),
//	    server.WithPrometheusMetrics(),
//	    server.WithSimpleHealth(),
//	    server.WithHandler("/", site.Router()),
//	)
func New(opts ...Option) Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	s := &server{
		router:          r,
		port:            DefaultPort,
		readTimeout:     DefaultReadTimeout,
		writeTimeout:    DefaultWriteTimeout,
		idleTimeout:     DefaultIdleTimeout,
		shutdownTimeout: DefaultShutdownTimeout,
		maxHeaderBytes:  DefaultMaxHeaderBytes,
		// a registry per server keeps tests from colliding
		registry: prometheus.NewRegistry(),
		errLog:   log.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	slog.Info("server initialized",
		"port", s.port,
		"read_timeout", s.readTimeout,
		"write_timeout", s.writeTimeout)

	return s
}

// IsRunning reports whether the listener is bound and accepting connections.
// It is safe to call from any goroutine.
func (s *server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.running
}

// Addr returns the bound listener address, or "" before Serve binds it.
func (s *server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.addr
}

// Serve binds the listener and blocks until ctx is canceled or the server
// fails.
//
// The listener is bound before any goroutine starts, so a port conflict or a
// bad TLS key pair is returned right away. Then two goroutines run:
//  1. Server goroutine: serves connections on the listener
//  2. Shutdown goroutine: waits for ctx and calls Shutdown with the grace period
//
// Returns:
//   - nil on graceful shutdown; http.ErrServerClosed is expected and not reported
//   - An error if binding or loading the certificate fails
//   - An error if serving fails for any reason other than shutdown
//
// Example:
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	if err := srv.Serve(ctx); err != nil {
//	    return fmt.Errorf("serving: %w", err)
//	}
func (s *server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", s.port),
		Handler:        s.router,
		ReadTimeout:    s.readTimeout,
		WriteTimeout:   s.writeTimeout,
		IdleTimeout:    s.idleTimeout,
		MaxHeaderBytes: s.maxHeaderBytes,
		ErrorLog:       s.errLog,
	}

	listener, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	if s.tlsConfig != nil {
		cert, certErr := tls.LoadX509KeyPair(s.tlsConfig.CertFile, s.tlsConfig.KeyFile)
		if certErr != nil {
			listener.Close()
			return fmt.Errorf("failed to load TLS certificate: %w", certErr)
		}

		listener = tls.NewListener(listener, &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		})

		slog.Info("starting TLS server", "addr", listener.Addr().String())
	} else {
		slog.Info("starting server", "addr", listener.Addr().String())
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// running only after the socket is bound
		s.mu.Lock()
		s.running = true
		s.addr = listener.Addr().String()
		s.mu.Unlock()

		defer func() {
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
		}()

		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		slog.Info("shutting down server", "grace_period", s.shutdownTimeout)

		shutdownStart := time.Now()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}

		slog.Info("server shutdown complete", "duration", time.Since(shutdownStart))

		return nil
	})

	return g.Wait()
}
