package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mchmarny/navmenu/pkg/config"
	"github.com/mchmarny/navmenu/pkg/metric"
	"github.com/mchmarny/navmenu/pkg/server"
	"github.com/mchmarny/navmenu/pkg/site"
)

var (
	serveConfig  string
	servePort    int
	serveWatch   bool
	serveTLSCert string
	serveTLSKey  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the configured routes with their menus",
	Long: `Serve mounts a page on every configured route with all menus rendered for
the request, the menu trees at /_menus/{name}, /healthz and /metrics. With
--watch the config is reloaded when the file changes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		slog.Info("starting navmenu", "commit", commit, "date", date)

		cfg, err := config.Load(serveConfig)
		if err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		st, err := site.New(cfg,
			site.WithRenderCounter(metric.NewRenderCounter(reg)),
			site.WithReloadCounter(metric.NewReloadCounter(reg)),
		)
		if err != nil {
			return err
		}

		opts := []server.Option{
			server.WithPort(servePort),
			server.WithRegistry(reg),
			server.WithPrometheusMetrics(),
			server.WithSimpleHealth(),
			server.WithHandler("/", st),
		}
		if serveTLSCert != "" || serveTLSKey != "" {
			opts = append(opts, server.WithTLS(server.TLSConfig{CertFile: serveTLSCert, KeyFile: serveTLSKey}))
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, gCtx := errgroup.WithContext(ctx)

		g.Go(func() error {
			return server.New(opts...).Serve(gCtx)
		})

		if serveWatch {
			g.Go(func() error {
				return config.Watch(gCtx, serveConfig, st.Reload)
			})
		}

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfig, "config", "c", defaultConfig, "Path to the menu config file")
	serveCmd.Flags().IntVar(&servePort, "port", server.DefaultPort, "Port to run the server on")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload the config when the file changes")
	serveCmd.Flags().StringVar(&serveTLSCert, "tls-cert", "", "TLS certificate file")
	serveCmd.Flags().StringVar(&serveTLSKey, "tls-key", "", "TLS key file")
	rootCmd.AddCommand(serveCmd)
}
