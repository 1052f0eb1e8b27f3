package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/good-yellow-bee/cyberguard/internal/api"
	"github.com/good-yellow-bee/cyberguard/internal/catalog"
	"github.com/good-yellow-bee/cyberguard/internal/dashboard"
	"github.com/good-yellow-bee/cyberguard/internal/metrics"
	"github.com/good-yellow-bee/cyberguard/pkg/config"
)

var (
	serveHTTPAddr    string
	serveMetricsAddr string
	serveCatalog     string
	serveWatch       bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard simulation and its HTTP API",
	Long: `Start the alert injector, the threat feed and the HTTP API.
Prometheus metrics are served on a separate listener.

Set CYBERGUARD_API_KEY to analyze with the Gemini API; without it the
built-in heuristic analyzer is used.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveHTTPAddr, "address", "a", "", "HTTP API listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveMetricsAddr, "metrics-address", "", "metrics listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveCatalog, "catalog", "", "threat catalog YAML file (overrides config)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload the catalog file when it changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Override with CLI flags
	if serveHTTPAddr != "" {
		cfg.Server.HTTPAddress = serveHTTPAddr
	}
	if serveMetricsAddr != "" {
		cfg.Server.MetricsAddress = serveMetricsAddr
	}
	if serveCatalog != "" {
		cfg.Catalog.Path = serveCatalog
	}
	if serveWatch {
		cfg.Catalog.Watch = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cat := catalog.Default()
	if cfg.Catalog.Path != "" {
		cat, err = catalog.LoadFile(cfg.Catalog.Path)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		log.Info("catalog loaded", zap.String("path", cfg.Catalog.Path), zap.Int("threat_templates", len(cat.Threats)))
	}

	analyzer, err := newAnalyzer(cfg, log)
	if err != nil {
		return err
	}

	session, err := dashboard.New(cfg.sessionConfig(), cat, analyzer, log.Named("session"), nil, nil)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	srv, err := api.New(cfg.apiConfig(), session, log.Named("api"))
	if err != nil {
		return fmt.Errorf("create api server: %w", err)
	}
	metricsSrv := metrics.NewServer(cfg.Server.MetricsAddress, log.Named("metrics"))
	metrics.SetBuildInfo(config.Version, config.Commit, config.BuildTime)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := session.Start(); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.Stop()

	log.Info("starting cyberguard", zap.String("version", config.Version))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})
	g.Go(func() error {
		return metricsSrv.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return metricsSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("run server: %w", err)
	}

	log.Info("server stopped")
	return nil
}
