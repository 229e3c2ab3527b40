package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/solatis/ilrkeeper/internal/core/api"
	"github.com/solatis/ilrkeeper/internal/core/auth"
	"github.com/solatis/ilrkeeper/internal/core/config"
	"github.com/solatis/ilrkeeper/internal/core/db"
	"github.com/solatis/ilrkeeper/internal/core/metrics"
	"github.com/solatis/ilrkeeper/internal/core/server"
	"github.com/solatis/ilrkeeper/internal/rules"
)

const apiKeysMigration = "002_api_keys.sql"

var validationAPICmd = &cobra.Command{
	Use:   "validation-api",
	Short: "Start the gRPC validation API",
	Args:  cobra.NoArgs,
	RunE:  runValidationAPI,
}

func init() {
	rootCmd.AddCommand(validationAPICmd)
	validationAPICmd.Flags().String("host", "0.0.0.0", "gRPC server host")
	validationAPICmd.Flags().Int("port", 50051, "gRPC server port")
	validationAPICmd.Flags().String("metrics-addr", "", "HTTP address serving /metrics (disabled when empty)")
	validationAPICmd.Flags().Int("workers", 4, "rules run concurrently per submission")
	validationAPICmd.Flags().String("redis-addr", "", "Redis address holding the issued ULN set")
}

func runValidationAPI(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd, map[string]string{
		"validation_api.host":         "host",
		"validation_api.port":         "port",
		"validation_api.metrics_addr": "metrics-addr",
		"validation.workers":          "workers",
		"reference_data.redis_addr":   "redis-addr",
	})
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// API keys live in the reference database, so it is mandatory here.
	ref, err := openReferenceData(ctx, cfg.ReferenceData)
	if err != nil {
		return err
	}
	if ref == nil || ref.database == nil {
		return errors.New("--db-url required: API keys are stored in the reference database")
	}
	defer ref.Close()

	if err := db.RequireMigration(ctx, ref.database, apiKeysMigration); err != nil {
		return err
	}

	secrets, err := config.HMACSecrets()
	if err != nil {
		return fmt.Errorf("failed to load HMAC secrets: %w", err)
	}
	if len(secrets) == 0 {
		return errors.New("no HMAC secrets configured (set ILR_HMAC_SECRET environment variable)")
	}

	rulesCfg, err := cfg.Validation.RulesConfig()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	engine := rules.NewEngine(
		rules.WithWorkers(cfg.Validation.Workers),
		rules.WithLogger(logger),
		rules.WithMetrics(m),
	)
	service, err := api.NewValidationAPIService(engine, rulesCfg, &cfg.ValidationAPI,
		api.WithReferenceData(ref.loader),
		api.WithLogger(logger),
		api.WithMetrics(m),
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	grpcServer, err := server.NewGRPCServer(&cfg.ValidationAPI, service, auth.NewAuthenticator(secrets, ref.queries), logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	logger.Info("starting validation API", "version", Version, "addr", grpcServer.Addr(), "workers", engine.Workers())
	g.Go(func() error { return grpcServer.Start(gctx) })

	var metricsServer *server.MetricsServer
	if cfg.ValidationAPI.MetricsAddr != "" {
		metricsServer = server.NewMetricsServer(cfg.ValidationAPI.MetricsAddr, reg)
		logger.Info("serving metrics", "addr", cfg.ValidationAPI.MetricsAddr)
		g.Go(func() error { return metricsServer.Start(gctx) })
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := grpcServer.Shutdown(shutdownCtx)
		if metricsServer != nil {
			err = errors.Join(err, metricsServer.Shutdown(shutdownCtx))
		}
		return err
	})

	return g.Wait()
}
