package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vakildesk/dwarpal/internal/handlers"
	"github.com/vakildesk/dwarpal/internal/infrastructure/config"
	"github.com/vakildesk/dwarpal/internal/infrastructure/database"
	"github.com/vakildesk/dwarpal/internal/infrastructure/metrics"
	"github.com/vakildesk/dwarpal/internal/repositories/postgres"
	"github.com/vakildesk/dwarpal/internal/services"
	"github.com/vakildesk/dwarpal/internal/services/access"
	"github.com/vakildesk/dwarpal/pkg/cache"
	"github.com/vakildesk/dwarpal/pkg/cache/memorycache"
)

const (
	defaultEnv = "dev"

	shutdownTimeout      = 30 * time.Second
	gaugeUpdateInterval  = 10 * time.Second
	readHeaderTimeout    = 5 * time.Second
	metricsServerTimeout = 5 * time.Second
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	env := os.Getenv("ENV")
	if env == "" {
		env = defaultEnv
	}

	if err := config.InitConfig(env); err != nil {
		slog.Error("failed to initialize config", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	pg, err := database.NewPostgres(&cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pg.Close()

	slog.Info("connected to database",
		"user", cfg.Database.User,
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Database)

	employeeRepo := postgres.NewPostgresEmployeeRepository(pg.DB)
	grantRepo := postgres.NewPostgresGrantRepository(pg.DB)

	collector := metrics.NewCollector()
	exporter := metrics.NewPrometheusExporter(collector)

	cacheTTL := time.Duration(cfg.Cache.TTLMinutes) * time.Minute

	var decisionCache cache.Cache
	if cfg.Cache.Enabled {
		decisionCache, err = memorycache.New(&memorycache.Config{
			MaxSizeBytes: cfg.Cache.MaxMemoryBytes,
			DefaultTTL:   cacheTTL,
		})
		if err != nil {
			slog.Error("failed to create cache", "error", err)
			os.Exit(1)
		}
		defer decisionCache.Close()
		collector.SetCache(decisionCache)
		slog.Info("decision cache enabled",
			"max_memory_bytes", cfg.Cache.MaxMemoryBytes,
			"ttl_minutes", cfg.Cache.TTLMinutes)
	}

	var directoryService services.DirectoryServiceInterface
	var policyService services.PolicyServiceInterface
	mapper := access.NewRoleMapper()

	var checker access.CheckerInterface
	if decisionCache != nil {
		directoryService = services.NewDirectoryServiceWithCache(employeeRepo, decisionCache, cacheTTL)
		policyService = services.NewPolicyServiceWithCache(grantRepo, decisionCache, cacheTTL)
		checker = access.NewCheckerWithCache(directoryService, policyService, mapper, decisionCache, cacheTTL)
	} else {
		directoryService = services.NewDirectoryService(employeeRepo)
		policyService = services.NewPolicyService(grantRepo)
		checker = access.NewChecker(directoryService, policyService, mapper)
	}
	resolver := access.NewScopeResolver(directoryService)

	router := handlers.NewRouter(
		handlers.NewAccessHandler(checker, resolver, collector, exporter),
		handlers.NewDirectoryHandler(directoryService),
		handlers.NewPolicyHandler(policyService),
		collector,
		exporter,
		pg.HealthCheck,
	)

	apiServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.MetricsPort),
		Handler:           metricsMux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Refresh Prometheus gauges from the collector in the background.
	gaugeDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(gaugeUpdateInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				exporter.Update()
			case <-gaugeDone:
				return
			}
		}
	}()

	serverErrors := make(chan error, 2)
	go func() {
		slog.Info("http server listening", "addr", apiServer.Addr)
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("api server error: %w", err)
		}
	}()
	go func() {
		slog.Info("metrics server listening", "addr", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("metrics server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-serverErrors:
		slog.Error("server error", "error", err)
		os.Exit(1)
	case sig := <-sigChan:
		slog.Info("received signal, shutting down", "signal", sig.String())

		close(gaugeDone)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("api server shutdown failed", "error", err)
		}

		metricsCtx, metricsCancel := context.WithTimeout(context.Background(), metricsServerTimeout)
		defer metricsCancel()
		if err := metricsServer.Shutdown(metricsCtx); err != nil {
			slog.Error("metrics server shutdown failed", "error", err)
		}

		if err := pg.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}

		slog.Info("shutdown complete")
	}
}
