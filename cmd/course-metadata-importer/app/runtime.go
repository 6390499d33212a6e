package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/stacklok/course-metadata-importer/internal/auth"
	"github.com/stacklok/course-metadata-importer/internal/catalog"
	"github.com/stacklok/course-metadata-importer/internal/config"
	"github.com/stacklok/course-metadata-importer/internal/db"
	"github.com/stacklok/course-metadata-importer/internal/httpclient"
	"github.com/stacklok/course-metadata-importer/internal/importer"
	"github.com/stacklok/course-metadata-importer/internal/retry"
	"github.com/stacklok/course-metadata-importer/internal/store"
	"github.com/stacklok/course-metadata-importer/internal/telemetry"
	"github.com/stacklok/course-metadata-importer/internal/versions"
)

// shutdownTimeout bounds flushing telemetry after a command finished
const shutdownTimeout = 10 * time.Second

// runtime holds everything a data command needs
type runtime struct {
	cfg       *config.Config
	pool      *pgxpool.Pool
	telemetry *telemetry.Telemetry
	importer  *importer.Importer
}

// signalContext is cancelled on SIGINT or SIGTERM, which aborts an in-flight import
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")
	if err := cmd.MarkFlagRequired("config"); err != nil {
		panic(err)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	slog.Debug("Loaded configuration", "path", configPath, "catalog", cfg.Catalog.Endpoint)
	return cfg, nil
}

// newRuntime loads the configuration and connects everything an import needs.
// The caller must Close the returned runtime.
func newRuntime(ctx context.Context, cmd *cobra.Command) (*runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	telCfg := cfg.Telemetry
	if telCfg != nil && telCfg.ServiceVersion == "" {
		telCfg.ServiceVersion = versions.GetVersionInfo().Version
	}
	tel, err := telemetry.New(ctx, telCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	rt := &runtime{cfg: cfg, telemetry: tel}

	metrics, err := telemetry.NewImportMetrics(tel.MeterProvider())
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to create import metrics: %w", err)
	}

	rt.pool, err = db.NewPool(ctx, cfg.Database)
	if err != nil {
		rt.Close()
		return nil, err
	}

	dbStore := store.NewDBStore(rt.pool)
	importerCfg := cfg.GetImporter()
	tracer := tel.Tracer(importer.TracerName)

	rt.importer, err = importer.New(
		dbStore,
		dbStore,
		dbStore,
		newCatalogProvider(cfg, dbStore, metrics, tel),
		importer.Options{
			ChunkSize: importerCfg.GetChunkSize(),
			Lookup:    importer.Lookup(importerCfg.GetLookup()),
		},
		importer.WithLogger(slog.Default()),
		importer.WithMetrics(metrics),
		importer.WithTracer(tracer),
	)
	if err != nil {
		rt.Close()
		return nil, err
	}

	return rt, nil
}

// Close releases the database pool and flushes telemetry
func (r *runtime) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
	if r.telemetry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := r.telemetry.Shutdown(ctx); err != nil {
			slog.Warn("Failed to flush telemetry", "error", err)
		}
	}
}

// newCatalogProvider resolves the service user and builds an authenticated,
// rate limited catalog client each time an import starts
func newCatalogProvider(
	cfg *config.Config,
	users store.UserDirectory,
	metrics *telemetry.ImportMetrics,
	tel *telemetry.Telemetry,
) importer.CatalogProvider {
	return importer.CatalogProviderFunc(func(ctx context.Context) (importer.Catalog, error) {
		user, err := auth.ResolveServiceUser(ctx, users, cfg.Catalog.ServiceUsername)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve service user %q: %w", cfg.Catalog.ServiceUsername, err)
		}

		base := http.DefaultTransport.(*http.Transport).Clone()
		transport, err := auth.NewTransport(ctx, cfg.Catalog.Auth, user, base)
		if err != nil {
			return nil, fmt.Errorf("failed to configure catalog auth: %w", err)
		}

		httpClient := httpclient.NewDefaultClient(
			cfg.Catalog.GetTimeout(),
			httpclient.WithTransport(transport),
			httpclient.WithRateLimit(cfg.Catalog.GetRequestsPerSecond(), 1),
		)

		importerCfg := cfg.GetImporter()
		policy := retry.DefaultPolicy()
		policy.MaxAttempts = importerCfg.GetRetryMaxAttempts()
		policy.InitialInterval = importerCfg.GetRetryInitialInterval()
		policy.MaxInterval = importerCfg.GetRetryMaxInterval()

		return catalog.New(cfg.Catalog.Endpoint, httpClient,
			catalog.WithRetryPolicy(policy),
			catalog.WithLogger(slog.Default()),
			catalog.WithMetrics(metrics),
			catalog.WithTracer(tel.Tracer(catalog.TracerName)),
		)
	})
}

// logResult writes the summary of a finished import
func logResult(result *importer.Result) {
	slog.Info("Import finished",
		"kind", result.Kind,
		"import_id", result.RunID,
		"requested", result.Requested,
		"written", result.Written,
		"skipped", len(result.Skipped),
	)
	for _, s := range result.Skipped {
		slog.Debug("Skipped course run", "course_run_key", s.Key, "reason", s.Reason)
	}
}
