package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vladimiradmaev/health-tracker/internal/config"
	"github.com/vladimiradmaev/health-tracker/internal/logger"
	"github.com/vladimiradmaev/health-tracker/internal/metrics"
	"github.com/vladimiradmaev/health-tracker/internal/services"
	"github.com/vladimiradmaev/health-tracker/internal/state"
	"github.com/vladimiradmaev/health-tracker/internal/storage"
	"github.com/vladimiradmaev/health-tracker/internal/utils"
)

// App is everything a command needs, wired once per process.
type App struct {
	Store    *storage.Store
	Profiles *services.ProfileService
	Readings *services.ReadingFactory
	Exporter *services.ExportService
	Deletion *state.DeletionWorkflow
	Registry *prometheus.Registry
	Location *time.Location
}

// AppLoader builds the App lazily so that help and flag errors never touch storage.
type AppLoader func(ctx context.Context) (*App, error)

// AppOptions overrides the ambient clock and id source.
type AppOptions struct {
	Clock utils.Clock
	IDs   utils.IDGenerator
}

// NewApp wires the services on top of backend.
func NewApp(ctx context.Context, backend storage.Backend, exportCfg config.ExportConfig, opts AppOptions) (*App, error) {
	if opts.Clock == nil {
		opts.Clock = utils.SystemClock
	}
	if opts.IDs == nil {
		opts.IDs = utils.UUIDGenerator{}
	}

	loc, err := exportCfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid report timezone: %w", err)
	}
	exporter, err := services.NewExportServiceFromConfig(exportCfg, opts.Clock)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	store := storage.New(backend, storage.WithMetrics(metrics.NewStorage(registry)))
	profiles := services.NewProfileService(ctx, store, services.WithIDGenerator(opts.IDs))

	return &App{
		Store:    store,
		Profiles: profiles,
		Readings: services.NewReadingFactory(opts.IDs, opts.Clock),
		Exporter: exporter,
		Deletion: state.NewDeletionWorkflow(profiles, exporter),
		Registry: registry,
		Location: loc,
	}, nil
}

// Loader opens the configured backend on first use.
func Loader(cfg *config.Config) AppLoader {
	return func(ctx context.Context) (*App, error) {
		backend, err := storage.OpenBackend(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Driver, err)
		}
		logger.Debug("Storage opened", storage.LogFields(backend)...)

		app, err := NewApp(ctx, backend, cfg.Export, AppOptions{})
		if err != nil {
			_ = backend.Close()
			return nil, err
		}
		return app, nil
	}
}

// Close releases the storage backend.
func (a *App) Close() error {
	return a.Store.Close()
}
