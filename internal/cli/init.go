// Package cli provides common CLI initialization utilities shared by the
// commands in cmd/expenses.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"expenses/internal/backend"
	"expenses/internal/config"
	"expenses/internal/log"
	"expenses/internal/services"
	"expenses/internal/store"
)

// SetupLogger builds the application logger from cfg, writing to w (stderr
// when nil), and installs it as the slog default.
func SetupLogger(cfg *config.Config, w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stderr
	}
	logger := log.New(log.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: log.ComponentApp,
		Output:    w,
	})
	log.SetDefault(logger)
	return logger, nil
}

// LoadAndValidateConfig loads .env, the optional config file and the
// environment, then validates the result.
func LoadAndValidateConfig(configFile string) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// App is a fully wired service plus the function that releases it.
type App struct {
	Service *services.ExpenseService
	Config  *config.Config
	Logger  *log.Logger
	cleanup backend.CleanupFunc
}

// OpenApp opens the configured backend, loads the category registry and
// the store, and wires them into an ExpenseService.
func OpenApp(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	registry, err := config.LoadCategories(cfg.CategoriesFile)
	if err != nil {
		return nil, err
	}

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}

	opts := []store.Option{store.WithKey(cfg.StorageKey), store.WithLogger(logger)}
	if cfg.StrictCategories {
		opts = append(opts, store.WithStrictCategories(registry))
	}
	st := store.New(ctx, res.Gateway, opts...)

	return &App{
		Service: services.NewExpenseService(st, registry, res.Publisher, logger),
		Config:  cfg,
		Logger:  logger,
		cleanup: res.Cleanup,
	}, nil
}

// Close shuts the service down and releases the backend.
func (a *App) Close() error {
	var errs []error
	if err := a.Service.Close(); err != nil {
		errs = append(errs, err)
	}
	if a.cleanup != nil {
		if err := a.cleanup(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close app: %v", errs)
	}
	return nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context, logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			if logger != nil {
				logger.Info("Shutdown signal received", "signal", sig.String())
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
