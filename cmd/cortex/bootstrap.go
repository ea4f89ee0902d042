package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/Proton-105/cortex-client/internal/backend"
	apperrors "github.com/Proton-105/cortex-client/internal/errors"
	"github.com/Proton-105/cortex-client/internal/i18n"
	"github.com/Proton-105/cortex-client/internal/kv"
	"github.com/Proton-105/cortex-client/internal/lifecycle"
	"github.com/Proton-105/cortex-client/internal/profile"
	"github.com/Proton-105/cortex-client/pkg/config"
	"github.com/Proton-105/cortex-client/pkg/logger"
	"github.com/Proton-105/cortex-client/pkg/metrics"
	appredis "github.com/Proton-105/cortex-client/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

// services holds the process-wide collaborators shared by every command.
type services struct {
	cfg      *config.Config
	viper    *viper.Viper
	log      *logger.Logger
	store    kv.Store
	profiles *profile.KVStore
	client   *backend.Client
	errs     *apperrors.Handler
	messages i18n.Translator
	shutdown *lifecycle.Shutdown
}

func bootstrap(ctx context.Context) (*services, error) {
	cfg, v, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logger.Level = "debug"
	}

	log := logger.New(*cfg)
	shutdown := lifecycle.NewShutdown(log.Logger)
	shutdown.Register("logger", func(context.Context) error { return log.Close() })

	flush, err := logger.InitSentry(*cfg)
	if err != nil {
		log.Warn("sentry disabled", logger.Err(err))
	}
	shutdown.Register("sentry", func(context.Context) error {
		flush(2 * time.Second)
		return nil
	})

	store, err := openStore(ctx, cfg.Storage, log.Logger)
	if err != nil {
		_ = shutdown.Execute(ctx)
		return nil, err
	}
	shutdown.Register("store", func(context.Context) error { return store.Close() })

	catalog, err := i18n.Load("en")
	if err != nil {
		_ = shutdown.Execute(ctx)
		return nil, err
	}

	profiles := profile.NewKVStore(store, log.Logger, metrics.RecordStorageFailure)
	rt := &services{
		cfg:      cfg,
		viper:    v,
		log:      log,
		store:    store,
		profiles: profiles,
		client:   backend.NewClient(cfg.Backend, profiles, backend.WithLogger(log.Logger)),
		errs:     apperrors.NewHandler(log.Logger, cfg.Sentry.Enabled),
		messages: catalog.Translator(cfg.Locale),
		shutdown: shutdown,
	}

	config.Watch(v, rt.reload, func(err error) {
		log.Warn("config reload rejected", logger.Err(err))
	})

	return rt, nil
}

// reload applies the settings that can change without a restart.
func (rt *services) reload(cfg *config.Config) {
	if verbose {
		return
	}
	if err := rt.log.SetLevel(cfg.Logger.Level); err != nil {
		rt.log.Warn("invalid log level in reloaded config", slog.String("level", cfg.Logger.Level))
		return
	}
	rt.log.Info("log level reloaded", slog.String("level", cfg.Logger.Level))
}

func (rt *services) close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := rt.shutdown.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "shutdown:", err)
	}
}

func openStore(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (kv.Store, error) {
	switch cfg.Driver {
	case "redis":
		client, err := appredis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return kv.NewRedisStore(appredis.NewMetricsClient(client), log), nil
	case "memory":
		return kv.NewMemoryStore(), nil
	default:
		store, err := kv.OpenSQLite(ctx, cfg.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}
