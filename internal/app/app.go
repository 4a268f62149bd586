// Package app wires configuration, storage and services for both hosts.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/MrJamesThe3rd/lifemanager/internal/achievement"
	"github.com/MrJamesThe3rd/lifemanager/internal/autosave"
	"github.com/MrJamesThe3rd/lifemanager/internal/backup"
	"github.com/MrJamesThe3rd/lifemanager/internal/config"
	"github.com/MrJamesThe3rd/lifemanager/internal/database"
	"github.com/MrJamesThe3rd/lifemanager/internal/goal"
	"github.com/MrJamesThe3rd/lifemanager/internal/kv"
	"github.com/MrJamesThe3rd/lifemanager/internal/kv/file"
	"github.com/MrJamesThe3rd/lifemanager/internal/kv/memory"
	"github.com/MrJamesThe3rd/lifemanager/internal/kv/postgres"
	"github.com/MrJamesThe3rd/lifemanager/internal/kv/redis"
	"github.com/MrJamesThe3rd/lifemanager/internal/profile"
	"github.com/MrJamesThe3rd/lifemanager/internal/report"
	"github.com/MrJamesThe3rd/lifemanager/internal/session"
	"github.com/MrJamesThe3rd/lifemanager/internal/task"
	"github.com/MrJamesThe3rd/lifemanager/internal/team"
	"github.com/MrJamesThe3rd/lifemanager/internal/transaction"
	"github.com/MrJamesThe3rd/lifemanager/internal/user"
)

type App struct {
	Config   *config.Config
	Registry *prometheus.Registry

	Session      *session.Manager
	Tasks        *task.Service
	Transactions *transaction.Service
	Goals        *goal.Service
	Team         *team.Service
	Profile      *profile.Service
	Backup       *backup.Service
	Reports      *report.Service
	AutoSave     *autosave.Scheduler

	closers []func() error
}

// New opens the configured store, restores the last session and seeds the demo account.
// The autosave schedule is created but not started.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg, Registry: prometheus.NewRegistry()}

	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	hasher, err := user.NewHasher(cfg.Auth.PasswordScheme, cfg.Auth.BcryptCost)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("configuring passwords: %w", err)
	}

	unlocks := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lifemanager",
			Subsystem: "achievements",
			Name:      "unlocked_total",
			Help:      "Achievements unlocked, by category.",
		},
		[]string{"category"},
	)
	a.Registry.MustRegister(unlocks)

	a.Session = session.NewManager(store,
		session.WithPrefix(cfg.Storage.KeyPrefix),
		session.WithHasher(hasher),
		session.WithUnlockHook(func(u achievement.Unlocked) {
			unlocks.WithLabelValues(string(u.Definition.Category)).Inc()
		}),
	)

	if u, ok := a.Session.Restore(ctx); ok {
		slog.Info("session restored", "email", u.Email)
	}

	if cfg.Demo.Enabled {
		demo := session.DemoParams{Name: cfg.Demo.Name, Email: cfg.Demo.Email, Password: cfg.Demo.Password}
		if err := a.Session.SeedDemo(ctx, demo); err != nil {
			slog.Warn("failed to seed demo account", "error", err)
		}
	}

	a.Tasks = task.NewService(a.Session)
	a.Transactions = transaction.NewService(a.Session)
	a.Goals = goal.NewService(a.Session)
	a.Team = team.NewService(a.Session)
	a.Profile = profile.NewService(a.Session)
	a.Backup = backup.NewService(a.Session)
	a.Reports = report.NewService(a.Session)

	if cfg.AutoSave.Enabled {
		a.AutoSave, err = autosave.New(a.Session, cfg.AutoSave.Interval, autosave.WithRegisterer(a.Registry))
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	return a, nil
}

func (a *App) openStore(ctx context.Context) (kv.Store, error) {
	cfg := a.Config

	switch cfg.Storage.Driver {
	case config.StorageMemory:
		return memory.New(), nil
	case config.StorageFile:
		return file.New(cfg.Storage.Dir)
	case config.StoragePostgres:
		db, err := database.New(ctx, cfg.ConnectionString())
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}

		a.closers = append(a.closers, db.Close)
		a.Registry.MustRegister(collectors.NewDBStatsCollector(db, cfg.DB.Name))

		store := postgres.New(db)
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}

		return store, nil
	case config.StorageRedis:
		store, client, err := redis.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}

		a.closers = append(a.closers, client.Close)

		return store, nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// Start begins autosaving when it is enabled.
func (a *App) Start() {
	if a.AutoSave != nil {
		a.AutoSave.Start()
	}
}

// Shutdown stops autosave, flushes the session and closes the store.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error

	if a.AutoSave != nil {
		if err := a.AutoSave.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stopping autosave: %w", err))
		}
	}

	if a.Session != nil {
		if err := a.Session.Flush(ctx); err != nil && !errors.Is(err, session.ErrNoSession) {
			errs = append(errs, fmt.Errorf("final save: %w", err))
		}
	}

	if err := a.Close(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (a *App) Close() error {
	var errs []error

	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}

	a.closers = nil

	return errors.Join(errs...)
}
