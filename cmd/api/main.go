package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/lifemanager/internal/app"
	"github.com/MrJamesThe3rd/lifemanager/internal/config"
	lmHttp "github.com/MrJamesThe3rd/lifemanager/internal/http"
	"github.com/MrJamesThe3rd/lifemanager/internal/http/auth"
	"github.com/MrJamesThe3rd/lifemanager/internal/http/ratelimit"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to start app", "error", err)
		os.Exit(1)
	}

	slog.Info("storage ready", "driver", cfg.Storage.Driver, "accounts", len(a.Session.Users()))

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		slog.Warn("JWT_SECRET not set, tokens will not survive a restart")
	}

	router := lmHttp.New(
		lmHttp.NewHandlers(a, auth.NewTokens(secret, cfg.Auth.TokenTTL)),
		a.Registry,
		ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	a.Start()

	go func() {
		slog.Info("starting server", "port", srv.Addr, "storage", cfg.Storage.Driver)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to stop server", "error", err)
	}

	if err := a.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shut down", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
