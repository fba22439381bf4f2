package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/passmeter/passmeter/pkg/analysis"
	"github.com/passmeter/passmeter/pkg/generator"
	"github.com/passmeter/passmeter/server/internal/api"
	"github.com/passmeter/passmeter/server/internal/auth"
	"github.com/passmeter/passmeter/server/internal/config"
	"github.com/passmeter/passmeter/server/internal/metrics"
	"github.com/passmeter/passmeter/server/internal/ratelimit"
	"github.com/passmeter/passmeter/server/internal/service"
	"github.com/passmeter/passmeter/server/internal/session"
	"github.com/passmeter/passmeter/server/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file; defaults are used when it does not exist")
	envFile := flag.String("env-file", ".env", "load environment variables (API key) from this file if present")
	uiDir := flag.String("ui-dir", "", "serve the UI static files from this directory; leave empty to disable")
	flag.Parse()

	var level slog.LevelVar
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: &level}))
	slog.SetDefault(logger)

	slog.Info("passmeter-server starting", "config", *configPath)

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to load env file", "path", *envFile, "err", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Warn("config file not found, using defaults", "path", *configPath)
		cfg = config.Defaults()
	case err != nil:
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	level.Set(cfg.Log.SlogLevel())

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"auth_mode", cfg.Server.Auth.Mode,
		"rate_limit", cfg.Server.RateLimit.IsEnabled(),
		"locale", cfg.Evaluator.Locale,
		"policy_rules", len(cfg.Policy.Rules),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m := metrics.New()

	est, err := analysis.NewEstimator(cfg.Analysis.CacheSize, cfg.Analysis.CacheTTL)
	if err != nil {
		slog.Error("failed to build estimator", "err", err)
		os.Exit(1)
	}
	defer est.Close()

	svc, err := service.New(cfg, est, generator.New(), m)
	if err != nil {
		slog.Error("failed to build service", "err", err)
		os.Exit(1)
	}

	// Session registry with background TTL eviction.
	sessions := session.NewRegistry(cfg.Server.Sessions.TTL, cfg.Evaluator.SessionOptions())
	m.TrackSessions(sessions.Count)
	go sessions.Run(ctx)

	// WebSocket hub: one controller per connected field.
	hub := ws.New(svc, m, cfg.Evaluator.SessionOptions(), cfg.Server.WS.Tick)
	go hub.Run(ctx)

	// Hot reload: locale, generator length, policy, timings and log level.
	go func() {
		err := config.Watch(ctx, *configPath, func(next *config.Config) {
			if err := svc.Apply(next); err != nil {
				slog.Error("config: reload rejected, keeping previous", "err", err)
				return
			}
			sessions.SetOptions(next.Evaluator.SessionOptions())
			hub.SetOptions(next.Evaluator.SessionOptions())
			level.Set(next.Log.SlogLevel())
			slog.Info("config: reloaded", "locale", next.Evaluator.Locale, "policy_rules", len(next.Policy.Rules))
		})
		if err != nil {
			slog.Warn("config: hot reload disabled", "err", err)
		}
	}()

	// REST API: auth → rate limit → handler, all measured.
	var apiHandler http.Handler = api.New(svc, sessions, m)
	if rl := cfg.Server.RateLimit; rl.IsEnabled() {
		limiter := ratelimit.New(rl.RequestsPerSecond, rl.Burst, rl.IdleTTL)
		limiter.OnReject(m.RateLimited.Inc)
		apiHandler = limiter.Middleware(apiHandler)
	}
	apiHandler = auth.APIKey(
		cfg.Server.Auth.Mode,
		cfg.Server.Auth.EffectiveHeader(),
		cfg.Server.Auth.Key(),
	)(apiHandler)

	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", m.Middleware("api", apiHandler))
	httpMux.Handle("/ws/field", m.Middleware("ws", hub))
	httpMux.Handle("/metrics", m.Handler())

	// Optional: serve a pre-built UI from a local directory.
	// The "/" catch-all serves index.html for any unknown path (SPA routing).
	if *uiDir != "" {
		fsrv := http.FileServer(http.Dir(*uiDir))
		httpMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			path := *uiDir + r.URL.Path
			if _, err := os.Stat(path); os.IsNotExist(err) {
				http.ServeFile(w, r, *uiDir+"/index.html")
				return
			}
			fsrv.ServeHTTP(w, r)
		})
		slog.Info("serving UI static files", "dir", *uiDir)
	}

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           httpMux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("passmeter-server shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	httpSrv.Shutdown(shutdownCtx) //nolint:errcheck
}
