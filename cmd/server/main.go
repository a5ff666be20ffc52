package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ismailisimba/scraper/internal/api"
	"github.com/ismailisimba/scraper/internal/browser"
	"github.com/ismailisimba/scraper/internal/config"
	applog "github.com/ismailisimba/scraper/internal/log"
	"github.com/ismailisimba/scraper/internal/orchestrator"
	"github.com/ismailisimba/scraper/internal/ratelimit"
	"github.com/ismailisimba/scraper/internal/session"
	"github.com/ismailisimba/scraper/internal/storage"
	"github.com/ismailisimba/scraper/internal/task"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("err", err.Error()))
		os.Exit(1)
	}

	applog.Init(cfg.IsDevelopment())
	slog.Info("starting scraper service", slog.String("env", cfg.Environment))

	// Storage client is a startup-fatal dependency, never checked per request
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := storage.NewGCSStore(ctx, cfg.StorageBucket)
	cancel()
	if err != nil {
		slog.Error("failed to initialize storage", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("storage ready", slog.String("bucket", cfg.StorageBucket))

	// Pick the browser launcher
	var launcher session.Launcher
	switch cfg.BrowserLauncher {
	case config.LauncherDocker:
		runner, err := browser.NewDockerRunner(cfg.ChromeImage)
		if err != nil {
			slog.Error("failed to create docker runner", slog.String("err", err.Error()))
			os.Exit(1)
		}
		defer runner.Close()

		pullCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		err = runner.EnsureImage(pullCtx)
		cancel()
		if err != nil {
			slog.Error("failed to ensure chrome image", slog.String("err", err.Error()))
			os.Exit(1)
		}
		launcher = session.NewDockerLauncher(runner)
		slog.Info("browser launcher ready", slog.String("mode", "docker"), slog.String("image", cfg.ChromeImage))
	default:
		launcher = session.NewExecLauncher()
		slog.Info("browser launcher ready", slog.String("mode", "exec"))
	}

	sessions := session.NewManager(launcher)
	registry := task.DefaultRegistry(store, cfg)
	orch := orchestrator.New(sessions, registry)

	rateLimiter := ratelimit.NewLimiter(cfg.RateLimitPerHour, cfg.RateLimitBurst)
	handler := api.NewHandler(orch)
	router := handler.SetupRoutes(rateLimiter, cfg.RateLimitPerHour)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 180 * time.Second, // tasks can legitimately run for minutes
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("err", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", slog.String("err", err.Error()))
		os.Exit(1)
	}

	slog.Info("server stopped")
}
