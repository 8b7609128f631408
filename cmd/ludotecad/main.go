// ludotecad is the game loan inventory server.
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

	"github.com/ludoteca/server/internal/api"
	"github.com/ludoteca/server/internal/api/handlers"
	"github.com/ludoteca/server/internal/config"
	"github.com/ludoteca/server/internal/queue"
	"github.com/ludoteca/server/internal/storage"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := config.LoadFile(path, cfg); err != nil {
			return fmt.Errorf("load config file: %w", err)
		}
	}

	setupLogging(cfg.Debug)

	// Open database and apply migrations
	db, err := storage.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	// Connect to RabbitMQ when configured
	var (
		conn     *queue.Connection
		producer *queue.Producer
	)
	if cfg.RabbitMQURL != "" {
		conn, err = queue.NewConnection(cfg.RabbitMQURL)
		if err != nil {
			return fmt.Errorf("connect to RabbitMQ: %w", err)
		}
		defer conn.Close()
		producer = queue.NewProducer(conn)
	}

	appCfg := api.AppConfig{
		Config: cfg,
		DB:     db,
	}
	if producer != nil {
		appCfg.LoanEvents = producer
		appCfg.CatalogEvents = producer
	}

	app, err := api.NewApp(appCfg)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Consume queued refresh requests when both queue and catalog are wired
	var consumer *queue.Consumer
	var requester handlers.RefreshRequester
	if conn != nil && app.ImportJob != nil {
		requester = producer
		consumer = queue.NewConsumer(conn, func(ctx context.Context) error {
			_, err := app.ImportJob.Run(ctx)
			return err
		})
		if err := consumer.Start(ctx); err != nil {
			return fmt.Errorf("start refresh consumer: %w", err)
		}
		defer consumer.Stop()
	}

	// Seed the inventory in the background on startup
	if cfg.ImportOnStart && app.ImportJob != nil {
		go func() {
			importCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
			defer cancel()
			if _, err := app.ImportJob.Run(importCtx); err != nil {
				slog.Error("startup catalog import failed", "error", err)
			}
		}()
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.NewRouter(app, requester),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh

		slog.Info("received signal, shutting down", "signal", sig.String())
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
		close(done)
	}()

	slog.Info("server starting",
		"port", cfg.Port,
		"driver", cfg.DatabaseDriver,
		"queue", conn != nil,
	)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	<-done
	slog.Info("server stopped")
	return nil
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if debug {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	slog.SetDefault(slog.New(handler))
}
