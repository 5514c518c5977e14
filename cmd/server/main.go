// Package main runs the pathfinder engine server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"pathfinder-backend/infrastructure/config"
	"pathfinder-backend/infrastructure/di"
	"pathfinder-backend/pkg/observability"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var tracer *observability.TracerProvider
	if cfg.Tracing.Enabled {
		tracer, err = observability.InitTracing(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("Failed to initialize tracing: %v", err)
		}
	}

	container, err := di.InitializeContainer(cfg, tracer)
	if err != nil {
		log.Fatalf("Failed to initialize dependency container: %v", err)
	}
	logger := container.Logger
	defer logger.Sync()

	go container.Hub.Run()

	// Seed the local cache from the graph service; a failure here is not
	// fatal, the cache resyncs on the first confirmed mutation.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	if err := container.Store.Load(loadCtx); err != nil {
		logger.Warn("Initial graph load failed", zap.Error(err))
	}
	cancelLoad()

	var watcher *config.Watcher
	if *configPath != "" {
		watcher, err = config.NewWatcher(*configPath, cfg.Dynamic, logger)
		if err != nil {
			logger.Warn("Config watcher unavailable", zap.Error(err))
		} else {
			watcher.OnChange(func(dynamic config.DynamicConfig) {
				container.Density.SetQuiescence(dynamic.Quiescence())
				container.Presenter.SetPalette(context.Background(), dynamic.Palette)
			})
			watcher.Start()
		}
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      container.Handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Fatal("Server failed", zap.Error(err))
	case sig := <-stop:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	if watcher != nil {
		watcher.Stop()
	}
	container.Density.Stop()
	container.Hub.Stop()

	if tracer != nil {
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Tracer shutdown error", zap.Error(err))
		}
	}

	logger.Info("Server stopped")
}
