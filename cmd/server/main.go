package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/hushroom/server/internal/config"
	"codeberg.org/hushroom/server/internal/logger"
)

func main() {
	// load configuration from environment, then let flags override it
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.FatalErr(err, "failed to load configuration")
	}

	flags, err := config.ParseServerFlags(os.Args[1:])
	if err != nil {
		logger.FatalErr(err, "failed to parse flags")
	}

	if err := cfg.ApplyFlags(flags); err != nil {
		logger.FatalErr(err, "invalid configuration")
	}

	logger.Setup(cfg.Environment, cfg.LogLevel)
	logger.Info("starting hushroom server",
		"environment", cfg.Environment,
		"history_retention", cfg.HistoryRetention,
		"purge_interval", cfg.PurgeInterval,
		"persistence_timeout", cfg.PersistenceTimeout,
	)

	// create server with all dependencies
	srv, err := NewServer(cfg)
	if err != nil {
		logger.FatalErr(err, "failed to create server")
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      srv.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// start websocket hub
	go srv.hub.Run()

	// start history purge with cancellable context
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	go srv.cleanupService.Start(cleanupCtx)

	// start server in goroutine
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalErr(err, "server failed to start")
		}
	}()

	// wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// stop cleanup service
	cleanupCancel()

	// notify websocket clients and close connections first
	srv.hub.Shutdown()
	<-srv.hub.Done()

	// graceful shutdown with 10 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.ErrorErr(err, "server forced to shutdown")
	}

	logger.Info("server stopped")
}
