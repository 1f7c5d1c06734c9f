package main

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"codeberg.org/hushroom/server/hushroom/censor"
	"codeberg.org/hushroom/server/hushroom/history"
	"codeberg.org/hushroom/server/hushroom/presence"
	"codeberg.org/hushroom/server/hushroom/room"
	"codeberg.org/hushroom/server/hushroom/typing"
	"codeberg.org/hushroom/server/internal/config"
	"codeberg.org/hushroom/server/internal/logger"
	"codeberg.org/hushroom/server/internal/metrics"
	ws "codeberg.org/hushroom/server/internal/websocket"
)

const shutdownNotice = "server is shutting down, please reconnect shortly."

var _ room.Gateway = (*ws.Hub)(nil)

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	filter, err := censor.FromFile(cfg.CensorTermsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load censor terms: %w", err)
	}

	logger.Info("censor filter loaded",
		"terms", filter.Len(),
		"file", cfg.CensorTermsFile,
	)

	registry := presence.NewRegistry(cfg.PersistenceTimeout)
	store := history.NewStore()
	tracker := typing.NewTracker()

	hub := ws.NewHub(
		ws.WithMaxConnectionsPerIP(cfg.MaxConnectionsPerIP),
		ws.WithMessageRate(cfg.MessageRate, cfg.MessageBurst),
	)

	coordinator := room.NewCoordinator(hub, registry, store, tracker, filter)

	// connect, disconnect and inbound chat events all go through the coordinator
	ws.RegisterSessionHandlers(hub, coordinator)

	hub.OnShutdown(func() {
		coordinator.Announce(shutdownNotice)
	})

	// purge old messages and lapsed alias reservations on one schedule
	cleanupService := history.NewCleanupService(store, cfg.PurgeInterval, cfg.HistoryRetention,
		history.WithSweeper("reservations", registry),
		history.OnCycle(recordCleanupCycle),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	server := &Server{
		config:         cfg,
		coordinator:    coordinator,
		cleanupService: cleanupService,
		hub:            hub,
		router:         router,
	}

	if err := RegisterRoutes(router, server); err != nil {
		return nil, fmt.Errorf("failed to register routes: %w", err)
	}

	return server, nil
}

// exports each cleanup cycle's outcome as metrics
func recordCleanupCycle(result history.CycleResult, err error) {
	if err != nil {
		metrics.PurgeFailuresTotal.Inc()
		return
	}

	metrics.PurgedTotal.Add(float64(result.Purged))
	metrics.HistoryRecords.Set(float64(result.Remaining))
	metrics.ReservationsExpiredTotal.Add(float64(result.Swept["reservations"]))
}
