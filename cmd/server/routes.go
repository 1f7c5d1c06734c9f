package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"codeberg.org/hushroom/server/api/rest/health"
	"codeberg.org/hushroom/server/api/websocket"
	"codeberg.org/hushroom/server/internal/config"
	"codeberg.org/hushroom/server/internal/errors"
	ws "codeberg.org/hushroom/server/internal/websocket"
)

// sets up all routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) error {
	router.Use(CORSMiddleware(server.config))

	router.GET("/health", health.Handler(server.coordinator))
	router.GET("/ping", health.PingHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.NoRoute(func(c *gin.Context) {
		errors.NotFound(c, "route")
	})

	upgrader := websocket.NewUpgrader(
		ws.NewOriginChecker(server.config.AllowedOrigins, server.config.IsProduction()),
	)

	return websocket.RegisterRoutes(router, server.hub, upgrader, server.config.ConnectRateLimit)
}

// allows any origin outside production, only ALLOWED_ORIGINS in production
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	if cfg.IsProduction() && len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}

	return cors.New(corsConfig)
}
