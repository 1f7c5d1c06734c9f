package main

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/hushroom/server/hushroom/history"
	"codeberg.org/hushroom/server/hushroom/room"
	"codeberg.org/hushroom/server/internal/config"
	ws "codeberg.org/hushroom/server/internal/websocket"
)

// holds all dependencies and state for the chat server
type Server struct {
	config         *config.Config
	coordinator    *room.Coordinator
	cleanupService *history.CleanupService
	hub            *ws.Hub
	router         *gin.Engine
}
