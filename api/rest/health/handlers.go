package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const Version = "1.0.0"

// returns the server health status along with room occupancy
func Handler(stats Stats) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, Response{
			Status:      "healthy",
			Service:     "hushroom",
			Version:     Version,
			UsersOnline: stats.UsersOnline(),
			HistorySize: stats.HistorySize(),
		})
	}
}

// responds with pong for testing
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{
		Message: "pong",
	})
}
