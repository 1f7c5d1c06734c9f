package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"codeberg.org/hushroom/server/internal/errors"
	"codeberg.org/hushroom/server/internal/logger"
	ws "codeberg.org/hushroom/server/internal/websocket"
)

func NewUpgrader(checkOrigin func(r *http.Request) bool) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin,
	}
}

// upgrades to a websocket and hands the connection to the hub. the optional
// alias query parameter asks to reclaim a recently released alias.
func WebSocketHandler(hub *ws.Hub, upgrader *websocket.Upgrader) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params ConnectParams
		if err := c.ShouldBindQuery(&params); err != nil {
			errors.BadRequest(c, "invalid parameters", err)
			return
		}

		if hub.IsShuttingDown() {
			errors.ServiceUnavailable(c, "server is shutting down")
			return
		}

		// reserve a slot for this IP before upgrading
		ipAddress := c.ClientIP()
		if ok, reason := hub.TryTrackIPConnection(ipAddress); !ok {
			errors.TooManyRequests(c, reason)
			return
		}

		clientID := ws.GenerateClientID()

		// upgrade HTTP connection to WebSocket
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			hub.UntrackIPConnection(ipAddress)
			logger.ErrorErr(err, "failed to upgrade connection",
				"ip", ipAddress,
			)

			return
		}

		client := ws.NewClient(clientID, params.Alias, ipAddress, conn, hub)

		select {
		case hub.Register <- client:
		case <-hub.Done():
			hub.UntrackIPConnection(ipAddress)
			conn.Close() //nolint:errcheck,gosec // G104: hub already stopped
			return
		}

		go client.WritePump()
		go client.ReadPump()

		logger.Info("websocket connection established",
			"client_id", clientID,
			"claimed_alias", params.Alias,
			"ip", ipAddress,
		)
	}
}
