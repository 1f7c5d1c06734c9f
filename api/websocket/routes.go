package websocket

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	limiter "github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"codeberg.org/hushroom/server/internal/errors"
	ws "codeberg.org/hushroom/server/internal/websocket"
)

// mounts /ws behind a per-IP upgrade rate limit. rate uses the limiter's
// formatted syntax, e.g. "60-M".
func RegisterRoutes(router gin.IRouter, hub *ws.Hub, upgrader *websocket.Upgrader, rate string) error {
	connectLimit, err := ConnectRateLimiter(rate)
	if err != nil {
		return err
	}

	router.GET("/ws", connectLimit, WebSocketHandler(hub, upgrader))
	return nil
}

// builds the gin middleware limiting websocket upgrades per client IP
func ConnectRateLimiter(rate string) (gin.HandlerFunc, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("invalid connect rate limit %q: %w", rate, err)
	}

	instance := limiter.New(memory.NewStore(), parsed)

	return mgin.NewMiddleware(instance,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			errors.TooManyRequests(c, "too many connection attempts, slow down")
		}),
	), nil
}
