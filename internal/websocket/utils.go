package websocket

import (
	"net/http"
	"slices"

	"github.com/google/uuid"

	"codeberg.org/hushroom/server/internal/logger"
)

// returns an origin check for the upgrader. outside production every origin is
// accepted; in production the Origin header must be one of allowed.
func NewOriginChecker(allowed []string, production bool) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if !production {
			return true
		}

		origin := r.Header.Get("Origin")

		if origin == "" {
			logger.Warn("websocket connection with no origin header")
			return false
		}

		if len(allowed) == 0 {
			logger.Warn("websocket origin rejected - ALLOWED_ORIGINS not configured",
				"origin", origin,
			)
			return false
		}

		if slices.Contains(allowed, origin) {
			return true
		}

		logger.Warn("websocket origin rejected - not in allowed origins",
			"origin", origin,
			"allowed_origins", allowed,
		)

		return false
	}
}

func GenerateClientID() string {
	return uuid.NewString()
}
