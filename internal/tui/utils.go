package tui

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	eventSetAlias    = "set_alias"
	eventHistory     = "history"
	eventMessage     = "message"
	eventUserCount   = "user_count"
	eventTypists     = "typists"
	eventSendMessage = "send_message"
	eventIsTyping    = "is_typing"
	eventNotTyping   = "not_typing"
	eventPong        = "pong"

	serverAlias = "SERVER"
)

const (
	reconnectDelay = 2 * time.Second
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	eventBuffer    = 64
	maxInputLength = 5000
)

// adds the alias to reclaim, if any, to the websocket endpoint
func buildURL(endpoint, alias string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}

	if alias != "" {
		q := u.Query()
		q.Set("alias", alias)
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// describes who is typing, leaving out self
func formatTypists(typists []string, self string) string {
	others := make([]string, 0, len(typists))
	for _, t := range typists {
		if t != self {
			others = append(others, t)
		}
	}

	switch len(others) {
	case 0:
		return ""
	case 1:
		return others[0] + " is typing"
	case 2:
		return others[0] + " and " + others[1] + " are typing"
	default:
		return fmt.Sprintf("%s and %d others are typing", strings.Join(others[:2], ", "), len(others)-2)
	}
}
