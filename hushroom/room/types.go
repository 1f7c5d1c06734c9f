package room

import (
	"sync"

	"codeberg.org/hushroom/server/hushroom/censor"
	"codeberg.org/hushroom/server/hushroom/history"
	"codeberg.org/hushroom/server/hushroom/presence"
	"codeberg.org/hushroom/server/hushroom/typing"
)

// events emitted to clients
const (
	// is sent to the connecting client with its alias
	EventSetAlias = "set_alias"

	// is sent to the connecting client with retained messages
	EventHistory = "history"

	// is broadcast for chat messages and server notices
	EventMessage = "message"

	// is broadcast when the number of live connections changes
	EventUserCount = "user_count"

	// is broadcast when the set of typing aliases changes
	EventTypists = "typists"
)

const (
	// author of join, reconnect, leave and shutdown notices
	SystemAlias = "SERVER"

	// author of messages from a connection with no alias binding
	UnknownSender = "Unknown Anon"
)

type SetAliasPayload struct {
	Alias string `json:"alias"`
}

type HistoryPayload struct {
	Messages []history.Entry `json:"messages"`
}

type MessagePayload struct {
	Alias string `json:"alias"`
	Msg   string `json:"msg"`
}

type UserCountPayload struct {
	Count int `json:"count"`
}

type TypistsPayload struct {
	Typists []string `json:"typists"`
}

// delivers events to connected clients. sends are fire-and-forget; a failed
// delivery is the transport's problem.
type Gateway interface {
	// sends to one connection
	SendTo(connID, event string, payload any) error

	// sends to every connection except excludeConnID; empty excludes nobody
	Broadcast(event string, payload any, excludeConnID string)
}

// applies connection lifecycle and chat events to the room state
type Coordinator struct {
	gateway  Gateway
	presence *presence.Registry
	history  *history.Store
	typing   *typing.Tracker
	filter   *censor.Filter

	// orders typists broadcasts so the last one delivered carries the latest set
	typistsMu sync.Mutex
}
