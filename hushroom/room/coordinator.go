package room

import (
	"fmt"
	"strings"

	"codeberg.org/hushroom/server/hushroom/censor"
	"codeberg.org/hushroom/server/hushroom/history"
	"codeberg.org/hushroom/server/hushroom/presence"
	"codeberg.org/hushroom/server/hushroom/typing"
	"codeberg.org/hushroom/server/internal/logger"
	"codeberg.org/hushroom/server/internal/metrics"
)

func NewCoordinator(
	gateway Gateway,
	registry *presence.Registry,
	store *history.Store,
	tracker *typing.Tracker,
	filter *censor.Filter,
) *Coordinator {
	return &Coordinator{
		gateway:  gateway,
		presence: registry,
		history:  store,
		typing:   tracker,
		filter:   filter,
	}
}

// binds connID to an alias (reclaiming claimed if its reservation is still
// valid), brings the client up to date and announces it to everyone else.
func (c *Coordinator) Connect(connID, claimed string) string {
	alias, reconnected := c.presence.AssignOrReconnect(connID, claimed)

	kind := "new"
	if reconnected {
		kind = "reconnect"
	}

	metrics.ConnectionsTotal.WithLabelValues(kind).Inc()
	metrics.UsersOnline.Set(float64(c.presence.Count()))

	logger.Info("client bound to alias",
		"conn_id", connID,
		"alias", alias,
		"reconnected", reconnected,
	)

	if claimed != "" && !reconnected {
		logger.Debug("alias claim not honored",
			"conn_id", connID,
			"claimed", claimed,
			"alias", alias,
		)
	}

	c.sendTo(connID, EventSetAlias, SetAliasPayload{Alias: alias})
	c.sendTo(connID, EventHistory, HistoryPayload{Messages: c.history.Snapshot()})

	c.broadcastUserCount()
	c.broadcastTypists()

	notice := fmt.Sprintf("%s has joined the chat.", alias)
	if reconnected {
		notice = fmt.Sprintf("%s reconnected.", alias)
	}

	c.gateway.Broadcast(EventMessage, MessagePayload{Alias: SystemAlias, Msg: notice}, connID)

	return alias
}

// censors and delivers a chat message to everyone, the sender included.
// sending always clears the sender's typing flag; blank text stops there.
func (c *Coordinator) SendMessage(connID, text string) {
	alias, ok := c.presence.Lookup(connID)
	if !ok {
		logger.Warn("message from unbound connection",
			"conn_id", connID,
		)
		alias = UnknownSender
	}

	if c.typing.Stop(alias) {
		c.broadcastTypists()
	}

	if strings.TrimSpace(text) == "" {
		metrics.MessagesTotal.WithLabelValues("empty").Inc()
		logger.Debug("ignoring empty message", "alias", alias)
		return
	}

	filtered := c.filter.Censor(text)

	outcome := "delivered"
	if filtered != text {
		outcome = "censored"
	}
	metrics.MessagesTotal.WithLabelValues(outcome).Inc()

	c.history.Append(alias, filtered)
	metrics.HistoryRecords.Set(float64(c.history.Len()))

	c.gateway.Broadcast(EventMessage, MessagePayload{Alias: alias, Msg: filtered}, "")
}

func (c *Coordinator) TypingStart(connID string) {
	alias, ok := c.presence.Lookup(connID)
	if !ok {
		logger.Debug("typing start from unbound connection", "conn_id", connID)
		return
	}

	if c.typing.Start(alias) {
		c.broadcastTypists()
	}
}

func (c *Coordinator) TypingStop(connID string) {
	alias, ok := c.presence.Lookup(connID)
	if !ok {
		logger.Debug("typing stop from unbound connection", "conn_id", connID)
		return
	}

	if c.typing.Stop(alias) {
		c.broadcastTypists()
	}
}

// releases connID's alias into the reservation table and tells the remaining
// clients. unknown connections are logged and otherwise ignored.
func (c *Coordinator) Disconnect(connID string) {
	alias, ok := c.presence.Release(connID)
	if !ok {
		logger.Warn("disconnect for unbound connection",
			"conn_id", connID,
			"alias", alias,
		)
		return
	}

	metrics.DisconnectsTotal.Inc()
	metrics.UsersOnline.Set(float64(c.presence.Count()))

	logger.Info("client released alias",
		"conn_id", connID,
		"alias", alias,
		"reserved_for", c.presence.PersistenceTimeout(),
	)

	if c.typing.Stop(alias) {
		c.broadcastTypists()
	}

	c.broadcastUserCount()

	notice := fmt.Sprintf("%s has temporarily disconnected, reservable for %d seconds.",
		alias, int(c.presence.PersistenceTimeout().Seconds()))

	c.gateway.Broadcast(EventMessage, MessagePayload{Alias: SystemAlias, Msg: notice}, connID)
}

// sends a server notice to every connected client
func (c *Coordinator) Announce(text string) {
	c.gateway.Broadcast(EventMessage, MessagePayload{Alias: SystemAlias, Msg: text}, "")
}

// number of connections currently bound to an alias
func (c *Coordinator) UsersOnline() int {
	return c.presence.Count()
}

// number of retained messages
func (c *Coordinator) HistorySize() int {
	return c.history.Len()
}

func (c *Coordinator) broadcastUserCount() {
	c.gateway.Broadcast(EventUserCount, UserCountPayload{Count: c.presence.Count()}, "")
}

// the snapshot is taken under typistsMu: every change is followed by a
// broadcast, so the final broadcast reflects every change before it
func (c *Coordinator) broadcastTypists() {
	c.typistsMu.Lock()
	defer c.typistsMu.Unlock()

	c.gateway.Broadcast(EventTypists, TypistsPayload{Typists: c.typing.Snapshot()}, "")
}

func (c *Coordinator) sendTo(connID, event string, payload any) {
	if err := c.gateway.SendTo(connID, event, payload); err != nil {
		logger.ErrorErr(err, "failed to send event to client",
			"conn_id", connID,
			"event", event,
		)
	}
}
