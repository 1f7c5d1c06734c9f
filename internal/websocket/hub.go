package websocket

import (
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"codeberg.org/hushroom/server/internal/logger"
)

func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		clients:             make(map[string]*Client),
		Register:            make(chan *Client),
		Unregister:          make(chan *Client),
		handlers:            make(map[string]MessageHandler),
		shutdown:            make(chan struct{}),
		done:                make(chan struct{}),
		ipConnections:       make(map[string]int),
		maxConnectionsPerIP: defaultMaxConnectionsPerIP,
		messageRate:         defaultMessageRate,
		messageBurst:        defaultMessageBurst,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// caps concurrent connections from one IP address
func WithMaxConnectionsPerIP(n int) HubOption {
	return func(h *Hub) {
		h.maxConnectionsPerIP = n
	}
}

// sets the per-client token bucket for chat and typing events
func WithMessageRate(perSecond float64, burst int) HubOption {
	return func(h *Hub) {
		h.messageRate = rate.Limit(perSecond)
		h.messageBurst = burst
	}
}

// registers a handler for a specific event type
func (h *Hub) RegisterHandler(event string, handler MessageHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[event] = handler
}

// sets callback to be called after a client is registered, before its first event
func (h *Hub) OnClientRegistered(callback func(client *Client)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onClientRegistered = callback
}

// sets callback to be called when a client disconnects
func (h *Hub) OnClientDisconnect(callback func(client *Client)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onClientDisconnect = callback
}

// sets callback to be called on shutdown while clients are still connected
func (h *Hub) OnShutdown(callback func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onShutdown = callback
}

// starts the hub's main loop. registrations and disconnects are handled one
// at a time in the order they arrive.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case <-h.shutdown:
			h.closeAllConnections()
			return
		}
	}
}

// adds a client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	callback := h.onClientRegistered
	h.mu.Unlock()

	logger.Info("client registered",
		"client_id", client.ID,
		"ip", client.IPAddress,
	)

	if callback != nil {
		callback(client)
	}

	client.markRegistered()
}

// removes a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()

	// capture callback reference under lock
	callback := h.onClientDisconnect

	if _, exists := h.clients[client.ID]; !exists {
		h.mu.Unlock()
		return
	}

	delete(h.clients, client.ID)
	client.Close()

	if client.IPAddress != "" {
		h.ipConnections[client.IPAddress]--

		if h.ipConnections[client.IPAddress] <= 0 {
			delete(h.ipConnections, client.IPAddress)
		}
	}

	h.mu.Unlock()

	logger.Info("client unregistered",
		"client_id", client.ID,
	)

	// call disconnect callback outside lock (it broadcasts through the hub)
	if callback != nil {
		callback(client)
	}
}

// runs the handler for msg on the reading client's goroutine
func (h *Hub) dispatch(client *Client, msg *Message) {
	h.mu.RLock()
	handler, exists := h.handlers[msg.Event]
	h.mu.RUnlock()

	if !exists {
		logger.Warn("unhandled event type received",
			"event", msg.Event,
			"client_id", client.ID,
		)
		return
	}

	err := handler(h, client, msg)

	switch {
	case err == nil:
	case errors.Is(err, ErrRateLimitExceeded), errors.Is(err, ErrMessageTooLarge), errors.Is(err, ErrInvalidMessage):
		logger.Warn("event dropped",
			"event", msg.Event,
			"client_id", client.ID,
			"reason", err,
		)
	default:
		logger.ErrorErr(err, "handler error",
			"event", msg.Event,
			"client_id", client.ID,
		)
	}
}

// sends one event to a single client
func (h *Hub) SendTo(clientID, event string, payload any) error {
	h.mu.RLock()
	client, exists := h.clients[clientID]
	h.mu.RUnlock()

	if !exists {
		return ErrClientNotFound
	}

	msg, err := NewMessage(event, payload)
	if err != nil {
		return err
	}

	return client.Send(msg)
}

// sends one event to every client except excludeClientID
func (h *Hub) Broadcast(event string, payload any, excludeClientID string) {
	msg, err := NewMessage(event, payload)
	if err != nil {
		logger.ErrorErr(err, "failed to create broadcast message", "event", event)
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		logger.ErrorErr(err, "failed to encode broadcast message", "event", event)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for clientID, client := range h.clients {
		if clientID == excludeClientID {
			continue
		}

		if err := client.enqueue(data); err != nil {
			logger.Warn("failed to send message to client",
				"client_id", clientID,
				"event", event,
				"error", err,
			)
		}
	}
}

// returns the number of registered clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// stops Run, notifying and disconnecting every client. safe to call more than once.
func (h *Hub) Shutdown() {
	h.shutdownOnce.Do(func() {
		close(h.shutdown)
	})
}

// reports whether Shutdown has been called
func (h *Hub) IsShuttingDown() bool {
	select {
	case <-h.shutdown:
		return true
	default:
		return false
	}
}

// closed once Run has returned
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) closeAllConnections() {
	h.mu.RLock()
	callback := h.onShutdown
	count := len(h.clients)
	h.mu.RUnlock()

	if callback != nil && count > 0 {
		logger.Info("notifying clients of server shutdown", "clients", count)
		callback()

		// give clients time to receive the shutdown message
		time.Sleep(shutdownGrace)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	logger.Info("closing all websocket connections")

	for clientID, client := range h.clients {
		client.Close()
		logger.Debug("closed client", "client_id", clientID)
	}

	// clear all clients and connection tracking
	h.clients = make(map[string]*Client)
	h.ipConnections = make(map[string]int)
}

// reserves a connection slot for ipAddress, refusing while shutting down or
// when the IP is at its limit. a reserved slot is returned with UntrackIPConnection
// or freed when the registered client leaves.
func (h *Hub) TryTrackIPConnection(ipAddress string) (bool, string) {
	if h.IsShuttingDown() {
		return false, "Server is shutting down"
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.ipConnections[ipAddress] >= h.maxConnectionsPerIP {
		return false, "Maximum connections per IP address exceeded"
	}

	h.ipConnections[ipAddress]++
	return true, ""
}

// decrements the connection count for an IP address
func (h *Hub) UntrackIPConnection(ipAddress string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ipConnections[ipAddress]--

	if h.ipConnections[ipAddress] <= 0 {
		delete(h.ipConnections, ipAddress)
	}
}

// number of tracked connections from ipAddress
func (h *Hub) IPConnectionCount(ipAddress string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ipConnections[ipAddress]
}
