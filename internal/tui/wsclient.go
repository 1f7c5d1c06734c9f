package tui

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
)

var errNotConnected = errors.New("not connected")

// creates a new websocket client
func NewWSClient(endpoint string) *WSClient {
	return &WSClient{
		endpoint: endpoint,
	}
}

// dials the server, asking for the last alias this client held
func (c *WSClient) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return nil
	}

	target, err := buildURL(c.endpoint, c.alias)
	if err != nil {
		return err
	}

	conn, resp, err := websocket.DefaultDialer.Dial(target, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close() //nolint:errcheck,gosec // handshake response body is unused
	}
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	// set up ping/pong handlers to keep the connection alive
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec
		return nil
	})

	// set initial read deadline
	conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec

	c.conn = conn
	c.events = make(chan ServerEventMsg, eventBuffer)
	c.done = make(chan struct{})
	c.connected = true

	go c.readPump(conn, c.events, c.done)
	go c.pingPump(conn)

	return nil
}

// sends periodic pings to keep the connection alive
func (c *WSClient) pingPump(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		<-ticker.C
		c.mu.Lock()

		if !c.connected || c.conn != conn {
			c.mu.Unlock()
			return
		}

		conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec
		if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			c.mu.Unlock()
			return
		}

		c.mu.Unlock()
	}
}

// reads server events into events until the connection drops or done is
// closed, then closes events
func (c *WSClient) readPump(conn *websocket.Conn, events chan ServerEventMsg, done <-chan struct{}) {
	defer func() {
		c.mu.Lock()
		if c.conn == conn {
			c.connected = false
			c.conn = nil
		}
		c.mu.Unlock()

		conn.Close() //nolint:errcheck,gosec
		close(events)
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		// reset read deadline on each successful read
		conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}

		// remember the alias so a reconnect can reclaim it
		if msg.Event == eventSetAlias {
			var payload struct {
				Alias string `json:"alias"`
			}
			if json.Unmarshal(msg.Data, &payload) == nil {
				c.mu.Lock()
				c.alias = payload.Alias
				c.mu.Unlock()
			}
		}

		select {
		case events <- ServerEventMsg{Event: msg.Event, Data: msg.Data}:
		case <-done:
			return
		}
	}
}

// sends one event with an optional payload
func (c *WSClient) Send(event string, payload any) error {
	msg := wsMessage{Event: event}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		msg.Data = data
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected || c.conn == nil {
		return errNotConnected
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec
	return c.conn.WriteJSON(msg)
}

// returns whether the client is connected
func (c *WSClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// the last alias the server assigned
func (c *WSClient) Alias() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alias
}

// closes the websocket connection
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done != nil {
		close(c.done)
		c.done = nil
	}

	if c.conn != nil {
		c.conn.WriteMessage(websocket.CloseMessage, //nolint:errcheck,gosec
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.conn.Close() //nolint:errcheck,gosec
		c.conn = nil
	}
	c.connected = false
}

// returns a tea.Cmd that connects to the websocket server
func (c *WSClient) ConnectCmd() tea.Cmd {
	return func() tea.Msg {
		if err := c.Connect(); err != nil {
			return WSConnectErrorMsg{err: err}
		}

		return WSConnectedMsg{}
	}
}

// returns a tea.Cmd that delivers the next server event, or a disconnect once
// the connection is gone
func (c *WSClient) WaitForEvent() tea.Cmd {
	c.mu.Lock()
	events := c.events
	c.mu.Unlock()

	return func() tea.Msg {
		if events == nil {
			return WSDisconnectedMsg{}
		}

		msg, ok := <-events
		if !ok {
			return WSDisconnectedMsg{}
		}

		return msg
	}
}

// returns a tea.Cmd that fires a reconnect attempt after reconnectDelay
func reconnectCmd() tea.Cmd {
	return tea.Tick(reconnectDelay, func(time.Time) tea.Msg {
		return ReconnectMsg{}
	})
}
