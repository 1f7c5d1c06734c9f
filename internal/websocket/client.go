package websocket

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"codeberg.org/hushroom/server/internal/logger"
)

// creates a new websocket client connection
func NewClient(id, claimedAlias, ipAddress string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:            id,
		ClaimedAlias:  claimedAlias,
		IPAddress:     ipAddress,
		conn:          conn,
		hub:           hub,
		send:          make(chan []byte, sendBufferSize),
		registered:    make(chan struct{}),
		limiter:       rate.NewLimiter(hub.messageRate, hub.messageBurst),
		typingLimiter: rate.NewLimiter(hub.messageRate, hub.messageBurst),
	}
}

// reads frames from the websocket connection and dispatches them in order.
// nothing is read until the hub has registered the client, and the client is
// unregistered only after the last frame was handled.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.Unregister <- c:
		case <-c.hub.shutdown:
		}
		c.conn.Close() //nolint:errcheck,gosec // G104: defer cleanup
	}()

	select {
	case <-c.registered:
	case <-c.hub.shutdown:
		return
	}

	log := logger.With("client_id", c.ID)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: websocket setup
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: pong handler
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Warn("websocket error", "error", err)
			}

			break
		}

		msg, err := ParseMessage(raw)
		if err != nil {
			log.Debug("dropping unparsable frame", "error", err)
			continue
		}

		msg.ClientID = c.ID
		c.hub.dispatch(c, msg)
	}
}

// writes queued frames to the websocket connection and keeps it alive with pings
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close() //nolint:errcheck,gosec // G104: defer cleanup
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket timing

			if !ok {
				// hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck,gosec // G104: close message
				return
			}

			// one event per text frame; clients decode each frame as a single envelope
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket ping timing

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// sends a message to the client
func (c *Client) Send(msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return c.enqueue(data)
}

// queues an encoded frame without blocking. a client whose buffer is full is
// too slow to keep up and gets disconnected.
func (c *Client) enqueue(data []byte) (err error) {
	// recover from panic if channel is closed
	defer func() {
		if r := recover(); r != nil {
			err = ErrConnectionClosed
		}
	}()

	c.mu.RLock()

	if c.closed {
		c.mu.RUnlock()
		return ErrConnectionClosed
	}

	select {
	case c.send <- data:
		c.mu.RUnlock()
		return nil
	default:
	}

	c.mu.RUnlock()

	logger.Warn("client send buffer full, closing connection",
		"client_id", c.ID,
	)

	c.Close()
	return ErrConnectionClosed
}

// closes the client connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// checks if the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.closed
}

// reports whether the client may send another chat message now
func (c *Client) allow() bool {
	return c.limiter.Allow()
}

// reports whether the client may announce typing now
func (c *Client) allowTyping() bool {
	return c.typingLimiter.Allow()
}

func (c *Client) markRegistered() {
	select {
	case <-c.registered:
	default:
		close(c.registered)
	}
}
