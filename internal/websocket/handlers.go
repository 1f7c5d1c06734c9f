package websocket

import (
	"fmt"
	"unicode/utf8"

	"codeberg.org/hushroom/server/internal/metrics"
)

// the chat operations the transport drives, one call per client event
type Session interface {
	Connect(connID, claimed string) string
	SendMessage(connID, text string)
	TypingStart(connID string)
	TypingStop(connID string)
	Disconnect(connID string)
}

// wires session into the hub: lifecycle callbacks plus a handler per inbound event
func RegisterSessionHandlers(hub *Hub, session Session) {
	hub.OnClientRegistered(func(client *Client) {
		session.Connect(client.ID, client.ClaimedAlias)
	})

	hub.OnClientDisconnect(func(client *Client) {
		session.Disconnect(client.ID)
	})

	hub.RegisterHandler(TypeSendMessage, SendMessageHandler(session))
	hub.RegisterHandler(TypeIsTyping, TypingHandler(session, true))
	hub.RegisterHandler(TypeNotTyping, TypingHandler(session, false))
	hub.RegisterHandler(TypePing, PingHandler())
}

// handles chat messages. a dropped message still clears the sender's typing
// flag, the same as a delivered one.
func SendMessageHandler(session Session) MessageHandler {
	return func(_ *Hub, client *Client, msg *Message) error {
		if !client.allow() {
			metrics.MessagesTotal.WithLabelValues("rate_limited").Inc()
			session.TypingStop(client.ID)
			return ErrRateLimitExceeded
		}

		// a missing msg is an empty message
		var payload SendMessagePayload
		if len(msg.Data) > 0 {
			if err := msg.UnmarshalPayload(&payload); err != nil {
				session.TypingStop(client.ID)
				return err
			}
		}

		if size := utf8.RuneCountInString(payload.Msg); size > maxChatMessageSize {
			metrics.MessagesTotal.WithLabelValues("too_large").Inc()
			session.TypingStop(client.ID)
			return fmt.Errorf("%w: %d characters", ErrMessageTooLarge, size)
		}

		session.SendMessage(client.ID, payload.Msg)
		return nil
	}
}

// handles is_typing (typing=true) and not_typing (typing=false)
func TypingHandler(session Session, typing bool) MessageHandler {
	return func(_ *Hub, client *Client, _ *Message) error {
		if !typing {
			session.TypingStop(client.ID)
			return nil
		}

		if !client.allowTyping() {
			return ErrRateLimitExceeded
		}

		session.TypingStart(client.ID)
		return nil
	}
}

// handles ping messages from clients (keep-alive)
func PingHandler() MessageHandler {
	return func(_ *Hub, client *Client, _ *Message) error {
		// respond with pong
		pongMsg, err := NewMessage(TypePong, nil)
		if err != nil {
			return err
		}
		client.Send(pongMsg) //nolint:errcheck,gosec // best-effort pong
		return nil
	}
}
