package websocket

import (
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func newLimitedClient(perSecond float64, burst int) *Client {
	return &Client{
		ID:            "limited",
		send:          make(chan []byte, sendBufferSize),
		limiter:       rate.NewLimiter(rate.Limit(perSecond), burst),
		typingLimiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// test that a client may send a burst and is then throttled
func TestClientRateLimitBurst(t *testing.T) {
	client := newLimitedClient(1, 5)

	for i := 0; i < 5; i++ {
		if !client.allow() {
			t.Errorf("event %d should have been allowed, but was rate limited", i+1)
		}
	}

	if client.allow() {
		t.Error("6th event should have been rate limited, but was allowed")
	}
}

// test that tokens refill over time
func TestClientRateLimitRefill(t *testing.T) {
	client := newLimitedClient(50, 1)

	if !client.allow() {
		t.Fatal("first event should have been allowed")
	}

	if client.allow() {
		t.Fatal("second immediate event should have been rate limited")
	}

	// 50/s refills one token every 20ms
	time.Sleep(40 * time.Millisecond)

	if !client.allow() {
		t.Error("event should have been allowed after the bucket refilled")
	}
}

// test that rate limited chat messages never reach the session but still clear typing
func TestSendMessageHandlerRateLimited(t *testing.T) {
	session := newRecordingSession()
	client := newLimitedClient(0.001, 1)
	handler := SendMessageHandler(session)

	msg, err := NewMessage(TypeSendMessage, SendMessagePayload{Msg: "hi"})
	if err != nil {
		t.Fatal(err)
	}

	if err := handler(nil, client, msg); err != nil {
		t.Fatalf("first message should have been delivered: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := handler(nil, client, msg); !errors.Is(err, ErrRateLimitExceeded) {
			t.Errorf("expected ErrRateLimitExceeded, got %v", err)
		}
	}

	if got := len(session.calls("send")); got != 1 {
		t.Errorf("expected 1 delivered message, got %d", got)
	}

	if got := len(session.calls("typing_stop")); got != 2 {
		t.Errorf("expected typing cleared for each dropped message, got %d", got)
	}
}

// test that oversize and malformed chat messages are dropped and still clear typing
func TestSendMessageHandlerDropsClearTyping(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
		want error
	}{
		{
			name: "oversize",
			msg:  &Message{Event: TypeSendMessage, Data: []byte(`{"msg":"` + strings.Repeat("é", maxChatMessageSize+1) + `"}`)},
			want: ErrMessageTooLarge,
		},
		{
			name: "malformed",
			msg:  &Message{Event: TypeSendMessage, Data: []byte(`{"msg":42}`)},
			want: ErrInvalidMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := newRecordingSession()
			client := newLimitedClient(100, 10)

			err := SendMessageHandler(session)(nil, client, tt.msg)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}

			if got := len(session.calls("send")); got != 0 {
				t.Errorf("expected no delivered message, got %d", got)
			}

			if got := len(session.calls("typing_stop")); got != 1 {
				t.Errorf("expected typing cleared once, got %d", got)
			}
		})
	}
}

// test that not_typing bypasses the limiter
func TestTypingStopNotRateLimited(t *testing.T) {
	session := newRecordingSession()
	client := newLimitedClient(0.001, 1)

	start := TypingHandler(session, true)
	stop := TypingHandler(session, false)

	if err := start(nil, client, &Message{Event: TypeIsTyping}); err != nil {
		t.Fatalf("first typing start should be allowed: %v", err)
	}
	if err := start(nil, client, &Message{Event: TypeIsTyping}); !errors.Is(err, ErrRateLimitExceeded) {
		t.Errorf("expected ErrRateLimitExceeded, got %v", err)
	}
	_ = stop(nil, client, &Message{Event: TypeNotTyping})
	_ = stop(nil, client, &Message{Event: TypeNotTyping})

	if got := len(session.calls("typing_start")); got != 1 {
		t.Errorf("expected 1 typing start, got %d", got)
	}

	if got := len(session.calls("typing_stop")); got != 2 {
		t.Errorf("expected 2 typing stops, got %d", got)
	}
}

// test that typing draws from its own bucket and never costs a chat message
func TestTypingDoesNotSpendMessageBudget(t *testing.T) {
	session := newRecordingSession()
	client := newLimitedClient(0.001, 2)

	start := TypingHandler(session, true)
	send := SendMessageHandler(session)

	msg, err := NewMessage(TypeSendMessage, SendMessagePayload{Msg: "hi"})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if err := start(nil, client, &Message{Event: TypeIsTyping}); err != nil {
			t.Fatalf("typing start should be allowed: %v", err)
		}
		if err := send(nil, client, msg); err != nil {
			t.Fatalf("message should be allowed: %v", err)
		}
	}

	if got := len(session.calls("send")); got != 2 {
		t.Errorf("expected 2 delivered messages, got %d", got)
	}
}

// test that clients take their bucket size from the hub
func TestNewClientUsesHubRate(t *testing.T) {
	hub := NewHub(WithMessageRate(0.5, 2))
	client := NewClient("client-1", "", "127.0.0.1", nil, hub)

	if !client.allow() || !client.allow() {
		t.Fatal("burst of 2 should have been allowed")
	}

	if client.allow() {
		t.Error("3rd event should have been rate limited, but was allowed")
	}
}
