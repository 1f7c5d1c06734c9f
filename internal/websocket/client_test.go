package websocket

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMessage(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		event   string
		wantErr bool
	}{
		{
			name:  "send message",
			raw:   `{"event":"send_message","data":{"msg":"hello"}}`,
			event: TypeSendMessage,
		},
		{
			name:  "event without data",
			raw:   `{"event":"is_typing"}`,
			event: TypeIsTyping,
		},
		{
			name:    "missing event",
			raw:     `{"data":{"msg":"hello"}}`,
			wantErr: true,
		},
		{
			name:    "not json",
			raw:     `hello`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := ParseMessage([]byte(tt.raw))

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMessage)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.event, msg.Event)
		})
	}
}

func TestNewMessageEnvelope(t *testing.T) {
	msg, err := NewMessage("user_count", map[string]int{"count": 3})
	require.NoError(t, err)

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"user_count","data":{"count":3}}`, string(data))

	pong, err := NewMessage(TypePong, nil)
	require.NoError(t, err)

	data, err = json.Marshal(pong)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"pong"}`, string(data))
}

func TestUnmarshalPayloadWithoutData(t *testing.T) {
	var payload SendMessagePayload
	err := (&Message{Event: TypeSendMessage}).UnmarshalPayload(&payload)
	assert.ErrorIs(t, err, ErrInvalidMessage)
}

func TestClientSend(t *testing.T) {
	client := &Client{
		ID:   "test-client",
		send: make(chan []byte, 2),
	}

	msg, err := NewMessage(TypePong, nil)
	require.NoError(t, err)

	require.NoError(t, client.Send(msg))
	assert.Len(t, client.send, 1)
	assert.False(t, client.IsClosed())
}

func TestClientSendOverflowClosesClient(t *testing.T) {
	client := &Client{
		ID:   "slow-client",
		send: make(chan []byte, 1),
	}

	msg, err := NewMessage(TypePong, nil)
	require.NoError(t, err)

	require.NoError(t, client.Send(msg))
	assert.ErrorIs(t, client.Send(msg), ErrConnectionClosed)
	assert.True(t, client.IsClosed())

	// further sends fail without panicking
	assert.ErrorIs(t, client.Send(msg), ErrConnectionClosed)
}

func TestClientCloseIdempotent(t *testing.T) {
	client := &Client{
		ID:   "test-client",
		send: make(chan []byte, 1),
	}

	client.Close()
	client.Close()

	assert.True(t, client.IsClosed())
}

func TestSendMessageHandler(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		delivered bool
		text      string
		wantErr   error
	}{
		{name: "regular message", data: `{"msg":"hello"}`, delivered: true, text: "hello"},
		{name: "missing data is an empty message", data: "", delivered: true, text: ""},
		{name: "malformed data", data: `"hello"`, wantErr: ErrInvalidMessage},
		{name: "at the size limit", data: `{"msg":"` + strings.Repeat("é", maxChatMessageSize) + `"}`, delivered: true, text: strings.Repeat("é", maxChatMessageSize)},
		{name: "over the size limit", data: `{"msg":"` + strings.Repeat("a", maxChatMessageSize+1) + `"}`, wantErr: ErrMessageTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := newRecordingSession()
			client := newLimitedClient(100, 100)

			msg := &Message{Event: TypeSendMessage}
			if tt.data != "" {
				msg.Data = json.RawMessage(tt.data)
			}

			err := SendMessageHandler(session)(nil, client, msg)

			calls := session.calls("send")
			if !tt.delivered {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, calls)
				assert.Len(t, session.calls("typing_stop"), 1)
				return
			}

			require.NoError(t, err)
			require.Len(t, calls, 1)
			assert.Equal(t, sessionCall{op: "send", connID: "limited", arg: tt.text}, calls[0])
		})
	}
}

func TestPingHandler(t *testing.T) {
	client := &Client{
		ID:   "test-client",
		send: make(chan []byte, 1),
	}

	require.NoError(t, PingHandler()(nil, client, &Message{Event: TypePing}))

	select {
	case data := <-client.send:
		assert.JSONEq(t, `{"event":"pong"}`, string(data))
	default:
		t.Fatal("expected a pong")
	}
}
