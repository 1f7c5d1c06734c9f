package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		alias    string
		want     string
	}{
		{name: "no alias", endpoint: "ws://localhost:8080/ws", want: "ws://localhost:8080/ws"},
		{name: "with alias", endpoint: "ws://localhost:8080/ws", alias: "Anon-User-3", want: "ws://localhost:8080/ws?alias=Anon-User-3"},
		{name: "escaped", endpoint: "wss://chat.example/ws", alias: "a b", want: "wss://chat.example/ws?alias=a+b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildURL(tt.endpoint, tt.alias)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatTypists(t *testing.T) {
	tests := []struct {
		name    string
		typists []string
		want    string
	}{
		{name: "nobody", typists: nil, want: ""},
		{name: "only self", typists: []string{"me"}, want: ""},
		{name: "one other", typists: []string{"me", "Anon-User-2"}, want: "Anon-User-2 is typing"},
		{name: "two others", typists: []string{"a", "b"}, want: "a and b are typing"},
		{name: "many", typists: []string{"a", "b", "c", "d"}, want: "a, b and 2 others are typing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatTypists(tt.typists, "me"))
		})
	}
}

func event(t *testing.T, name string, payload any) ServerEventMsg {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	return ServerEventMsg{Event: name, Data: data}
}

func TestChatAppliesServerEvents(t *testing.T) {
	chat := NewChat(NewWSClient("ws://unused"))
	chat, _ = chat.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	chat, _ = chat.Update(event(t, eventSetAlias, map[string]string{"alias": "Anon-User-1"}))
	chat, _ = chat.Update(event(t, eventHistory, map[string]any{
		"messages": []ChatLine{{Alias: "Anon-User-2", Msg: "earlier"}},
	}))
	chat, _ = chat.Update(event(t, eventMessage, ChatLine{Alias: serverAlias, Msg: "Anon-User-3 has joined the chat."}))
	chat, _ = chat.Update(event(t, eventUserCount, map[string]int{"count": 3}))
	chat, _ = chat.Update(event(t, eventTypists, map[string][]string{"typists": {"Anon-User-2"}}))

	assert.Equal(t, "Anon-User-1", chat.alias)
	assert.Equal(t, 3, chat.userCount)
	assert.Equal(t, []string{"Anon-User-2"}, chat.typists)
	assert.Equal(t, []ChatLine{
		{Alias: "Anon-User-2", Msg: "earlier"},
		{Alias: serverAlias, Msg: "Anon-User-3 has joined the chat."},
	}, chat.lines)

	// history after a reconnect replaces the transcript
	chat, _ = chat.Update(event(t, eventHistory, map[string]any{"messages": []ChatLine{}}))
	assert.Empty(t, chat.lines)
}

func TestChatDisconnectClearsPresence(t *testing.T) {
	chat := NewChat(NewWSClient("ws://unused"))
	chat.connected = true
	chat.userCount = 4
	chat.typists = []string{"x"}

	chat, _ = chat.Update(WSDisconnectedMsg{})

	assert.False(t, chat.connected)
	assert.Equal(t, 0, chat.userCount)
	assert.Nil(t, chat.typists)
	assert.Contains(t, chat.View(), "reconnecting")
}

func TestWelcomeCommands(t *testing.T) {
	w := NewWelcome("ws://localhost:8080/ws")

	for _, r := range "join" {
		w, _ = w.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	_, cmd := w.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, EnterChatMsg{}, cmd())
}

// minimal chat server: assigns an alias, records the claimed alias and echoes chat messages
type stubServer struct {
	*httptest.Server
	mu      sync.Mutex
	claims  []string
	conns   []*websocket.Conn
	counter int
}

func newStubServer(t *testing.T) *stubServer {
	t.Helper()

	s := &stubServer{}
	upgrader := websocket.Upgrader{}

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		claimed := r.URL.Query().Get("alias")

		s.mu.Lock()
		s.claims = append(s.claims, claimed)
		s.conns = append(s.conns, conn)
		s.counter++
		alias := claimed
		if alias == "" {
			alias = "Anon-User-" + string(rune('0'+s.counter))
		}
		s.mu.Unlock()

		conn.WriteJSON(wsMessage{Event: eventSetAlias, Data: json.RawMessage(`{"alias":"` + alias + `"}`)}) //nolint:errcheck

		for {
			var msg wsMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Event == eventSendMessage {
				var payload struct {
					Msg string `json:"msg"`
				}
				json.Unmarshal(msg.Data, &payload) //nolint:errcheck
				data, _ := json.Marshal(ChatLine{Alias: alias, Msg: payload.Msg})
				conn.WriteJSON(wsMessage{Event: eventMessage, Data: data}) //nolint:errcheck
			}
		}
	}))

	t.Cleanup(s.Close)
	return s
}

func (s *stubServer) dropAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		c.Close() //nolint:errcheck
	}
	s.conns = nil
}

func (s *stubServer) claimed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.claims...)
}

func nextEvent(t *testing.T, client *WSClient) tea.Msg {
	t.Helper()

	ch := make(chan tea.Msg, 1)
	go func() { ch <- client.WaitForEvent()() }()

	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server event")
		return nil
	}
}

func TestWSClientReconnectsWithLastAlias(t *testing.T) {
	srv := newStubServer(t)
	client := NewWSClient("ws" + strings.TrimPrefix(srv.URL, "http"))

	require.IsType(t, WSConnectedMsg{}, client.ConnectCmd()())

	first := nextEvent(t, client)
	require.IsType(t, ServerEventMsg{}, first)
	assert.Equal(t, eventSetAlias, first.(ServerEventMsg).Event)
	assert.Equal(t, "Anon-User-1", client.Alias())

	require.NoError(t, client.Send(eventSendMessage, map[string]string{"msg": "hello"}))

	echo := nextEvent(t, client)
	require.IsType(t, ServerEventMsg{}, echo)
	assert.JSONEq(t, `{"alias":"Anon-User-1","msg":"hello"}`, string(echo.(ServerEventMsg).Data))

	srv.dropAll()

	assert.IsType(t, WSDisconnectedMsg{}, nextEvent(t, client))
	assert.False(t, client.IsConnected())
	assert.ErrorIs(t, client.Send(eventIsTyping, nil), errNotConnected)

	require.IsType(t, WSConnectedMsg{}, client.ConnectCmd()())
	nextEvent(t, client)

	assert.Equal(t, []string{"", "Anon-User-1"}, srv.claimed())

	client.Close()
}

func TestWSClientConnectError(t *testing.T) {
	client := NewWSClient("ws://127.0.0.1:1/ws")

	msg := client.ConnectCmd()()
	assert.IsType(t, WSConnectErrorMsg{}, msg)
}

func TestWSClientCloseStopsBlockedReader(t *testing.T) {
	const frames = eventBuffer * 3

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close() //nolint:errcheck

		for i := 0; i < frames; i++ {
			if err := conn.WriteJSON(wsMessage{Event: eventUserCount, Data: json.RawMessage(`{"count":1}`)}); err != nil {
				return
			}
		}

		// hold the connection open until the client goes away
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	client := NewWSClient("ws" + strings.TrimPrefix(srv.URL, "http"))
	require.IsType(t, WSConnectedMsg{}, client.ConnectCmd()())

	client.mu.Lock()
	events := client.events
	client.mu.Unlock()

	// nobody drains events, so the reader fills the buffer and blocks
	require.Eventually(t, func() bool { return len(events) == eventBuffer }, 2*time.Second, 10*time.Millisecond)

	client.Close()

	closed := make(chan struct{})
	go func() {
		for range events {
		}
		close(closed)
	}()

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("reader did not stop after Close")
	}
}
