package tui

import (
	"encoding/json"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/gorilla/websocket"
)

// represents the current state of the TUI
type AppState int

const (
	StateWelcome AppState = iota
	StateChat
	StateHelp
)

// main TUI application model
type Model struct {
	state    AppState
	previous AppState
	endpoint string
	width    int
	height   int
	err      error
	welcome  *Welcome
	chat     *ChatModel
	help     *HelpModel
	client   *WSClient
}

// sent when an error occurs
type ErrorMsg struct {
	err error
}

// sent to transition to the chat state
type EnterChatMsg struct{}

// sent to open or close the help screen
type ToggleHelpMsg struct{}

// sent once the websocket is connected
type WSConnectedMsg struct{}

// sent when dialing the server failed
type WSConnectErrorMsg struct {
	err error
}

// sent when an established connection dropped
type WSDisconnectedMsg struct{}

// sent when it is time for another connection attempt
type ReconnectMsg struct{}

// one event pushed by the server
type ServerEventMsg struct {
	Event string
	Data  json.RawMessage
}

// a line in the chat transcript
type ChatLine struct {
	Alias string `json:"alias"`
	Msg   string `json:"msg"`
}

// chat room screen
type ChatModel struct {
	input     textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	lines     []ChatLine
	alias     string
	userCount int
	typists   []string
	typing    bool
	connected bool
	ready     bool
	width     int
	height    int
	client    *WSClient
}

// rendered keyboard and protocol reference
type HelpModel struct {
	viewport viewport.Model
	rendered string
	width    int
	height   int
}

// welcome screen model
type Welcome struct {
	endpoint string
	input    string
	commands []Command
}

// represents an available TUI command
type Command struct {
	Name        string
	Description string
}

// websocket connection to the chat server
type WSClient struct {
	endpoint  string
	conn      *websocket.Conn
	events    chan ServerEventMsg
	done      chan struct{}
	alias     string
	connected bool
	mu        sync.Mutex
}

type wsMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}
