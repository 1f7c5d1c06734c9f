package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// inbound event names
const (
	// is sent by a client posting a chat message
	TypeSendMessage = "send_message"

	// is sent when a client starts composing
	TypeIsTyping = "is_typing"

	// is sent when a client stops composing
	TypeNotTyping = "not_typing"

	// is sent by clients to keep the connection alive
	TypePing = "ping"

	// is sent by server in response to ping
	TypePong = "pong"
)

// client connection constants
const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// maximum frame size allowed from peer
	maxMessageSize = 64 * 1024

	// longest chat message accepted, in characters
	maxChatMessageSize = 5000

	// outbound frames queued per client before it is dropped
	sendBufferSize = 256

	// how long clients get to read the shutdown notice before sockets close
	shutdownGrace = 500 * time.Millisecond
)

// hub defaults, overridable with options
const (
	defaultMaxConnectionsPerIP = 10
	defaultMessageRate         = 1
	defaultMessageBurst        = 5
)

// errors
var (
	ErrInvalidMessage    = errors.New("invalid message format")
	ErrClientNotFound    = errors.New("client not found")
	ErrConnectionClosed  = errors.New("connection closed")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrMessageTooLarge   = errors.New("message too large")
)

// a single websocket frame in either direction
type Message struct {
	Event    string          `json:"event"`
	Data     json.RawMessage `json:"data,omitempty"`
	ClientID string          `json:"-"` // internal only, not sent to clients
}

// data of a send_message event
type SendMessagePayload struct {
	Msg string `json:"msg"`
}

// represents a websocket client connection
type Client struct {
	// unique identifier for this client
	ID string

	// alias the client asked to reclaim on connect, may be empty
	ClaimedAlias string

	// IP address of the client (for connection tracking)
	IPAddress string

	// websocket connection
	conn *websocket.Conn

	// hub reference for message broadcasting
	hub *Hub

	// buffered channel of outbound messages
	send chan []byte

	// closed once the hub finished registering this client
	registered chan struct{}

	// flood control for chat messages
	limiter *rate.Limiter

	// flood control for is_typing, separate so typing never costs a message
	typingLimiter *rate.Limiter

	// mutex for thread-safe operations
	mu sync.RWMutex

	// flag indicating if client is closed
	closed bool
}

// maintains the set of active clients and fans events out to them
type Hub struct {
	// registered clients by client ID
	clients map[string]*Client

	// register requests from clients
	Register chan *Client

	// unregister requests from clients
	Unregister chan *Client

	// mutex for thread-safe access to clients
	mu sync.RWMutex

	// message handlers for different event types
	handlers map[string]MessageHandler

	// channel to signal shutdown
	shutdown     chan struct{}
	shutdownOnce sync.Once

	// closed when Run returns
	done chan struct{}

	// connection tracking: IP address -> count of connections
	ipConnections map[string]int

	maxConnectionsPerIP int
	messageRate         rate.Limit
	messageBurst        int

	// called from Run once a client is in the hub, before its events are read
	onClientRegistered func(client *Client)

	// called from Run after a client left the hub
	onClientDisconnect func(client *Client)

	// called before connections are closed on shutdown
	onShutdown func()
}

// processes a specific event type
type MessageHandler func(hub *Hub, client *Client, msg *Message) error

type HubOption func(*Hub)
