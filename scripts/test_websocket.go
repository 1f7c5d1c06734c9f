package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
)

type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run test_websocket.go <message> [alias]")
		fmt.Println("Example: go run test_websocket.go 'hello room' Anon-User-3")
		os.Exit(1)
	}

	text := os.Args[1]

	u := url.URL{
		Scheme: "ws",
		Host:   "localhost:8080",
		Path:   "/ws",
	}

	if len(os.Args) > 2 {
		q := u.Query()
		q.Set("alias", os.Args[2])
		u.RawQuery = q.Encode()
	}

	fmt.Printf("Connecting to %s\n", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer c.Close()

	fmt.Println("connected")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			var msg Message
			if err := c.ReadJSON(&msg); err != nil {
				log.Println("read:", err)
				return
			}
			fmt.Printf("<- %-10s %s\n", msg.Event, msg.Data)
		}
	}()

	// let the join sequence arrive before typing
	time.Sleep(500 * time.Millisecond)

	for _, event := range []string{"is_typing", "ping"} {
		if err := c.WriteJSON(Message{Event: event}); err != nil {
			log.Println("write:", err)
			return
		}
	}

	data, _ := json.Marshal(map[string]string{"msg": text})
	fmt.Printf("-> send_message %s\n", data)
	if err := c.WriteJSON(Message{Event: "send_message", Data: data}); err != nil {
		log.Println("write:", err)
		return
	}

	select {
	case <-done:
		return
	case <-interrupt:
		fmt.Println("\nclosing connection...")

		err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		if err != nil {
			log.Println("write close:", err)
			return
		}
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}
