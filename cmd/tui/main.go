package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/joho/godotenv"

	"codeberg.org/hushroom/server/internal/tui"
)

const defaultEndpoint = "ws://localhost:8080/ws"

func main() {
	_ = godotenv.Load() // optional .env, same as the server

	fallback := os.Getenv("HUSHROOM_WS_ENDPOINT")
	if fallback == "" {
		fallback = defaultEndpoint
	}

	endpoint := flag.String("endpoint", fallback, "websocket endpoint of the chat server")
	flag.Parse()

	if !term.IsTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "hushroom needs an interactive terminal")
		os.Exit(1)
	}

	app := tui.NewApp(*endpoint)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("error running hushroom: %v\n", err)
		os.Exit(1)
	}
}
