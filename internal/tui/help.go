package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# hushroom

An anonymous chat room. Nothing is stored for long.

## Keys

| key | action |
|---|---|
| enter | send the message |
| up / down / pgup / pgdown | scroll the transcript |
| ctrl+h | toggle this help |
| ctrl+c | leave the room |

## Aliases

You get an ` + "`Anon-User-N`" + ` alias when you join. If your connection
drops, the client reconnects and asks for the same alias back. The server
keeps it reserved for a short while after you disconnect.

## History

New arrivals see the recent messages. Older messages are purged
automatically and some words are masked with ` + "`*`" + `.
`

// returns the help screen, rendered for width
func NewHelp(width, height int) *HelpModel {
	m := &HelpModel{}
	m.resize(width, height)
	return m
}

func (m *HelpModel) resize(width, height int) {
	m.width = width
	m.height = height

	m.rendered = renderMarkdown(helpMarkdown, max(width-4, 20))
	m.viewport = viewport.New(max(width, 20), max(height-2, 5))
	m.viewport.SetContent(m.rendered)
}

func (m *HelpModel) Update(msg tea.Msg) (*HelpModel, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.resize(size.Width, size.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *HelpModel) View() string {
	return m.viewport.View() + "\n" + helpStyle.Render("press ctrl+h or esc to go back")
}

// renders markdown with glamour, falling back to the raw text
func renderMarkdown(md string, width int) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}

	out, err := renderer.Render(md)
	if err != nil {
		return md
	}

	return out
}
