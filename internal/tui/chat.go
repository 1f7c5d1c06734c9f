package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// header, status line and input box
const chromeHeight = 7

// returns a new chat screen talking through client
func NewChat(client *WSClient) *ChatModel {
	ti := textinput.New()
	ti.Placeholder = "say something..."
	ti.Focus()
	ti.CharLimit = maxInputLength
	ti.Width = 80
	ti.Prompt = "> "
	ti.PromptStyle = promptStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorWhite)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = infoStyle

	return &ChatModel{
		input:   ti,
		spinner: sp,
		client:  client,
		lines:   []ChatLine{},
	}
}

func (m *ChatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m *ChatModel) Update(msg tea.Msg) (*ChatModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			text := m.input.Value()
			if strings.TrimSpace(text) == "" || !m.connected {
				return m, nil
			}

			m.input.SetValue("")
			m.typing = false

			return m, m.send(eventSendMessage, map[string]string{"msg": text})

		case "pgup", "pgdown", "up", "down":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd, m.syncTyping())

		return m, tea.Batch(cmds...)

	case ServerEventMsg:
		m.applyEvent(msg)
		return m, nil

	case WSConnectedMsg:
		m.connected = true
		return m, nil

	case WSDisconnectedMsg, WSConnectErrorMsg:
		m.connected = false
		m.typing = false
		m.userCount = 0
		m.typists = nil
		return m, m.spinner.Tick

	case spinner.TickMsg:
		if m.connected {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-10, 10)

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, max(msg.Height-chromeHeight, 3))
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = max(msg.Height-chromeHeight, 3)
		}

		m.refreshTranscript()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// tells the server when the input goes from empty to non-empty and back
func (m *ChatModel) syncTyping() tea.Cmd {
	if !m.connected {
		return nil
	}

	hasText := m.input.Value() != ""

	switch {
	case hasText && !m.typing:
		m.typing = true
		return m.send(eventIsTyping, nil)
	case !hasText && m.typing:
		m.typing = false
		return m.send(eventNotTyping, nil)
	}

	return nil
}

func (m *ChatModel) send(event string, payload any) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if err := client.Send(event, payload); err != nil {
			return ErrorMsg{err: fmt.Errorf("failed to send %s: %w", event, err)}
		}
		return nil
	}
}

// folds one server event into the screen state
func (m *ChatModel) applyEvent(msg ServerEventMsg) {
	switch msg.Event {
	case eventSetAlias:
		var payload struct {
			Alias string `json:"alias"`
		}
		if json.Unmarshal(msg.Data, &payload) == nil {
			m.alias = payload.Alias
		}

	case eventHistory:
		var payload struct {
			Messages []ChatLine `json:"messages"`
		}
		if json.Unmarshal(msg.Data, &payload) == nil {
			// a reconnect replays history, so replace rather than append
			m.lines = append([]ChatLine{}, payload.Messages...)
			m.refreshTranscript()
		}

	case eventMessage:
		var line ChatLine
		if json.Unmarshal(msg.Data, &line) == nil {
			m.lines = append(m.lines, line)
			m.refreshTranscript()
		}

	case eventUserCount:
		var payload struct {
			Count int `json:"count"`
		}
		if json.Unmarshal(msg.Data, &payload) == nil {
			m.userCount = payload.Count
		}

	case eventTypists:
		var payload struct {
			Typists []string `json:"typists"`
		}
		if json.Unmarshal(msg.Data, &payload) == nil {
			m.typists = payload.Typists
		}
	}
}

func (m *ChatModel) refreshTranscript() {
	if !m.ready {
		return
	}

	var b strings.Builder
	for i, line := range m.lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderLine(line))
	}

	m.viewport.SetContent(lipgloss.NewStyle().Width(m.viewport.Width).Render(b.String()))
	m.viewport.GotoBottom()
}

func (m *ChatModel) renderLine(line ChatLine) string {
	switch line.Alias {
	case serverAlias:
		return serverStyle.Render("* " + line.Msg)
	case m.alias:
		return selfStyle.Render(line.Alias+": ") + line.Msg
	default:
		return aliasStyle.Render(line.Alias+": ") + line.Msg
	}
}

func (m *ChatModel) View() string {
	var b strings.Builder

	header := titleStyle.Render("HUSHROOM")

	status := fmt.Sprintf("%s  |  online: %d", m.alias, m.userCount)
	if !m.connected {
		status = m.spinner.View() + " reconnecting..."
	}

	help := helpStyle.Render("[Enter: Send] [Ctrl+H: Help] [Ctrl+C: Leave]")

	headerLine := lipgloss.JoinHorizontal(lipgloss.Left,
		header,
		"  ",
		infoStyle.Render(status),
		strings.Repeat(" ", max(0, m.width-lipgloss.Width(header)-lipgloss.Width(status)-lipgloss.Width(help)-4)),
		help,
	)

	b.WriteString(headerLine)
	b.WriteString("\n")

	transcript := m.viewport.View()
	if len(m.lines) == 0 {
		transcript = infoStyle.Render("no messages in the last while. say hi!")
	}

	b.WriteString(borderStyle.Width(max(m.width-2, 10)).Render(transcript))
	b.WriteString("\n")

	b.WriteString(typingStyle.Render(formatTypists(m.typists, m.alias)))
	b.WriteString("\n")

	b.WriteString(borderStyle.Width(max(m.width-2, 10)).Padding(0, 1).Render(m.input.View()))

	return b.String()
}
