package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

func NewApp(endpoint string) *Model {
	client := NewWSClient(endpoint)

	return &Model{
		state:    StateWelcome,
		endpoint: endpoint,
		welcome:  NewWelcome(endpoint),
		chat:     NewChat(client),
		client:   client,
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// any key dismisses an error
		if m.err != nil {
			m.err = nil
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c":
			// quit from welcome, leave the room from chat
			if m.state == StateWelcome {
				return m, tea.Quit
			}

			if m.state == StateChat {
				m.client.Close()
				m.state = StateWelcome
				return m, nil
			}

		case "ctrl+h":
			return m.toggleHelp()

		case "esc":
			if m.state == StateHelp {
				return m.toggleHelp()
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		m.chat, _ = m.chat.Update(msg)
		if m.help != nil {
			m.help, _ = m.help.Update(msg)
		}
		return m, nil

	case ErrorMsg:
		m.err = msg.err
		return m, nil

	case ToggleHelpMsg:
		return m.toggleHelp()

	case EnterChatMsg:
		m.state = StateChat
		return m, tea.Batch(m.chat.Init(), m.client.ConnectCmd())

	case WSConnectedMsg:
		m.chat, _ = m.chat.Update(msg)
		return m, m.client.WaitForEvent()

	case ServerEventMsg:
		m.chat, _ = m.chat.Update(msg)
		return m, m.client.WaitForEvent()

	case WSConnectErrorMsg, WSDisconnectedMsg:
		// a stale read loop from an earlier connection reporting its end
		if _, stale := msg.(WSDisconnectedMsg); stale && m.client.IsConnected() {
			return m, nil
		}

		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)

		// stay down once the user left the room
		if m.state == StateWelcome {
			return m, nil
		}

		return m, tea.Batch(cmd, reconnectCmd())

	case ReconnectMsg:
		if m.state == StateWelcome || m.client.IsConnected() {
			return m, nil
		}
		return m, m.client.ConnectCmd()
	}

	switch m.state {
	case StateWelcome:
		return m.updateWelcome(msg)

	case StateChat:
		return m.updateChat(msg)

	case StateHelp:
		return m.updateHelp(msg)

	default:
		return m, nil
	}
}

func (m *Model) View() string {
	if m.err != nil {
		return errorView(m.err)
	}

	switch m.state {
	case StateWelcome:
		return m.welcome.View()

	case StateChat:
		return m.chat.View()

	case StateHelp:
		return m.help.View()

	default:
		return "Unknown state"
	}
}

func (m *Model) toggleHelp() (tea.Model, tea.Cmd) {
	if m.state == StateHelp {
		m.state = m.previous
		return m, nil
	}

	if m.help == nil {
		m.help = NewHelp(m.width, m.height)
	}

	m.previous = m.state
	m.state = StateHelp
	return m, nil
}

func (m *Model) updateWelcome(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.welcome, cmd = m.welcome.Update(msg)

	return m, cmd
}

func (m *Model) updateChat(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)

	return m, cmd
}

func (m *Model) updateHelp(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.help, cmd = m.help.Update(msg)

	return m, cmd
}

func errorView(err error) string {
	return fmt.Sprintf("\n  %s %v\n\n  %s\n",
		errorStyle.Render("Error:"), err,
		helpStyle.Render("press any key to continue"))
}
