// Package tui is the terminal chat interface. It is a thin collaborator:
// it forwards questions to the session and renders the conversation
// history, role by role.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docchat/internal/domain"
)

// ChatPort is the TUI-facing subset of the session.
type ChatPort interface {
	Ask(ctx context.Context, question string) (string, error)
	History() []domain.Message
}

// Model is the Bubble Tea model for the chat application.
type Model struct {
	session  ChatPort
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	status   string
	waiting  bool
	ready    bool
}

type answerMsg struct {
	err error
}

// New creates a new chat TUI model instance.
func New(session ChatPort) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type your question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	vp := viewport.New(0, 0)
	return Model{
		session:  session,
		input:    ti,
		viewport: vp,
		spinner:  sp,
		status:   "Documents processed. Ask away.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header + status + input frame + spacer
		vh := msg.Height - reserved - ch
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.waiting {
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				return m, nil
			}
			m.input.Reset()
			m.waiting = true
			m.status = "Generating answer..."
			return m, tea.Batch(m.spinner.Tick, ask(m.session, q))
		}
	case answerMsg:
		m.waiting = false
		switch {
		case msg.err == nil:
			m.status = "Ready."
		case errors.Is(msg.err, domain.ErrEmptyQuestion):
			m.status = "Ready."
		default:
			var genErr *domain.GenerationError
			if errors.As(msg.err, &genErr) {
				m.status = "Generation failed, try again: " + genErr.Err.Error()
			} else {
				m.status = "Error: " + msg.err.Error()
			}
		}
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()
		return m, nil
	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Chat with your documents")
	chat := chatBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := m.status
	if m.waiting {
		status = m.spinner.View() + " " + status
	}
	return header + "\n" + chat + "\n" + input + "\n" + statusStyle.Render(status)
}

func (m Model) renderHistory() string {
	history := m.session.History()
	if len(history) == 0 {
		return "No messages yet."
	}
	var sb strings.Builder
	for _, msg := range history {
		switch msg.Role {
		case domain.RoleHuman:
			fmt.Fprintf(&sb, "%s %s\n\n", humanLabel, msg.Content)
		case domain.RoleAI:
			fmt.Fprintf(&sb, "%s %s\n\n", aiLabel, msg.Content)
		case domain.RoleSystem:
			// Persona stays behind the scenes.
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func ask(s ChatPort, question string) tea.Cmd {
	return func() tea.Msg {
		_, err := s.Ask(context.Background(), question)
		return answerMsg{err: err}
	}
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	chatBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	humanLabel    = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true).Render("You:")
	aiLabel       = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true).Render("Bot:")
)
