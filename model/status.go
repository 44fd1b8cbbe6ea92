package model

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/miosa/osa-chat/style"
)

// StatusModel renders the bottom status line:
//
//	⠋ waiting for reply · conversation 3f2a… · 6 messages · ~412 tokens
type StatusModel struct {
	sp           spinner.Model
	pending      bool
	conversation string
	messages     int
	tokens       int
	exactTokens  bool
	hint         string
}

// NewStatus returns an idle StatusModel.
func NewStatus() StatusModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = style.SpinnerStyle
	return StatusModel{sp: sp}
}

// SetPending starts or stops the spinner. The returned command drives the
// animation and must be run by the caller.
func (m *StatusModel) SetPending(pending bool) tea.Cmd {
	m.pending = pending
	if pending {
		return m.sp.Tick
	}
	return nil
}

// SetConversation shows the active conversation id; empty means a new chat.
func (m *StatusModel) SetConversation(id string) {
	m.conversation = id
}

// SetCounts updates message and token totals.
func (m *StatusModel) SetCounts(messages, tokens int, exact bool) {
	m.messages = messages
	m.tokens = tokens
	m.exactTokens = exact
}

// SetHint sets the key hint shown on the right of the line.
func (m *StatusModel) SetHint(h string) {
	m.hint = h
}

// Init satisfies tea.Model.
func (m StatusModel) Init() tea.Cmd {
	return nil
}

// Update advances the spinner while a reply is pending.
func (m StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); ok && m.pending {
		var cmd tea.Cmd
		m.sp, cmd = m.sp.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the status line.
func (m StatusModel) View() string {
	var parts []string
	if m.pending {
		parts = append(parts, m.sp.View()+" waiting for reply")
	}

	if m.conversation == "" {
		parts = append(parts, "new chat")
	} else {
		parts = append(parts, style.StatusSignal.Render("conversation "+shortID(m.conversation)))
	}

	if m.messages > 0 {
		noun := "messages"
		if m.messages == 1 {
			noun = "message"
		}
		parts = append(parts, fmt.Sprintf("%d %s", m.messages, noun))

		approx := "~"
		if m.exactTokens {
			approx = ""
		}
		parts = append(parts, fmt.Sprintf("%s%d tokens", approx, m.tokens))
	}

	line := style.StatusBar.Render(strings.Join(parts, " · "))
	if m.hint != "" {
		line += style.Hint.Render("  " + m.hint)
	}
	return line
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "…"
}
