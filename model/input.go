package model

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/miosa/osa-chat/style"
)

// Commands are the slash commands the input autocompletes.
var Commands = []string{"/copy", "/help", "/new", "/quit", "/sidebar"}

const (
	placeholderIdle    = "Type your message…"
	placeholderPending = "Waiting for reply…"
)

// InputModel is the message field.
//
//   - Up/Down walk through previously sent messages; the unsent draft is
//     kept and comes back when walking past the newest entry.
//   - Tab on a "/" prefix cycles through matching commands.
type InputModel struct {
	ti textinput.Model

	sent  []string
	pos   int // len(sent) when not navigating
	draft string

	matches  []string
	matchIdx int // -1 when not cycling
}

// NewInput returns a ready-to-use InputModel.
func NewInput() InputModel {
	ti := textinput.New()
	ti.Placeholder = placeholderIdle
	ti.CharLimit = 8192
	ti.Prompt = ""
	return InputModel{ti: ti, matchIdx: -1}
}

// Focus gives keyboard focus to the input.
func (m *InputModel) Focus() tea.Cmd {
	return m.ti.Focus()
}

// Blur removes keyboard focus from the input.
func (m *InputModel) Blur() {
	m.ti.Blur()
}

// Focused reports whether the input has keyboard focus.
func (m InputModel) Focused() bool {
	return m.ti.Focused()
}

// Value returns the raw text in the field.
func (m InputModel) Value() string {
	return m.ti.Value()
}

// SetWidth sets the visible width of the field.
func (m *InputModel) SetWidth(w int) {
	m.ti.Width = max(w-3, 10)
}

// SetPending swaps the placeholder while a reply is outstanding.
func (m *InputModel) SetPending(pending bool) {
	if pending {
		m.ti.Placeholder = placeholderPending
	} else {
		m.ti.Placeholder = placeholderIdle
	}
}

// Submit records text in the history and clears the field.
func (m *InputModel) Submit(text string) {
	if text != "" && (len(m.sent) == 0 || m.sent[len(m.sent)-1] != text) {
		m.sent = append(m.sent, text)
	}
	m.pos = len(m.sent)
	m.draft = ""
	m.ti.SetValue("")
	m.stopCycling()
}

// Init satisfies tea.Model.
func (m InputModel) Init() tea.Cmd {
	return nil
}

// Update intercepts history and completion keys and passes the rest to
// the text field.
func (m InputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type {
		case tea.KeyUp:
			return m.recall(-1), nil
		case tea.KeyDown:
			return m.recall(+1), nil
		case tea.KeyTab:
			return m.complete(), nil
		default:
			m.stopCycling()
		}
	}

	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

// View renders the prompt character followed by the field.
func (m InputModel) View() string {
	return style.PromptChar.Render("❯ ") + m.ti.View()
}

func (m InputModel) recall(delta int) InputModel {
	if len(m.sent) == 0 {
		return m
	}
	if m.pos == len(m.sent) {
		m.draft = m.ti.Value()
	}
	m.pos = min(max(m.pos+delta, 0), len(m.sent))

	if m.pos == len(m.sent) {
		m.ti.SetValue(m.draft)
	} else {
		m.ti.SetValue(m.sent[m.pos])
	}
	m.ti.CursorEnd()
	return m
}

func (m InputModel) complete() InputModel {
	current := m.ti.Value()
	if !strings.HasPrefix(current, "/") {
		return m
	}
	if m.matchIdx == -1 {
		m.matches = matchCommands(Commands, current)
		if len(m.matches) == 0 {
			return m
		}
		m.matchIdx = 0
	} else {
		m.matchIdx = (m.matchIdx + 1) % len(m.matches)
	}
	m.ti.SetValue(m.matches[m.matchIdx])
	m.ti.CursorEnd()
	return m
}

func (m *InputModel) stopCycling() {
	m.matchIdx = -1
	m.matches = nil
}

func matchCommands(commands []string, prefix string) []string {
	var out []string
	for _, c := range commands {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}
