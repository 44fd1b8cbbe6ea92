package model

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/miosa/osa-chat/markdown"
	"github.com/miosa/osa-chat/style"
)

// ConfirmDecision is emitted when the new-chat dialog closes.
type ConfirmDecision struct {
	Confirmed bool
}

const confirmBody = "**Start a new chat?**\n\nConversations are not permanently saved."

var confirmOptions = []string{"Cancel", "Yes, Start New"}

// ConfirmModel is the new-chat confirmation dialog. It is inactive until
// Open is called.
type ConfirmModel struct {
	active   bool
	selected int // 0=Cancel, 1=Yes
	width    int
}

// NewConfirm returns an inactive dialog.
func NewConfirm() ConfirmModel {
	return ConfirmModel{}
}

// Open shows the dialog with Cancel selected.
func (m *ConfirmModel) Open() {
	m.active = true
	m.selected = 0
}

// Close hides the dialog.
func (m *ConfirmModel) Close() {
	m.active = false
	m.selected = 0
}

// IsActive reports whether the dialog is visible.
func (m ConfirmModel) IsActive() bool {
	return m.active
}

// SetWidth constrains the dialog to the given width.
func (m *ConfirmModel) SetWidth(w int) {
	m.width = w
}

// Init satisfies tea.Model.
func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update handles keyboard input while the dialog is open.
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if !m.active {
		return m, nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "left", "right", "tab", "shift+tab", "h", "l":
		m.selected = 1 - m.selected
	case "enter":
		return m.decide(m.selected == 1)
	case "y", "Y":
		return m.decide(true)
	case "n", "N", "esc":
		return m.decide(false)
	}
	return m, nil
}

func (m ConfirmModel) decide(confirmed bool) (tea.Model, tea.Cmd) {
	m.Close()
	return m, func() tea.Msg { return ConfirmDecision{Confirmed: confirmed} }
}

// View renders the dialog. Returns an empty string when inactive.
func (m ConfirmModel) View() string {
	if !m.active {
		return ""
	}

	boxWidth := min(m.width, 56)
	inner := boxWidth - 6
	if inner < 20 {
		inner = 40
	}
	body := markdown.RenderWidth(confirmBody, inner) + "\n\n" + buildConfirmSelector(m.selected)

	box := style.DialogBorder
	if m.width > 0 {
		box = box.Width(boxWidth - 2)
	}
	return box.Render(body)
}

// buildConfirmSelector returns the option line, e.g.:
//
//	○ Cancel  > Yes, Start New
func buildConfirmSelector(selected int) string {
	parts := make([]string, len(confirmOptions))
	for i, opt := range confirmOptions {
		if i == selected {
			parts[i] = style.DialogSelected.Render("> " + opt)
		} else {
			parts[i] = style.DialogUnselected.Render("○ " + opt)
		}
	}
	return strings.Join(parts, "  ")
}
