package model

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/miosa/osa-chat/client"
	"github.com/miosa/osa-chat/style"
)

const (
	sidebarWidth          = 32
	sidebarCollapsedWidth = 5
)

// SidebarSelect is emitted when the user picks a conversation.
type SidebarSelect struct {
	ID string
}

// SidebarNewChat is emitted when the user activates the New Chat row.
type SidebarNewChat struct{}

// SidebarBlur is emitted when the user presses Esc in the sidebar.
type SidebarBlur struct{}

// SidebarModel renders the conversation list. Everything it shows comes
// from the setters; the cursor and scroll offset are its only own state.
// Row 0 is the New Chat action, rows 1..n are conversations.
type SidebarModel struct {
	items     []client.ConversationSummary
	activeID  string
	loading   bool
	collapsed bool
	focused   bool

	cursor int
	offset int
	height int
}

// NewSidebar returns an expanded, empty sidebar.
func NewSidebar() SidebarModel {
	return SidebarModel{}
}

// SetConversations replaces the listed summaries.
func (m *SidebarModel) SetConversations(items []client.ConversationSummary) {
	m.items = items
	if m.cursor > len(m.items) {
		m.cursor = len(m.items)
	}
	m.clampOffset()
}

func (m *SidebarModel) SetActive(id string) {
	m.activeID = id
}

func (m *SidebarModel) SetLoading(loading bool) {
	m.loading = loading
}

// SetCollapsed switches between the full list and the narrow rail.
func (m *SidebarModel) SetCollapsed(c bool) {
	m.collapsed = c
	if c {
		m.focused = false
	}
}

func (m SidebarModel) Collapsed() bool { return m.collapsed }

func (m *SidebarModel) SetHeight(h int) {
	m.height = h
	m.clampOffset()
}

func (m SidebarModel) Focused() bool { return m.focused }
func (m SidebarModel) Cursor() int   { return m.cursor }

func (m *SidebarModel) Blur() {
	m.focused = false
}

// Focus gives the sidebar keyboard focus with the cursor on the active
// conversation.
func (m *SidebarModel) Focus() {
	m.focused = true
	for i, it := range m.items {
		if it.ID == m.activeID {
			m.cursor = i + 1
			break
		}
	}
	m.clampOffset()
}

// Width returns the rendered width for the current mode.
func (m SidebarModel) Width() int {
	if m.collapsed {
		return sidebarCollapsedWidth
	}
	return sidebarWidth
}

// Init satisfies tea.Model.
func (m SidebarModel) Init() tea.Cmd {
	return nil
}

// Update handles keyboard input while focused.
func (m SidebarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if !m.focused || m.collapsed {
		return m, nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	rows := len(m.items) + 1
	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		} else {
			m.cursor = rows - 1
		}
	case "down", "j":
		if m.cursor < rows-1 {
			m.cursor++
		} else {
			m.cursor = 0
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = rows - 1
	case "enter":
		if m.cursor == 0 {
			return m, func() tea.Msg { return SidebarNewChat{} }
		}
		if m.loading || m.cursor > len(m.items) {
			return m, nil
		}
		id := m.items[m.cursor-1].ID
		return m, func() tea.Msg { return SidebarSelect{ID: id} }
	case "esc":
		m.focused = false
		return m, func() tea.Msg { return SidebarBlur{} }
	}
	m.clampOffset()
	return m, nil
}

// View renders the sidebar.
func (m SidebarModel) View() string {
	if m.collapsed {
		return m.viewCollapsed()
	}

	inner := sidebarWidth - 2
	var sb strings.Builder

	sb.WriteString(style.SidebarTitle.Render("◈ AI Assistant") + "\n\n")

	newChat := style.SidebarButton.Width(inner - 2).Render("+ New Chat")
	if m.focused && m.cursor == 0 {
		newChat = style.SidebarButton.Width(inner - 2).Bold(true).BorderForeground(style.Secondary).Render("+ New Chat")
	}
	sb.WriteString(newChat + "\n\n")

	sb.WriteString(style.Faint.Render("Recent") + "\n")

	switch {
	case m.loading:
		sb.WriteString(style.SpinnerStyle.Render("  ⠿ Loading conversations…"))
	case len(m.items) == 0:
		sb.WriteString(style.Faint.Render("  No conversations yet"))
	default:
		sb.WriteString(m.viewList(inner))
	}

	if m.focused {
		sb.WriteString("\n\n" + style.Hint.Render("enter open · esc back"))
	}

	frame := style.SidebarFrame.Width(sidebarWidth - 1)
	if m.height > 0 {
		frame = frame.Height(m.height)
	}
	return frame.Render(sb.String())
}

func (m SidebarModel) viewList(inner int) string {
	visible := m.pageSize()
	end := min(m.offset+visible, len(m.items))

	var lines []string
	if m.offset > 0 {
		lines = append(lines, style.Faint.Render("  ↑ more"))
	}
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderItem(m.items[i], m.focused && m.cursor == i+1, inner))
	}
	if end < len(m.items) {
		lines = append(lines, style.Faint.Render("  ↓ more"))
	}
	return strings.Join(lines, "\n")
}

func (m SidebarModel) renderItem(item client.ConversationSummary, isCursor bool, inner int) string {
	title := item.Title
	if strings.TrimSpace(title) == "" {
		title = "Untitled"
	}

	var stamp string
	if item.UpdatedAt != nil {
		stamp = item.UpdatedAt.Local().Format("15:04")
	}

	// Two cells of cursor and two of marker precede the line.
	avail := inner - 4
	room := avail
	if stamp != "" {
		room -= len(stamp) + 1
	}
	title = style.Truncate(title, room)

	line := title
	if stamp != "" {
		gap := avail - lipgloss.Width(title) - len(stamp)
		line = title + strings.Repeat(" ", max(gap, 1)) + style.SidebarTimestamp.Render(stamp)
	}

	cursor := "  "
	if isCursor {
		cursor = style.SidebarCursor.Render("> ")
	}

	if item.ID == m.activeID {
		return cursor + style.SidebarActive.UnsetPaddingLeft().Render("● "+line)
	}
	return cursor + "  " + line
}

func (m SidebarModel) viewCollapsed() string {
	lines := []string{
		style.SidebarTitle.Render("◈"),
		"",
		style.SidebarCursor.Render("+"),
		"",
		style.Faint.Render(fmt.Sprintf("%d", len(m.items))),
	}
	if m.loading {
		lines[4] = style.SpinnerStyle.Render("⠿")
	}
	frame := style.SidebarFrame.Width(sidebarCollapsedWidth - 1)
	if m.height > 0 {
		frame = frame.Height(m.height)
	}
	return frame.Render(strings.Join(lines, "\n"))
}

// pageSize is how many conversation rows fit below the header.
func (m SidebarModel) pageSize() int {
	if m.height <= 0 {
		return 12
	}
	return max(m.height-10, 3)
}

func (m *SidebarModel) clampOffset() {
	ps := m.pageSize()
	if m.cursor > 0 {
		idx := m.cursor - 1
		if idx < m.offset {
			m.offset = idx
		}
		if idx >= m.offset+ps {
			m.offset = idx - ps + 1
		}
	}
	m.offset = max(min(m.offset, len(m.items)-ps), 0)
}
