package model

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/miosa/osa-chat/client"
	"github.com/miosa/osa-chat/markdown"
	"github.com/miosa/osa-chat/session"
	"github.com/miosa/osa-chat/style"
)

// Suggestions shown on the intro screen.
var Suggestions = []string{
	"Brainstorm ideas",
	"Summarize a text",
	"Write code",
	"Draft an email",
}

// ChatModel is a scrollable viewport that displays the transcript. Code
// blocks are numbered across the whole transcript so each can be copied
// by number.
type ChatModel struct {
	vp       viewport.Model
	messages []client.Message
	blocks   []markdown.CodeBlock
	wrap     int
	width    int
	height   int
}

// NewChat constructs a ChatModel sized to width x height. wrap caps the
// prose width.
func NewChat(width, height, wrap int) ChatModel {
	vp := viewport.New(width, height)
	m := ChatModel{
		vp:     vp,
		wrap:   wrap,
		width:  width,
		height: height,
	}
	m.refresh()
	return m
}

// SetMessages replaces the displayed transcript and scrolls to the bottom.
func (m *ChatModel) SetMessages(msgs []client.Message) {
	m.messages = msgs
	m.refresh()
}

// Empty reports whether the intro screen is showing.
func (m ChatModel) Empty() bool {
	return len(m.messages) == 0
}

// CodeBlock returns code block n, numbered from 1.
func (m ChatModel) CodeBlock(n int) (markdown.CodeBlock, bool) {
	if n < 1 || n > len(m.blocks) {
		return markdown.CodeBlock{}, false
	}
	return m.blocks[n-1], true
}

// CodeBlockCount returns how many code blocks the transcript has.
func (m ChatModel) CodeBlockCount() int {
	return len(m.blocks)
}

// SetSize resizes the underlying viewport.
func (m *ChatModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.vp.Width = width
	m.vp.Height = height
	m.refresh()
}

// PageUp scrolls half a screen up.
func (m *ChatModel) PageUp() {
	m.vp.HalfViewUp()
}

// PageDown scrolls half a screen down.
func (m *ChatModel) PageDown() {
	m.vp.HalfViewDown()
}

// Init satisfies tea.Model.
func (m ChatModel) Init() tea.Cmd {
	return nil
}

// Update forwards keyboard and mouse events to the viewport.
func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// View returns the rendered viewport content.
func (m ChatModel) View() string {
	return m.vp.View()
}

func (m *ChatModel) refresh() {
	m.vp.SetContent(m.renderAll())
	m.vp.GotoBottom()
}

func (m *ChatModel) renderAll() string {
	m.blocks = m.blocks[:0]
	if len(m.messages) == 0 {
		return m.renderIntro()
	}

	width := m.width - 2
	if m.wrap > 0 && width > m.wrap {
		width = m.wrap
	}
	r := markdown.NewRenderer(markdown.WithWidth(width))

	var sb strings.Builder
	for i, msg := range m.messages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(m.renderMessage(r, msg))
	}
	return sb.String()
}

func (m *ChatModel) renderMessage(r *markdown.Renderer, msg client.Message) string {
	var label string
	bubble := style.AgentBubble
	switch msg.Role {
	case client.RoleUser:
		label = style.UserLabel.Render("❯ You")
		bubble = style.UserBubble
	default:
		label = style.AgentLabel.Render("◈ Assistant")
	}

	if msg.Role == client.RoleAssistant && msg.Content == session.FailureNotice {
		return label + "\n" + bubble.Render(style.FailureMessage.Render(msg.Content))
	}

	doc := markdown.Parse(msg.Content)
	first := len(m.blocks)
	m.blocks = append(m.blocks, renumber(markdown.CodeBlocks(doc), first)...)
	return label + "\n" + bubble.Render(r.Render(doc, first))
}

func renumber(blocks []markdown.CodeBlock, first int) []markdown.CodeBlock {
	for i := range blocks {
		blocks[i].Index += first
	}
	return blocks
}

func (m *ChatModel) renderIntro() string {
	title := style.WelcomeTitle.Render("How can I help you today?")

	cards := make([]string, len(Suggestions))
	for i, s := range Suggestions {
		cards[i] = style.WelcomeCard.Render(s)
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	if lipgloss.Width(row) > m.width {
		row = lipgloss.JoinVertical(lipgloss.Left, cards...)
	}

	tip := style.WelcomeTip.Render("Type a message below and press enter. /help lists commands.")
	body := lipgloss.JoinVertical(lipgloss.Center, title, "", row, "", tip)
	if m.width <= 0 || m.height <= 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}
