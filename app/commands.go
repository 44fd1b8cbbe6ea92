package app

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/miosa/osa-chat/model"
	"github.com/miosa/osa-chat/style"
)

var commandHelp = [][2]string{
	{"/new", "start a new chat"},
	{"/copy [n]", "copy code block n (default: the last one)"},
	{"/sidebar", "show or hide the conversation list"},
	{"/help", "show this help"},
	{"/quit", "exit"},
}

// runCommand handles a slash command typed in the input. It reports false
// for text that is not a known command, which is then sent as a message.
func (m Model) runCommand(line string) (Model, tea.Cmd, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return m, nil, false
	}

	switch fields[0] {
	case "/new":
		m.input.Submit(line)
		next, cmd := m.startNewChat()
		return next, cmd, true

	case "/help":
		m.input.Submit(line)
		m.showHelp = true
		return m, nil, true

	case "/quit", "/exit":
		return m, tea.Quit, true

	case "/sidebar":
		m.input.Submit(line)
		m.sidebarOpen = !m.sidebarOpen
		return m, nil, true

	case "/copy":
		m.input.Submit(line)
		n := m.chat.CodeBlockCount()
		if n == 0 {
			return m, m.addToast("No code blocks to copy", model.ToastError), true
		}
		if len(fields) > 1 {
			v, err := strconv.Atoi(fields[1])
			if err != nil {
				return m, m.addToast(fmt.Sprintf("Not a block number: %s", fields[1]), model.ToastError), true
			}
			n = v
		}
		block, ok := m.chat.CodeBlock(n)
		if !ok {
			return m, m.addToast(fmt.Sprintf("No code block %d", n), model.ToastError), true
		}
		return m, m.copyBlock(n, block.Code), true
	}
	return m, nil, false
}

func (m Model) helpView() string {
	var sb strings.Builder
	sb.WriteString(style.Bold.Render("Commands") + "\n")
	for _, c := range commandHelp {
		sb.WriteString(fmt.Sprintf("  %-12s %s\n", c[0], style.Faint.Render(c[1])))
	}
	sb.WriteString(style.Bold.Render("Keys") + "\n")
	for _, b := range m.keys.bindings() {
		h := b.Help()
		sb.WriteString(fmt.Sprintf("  %-12s %s\n", h.Key, style.Faint.Render(h.Desc)))
	}
	return strings.TrimRight(sb.String(), "\n")
}
