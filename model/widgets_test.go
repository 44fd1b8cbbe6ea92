package model

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/miosa/osa-chat/client"
	"github.com/miosa/osa-chat/session"
)

// ---------------------------------------------------------------------------
// ConfirmModel
// ---------------------------------------------------------------------------

func confirmUpdate(m ConfirmModel, k string) (ConfirmModel, tea.Cmd) {
	next, cmd := m.Update(keyPress(k))
	return next.(ConfirmModel), cmd
}

func TestConfirm_DefaultsToCancel(t *testing.T) {
	m := NewConfirm()
	m.Open()
	m, cmd := confirmUpdate(m, "enter")
	require.False(t, m.IsActive())
	require.Equal(t, ConfirmDecision{Confirmed: false}, cmd())
}

func TestConfirm_ArrowThenEnterConfirms(t *testing.T) {
	m := NewConfirm()
	m.Open()
	m, _ = confirmUpdate(m, "right")
	_, cmd := confirmUpdate(m, "enter")
	require.Equal(t, ConfirmDecision{Confirmed: true}, cmd())
}

func TestConfirm_Shortcuts(t *testing.T) {
	m := NewConfirm()
	m.Open()
	_, cmd := confirmUpdate(m, "y")
	require.Equal(t, ConfirmDecision{Confirmed: true}, cmd())

	m.Open()
	_, cmd = confirmUpdate(m, "esc")
	require.Equal(t, ConfirmDecision{Confirmed: false}, cmd())
}

func TestConfirm_ViewText(t *testing.T) {
	m := NewConfirm()
	require.Empty(t, m.View())
	m.Open()
	m.SetWidth(80)
	out := m.View()
	require.Contains(t, out, "Start a new chat?")
	require.Contains(t, out, "Cancel")
	require.Contains(t, out, "Yes, Start New")
}

// ---------------------------------------------------------------------------
// InputModel
// ---------------------------------------------------------------------------

func inputUpdate(m InputModel, k tea.KeyMsg) InputModel {
	next, _ := m.Update(k)
	return next.(InputModel)
}

func typeText(m InputModel, s string) InputModel {
	return inputUpdate(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestInput_HistoryKeepsDraft(t *testing.T) {
	m := NewInput()
	m.Focus()
	m.Submit("first")
	m.Submit("second")
	m = typeText(m, "draft")

	m = inputUpdate(m, keyPress("up"))
	require.Equal(t, "second", m.Value())
	m = inputUpdate(m, keyPress("up"))
	require.Equal(t, "first", m.Value())
	m = inputUpdate(m, keyPress("up"))
	require.Equal(t, "first", m.Value())
	m = inputUpdate(m, keyPress("down"))
	m = inputUpdate(m, keyPress("down"))
	require.Equal(t, "draft", m.Value())
}

func TestInput_TabCompletesCommands(t *testing.T) {
	m := NewInput()
	m.Focus()
	m = typeText(m, "/s")
	m = inputUpdate(m, keyPress("tab"))
	require.Equal(t, "/sidebar", m.Value())
}

func TestInput_SubmitClears(t *testing.T) {
	m := NewInput()
	m.Focus()
	m = typeText(m, "hello")
	m.Submit("hello")
	require.Empty(t, m.Value())
}

// ---------------------------------------------------------------------------
// ChatModel
// ---------------------------------------------------------------------------

func TestChat_IntroWhenEmpty(t *testing.T) {
	m := NewChat(100, 30, 80)
	require.True(t, m.Empty())
	out := m.View()
	require.Contains(t, out, "How can I help you today?")
	for _, s := range Suggestions {
		require.Contains(t, out, s)
	}
}

func TestChat_NumbersCodeBlocksAcrossMessages(t *testing.T) {
	m := NewChat(100, 200, 80)
	m.SetMessages([]client.Message{
		{Role: client.RoleUser, Content: "show me"},
		{Role: client.RoleAssistant, Content: "```go\npackage a\n```"},
		{Role: client.RoleUser, Content: "more"},
		{Role: client.RoleAssistant, Content: "```sh\necho one\n```\n\n```sh\n  echo two  \n```"},
	})
	require.Equal(t, 3, m.CodeBlockCount())

	b, ok := m.CodeBlock(3)
	require.True(t, ok)
	require.Equal(t, "echo two", b.Code)

	b, ok = m.CodeBlock(1)
	require.True(t, ok)
	require.Equal(t, "package a", b.Code)

	_, ok = m.CodeBlock(4)
	require.False(t, ok)
	require.Contains(t, m.View(), "/copy 3")
}

func TestChat_PlaceholderShowsIndicator(t *testing.T) {
	m := NewChat(100, 30, 80)
	m.SetMessages([]client.Message{
		{Role: client.RoleUser, Content: "hi"},
		{Role: client.RoleAssistant, Content: session.Pending},
	})
	require.Contains(t, m.View(), "Thinking...")
	require.Zero(t, m.CodeBlockCount())
}

// ---------------------------------------------------------------------------
// ToastsModel and StatusModel
// ---------------------------------------------------------------------------

func TestToasts_ExpireAndDedupe(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewToasts()
	m.now = func() time.Time { return now }

	m.Add("Copied code block 1", ToastInfo)
	m.Add("Copied code block 1", ToastInfo)
	require.Equal(t, 1, strings.Count(m.View(80), "Copied"))

	now = now.Add(toastTTL + time.Second)
	m.Tick()
	require.False(t, m.HasToasts())
}

func TestStatus_View(t *testing.T) {
	m := NewStatus()
	require.Contains(t, m.View(), "new chat")

	m.SetConversation("0123456789abcdef")
	m.SetCounts(2, 40, false)
	out := m.View()
	require.Contains(t, out, "01234567…")
	require.Contains(t, out, "2 messages")
	require.Contains(t, out, "~40 tokens")

	m.SetPending(true)
	require.Contains(t, m.View(), "waiting for reply")
}
