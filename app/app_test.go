package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/miosa/osa-chat/client"
	"github.com/miosa/osa-chat/model"
	"github.com/miosa/osa-chat/msg"
	"github.com/miosa/osa-chat/session"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeRemote struct {
	mu sync.Mutex

	list    []client.ConversationSummary
	listErr error

	transcripts map[string][]client.Message
	loadErr     error

	reply   client.Reply
	sendErr error

	sent      [][]client.Message
	sentIDs   []string
	listCalls int
}

func (f *fakeRemote) ListConversations(_ context.Context) ([]client.ConversationSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.list, f.listErr
}

func (f *fakeRemote) LoadTranscript(_ context.Context, id string) ([]client.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.transcripts[id], nil
}

func (f *fakeRemote) SendTurn(_ context.Context, transcript []client.Message, id string) (client.Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, transcript)
	f.sentIDs = append(f.sentIDs, id)
	return f.reply, f.sendErr
}

type fakeCopier struct {
	mu     sync.Mutex
	copied []string
	err    error
}

func (c *fakeCopier) Copy(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.copied = append(c.copied, text)
	return c.err
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTestModel(t *testing.T, r *fakeRemote, c *fakeCopier) Model {
	t.Helper()
	if c == nil {
		c = &fakeCopier{}
	}
	m := New(r, Options{
		Endpoint: "http://test",
		Version:  "test",
		WordWrap: 80,
		Sidebar:  true,
		Copier:   c,
	})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func update(t *testing.T, m Model, message tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(message)
	return next.(Model), cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func press(t *testing.T, m Model, k tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: k})
}

func pressRune(t *testing.T, m Model, r rune) (Model, tea.Cmd) {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// drain runs cmd and flattens batches. Commands that block (cursor blink,
// toast ticks) are abandoned after a short wait.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	var out tea.Msg
	select {
	case out = <-ch:
	case <-time.After(100 * time.Millisecond):
		return nil
	}
	if batch, ok := out.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, drain(c)...)
		}
		return msgs
	}
	return []tea.Msg{out}
}

func find[T any](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v
		}
	}
	var zero T
	t.Fatalf("no %T among %d messages", zero, len(msgs))
	return zero
}

// sendPrompt types text, presses enter and returns the TurnResult the
// resulting command produced, without applying it.
func sendPrompt(t *testing.T, m Model, text string) (Model, msg.TurnResult) {
	t.Helper()
	m = typeText(t, m, text)
	m, cmd := press(t, m, tea.KeyEnter)
	require.NotNil(t, cmd)
	return m, find[msg.TurnResult](t, drain(cmd))
}

// ---------------------------------------------------------------------------
// Conversation list
// ---------------------------------------------------------------------------

func TestInit_LoadsConversationList(t *testing.T) {
	r := &fakeRemote{list: []client.ConversationSummary{{ID: "c1", Title: "Trip ideas"}}}
	m := newTestModel(t, r, nil)

	loaded := find[msg.ConversationsLoaded](t, drain(m.Init()))
	require.False(t, loaded.Refresh)
	m, _ = update(t, m, loaded)

	require.Contains(t, m.View(), "Trip ideas")
}

func TestConversations_InitialFailureShowsEmptyList(t *testing.T) {
	m := newTestModel(t, &fakeRemote{}, nil)
	m, _ = update(t, m, msg.ConversationsLoaded{Err: errors.New("boom")})

	view := m.View()
	require.Contains(t, view, "No conversations yet")
	require.NotContains(t, view, "Loading conversations")
}

func TestConversations_RefreshFailureKeepsList(t *testing.T) {
	m := newTestModel(t, &fakeRemote{}, nil)
	m, _ = update(t, m, msg.ConversationsLoaded{
		Conversations: []client.ConversationSummary{{ID: "c1", Title: "Trip ideas"}},
	})
	m, _ = update(t, m, msg.ConversationsLoaded{Refresh: true, Err: errors.New("boom")})

	require.Contains(t, m.View(), "Trip ideas")
}

// ---------------------------------------------------------------------------
// Sending
// ---------------------------------------------------------------------------

func TestSubmit_ShowsPlaceholderUntilReply(t *testing.T) {
	r := &fakeRemote{reply: client.Reply{Content: "Hi there", ConversationID: "c1"}}
	m := newTestModel(t, r, nil)

	m, turn := sendPrompt(t, m, "Hello")
	vm := m.Session()
	require.True(t, vm.PendingSend())
	tr := vm.Transcript()
	require.Len(t, tr, 2)
	require.Equal(t, client.Message{Role: client.RoleUser, Content: "Hello"}, tr[0])
	require.True(t, session.IsPlaceholder(tr[1]))
	require.Contains(t, m.View(), "Thinking...")
	require.Empty(t, m.input.Value())

	require.Len(t, r.sent, 1)
	require.Equal(t, []client.Message{{Role: client.RoleUser, Content: "Hello"}}, r.sent[0])
	require.Equal(t, "", r.sentIDs[0])

	m, cmd := update(t, m, turn)
	require.False(t, vm.PendingSend())
	require.Equal(t, "c1", vm.ActiveConversationID())
	require.Equal(t, []client.Message{
		{Role: client.RoleUser, Content: "Hello"},
		{Role: client.RoleAssistant, Content: "Hi there"},
	}, vm.Transcript())
	require.NotContains(t, m.View(), "Thinking...")

	refreshed := find[msg.ConversationsLoaded](t, drain(cmd))
	require.True(t, refreshed.Refresh)
	require.Equal(t, 1, r.listCalls)
}

func TestSubmit_SecondSendIgnoredWhilePending(t *testing.T) {
	r := &fakeRemote{reply: client.Reply{Content: "ok", ConversationID: "c1"}}
	m := newTestModel(t, r, nil)

	m, _ = sendPrompt(t, m, "first")
	m = typeText(t, m, "second")
	m, cmd := press(t, m, tea.KeyEnter)

	require.Nil(t, cmd)
	require.Len(t, m.Session().Transcript(), 2)
	require.Equal(t, "second", m.input.Value())
}

func TestSubmit_BlankInputIgnored(t *testing.T) {
	m := newTestModel(t, &fakeRemote{}, nil)
	m = typeText(t, m, "   ")
	m, cmd := press(t, m, tea.KeyEnter)

	require.Nil(t, cmd)
	require.Empty(t, m.Session().Transcript())
}

func TestSubmit_FailureShowsNotice(t *testing.T) {
	r := &fakeRemote{sendErr: errors.New("down")}
	m := newTestModel(t, r, nil)

	m, turn := sendPrompt(t, m, "Hello")
	m, cmd := update(t, m, turn)

	require.Nil(t, cmd)
	tr := m.Session().Transcript()
	require.Len(t, tr, 2)
	require.Equal(t, session.FailureNotice, tr[1].Content)
	require.Equal(t, "", m.Session().ActiveConversationID())
	require.Contains(t, m.View(), session.FailureNotice)
}

func TestSubmit_UsesActiveConversation(t *testing.T) {
	r := &fakeRemote{reply: client.Reply{Content: "again", ConversationID: "c1"}}
	m := newTestModel(t, r, nil)

	m, turn := sendPrompt(t, m, "one")
	m, _ = update(t, m, turn)
	_, _ = sendPrompt(t, m, "two")

	require.Equal(t, []string{"", "c1"}, r.sentIDs)
	require.Len(t, r.sent[1], 3)
}

// ---------------------------------------------------------------------------
// New chat
// ---------------------------------------------------------------------------

func withReply(t *testing.T) Model {
	t.Helper()
	r := &fakeRemote{reply: client.Reply{Content: "Hi", ConversationID: "c1"}}
	m := newTestModel(t, r, nil)
	m, turn := sendPrompt(t, m, "Hello")
	m, _ = update(t, m, turn)
	return m
}

func TestNewChat_EmptySessionClearsImmediately(t *testing.T) {
	m := newTestModel(t, &fakeRemote{}, nil)
	m, _ = press(t, m, tea.KeyCtrlN)

	require.Equal(t, FocusInput, m.focus)
	require.False(t, m.confirm.IsActive())
}

func TestNewChat_CancelKeepsSession(t *testing.T) {
	m := withReply(t)
	m, _ = press(t, m, tea.KeyCtrlN)
	require.Equal(t, FocusDialog, m.focus)
	require.True(t, m.Session().AwaitingConfirmation())
	require.Contains(t, m.View(), "Yes, Start New")

	m, cmd := pressRune(t, m, 'n')
	m, _ = update(t, m, find[model.ConfirmDecision](t, drain(cmd)))

	require.Equal(t, FocusInput, m.focus)
	require.False(t, m.Session().AwaitingConfirmation())
	require.Equal(t, "c1", m.Session().ActiveConversationID())
	require.Len(t, m.Session().Transcript(), 2)
}

func TestNewChat_ConfirmClearsSession(t *testing.T) {
	m := withReply(t)
	m = typeText(t, m, "/new")
	m, _ = press(t, m, tea.KeyEnter)
	require.Equal(t, FocusDialog, m.focus)

	m, cmd := pressRune(t, m, 'y')
	m, _ = update(t, m, find[model.ConfirmDecision](t, drain(cmd)))

	require.Empty(t, m.Session().Transcript())
	require.Equal(t, "", m.Session().ActiveConversationID())
	require.Contains(t, m.View(), "How can I help you today?")
}

// ---------------------------------------------------------------------------
// Selecting a conversation
// ---------------------------------------------------------------------------

func TestSelect_ReplacesSession(t *testing.T) {
	loaded := []client.Message{
		{Role: client.RoleUser, Content: "Q"},
		{Role: client.RoleAssistant, Content: "A"},
	}
	r := &fakeRemote{transcripts: map[string][]client.Message{"c2": loaded}}
	m := newTestModel(t, r, nil)
	m = typeText(t, m, "draft")

	m, cmd := update(t, m, model.SidebarSelect{ID: "c2"})
	m, _ = update(t, m, find[msg.TranscriptLoaded](t, drain(cmd)))

	require.Equal(t, "c2", m.Session().ActiveConversationID())
	require.Equal(t, loaded, m.Session().Transcript())
	require.False(t, m.Session().PendingSend())
	require.Equal(t, "draft", m.input.Value())
	require.True(t, m.input.Focused())
}

func TestSelect_ClosesNewChatDialog(t *testing.T) {
	loaded := []client.Message{{Role: client.RoleUser, Content: "Q"}}
	r := &fakeRemote{
		reply:       client.Reply{Content: "Hi", ConversationID: "c1"},
		transcripts: map[string][]client.Message{"c2": loaded},
	}
	m := newTestModel(t, r, nil)
	m, turn := sendPrompt(t, m, "Hello")
	m, _ = update(t, m, turn)

	m, cmd := update(t, m, model.SidebarSelect{ID: "c2"})
	m, _ = press(t, m, tea.KeyCtrlN)
	require.Equal(t, FocusDialog, m.focus)

	m, _ = update(t, m, find[msg.TranscriptLoaded](t, drain(cmd)))

	require.False(t, m.confirm.IsActive())
	require.False(t, m.Session().AwaitingConfirmation())
	require.Equal(t, FocusInput, m.focus)
	require.Equal(t, loaded, m.Session().Transcript())
	require.NotContains(t, m.View(), "Yes, Start New")
}

func TestSelect_FailureLeavesSession(t *testing.T) {
	r := &fakeRemote{
		reply:   client.Reply{Content: "Hi", ConversationID: "c1"},
		loadErr: errors.New("gone"),
	}
	m := newTestModel(t, r, nil)
	m, turn := sendPrompt(t, m, "Hello")
	m, _ = update(t, m, turn)
	before := m.Session().State()

	m, cmd := update(t, m, model.SidebarSelect{ID: "c2"})
	m, _ = update(t, m, find[msg.TranscriptLoaded](t, drain(cmd)))

	require.Equal(t, before, m.Session().State())
	require.Contains(t, m.View(), "Could not open that conversation")
}

func TestSelect_DropsReplyForReplacedSession(t *testing.T) {
	loaded := []client.Message{{Role: client.RoleUser, Content: "old"}}
	r := &fakeRemote{
		reply:       client.Reply{Content: "late", ConversationID: "c1"},
		transcripts: map[string][]client.Message{"c2": loaded},
	}
	m := newTestModel(t, r, nil)

	m, turn := sendPrompt(t, m, "Hello")
	m, cmd := update(t, m, model.SidebarSelect{ID: "c2"})
	m, _ = update(t, m, find[msg.TranscriptLoaded](t, drain(cmd)))
	m, cmd = update(t, m, turn)

	require.Nil(t, cmd)
	require.Equal(t, "c2", m.Session().ActiveConversationID())
	require.Equal(t, loaded, m.Session().Transcript())
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

func withCode(t *testing.T, c *fakeCopier) Model {
	t.Helper()
	r := &fakeRemote{transcripts: map[string][]client.Message{"c1": {
		{Role: client.RoleUser, Content: "code please"},
		{Role: client.RoleAssistant, Content: "```go\nfmt.Println(1)\n```\n\n```sh\nls -la\n```"},
	}}}
	m := newTestModel(t, r, c)
	m, cmd := update(t, m, model.SidebarSelect{ID: "c1"})
	m, _ = update(t, m, find[msg.TranscriptLoaded](t, drain(cmd)))
	return m
}

func TestCopyCommand_DefaultsToLastBlock(t *testing.T) {
	c := &fakeCopier{}
	m := withCode(t, c)

	m = typeText(t, m, "/copy")
	m, cmd := press(t, m, tea.KeyEnter)
	res := find[msg.CopyResult](t, drain(cmd))
	require.Equal(t, 2, res.Block)
	require.NoError(t, res.Err)
	require.Equal(t, []string{"ls -la"}, c.copied)

	m, _ = update(t, m, res)
	require.Contains(t, m.View(), "Copied code block 2")
	require.Len(t, m.Session().Transcript(), 2)
}

func TestCopyCommand_ByNumber(t *testing.T) {
	c := &fakeCopier{}
	m := withCode(t, c)

	m = typeText(t, m, "/copy 1")
	_, cmd := press(t, m, tea.KeyEnter)
	find[msg.CopyResult](t, drain(cmd))

	require.Equal(t, []string{"fmt.Println(1)"}, c.copied)
}

func TestCopyCommand_UnknownBlock(t *testing.T) {
	c := &fakeCopier{}
	m := withCode(t, c)

	m = typeText(t, m, "/copy 7")
	m, _ = press(t, m, tea.KeyEnter)

	require.Empty(t, c.copied)
	require.Contains(t, m.View(), "No code block 7")
}

func TestCopyCommand_FailureToast(t *testing.T) {
	c := &fakeCopier{err: errors.New("no clipboard")}
	m := withCode(t, c)

	m = typeText(t, m, "/copy")
	m, cmd := press(t, m, tea.KeyEnter)
	m, _ = update(t, m, find[msg.CopyResult](t, drain(cmd)))

	require.Contains(t, m.View(), "Could not copy code block 2")
}

func TestUnknownSlashCommandIsSent(t *testing.T) {
	r := &fakeRemote{reply: client.Reply{Content: "ok", ConversationID: "c1"}}
	m := newTestModel(t, r, nil)

	_, _ = sendPrompt(t, m, "/etc/hosts is what file?")
	require.Equal(t, "/etc/hosts is what file?", r.sent[0][0].Content)
}

func TestHelpCommand(t *testing.T) {
	m := newTestModel(t, &fakeRemote{}, nil)
	m = typeText(t, m, "/help")
	m, _ = press(t, m, tea.KeyEnter)

	view := m.View()
	require.Contains(t, view, "Commands")
	require.Contains(t, view, "/copy [n]")
	require.Contains(t, view, "ctrl+n")

	m, _ = pressRune(t, m, 'x')
	require.False(t, strings.Contains(m.View(), "/copy [n]"))
}

func TestSidebarCommandToggles(t *testing.T) {
	m := newTestModel(t, &fakeRemote{}, nil)
	require.True(t, m.sidebarOpen)

	m = typeText(t, m, "/sidebar")
	m, _ = press(t, m, tea.KeyEnter)
	require.False(t, m.sidebarOpen)
	require.Greater(t, m.mainWidth(), 100)
}

// ---------------------------------------------------------------------------
// Quit
// ---------------------------------------------------------------------------

func TestQuit_NeedsSecondCtrlC(t *testing.T) {
	m := newTestModel(t, &fakeRemote{}, nil)

	m, cmd := press(t, m, tea.KeyCtrlC)
	require.Nil(t, cmd)
	require.Contains(t, m.View(), "Press Ctrl+C again")

	_, cmd = press(t, m, tea.KeyCtrlC)
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestQuit_CtrlCClearsDraftFirst(t *testing.T) {
	m := newTestModel(t, &fakeRemote{}, nil)
	m = typeText(t, m, "draft")

	m, cmd := press(t, m, tea.KeyCtrlC)
	require.Nil(t, cmd)
	require.Empty(t, m.input.Value())
	require.False(t, m.confirmQuit)
}
