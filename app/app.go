package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/miosa/osa-chat/client"
	"github.com/miosa/osa-chat/clipboard"
	"github.com/miosa/osa-chat/model"
	"github.com/miosa/osa-chat/msg"
	"github.com/miosa/osa-chat/session"
	"github.com/miosa/osa-chat/style"
	"github.com/miosa/osa-chat/tokenizer"
)

// Options configures the shell.
type Options struct {
	Endpoint string
	Version  string
	// WordWrap caps the prose width of messages.
	WordWrap int
	// Sidebar shows the conversation list at start.
	Sidebar bool
	Copier  clipboard.Copier
	// LoadTokenizer runs once at start, off the update loop. Nil means
	// token counts are estimated.
	LoadTokenizer func() (*tokenizer.Counter, error)
	Log           *slog.Logger
}

// Model is the root tea.Model. It owns the session view-model and the
// UI-only flags around it.
type Model struct {
	banner  model.BannerModel
	chat    model.ChatModel
	input   model.InputModel
	sidebar model.SidebarModel
	confirm model.ConfirmModel
	toasts  model.ToastsModel
	status  model.StatusModel

	vm      *session.ViewModel
	remote  session.Remote
	copier  clipboard.Copier
	counter *tokenizer.Counter
	loadTok func() (*tokenizer.Counter, error)
	ctx     context.Context
	log     *slog.Logger

	keys          KeyMap
	focus         Focus
	sidebarOpen   bool
	conversations []client.ConversationSummary
	showHelp      bool
	confirmQuit   bool
	ticking       bool

	width, height int
	chatW, chatH  int
}

// New builds the shell around remote.
func New(remote session.Remote, opts Options) Model {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	copier := opts.Copier
	if copier == nil {
		copier = clipboard.System{}
	}
	m := Model{
		banner:      model.NewBanner(opts.Endpoint, opts.Version),
		chat:        model.NewChat(80, 20, opts.WordWrap),
		input:       model.NewInput(),
		sidebar:     model.NewSidebar(),
		confirm:     model.NewConfirm(),
		toasts:      model.NewToasts(),
		status:      model.NewStatus(),
		vm:          session.New(log),
		remote:      remote,
		copier:      copier,
		loadTok:     opts.LoadTokenizer,
		ctx:         context.Background(),
		log:         log.With("component", "app"),
		keys:        DefaultKeyMap(),
		focus:       FocusInput,
		sidebarOpen: opts.Sidebar,
		width:       80,
		height:      24,
	}
	m.input.Focus()
	m.sidebar.SetLoading(true)
	m.status.SetHint("/help")
	return m
}

// Session exposes the view-model, mainly for tests.
func (m Model) Session() *session.ViewModel {
	return m.vm
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.listConversations(false), textinput.Blink, tea.WindowSize()}
	if m.loadTok != nil {
		cmds = append(cmds, m.loadTokenizer())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(rawMsg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch v := rawMsg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
	case tea.KeyMsg:
		m, cmd = m.handleKey(v)
	case tea.MouseMsg:
		var next tea.Model
		next, cmd = m.chat.Update(v)
		m.chat = next.(model.ChatModel)

	case msg.ConversationsLoaded:
		m = m.handleConversations(v)
	case msg.TranscriptLoaded:
		m, cmd = m.handleTranscript(v)
	case msg.TurnResult:
		m, cmd = m.handleTurn(v)
	case msg.TokenizerReady:
		if v.Err != nil {
			m.log.Warn("tokenizer unavailable, estimating token counts", "error", v.Err)
		} else {
			m.counter = v.Counter
			m.syncSession()
		}
	case msg.CopyResult:
		m, cmd = m.handleCopy(v)
	case msg.TickMsg:
		m.toasts.Tick()
		m.ticking = m.toasts.HasToasts()
		if m.ticking {
			cmd = tickCmd()
		}

	case model.SidebarSelect:
		m, cmd = m.selectConversation(v.ID)
	case model.SidebarNewChat:
		m, cmd = m.startNewChat()
	case model.SidebarBlur:
		cmd = m.focusInput()
	case model.ConfirmDecision:
		m, cmd = m.handleConfirm(v)

	case spinner.TickMsg:
		var next tea.Model
		next, cmd = m.status.Update(v)
		m.status = next.(model.StatusModel)

	default:
		next, c := m.input.Update(rawMsg)
		m.input = next.(model.InputModel)
		cmd = c
	}
	m.layout()
	return m, cmd
}

func (m Model) View() string {
	main := []string{m.chat.View()}
	if m.showHelp {
		main = append(main, m.helpView())
	}
	if m.toasts.HasToasts() {
		main = append(main, m.toasts.View(m.mainWidth()))
	}
	main = append(main, m.status.View())
	if m.confirm.IsActive() {
		main = append(main, m.confirm.View())
	} else {
		main = append(main, m.input.View())
	}
	if m.confirmQuit {
		main = append(main, style.Faint.Render("  Press Ctrl+C again to quit, or any key to cancel."))
	}
	body := strings.Join(main, "\n")

	if m.sidebarOpen {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), " "+strings.ReplaceAll(body, "\n", "\n "))
	}
	return m.banner.View() + "\n" + body
}

// -- Keys --

func (m Model) handleKey(k tea.KeyMsg) (Model, tea.Cmd) {
	if m.confirmQuit {
		if key.Matches(k, m.keys.Quit) {
			return m, tea.Quit
		}
		m.confirmQuit = false
		return m, nil
	}
	m.showHelp = false

	if m.focus == FocusDialog {
		next, cmd := m.confirm.Update(k)
		m.confirm = next.(model.ConfirmModel)
		return m, cmd
	}

	switch {
	case key.Matches(k, m.keys.Quit):
		if m.focus == FocusInput && m.input.Value() != "" {
			m.input.Submit("")
			return m, nil
		}
		m.confirmQuit = true
		return m, nil
	case key.Matches(k, m.keys.QuitEOF):
		if m.input.Value() == "" {
			return m, tea.Quit
		}
	case key.Matches(k, m.keys.NewChat):
		return m.startNewChat()
	case key.Matches(k, m.keys.ToggleSidebar):
		m.sidebarOpen = !m.sidebarOpen
		if !m.sidebarOpen && m.focus == FocusSidebar {
			return m, m.focusInput()
		}
		return m, nil
	case key.Matches(k, m.keys.CollapseSidebar):
		if !m.sidebarOpen {
			m.sidebarOpen = true
			m.sidebar.SetCollapsed(false)
			return m, nil
		}
		m.sidebar.SetCollapsed(!m.sidebar.Collapsed())
		if m.sidebar.Collapsed() && m.focus == FocusSidebar {
			return m, m.focusInput()
		}
		return m, nil
	case key.Matches(k, m.keys.PageUp):
		m.chat.PageUp()
		return m, nil
	case key.Matches(k, m.keys.PageDown):
		m.chat.PageDown()
		return m, nil
	}

	if m.focus == FocusSidebar {
		if key.Matches(k, m.keys.FocusSidebar) {
			return m, m.focusInput()
		}
		next, cmd := m.sidebar.Update(k)
		m.sidebar = next.(model.SidebarModel)
		return m, cmd
	}
	return m.handleInputKey(k)
}

func (m Model) handleInputKey(k tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(k, m.keys.Submit):
		return m.submit(m.input.Value())
	case key.Matches(k, m.keys.Escape):
		m.input.Submit("")
		return m, nil
	case key.Matches(k, m.keys.FocusSidebar) && !strings.HasPrefix(m.input.Value(), "/"):
		if !m.sidebarOpen || m.sidebar.Collapsed() {
			m.sidebarOpen = true
			m.sidebar.SetCollapsed(false)
		}
		m.focus = FocusSidebar
		m.input.Blur()
		m.sidebar.Focus()
		return m, nil
	}
	next, cmd := m.input.Update(k)
	m.input = next.(model.InputModel)
	return m, cmd
}

func (m *Model) focusInput() tea.Cmd {
	m.focus = FocusInput
	m.sidebar.Blur()
	return m.input.Focus()
}

// -- Flows --

func (m Model) submit(text string) (Model, tea.Cmd) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "/") {
		if m2, cmd, ok := m.runCommand(trimmed); ok {
			return m2, cmd
		}
	}

	turn, ok := m.vm.BeginSend(text)
	if !ok {
		return m, nil
	}
	m.input.Submit(trimmed)
	m.input.SetPending(true)
	m.syncSession()
	return m, tea.Batch(m.sendTurn(turn), m.status.SetPending(true))
}

func (m Model) handleTurn(r msg.TurnResult) (Model, tea.Cmd) {
	outcome := m.vm.CompleteSend(r.Turn, r.Reply, r.Err)
	m.log.Debug("turn finished", "outcome", outcome.String())
	if outcome == session.OutcomeStale {
		return m, nil
	}
	m.input.SetPending(false)
	m.status.SetPending(false)
	m.syncSession()
	if outcome == session.OutcomeResolved {
		return m, m.listConversations(true)
	}
	return m, nil
}

func (m Model) startNewChat() (Model, tea.Cmd) {
	switch m.vm.StartNewChat() {
	case session.NewChatNeedsConfirmation:
		m.focus = FocusDialog
		m.sidebar.Blur()
		m.input.Blur()
		m.confirm.Open()
		return m, nil
	default:
		m.resetPending()
		m.syncSession()
		return m, m.focusInput()
	}
}

func (m Model) handleConfirm(d model.ConfirmDecision) (Model, tea.Cmd) {
	if d.Confirmed {
		m.vm.ConfirmNewChat()
		m.resetPending()
		m.syncSession()
	} else {
		m.vm.CancelNewChat()
	}
	return m, m.focusInput()
}

func (m Model) selectConversation(id string) (Model, tea.Cmd) {
	cmd := m.focusInput()
	return m, tea.Batch(cmd, m.loadTranscript(id))
}

func (m Model) handleTranscript(r msg.TranscriptLoaded) (Model, tea.Cmd) {
	if r.Err != nil {
		m.log.Warn("load transcript failed", "conversation", r.ConversationID, "error", r.Err)
		return m, m.addToast("Could not open that conversation", model.ToastError)
	}
	m.vm.ApplyTranscript(r.ConversationID, r.Messages)
	m.resetPending()
	m.syncSession()
	if m.confirm.IsActive() {
		// The loaded conversation replaced the session the dialog asked about.
		m.confirm.Close()
		return m, m.focusInput()
	}
	return m, nil
}

func (m Model) handleConversations(r msg.ConversationsLoaded) Model {
	m.sidebar.SetLoading(false)
	if r.Err != nil {
		m.log.Warn("list conversations failed", "refresh", r.Refresh, "error", r.Err)
		if !r.Refresh {
			m.conversations = nil
			m.sidebar.SetConversations(nil)
		}
		return m
	}
	m.conversations = r.Conversations
	m.sidebar.SetConversations(r.Conversations)
	return m
}

func (m Model) handleCopy(r msg.CopyResult) (Model, tea.Cmd) {
	if r.Err != nil {
		m.log.Warn("copy failed", "block", r.Block, "error", r.Err)
		return m, m.addToast(fmt.Sprintf("Could not copy code block %d", r.Block), model.ToastError)
	}
	return m, m.addToast(fmt.Sprintf("Copied code block %d", r.Block), model.ToastInfo)
}

// resetPending clears the spinner and placeholder after the session was
// reset or replaced under an in-flight send.
func (m *Model) resetPending() {
	m.input.SetPending(false)
	m.status.SetPending(false)
}

// syncSession pushes view-model state into the widgets.
func (m *Model) syncSession() {
	st := m.vm.State()
	m.chat.SetMessages(st.Transcript)
	m.sidebar.SetActive(st.ActiveConversationID)
	m.status.SetConversation(st.ActiveConversationID)

	settled := st.Transcript
	if st.PendingSend {
		settled = settled[:len(settled)-1]
	}
	m.status.SetCounts(len(settled), m.counter.CountMessages(settled), m.counter.Exact())
}

func (m *Model) addToast(text string, level model.ToastLevel) tea.Cmd {
	m.toasts.Add(text, level)
	if m.ticking {
		return nil
	}
	m.ticking = true
	return tickCmd()
}

// -- Layout --

func (m Model) mainWidth() int {
	w := m.width
	if m.sidebarOpen {
		w -= m.sidebar.Width() + 1
	}
	return max(w, 20)
}

func (m *Model) layout() {
	w := m.mainWidth()
	m.banner.SetWidth(m.width)
	m.input.SetWidth(w)
	m.confirm.SetWidth(w)
	m.sidebar.SetHeight(m.height - 1)

	h := m.height - 3 // banner, status, input
	if m.confirm.IsActive() {
		h -= lipgloss.Height(m.confirm.View()) - 1
	}
	if m.showHelp {
		h -= lipgloss.Height(m.helpView())
	}
	if m.toasts.HasToasts() {
		h -= lipgloss.Height(m.toasts.View(w))
	}
	if m.confirmQuit {
		h--
	}
	h = max(h, 3)

	if w != m.chatW || h != m.chatH {
		m.chatW, m.chatH = w, h
		m.chat.SetSize(w, h)
	}
}

// -- Commands --

func (m Model) listConversations(refresh bool) tea.Cmd {
	r, ctx := m.remote, m.ctx
	return func() tea.Msg {
		list, err := r.ListConversations(ctx)
		return msg.ConversationsLoaded{Conversations: list, Refresh: refresh, Err: err}
	}
}

func (m Model) loadTranscript(id string) tea.Cmd {
	r, ctx := m.remote, m.ctx
	return func() tea.Msg {
		msgs, err := r.LoadTranscript(ctx, id)
		return msg.TranscriptLoaded{ConversationID: id, Messages: msgs, Err: err}
	}
}

func (m Model) sendTurn(turn session.Turn) tea.Cmd {
	r, ctx := m.remote, m.ctx
	return func() tea.Msg {
		reply, err := r.SendTurn(ctx, turn.Messages, turn.ConversationID)
		return msg.TurnResult{Turn: turn, Reply: reply, Err: err}
	}
}

func (m Model) copyBlock(n int, code string) tea.Cmd {
	c := m.copier
	return func() tea.Msg {
		return msg.CopyResult{Block: n, Err: c.Copy(code)}
	}
}

func (m Model) loadTokenizer() tea.Cmd {
	load := m.loadTok
	return func() tea.Msg {
		c, err := load()
		return msg.TokenizerReady{Counter: c, Err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return msg.TickMsg{} })
}
