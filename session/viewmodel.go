// Package session holds the chat session state machine: the active
// conversation, its transcript and the in-flight send guard.
//
// The ViewModel is owned by a single goroutine (the UI update loop).
// Network work happens elsewhere; results are fed back through
// CompleteSend and ApplyTranscript.
package session

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/miosa/osa-chat/client"
)

const (
	// Pending is the content of the placeholder assistant message shown
	// while a send is in flight.
	Pending = client.PendingContent
	// FailureNotice replaces the placeholder when a send fails.
	FailureNotice = "Failed to send message. Please try again."
)

// Remote is the subset of the backend a session needs.
type Remote interface {
	ListConversations(ctx context.Context) ([]client.ConversationSummary, error)
	LoadTranscript(ctx context.Context, id string) ([]client.Message, error)
	SendTurn(ctx context.Context, transcript []client.Message, conversationID string) (client.Reply, error)
}

// State is a snapshot of the session.
type State struct {
	// ActiveConversationID is empty when no conversation is active.
	ActiveConversationID string
	Transcript           []client.Message
	PendingSend          bool
}

// Turn is a send that has been started but not yet resolved.
type Turn struct {
	// Messages is the transcript to post, without the placeholder.
	Messages       []client.Message
	ConversationID string
	epoch          uint64
}

// NewChatResult reports what StartNewChat did.
type NewChatResult int

const (
	NewChatCleared NewChatResult = iota
	NewChatNeedsConfirmation
)

// Outcome reports what a send did to the session.
type Outcome int

const (
	// OutcomeIgnored: the send was a no-op (blank text or already pending).
	OutcomeIgnored Outcome = iota
	// OutcomeResolved: the reply was appended. Refresh the conversation list.
	OutcomeResolved
	// OutcomeFailed: the failure notice was appended.
	OutcomeFailed
	// OutcomeStale: the session was reset or replaced while the send was in flight.
	OutcomeStale
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeResolved:
		return "resolved"
	case OutcomeFailed:
		return "failed"
	case OutcomeStale:
		return "stale"
	default:
		return "unknown"
	}
}

// ViewModel is the chat session state machine.
type ViewModel struct {
	state      State
	confirming bool
	// epoch changes on every wholesale reset or replace of the state.
	epoch uint64
	log   *slog.Logger
}

// New returns an empty session. A nil logger uses slog.Default().
func New(log *slog.Logger) *ViewModel {
	if log == nil {
		log = slog.Default()
	}
	return &ViewModel{log: log.With("component", "session")}
}

// State returns a copy of the current state.
func (vm *ViewModel) State() State {
	return State{
		ActiveConversationID: vm.state.ActiveConversationID,
		Transcript:           slices.Clone(vm.state.Transcript),
		PendingSend:          vm.state.PendingSend,
	}
}

// Transcript returns a copy of the transcript.
func (vm *ViewModel) Transcript() []client.Message {
	return slices.Clone(vm.state.Transcript)
}

func (vm *ViewModel) ActiveConversationID() string { return vm.state.ActiveConversationID }
func (vm *ViewModel) PendingSend() bool             { return vm.state.PendingSend }

// AwaitingConfirmation reports whether a new chat is waiting on the user.
func (vm *ViewModel) AwaitingConfirmation() bool { return vm.confirming }

// StartNewChat clears an empty session at once. A non-empty transcript is
// left untouched and the session waits for ConfirmNewChat or CancelNewChat.
func (vm *ViewModel) StartNewChat() NewChatResult {
	if len(vm.state.Transcript) == 0 {
		vm.reset()
		return NewChatCleared
	}
	vm.confirming = true
	return NewChatNeedsConfirmation
}

// ConfirmNewChat discards the current session.
func (vm *ViewModel) ConfirmNewChat() {
	vm.log.Debug("new chat confirmed", "discarded", len(vm.state.Transcript))
	vm.reset()
}

// CancelNewChat abandons a pending new chat request.
func (vm *ViewModel) CancelNewChat() {
	vm.confirming = false
}

// ApplyTranscript replaces the whole session with a loaded conversation.
func (vm *ViewModel) ApplyTranscript(id string, msgs []client.Message) {
	vm.epoch++
	vm.confirming = false
	vm.state = State{
		ActiveConversationID: id,
		Transcript:           slices.Clone(msgs),
	}
}

// BeginSend appends the user message and the placeholder, and returns the
// turn to post. It returns false without touching state when text is blank,
// a send is already pending, or a new chat is awaiting confirmation.
func (vm *ViewModel) BeginSend(text string) (Turn, bool) {
	text = strings.TrimSpace(text)
	if text == "" || vm.state.PendingSend || vm.confirming {
		return Turn{}, false
	}

	vm.state.Transcript = append(vm.state.Transcript, client.Message{Role: client.RoleUser, Content: text})
	turn := Turn{
		Messages:       slices.Clone(vm.state.Transcript),
		ConversationID: vm.state.ActiveConversationID,
		epoch:          vm.epoch,
	}
	vm.state.Transcript = append(vm.state.Transcript, client.Message{Role: client.RoleAssistant, Content: Pending})
	vm.state.PendingSend = true
	return turn, true
}

// CompleteSend resolves turn with the reply or error from the backend.
func (vm *ViewModel) CompleteSend(turn Turn, reply client.Reply, err error) Outcome {
	if turn.epoch != vm.epoch || !vm.state.PendingSend {
		vm.log.Info("dropping reply for replaced session", "conversation", turn.ConversationID, "error", err)
		return OutcomeStale
	}

	vm.state.Transcript = vm.state.Transcript[:len(vm.state.Transcript)-1]
	vm.state.PendingSend = false

	if err != nil {
		vm.log.Warn("send failed", "conversation", turn.ConversationID, "error", err)
		vm.state.Transcript = append(vm.state.Transcript, client.Message{Role: client.RoleAssistant, Content: FailureNotice})
		return OutcomeFailed
	}

	vm.state.Transcript = append(vm.state.Transcript, client.Message{Role: client.RoleAssistant, Content: reply.Content})
	vm.state.ActiveConversationID = reply.ConversationID
	return OutcomeResolved
}

// Send runs a whole turn synchronously against r.
func (vm *ViewModel) Send(ctx context.Context, r Remote, text string) Outcome {
	turn, ok := vm.BeginSend(text)
	if !ok {
		return OutcomeIgnored
	}
	reply, err := r.SendTurn(ctx, turn.Messages, turn.ConversationID)
	return vm.CompleteSend(turn, reply, err)
}

// Select loads conversation id from r and makes it active. On error the
// session is left unchanged.
func (vm *ViewModel) Select(ctx context.Context, r Remote, id string) error {
	msgs, err := r.LoadTranscript(ctx, id)
	if err != nil {
		vm.log.Warn("load transcript failed", "conversation", id, "error", err)
		return err
	}
	vm.ApplyTranscript(id, msgs)
	return nil
}

// IsPlaceholder reports whether m is the in-flight placeholder.
func IsPlaceholder(m client.Message) bool {
	return m.Role == client.RoleAssistant && m.Content == Pending
}

func (vm *ViewModel) reset() {
	vm.epoch++
	vm.confirming = false
	vm.state = State{}
}
