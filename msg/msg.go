// Package msg defines the tea.Msg types that carry backend results back
// into the update loop. It imports only leaf packages (client, session,
// tokenizer) to avoid import cycles with app and model.
package msg

import (
	"github.com/miosa/osa-chat/client"
	"github.com/miosa/osa-chat/session"
	"github.com/miosa/osa-chat/tokenizer"
)

// -- Backend results --

// ConversationsLoaded from GET /conversations. Refresh is set for the
// best-effort reload that follows a successful send.
type ConversationsLoaded struct {
	Conversations []client.ConversationSummary
	Refresh       bool
	Err           error
}

// TranscriptLoaded from GET /conversation/{id}/messages.
type TranscriptLoaded struct {
	ConversationID string
	Messages       []client.Message
	Err            error
}

// TurnResult from POST /chat.
type TurnResult struct {
	Turn  session.Turn
	Reply client.Reply
	Err   error
}

// -- Startup --

// TokenizerReady when the token encoding has loaded (or failed to).
type TokenizerReady struct {
	Counter *tokenizer.Counter
	Err     error
}

// -- UI events --

// TickMsg for periodic timer updates.
type TickMsg struct{}

// CopyResult after a code block was put on the clipboard.
type CopyResult struct {
	Block int
	Err   error
}
