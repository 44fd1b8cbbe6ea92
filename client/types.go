package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Role of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// PendingContent is the text of the placeholder assistant message that
// stands in for a reply still in flight.
const PendingContent = "Thinking..."

// Valid reports whether r is one of the two roles the API accepts.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is one transcript entry.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ConversationSummary is a row of GET /conversations.
type ConversationSummary struct {
	ID        string
	Title     string
	UpdatedAt *time.Time
}

// Reply is the result of a successful POST /chat.
type Reply struct {
	Content        string
	ConversationID string
}

// ChatRequest is the POST /chat body. A nil ConversationID is sent as null.
type ChatRequest struct {
	Messages       []Message `json:"messages"`
	ConversationID *string   `json:"conversation_id"`
}

// ChatResponse is the POST /chat response body.
type ChatResponse struct {
	Response       string   `json:"response"`
	ConversationID opaqueID `json:"conversation_id"`
}

// ErrorResponse for API errors. FastAPI style servers send Detail.
type ErrorResponse struct {
	Error   string          `json:"error"`
	Details string          `json:"details,omitempty"`
	Detail  json.RawMessage `json:"detail,omitempty"`
}

type summaryPayload struct {
	ID        opaqueID `json:"id"`
	Title     string   `json:"title"`
	UpdatedAt *string  `json:"updated_at,omitempty"`
}

// opaqueID is an opaque id the server may encode as a string or a number.
type opaqueID string

func (c *opaqueID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = opaqueID(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("conversation id: %w", err)
		}
		*c = opaqueID(n.String())
		return nil
	}
}

// Accepted updated_at layouts. Python's isoformat() omits the zone for
// naive datetimes, those are read as local time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for i, layout := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if i == 0 {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
