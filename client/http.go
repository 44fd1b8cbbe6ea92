package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/miosa/osa-chat/logger"
)

// Client talks to the chat backend. Each operation makes exactly one attempt.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New returns a Client for baseURL. The HTTP client keeps the transport's
// default timeouts.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
	}
}

// ListConversations returns the summaries from GET /conversations.
func (c *Client) ListConversations(ctx context.Context) ([]ConversationSummary, error) {
	const op = "list conversations"
	log, reqID := logger.NewRequestLogger()

	resp, err := c.get(ctx, "/conversations", reqID)
	if err != nil {
		return nil, c.fail(log, op, 0, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail(log, op, resp.StatusCode, c.parseError(resp))
	}

	var payload []summaryPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, c.fail(log, op, resp.StatusCode, fmt.Errorf("%w: decode conversations: %v", ErrMalformedBody, err))
	}

	out := make([]ConversationSummary, 0, len(payload))
	for _, p := range payload {
		if p.ID == "" {
			return nil, c.fail(log, op, resp.StatusCode, fmt.Errorf("%w: conversation without id", ErrMalformedBody))
		}
		s := ConversationSummary{ID: string(p.ID), Title: p.Title}
		if p.UpdatedAt != nil && *p.UpdatedAt != "" {
			if ts, ok := parseTimestamp(*p.UpdatedAt); ok {
				s.UpdatedAt = &ts
			} else {
				log.Debug("ignoring unparseable updated_at", "conversation", s.ID, "value", *p.UpdatedAt)
			}
		}
		out = append(out, s)
	}
	log.Debug("listed conversations", "count", len(out))
	return out, nil
}

// LoadTranscript returns the messages of conversation id.
func (c *Client) LoadTranscript(ctx context.Context, id string) ([]Message, error) {
	const op = "load transcript"
	log, reqID := logger.NewRequestLogger()
	log = log.With("conversation", id)

	if strings.TrimSpace(id) == "" {
		return nil, c.fail(log, op, 0, fmt.Errorf("%w: empty conversation id", ErrInvalidInput))
	}

	resp, err := c.get(ctx, "/conversation/"+url.PathEscape(id)+"/messages", reqID)
	if err != nil {
		return nil, c.fail(log, op, 0, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail(log, op, resp.StatusCode, c.parseError(resp))
	}

	var msgs []Message
	if err := json.NewDecoder(resp.Body).Decode(&msgs); err != nil {
		return nil, c.fail(log, op, resp.StatusCode, fmt.Errorf("%w: decode messages: %v", ErrMalformedBody, err))
	}
	for i, m := range msgs {
		if !m.Role.Valid() {
			return nil, c.fail(log, op, resp.StatusCode, fmt.Errorf("%w: message %d has role %q", ErrMalformedBody, i, m.Role))
		}
	}
	if msgs == nil {
		msgs = []Message{}
	}
	log.Debug("loaded transcript", "messages", len(msgs))
	return msgs, nil
}

// SendTurn posts the whole transcript and returns the assistant reply.
// An empty conversationID is sent as null so the server starts a new
// conversation. The server's conversation_id is authoritative.
func (c *Client) SendTurn(ctx context.Context, transcript []Message, conversationID string) (Reply, error) {
	const op = "send turn"
	log, reqID := logger.NewRequestLogger()

	if len(transcript) == 0 {
		return Reply{}, c.fail(log, op, 0, fmt.Errorf("%w: empty transcript", ErrInvalidInput))
	}
	for i, m := range transcript {
		if !m.Role.Valid() {
			return Reply{}, c.fail(log, op, 0, fmt.Errorf("%w: message %d has role %q", ErrInvalidInput, i, m.Role))
		}
	}

	body := ChatRequest{Messages: transcript}
	if conversationID != "" {
		id := conversationID
		body.ConversationID = &id
	}

	resp, err := c.postJSON(ctx, "/chat", body, reqID)
	if err != nil {
		return Reply{}, c.fail(log, op, 0, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Reply{}, c.fail(log, op, resp.StatusCode, c.parseError(resp))
	}

	var result ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Reply{}, c.fail(log, op, resp.StatusCode, fmt.Errorf("%w: decode chat: %v", ErrMalformedBody, err))
	}
	if result.ConversationID == "" {
		return Reply{}, c.fail(log, op, resp.StatusCode, fmt.Errorf("%w: missing conversation_id", ErrMalformedBody))
	}
	log.Debug("turn sent", "conversation", string(result.ConversationID), "messages", len(transcript))
	return Reply{Content: result.Response, ConversationID: string(result.ConversationID)}, nil
}

func (c *Client) get(ctx context.Context, path, reqID string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, reqID)
	return c.HTTPClient.Do(req)
}

func (c *Client) postJSON(ctx context.Context, path string, body any, reqID string) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req, reqID)
	return c.HTTPClient.Do(req)
}

func (c *Client) setHeaders(req *http.Request, reqID string) {
	req.Header.Set("Accept", "application/json")
	if reqID != "" {
		req.Header.Set("X-Request-ID", reqID)
	}
}

func (c *Client) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var apiErr ErrorResponse
	if json.Unmarshal(body, &apiErr) == nil {
		if apiErr.Error != "" {
			if apiErr.Details != "" {
				return fmt.Errorf("%s: %s", apiErr.Error, apiErr.Details)
			}
			return fmt.Errorf("%s", apiErr.Error)
		}
		if len(apiErr.Detail) > 0 {
			var detail string
			if json.Unmarshal(apiErr.Detail, &detail) == nil {
				return fmt.Errorf("%s", detail)
			}
			return fmt.Errorf("%s", string(apiErr.Detail))
		}
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return fmt.Errorf("%s", text)
}

func (c *Client) fail(log *slog.Logger, op string, status int, err error) error {
	log.Warn(op+" failed", "status", status, "error", err)
	return remoteErr(op, status, err)
}
