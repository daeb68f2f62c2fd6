package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/NexAgentsAI/NexAgents/pkg/domain"
)

// CreateSessionRequest is the payload for creating a new session. Both
// fields are optional; the backend defaults a blank title and model.
type CreateSessionRequest struct {
	Title string `json:"title,omitempty"`
	Model string `json:"model,omitempty"`
}

// envelope is the response wrapper every backend endpoint uses. Status is
// true on success with the payload in Data, false on failure with a
// human-readable Message.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client is the NexAgents API client. All session operations are keyed by
// user: a non-empty userID is required and sent as the user_id query
// parameter.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Session methods ---

// ListSessions returns all of the user's sessions, most recently updated
// first (backend order).
func (c *Client) ListSessions(ctx context.Context, userID string) ([]domain.Session, error) {
	if userID == "" {
		return nil, fmt.Errorf("client.ListSessions: %w", ErrUserRequired)
	}
	params := url.Values{}
	params.Set("user_id", userID)

	var sessions []domain.Session
	if err := c.get(ctx, "/api/sessions?"+params.Encode(), &sessions); err != nil {
		return nil, fmt.Errorf("client.ListSessions: %w", err)
	}
	return sessions, nil
}

// GetSession fetches a single session by ID. The backend record is the
// source of truth; callers re-fetch on selection rather than trusting list
// rows.
func (c *Client) GetSession(ctx context.Context, userID string, id uuid.UUID) (*domain.Session, error) {
	if userID == "" {
		return nil, fmt.Errorf("client.GetSession: %w", ErrUserRequired)
	}
	params := url.Values{}
	params.Set("user_id", userID)

	var s domain.Session
	if err := c.get(ctx, "/api/sessions/"+url.PathEscape(id.String())+"?"+params.Encode(), &s); err != nil {
		return nil, fmt.Errorf("client.GetSession: %w", err)
	}
	return &s, nil
}

// CreateSession creates a new session and returns the canonical record with
// server-assigned ID and timestamps.
func (c *Client) CreateSession(ctx context.Context, userID string, req CreateSessionRequest) (*domain.Session, error) {
	if userID == "" {
		return nil, fmt.Errorf("client.CreateSession: %w", ErrUserRequired)
	}
	params := url.Values{}
	params.Set("user_id", userID)

	var created domain.Session
	if err := c.post(ctx, "/api/sessions?"+params.Encode(), req, &created); err != nil {
		return nil, fmt.Errorf("client.CreateSession: %w", err)
	}
	return &created, nil
}

// UpdateSession sends the full modified record and returns the canonical
// updated record.
func (c *Client) UpdateSession(ctx context.Context, userID string, s domain.Session) (*domain.Session, error) {
	if userID == "" {
		return nil, fmt.Errorf("client.UpdateSession: %w", ErrUserRequired)
	}
	params := url.Values{}
	params.Set("user_id", userID)

	var updated domain.Session
	if err := c.doRequest(ctx, http.MethodPut, "/api/sessions/"+url.PathEscape(s.ID.String())+"?"+params.Encode(), s, &updated); err != nil {
		return nil, fmt.Errorf("client.UpdateSession: %w", err)
	}
	return &updated, nil
}

// DeleteSession deletes a session by ID.
func (c *Client) DeleteSession(ctx context.Context, userID string, id uuid.UUID) error {
	if userID == "" {
		return fmt.Errorf("client.DeleteSession: %w", ErrUserRequired)
	}
	params := url.Values{}
	params.Set("user_id", userID)

	if err := c.doRequest(ctx, http.MethodDelete, "/api/sessions/"+url.PathEscape(id.String())+"?"+params.Encode(), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteSession: %w", err)
	}
	return nil
}

// --- Message methods ---

// ListMessages returns a page of the session's transcript, oldest first.
func (c *Client) ListMessages(ctx context.Context, userID string, sessionID uuid.UUID, limit, offset int) ([]domain.Message, error) {
	if userID == "" {
		return nil, fmt.Errorf("client.ListMessages: %w", ErrUserRequired)
	}
	params := url.Values{}
	params.Set("user_id", userID)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	var msgs []domain.Message
	if err := c.get(ctx, "/api/sessions/"+url.PathEscape(sessionID.String())+"/messages?"+params.Encode(), &msgs); err != nil {
		return nil, fmt.Errorf("client.ListMessages: %w", err)
	}
	return msgs, nil
}

// SendMessage posts a user message to a session and returns the assistant's
// reply.
func (c *Client) SendMessage(ctx context.Context, userID string, sessionID uuid.UUID, body string) (*domain.Message, error) {
	if userID == "" {
		return nil, fmt.Errorf("client.SendMessage: %w", ErrUserRequired)
	}
	params := url.Values{}
	params.Set("user_id", userID)

	var reply domain.Message
	if err := c.post(ctx, "/api/sessions/"+url.PathEscape(sessionID.String())+"/messages?"+params.Encode(), map[string]string{"body": body}, &reply); err != nil {
		return nil, fmt.Errorf("client.SendMessage: %w", err)
	}
	return &reply, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max body
	if err != nil {
		if resp.StatusCode >= 400 {
			return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", err)}
		}
		return fmt.Errorf("read body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		if resp.StatusCode >= 400 {
			return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
		}
		return fmt.Errorf("decode response: %w", err)
	}

	// The backend reports logical failures with status=false even on 200s.
	if resp.StatusCode >= 400 || !env.Status {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}
