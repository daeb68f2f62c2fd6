package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Session is one conversation between a user and the assistant. The backend
// assigns IDs and timestamps; a session with a zero ID is a local draft that
// has not been persisted yet.
type Session struct {
	ID           uuid.UUID `json:"id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	Model        string    `json:"model,omitempty"`
	Summary      string    `json:"summary,omitempty"` // Last-exchange preview for list views
	MessageCount int       `json:"message_count,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Draft reports whether the session exists only locally.
func (s Session) Draft() bool {
	return s.ID == uuid.Nil
}

// DisplayTitle returns the session title, or a placeholder when the user
// never named it.
func (s Session) DisplayTitle() string {
	if strings.TrimSpace(s.Title) == "" {
		return "untitled session"
	}
	return s.Title
}

// Models the backend can run a session on.
var Models = []string{
	"gpt-4o",
	"gpt-4o-mini",
	"claude-sonnet-4",
	"claude-opus-4",
	"llama-3-70b",
}

// DefaultModel seeds new sessions when the user has no saved preference.
const DefaultModel = "gpt-4o"

var validModelSet = func() map[string]bool {
	m := make(map[string]bool, len(Models))
	for _, name := range Models {
		m[name] = true
	}
	return m
}()

// ValidModel returns true if the given model is a known session model.
func ValidModel(model string) bool {
	return validModelSet[model]
}
