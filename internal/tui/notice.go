package tui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/NexAgentsAI/NexAgents/pkg/client"
)

// noticeTTL is how long a notice stays on screen.
const noticeTTL = 4 * time.Second

// noticeMsg sets the app-level notice line. Any model can surface one by
// returning notify(...) as a command.
type noticeMsg struct {
	text string
}

// noticeExpireMsg clears the notice when its generation still matches.
type noticeExpireMsg struct {
	seq int
}

// notify returns a command that puts text on the transient notice line.
func notify(text string) tea.Cmd {
	return func() tea.Msg {
		return noticeMsg{text: text}
	}
}

// apiMessage extracts the backend's human-readable message, if any.
func apiMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return ""
}

// errText turns a client error into short wording for the notice line.
func errText(op string, err error) string {
	switch {
	case err == nil:
		return ""
	case client.IsAuth(err):
		return op + ": not authorized, check NEXAGENTS_USER and NEXAGENTS_TOKEN"
	case client.IsNotFound(err):
		return op + ": not found on the server"
	case client.IsValidation(err):
		if msg := apiMessage(err); msg != "" {
			return op + ": " + msg
		}
		return op + ": rejected by the server"
	case client.IsNetwork(err):
		return op + ": network error, is the backend reachable?"
	default:
		if msg := apiMessage(err); msg != "" {
			return op + ": " + msg
		}
		return op + ": " + err.Error()
	}
}
