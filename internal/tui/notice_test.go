package tui

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/NexAgentsAI/NexAgents/pkg/client"
)

func TestNotifyReturnsNoticeMsg(t *testing.T) {
	cmd := notify("saved")
	msg, ok := cmd().(noticeMsg)
	if !ok {
		t.Fatalf("notify cmd returned %T, want noticeMsg", cmd())
	}
	if msg.text != "saved" {
		t.Errorf("text = %q, want %q", msg.text, "saved")
	}
}

func TestErrText(t *testing.T) {
	wrap := func(code int, msg string) error {
		return fmt.Errorf("client.ListSessions: %w", &client.APIError{StatusCode: code, Message: msg})
	}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"auth", wrap(http.StatusUnauthorized, "bad token"), "not authorized"},
		{"not found", wrap(http.StatusNotFound, "missing"), "not found"},
		{"validation with message", wrap(http.StatusUnprocessableEntity, "title too long"), "title too long"},
		{"network", fmt.Errorf("do request: %w", &url.Error{Op: "Get", URL: "http://x", Err: errors.New("refused")}), "network error"},
		{"other with message", wrap(http.StatusInternalServerError, "exploded"), "exploded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errText("load sessions", tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("errText() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("errText() = %q, want it to contain %q", got, tt.want)
			}
			if !strings.HasPrefix(got, "load sessions: ") {
				t.Errorf("errText() = %q, want the operation prefix", got)
			}
		})
	}
}
