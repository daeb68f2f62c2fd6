package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/NexAgentsAI/NexAgents/internal/config"
	"github.com/NexAgentsAI/NexAgents/internal/session"
	"github.com/NexAgentsAI/NexAgents/pkg/domain"
)

func newTestApp() App {
	a := NewApp(nil, session.NewStore(), Options{
		UserID:   "ana@example.com",
		Version:  "dev",
		UI:       config.UIState{SidebarOpen: true},
		Defaults: config.ChatDefaults{Model: domain.DefaultModel},
	})
	model, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return model.(App)
}

func updateApp(a App, msg tea.Msg) (App, tea.Cmd) {
	model, cmd := a.Update(msg)
	return model.(App), cmd
}

// loadApp pushes a session list through the fan-out path and delivers the
// resulting selection announce, as if the fetch had just come back.
func loadApp(a App, sessions ...domain.Session) App {
	a, _ = updateApp(a, reloadSessionsMsg{})
	a, cmd := updateApp(a, sessionsLoadedMsg{seq: a.sidebar.listSeq, sessions: sessions})
	if cmd != nil {
		a, _ = updateApp(a, cmd())
	}
	return a
}

func TestAppTabTogglesFocus(t *testing.T) {
	a := newTestApp()
	if a.focus != focusSidebarArea {
		t.Fatal("expected focus to start on the sidebar")
	}

	a, _ = updateApp(a, tea.KeyMsg{Type: tea.KeyTab})
	if a.focus != focusChatArea {
		t.Errorf("expected chat focus after tab, got %d", a.focus)
	}

	a, _ = updateApp(a, tea.KeyMsg{Type: tea.KeyTab})
	if a.focus != focusSidebarArea {
		t.Errorf("expected sidebar focus after second tab, got %d", a.focus)
	}
}

func TestAppTabReopensClosedSidebar(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	a := NewApp(nil, session.NewStore(), Options{
		UserID: "ana@example.com",
		UI:     config.UIState{SidebarOpen: false},
	})
	model, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	a = model.(App)

	a, _ = updateApp(a, tea.KeyMsg{Type: tea.KeyTab}) // sidebar -> chat
	a, cmd := updateApp(a, tea.KeyMsg{Type: tea.KeyTab})

	if !a.sidebarOpen {
		t.Error("expected tabbing back to reopen the sidebar")
	}
	if cmd == nil {
		t.Fatal("expected a save command for the reopened sidebar")
	}
	if saved, ok := cmd().(uiSavedMsg); !ok || saved.err != nil {
		t.Errorf("expected clean uiSavedMsg, got %v", cmd())
	}
	if !config.LoadUIState().SidebarOpen {
		t.Error("expected the open preference persisted")
	}
}

func TestAppBTogglesSidebarAndPersists(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	a := newTestApp()

	a, cmd := updateApp(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	if a.sidebarOpen {
		t.Error("expected sidebar closed after 'b'")
	}
	if a.focus != focusChatArea {
		t.Error("expected focus moved off the hidden sidebar")
	}
	if cmd == nil {
		t.Fatal("expected a save command")
	}
	if saved, ok := cmd().(uiSavedMsg); !ok || saved.err != nil {
		t.Errorf("expected clean uiSavedMsg, got %v", cmd())
	}
	if config.LoadUIState().SidebarOpen {
		t.Error("expected the closed preference persisted")
	}

	a, cmd = updateApp(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	if !a.sidebarOpen {
		t.Error("expected sidebar open after second 'b'")
	}
	if cmd == nil {
		t.Fatal("expected a save command")
	}
	cmd() // persist the reopen
	if !config.LoadUIState().SidebarOpen {
		t.Error("expected the open preference persisted")
	}
}

func TestAppGlobalQuitOnQ(t *testing.T) {
	a := newTestApp()
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command on 'q', got nil")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg, got %T", cmd())
	}
}

func TestAppCtrlCQuitsEvenWhileTyping(t *testing.T) {
	a := newTestApp()
	a, _ = updateApp(a, openEditorMsg{})

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command on ctrl+c, got nil")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg, got %T", cmd())
	}
}

func TestAppQNotFiredWhileFiltering(t *testing.T) {
	a := newTestApp()
	a = loadApp(a, makeTestSession("Quiet"))

	a, _ = updateApp(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	a, cmd := updateApp(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	if a.sidebar.filter != "q" {
		t.Errorf("expected 'q' typed into the filter, got %q", a.sidebar.filter)
	}
	if cmd != nil {
		if _, ok := cmd().(tea.QuitMsg); ok {
			t.Error("'q' quit the app while filtering")
		}
	}
}

func TestAppHelpOverlay(t *testing.T) {
	a := newTestApp()

	a, _ = updateApp(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	if !a.helpOpen {
		t.Fatal("expected help open after '?'")
	}

	a, _ = updateApp(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	if a.helpCursor != 1 {
		t.Errorf("expected help cursor moved, got %d", a.helpCursor)
	}

	// The overlay captures globals; 'b' must not touch the sidebar.
	a, _ = updateApp(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	if !a.sidebarOpen {
		t.Error("'b' leaked through the help overlay")
	}

	view := a.View()
	if !strings.Contains(view, "agents at your command") {
		t.Errorf("expected help content in view, got:\n%s", view)
	}

	a, _ = updateApp(a, tea.KeyMsg{Type: tea.KeyEsc})
	if a.helpOpen {
		t.Error("expected help closed after esc")
	}
}

func TestAppInfoOverlay(t *testing.T) {
	a := newTestApp()
	s := makeTestSession("Inspect me")

	a, _ = updateApp(a, openInfoMsg{session: s})
	if !a.infoOpen {
		t.Fatal("expected info overlay open")
	}
	if !strings.Contains(a.View(), "Inspect me") {
		t.Error("expected session details in view")
	}

	a, _ = updateApp(a, tea.KeyMsg{Type: tea.KeyEsc})
	if a.infoOpen {
		t.Error("expected info overlay closed after esc")
	}
}

func TestAppEditorOverlay(t *testing.T) {
	a := newTestApp()

	a, _ = updateApp(a, openEditorMsg{})
	if !a.editorOpen {
		t.Fatal("expected editor open")
	}

	// Keys route to the form, not the globals.
	a, _ = updateApp(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !a.editorOpen {
		t.Error("'q' quit or closed the editor")
	}
	if a.editor.title.Value() != "q" {
		t.Errorf("expected 'q' typed into the title, got %q", a.editor.title.Value())
	}

	a, _ = updateApp(a, tea.KeyMsg{Type: tea.KeyEsc})
	if a.editorOpen {
		t.Error("expected editor closed after esc")
	}
}

func TestAppSessionCreatedClosesEditor(t *testing.T) {
	a := newTestApp()
	a, _ = updateApp(a, openEditorMsg{})

	s := makeTestSession("Fresh")
	a, cmd := updateApp(a, sessionCreatedMsg{session: &s})

	if a.editorOpen {
		t.Error("expected editor closed after successful create")
	}
	if a.store.Len() != 1 {
		t.Errorf("expected session in the store, got %d", a.store.Len())
	}
	cur := a.store.Current()
	if cur == nil || cur.ID != s.ID {
		t.Errorf("expected new session current, got %v", cur)
	}
	if cmd == nil {
		t.Error("expected follow-up commands after create")
	}
}

func TestAppSessionCreatedSavesModelPreference(t *testing.T) {
	a := newTestApp()
	a, _ = updateApp(a, openEditorMsg{})

	s := makeTestSession("Different brain")
	s.Model = "claude-opus-4"
	a, _ = updateApp(a, sessionCreatedMsg{session: &s})

	if a.defaults.Model != "claude-opus-4" {
		t.Errorf("expected model preference updated, got %q", a.defaults.Model)
	}
}

func TestAppSessionCreatedSameModelKeepsPreference(t *testing.T) {
	a := newTestApp()
	a, _ = updateApp(a, openEditorMsg{})

	s := makeTestSession("Same brain") // makeTestSession uses the default model
	a, _ = updateApp(a, sessionCreatedMsg{session: &s})

	if a.defaults.Model != domain.DefaultModel {
		t.Errorf("expected model preference untouched, got %q", a.defaults.Model)
	}
}

func TestAppCreateFailureKeepsEditorOpen(t *testing.T) {
	a := newTestApp()
	a, _ = updateApp(a, openEditorMsg{})

	a, _ = updateApp(a, sessionCreatedMsg{err: errors.New("limit reached")})

	if !a.editorOpen {
		t.Error("expected editor kept open on failure")
	}
	if a.editor.errMsg == "" {
		t.Error("expected failure text on the form")
	}
	if a.store.Len() != 0 {
		t.Errorf("expected store untouched, got %d sessions", a.store.Len())
	}
}

func TestAppSessionUpdatedClosesEditor(t *testing.T) {
	a := newTestApp()
	s := makeTestSession("Before")
	a = loadApp(a, s)
	a, _ = updateApp(a, openEditorMsg{session: &s})

	renamed := s
	renamed.Title = "After"
	a, _ = updateApp(a, sessionUpdatedMsg{session: &renamed})

	if a.editorOpen {
		t.Error("expected editor closed after successful save")
	}
	if got := a.store.Sessions()[0].Title; got != "After" {
		t.Errorf("expected renamed row in store, got %q", got)
	}
}

func TestAppNoticeLifecycle(t *testing.T) {
	a := newTestApp()

	a, cmd := updateApp(a, noticeMsg{text: "session created"})
	if a.notice != "session created" {
		t.Errorf("expected notice set, got %q", a.notice)
	}
	if cmd == nil {
		t.Error("expected an expiry timer")
	}
	if !strings.Contains(a.View(), "session created") {
		t.Error("expected notice in view")
	}

	// An expiry for an older notice must not clear a newer one.
	stale := a.noticeSeq
	a, _ = updateApp(a, noticeMsg{text: "session deleted"})
	a, _ = updateApp(a, noticeExpireMsg{seq: stale})
	if a.notice != "session deleted" {
		t.Errorf("expected newer notice kept, got %q", a.notice)
	}

	a, _ = updateApp(a, noticeExpireMsg{seq: a.noticeSeq})
	if a.notice != "" {
		t.Errorf("expected notice cleared, got %q", a.notice)
	}
}

func TestAppShimmerFrameIncrements(t *testing.T) {
	a := newTestApp()
	initial := a.frame

	a, cmd := updateApp(a, shimmerTickMsg{})
	if a.frame != initial+1 {
		t.Errorf("expected frame=%d after shimmerTickMsg, got %d", initial+1, a.frame)
	}
	if cmd == nil {
		t.Error("expected the shimmer re-armed")
	}
}

func TestAppVersionHintInView(t *testing.T) {
	a := newTestApp()
	a, _ = updateApp(a, versionCheckMsg{latestVersion: "1.2.3", hasUpdate: true})

	if !strings.Contains(a.View(), "update available 1.2.3") {
		t.Error("expected update hint in header")
	}
}

func TestAppFocusRouting(t *testing.T) {
	a := newTestApp()
	a = loadApp(a, makeTestSession("One"), makeTestSession("Two"))

	// Sidebar focused: j moves the list cursor.
	a, _ = updateApp(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	if a.sidebar.cursor != 1 {
		t.Errorf("expected sidebar cursor moved, got %d", a.sidebar.cursor)
	}

	// Chat focused: typing lands in the composer.
	a, _ = updateApp(a, tea.KeyMsg{Type: tea.KeyTab})
	a, _ = updateApp(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if a.chat.composer.Value() != "x" {
		t.Errorf("expected 'x' in the composer, got %q", a.chat.composer.Value())
	}
	if a.sidebar.cursor != 1 {
		t.Errorf("expected sidebar cursor untouched, got %d", a.sidebar.cursor)
	}
}

func TestAppFocusChatFocusesComposer(t *testing.T) {
	a := newTestApp()
	a = loadApp(a, makeTestSession("Open me"))

	a, _ = updateApp(a, focusChatMsg{})
	if a.focus != focusChatArea {
		t.Error("expected chat focus")
	}
	if !a.chat.composer.Focused() {
		t.Error("expected composer focused for immediate typing")
	}

	a, _ = updateApp(a, focusSidebarMsg{})
	if a.focus != focusSidebarArea {
		t.Error("expected sidebar focus")
	}
	if a.chat.composer.Focused() {
		t.Error("expected composer released")
	}
}

func TestAppViewPanes(t *testing.T) {
	a := newTestApp()
	a = loadApp(a, makeTestSession("Visible row"))

	view := a.View()
	if !strings.Contains(view, "SESSIONS") {
		t.Errorf("expected sidebar header in view, got:\n%s", view)
	}
	if !strings.Contains(view, "Visible row") {
		t.Errorf("expected session row in view, got:\n%s", view)
	}

	a.sidebarOpen = false
	if strings.Contains(a.View(), "SESSIONS") {
		t.Error("expected sidebar hidden when closed")
	}
}

func TestAppViewFitsTerminal(t *testing.T) {
	termHeight := 30
	a := newTestApp()
	a = loadApp(a,
		makeTestSession("Row one"),
		makeTestSession("Row two"),
		makeTestSession("Row three"),
	)

	view := a.View()
	lines := strings.Split(view, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > termHeight {
		t.Errorf("App.View() has %d lines, want at most %d (terminal height)", len(lines), termHeight)
		for i, line := range lines {
			t.Logf("  %2d: %q", i, line)
		}
	}
}
