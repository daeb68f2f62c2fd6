package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/NexAgentsAI/NexAgents/internal/session"
	"github.com/NexAgentsAI/NexAgents/pkg/client"
	"github.com/NexAgentsAI/NexAgents/pkg/domain"
)

// sidebarState is the state machine for session list interactions.
type sidebarState int

const (
	sbNormal    sidebarState = iota
	sbFiltering              // live title filter
	sbDeleting               // delete confirmation
)

// -- messages --

// reloadSessionsMsg asks the sidebar to fetch the session list. Sent at
// startup and whenever a full refresh is wanted.
type reloadSessionsMsg struct{}

func reloadSessions() tea.Msg {
	return reloadSessionsMsg{}
}

type sessionsLoadedMsg struct {
	seq      int
	sessions []domain.Session
	err      error
}

// sessionFetchedMsg is the result of re-fetching a session on selection.
type sessionFetchedMsg struct {
	seq     int
	session *domain.Session
	err     error
}

type sessionCreatedMsg struct {
	session *domain.Session
	err     error
}

type sessionUpdatedMsg struct {
	session *domain.Session
	err     error
}

type sessionDeletedMsg struct {
	id  uuid.UUID
	err error
}

// currentChangedMsg tells the chat pane the selection moved. session is nil
// when the selection was cleared.
type currentChangedMsg struct {
	session *domain.Session
}

func announceCurrent(s *domain.Session) tea.Cmd {
	return func() tea.Msg {
		return currentChangedMsg{session: s}
	}
}

// -- model --

// sidebarModel owns the session list pane and all reconciliation between
// the backend and the store. Fetches are stamped with a per-slot
// generation (listSeq for list loads, selectSeq for selection fetches);
// responses carrying a superseded generation are dropped, so a slow old
// reply can never overwrite a newer one.
type sidebarModel struct {
	client *client.Client
	store  *session.Store
	userID string

	cursor  int
	state   sidebarState
	filter  string
	loading bool

	listSeq   int
	selectSeq int

	width  int
	height int
}

func newSidebarModel(c *client.Client, store *session.Store, userID string) sidebarModel {
	return sidebarModel{client: c, store: store, userID: userID}
}

// load bumps the list generation and returns the fetch command.
func (m *sidebarModel) load() tea.Cmd {
	m.listSeq++
	seq := m.listSeq
	c, uid := m.client, m.userID
	return func() tea.Msg {
		sessions, err := c.ListSessions(context.Background(), uid)
		return sessionsLoadedMsg{seq: seq, sessions: sessions, err: err}
	}
}

// selectSession re-fetches the chosen record; the backend copy wins over
// whatever the list row holds.
func (m *sidebarModel) selectSession(id uuid.UUID) tea.Cmd {
	m.selectSeq++
	seq := m.selectSeq
	c, uid := m.client, m.userID
	return func() tea.Msg {
		s, err := c.GetSession(context.Background(), uid, id)
		return sessionFetchedMsg{seq: seq, session: s, err: err}
	}
}

func (m sidebarModel) Update(msg tea.Msg) (sidebarModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reloadSessionsMsg:
		m.loading = true
		return m, m.load()

	case sessionsLoadedMsg:
		if msg.seq != m.listSeq {
			return m, nil // superseded by a newer load
		}
		m.loading = false
		if msg.err != nil {
			logrus.WithError(msg.err).Warn("load sessions")
			return m, notify(errText("load sessions", msg.err))
		}
		m.store.SetSessions(dedupeSessions(msg.sessions))
		m.clampCursor()
		return m, m.reconcileCurrent()

	case sessionFetchedMsg:
		if msg.seq != m.selectSeq {
			return m, nil
		}
		if msg.err != nil {
			logrus.WithError(msg.err).Warn("open session")
			return m, notify(errText("open session", msg.err))
		}
		s := *msg.session
		list := m.store.Sessions()
		row := -1
		for i := range list {
			if list[i].ID == s.ID {
				row = i
				break
			}
		}
		if row < 0 {
			// The row vanished while the fetch was in flight.
			return m, nil
		}
		list[row] = s
		m.store.SetSessions(list)
		m.store.SetCurrent(&s)
		return m, tea.Batch(announceCurrent(&s), focusChat)

	case sessionCreatedMsg:
		if msg.err != nil {
			// The editor stays open and shows the failure.
			return m, nil
		}
		s := *msg.session
		list := removeSession(m.store.Sessions(), s.ID)
		list = append([]domain.Session{s}, list...)
		m.store.SetSessions(list)
		m.cursor = 0
		m.filter = ""
		m.store.SetCurrent(&s)
		return m, tea.Batch(announceCurrent(&s), notify("session created"))

	case sessionUpdatedMsg:
		if msg.err != nil {
			return m, nil
		}
		s := *msg.session
		list := m.store.Sessions()
		for i := range list {
			if list[i].ID == s.ID {
				list[i] = s
				break
			}
		}
		m.store.SetSessions(list)
		if cur := m.store.Current(); cur != nil && cur.ID == s.ID {
			m.store.SetCurrent(&s)
			return m, tea.Batch(announceCurrent(&s), notify("session saved"))
		}
		return m, notify("session saved")

	case sessionDeletedMsg:
		m.state = sbNormal
		if msg.err != nil {
			logrus.WithError(msg.err).Warn("delete session")
			return m, notify(errText("delete session", msg.err))
		}
		list := removeSession(m.store.Sessions(), msg.id)
		m.store.SetSessions(list)
		m.clampCursor()
		return m, tea.Batch(m.reconcileCurrent(), notify("session deleted"))

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m sidebarModel) handleKey(msg tea.KeyMsg) (sidebarModel, tea.Cmd) {
	switch m.state {
	case sbFiltering:
		return m.handleKeyFiltering(msg)
	case sbDeleting:
		return m.handleKeyDeleting(msg)
	}

	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "enter":
		sel, ok := m.selected()
		if !ok {
			return m, nil
		}
		if cur := m.store.Current(); cur != nil && cur.ID == sel.ID {
			return m, focusChat
		}
		return m, m.selectSession(sel.ID)

	case "n":
		return m, openEditor(nil)

	case "e":
		if sel, ok := m.selected(); ok {
			return m, openEditor(&sel)
		}

	case "d":
		if _, ok := m.selected(); ok {
			m.state = sbDeleting
		}

	case "i":
		if sel, ok := m.selected(); ok {
			return m, openInfo(sel)
		}

	case "/":
		m.state = sbFiltering
		m.filter = ""
		m.cursor = 0

	case "r":
		m.loading = true
		return m, m.load()
	}
	return m, nil
}

func (m sidebarModel) handleKeyFiltering(msg tea.KeyMsg) (sidebarModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.state = sbNormal
	case "esc":
		m.state = sbNormal
		m.filter = ""
		m.cursor = 0
	default:
		m.filter = editRune(m.filter, msg.String())
		m.cursor = 0
	}
	return m, nil
}

func (m sidebarModel) handleKeyDeleting(msg tea.KeyMsg) (sidebarModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if sel, ok := m.selected(); ok {
			id := sel.ID
			c, uid := m.client, m.userID
			return m, func() tea.Msg {
				err := c.DeleteSession(context.Background(), uid, id)
				return sessionDeletedMsg{id: id, err: err}
			}
		}
		m.state = sbNormal
	case "n", "N", "esc":
		m.state = sbNormal
	}
	return m, nil
}

// reconcileCurrent re-points the current session after the list changed.
// The selection is kept when its ID is still present, falls back to the
// first entry otherwise, and clears when the list is empty. Announces to
// the chat pane only when the current ID actually changed.
func (m *sidebarModel) reconcileCurrent() tea.Cmd {
	list := m.store.Sessions()
	cur := m.store.Current()

	var prev uuid.UUID
	if cur != nil {
		prev = cur.ID
	}

	var next *domain.Session
	if cur != nil {
		if s, ok := findSession(list, cur.ID); ok {
			next = &s
		}
	}
	if next == nil && len(list) > 0 {
		s := list[0]
		next = &s
	}

	m.store.SetCurrent(next)

	var now uuid.UUID
	if next != nil {
		now = next.ID
	}
	if now == prev {
		return nil
	}
	return announceCurrent(next)
}

// visible returns the list rows after the title filter.
func (m sidebarModel) visible() []domain.Session {
	list := m.store.Sessions()
	if m.filter == "" {
		return list
	}
	needle := strings.ToLower(m.filter)
	var out []domain.Session
	for _, s := range list {
		if strings.Contains(strings.ToLower(s.DisplayTitle()), needle) {
			out = append(out, s)
		}
	}
	return out
}

// selected returns the session under the cursor.
func (m sidebarModel) selected() (domain.Session, bool) {
	list := m.visible()
	if len(list) == 0 || m.cursor >= len(list) {
		return domain.Session{}, false
	}
	return list[m.cursor], true
}

func (m *sidebarModel) clampCursor() {
	n := len(m.visible())
	if n == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
}

// helpKeys returns context-sensitive help text based on the current state.
func (m sidebarModel) helpKeys() string {
	switch m.state {
	case sbFiltering:
		return helpEntry("type", "filter") + "  " + helpEntry("enter", "apply") + "  " + helpEntry("esc", "clear")
	case sbDeleting:
		return helpEntry("y", "confirm") + "  " + helpEntry("n", "cancel")
	default:
		return helpEntry("j/k", "nav") + "  " + helpEntry("enter", "open") + "  " + helpEntry("n", "new") + "  " +
			helpEntry("e", "rename") + "  " + helpEntry("d", "delete") + "  " + helpEntry("/", "filter") + "  " + helpEntry("i", "details")
	}
}

func (m sidebarModel) View() string {
	var sb strings.Builder

	count := m.store.Len()
	sb.WriteString(" " + sectionHeaderStyle.Render(fmt.Sprintf("── SESSIONS %d ──", count)) + "\n")

	if m.state == sbFiltering || m.filter != "" {
		line := " " + searchStyle.Render("/") + m.filter
		if m.state == sbFiltering {
			line += accentStyle.Render("█")
		}
		sb.WriteString(line + "\n")
	}

	if m.loading && count == 0 {
		sb.WriteString(" " + dimStyle.Render("loading sessions…") + "\n")
		return sb.String()
	}

	list := m.visible()
	if len(list) == 0 {
		if m.filter != "" {
			sb.WriteString(" " + dimStyle.Render("no matches") + "\n")
		} else {
			sb.WriteString(" " + dimStyle.Render("no sessions yet · press n to start one") + "\n")
		}
		return sb.String()
	}

	// Two lines per row; window the list around the cursor.
	maxRows := (m.height - 3) / 2
	if maxRows < 1 {
		maxRows = 1
	}
	start := 0
	if m.cursor >= maxRows {
		start = m.cursor - maxRows + 1
	}
	end := start + maxRows
	if end > len(list) {
		end = len(list)
	}

	titleWidth := m.width - 4
	if titleWidth < 8 {
		titleWidth = 8
	}

	cur := m.store.Current()
	for i := start; i < end; i++ {
		s := list[i]
		isActive := i == m.cursor

		cursor := "  "
		if isActive {
			cursor = accentStyle.Render("▸") + " "
		}

		title := truncStr(s.DisplayTitle(), titleWidth)
		titleStr := normalStyle.Render(title)
		if isActive {
			titleStr = selectedStyle.Render(title)
		}
		if cur != nil && cur.ID == s.ID {
			titleStr = selectedRowBg.Render(titleStr)
		}

		fmt.Fprintf(&sb, " %s%s\n", cursor, titleStr)

		if isActive && m.state == sbDeleting {
			sb.WriteString("   " + rejectStyle.Render("delete this session? ") +
				accentStyle.Render("y") + dimStyle.Render("/") + dimStyle.Render("n") + "\n")
			continue
		}

		meta := formatTime(s.UpdatedAt)
		if s.MessageCount > 0 {
			meta += fmt.Sprintf(" · %d msgs", s.MessageCount)
		}
		if preview := cleanPreview(s.Summary); preview != "" {
			meta = formatTime(s.UpdatedAt) + " · " + preview
		}
		sb.WriteString("   " + metaStyle.Render(truncStr(meta, titleWidth)) + "\n")
	}

	return sb.String()
}

// dedupeSessions drops later duplicates of the same ID, keeping backend order.
func dedupeSessions(list []domain.Session) []domain.Session {
	seen := make(map[uuid.UUID]bool, len(list))
	out := make([]domain.Session, 0, len(list))
	for _, s := range list {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		out = append(out, s)
	}
	return out
}

func findSession(list []domain.Session, id uuid.UUID) (domain.Session, bool) {
	for _, s := range list {
		if s.ID == id {
			return s, true
		}
	}
	return domain.Session{}, false
}

func removeSession(list []domain.Session, id uuid.UUID) []domain.Session {
	out := make([]domain.Session, 0, len(list))
	for _, s := range list {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}
