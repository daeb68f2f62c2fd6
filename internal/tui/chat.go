package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/NexAgentsAI/NexAgents/pkg/client"
	"github.com/NexAgentsAI/NexAgents/pkg/domain"
)

// chatPollInterval is how often the open transcript polls for new messages.
const chatPollInterval = 5 * time.Second

// -- messages --

type messagesLoadedMsg struct {
	sessionID uuid.UUID
	messages  []domain.Message
	err       error
}

type messageSentMsg struct {
	sessionID uuid.UUID
	body      string
	reply     *domain.Message
	err       error
}

type chatPollTickMsg time.Time

func chatPollCmd() tea.Cmd {
	return tea.Tick(chatPollInterval, func(t time.Time) tea.Msg {
		return chatPollTickMsg(t)
	})
}

type thinkTickMsg time.Time

func thinkTickCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return thinkTickMsg(t)
	})
}

var thinkFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type chatCopiedMsg struct {
	err error
}

// -- model --

// chatModel renders the transcript of the current session and owns the
// message composer. Loads are tagged with the session ID they were issued
// for; results for a session that is no longer current are dropped.
type chatModel struct {
	client *client.Client
	userID string

	current    *domain.Session
	messages   []domain.Message
	loading    bool
	sending    bool
	thinkFrame int

	viewport viewport.Model
	composer textinput.Model
	focused  bool

	width  int
	height int
}

func newChatModel(c *client.Client, userID string) chatModel {
	ti := textinput.New()
	ti.Placeholder = "type a message..."
	ti.Prompt = "> "
	ti.PromptStyle = inputPromptStyle
	ti.PlaceholderStyle = inputPlaceholderStyle
	ti.CharLimit = maxInputLen
	ti.Width = 60

	return chatModel{client: c, userID: userID, composer: ti}
}

func (m chatModel) Init() tea.Cmd {
	return chatPollCmd()
}

func (m chatModel) loadMessages() tea.Cmd {
	if m.current == nil {
		return nil
	}
	id := m.current.ID
	c, uid := m.client, m.userID
	return func() tea.Msg {
		msgs, err := c.ListMessages(context.Background(), uid, id, pageSize, 0)
		return messagesLoadedMsg{sessionID: id, messages: msgs, err: err}
	}
}

func (m chatModel) Update(msg tea.Msg) (chatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 4
		if m.viewport.Height < 1 {
			m.viewport.Height = 1
		}
		m.composer.Width = msg.Width - 6
		if m.composer.Width < 10 {
			m.composer.Width = 10
		}
		wasBottom := m.viewport.AtBottom()
		m.refreshViewport()
		if wasBottom {
			m.viewport.GotoBottom()
		}
		return m, nil

	case currentChangedMsg:
		if msg.session == nil {
			m.current = nil
			m.messages = nil
			m.sending = false
			m.composer.Blur()
			m.refreshViewport()
			return m, nil
		}
		s := *msg.session
		same := m.current != nil && m.current.ID == s.ID
		m.current = &s
		if same {
			// Rename or model change; the transcript is already right.
			return m, nil
		}
		m.messages = nil
		m.sending = false
		m.loading = true
		m.refreshViewport()
		var cmd tea.Cmd
		if m.focused {
			m.composer.Focus()
			cmd = textinput.Blink
		}
		return m, tea.Batch(m.loadMessages(), cmd)

	case messagesLoadedMsg:
		if m.current == nil || msg.sessionID != m.current.ID {
			return m, nil // selection moved on while the fetch was in flight
		}
		if m.sending {
			// Keep the optimistic echo until the send settles.
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			logrus.WithError(msg.err).Warn("load messages")
			return m, notify(errText("load messages", msg.err))
		}
		wasBottom := m.viewport.AtBottom()
		m.messages = msg.messages
		m.refreshViewport()
		if wasBottom {
			m.viewport.GotoBottom()
		}
		return m, nil

	case messageSentMsg:
		m.sending = false
		if m.current == nil || msg.sessionID != m.current.ID {
			return m, nil
		}
		if msg.err != nil {
			logrus.WithError(msg.err).Warn("send message")
			// Drop the local echo and put the draft back for a retry.
			if n := len(m.messages); n > 0 && m.messages[n-1].ID == uuid.Nil {
				m.messages = m.messages[:n-1]
				m.refreshViewport()
			}
			if m.composer.Value() == "" {
				m.composer.SetValue(msg.body)
			}
			return m, notify(errText("send message", msg.err))
		}
		m.loading = true
		return m, m.loadMessages()

	case chatPollTickMsg:
		if m.current != nil && !m.loading && !m.sending {
			m.loading = true
			return m, tea.Batch(chatPollCmd(), m.loadMessages())
		}
		return m, chatPollCmd()

	case thinkTickMsg:
		if m.sending {
			m.thinkFrame = (m.thinkFrame + 1) % len(thinkFrames)
			return m, thinkTickCmd()
		}
		return m, nil

	case chatCopiedMsg:
		if msg.err != nil {
			return m, notify(fmt.Sprintf("copy failed: %v", msg.err))
		}
		return m, notify("reply copied")

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blink and other component messages.
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

func (m chatModel) handleKey(msg tea.KeyMsg) (chatModel, tea.Cmd) {
	if m.current == nil {
		if msg.String() == "n" {
			return m, openEditor(nil)
		}
		return m, nil
	}

	if m.composer.Focused() {
		switch msg.String() {
		case "esc":
			m.composer.Blur()
			return m, nil
		case "enter":
			body := strings.TrimSpace(m.composer.Value())
			if body == "" || m.sending {
				return m, nil
			}
			return m.send(body)
		default:
			var cmd tea.Cmd
			m.composer, cmd = m.composer.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "i", "enter":
		m.composer.Focus()
		return m, textinput.Blink
	case "y":
		return m, m.copyLastReply()
	case "r":
		m.loading = true
		return m, m.loadMessages()
	case "esc":
		return m, focusSidebar
	default:
		// Scroll keys fall through to the viewport.
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
}

// send echoes the message locally, clears the composer and fires the
// request. The echo carries a nil ID so a failed send can pop it again.
func (m chatModel) send(body string) (chatModel, tea.Cmd) {
	m.composer.SetValue("")
	m.sending = true
	m.thinkFrame = 0

	echo := domain.Message{
		SessionID: m.current.ID,
		Role:      domain.RoleUser,
		Body:      body,
		CreatedAt: time.Now(),
	}
	m.messages = append(m.messages, echo)
	m.refreshViewport()
	m.viewport.GotoBottom()

	id := m.current.ID
	c, uid := m.client, m.userID
	sendCmd := func() tea.Msg {
		reply, err := c.SendMessage(context.Background(), uid, id, body)
		return messageSentMsg{sessionID: id, body: body, reply: reply, err: err}
	}
	return m, tea.Batch(sendCmd, thinkTickCmd())
}

func (m chatModel) copyLastReply() tea.Cmd {
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].Role == domain.RoleAssistant {
			body := m.messages[i].Body
			return func() tea.Msg {
				return chatCopiedMsg{err: clipboard.WriteAll(body)}
			}
		}
	}
	return nil
}

// setFocus flips keyboard ownership. Gaining focus lands in the composer
// so typing works immediately.
func (m chatModel) setFocus(focused bool) (chatModel, tea.Cmd) {
	m.focused = focused
	if focused && m.current != nil {
		m.composer.Focus()
		return m, textinput.Blink
	}
	m.composer.Blur()
	return m, nil
}

func (m *chatModel) refreshViewport() {
	if len(m.messages) == 0 {
		text := " " + dimStyle.Render("no messages yet · say hello")
		if m.loading {
			text = " " + dimStyle.Render("loading messages…")
		}
		if m.current == nil {
			text = ""
		}
		m.viewport.SetContent(text)
		return
	}
	var sb strings.Builder
	for _, msg := range m.messages {
		sb.WriteString(m.renderMessage(msg))
		sb.WriteByte('\n')
	}
	m.viewport.SetContent(sb.String())
}

func (m chatModel) renderMessage(msg domain.Message) string {
	timeStr := fmt.Sprintf("%8s", formatChatTime(msg.CreatedAt))
	timePart := metaStyle.Render(timeStr)
	sep := chatSepStyle.Render(" · ")

	var namePart string
	bodyStyle := chatTextStyle
	switch msg.Role {
	case domain.RoleUser:
		namePart = chatSelfNameStyle.Render("you")
		bodyStyle = chatSelfTextStyle
	case domain.RoleSystem:
		namePart = chatSysStyle.Render("system")
		bodyStyle = chatSysStyle
	default:
		name := "assistant"
		if m.current != nil && m.current.Model != "" {
			name = m.current.Model
		}
		namePart = modelStyle(name).Render(name)
	}

	bodyWidth := m.width - 26
	if bodyWidth < 20 {
		bodyWidth = 20
	}
	wrapped := lipgloss.NewStyle().Width(bodyWidth).Render(msg.Body)
	lines := strings.Split(wrapped, "\n")

	result := " " + timePart + "  " + namePart + sep + bodyStyle.Render(lines[0])
	if len(lines) > 1 {
		indent := strings.Repeat(" ", 15)
		for _, line := range lines[1:] {
			result += "\n" + indent + bodyStyle.Render(line)
		}
	}
	return result
}

func (m chatModel) View() string {
	var b strings.Builder

	if m.current == nil {
		b.WriteString("\n " + dimStyle.Render("no session selected") + "\n")
		b.WriteString(" " + dimStyle.Render("pick one on the left, or press n to start a new one") + "\n")
		return b.String()
	}

	title := truncStr(m.current.DisplayTitle(), max(m.width-24, 12))
	b.WriteString(" " + selectedStyle.Render(title) + "  " + modelStyle(m.current.Model).Render(m.current.Model) + "\n")

	sep := strings.Repeat("─", max(m.width-2, 4))
	b.WriteString(" " + metaStyle.Render(sep) + "\n")

	b.WriteString(m.viewport.View())
	b.WriteByte('\n')

	b.WriteString(" " + m.composer.View() + "\n")

	if m.sending {
		b.WriteString(" " + accentStyle.Render(thinkFrames[m.thinkFrame]) + " " + dimStyle.Render("thinking…"))
	}

	return b.String()
}

func (m chatModel) helpKeys() string {
	if m.current == nil {
		return helpEntry("n", "new session") + "  " + helpEntry("tab", "sessions")
	}
	if m.composer.Focused() {
		return helpEntry("enter", "send") + "  " + helpEntry("esc", "scroll")
	}
	return helpEntry("i", "type") + "  " + helpEntry("j/k", "scroll") + "  " + helpEntry("y", "copy reply") + "  " +
		helpEntry("r", "reload") + "  " + helpEntry("esc", "sessions")
}
