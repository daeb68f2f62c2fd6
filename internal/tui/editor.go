package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NexAgentsAI/NexAgents/pkg/client"
	"github.com/NexAgentsAI/NexAgents/pkg/domain"
)

type editorField int

const (
	fieldTitle editorField = iota
	fieldModel
	numEditorFields
)

// openEditorMsg opens the session editor. session is nil when creating.
type openEditorMsg struct {
	session *domain.Session
}

func openEditor(s *domain.Session) tea.Cmd {
	return func() tea.Msg {
		return openEditorMsg{session: s}
	}
}

// editorModel is the create/rename form. It creates a session when built
// without one and updates the existing record otherwise. The form stays
// open on failure so nothing typed is lost.
type editorModel struct {
	client *client.Client
	userID string

	session   *domain.Session // nil when creating
	title     textinput.Model
	model     string
	focus     editorField
	errMsg    string
	submitted bool
}

func newEditorModel(c *client.Client, userID string, s *domain.Session, defaultModel string) editorModel {
	ti := textinput.New()
	ti.Placeholder = "untitled session"
	ti.Prompt = ""
	ti.PlaceholderStyle = inputPlaceholderStyle
	ti.CharLimit = 120
	ti.Width = 40
	ti.Focus()

	model := defaultModel
	if !domain.ValidModel(model) {
		model = domain.DefaultModel
	}

	m := editorModel{client: c, userID: userID, title: ti, model: model}
	if s != nil {
		ss := *s
		m.session = &ss
		m.title.SetValue(ss.Title)
		if domain.ValidModel(ss.Model) {
			m.model = ss.Model
		}
	}
	return m
}

func (m editorModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m editorModel) Update(msg tea.Msg) (editorModel, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionCreatedMsg:
		m.submitted = false
		if msg.err != nil {
			m.errMsg = errText("create session", msg.err)
		}
		return m, nil

	case sessionUpdatedMsg:
		m.submitted = false
		if msg.err != nil {
			m.errMsg = errText("save session", msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	// Cursor blink and other component messages.
	var cmd tea.Cmd
	m.title, cmd = m.title.Update(msg)
	return m, cmd
}

func (m editorModel) updateKeys(msg tea.KeyMsg) (editorModel, tea.Cmd) {
	m.errMsg = ""
	if m.submitted {
		return m, nil // request in flight
	}

	switch msg.String() {
	case "ctrl+s":
		return m.submit()

	case "tab", "down":
		m.setFocus((m.focus + 1) % numEditorFields)

	case "shift+tab", "up":
		m.setFocus((m.focus - 1 + numEditorFields) % numEditorFields)

	case "enter":
		if m.focus == fieldTitle {
			m.setFocus(fieldModel)
			return m, nil
		}
		return m.submit()

	default:
		if m.focus == fieldModel {
			switch msg.String() {
			case "h", "left":
				m.model = cycleModel(m.model, -1)
			case "l", "right":
				m.model = cycleModel(m.model, 1)
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.title, cmd = m.title.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *editorModel) setFocus(f editorField) {
	m.focus = f
	if f == fieldTitle {
		m.title.Focus()
	} else {
		m.title.Blur()
	}
}

func cycleModel(current string, dir int) string {
	idx := 0
	for i, name := range domain.Models {
		if name == current {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(domain.Models)) % len(domain.Models)
	return domain.Models[idx]
}

func (m editorModel) submit() (editorModel, tea.Cmd) {
	title := strings.TrimSpace(m.title.Value())
	if !domain.ValidModel(m.model) {
		m.errMsg = "pick a model with h/l"
		return m, nil
	}

	m.submitted = true
	c, uid := m.client, m.userID

	if m.session == nil {
		req := client.CreateSessionRequest{Title: title, Model: m.model}
		return m, func() tea.Msg {
			s, err := c.CreateSession(context.Background(), uid, req)
			return sessionCreatedMsg{session: s, err: err}
		}
	}

	s := *m.session
	s.Title = title
	s.Model = m.model
	return m, func() tea.Msg {
		updated, err := c.UpdateSession(context.Background(), uid, s)
		return sessionUpdatedMsg{session: updated, err: err}
	}
}

func (m editorModel) View() string {
	cardWidth := 48
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Background(surfaceColor).
		Padding(1, 2).
		Width(cardWidth)

	var sb strings.Builder

	heading := "new session"
	if m.session != nil {
		heading = "edit session"
	}
	sb.WriteString(sectionHeaderStyle.Render("── "+strings.ToUpper(heading)+" ──") + "\n\n")

	titleCursor, titleLabel := " ", metaStyle
	if m.focus == fieldTitle {
		titleCursor, titleLabel = ">", selectedStyle
	}
	sb.WriteString(titleCursor + " " + titleLabel.Render("title") + ": " + m.title.View() + "\n")

	modelCursor, modelLabel := " ", metaStyle
	if m.focus == fieldModel {
		modelCursor, modelLabel = ">", selectedStyle
	}
	sb.WriteString(modelCursor + " " + modelLabel.Render("model") + ": " +
		modelStyle(m.model).Render(m.model) + "  " + dimStyle.Render("(h/l to cycle)") + "\n")

	sb.WriteString("\n")
	switch {
	case m.submitted && m.session == nil:
		sb.WriteString(dimStyle.Render("creating..."))
	case m.submitted:
		sb.WriteString(dimStyle.Render("saving..."))
	case m.errMsg != "":
		sb.WriteString(rejectStyle.Render(m.errMsg))
	default:
		sb.WriteString(dimStyle.Render("tab next · enter save · esc cancel"))
	}

	return "\n" + border.Render(sb.String())
}
