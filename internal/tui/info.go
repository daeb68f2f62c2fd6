package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NexAgentsAI/NexAgents/pkg/domain"
)

// openInfoMsg opens the session details overlay.
type openInfoMsg struct {
	session domain.Session
}

func openInfo(s domain.Session) tea.Cmd {
	return func() tea.Msg {
		return openInfoMsg{session: s}
	}
}

type infoCopiedMsg struct {
	err error
}

type infoModel struct {
	session domain.Session
	copied  bool
	closed  bool
	width   int
}

func newInfoModel(s domain.Session) infoModel {
	return infoModel{session: s}
}

func (m infoModel) Update(msg tea.Msg) (infoModel, tea.Cmd) {
	switch msg := msg.(type) {
	case infoCopiedMsg:
		m.copied = msg.err == nil
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "i":
			m.closed = true
		case "y":
			id := m.session.ID.String()
			return m, func() tea.Msg {
				return infoCopiedMsg{err: clipboard.WriteAll(id)}
			}
		}
	}
	return m, nil
}

func (m infoModel) View() string {
	s := m.session

	cardWidth := min(54, m.width-4)
	if cardWidth < 30 {
		cardWidth = 30
	}
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Background(surfaceColor).
		Padding(1, 2).
		Width(cardWidth)

	var sb strings.Builder

	sb.WriteString(selectedStyle.Render(s.DisplayTitle()) + "\n")
	sb.WriteString("   " + modelStyle(s.Model).Render(s.Model) + "\n")

	sb.WriteString(metaStyle.Render("---") + "\n")
	sb.WriteString(metaStyle.Render(fmt.Sprintf("%d messages", s.MessageCount)) + "\n")
	sb.WriteString(metaStyle.Render("created "+formatTime(s.CreatedAt)) + "\n")
	sb.WriteString(metaStyle.Render("updated "+formatTime(s.UpdatedAt)) + "\n")
	sb.WriteString(metaStyle.Render("---") + "\n")

	sb.WriteString(dimStyle.Render("id ") + normalStyle.Render(s.ID.String()) + "\n")
	if preview := cleanPreview(s.Summary); preview != "" {
		sb.WriteString("\n" + dimStyle.Render(truncStr(preview, 2*cardWidth)) + "\n")
	}

	sb.WriteString("\n")
	if m.copied {
		sb.WriteString(accentStyle.Render("copied") + "  ")
	}
	sb.WriteString(helpKeyStyle.Render("y") + " " + helpLabelStyle.Render("copy id"))
	sb.WriteString("  " + helpKeyStyle.Render("esc") + " " + helpLabelStyle.Render("close"))

	return "\n" + border.Render(sb.String())
}
