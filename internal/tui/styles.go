package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Shimmer animation for the NEXAGENTS wordmark.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderWordmark renders "N E X A G E N T S" as a flowing wave of light.
// Deep navy (#102a44) -> bright sky (#38bdf8). No hue drift.
// Letters are spaced apart and rendered without a background box.
func renderWordmark(frame int) string {
	const text = "NEXAGENTS"
	n := len(text)

	var out string

	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		// Flowing phase — one smooth wave advancing through the text
		phase := t*0.1 - x*3.0

		// Gentle speed modulation
		phase += math.Sin(t*0.023) * 2.0

		// Primary brightness wave
		b := math.Sin(phase)*0.5 + 0.5

		// Soft shaping
		b = math.Pow(b, 1.3)

		// Slow breathing tide
		tide := math.Sin(t*0.035) * 0.12
		b = b*0.75 + tide + 0.18

		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		// Continuous RGB interpolation: deep navy -> bright sky
		// Deep:   (16, 42, 68)    #102A44
		// Bright: (56, 189, 248)  #38BDF8
		r := clampByte(16 + b*(56-16))
		g := clampByte(42 + b*(189-42))
		bl := clampByte(68 + b*(248-68))

		color := fmt.Sprintf("#%02X%02X%02X", r, g, bl)

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(color))
		out += s.Render(string(text[i]))

		// Letter spacing — two spaces between each letter
		if i < n-1 {
			out += "  "
		}
	}

	return out
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	// Base styles — neutral palette
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Filter / accent
	searchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#38bdf8")).
			Bold(true)

	// Accent / action styles
	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34b4d4"))

	rejectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#b45555"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844"))

	// Surface colors
	borderColor  = lipgloss.Color("#1e1e2a")
	surfaceColor = lipgloss.Color("#111118")

	// Selected row background
	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#34b4d4")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	// Chat styles
	chatSelfNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#e4e4ec"))

	chatSelfTextStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#c0c4d0"))

	chatTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	chatSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#404858"))

	chatSysStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#404858"))
)

// modelStyle returns a bold style colored for the given session model.
func modelStyle(model string) lipgloss.Style {
	if c, ok := modelColors[model]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878")).Bold(true)
}

// modelColors gives each session model a distinct hue in list rows.
var modelColors = map[string]lipgloss.Color{
	"gpt-4o":          lipgloss.Color("#3ecce4"),
	"gpt-4o-mini":     lipgloss.Color("#60a0e0"),
	"claude-sonnet-4": lipgloss.Color("#f0944a"),
	"claude-opus-4":   lipgloss.Color("#e06060"),
	"llama-3-70b":     lipgloss.Color("#b080d0"),
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpItem is a selectable link in the help overlay.
type helpItem struct {
	label string
	desc  string
	url   string
}

var helpItems = []helpItem{
	{"Website", "nexagents.ai", "https://nexagents.ai"},
	{"Documentation", "docs.nexagents.ai", "https://docs.nexagents.ai"},
	{"Issues", "github.com/NexAgentsAI/NexAgents/issues", "https://github.com/NexAgentsAI/NexAgents/issues"},
}

// helpView renders the interactive help overlay with a cursor.
func helpView(cursor int) string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#38bdf8")).
		Bold(true).
		Render("N E X A G E N T S")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("agents at your command")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	selected := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#38bdf8"))
	linkDescStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	commands := []struct{ cmd, desc string }{
		{"nexagents", "Open the terminal client"},
		{"nexagents update", "Update to the latest release"},
		{"nexagents version", "Show version"},
		{"nexagents help", "Show usage"},
	}

	keys := []struct{ key, desc string }{
		{"tab", "Switch between sidebar and chat"},
		{"b", "Toggle the sidebar"},
		{"n", "New session"},
		{"e", "Rename session"},
		{"d", "Delete session"},
		{"/", "Filter sessions"},
		{"i", "Session details"},
		{"r", "Reload"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n  %s\n\n", title, tagline)

	// Commands section
	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}

	// Keys section
	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Keys"))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", k.key)), descStyle.Render(k.desc))
	}

	// Links section (selectable)
	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Links (enter to open)"))
	for i, item := range helpItems {
		label := cmdStyle.Render(fmt.Sprintf("%-20s", item.label))
		prefix := "    "
		if i == cursor {
			label = selected.Render(fmt.Sprintf("%-20s", item.label))
			prefix = "  > "
		}
		fmt.Fprintf(&b, "%s%s  %s\n", prefix, label, linkDescStyle.Render(item.desc))
	}
	return b.String()
}
