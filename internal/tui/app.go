package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/NexAgentsAI/NexAgents/internal/browser"
	"github.com/NexAgentsAI/NexAgents/internal/config"
	"github.com/NexAgentsAI/NexAgents/internal/session"
	"github.com/NexAgentsAI/NexAgents/pkg/client"
)

type focusArea int

const (
	focusSidebarArea focusArea = iota
	focusChatArea
)

// appChrome is the fixed line budget around the body:
// header(2) + notice(1) + help(1).
const appChrome = 4

// -- messages --

type focusChatMsg struct{}

func focusChat() tea.Msg {
	return focusChatMsg{}
}

type focusSidebarMsg struct{}

func focusSidebar() tea.Msg {
	return focusSidebarMsg{}
}

type uiSavedMsg struct {
	err error
}

func saveUI(open bool) tea.Cmd {
	return func() tea.Msg {
		return uiSavedMsg{err: config.SaveUIState(config.UIState{SidebarOpen: open})}
	}
}

type defaultsSavedMsg struct {
	err error
}

func saveDefaults(d config.ChatDefaults) tea.Cmd {
	return func() tea.Msg {
		return defaultsSavedMsg{err: config.SaveChatDefaults(d)}
	}
}

// Options carries everything the root model needs beyond the API client.
type Options struct {
	UserID   string
	Version  string
	UI       config.UIState
	Defaults config.ChatDefaults
}

// App is the root Bubbletea model: a session sidebar and a chat pane side
// by side, with editor, details and help overlays on top.
type App struct {
	client  *client.Client
	store   *session.Store
	userID  string
	version string

	sidebar sidebarModel
	chat    chatModel

	editor     editorModel
	editorOpen bool
	info       infoModel
	infoOpen   bool
	helpOpen   bool
	helpCursor int

	focus       focusArea
	sidebarOpen bool
	defaults    config.ChatDefaults

	notice    string
	noticeSeq int

	updateHint string
	width      int
	height     int
	frame      int // wordmark shimmer animation frame
}

// NewApp creates the root TUI application. The store is shared with the
// sidebar; nothing else mutates it.
func NewApp(c *client.Client, store *session.Store, opts Options) App {
	return App{
		client:      c,
		store:       store,
		userID:      opts.UserID,
		version:     opts.Version,
		sidebar:     newSidebarModel(c, store, opts.UserID),
		chat:        newChatModel(c, opts.UserID),
		sidebarOpen: opts.UI.SidebarOpen,
		defaults:    opts.Defaults,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(shimmerTickCmd(), reloadSessions, a.chat.Init(), checkVersion(a.version))
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layoutChildren()
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case versionCheckMsg:
		if msg.hasUpdate {
			a.updateHint = msg.latestVersion
		}
		return a, nil

	case noticeMsg:
		a.notice = msg.text
		a.noticeSeq++
		seq := a.noticeSeq
		return a, tea.Tick(noticeTTL, func(time.Time) tea.Msg {
			return noticeExpireMsg{seq: seq}
		})

	case noticeExpireMsg:
		if msg.seq == a.noticeSeq {
			a.notice = ""
		}
		return a, nil

	case uiSavedMsg:
		if msg.err != nil {
			logrus.WithError(msg.err).Warn("save ui state")
		}
		return a, nil

	case defaultsSavedMsg:
		if msg.err != nil {
			logrus.WithError(msg.err).Warn("save chat defaults")
		}
		return a, nil

	case focusChatMsg:
		a.focus = focusChatArea
		var cmd tea.Cmd
		a.chat, cmd = a.chat.setFocus(true)
		return a, cmd

	case focusSidebarMsg:
		a.focus = focusSidebarArea
		var cmd tea.Cmd
		a.chat, cmd = a.chat.setFocus(false)
		if !a.sidebarOpen {
			a.sidebarOpen = true
			a.layoutChildren()
			return a, tea.Batch(cmd, saveUI(true))
		}
		return a, cmd

	case openEditorMsg:
		a.editorOpen = true
		a.editor = newEditorModel(a.client, a.userID, msg.session, a.defaults.Model)
		return a, a.editor.Init()

	case openInfoMsg:
		a.infoOpen = true
		a.info = newInfoModel(msg.session)
		a.info, _ = a.info.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height - appChrome})
		return a, nil

	case sessionCreatedMsg:
		var cmds []tea.Cmd
		var cmd tea.Cmd
		a.editor, cmd = a.editor.Update(msg)
		cmds = append(cmds, cmd)
		a.sidebar, cmd = a.sidebar.Update(msg)
		cmds = append(cmds, cmd)
		if msg.err == nil {
			a.editorOpen = false
			cmds = append(cmds, focusChat)
			if msg.session != nil && msg.session.Model != a.defaults.Model {
				a.defaults.Model = msg.session.Model
				cmds = append(cmds, saveDefaults(a.defaults))
			}
		}
		return a, tea.Batch(cmds...)

	case sessionUpdatedMsg:
		var cmds []tea.Cmd
		var cmd tea.Cmd
		a.editor, cmd = a.editor.Update(msg)
		cmds = append(cmds, cmd)
		a.sidebar, cmd = a.sidebar.Update(msg)
		cmds = append(cmds, cmd)
		if msg.err == nil {
			a.editorOpen = false
		}
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Help overlay captures all keys when open
		if a.helpOpen {
			switch msg.String() {
			case "?", "esc":
				a.helpOpen = false
			case "q":
				return a, tea.Quit
			case "j", "down":
				if a.helpCursor < len(helpItems)-1 {
					a.helpCursor++
				}
			case "k", "up":
				if a.helpCursor > 0 {
					a.helpCursor--
				}
			case "enter":
				item := helpItems[a.helpCursor]
				if item.url != "" {
					browser.Open(item.url) //nolint:errcheck // best-effort browser open
				}
			}
			return a, nil
		}

		// Details overlay captures all keys when open
		if a.infoOpen {
			var cmd tea.Cmd
			a.info, cmd = a.info.Update(msg)
			if a.info.closed {
				a.infoOpen = false
			}
			return a, cmd
		}

		// Editor overlay captures all keys when open
		if a.editorOpen {
			if msg.String() == "esc" {
				a.editorOpen = false
				return a, nil
			}
			var cmd tea.Cmd
			a.editor, cmd = a.editor.Update(msg)
			return a, cmd
		}

		if msg.String() == "tab" {
			return a.toggleFocus()
		}

		// Global keys (only when no text field owns the keyboard)
		if !a.isTyping() {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "?":
				a.helpOpen = true
				a.helpCursor = 0
				return a, nil
			case "b":
				return a.toggleSidebar()
			}
		}

		var cmd tea.Cmd
		if a.focus == focusSidebarArea && a.sidebarOpen {
			a.sidebar, cmd = a.sidebar.Update(msg)
		} else {
			a.chat, cmd = a.chat.Update(msg)
		}
		return a, cmd
	}

	// Everything else (load results, ticks, selection changes) fans out.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.sidebar, cmd = a.sidebar.Update(msg)
	cmds = append(cmds, cmd)
	a.chat, cmd = a.chat.Update(msg)
	cmds = append(cmds, cmd)
	if a.editorOpen {
		a.editor, cmd = a.editor.Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a App) toggleFocus() (tea.Model, tea.Cmd) {
	if a.focus == focusSidebarArea {
		a.focus = focusChatArea
		var cmd tea.Cmd
		a.chat, cmd = a.chat.setFocus(true)
		return a, cmd
	}
	a.focus = focusSidebarArea
	var cmd tea.Cmd
	a.chat, cmd = a.chat.setFocus(false)
	if !a.sidebarOpen {
		a.sidebarOpen = true
		a.layoutChildren()
		return a, tea.Batch(cmd, saveUI(true))
	}
	return a, cmd
}

// toggleSidebar flips the sidebar and persists the preference right away,
// so a crash never loses the last toggle.
func (a App) toggleSidebar() (tea.Model, tea.Cmd) {
	a.sidebarOpen = !a.sidebarOpen
	var cmds []tea.Cmd
	if !a.sidebarOpen && a.focus == focusSidebarArea {
		a.focus = focusChatArea
		var cmd tea.Cmd
		a.chat, cmd = a.chat.setFocus(true)
		cmds = append(cmds, cmd)
	}
	a.layoutChildren()
	cmds = append(cmds, saveUI(a.sidebarOpen))
	return a, tea.Batch(cmds...)
}

func (a App) isTyping() bool {
	if a.editorOpen {
		return true
	}
	if a.focus == focusChatArea && a.chat.composer.Focused() {
		return true
	}
	if a.focus == focusSidebarArea && a.sidebar.state == sbFiltering {
		return true
	}
	return false
}

// sidebarWidth returns the sidebar column width for a terminal width.
func sidebarWidth(w int) int {
	sw := 32
	if w < 80 {
		sw = w / 3
	}
	if sw < 20 {
		sw = 20
	}
	return sw
}

func (a *App) layoutChildren() {
	bodyH := a.height - appChrome
	if bodyH < 1 {
		bodyH = 1
	}
	sw := sidebarWidth(a.width)
	a.sidebar, _ = a.sidebar.Update(tea.WindowSizeMsg{Width: sw, Height: bodyH})

	cw := a.width
	if a.sidebarOpen {
		cw = a.width - sw - 1
	}
	if cw < 20 {
		cw = 20
	}
	a.chat, _ = a.chat.Update(tea.WindowSizeMsg{Width: cw, Height: bodyH})
	a.info, _ = a.info.Update(tea.WindowSizeMsg{Width: a.width, Height: bodyH})
}

func (a App) View() string {
	logo := renderWordmark(a.frame)
	logoWidth := lipgloss.Width(logo)
	logoPad := (a.width - logoWidth) / 2
	if logoPad < 0 {
		logoPad = 0
	}
	header := strings.Repeat(" ", logoPad) + logo

	var parts []string
	if a.userID != "" {
		parts = append(parts, accentStyle.Render(a.userID))
	}
	parts = append(parts, metaStyle.Render(fmt.Sprintf("%d sessions", a.store.Len())))
	if a.updateHint != "" {
		parts = append(parts, noticeStyle.Render("update available "+a.updateHint))
	}
	metaLine := strings.Join(parts, metaStyle.Render(" · "))
	metaWidth := lipgloss.Width(metaLine)
	metaPad := (a.width - metaWidth) / 2
	if metaPad < 0 {
		metaPad = 0
	}
	header += "\n" + strings.Repeat(" ", metaPad) + metaLine

	// Body: overlays replace the panes entirely while open.
	var body string
	switch {
	case a.helpOpen:
		body = helpView(a.helpCursor)
	case a.infoOpen:
		body = a.info.View()
	case a.editorOpen:
		body = a.editor.View()
	case a.sidebarOpen:
		sbCol := lipgloss.NewStyle().Width(sidebarWidth(a.width)).Render(a.sidebar.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, sbCol, " ", a.chat.View())
	default:
		body = a.chat.View()
	}

	noticeLine := ""
	if a.notice != "" {
		noticeLine = " " + noticeStyle.Render(a.notice)
	}

	var help string
	switch {
	case a.helpOpen:
		help = " " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "open") + "  " + helpEntry("esc", "close")
	case a.infoOpen:
		help = " " + helpEntry("y", "copy id") + "  " + helpEntry("esc", "close")
	case a.editorOpen:
		help = " " + helpEntry("tab", "next") + "  " + helpEntry("h/l", "model") + "  " + helpEntry("enter", "save") + "  " + helpEntry("esc", "cancel")
	case a.focus == focusSidebarArea:
		help = " " + a.sidebar.helpKeys()
		if a.sidebar.state == sbNormal {
			help += "  " + a.globalHelp()
		}
	default:
		help = " " + a.chat.helpKeys()
		if !a.chat.composer.Focused() {
			help += "  " + a.globalHelp()
		}
	}

	body = strings.TrimRight(truncateToHeight(body, a.height-appChrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, body, noticeLine, help)
}

func (a App) globalHelp() string {
	return helpEntry("tab", "switch") + "  " + helpEntry("b", "sidebar") + "  " + helpEntry("?", "help") + "  " + helpEntry("q", "quit")
}
