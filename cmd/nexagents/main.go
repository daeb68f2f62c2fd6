package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/NexAgentsAI/NexAgents/internal/config"
	"github.com/NexAgentsAI/NexAgents/internal/session"
	"github.com/NexAgentsAI/NexAgents/internal/tui"
	"github.com/NexAgentsAI/NexAgents/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("nexagents " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "docs":
			return openSite("https://docs.nexagents.ai")
		case "update":
			return runUpdate()
		case "--update-done":
			if len(os.Args) >= 4 {
				printUpdateSuccess(os.Args[2], os.Args[3])
			}
			return nil
		}
	}

	settings := config.LoadSettings()

	// Logs go to a file; stdout belongs to the alternate screen.
	if closeLog, err := setupLogging(settings.LogLevel); err != nil {
		logrus.SetOutput(io.Discard)
	} else {
		defer closeLog()
	}

	if settings.UserID == "" {
		printSetupGuide()
		return nil
	}

	ui := config.LoadUIState()
	defaults := config.LoadChatDefaults()

	store := session.NewStore()
	store.Subscribe(func(ev session.Event) {
		logrus.WithFields(logrus.Fields{
			"kind":    ev.Kind,
			"session": ev.SessionID,
		}).Debug("store event")
	})

	c := client.New(settings.APIURL, settings.Token)
	app := tui.NewApp(c, store, tui.Options{
		UserID:   settings.UserID,
		Version:  version,
		UI:       ui,
		Defaults: defaults,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// setupLogging points logrus at ~/.nexagents/nexagents.log and applies the
// configured level. Unknown levels keep the default.
func setupLogging(level string) (func(), error) {
	if lvl, err := logrus.ParseLevel(level); err == nil {
		logrus.SetLevel(lvl)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(home, ".nexagents")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, "nexagents.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	logrus.SetOutput(f)
	return func() {
		f.Close() //nolint:errcheck
	}, nil
}
