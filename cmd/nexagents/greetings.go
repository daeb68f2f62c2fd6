package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func printHelp() {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#38BDF8")).
		Bold(true).
		Render("N E X A G E N T S")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("agents at your command")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"nexagents", "Open the session console (interactive TUI)"},
		{"nexagents update", "Update to the latest release"},
		{"nexagents docs", "Open the documentation in a browser"},
		{"nexagents version", "Show version"},
		{"nexagents help", "You are here"},
	}

	fmt.Printf("\n  %s\n\n  %s\n\n  Commands:\n", title, tagline)
	for _, c := range commands {
		fmt.Printf("    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}

	fmt.Printf("\n  Environment:\n")
	envs := []struct{ name, desc string }{
		{"NEXAGENTS_USER", "Your user id (required)"},
		{"NEXAGENTS_API_URL", "Backend URL (default https://api.nexagents.ai)"},
		{"NEXAGENTS_TOKEN", "API bearer token, if your backend needs one"},
		{"NEXAGENTS_LOG_LEVEL", "Log level for ~/.nexagents/nexagents.log"},
	}
	for _, e := range envs {
		fmt.Printf("    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", e.name)), descStyle.Render(e.desc))
	}

	url := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("https://nexagents.ai")
	fmt.Printf("\n  %s\n\n", url)
}

// printSetupGuide runs when no user id is configured. Everything the console
// needs comes from the environment, so this is the whole onboarding.
func printSetupGuide() {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#38BDF8")).
		Bold(true).
		Render("NEXAGENTS")

	msg := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("No user configured. The agents don't know who is asking.")

	stepStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	codeStyle := lipgloss.NewStyle().Bold(true)

	fmt.Printf("\n%s\n\n%s\n\n", title, msg)
	fmt.Printf("%s\n", stepStyle.Render("To get started, set your user id:"))
	fmt.Printf("    %s\n\n", codeStyle.Render("export NEXAGENTS_USER=you@example.com"))
	fmt.Printf("%s\n", stepStyle.Render("or put it in a .env file next to where you run nexagents."))
	fmt.Printf("%s\n\n", stepStyle.Render("Run nexagents help for the full list of settings."))
}
