package main

import "fmt"

// ANSI color constants for update output (no lipgloss — runs outside TUI).
const (
	ansiReset     = "\033[0m"
	ansiBold      = "\033[1m"
	ansiItalic    = "\033[3m"
	ansiSky       = "\033[38;2;56;189;248m"  // #38bdf8
	ansiBlue      = "\033[38;2;96;160;224m"  // #60a0e0
	ansiGold      = "\033[38;2;212;168;68m"  // #d4a844
	ansiGoldLight = "\033[38;2;200;168;76m"  // #c8a84c
	ansiSlate     = "\033[38;2;136;144;160m" // #8890a0
)

// printUpdateLogo prints the spaced NEXAGENTS wordmark in alternating blues.
func printUpdateLogo() {
	letters := "NEXAGENTS"
	colors := [2]string{ansiSky, ansiBlue}
	fmt.Print("\n  ")
	for i, ch := range letters {
		fmt.Printf("%s%s%c%s", colors[i%2], ansiBold, ch, ansiReset)
		if i < len(letters)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()
}

// printUpdateSuccess prints the update-complete message.
func printUpdateSuccess(oldVersion, newVersion string) {
	printUpdateLogo()
	fmt.Printf("\n  %s%s%s  %s%s→%s  %s%s%s%s\n",
		ansiSlate, oldVersion, ansiReset,
		ansiSky, ansiBold, ansiReset,
		ansiSky, ansiBold, newVersion, ansiReset,
	)
	fmt.Printf("\n  %s│%s %s%sNEXAGENTS%s\n", ansiGold, ansiReset, ansiGold, ansiBold, ansiReset)
	fmt.Printf("  %s│%s %s%sNew orders are in effect.%s\n\n", ansiGold, ansiReset, ansiGoldLight, ansiItalic, ansiReset)
}

// printAlreadyCurrent prints the already-up-to-date message.
func printAlreadyCurrent(currentVersion string) {
	printUpdateLogo()
	fmt.Printf("\n  %s%s%s%s  %s%s✦%s  %s%scurrent%s\n",
		ansiSky, ansiBold, currentVersion, ansiReset,
		ansiGold, ansiBold, ansiReset,
		ansiSlate, ansiItalic, ansiReset,
	)
	fmt.Printf("\n  %s│%s %s%sNEXAGENTS%s\n", ansiGold, ansiReset, ansiGold, ansiBold, ansiReset)
	fmt.Printf("  %s│%s %s%sNo new orders. The agents stand ready.%s\n\n", ansiGold, ansiReset, ansiGoldLight, ansiItalic, ansiReset)
}
