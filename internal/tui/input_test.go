package tui

import (
	"strings"
	"testing"
)

func TestEditRuneAddCharacters(t *testing.T) {
	tests := []struct {
		name  string
		start string
		key   string
		want  string
	}{
		{"append to empty", "", "a", "a"},
		{"append letter", "hel", "l", "hell"},
		{"append digit", "abc", "1", "abc1"},
		{"append space", "hello", " ", "hello "},
		{"append special", "abc", "!", "abc!"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := editRune(tc.start, tc.key)
			if got != tc.want {
				t.Errorf("editRune(%q, %q) = %q, want %q", tc.start, tc.key, got, tc.want)
			}
		})
	}
}

func TestEditRuneBackspace(t *testing.T) {
	tests := []struct {
		name  string
		start string
		want  string
	}{
		{"backspace on single char", "a", ""},
		{"backspace on longer string", "hello", "hell"},
		{"backspace on empty does nothing", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := editRune(tc.start, "backspace")
			if got != tc.want {
				t.Errorf("editRune(%q, 'backspace') = %q, want %q", tc.start, got, tc.want)
			}
		})
	}
}

func TestEditRuneBackspaceMultibyte(t *testing.T) {
	// Backspace should remove a full rune, not just one byte.
	got := editRune("héllo", "backspace")
	if got != "héll" {
		t.Errorf("editRune(multi-byte, backspace) = %q, want %q", got, "héll")
	}

	// Backspace on a string ending with a multi-byte rune removes that rune cleanly.
	got2 := editRune("hellé", "backspace")
	if got2 != "hell" {
		t.Errorf("editRune ending with multi-byte rune: = %q, want %q", got2, "hell")
	}
}

func TestEditRuneIgnoresNonPrintableKeys(t *testing.T) {
	nonPrintable := []string{
		"enter",
		"esc",
		"up",
		"down",
		"left",
		"right",
		"ctrl+c",
		"ctrl+s",
		"tab",
		"shift+tab",
		"pgup",
		"pgdown",
	}

	original := "hello"
	for _, key := range nonPrintable {
		t.Run(key, func(t *testing.T) {
			got := editRune(original, key)
			if got != original {
				t.Errorf("editRune(%q, %q) = %q, want unchanged %q", original, key, got, original)
			}
		})
	}
}

func TestEditRuneMaxInputLen(t *testing.T) {
	atLimit := strings.Repeat("a", maxInputLen)
	belowLimit := strings.Repeat("a", maxInputLen-1)

	tests := []struct {
		name string
		text string
		key  string
		want string
	}{
		{"at limit rejects new char", atLimit, "b", atLimit},
		{"below limit accepts new char", belowLimit, "b", belowLimit + "b"},
		{"at limit backspace still works", atLimit, "backspace", atLimit[:len(atLimit)-1]},
		{"at limit non-printable ignored", atLimit, "enter", atLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := editRune(tt.text, tt.key)
			if got != tt.want {
				t.Errorf("editRune(..., %q): len(got)=%d runes, want len=%d runes",
					tt.key, len([]rune(got)), len([]rune(tt.want)))
			}
		})
	}
}

func TestTruncateToHeightLimitsLines(t *testing.T) {
	input := "line1\nline2\nline3\nline4\nline5\n"
	result := truncateToHeight(input, 3)

	lines := strings.Count(result, "\n")
	if lines > 3 {
		t.Errorf("truncateToHeight(5 lines, 3) produced %d newlines, want <= 3", lines)
	}
	if !strings.Contains(result, "line1") {
		t.Errorf("truncateToHeight result missing first line: %q", result)
	}
	if strings.Contains(result, "line4") {
		t.Errorf("truncateToHeight result should not contain line4: %q", result)
	}
}

func TestTruncateToHeightReturnsFullStringWhenWithinLimit(t *testing.T) {
	input := "line1\nline2\nline3\n"
	result := truncateToHeight(input, 10)
	if result != input {
		t.Errorf("truncateToHeight with maxLines > linecount: got %q, want %q", result, input)
	}
}

func TestTruncateToHeightZeroMaxReturnsAll(t *testing.T) {
	input := "line1\nline2\nline3\nline4\nline5\n"
	result := truncateToHeight(input, 0)
	if result != input {
		t.Errorf("truncateToHeight with maxLines=0 should return input unchanged, got %q", result)
	}
}
