// ABOUTME: Pre-sets the lipgloss background before Bubble Tea's init() can query the terminal
// ABOUTME: PI_MOOD_BACKGROUND=light selects light styles; anything else keeps the dark default

package termfix

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BackgroundEnv names the variable that overrides the assumed background.
const BackgroundEnv = "PI_MOOD_BACKGROUND"

func init() {
	// Setting the background explicitly skips lipgloss's OSC 10/11 query.
	// This package must not import bubbletea so this init runs first.
	lipgloss.SetHasDarkBackground(isDark(os.Getenv(BackgroundEnv)))
}

func isDark(v string) bool {
	return !strings.EqualFold(strings.TrimSpace(v), "light")
}
