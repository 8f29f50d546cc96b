// ABOUTME: Markdown mood report built from a session's history
// ABOUTME: Rendered for terminals with glamour; plain markdown when not a TTY

package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/mauromedda/pi-mood-go/internal/catalog"
	"github.com/mauromedda/pi-mood-go/internal/emotion"
)

// Markdown summarizes history and the current snapshot as a markdown document.
func Markdown(cat *catalog.Catalog, title string, current emotion.Snapshot, history []emotion.Snapshot) string {
	var b strings.Builder
	if title == "" {
		title = "Mood report"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "**Current:** %s, %s (%.2f), turn %d\n\n",
		current.Dominant, orDash(current.Intensity.Band), current.Intensity.Value, current.Turn)
	if len(current.Derived) > 0 {
		fmt.Fprintf(&b, "**Derived:** %s\n\n", strings.Join(current.Derived, ", "))
	}

	if len(history) == 0 {
		b.WriteString("_No turns recorded._\n")
		return b.String()
	}

	b.WriteString("## Turns\n\n")
	b.WriteString("| Turn | Source | Context | Dominant | Intensity | Derived |\n")
	b.WriteString("|---:|---|---|---|---|---|\n")
	for _, s := range history {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s %.2f | %s |\n",
			s.Turn, s.Source, orDash(s.Context), s.Dominant,
			orDash(s.Intensity.Band), s.Intensity.Value, orDash(strings.Join(s.Derived, ", ")))
	}

	b.WriteString("\n## Dominant share\n\n")
	counts := map[string]int{}
	for _, s := range history {
		counts[s.Dominant]++
	}
	for _, id := range cat.IDs() {
		n := counts[id]
		if n == 0 {
			continue
		}
		fmt.Fprintf(&b, "- %s: %d of %d turns (%.0f%%)\n", id, n, len(history), 100*float64(n)/float64(len(history)))
	}

	derived := map[string]int{}
	for _, s := range history {
		for _, name := range s.Derived {
			derived[name]++
		}
	}
	if len(derived) > 0 {
		b.WriteString("\n## Derived moods\n\n")
		for _, c := range cat.Combinations() {
			if n := derived[c.Name]; n > 0 {
				fmt.Fprintf(&b, "- %s (%s + %s): %d turns\n", c.Name, c.Components[0], c.Components[1], n)
			}
		}
	}

	a := current.Affect
	b.WriteString("\n## Affect\n\n")
	fmt.Fprintf(&b, "| Energy | Positivity | Arousal | Dominance |\n|---:|---:|---:|---:|\n| %.2f | %.2f | %.2f | %.2f |\n",
		a.Energy, a.Positivity, a.Arousal, a.Dominance)
	return b.String()
}

// Render styles md for a terminal of the given width. With tty false the
// "notty" style is used. Otherwise the dark or light style follows
// lipgloss's background setting, so rendering never queries the terminal.
func Render(md string, width int, tty bool) (string, error) {
	if md == "" {
		return "", nil
	}
	style := glamour.WithStandardStyle(StyleName(tty))
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return strings.TrimRight(out, "\n ") + "\n", nil
}

// StyleName returns the glamour standard style used by Render.
func StyleName(tty bool) string {
	switch {
	case !tty:
		return "notty"
	case lipgloss.HasDarkBackground():
		return "dark"
	default:
		return "light"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
