// ABOUTME: Terminal rendering of mood snapshots: activation bars, summary lines, affect tint
// ABOUTME: Widths are measured with go-runewidth so wide emotion IDs stay aligned

package render

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/mauromedda/pi-mood-go/internal/catalog"
	"github.com/mauromedda/pi-mood-go/internal/emotion"
)

// DefaultBarWidth is the cell width of an activation bar.
const DefaultBarWidth = 20

// maxLabelWidth truncates long emotion IDs in the activation table.
const maxLabelWidth = 16

const (
	fullCell  = "█"
	emptyCell = "░"
)

// Styles groups the lipgloss styles used by a Renderer.
type Styles struct {
	Label    lipgloss.Style
	Dominant lipgloss.Style
	Positive lipgloss.Style
	Negative lipgloss.Style
	Mixed    lipgloss.Style
	Dim      lipgloss.Style
}

// ColorStyles returns the colored palette.
func ColorStyles() Styles {
	return Styles{
		Label:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Dominant: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75")),
		Positive: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Negative: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Mixed:    lipgloss.NewStyle().Foreground(lipgloss.Color("221")),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{Label: plain, Dominant: plain, Positive: plain, Negative: plain, Mixed: plain, Dim: plain}
}

// Renderer formats snapshots of one catalog.
type Renderer struct {
	cat      *catalog.Catalog
	styles   Styles
	barWidth int
}

// New creates a renderer. color selects ColorStyles over PlainStyles.
func New(cat *catalog.Catalog, color bool) *Renderer {
	st := PlainStyles()
	if color {
		st = ColorStyles()
	}
	return &Renderer{cat: cat, styles: st, barWidth: DefaultBarWidth}
}

// SetBarWidth changes the bar width; values below 1 are ignored.
func (r *Renderer) SetBarWidth(w int) {
	if w > 0 {
		r.barWidth = w
	}
}

// Bar draws v in [0, 1] as width cells, rounding to the nearest cell.
func Bar(v float64, width int) string {
	if width <= 0 {
		return ""
	}
	switch {
	case v != v || v < 0:
		v = 0
	case v > 1:
		v = 1
	}
	filled := int(v*float64(width) + 0.5)
	return strings.Repeat(fullCell, filled) + strings.Repeat(emptyCell, width-filled)
}

// Headline describes the dominant emotion, e.g. "joy · very_high (overwhelming) · +delight".
func (r *Renderer) Headline(s emotion.Snapshot) string {
	var b strings.Builder
	b.WriteString(r.styles.Dominant.Render(s.Dominant))
	if s.Intensity.Band != "" {
		fmt.Fprintf(&b, " · %s", s.Intensity.Band)
		if s.Intensity.Description != "" {
			fmt.Fprintf(&b, " (%s)", s.Intensity.Description)
		}
	}
	for _, name := range s.Derived {
		b.WriteString(" · ")
		b.WriteString(r.tone(s.Affect).Render("+" + name))
	}
	return b.String()
}

// Line renders a compact single-line summary prefixed with the turn number.
func (r *Renderer) Line(s emotion.Snapshot) string {
	return fmt.Sprintf("%s %s %.2f",
		r.styles.Dim.Render(fmt.Sprintf("[%d]", s.Turn)),
		r.Headline(s),
		s.Intensity.Value)
}

// Table renders one bar per emotion in declaration order. The dominant row
// is marked with '>'.
func (r *Renderer) Table(s emotion.Snapshot) string {
	ids := r.cat.IDs()
	labelWidth := 0
	for _, id := range ids {
		labelWidth = max(labelWidth, min(runewidth.StringWidth(id), maxLabelWidth))
	}

	var b strings.Builder
	for _, id := range ids {
		v := s.Activation(id)
		label := runewidth.FillRight(runewidth.Truncate(id, maxLabelWidth, "…"), labelWidth)
		marker := " "
		labelStyle := r.styles.Label
		if id == s.Dominant {
			marker = ">"
			labelStyle = r.styles.Dominant
		}
		fmt.Fprintf(&b, "%s %s %s %.2f\n",
			marker,
			labelStyle.Render(label),
			r.tone(r.cat.Affect(id)).Render(Bar(v, r.barWidth)),
			v)
	}
	return b.String()
}

// Affect renders the blended affect vector on one line.
func (r *Renderer) Affect(a catalog.Affect) string {
	return r.tone(a).Render(fmt.Sprintf("energy %.2f  positivity %.2f  arousal %.2f  dominance %.2f",
		a.Energy, a.Positivity, a.Arousal, a.Dominance))
}

// View combines headline, table, affect and response modifiers.
func (r *Renderer) View(s emotion.Snapshot) string {
	var b strings.Builder
	b.WriteString(r.Headline(s))
	b.WriteString("\n\n")
	b.WriteString(r.Table(s))
	b.WriteString("\n")
	b.WriteString(r.Affect(s.Affect))
	b.WriteString("\n")
	if mods := Modifiers(s.Modifiers); mods != "" {
		b.WriteString(r.styles.Dim.Render(mods))
		b.WriteString("\n")
	}
	return b.String()
}

// Modifiers formats response modifiers as sorted key=value pairs.
func Modifiers(m map[string]string) string {
	if len(m) == 0 {
		return ""
	}
	keys := slices.Sorted(maps.Keys(m))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + m[k]
	}
	return strings.Join(parts, " ")
}

// Tones returned by Tone.
const (
	TonePositive = "positive"
	ToneNegative = "negative"
	ToneMixed    = "mixed"
)

// Tone classifies an affect vector by its positivity.
func Tone(a catalog.Affect) string {
	switch {
	case a.Positivity >= 0.6:
		return TonePositive
	case a.Positivity <= 0.35:
		return ToneNegative
	default:
		return ToneMixed
	}
}

func (r *Renderer) tone(a catalog.Affect) lipgloss.Style {
	switch Tone(a) {
	case TonePositive:
		return r.styles.Positive
	case ToneNegative:
		return r.styles.Negative
	default:
		return r.styles.Mixed
	}
}
