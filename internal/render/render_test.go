// ABOUTME: Tests for activation bars, headlines, and the aligned activation table
// ABOUTME: Uses plain styles so assertions compare unstyled text

package render

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/mauromedda/pi-mood-go/internal/catalog"
	"github.com/mauromedda/pi-mood-go/internal/emotion"
)

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default: %v", err)
	}
	return c
}

func TestBar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v     float64
		width int
		want  string
	}{
		{0, 4, "░░░░"},
		{0.5, 4, "██░░"},
		{0.26, 4, "█░░░"},
		{1, 4, "████"},
		{1.5, 4, "████"},
		{-1, 4, "░░░░"},
		{0.5, 0, ""},
	}
	for _, tt := range tests {
		if got := Bar(tt.v, tt.width); got != tt.want {
			t.Errorf("Bar(%v, %d) = %q, want %q", tt.v, tt.width, got, tt.want)
		}
	}
}

func TestHeadlineAndLine(t *testing.T) {
	t.Parallel()

	r := New(defaultCatalog(t), false)
	s := emotion.Snapshot{
		Turn:     3,
		Dominant: "joy",
		Intensity: emotion.Intensity{
			Value:       0.95,
			Band:        "very_high",
			Description: "overwhelming",
		},
		Derived: []string{"delight"},
		Affect:  catalog.Affect{Positivity: 0.9},
	}

	if got, want := r.Headline(s), "joy · very_high (overwhelming) · +delight"; got != want {
		t.Errorf("Headline = %q, want %q", got, want)
	}
	if got, want := r.Line(s), "[3] joy · very_high (overwhelming) · +delight 0.95"; got != want {
		t.Errorf("Line = %q, want %q", got, want)
	}
}

func TestTable_AlignsRows(t *testing.T) {
	t.Parallel()

	cat := defaultCatalog(t)
	r := New(cat, false)
	r.SetBarWidth(10)
	eng := emotion.NewEngine(cat, emotion.Options{})

	lines := strings.Split(strings.TrimRight(r.Table(eng.Current()), "\n"), "\n")
	if len(lines) != cat.Len() {
		t.Fatalf("got %d rows, want %d", len(lines), cat.Len())
	}
	if !strings.HasPrefix(lines[0], "> neutral") {
		t.Errorf("first row = %q, want dominant neutral marker", lines[0])
	}
	if !strings.Contains(lines[0], "██████████ 1.00") {
		t.Errorf("neutral row = %q, want full bar", lines[0])
	}
	w := runewidth.StringWidth(lines[0])
	for _, l := range lines[1:] {
		if got := runewidth.StringWidth(l); got != w {
			t.Errorf("row %q width %d, want %d", l, got, w)
		}
		if !strings.HasPrefix(l, "  ") {
			t.Errorf("non-dominant row %q should start unmarked", l)
		}
	}
}

func TestModifiers_Sorted(t *testing.T) {
	t.Parallel()

	if got := Modifiers(map[string]string{"tone": "warm", "pace": "fast"}); got != "pace=fast tone=warm" {
		t.Errorf("Modifiers = %q", got)
	}
	if got := Modifiers(nil); got != "" {
		t.Errorf("Modifiers(nil) = %q, want empty", got)
	}
}

func TestView_IncludesAffect(t *testing.T) {
	t.Parallel()

	cat := defaultCatalog(t)
	r := New(cat, false)
	eng := emotion.NewEngine(cat, emotion.Options{})
	out := r.View(eng.Current())

	for _, want := range []string{"neutral", "energy 0.50", "positivity 0.50"} {
		if !strings.Contains(out, want) {
			t.Errorf("View missing %q:\n%s", want, out)
		}
	}
}

func TestTone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		positivity float64
		want       string
	}{
		{0.9, TonePositive},
		{0.6, TonePositive},
		{0.5, ToneMixed},
		{0.35, ToneNegative},
		{0.1, ToneNegative},
	}
	for _, tt := range tests {
		if got := Tone(catalog.Affect{Positivity: tt.positivity}); got != tt.want {
			t.Errorf("Tone(%v) = %q, want %q", tt.positivity, got, tt.want)
		}
	}
}
