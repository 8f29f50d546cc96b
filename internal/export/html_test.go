// ABOUTME: Tests for HTML export of mood sessions
// ABOUTME: Validates template rendering of the header, turn rows, and escaping

package export

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/mauromedda/pi-mood-go/internal/catalog"
	"github.com/mauromedda/pi-mood-go/internal/emotion"
	"github.com/mauromedda/pi-mood-go/internal/session"
)

func exportSession(t *testing.T, title string, lines ...string) string {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	h := session.NewRegistry(cat, emotion.Options{}, nil).Handle("h1")
	ctx := context.Background()
	for _, line := range lines {
		if _, err := h.Update(ctx, line, ""); err != nil {
			t.Fatal(err)
		}
	}
	cur, err := h.Current(ctx)
	if err != nil {
		t.Fatal(err)
	}
	history, err := h.History(ctx)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := ExportHTML(cat, title, cur, history, &buf); err != nil {
		t.Fatalf("ExportHTML: %v", err)
	}
	return buf.String()
}

func TestExportHTML_Turns(t *testing.T) {
	t.Parallel()

	out := exportSession(t, "Session h1", "I am so happy and excited!", "I am scared and worried")

	if !strings.Contains(out, "<html") {
		t.Error("expected HTML document")
	}
	if !strings.Contains(out, "<title>Session h1</title>") {
		t.Error("expected the title")
	}
	if got := strings.Count(out, `<tr class="turn `); got != 2 {
		t.Errorf("turn rows = %d, want 2", got)
	}
	if !strings.Contains(out, `<span class="badge">joy</span>`) {
		t.Error("expected a joy badge")
	}
	if !strings.Contains(out, `title="neutral`) {
		t.Error("expected an activation cell per catalog emotion")
	}
	if !strings.Contains(out, "width: ") {
		t.Error("expected intensity bar widths")
	}
}

func TestExportHTML_Empty(t *testing.T) {
	t.Parallel()

	out := exportSession(t, "")
	if !strings.Contains(out, "<title>Mood session</title>") {
		t.Error("expected the default title")
	}
	if !strings.Contains(out, "No turns recorded.") {
		t.Error("expected empty history marker")
	}
	if !strings.Contains(out, `<div class="current mixed">`) && !strings.Contains(out, `<div class="current positive">`) && !strings.Contains(out, `<div class="current negative">`) {
		t.Error("expected the current-state header")
	}
}

func TestExportHTML_EscapesTitle(t *testing.T) {
	t.Parallel()

	out := exportSession(t, "<script>alert(1)</script>")
	if strings.Contains(out, "<script>") {
		t.Error("title must be HTML-escaped")
	}
}

func TestHelpers(t *testing.T) {
	t.Parallel()

	if got := string(barStyle(0.5)); got != "width: 50%" {
		t.Errorf("barStyle(0.5) = %q", got)
	}
	if got := string(barStyle(2)); got != "width: 100%" {
		t.Errorf("barStyle(2) = %q", got)
	}
	if got := abbrev("x"); got != "x" {
		t.Errorf("abbrev(x) = %q", got)
	}
	if got := abbrev("joy"); got != "jo" {
		t.Errorf("abbrev(joy) = %q", got)
	}
}
