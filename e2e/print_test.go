// ABOUTME: E2E tests for print mode through pipes: JSON output, one-shot flags, persistence
// ABOUTME: Sessions persist in the file store under the test's HOME between runs

package e2e

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type printOutput struct {
	Session   string `json:"session"`
	Final     snap   `json:"final"`
	Snapshots []snap `json:"snapshots"`
}

type snap struct {
	Turn     int      `json:"turn"`
	Source   string   `json:"source"`
	Context  string   `json:"context"`
	Dominant string   `json:"dominant"`
	Derived  []string `json:"derived"`
}

func decodePrint(t *testing.T, out string) printOutput {
	t.Helper()
	var got printOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	return got
}

func TestPrint_JSONFromStdin(t *testing.T) {
	skipShort(t)

	home := t.TempDir()
	out, _ := runPiped(t, home, "I am so happy and excited!\nI am scared and worried\n", "--format", "json")
	got := decodePrint(t, out)

	if got.Session != "default" || len(got.Snapshots) != 2 {
		t.Fatalf("output = %+v", got)
	}
	if got.Snapshots[0].Dominant != "joy" || got.Final.Turn != 2 {
		t.Errorf("snapshots = %+v final = %+v", got.Snapshots, got.Final)
	}
}

func TestPrint_StatePersistsAcrossRuns(t *testing.T) {
	skipShort(t)

	home := t.TempDir()
	runPiped(t, home, "I am so happy and excited!\n", "--format", "json", "--session", "keep")
	out, _ := runPiped(t, home, "", "--format", "json", "--session", "keep", "okay")
	got := decodePrint(t, out)
	if got.Final.Turn != 2 {
		t.Errorf("turn after second run = %d, want 2", got.Final.Turn)
	}
	if _, err := os.Stat(filepath.Join(home, ".pi-mood", "sessions", "keep.state.json")); err != nil {
		t.Errorf("state file missing: %v", err)
	}

	out, _ = runPiped(t, home, "", "--format", "json", "--session", "keep", "--reset", "okay")
	if got := decodePrint(t, out); got.Final.Turn != 1 {
		t.Errorf("turn after reset = %d, want 1", got.Final.Turn)
	}
}

func TestPrint_EventFlagAndContext(t *testing.T) {
	skipShort(t)

	home := t.TempDir()
	out, _ := runPiped(t, home, "", "--format", "json", "--event", "task_completed", "--intensity", "0.8",
		"--context", "learning_context", "how does this work?")
	got := decodePrint(t, out)
	if len(got.Snapshots) != 2 {
		t.Fatalf("len(snapshots) = %d, want 2", len(got.Snapshots))
	}
	if got.Snapshots[0].Source != "event" || got.Snapshots[1].Context != "learning_context" {
		t.Errorf("snapshots = %+v", got.Snapshots)
	}
}

func TestPrint_StreamJSONAndExport(t *testing.T) {
	skipShort(t)

	home := t.TempDir()
	exportDir := filepath.Join(home, "export")
	out, _ := runPiped(t, home, "hello\nthank you so much\n", "--format", "stream-json", "--export", exportDir)

	lines := 0
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		var rec map[string]any
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("line %q: %v", sc.Text(), err)
		}
		lines++
	}
	if lines != 4 {
		t.Errorf("stream lines = %d, want 4 (start, 2 snapshots, end)", lines)
	}
	if _, err := os.Stat(filepath.Join(exportDir, "default.jsonl")); err != nil {
		t.Errorf("export file missing: %v", err)
	}
}

func TestPrint_DumpCatalogAndVersion(t *testing.T) {
	skipShort(t)

	home := t.TempDir()
	out, _ := runPiped(t, home, "", "--dump-catalog")
	if !strings.Contains(out, "moods:") || !strings.Contains(out, "emotion_combinations:") {
		t.Errorf("dump-catalog output:\n%s", out)
	}
	out, _ = runPiped(t, home, "", "--version")
	if !strings.HasPrefix(out, "pi-mood ") {
		t.Errorf("version output = %q", out)
	}
}

func TestPrint_UnknownContextWarns(t *testing.T) {
	skipShort(t)

	home := t.TempDir()
	_, errOut := runPiped(t, home, "", "--context", "lerning", "hi")
	if !strings.Contains(errOut, `did you mean "learning_context"?`) {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestPrint_HTMLExport(t *testing.T) {
	skipShort(t)

	home := t.TempDir()
	page := filepath.Join(home, "mood.html")
	runPiped(t, home, "I am so happy and excited!\n", "--format", "json", "--html", page)

	data, err := os.ReadFile(page)
	if err != nil {
		t.Fatalf("html not written: %v", err)
	}
	if !strings.Contains(string(data), "<title>Session default</title>") || !strings.Contains(string(data), `<span class="badge">joy</span>`) {
		t.Errorf("unexpected html:\n%s", data)
	}
}
