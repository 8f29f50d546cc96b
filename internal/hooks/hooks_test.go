// ABOUTME: Tests for the mood hook engine: event detection, matchers, failures, timeout
// ABOUTME: Uses real shell commands to exercise the full execution path

package hooks

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mauromedda/pi-mood-go/internal/config"
	"github.com/mauromedda/pi-mood-go/internal/emotion"
)

func newEngine(t *testing.T, hooks map[string][]config.HookDef) *Engine {
	t.Helper()
	e, err := NewEngine(hooks)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func snapshot(dominant, band string, derived ...string) emotion.Snapshot {
	return emotion.Snapshot{
		Source:    emotion.SourceText,
		Dominant:  dominant,
		Intensity: emotion.Intensity{Band: band},
		Derived:   derived,
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	reset := snapshot("neutral", "very_high")
	reset.Source = emotion.SourceReset

	tests := []struct {
		name     string
		prev     emotion.Snapshot
		next     emotion.Snapshot
		want     []HookEvent
		subjects []string
	}{
		{"no change", snapshot("joy", "high"), snapshot("joy", "high"), nil, nil},
		{"dominant", snapshot("neutral", "very_high"), snapshot("joy", "high"), []HookEvent{MoodChanged}, []string{"joy"}},
		{"band", snapshot("joy", "high"), snapshot("joy", "very_high"), []HookEvent{BandChanged}, []string{"joy"}},
		{"derived", snapshot("joy", "high"), snapshot("joy", "high", "delight"), []HookEvent{DerivedMood}, []string{"delight"}},
		{"derived kept", snapshot("joy", "high", "delight"), snapshot("joy", "high", "delight"), nil, nil},
		{"dominant and derived", snapshot("neutral", "high"), snapshot("fear", "high", "awe"), []HookEvent{MoodChanged, DerivedMood}, []string{"fear", "awe"}},
		{"reset", snapshot("anger", "high", "resentment"), reset, []HookEvent{SessionReset}, []string{"s1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Detect("s1", tt.prev, tt.next)
			if len(got) != len(tt.want) {
				t.Fatalf("Detect() = %+v, want events %v", got, tt.want)
			}
			for i := range got {
				if got[i].Event != tt.want[i] || got[i].Subject != tt.subjects[i] {
					t.Errorf("event %d = %s/%s, want %s/%s", i, got[i].Event, got[i].Subject, tt.want[i], tt.subjects[i])
				}
				if got[i].SessionID != "s1" {
					t.Errorf("event %d session = %q", i, got[i].SessionID)
				}
			}
		})
	}
}

func TestDetect_FromTo(t *testing.T) {
	t.Parallel()

	got := Detect("s1", snapshot("joy", "high"), snapshot("joy", "moderate"))
	if len(got) != 1 || got[0].From != "high" || got[0].To != "moderate" {
		t.Errorf("band change = %+v", got)
	}
}

func TestEngine_Fire_Message(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, map[string][]config.HookDef{
		"MoodChanged": {{Command: `cat >/dev/null; echo '{"message":"ok"}'`}},
	})

	out, err := engine.Fire(context.Background(), HookInput{Event: MoodChanged, Subject: "joy"})
	if err != nil {
		t.Fatalf("Fire returned error: %v", err)
	}
	if out.Failed {
		t.Error("expected Failed=false for exit-0 hook")
	}
	if out.Message != "ok" {
		t.Errorf("Message = %q, want %q", out.Message, "ok")
	}
}

func TestEngine_Fire_Failure(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, map[string][]config.HookDef{
		"MoodChanged": {
			{Command: `echo "boom" >&2; exit 3`},
			{Command: `echo '{"message":"second ran"}'`},
		},
	})

	out, err := engine.Fire(context.Background(), HookInput{Event: MoodChanged, Subject: "anger"})
	if err != nil {
		t.Fatalf("Fire returned error: %v", err)
	}
	if !out.Failed {
		t.Error("expected Failed=true when a hook exits non-zero")
	}
	if out.Message != "second ran" {
		t.Errorf("Message = %q, want the later hook's message", out.Message)
	}
}

func TestEngine_Fire_MatcherFilter(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, map[string][]config.HookDef{
		"MoodChanged": {{Matcher: "^(anger|fear)$", Command: `exit 1`}},
	})

	out, err := engine.Fire(context.Background(), HookInput{Event: MoodChanged, Subject: "joy"})
	if err != nil {
		t.Fatalf("Fire returned error: %v", err)
	}
	if out.Failed {
		t.Error("hook ran for a subject its matcher rejects")
	}

	out, err = engine.Fire(context.Background(), HookInput{Event: MoodChanged, Subject: "fear"})
	if err != nil {
		t.Fatalf("Fire returned error: %v", err)
	}
	if !out.Failed {
		t.Error("hook did not run for a matching subject")
	}
}

func TestEngine_Fire_Timeout(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, map[string][]config.HookDef{
		"SessionReset": {{Command: "sleep 30"}},
	})
	engine.timeout = 200 * time.Millisecond

	start := time.Now()
	_, err := engine.Fire(context.Background(), HookInput{Event: SessionReset, Subject: "s1"})
	if err == nil {
		t.Fatal("expected error from timed-out hook")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("hook took %v, expected a kill after 200ms", elapsed)
	}
}

func TestEngine_Fire_GarbageOutput(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, map[string][]config.HookDef{
		"DerivedMood": {{Command: `echo "this is not json"`}},
	})

	_, err := engine.Fire(context.Background(), HookInput{Event: DerivedMood, Subject: "awe"})
	if err == nil {
		t.Fatal("expected error for non-JSON hook output")
	}
	if !strings.Contains(err.Error(), "parse hook output") {
		t.Errorf("error = %q, want it to mention 'parse hook output'", err)
	}
}

func TestEngine_Observe_PipesInput(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "input.json")
	engine := newEngine(t, map[string][]config.HookDef{
		"MoodChanged": {{Command: "cat > " + out}},
	})

	engine.Observe(context.Background(), "s1", snapshot("neutral", "very_high"), snapshot("joy", "high"))

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("hook did not write its input: %v", err)
	}
	var got struct {
		Event     string `json:"event"`
		Subject   string `json:"subject"`
		SessionID string `json:"session_id"`
		From      string `json:"from"`
		Snapshot  struct {
			Dominant string `json:"dominant"`
		} `json:"snapshot"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decoding hook input %s: %v", data, err)
	}
	if got.Event != "MoodChanged" || got.Subject != "joy" || got.SessionID != "s1" || got.From != "neutral" {
		t.Errorf("hook input = %+v", got)
	}
	if got.Snapshot.Dominant != "joy" {
		t.Errorf("snapshot dominant = %q", got.Snapshot.Dominant)
	}
}

func TestNewEngine_InvalidRegex(t *testing.T) {
	t.Parallel()

	_, err := NewEngine(map[string][]config.HookDef{
		"MoodChanged": {{Matcher: "[invalid", Command: "echo ok"}},
	})
	if err == nil {
		t.Fatal("expected error for invalid regex matcher")
	}
	if !strings.Contains(err.Error(), "invalid hook matcher") {
		t.Errorf("error = %q, want it to mention 'invalid hook matcher'", err)
	}
}

func TestNewEngine_UnknownEvent(t *testing.T) {
	t.Parallel()

	_, err := NewEngine(map[string][]config.HookDef{
		"MoodChange": {{Command: "echo ok"}},
	})
	if err == nil || !strings.Contains(err.Error(), `"MoodChanged"`) {
		t.Errorf("error = %v, want a suggestion for MoodChanged", err)
	}
}

func TestEngine_Len(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, map[string][]config.HookDef{
		"MoodChanged":  {{Command: "true"}, {Command: "true"}},
		"SessionReset": {{Command: "true"}},
	})
	if engine.Len() != 3 {
		t.Errorf("Len() = %d, want 3", engine.Len())
	}
}
