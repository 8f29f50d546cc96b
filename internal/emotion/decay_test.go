// ABOUTME: Tests for per-turn decay toward the neutral resting state
// ABOUTME: Supported dominants hold; faded values snap to zero at the floor

package emotion

import "testing"

func TestDecay(t *testing.T) {
	t.Parallel()

	cat := defaultCatalog(t)
	act := Baseline(cat)
	act["joy"] = 0.5
	act["sadness"] = 0.01
	act["anger"] = 0.4
	act.settle()

	tests := []struct {
		name      string
		supported bool
		joy       float64
	}{
		{"supported dominant holds", true, 0.5},
		{"unsupported dominant fades", false, 0.45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Decay(cat, act, "joy", tt.supported, DefaultDecayFloor)
			if !approx(got["joy"], tt.joy) {
				t.Errorf("joy = %v, want %v", got["joy"], tt.joy)
			}
			if got["sadness"] != 0 {
				t.Errorf("sadness = %v, want snapped to 0", got["sadness"])
			}
			if !approx(got["anger"], 0.32) {
				t.Errorf("anger = %v, want 0.32", got["anger"])
			}
			if !approx(got["neutral"], 1-tt.joy) {
				t.Errorf("neutral = %v, want %v", got["neutral"], 1-tt.joy)
			}
		})
	}

	if act["joy"] != 0.5 {
		t.Errorf("Decay mutated its input: %v", act)
	}
}

func TestDecay_BaselineIsFixedPoint(t *testing.T) {
	t.Parallel()

	cat := defaultCatalog(t)
	got := Decay(cat, Baseline(cat), "neutral", false, DefaultDecayFloor)
	for id, v := range got {
		want := 0.0
		if id == "neutral" {
			want = 1
		}
		if v != want {
			t.Errorf("%s = %v, want %v", id, v, want)
		}
	}
}
