// ABOUTME: Tests for keyword tokenization and trigger detection
// ABOUTME: Covers normalization, suffixes, phrases, saturation, and amplifier words

package emotion

import (
	"slices"
	"testing"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"I am so HAPPY, and excited!", []string{"i", "am", "so", "happy", "and", "excited"}},
		{"I'm curious about this", []string{"i'm", "curious", "about", "this"}},
		{"   \t\n", nil},
		{"!!! ...", nil},
		{"Straße", []string{"strasse"}},
	}
	for _, tt := range tests {
		if got := Tokenize(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("Tokenize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	d := NewDetector(defaultCatalog(t), 0)
	tests := []struct {
		name    string
		text    string
		emotion string
		want    float64
	}{
		{"two joy keywords", "I am so happy and excited!", "joy", 1.0},
		{"single keyword", "actually that was unexpected", "surprise", 0.75},
		{"suffix", "we are learning things here today", "curiosity", 0.5},
		{"phrase", "please tell me more about it", "curiosity", 0.5},
		{"saturation", "happy happy happy happy", "joy", 0.75},
		{"case folded", "WOW that was a Surprise today", "surprise", 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			det := d.Detect(tt.text)
			if got := det.Deltas[tt.emotion]; !approx(got, tt.want) {
				t.Errorf("Detect(%q)[%s] = %v, want %v", tt.text, tt.emotion, got, tt.want)
			}
		})
	}
}

func TestDetect_NoMatch(t *testing.T) {
	t.Parallel()

	d := NewDetector(defaultCatalog(t), 0)
	for _, text := range []string{"", "   ", "the weather report", "made it home"} {
		det := d.Detect(text)
		if len(det.Deltas) != 0 {
			t.Errorf("Detect(%q) = %v, want no evidence", text, det.Deltas)
		}
	}
}

func TestDetect_WholeTokensOnly(t *testing.T) {
	t.Parallel()

	d := NewDetector(defaultCatalog(t), 0)
	det := d.Detect("she was unhappy")
	if _, ok := det.Deltas["joy"]; ok {
		t.Errorf("joy matched inside %q: %v", "unhappy", det.Matches)
	}
	if !approx(det.Deltas["sadness"], 1.0) {
		t.Errorf("sadness = %v, want 1.0", det.Deltas["sadness"])
	}
}

func TestDetect_MatchesAndAmplifiers(t *testing.T) {
	t.Parallel()

	d := NewDetector(defaultCatalog(t), 0)
	det := d.Detect("I am so happy and excited!")
	if det.Tokens != 6 {
		t.Errorf("Tokens = %d, want 6", det.Tokens)
	}
	if !slices.Equal(det.Matches["joy"], []string{"happy", "excited"}) {
		t.Errorf("Matches[joy] = %v", det.Matches["joy"])
	}
	if !slices.Equal(det.Amplifiers, []string{"so"}) {
		t.Errorf("Amplifiers = %v, want [so]", det.Amplifiers)
	}
}

func TestDetect_Sensitivity(t *testing.T) {
	t.Parallel()

	d := NewDetector(defaultCatalog(t), 1.5)
	det := d.Detect("happy today")
	if !approx(det.Deltas["joy"], 0.75) {
		t.Errorf("joy = %v, want 0.75", det.Deltas["joy"])
	}
}
