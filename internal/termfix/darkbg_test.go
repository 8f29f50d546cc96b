// ABOUTME: Tests for the background override parsing
// ABOUTME: Only "light" (any case) switches away from the dark default

package termfix

import "testing"

func TestIsDark(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"dark", true},
		{"light", false},
		{" LIGHT ", false},
		{"solarized", true},
	}
	for _, tt := range tests {
		if got := isDark(tt.in); got != tt.want {
			t.Errorf("isDark(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
