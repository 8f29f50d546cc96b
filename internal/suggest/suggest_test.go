// ABOUTME: Tests for fuzzy "did you mean" hints
// ABOUTME: Candidate lists mirror the built-in context tags

package suggest

import "testing"

var tags = []string{"conversation_start", "learning_context", "problem_solving", "casual_chat"}

func TestClosest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		want    string
		ok      bool
	}{
		{"lerning", "learning_context", true},
		{"casual", "casual_chat", true},
		{"zzz", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := Closest(tt.pattern, tags)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Closest(%q) = (%q, %v), want (%q, %v)", tt.pattern, got, ok, tt.want, tt.ok)
		}
	}
}

func TestHint(t *testing.T) {
	t.Parallel()

	if got, want := Hint("context", "lerning", tags), `unknown context "lerning" (did you mean "learning_context"?)`; got != want {
		t.Errorf("Hint = %q, want %q", got, want)
	}
	if got, want := Hint("event", "zzz", tags), `unknown event "zzz"`; got != want {
		t.Errorf("Hint = %q, want %q", got, want)
	}
}

func TestFind_RanksBestFirst(t *testing.T) {
	t.Parallel()

	m := Find("chat", []string{"c_h_a_t_x", "casual_chat", "chat"})
	if len(m) == 0 || m[0].Str != "chat" {
		t.Fatalf("Find best = %+v, want exact match first", m)
	}
}
