// ABOUTME: Mood hook events and the input/output structs exchanged with hook commands
// ABOUTME: Events derives which hooks a transition between two snapshots fires

package hooks

import (
	"slices"

	"github.com/mauromedda/pi-mood-go/internal/emotion"
)

// HookEvent identifies a change in a session's mood.
type HookEvent string

const (
	MoodChanged  HookEvent = "MoodChanged"  // dominant emotion changed; subject is the new dominant
	BandChanged  HookEvent = "BandChanged"  // same dominant, new intensity band; subject is the dominant
	DerivedMood  HookEvent = "DerivedMood"  // a derived mood appeared; subject is its name
	SessionReset HookEvent = "SessionReset" // session returned to neutral; subject is the session ID
)

// Events lists every hook event name.
var Events = []HookEvent{MoodChanged, BandChanged, DerivedMood, SessionReset}

// HookInput is the data passed to a hook command via stdin as JSON.
type HookInput struct {
	Event     HookEvent        `json:"event"`
	Subject   string           `json:"subject"`
	SessionID string           `json:"session_id,omitempty"`
	From      string           `json:"from,omitempty"`
	To        string           `json:"to,omitempty"`
	Snapshot  emotion.Snapshot `json:"snapshot"`
}

// HookOutput is the JSON response a hook command may print on stdout.
type HookOutput struct {
	Message string `json:"message,omitempty"`
	Failed  bool   `json:"-"`
}

// Detect returns the events fired by moving from prev to next, in the order
// reset, dominant or band change, then newly derived moods.
func Detect(id string, prev, next emotion.Snapshot) []HookInput {
	base := HookInput{SessionID: id, Snapshot: next}
	if next.Source == emotion.SourceReset {
		in := base
		in.Event, in.Subject, in.From, in.To = SessionReset, id, prev.Dominant, next.Dominant
		return []HookInput{in}
	}

	var out []HookInput
	switch {
	case prev.Dominant != next.Dominant:
		in := base
		in.Event, in.Subject, in.From, in.To = MoodChanged, next.Dominant, prev.Dominant, next.Dominant
		out = append(out, in)
	case prev.Intensity.Band != next.Intensity.Band:
		in := base
		in.Event, in.Subject, in.From, in.To = BandChanged, next.Dominant, prev.Intensity.Band, next.Intensity.Band
		out = append(out, in)
	}
	for _, name := range next.Derived {
		if slices.Contains(prev.Derived, name) {
			continue
		}
		in := base
		in.Event, in.Subject = DerivedMood, name
		out = append(out, in)
	}
	return out
}
