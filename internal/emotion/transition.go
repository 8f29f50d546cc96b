// ABOUTME: Transition engine: Markov-like dominant shift biased by catalog weights
// ABOUTME: combined(E) = existing(E) + delta(E) + weight(D->E) * sum(deltas)

package emotion

import (
	"math"

	"github.com/mauromedda/pi-mood-go/internal/catalog"
)

// neutralCeiling is the highest non-neutral activation that still leaves the
// resting complement (1 - max) at or above it.
const neutralCeiling = 0.5

// TransitionResult is the outcome of one transition step.
type TransitionResult struct {
	From        string
	To          string
	Strength    float64            // sum of the cycle's deltas
	Scores      map[string]float64 // unclamped combined scores
	Activations Activations        // clamped, neutral settled
}

// Changed reports whether the dominant emotion moved.
func (r TransitionResult) Changed() bool {
	return r.From != r.To
}

// Transition combines existing activations with the cycle's evidence.
//
// With no evidence the table is not consulted: activations are kept and the
// dominant is re-derived from them. Otherwise every emotion is scored as
// existing + delta + weight(dominant -> E) * strength; neutral's existing term
// is the resting complement of the other scores. Weights are used as given.
// When neutral wins, the other emotions keep their clamped scores up to
// neutralCeiling, the most they can hold while the complement stays on top.
func Transition(cat *catalog.Catalog, act Activations, dominant string, deltas Deltas, tb TieBreak) TransitionResult {
	ids := cat.IDs()
	res := TransitionResult{
		From:     dominant,
		Strength: deltas.Sum(),
	}

	if res.Strength <= 0 {
		next := act.Clone()
		next.settle()
		res.Scores = map[string]float64(next.Clone())
		res.Activations = next
		res.To = argmax(ids, next, dominant, tb)
		return res
	}

	scores := make(map[string]float64, len(ids))
	var maxOther float64
	for _, id := range ids {
		if id == catalog.Neutral {
			continue
		}
		s := act[id] + deltas[id] + cat.Transition(dominant, id)*res.Strength
		scores[id] = s
		maxOther = math.Max(maxOther, clamp01(s))
	}
	scores[catalog.Neutral] = (1 - maxOther) + deltas[catalog.Neutral] +
		cat.Transition(dominant, catalog.Neutral)*res.Strength

	res.Scores = scores
	res.To = argmax(ids, scores, dominant, tb)

	next := make(Activations, len(scores))
	for id, s := range scores {
		next[id] = clamp01(s)
	}
	if res.To == catalog.Neutral {
		next.capOthers(neutralCeiling)
	}
	next.settle()
	res.Activations = next
	return res
}
