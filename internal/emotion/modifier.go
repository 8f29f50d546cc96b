// ABOUTME: Contextual modifier weighting raw deltas by the active context profile
// ABOUTME: Also applies intensity amplifier words; never mutates the catalog

package emotion

import (
	"math"

	"github.com/mauromedda/pi-mood-go/internal/catalog"
)

// Modifier applies situational weighting to detected evidence.
type Modifier struct {
	cat *catalog.Catalog
}

// NewModifier creates a modifier over cat.
func NewModifier(cat *catalog.Catalog) *Modifier {
	return &Modifier{cat: cat}
}

// Modify multiplies each delta by the multiplier of the profile named tag,
// clamping to 1.0. Unknown or empty tags return the deltas unchanged.
func (m *Modifier) Modify(deltas Deltas, tag string) Deltas {
	out := deltas.Clone()
	p, ok := m.cat.Profile(tag)
	if !ok {
		return out
	}
	for id, v := range out {
		out[id] = clamp01(v * p.Multiplier(id))
	}
	return out
}

// AmplifyFactor returns 1 + step per amplifier word, capped at the catalog maximum.
func (m *Modifier) AmplifyFactor(words int) float64 {
	a := m.cat.Amplifiers()
	if words <= 0 || a.Step <= 0 {
		return 1.0
	}
	return math.Min(a.Max, 1.0+a.Step*float64(words))
}

// Amplify scales every non-neutral delta by factor, clamping to 1.0.
func (m *Modifier) Amplify(deltas Deltas, factor float64) Deltas {
	out := deltas.Clone()
	if factor == 1.0 {
		return out
	}
	for id, v := range out {
		if id == catalog.Neutral {
			continue
		}
		out[id] = clamp01(v * factor)
	}
	return out
}
