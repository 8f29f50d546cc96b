// ABOUTME: Activation vector and dominant selection shared by decay and transition
// ABOUTME: Neutral is the resting complement: 1 - max(non-neutral activations)

package emotion

import (
	"maps"

	"github.com/mauromedda/pi-mood-go/internal/catalog"
)

// tieEpsilon is the score difference below which two candidates are tied.
const tieEpsilon = 1e-9

// Activations maps every known emotion to its current activation in [0, 1].
type Activations map[string]float64

// Baseline returns the resting vector: neutral fully active, everything else 0.
func Baseline(cat *catalog.Catalog) Activations {
	a := make(Activations, cat.Len())
	for _, id := range cat.IDs() {
		a[id] = 0
	}
	a[catalog.Neutral] = 1
	return a
}

// Clone returns an independent copy.
func (a Activations) Clone() Activations {
	return maps.Clone(a)
}

// MaxOther returns the highest non-neutral activation.
func (a Activations) MaxOther() float64 {
	var m float64
	for id, v := range a {
		if id != catalog.Neutral && v > m {
			m = v
		}
	}
	return m
}

// settle clamps every activation and recomputes neutral as the resting complement.
func (a Activations) settle() {
	for id, v := range a {
		a[id] = clamp01(v)
	}
	a[catalog.Neutral] = 1 - a.MaxOther()
}

// capOthers limits every non-neutral activation to ceiling.
func (a Activations) capOthers(ceiling float64) {
	for id, v := range a {
		if id != catalog.Neutral && v > ceiling {
			a[id] = ceiling
		}
	}
}

// TieBreak selects how equal scores are resolved.
type TieBreak int

const (
	// TieKeepDominant keeps the current dominant on ties, then uses declaration order.
	TieKeepDominant TieBreak = iota
	// TieDeclarationOrder always prefers the emotion declared first.
	TieDeclarationOrder
)

// argmax returns the highest scoring ID. Under TieKeepDominant the current
// dominant wins ties; remaining ties go to the earliest declared ID.
func argmax(ids []string, scores map[string]float64, current string, tb TieBreak) string {
	best := ""
	var bestScore float64
	if tb == TieKeepDominant {
		if s, ok := scores[current]; ok {
			best, bestScore = current, s
		}
	}
	for _, id := range ids {
		s, ok := scores[id]
		if !ok {
			continue
		}
		if best == "" || s > bestScore+tieEpsilon {
			best, bestScore = id, s
		}
	}
	if best == "" {
		return catalog.Neutral
	}
	return best
}

func clamp01(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
