// ABOUTME: Decay engine fading non-dominant emotions toward baseline each cycle
// ABOUTME: The dominant only decays when the cycle brings it no supporting evidence

package emotion

import "github.com/mauromedda/pi-mood-go/internal/catalog"

// Decay returns a copy of act with every non-neutral emotion multiplied by its
// decay rate and snapped to 0 once below floor. The dominant is spared when
// supported is true. Neutral is recomputed as the resting complement.
func Decay(cat *catalog.Catalog, act Activations, dominant string, supported bool, floor float64) Activations {
	out := act.Clone()
	for id, v := range out {
		if id == catalog.Neutral {
			continue
		}
		if id == dominant && supported {
			continue
		}
		v *= cat.DecayRate(id)
		if v < floor {
			v = 0
		}
		out[id] = v
	}
	out.settle()
	return out
}
