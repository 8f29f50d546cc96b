// ABOUTME: Intensity classifier mapping an activation scalar to a catalog band
// ABOUTME: Boundary values belong to the higher band; 1.0 stays in the top band

package emotion

import "github.com/mauromedda/pi-mood-go/internal/catalog"

// Intensity is the classified strength of the dominant emotion.
type Intensity struct {
	Value       float64
	Band        string
	Description string
	Qualifier   string // hedge word for generated language, may be empty
}

// Classify maps v to its band. Values outside [0, 1] are clamped first.
// bands must be sorted and contiguous, as catalog.Catalog.Bands returns them.
func Classify(bands []catalog.Band, v float64) Intensity {
	v = clamp01(v)
	if len(bands) == 0 {
		return Intensity{Value: v}
	}

	b := bands[len(bands)-1]
	for i, cand := range bands {
		if v >= cand.Low && (v < cand.High || i == len(bands)-1) {
			b = cand
			break
		}
	}

	return Intensity{
		Value:       v,
		Band:        b.Name,
		Description: b.Description,
		Qualifier:   b.Qualifier,
	}
}
