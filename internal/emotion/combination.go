// ABOUTME: Combination resolver reporting named composite moods
// ABOUTME: A rule fires when both components reach the co-activation threshold

package emotion

import (
	"slices"

	"github.com/mauromedda/pi-mood-go/internal/catalog"
)

// Resolve returns the names of every combination whose two components are
// at or above threshold, in declaration order. It never mutates act.
func Resolve(rules []catalog.Combination, act Activations, threshold float64) []string {
	var names []string
	for _, r := range rules {
		if act[r.Components[0]] < threshold || act[r.Components[1]] < threshold {
			continue
		}
		if !slices.Contains(names, r.Name) {
			names = append(names, r.Name)
		}
	}
	return names
}
