// ABOUTME: Catalog validation: builds an immutable Catalog from a parsed Document
// ABOUTME: Fails fast on dangling references, malformed ranges, and missing sections

package catalog

import (
	"math"
	"slices"
	"strings"
)

// boundaryEpsilon absorbs float noise when checking that bands are contiguous.
const boundaryEpsilon = 1e-9

// New validates doc and builds a Catalog from it.
func New(doc Document) (*Catalog, error) {
	c := &Catalog{
		defs:     make(map[string]*Definition, len(doc.Moods)),
		decay:    make(map[string]float64, len(doc.DecayRates)),
		profiles: make(map[string]Profile, len(doc.ContextualModifiers)),
		events:   make(map[string]Event, len(doc.Events)),
	}

	if err := c.buildMoods(doc.Moods); err != nil {
		return nil, err
	}
	if err := c.buildDecay(doc.DecayRates); err != nil {
		return nil, err
	}
	if err := c.buildBands(doc.IntensityLevels); err != nil {
		return nil, err
	}
	if err := c.buildCombinations(doc.Combinations); err != nil {
		return nil, err
	}
	if err := c.buildProfiles(doc.ContextualModifiers); err != nil {
		return nil, err
	}
	if err := c.buildEvents(doc.Events); err != nil {
		return nil, err
	}
	if err := c.buildAmplifiers(doc.Amplifiers); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) buildMoods(moods Ordered[MoodSpec]) error {
	if len(moods) == 0 {
		return configErr("moods", "", "section is required")
	}

	for _, m := range moods {
		id := strings.TrimSpace(m.Key)
		if id == "" {
			return configErr("moods", m.Key, "emotion id must not be empty")
		}
		if _, dup := c.defs[id]; dup {
			return configErr("moods", id, "declared more than once")
		}
		md := m.Value
		for name, v := range map[string]float64{
			"energy":     md.Energy,
			"positivity": md.Positivity,
			"arousal":    md.Arousal,
			"dominance":  md.Dominance,
		} {
			if !inUnit(v) {
				return configErr("moods", id, "%s %.3f outside [0, 1]", name, v)
			}
		}

		keywords := make([]string, 0, len(md.Keywords))
		for _, kw := range md.Keywords {
			kw = strings.Join(strings.Fields(kw), " ")
			if kw == "" || slices.Contains(keywords, kw) {
				continue
			}
			keywords = append(keywords, kw)
		}

		modifiers := make(map[string]string, len(md.ResponseModifiers))
		for k, v := range md.ResponseModifiers {
			modifiers[k] = v
		}

		c.ids = append(c.ids, id)
		c.defs[id] = &Definition{
			ID: id,
			Affect: Affect{
				Energy:     md.Energy,
				Positivity: md.Positivity,
				Arousal:    md.Arousal,
				Dominance:  md.Dominance,
			},
			Keywords:          keywords,
			Transitions:       make(map[string]float64, len(md.Transitions)),
			ResponseModifiers: modifiers,
		}
	}

	if _, ok := c.defs[Neutral]; !ok {
		return configErr("moods", Neutral, "the neutral resting emotion must be declared")
	}

	// Targets are checked once every ID is known.
	for _, m := range moods {
		id := strings.TrimSpace(m.Key)
		for target, w := range m.Value.Transitions {
			target = strings.TrimSpace(target)
			if !c.Has(target) {
				return configErr("moods", id, "transition target %q is not a declared mood", target)
			}
			if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
				return configErr("moods", id, "transition weight to %q must be a finite value >= 0", target)
			}
			if _, dup := c.defs[id].Transitions[target]; dup {
				return configErr("moods", id, "transition target %q listed more than once", target)
			}
			c.defs[id].Transitions[target] = w
		}
	}

	// Neutral's row is the default settle distribution.
	row := c.defs[Neutral].Transitions
	var sum float64
	for _, w := range row {
		sum += w
	}
	if sum > 0 {
		for k, w := range row {
			row[k] = w / sum
		}
	}
	return nil
}

func (c *Catalog) buildDecay(rates Ordered[float64]) error {
	if len(rates) == 0 {
		return configErr("decay_rates", "", "section is required")
	}
	for _, r := range rates {
		id := strings.TrimSpace(r.Key)
		if !c.Has(id) {
			return configErr("decay_rates", r.Key, "not a declared mood")
		}
		if _, dup := c.decay[id]; dup {
			return configErr("decay_rates", id, "declared more than once")
		}
		if !(r.Value > 0 && r.Value <= 1) {
			return configErr("decay_rates", id, "rate %.3f outside (0, 1]", r.Value)
		}
		c.decay[id] = r.Value
	}

	if r, ok := c.decay[Neutral]; ok && r != 1.0 {
		return configErr("decay_rates", Neutral, "the resting emotion must not decay (rate 1.0)")
	}
	c.decay[Neutral] = 1.0

	for _, id := range c.ids {
		if _, ok := c.decay[id]; !ok {
			return configErr("decay_rates", id, "missing decay rate")
		}
	}
	return nil
}

func (c *Catalog) buildBands(levels Ordered[BandSpec]) error {
	if len(levels) == 0 {
		return configErr("intensity_levels", "", "section is required")
	}
	for _, l := range levels {
		r := l.Value.Range
		if len(r) != 2 {
			return configErr("intensity_levels", l.Key, "range must have exactly two bounds")
		}
		if !inUnit(r[0]) || !inUnit(r[1]) || r[0] >= r[1] {
			return configErr("intensity_levels", l.Key, "malformed range [%.3f, %.3f]", r[0], r[1])
		}
		c.bands = append(c.bands, Band{
			Name:        l.Key,
			Low:         r[0],
			High:        r[1],
			Description: l.Value.Description,
			Qualifier:   l.Value.Modifier,
		})
	}

	slices.SortStableFunc(c.bands, func(a, b Band) int {
		switch {
		case a.Low < b.Low:
			return -1
		case a.Low > b.Low:
			return 1
		}
		return 0
	})

	if math.Abs(c.bands[0].Low) > boundaryEpsilon {
		return configErr("intensity_levels", c.bands[0].Name, "lowest band must start at 0")
	}
	last := c.bands[len(c.bands)-1]
	if math.Abs(last.High-1) > boundaryEpsilon {
		return configErr("intensity_levels", last.Name, "highest band must end at 1")
	}
	for i := 1; i < len(c.bands); i++ {
		prev, cur := c.bands[i-1], c.bands[i]
		if math.Abs(prev.High-cur.Low) > boundaryEpsilon {
			return configErr("intensity_levels", cur.Name, "range must start where %q ends (%.3f)", prev.Name, prev.High)
		}
	}
	return nil
}

func (c *Catalog) buildCombinations(combos Ordered[[]string]) error {
	if len(combos) == 0 {
		return configErr("emotion_combinations", "", "section is required")
	}
	for _, cb := range combos {
		name := strings.TrimSpace(cb.Key)
		if len(cb.Value) != 2 {
			return configErr("emotion_combinations", name, "expected exactly two component emotions")
		}
		var parts [2]string
		for i, id := range cb.Value {
			parts[i] = strings.TrimSpace(id)
			if !c.Has(parts[i]) {
				return configErr("emotion_combinations", name, "component %q is not a declared mood", id)
			}
		}
		c.combos = append(c.combos, Combination{Name: name, Components: parts})
	}
	return nil
}

func (c *Catalog) buildProfiles(profiles Ordered[map[string]float64]) error {
	for _, p := range profiles {
		tag := strings.TrimSpace(p.Key)
		if _, dup := c.profiles[tag]; dup {
			return configErr("contextual_modifiers", tag, "declared more than once")
		}
		multipliers, err := c.moodWeights("contextual_modifiers", tag, p.Value)
		if err != nil {
			return err
		}
		for id, m := range multipliers {
			if m < 0 || math.IsNaN(m) || math.IsInf(m, 0) {
				return configErr("contextual_modifiers", tag, "multiplier for %q must be a finite value >= 0", id)
			}
		}
		c.tags = append(c.tags, tag)
		c.profiles[tag] = Profile{Tag: tag, Multipliers: multipliers}
	}
	return nil
}

func (c *Catalog) buildEvents(events Ordered[map[string]float64]) error {
	for _, e := range events {
		name := strings.TrimSpace(e.Key)
		if _, dup := c.events[name]; dup {
			return configErr("events", name, "declared more than once")
		}
		weights, err := c.moodWeights("events", name, e.Value)
		if err != nil {
			return err
		}
		for id, w := range weights {
			if !inUnit(w) {
				return configErr("events", name, "weight for %q outside [0, 1]", id)
			}
		}
		c.eventNames = append(c.eventNames, name)
		c.events[name] = Event{Name: name, Emotions: weights}
	}
	return nil
}

func (c *Catalog) buildAmplifiers(spec *AmplifierSpec) error {
	if spec == nil || len(spec.Words) == 0 {
		return nil
	}
	if spec.Step <= 0 {
		return configErr("intensity_amplifiers", "step", "must be > 0")
	}
	if spec.Max < 1 {
		return configErr("intensity_amplifiers", "max", "must be >= 1")
	}
	words := make([]string, 0, len(spec.Words))
	for _, w := range spec.Words {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	c.amplifiers = Amplifiers{Words: words, Step: spec.Step, Max: spec.Max}
	return nil
}

// moodWeights copies a per-emotion mapping with trimmed keys, rejecting
// undeclared emotions and keys that collide once trimmed.
func (c *Catalog) moodWeights(section, key string, in map[string]float64) (map[string]float64, error) {
	out := make(map[string]float64, len(in))
	for raw, v := range in {
		id := strings.TrimSpace(raw)
		if !c.Has(id) {
			return nil, configErr(section, key, "emotion %q is not a declared mood", raw)
		}
		if _, dup := out[id]; dup {
			return nil, configErr(section, key, "emotion %q listed more than once", id)
		}
		out[id] = v
	}
	return out, nil
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}
