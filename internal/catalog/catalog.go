// ABOUTME: Immutable mood catalog: emotion definitions, bands, profiles, combinations
// ABOUTME: Built once by New/Parse; exposes lookups only, safe to share across sessions

package catalog

import (
	"maps"
	"slices"
)

// Neutral is the resting emotion every catalog must declare.
const Neutral = "neutral"

// Affect is the base affect vector of an emotion. All components are in [0, 1].
type Affect struct {
	Energy     float64
	Positivity float64
	Arousal    float64
	Dominance  float64
}

// Definition describes one emotion of the catalog.
type Definition struct {
	ID                string
	Affect            Affect
	Keywords          []string           // trimmed, declaration order
	Transitions       map[string]float64 // target -> relative propensity
	ResponseModifiers map[string]string  // opaque tags for the text generator
}

// Band is a named intensity range. Low is inclusive, High exclusive,
// except for the topmost band which also includes 1.0.
type Band struct {
	Name        string
	Low         float64
	High        float64
	Description string
	Qualifier   string
}

// Combination names a composite mood made of two co-active emotions.
type Combination struct {
	Name       string
	Components [2]string
}

// Profile multiplies detected evidence while a context tag is active.
type Profile struct {
	Tag         string
	Multipliers map[string]float64
}

// Multiplier returns the multiplier for id, 1.0 when the profile does not list it.
func (p Profile) Multiplier(id string) float64 {
	if m, ok := p.Multipliers[id]; ok {
		return m
	}
	return 1.0
}

// Amplifiers are intensity words ("very", "so") that scale non-neutral evidence.
type Amplifiers struct {
	Words []string
	Step  float64
	Max   float64
}

// Event maps a named system or interaction event to emotion evidence.
type Event struct {
	Name     string
	Emotions map[string]float64
}

// Catalog is the validated, read-only emotion configuration.
type Catalog struct {
	ids        []string
	defs       map[string]*Definition
	decay      map[string]float64
	bands      []Band
	combos     []Combination
	profiles   map[string]Profile
	tags       []string
	events     map[string]Event
	eventNames []string
	amplifiers Amplifiers
}

// IDs returns every emotion ID in declaration order.
func (c *Catalog) IDs() []string {
	return slices.Clone(c.ids)
}

// Len returns the number of declared emotions.
func (c *Catalog) Len() int {
	return len(c.ids)
}

// Has reports whether id is a declared emotion.
func (c *Catalog) Has(id string) bool {
	_, ok := c.defs[id]
	return ok
}

// Index returns the declaration position of id, or -1.
func (c *Catalog) Index(id string) int {
	return slices.Index(c.ids, id)
}

// Lookup returns a copy of the definition for id.
func (c *Catalog) Lookup(id string) (Definition, bool) {
	d, ok := c.defs[id]
	if !ok {
		return Definition{}, false
	}
	return Definition{
		ID:                d.ID,
		Affect:            d.Affect,
		Keywords:          slices.Clone(d.Keywords),
		Transitions:       maps.Clone(d.Transitions),
		ResponseModifiers: maps.Clone(d.ResponseModifiers),
	}, true
}

// Keywords returns the trigger keywords of id. The slice must not be modified.
func (c *Catalog) Keywords(id string) []string {
	if d, ok := c.defs[id]; ok {
		return d.Keywords
	}
	return nil
}

// Affect returns the base affect vector of id.
func (c *Catalog) Affect(id string) Affect {
	if d, ok := c.defs[id]; ok {
		return d.Affect
	}
	return Affect{}
}

// Transition returns the propensity of moving from one dominant emotion to another.
// Unlisted targets have weight 0.
func (c *Catalog) Transition(from, to string) float64 {
	if d, ok := c.defs[from]; ok {
		return d.Transitions[to]
	}
	return 0
}

// ResponseModifiers returns a copy of the response modifier tags of id.
func (c *Catalog) ResponseModifiers(id string) map[string]string {
	if d, ok := c.defs[id]; ok {
		return maps.Clone(d.ResponseModifiers)
	}
	return nil
}

// DecayRate returns the per-turn multiplicative decay factor of id.
func (c *Catalog) DecayRate(id string) float64 {
	if r, ok := c.decay[id]; ok {
		return r
	}
	return 1.0
}

// Bands returns the intensity bands sorted by lower bound.
func (c *Catalog) Bands() []Band {
	return slices.Clone(c.bands)
}

// Combinations returns the combination rules in declaration order.
func (c *Catalog) Combinations() []Combination {
	return slices.Clone(c.combos)
}

// Profile returns a copy of the context profile for tag.
func (c *Catalog) Profile(tag string) (Profile, bool) {
	p, ok := c.profiles[tag]
	p.Multipliers = maps.Clone(p.Multipliers)
	return p, ok
}

// ProfileTags returns the declared context tags in declaration order.
func (c *Catalog) ProfileTags() []string {
	return slices.Clone(c.tags)
}

// Event returns a copy of the event definition for name.
func (c *Catalog) Event(name string) (Event, bool) {
	e, ok := c.events[name]
	e.Emotions = maps.Clone(e.Emotions)
	return e, ok
}

// EventNames returns the declared event names in declaration order.
func (c *Catalog) EventNames() []string {
	return slices.Clone(c.eventNames)
}

// Amplifiers returns the intensity amplifier configuration.
// A zero value means amplification is disabled.
func (c *Catalog) Amplifiers() Amplifiers {
	a := c.amplifiers
	a.Words = slices.Clone(a.Words)
	return a
}
