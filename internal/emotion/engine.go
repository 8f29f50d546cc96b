// ABOUTME: State manager owning one session's emotional state and update cycle
// ABOUTME: Sequences detect, modify, decay, transition, classify, resolve; publishes snapshots

package emotion

import (
	"errors"
	"fmt"
	"time"

	"github.com/mauromedda/pi-mood-go/internal/catalog"
	"github.com/mauromedda/pi-mood-go/internal/eventbus"
	"github.com/mauromedda/pi-mood-go/internal/log"
)

// Defaults applied by NewEngine for zero-valued options.
const (
	DefaultHistoryLimit          = 100
	DefaultCoActivationThreshold = 0.5
	DefaultDecayFloor            = 0.02
	DefaultSensitivity           = 3.0
)

// ErrUnknownEmotion is returned when an operation names an emotion the catalog lacks.
var ErrUnknownEmotion = errors.New("unknown emotion")

// Options tunes an Engine. Zero values select the defaults.
type Options struct {
	HistoryLimit          int     // Max history entries kept (default 100).
	CoActivationThreshold float64 // Min activation of both components for a combination (default 0.5).
	DecayFloor            float64 // Activations below this snap to 0 while decaying (default 0.02).
	Sensitivity           float64 // Keyword evidence scale (default 3.0).
	TieBreak              TieBreak
	Now                   func() time.Time
	Bus                   *eventbus.Bus[Snapshot] // Optional; receives every snapshot.
}

func (o Options) withDefaults() Options {
	if o.HistoryLimit <= 0 {
		o.HistoryLimit = DefaultHistoryLimit
	}
	if o.CoActivationThreshold <= 0 {
		o.CoActivationThreshold = DefaultCoActivationThreshold
	}
	if o.DecayFloor <= 0 {
		o.DecayFloor = DefaultDecayFloor
	}
	if o.Sensitivity <= 0 {
		o.Sensitivity = DefaultSensitivity
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Engine owns the emotional state of a single conversation.
// It is not safe for concurrent use; see session.Registry for shared access.
type Engine struct {
	cat      *catalog.Catalog
	opts     Options
	detector *Detector
	modifier *Modifier

	act      Activations
	dominant string
	turn     int
	current  Snapshot
	history  []Snapshot
}

// NewEngine creates an engine at the neutral baseline.
func NewEngine(cat *catalog.Catalog, opts Options) *Engine {
	opts = opts.withDefaults()
	e := &Engine{
		cat:      cat,
		opts:     opts,
		detector: NewDetector(cat, opts.Sensitivity),
		modifier: NewModifier(cat),
	}
	e.Reset()
	return e
}

// Catalog returns the catalog the engine was built with.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.cat
}

// Detector returns the engine's trigger detector.
func (e *Engine) Detector() *Detector {
	return e.detector
}

// Update runs one cycle over text. contextTag may be empty or unknown.
// Whitespace-only text still decays the existing state.
func (e *Engine) Update(text, contextTag string) Snapshot {
	det := e.detector.Detect(text)
	deltas := e.modifier.Modify(det.Deltas, contextTag)
	if len(det.Amplifiers) > 0 {
		deltas = e.modifier.Amplify(deltas, e.modifier.AmplifyFactor(len(det.Amplifiers)))
	}
	if len(det.Matches) > 0 {
		log.Debug("mood: matched %v in %d tokens", det.Matches, det.Tokens)
	}
	return e.cycle(SourceText, contextTag, deltas)
}

// Trigger runs one cycle whose evidence comes from a catalog event scaled by
// intensity. Unknown events contribute no evidence.
func (e *Engine) Trigger(event string, intensity float64) Snapshot {
	deltas := Deltas{}
	if ev, ok := e.cat.Event(event); ok {
		intensity = clamp01(intensity)
		for id, w := range ev.Emotions {
			if v := clamp01(w * intensity); v > 0 {
				deltas[id] = v
			}
		}
	} else {
		log.Debug("mood: ignoring unknown event %q", event)
	}
	return e.cycle(SourceEvent, event, deltas)
}

func (e *Engine) cycle(source, tag string, deltas Deltas) Snapshot {
	decayed := Decay(e.cat, e.act, e.dominant, deltas[e.dominant] > 0, e.opts.DecayFloor)
	res := Transition(e.cat, decayed, e.dominant, deltas, e.opts.TieBreak)
	if res.Changed() {
		log.Debug("mood: dominant %s -> %s (strength %.3f)", res.From, res.To, res.Strength)
	}

	e.act = res.Activations
	e.dominant = res.To
	e.turn++
	e.current = e.snapshot(source, tag, deltas)
	e.record(e.current)
	e.publish(e.current)
	return e.current.Clone()
}

// Inject forces the activation of id and recomputes the dominant emotion.
// Injecting neutral caps every other emotion at 1 - v. The turn counter and
// history are left untouched.
func (e *Engine) Inject(id string, v float64) (Snapshot, error) {
	if !e.cat.Has(id) {
		return Snapshot{}, fmt.Errorf("inject %q: %w", id, ErrUnknownEmotion)
	}
	v = clamp01(v)
	if id == catalog.Neutral {
		e.act.capOthers(1 - v)
	} else {
		e.act[id] = v
	}
	e.act.settle()
	e.dominant = argmax(e.cat.IDs(), e.act, e.dominant, e.opts.TieBreak)
	e.current = e.snapshot(SourceInject, "", nil)
	e.publish(e.current)
	return e.current.Clone(), nil
}

// Restore reapplies the activation mapping and turn of a saved snapshot.
// Emotions missing from the snapshot start at 0; unknown IDs are rejected.
// The saved dominant wins any tie so replays stay deterministic.
func (e *Engine) Restore(s Snapshot) error {
	act := Baseline(e.cat)
	for id, v := range s.Activations {
		if !e.cat.Has(id) {
			return fmt.Errorf("restore %q: %w", id, ErrUnknownEmotion)
		}
		act[id] = v
	}
	act.settle()

	e.act = act
	e.dominant = argmax(e.cat.IDs(), act, s.Dominant, TieKeepDominant)
	e.turn = s.Turn
	e.current = e.snapshot(SourceRestore, s.Context, nil)
	e.publish(e.current)
	return nil
}

// Current returns the latest snapshot without mutating state.
func (e *Engine) Current() Snapshot {
	return e.current.Clone()
}

// Dominant returns the current dominant emotion ID.
func (e *Engine) Dominant() string {
	return e.dominant
}

// Turn returns the number of completed update cycles.
func (e *Engine) Turn() int {
	return e.turn
}

// Reset returns to the neutral baseline and clears turn and history.
func (e *Engine) Reset() {
	e.act = Baseline(e.cat)
	e.dominant = catalog.Neutral
	e.turn = 0
	e.history = nil
	e.current = e.snapshot(SourceReset, "", nil)
	e.publish(e.current)
}

// History returns copies of past cycle snapshots, oldest first.
func (e *Engine) History() []Snapshot {
	out := make([]Snapshot, len(e.history))
	for i, s := range e.history {
		out[i] = s.Clone()
	}
	return out
}

func (e *Engine) record(s Snapshot) {
	e.history = append(e.history, s.Clone())
	if over := len(e.history) - e.opts.HistoryLimit; over > 0 {
		e.history = append(e.history[:0:0], e.history[over:]...)
	}
}

func (e *Engine) publish(s Snapshot) {
	if e.opts.Bus != nil {
		e.opts.Bus.Publish(s.Clone())
	}
}

func (e *Engine) snapshot(source, tag string, evidence Deltas) Snapshot {
	s := Snapshot{
		Turn:        e.turn,
		At:          e.opts.Now(),
		Source:      source,
		Context:     tag,
		Dominant:    e.dominant,
		Intensity:   Classify(e.cat.Bands(), e.act[e.dominant]),
		Derived:     Resolve(e.cat.Combinations(), e.act, e.opts.CoActivationThreshold),
		Activations: map[string]float64(e.act.Clone()),
		Affect:      Blend(e.cat, e.act),
		Modifiers:   e.cat.ResponseModifiers(e.dominant),
	}
	if len(evidence) > 0 {
		s.Evidence = map[string]float64(evidence.Clone())
	}
	return s
}

// Blend returns the activation-weighted average of the base affect vectors.
func Blend(cat *catalog.Catalog, act Activations) catalog.Affect {
	var out catalog.Affect
	var total float64
	for _, id := range cat.IDs() {
		w := act[id]
		if w <= 0 {
			continue
		}
		a := cat.Affect(id)
		out.Energy += w * a.Energy
		out.Positivity += w * a.Positivity
		out.Arousal += w * a.Arousal
		out.Dominance += w * a.Dominance
		total += w
	}
	if total == 0 {
		return cat.Affect(catalog.Neutral)
	}
	out.Energy /= total
	out.Positivity /= total
	out.Arousal /= total
	out.Dominance /= total
	return out
}
