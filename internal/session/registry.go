// ABOUTME: Multi-session registry owning one engine per conversation
// ABOUTME: Serializes access per session; restores from and saves to an optional Store

package session

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mauromedda/pi-mood-go/internal/catalog"
	"github.com/mauromedda/pi-mood-go/internal/emotion"
	"github.com/mauromedda/pi-mood-go/internal/log"
)

// exportConcurrency caps the files ExportAll writes at once.
const exportConcurrency = 4

var idPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ErrInvalidID is returned for session IDs unsafe to use as file or key names.
var ErrInvalidID = errors.New("invalid session id")

// ValidateID checks that id is usable as a file name and store key.
func ValidateID(id string) error {
	if !idPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

type entry struct {
	mu  sync.Mutex
	eng *emotion.Engine
	err error // restore failure, set before mu is first released
}

// Observer is told about every state change of a session after it is saved.
type Observer func(ctx context.Context, id string, prev, next emotion.Snapshot)

// Registry maps session IDs to engines sharing one immutable catalog.
type Registry struct {
	cat   *catalog.Catalog
	opts  emotion.Options
	store Store

	mu        sync.Mutex
	sessions  map[string]*entry
	observers []Observer
}

// NewRegistry creates a registry. store may be nil for in-memory sessions.
func NewRegistry(cat *catalog.Catalog, opts emotion.Options, store Store) *Registry {
	return &Registry{
		cat:      cat,
		opts:     opts,
		store:    store,
		sessions: make(map[string]*entry),
	}
}

// Observe registers fn for every later state change.
func (r *Registry) Observe(fn Observer) {
	r.mu.Lock()
	r.observers = append(r.observers, fn)
	r.mu.Unlock()
}

func (r *Registry) notify(ctx context.Context, id string, prev, next emotion.Snapshot) {
	r.mu.Lock()
	obs := slices.Clone(r.observers)
	r.mu.Unlock()
	for _, fn := range obs {
		fn(ctx, id, prev, next)
	}
}

// Do runs fn with exclusive access to the engine of id, creating it (and
// restoring saved state) on first use.
func (r *Registry) Do(ctx context.Context, id string, fn func(*emotion.Engine) error) error {
	e, err := r.get(ctx, id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		// Found while restoring; the saved state failed to load.
		return e.err
	}
	return fn(e.eng)
}

func (r *Registry) get(ctx context.Context, id string) (*entry, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	r.mu.Lock()
	if e, ok := r.sessions[id]; ok {
		r.mu.Unlock()
		return e, nil
	}
	e := &entry{eng: emotion.NewEngine(r.cat, r.opts)}
	e.mu.Lock()
	r.sessions[id] = e
	r.mu.Unlock()
	defer e.mu.Unlock()

	if r.store == nil {
		return e, nil
	}
	saved, err := r.store.Load(ctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		return e, nil
	case err != nil:
		return nil, r.fail(id, e, err)
	}
	if err := e.eng.Restore(saved); err != nil {
		return nil, r.fail(id, e, err)
	}
	log.Debug("session: restored %s at turn %d (%s)", id, saved.Turn, saved.Dominant)
	return e, nil
}

// fail marks e as unusable and drops it so the next caller retries the load.
// The caller holds e.mu.
func (r *Registry) fail(id string, e *entry, err error) error {
	e.err = fmt.Errorf("restoring session %s: %w", id, err)
	r.forget(id, e)
	return e.err
}

func (r *Registry) forget(id string, e *entry) {
	r.mu.Lock()
	if r.sessions[id] == e {
		delete(r.sessions, id)
	}
	r.mu.Unlock()
}

// Update runs one text cycle for id and saves the result. A save error is
// returned after the in-memory engine has already advanced; the next call
// continues from that unsaved state and saves it.
func (r *Registry) Update(ctx context.Context, id, text, contextTag string) (emotion.Snapshot, error) {
	return r.cycle(ctx, id, func(eng *emotion.Engine) emotion.Snapshot {
		return eng.Update(text, contextTag)
	})
}

// Trigger runs one event cycle for id and saves the result. Save errors
// leave the in-memory engine advanced, as with Update.
func (r *Registry) Trigger(ctx context.Context, id, event string, intensity float64) (emotion.Snapshot, error) {
	return r.cycle(ctx, id, func(eng *emotion.Engine) emotion.Snapshot {
		return eng.Trigger(event, intensity)
	})
}

func (r *Registry) cycle(ctx context.Context, id string, step func(*emotion.Engine) emotion.Snapshot) (emotion.Snapshot, error) {
	var prev, snap emotion.Snapshot
	err := r.Do(ctx, id, func(eng *emotion.Engine) error {
		prev = eng.Current()
		snap = step(eng)
		if r.store == nil {
			return nil
		}
		return r.store.Save(ctx, id, snap)
	})
	if err == nil {
		r.notify(ctx, id, prev, snap)
	}
	return snap, err
}

// Inject forces one activation of id and saves the result. The turn counter
// is left untouched. On a save error the injected value stays in memory.
func (r *Registry) Inject(ctx context.Context, id, emotionID string, v float64) (emotion.Snapshot, error) {
	var prev, snap emotion.Snapshot
	err := r.Do(ctx, id, func(eng *emotion.Engine) error {
		prev = eng.Current()
		var err error
		if snap, err = eng.Inject(emotionID, v); err != nil {
			return err
		}
		if r.store == nil {
			return nil
		}
		return r.store.Save(ctx, id, snap)
	})
	if err == nil {
		r.notify(ctx, id, prev, snap)
	}
	return snap, err
}

// Reset returns id to the neutral baseline and deletes its saved state.
func (r *Registry) Reset(ctx context.Context, id string) (emotion.Snapshot, error) {
	var prev, snap emotion.Snapshot
	err := r.Do(ctx, id, func(eng *emotion.Engine) error {
		prev = eng.Current()
		eng.Reset()
		snap = eng.Current()
		if r.store == nil {
			return nil
		}
		return r.store.Delete(ctx, id)
	})
	if err == nil {
		r.notify(ctx, id, prev, snap)
	}
	return snap, err
}

// History returns the in-memory cycle history of id, oldest first. Restored
// sessions start with an empty history.
func (r *Registry) History(ctx context.Context, id string) ([]emotion.Snapshot, error) {
	var history []emotion.Snapshot
	err := r.Do(ctx, id, func(eng *emotion.Engine) error {
		history = eng.History()
		return nil
	})
	return history, err
}

// Current returns the latest snapshot of id.
func (r *Registry) Current(ctx context.Context, id string) (emotion.Snapshot, error) {
	var snap emotion.Snapshot
	err := r.Do(ctx, id, func(eng *emotion.Engine) error {
		snap = eng.Current()
		return nil
	})
	return snap, err
}

// Drop forgets the in-memory engine of id. With purge the saved state is
// deleted as well.
func (r *Registry) Drop(ctx context.Context, id string, purge bool) error {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()

	if purge && r.store != nil {
		return r.store.Delete(ctx, id)
	}
	return nil
}

// IDs returns the live session IDs, sorted.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.Unlock()
	slices.Sort(ids)
	return ids
}

// ExportAll writes the history of every live session to dir/<id>.jsonl,
// several sessions at a time. Existing files are appended to.
func (r *Registry) ExportAll(ctx context.Context, dir string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(exportConcurrency)

	for _, id := range r.IDs() {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var history []emotion.Snapshot
			if err := r.Do(ctx, id, func(eng *emotion.Engine) error {
				history = eng.History()
				return nil
			}); err != nil {
				return err
			}
			return exportHistory(dir, id, history)
		})
	}
	return g.Wait()
}

func exportHistory(dir, id string, history []emotion.Snapshot) error {
	w, err := NewWriter(dir, id)
	if err != nil {
		return fmt.Errorf("exporting %s: %w", id, err)
	}
	defer w.Close()

	if err := w.WriteRecord(RecordSessionStart, SessionStartData{ID: id}); err != nil {
		return fmt.Errorf("exporting %s: %w", id, err)
	}
	for _, s := range history {
		if err := w.WriteSnapshot(s); err != nil {
			return fmt.Errorf("exporting %s: %w", id, err)
		}
	}
	return w.WriteRecord(RecordSessionEnd, map[string]int{"turns": len(history)})
}
