// ABOUTME: Handle binding a Registry to a single session ID
// ABOUTME: Used by the print and interactive modes, which drive one conversation each

package session

import (
	"context"

	"github.com/mauromedda/pi-mood-go/internal/emotion"
)

// Handle is a view of one session of a Registry.
type Handle struct {
	reg *Registry
	id  string
}

// Handle returns a handle for id. The ID is validated on first use.
func (r *Registry) Handle(id string) *Handle {
	return &Handle{reg: r, id: id}
}

// ID returns the session ID.
func (h *Handle) ID() string { return h.id }

func (h *Handle) Update(ctx context.Context, text, contextTag string) (emotion.Snapshot, error) {
	return h.reg.Update(ctx, h.id, text, contextTag)
}

func (h *Handle) Trigger(ctx context.Context, event string, intensity float64) (emotion.Snapshot, error) {
	return h.reg.Trigger(ctx, h.id, event, intensity)
}

func (h *Handle) Inject(ctx context.Context, emotionID string, v float64) (emotion.Snapshot, error) {
	return h.reg.Inject(ctx, h.id, emotionID, v)
}

func (h *Handle) Reset(ctx context.Context) (emotion.Snapshot, error) {
	return h.reg.Reset(ctx, h.id)
}

func (h *Handle) Current(ctx context.Context) (emotion.Snapshot, error) {
	return h.reg.Current(ctx, h.id)
}

func (h *Handle) History(ctx context.Context) ([]emotion.Snapshot, error) {
	return h.reg.History(ctx, h.id)
}
