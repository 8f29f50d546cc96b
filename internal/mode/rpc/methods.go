// ABOUTME: Handler implementations for the mood RPC methods over a session registry
// ABOUTME: Dispatches requests to handlers that decode and validate their own params

package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/mauromedda/pi-mood-go/internal/catalog"
	"github.com/mauromedda/pi-mood-go/internal/emotion"
	"github.com/mauromedda/pi-mood-go/internal/session"
	"github.com/mauromedda/pi-mood-go/internal/suggest"
)

// HandlerFunc processes an RPC request's params and returns a Response.
type HandlerFunc func(ctx context.Context, params json.RawMessage) Response

// Router dispatches RPC requests to registered handlers by method name.
type Router struct {
	handlers map[string]HandlerFunc
}

// NewRouter creates a Router with an empty handler registry.
func NewRouter() *Router {
	return &Router{handlers: make(map[string]HandlerFunc)}
}

// Register associates a method name with a handler function.
func (r *Router) Register(method string, handler HandlerFunc) {
	r.handlers[method] = handler
}

// Methods returns the registered method names, sorted.
func (r *Router) Methods() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Handle dispatches a request to the registered handler, or returns
// a method-not-found error if no handler is registered.
func (r *Router) Handle(ctx context.Context, req Request) Response {
	h, ok := r.handlers[req.Method]
	if !ok {
		e := NewMethodNotFoundError(req.Method)
		if near, found := suggest.Closest(req.Method, r.Methods()); found {
			e.Message += fmt.Sprintf(" (did you mean %q?)", near)
		}
		return Response{ID: req.ID, Error: e}
	}
	resp := h(ctx, req.Params)
	resp.ID = req.ID
	return resp
}

// Deps holds what the handlers call into.
type Deps struct {
	Registry *session.Registry
	Catalog  *catalog.Catalog
	Store    session.Store // nilable; lists saved sessions
}

// RegisterHandlers wires all mood methods into the given router.
func RegisterHandlers(r *Router, d *Deps) {
	r.Register(MethodUpdate, handleUpdate(d))
	r.Register(MethodTrigger, handleTrigger(d))
	r.Register(MethodInject, handleInject(d))
	r.Register(MethodReset, handleReset(d))
	r.Register(MethodGetState, handleGetState(d))
	r.Register(MethodGetHistory, handleGetHistory(d))
	r.Register(MethodListSessions, handleListSessions(d))
	r.Register(MethodDrop, handleDrop(d))
	r.Register(MethodExport, handleExport(d))
	r.Register(MethodGetCatalog, handleGetCatalog(d))
}

// decode unmarshals params into v. Absent params leave v at its zero value.
func decode(params json.RawMessage, v any) *Error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return NewInvalidParamsError(fmt.Sprintf("invalid params: %v", err))
	}
	return nil
}

func result(v any, err error) Response {
	if err != nil {
		return Response{Error: fromError(err)}
	}
	return Response{Result: v}
}

func handleUpdate(d *Deps) HandlerFunc {
	return func(ctx context.Context, params json.RawMessage) Response {
		var p UpdateParams
		if e := decode(params, &p); e != nil {
			return Response{Error: e}
		}
		return result(d.Registry.Update(ctx, p.id(), p.Text, p.Context))
	}
}

func handleTrigger(d *Deps) HandlerFunc {
	return func(ctx context.Context, params json.RawMessage) Response {
		var p TriggerParams
		if e := decode(params, &p); e != nil {
			return Response{Error: e}
		}
		if p.Event == "" {
			return Response{Error: NewInvalidParamsError("event is required")}
		}
		if _, ok := d.Catalog.Event(p.Event); !ok {
			return Response{Error: NewUnknownEventError(suggest.Hint("event", p.Event, d.Catalog.EventNames()))}
		}
		intensity := 1.0
		if p.Intensity != nil {
			intensity = *p.Intensity
		}
		if intensity < 0 || intensity > 1 {
			return Response{Error: NewInvalidParamsError(fmt.Sprintf("intensity %g outside [0, 1]", intensity))}
		}
		return result(d.Registry.Trigger(ctx, p.id(), p.Event, intensity))
	}
}

func handleInject(d *Deps) HandlerFunc {
	return func(ctx context.Context, params json.RawMessage) Response {
		var p InjectParams
		if e := decode(params, &p); e != nil {
			return Response{Error: e}
		}
		if p.Value < 0 || p.Value > 1 {
			return Response{Error: NewInvalidParamsError(fmt.Sprintf("value %g outside [0, 1]", p.Value))}
		}
		return result(d.Registry.Inject(ctx, p.id(), p.Emotion, p.Value))
	}
}

func handleReset(d *Deps) HandlerFunc {
	return func(ctx context.Context, params json.RawMessage) Response {
		var p SessionParams
		if e := decode(params, &p); e != nil {
			return Response{Error: e}
		}
		return result(d.Registry.Reset(ctx, p.id()))
	}
}

func handleGetState(d *Deps) HandlerFunc {
	return func(ctx context.Context, params json.RawMessage) Response {
		var p SessionParams
		if e := decode(params, &p); e != nil {
			return Response{Error: e}
		}
		return result(d.Registry.Current(ctx, p.id()))
	}
}

func handleGetHistory(d *Deps) HandlerFunc {
	return func(ctx context.Context, params json.RawMessage) Response {
		var p SessionParams
		if e := decode(params, &p); e != nil {
			return Response{Error: e}
		}
		history, err := d.Registry.History(ctx, p.id())
		if err != nil {
			return Response{Error: fromError(err)}
		}
		if history == nil {
			history = []emotion.Snapshot{}
		}
		return Response{Result: HistoryResult{Session: p.id(), Snapshots: history}}
	}
}

func handleListSessions(d *Deps) HandlerFunc {
	return func(ctx context.Context, _ json.RawMessage) Response {
		res := SessionListResult{Live: d.Registry.IDs(), Stored: []string{}}
		if d.Store != nil {
			stored, err := d.Store.List(ctx)
			if err != nil {
				return Response{Error: NewInternalError(err.Error())}
			}
			if stored != nil {
				res.Stored = stored
			}
		}
		return Response{Result: res}
	}
}

func handleDrop(d *Deps) HandlerFunc {
	return func(ctx context.Context, params json.RawMessage) Response {
		var p DropParams
		if e := decode(params, &p); e != nil {
			return Response{Error: e}
		}
		if err := d.Registry.Drop(ctx, p.id(), p.Purge); err != nil {
			return Response{Error: fromError(err)}
		}
		return Response{Result: OKResult{OK: true}}
	}
}

func handleExport(d *Deps) HandlerFunc {
	return func(ctx context.Context, params json.RawMessage) Response {
		var p ExportParams
		if e := decode(params, &p); e != nil {
			return Response{Error: e}
		}
		if p.Dir == "" {
			return Response{Error: NewInvalidParamsError("dir is required")}
		}
		if err := d.Registry.ExportAll(ctx, p.Dir); err != nil {
			return Response{Error: fromError(err)}
		}
		return Response{Result: OKResult{OK: true}}
	}
}

func handleGetCatalog(d *Deps) HandlerFunc {
	return func(_ context.Context, _ json.RawMessage) Response {
		res := CatalogResult{
			Emotions:     d.Catalog.IDs(),
			Contexts:     d.Catalog.ProfileTags(),
			Events:       d.Catalog.EventNames(),
			Combinations: make(map[string][]string),
		}
		for _, c := range d.Catalog.Combinations() {
			res.Combinations[c.Name] = c.Components[:]
		}
		return Response{Result: res}
	}
}
