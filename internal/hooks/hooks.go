// ABOUTME: Hook engine that runs shell commands when a session's mood changes
// ABOUTME: Pre-compiles regex matchers on the event subject; runs matching hooks sequentially

package hooks

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"time"

	"github.com/mauromedda/pi-mood-go/internal/config"
	"github.com/mauromedda/pi-mood-go/internal/emotion"
	"github.com/mauromedda/pi-mood-go/internal/log"
	"github.com/mauromedda/pi-mood-go/internal/suggest"
)

// compiledHook pairs a hook definition with its pre-compiled regex matcher.
type compiledHook struct {
	def   config.HookDef
	regex *regexp.Regexp // nil means match-all
}

// Engine holds registered hooks and fires them on mood events.
type Engine struct {
	hooks   map[HookEvent][]compiledHook
	timeout time.Duration
}

// NewEngine creates a hook engine from the hooks configuration map.
// It rejects unknown event names and invalid regex matchers.
func NewEngine(hooks map[string][]config.HookDef) (*Engine, error) {
	names := make([]string, len(Events))
	for i, ev := range Events {
		names[i] = string(ev)
	}

	compiled := make(map[HookEvent][]compiledHook, len(hooks))
	for event, defs := range hooks {
		if !slices.Contains(names, event) {
			return nil, fmt.Errorf("hooks: %s", suggest.Hint("event", event, names))
		}
		for _, def := range defs {
			ch := compiledHook{def: def}
			if def.Matcher != "" {
				re, err := regexp.Compile(def.Matcher)
				if err != nil {
					return nil, fmt.Errorf("invalid hook matcher %q for event %s: %w", def.Matcher, event, err)
				}
				ch.regex = re
			}
			compiled[HookEvent(event)] = append(compiled[HookEvent(event)], ch)
		}
	}

	return &Engine{hooks: compiled, timeout: hookTimeout}, nil
}

// Len returns the number of registered hooks.
func (e *Engine) Len() int {
	n := 0
	for _, defs := range e.hooks {
		n += len(defs)
	}
	return n
}

// Fire runs all hooks registered for input.Event whose matcher accepts the
// subject. A failing hook does not stop the others; the last non-empty
// message wins.
func (e *Engine) Fire(ctx context.Context, input HookInput) (HookOutput, error) {
	defs, ok := e.hooks[input.Event]
	if !ok {
		return HookOutput{}, nil
	}

	var merged HookOutput

	for _, hook := range defs {
		if hook.regex != nil && !hook.regex.MatchString(input.Subject) {
			continue
		}

		out, err := runHookCommand(ctx, hook.def.Command, input, e.timeout)
		if err != nil {
			return merged, fmt.Errorf("hook %q: %w", hook.def.Command, err)
		}

		merged.Failed = merged.Failed || out.Failed
		if out.Message != "" {
			merged.Message = out.Message
		}
	}

	return merged, nil
}

// Observe fires the hooks for the transition from prev to next. Its signature
// matches session.Observer; hook failures are logged, never returned.
func (e *Engine) Observe(ctx context.Context, id string, prev, next emotion.Snapshot) {
	for _, in := range Detect(id, prev, next) {
		out, err := e.Fire(ctx, in)
		switch {
		case err != nil:
			log.Warn("hooks: %s %s: %v", in.Event, in.Subject, err)
		case out.Failed:
			log.Warn("hooks: %s %s: %s", in.Event, in.Subject, out.Message)
		case out.Message != "":
			log.Info("hooks: %s", out.Message)
		}
	}
}
