// ABOUTME: Slash command registry and dispatch shared by print and interactive modes
// ABOUTME: Commands: catalog, context, event, exit, help, history, inject, reload, report, reset, status

package commands

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mauromedda/pi-mood-go/internal/catalog"
	"github.com/mauromedda/pi-mood-go/internal/emotion"
	"github.com/mauromedda/pi-mood-go/internal/render"
	"github.com/mauromedda/pi-mood-go/internal/report"
	"github.com/mauromedda/pi-mood-go/internal/suggest"
)

// defaultHistoryLines is how many turns /history shows without an argument.
const defaultHistoryLines = 10

// Session is the slice of session.Handle the commands drive.
type Session interface {
	ID() string
	Trigger(ctx context.Context, event string, intensity float64) (emotion.Snapshot, error)
	Inject(ctx context.Context, emotionID string, v float64) (emotion.Snapshot, error)
	Reset(ctx context.Context) (emotion.Snapshot, error)
	Current(ctx context.Context) (emotion.Snapshot, error)
	History(ctx context.Context) ([]emotion.Snapshot, error)
}

// Command represents a slash command.
type Command struct {
	Name        string
	Usage       string
	Description string
	Execute     func(ctx *CommandContext, args string) (string, error)
}

// CommandContext provides access to mode state for commands.
type CommandContext struct {
	Ctx        context.Context
	Catalog    *catalog.Catalog
	Session    Session
	ContextTag string // active context tag, updated by /context

	// Emit receives snapshots produced by commands. Nilable.
	Emit func(emotion.Snapshot)

	// Exit callback. Nilable; /exit returns "not available" when nil.
	ExitFn func()

	// ReloadFn reloads the mood catalog. Nilable.
	ReloadFn func() (string, error)
}

func (c *CommandContext) emit(s emotion.Snapshot) {
	if c.Emit != nil {
		c.Emit(s)
	}
}

func (c *CommandContext) context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

// Registry holds all registered slash commands.
type Registry struct {
	commands map[string]*Command
}

// NewRegistry creates a registry with all core commands registered.
func NewRegistry() *Registry {
	r := &Registry{commands: make(map[string]*Command)}
	r.registerCoreCommands()
	return r
}

// Get returns a command by name.
func (r *Registry) Get(name string) (*Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Names returns the command names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns all commands sorted by name for deterministic output.
func (r *Registry) List() []*Command {
	result := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		result = append(result, cmd)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Dispatch parses a "/command args" input, looks up the command, and executes it.
func (r *Registry) Dispatch(ctx *CommandContext, input string) (string, error) {
	input = strings.TrimSpace(input)
	if !IsCommand(input) {
		return "", fmt.Errorf("not a command: %q", input)
	}

	raw := input[1:]
	name, args, _ := strings.Cut(raw, " ")
	args = strings.TrimSpace(args)

	cmd, ok := r.commands[name]
	if !ok {
		if best, found := suggest.Closest(name, r.Names()); found {
			return "", fmt.Errorf("unknown command: /%s (did you mean /%s?)", name, best)
		}
		return "", fmt.Errorf("unknown command: /%s", name)
	}
	return cmd.Execute(ctx, args)
}

// IsCommand returns true if input starts with '/'.
func IsCommand(input string) bool {
	return len(input) > 0 && input[0] == '/'
}

func (r *Registry) registerCoreCommands() {
	core := []*Command{
		{
			Name:        "help",
			Description: "Show available commands",
			Execute: func(_ *CommandContext, _ string) (string, error) {
				var b strings.Builder
				b.WriteString("Available commands:\n")
				for _, cmd := range r.List() {
					usage := "/" + cmd.Name
					if cmd.Usage != "" {
						usage += " " + cmd.Usage
					}
					fmt.Fprintf(&b, "  %-28s %s\n", usage, cmd.Description)
				}
				return b.String(), nil
			},
		},
		{
			Name:        "context",
			Usage:       "[tag|none]",
			Description: "Show or change the context tag applied to text",
			Execute: func(ctx *CommandContext, args string) (string, error) {
				switch args {
				case "":
					if ctx.ContextTag == "" {
						return "Context: none.", nil
					}
					return fmt.Sprintf("Context: %s.", ctx.ContextTag), nil
				case "none", "-":
					ctx.ContextTag = ""
					return "Context cleared.", nil
				}
				ctx.ContextTag = args
				if _, ok := ctx.Catalog.Profile(args); !ok {
					return fmt.Sprintf("Context set to %s; %s, no multipliers apply.",
						args, suggest.Hint("context", args, ctx.Catalog.ProfileTags())), nil
				}
				return fmt.Sprintf("Context set to %s.", args), nil
			},
		},
		{
			Name:        "event",
			Usage:       "<name> [intensity]",
			Description: "Apply a catalog event (intensity defaults to 1)",
			Execute: func(ctx *CommandContext, args string) (string, error) {
				fields := strings.Fields(args)
				if len(fields) == 0 || len(fields) > 2 {
					return "", fmt.Errorf("usage: /event <name> [intensity]")
				}
				name := fields[0]
				if _, ok := ctx.Catalog.Event(name); !ok {
					return "", fmt.Errorf("%s", suggest.Hint("event", name, ctx.Catalog.EventNames()))
				}
				intensity := 1.0
				if len(fields) == 2 {
					v, err := parseUnit(fields[1])
					if err != nil {
						return "", fmt.Errorf("event intensity: %w", err)
					}
					intensity = v
				}
				snap, err := ctx.Session.Trigger(ctx.context(), name, intensity)
				if err != nil {
					return "", err
				}
				ctx.emit(snap)
				return "", nil
			},
		},
		{
			Name:        "inject",
			Usage:       "<emotion> <value>",
			Description: "Force an emotion's activation (testing aid)",
			Execute: func(ctx *CommandContext, args string) (string, error) {
				fields := strings.Fields(args)
				if len(fields) != 2 {
					return "", fmt.Errorf("usage: /inject <emotion> <value>")
				}
				if !ctx.Catalog.Has(fields[0]) {
					return "", fmt.Errorf("%s", suggest.Hint("emotion", fields[0], ctx.Catalog.IDs()))
				}
				v, err := parseUnit(fields[1])
				if err != nil {
					return "", fmt.Errorf("inject value: %w", err)
				}
				snap, err := ctx.Session.Inject(ctx.context(), fields[0], v)
				if err != nil {
					return "", err
				}
				ctx.emit(snap)
				return "", nil
			},
		},
		{
			Name:        "reset",
			Description: "Return to the neutral baseline and forget saved state",
			Execute: func(ctx *CommandContext, _ string) (string, error) {
				snap, err := ctx.Session.Reset(ctx.context())
				if err != nil {
					return "", err
				}
				ctx.emit(snap)
				return "Mood reset to neutral.", nil
			},
		},
		{
			Name:        "status",
			Description: "Show the current mood with activation bars",
			Execute: func(ctx *CommandContext, _ string) (string, error) {
				snap, err := ctx.Session.Current(ctx.context())
				if err != nil {
					return "", err
				}
				return render.New(ctx.Catalog, false).View(snap), nil
			},
		},
		{
			Name:        "history",
			Usage:       "[n]",
			Description: "Show the last n turns (default 10)",
			Execute: func(ctx *CommandContext, args string) (string, error) {
				n := defaultHistoryLines
				if args != "" {
					v, err := strconv.Atoi(args)
					if err != nil || v <= 0 {
						return "", fmt.Errorf("usage: /history [n]")
					}
					n = v
				}
				history, err := ctx.Session.History(ctx.context())
				if err != nil {
					return "", err
				}
				if len(history) == 0 {
					return "No turns recorded.", nil
				}
				history = history[max(0, len(history)-n):]
				r := render.New(ctx.Catalog, false)
				var b strings.Builder
				for _, s := range history {
					b.WriteString(r.Line(s))
					b.WriteByte('\n')
				}
				return b.String(), nil
			},
		},
		{
			Name:        "report",
			Description: "Summarize the session as markdown",
			Execute: func(ctx *CommandContext, _ string) (string, error) {
				snap, err := ctx.Session.Current(ctx.context())
				if err != nil {
					return "", err
				}
				history, err := ctx.Session.History(ctx.context())
				if err != nil {
					return "", err
				}
				return report.Markdown(ctx.Catalog, "Session "+ctx.Session.ID(), snap, history), nil
			},
		},
		{
			Name:        "catalog",
			Description: "List emotions, context tags, and events",
			Execute: func(ctx *CommandContext, _ string) (string, error) {
				c := ctx.Catalog
				var b strings.Builder
				fmt.Fprintf(&b, "Emotions: %s\n", strings.Join(c.IDs(), ", "))
				fmt.Fprintf(&b, "Contexts: %s\n", joinOrNone(c.ProfileTags()))
				fmt.Fprintf(&b, "Events:   %s\n", joinOrNone(c.EventNames()))
				combos := make([]string, 0, len(c.Combinations()))
				for _, cb := range c.Combinations() {
					combos = append(combos, fmt.Sprintf("%s (%s+%s)", cb.Name, cb.Components[0], cb.Components[1]))
				}
				fmt.Fprintf(&b, "Combinations: %s\n", joinOrNone(combos))
				return b.String(), nil
			},
		},
		{
			Name:        "reload",
			Description: "Reload the mood catalog",
			Execute: func(ctx *CommandContext, _ string) (string, error) {
				if ctx.ReloadFn == nil {
					return "Reload not available.", nil
				}
				return ctx.ReloadFn()
			},
		},
		{
			Name:        "exit",
			Description: "Exit",
			Execute: func(ctx *CommandContext, _ string) (string, error) {
				if ctx.ExitFn == nil {
					return "Exit not available.", nil
				}
				ctx.ExitFn()
				return "", nil
			},
		},
	}
	for _, cmd := range core {
		r.commands[cmd.Name] = cmd
	}
}

func parseUnit(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if v < 0 || v > 1 {
		return 0, fmt.Errorf("%v is outside [0, 1]", v)
	}
	return v, nil
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
