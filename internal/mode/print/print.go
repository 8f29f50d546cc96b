// ABOUTME: Headless print mode: one mood cycle per input line with text, JSON, and stream-JSON formatters
// ABOUTME: Lines starting with '/' are slash commands; everything else is conversation text

package print

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mauromedda/pi-mood-go/internal/catalog"
	"github.com/mauromedda/pi-mood-go/internal/commands"
	"github.com/mauromedda/pi-mood-go/internal/config"
	"github.com/mauromedda/pi-mood-go/internal/emotion"
	"github.com/mauromedda/pi-mood-go/internal/log"
	"github.com/mauromedda/pi-mood-go/internal/render"
	"github.com/mauromedda/pi-mood-go/internal/report"
	"github.com/mauromedda/pi-mood-go/internal/session"
)

// maxLineBytes bounds a single input line.
const maxLineBytes = 1 << 20

// Config configures print mode execution.
type Config struct {
	OutputFormat string // "text" (default), "json", "stream-json"
	Context      string // initial context tag
	Report       bool   // text format: finish with a markdown report
	Color        bool   // text format: style output with lipgloss
	TTY          bool   // text format: render the report for a terminal
	Width        int    // report word wrap, 0 = 80
}

// Deps provides dependencies for print mode.
type Deps struct {
	Catalog *catalog.Catalog
	Session *session.Handle
	In      io.Reader
	Out     io.Writer
	Err     io.Writer
}

// Run reads deps.In line by line and writes one snapshot per mood cycle.
// Blank lines are skipped. Command errors are reported and do not stop the run.
func Run(ctx context.Context, cfg Config, deps Deps) error {
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = config.FormatText
	}
	f := newFormatter(cfg, deps)

	registry := commands.NewRegistry()
	stop := false
	cc := &commands.CommandContext{
		Ctx:        ctx,
		Catalog:    deps.Catalog,
		Session:    deps.Session,
		ContextTag: cfg.Context,
		Emit:       f.snapshot,
		ExitFn:     func() { stop = true },
	}

	if err := f.start(deps.Session.ID()); err != nil {
		return err
	}

	sc := bufio.NewScanner(deps.In)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for !stop && sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if commands.IsCommand(line) {
			out, err := registry.Dispatch(cc, line)
			if err != nil {
				f.err(err)
				continue
			}
			if out != "" {
				f.note(out)
			}
			continue
		}
		snap, err := deps.Session.Update(ctx, line, cc.ContextTag)
		if err != nil {
			return fmt.Errorf("updating mood: %w", err)
		}
		f.snapshot(snap)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	final, err := deps.Session.Current(ctx)
	if err != nil {
		return err
	}
	history, err := deps.Session.History(ctx)
	if err != nil {
		return err
	}
	return f.end(final, history)
}

// formatter abstracts output formatting.
type formatter interface {
	start(sessionID string) error
	snapshot(s emotion.Snapshot)
	note(s string)
	err(e error)
	end(final emotion.Snapshot, history []emotion.Snapshot) error
}

func newFormatter(cfg Config, deps Deps) formatter {
	switch cfg.OutputFormat {
	case config.FormatJSON:
		return &jsonFormatter{out: deps.Out, errOut: deps.Err}
	case config.FormatStreamJSON:
		return &streamJSONFormatter{w: session.NewStreamWriter(deps.Out), errOut: deps.Err}
	default:
		return &textFormatter{
			cfg:    cfg,
			cat:    deps.Catalog,
			r:      render.New(deps.Catalog, cfg.Color),
			out:    deps.Out,
			errOut: deps.Err,
		}
	}
}

// textFormatter prints a summary line per cycle and the final activation table.
type textFormatter struct {
	cfg    Config
	cat    *catalog.Catalog
	r      *render.Renderer
	out    io.Writer
	errOut io.Writer
	id     string
}

func (f *textFormatter) start(id string) error {
	f.id = id
	return nil
}

func (f *textFormatter) snapshot(s emotion.Snapshot) { fmt.Fprintln(f.out, f.r.Line(s)) }
func (f *textFormatter) note(s string)               { fmt.Fprintln(f.out, strings.TrimRight(s, "\n")) }
func (f *textFormatter) err(e error)                 { fmt.Fprintf(f.errOut, "error: %v\n", e) }

func (f *textFormatter) end(final emotion.Snapshot, history []emotion.Snapshot) error {
	if !f.cfg.Report {
		fmt.Fprintln(f.out)
		fmt.Fprint(f.out, f.r.View(final))
		return nil
	}
	md := report.Markdown(f.cat, "Session "+f.id, final, history)
	out, err := report.Render(md, f.cfg.Width, f.cfg.TTY)
	if err != nil {
		log.Warn("report rendering failed, printing markdown: %v", err)
		out = md
	}
	fmt.Fprintln(f.out)
	fmt.Fprint(f.out, out)
	return nil
}

// jsonFormatter collects all output and writes a single JSON object at the end.
type jsonFormatter struct {
	out       io.Writer
	errOut    io.Writer
	id        string
	snapshots []emotion.Snapshot
	notes     []string
	errors    []string
}

type jsonOutput struct {
	Session   string             `json:"session"`
	Final     emotion.Snapshot   `json:"final"`
	Snapshots []emotion.Snapshot `json:"snapshots"`
	Notes     []string           `json:"notes,omitempty"`
	Errors    []string           `json:"errors,omitempty"`
}

func (f *jsonFormatter) start(id string) error {
	f.id = id
	return nil
}

func (f *jsonFormatter) snapshot(s emotion.Snapshot) { f.snapshots = append(f.snapshots, s) }
func (f *jsonFormatter) note(s string)               { f.notes = append(f.notes, strings.TrimRight(s, "\n")) }
func (f *jsonFormatter) err(e error)                 { f.errors = append(f.errors, e.Error()) }

func (f *jsonFormatter) end(final emotion.Snapshot, _ []emotion.Snapshot) error {
	out := jsonOutput{
		Session:   f.id,
		Final:     final,
		Snapshots: f.snapshots,
		Notes:     f.notes,
		Errors:    f.errors,
	}
	if out.Snapshots == nil {
		out.Snapshots = []emotion.Snapshot{}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(f.out, string(data))
	return err
}

// streamJSONFormatter outputs one session record per line as cycles happen.
type streamJSONFormatter struct {
	w      *session.Writer
	errOut io.Writer
	turns  int
}

func (f *streamJSONFormatter) start(id string) error {
	return f.w.WriteRecord(session.RecordSessionStart, session.SessionStartData{ID: id})
}

func (f *streamJSONFormatter) snapshot(s emotion.Snapshot) {
	if s.Source == emotion.SourceText || s.Source == emotion.SourceEvent {
		f.turns++
	}
	if err := f.w.WriteSnapshot(s); err != nil {
		fmt.Fprintf(f.errOut, "error: %v\n", err)
	}
}

func (f *streamJSONFormatter) note(s string) { fmt.Fprintln(f.errOut, strings.TrimRight(s, "\n")) }
func (f *streamJSONFormatter) err(e error)   { fmt.Fprintf(f.errOut, "error: %v\n", e) }

func (f *streamJSONFormatter) end(final emotion.Snapshot, _ []emotion.Snapshot) error {
	return f.w.WriteRecord(session.RecordSessionEnd, map[string]int{"turns": f.turns, "turn": final.Turn})
}
