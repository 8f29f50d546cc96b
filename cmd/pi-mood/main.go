// ABOUTME: CLI entry point for pi-mood
// ABOUTME: Loads settings and catalog, opens the state store, dispatches to print, interactive, or RPC mode

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	// termfix must be imported before any package that imports bubbletea.
	_ "github.com/mauromedda/pi-mood-go/internal/termfix"

	"golang.org/x/term"

	"github.com/mauromedda/pi-mood-go/internal/catalog"
	"github.com/mauromedda/pi-mood-go/internal/config"
	"github.com/mauromedda/pi-mood-go/internal/emotion"
	"github.com/mauromedda/pi-mood-go/internal/export"
	"github.com/mauromedda/pi-mood-go/internal/hooks"
	pilog "github.com/mauromedda/pi-mood-go/internal/log"
	"github.com/mauromedda/pi-mood-go/internal/mode/interactive"
	"github.com/mauromedda/pi-mood-go/internal/mode/print"
	"github.com/mauromedda/pi-mood-go/internal/mode/rpc"
	"github.com/mauromedda/pi-mood-go/internal/session"
	"github.com/mauromedda/pi-mood-go/internal/statusline"
	"github.com/mauromedda/pi-mood-go/internal/suggest"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	args, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	if args.version {
		fmt.Printf("pi-mood %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// run performs the full initialization sequence and dispatches to the selected mode.
func run(ctx context.Context, args cliArgs) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	settings, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyOverrides(settings, args)
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	if err := configureLogging(settings, args.verbose); err != nil {
		return err
	}

	if args.dumpCatalog {
		return dumpCatalog(os.Stdout, settings.CatalogPath)
	}

	cat, err := loadCatalog(settings.CatalogPath)
	if err != nil {
		return err
	}
	opts := engineOptions(settings)

	store, err := session.Open(settings.Store, settings.StoreDSN)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", orDefault(settings.Store, config.StoreFile), err)
	}
	defer store.Close()

	var hookEngine *hooks.Engine
	if len(settings.Hooks) > 0 {
		if hookEngine, err = hooks.NewEngine(settings.Hooks); err != nil {
			return fmt.Errorf("loading hooks: %w", err)
		}
		pilog.Debug("hooks: %d registered", hookEngine.Len())
	}
	newRegistry := func(cat *catalog.Catalog) *session.Registry {
		reg := session.NewRegistry(cat, opts, store)
		if hookEngine != nil {
			reg.Observe(hookEngine.Observe)
		}
		return reg
	}

	reg := newRegistry(cat)
	if args.rpc {
		router := rpc.NewRouter()
		rpc.RegisterHandlers(router, &rpc.Deps{Registry: reg, Catalog: cat, Store: store})
		pilog.Debug("rpc: serving %d methods", len(router.Methods()))
		if err := rpc.NewServer(os.Stdin, os.Stdout, router.Handle).Run(ctx); err != nil {
			return fmt.Errorf("rpc: %w", err)
		}
		return exportAll(ctx, reg, args.export)
	}

	if err := session.ValidateID(args.session); err != nil {
		return err
	}
	handle := reg.Handle(args.session)

	if tag := settings.DefaultContext; tag != "" {
		if _, ok := cat.Profile(tag); !ok {
			pilog.Warn("%s", suggest.Hint("context", tag, cat.ProfileTags()))
		}
	}

	if args.reset {
		if _, err := handle.Reset(ctx); err != nil {
			return fmt.Errorf("resetting session: %w", err)
		}
	}

	stdinTTY := term.IsTerminal(int(os.Stdin.Fd()))
	stdoutTTY := term.IsTerminal(int(os.Stdout.Fd()))
	color := stdoutTTY && !args.noColor && os.Getenv("NO_COLOR") == ""

	script := args.script()
	if len(script) == 0 && stdinTTY && stdoutTTY && !args.print {
		// Log lines on stderr would tear the console; send them to a file.
		if f, ferr := openLogFile(); ferr == nil {
			defer f.Close()
			defer pilog.SetOutput(pilog.SetOutput(f))
		}
		err = interactive.Run(ctx, interactive.Deps{
			Catalog: cat,
			Session: handle,
			Context: settings.DefaultContext,
			Color:   color,
			Reload:  reloader(settings, newRegistry, args.session),
			Watch:   watchPaths(settings),

			StatusLine: statusLine(settings),
			CWD:        cwd,
		})
	} else {
		var in io.Reader = os.Stdin
		if len(script) > 0 {
			in = strings.NewReader(strings.Join(script, "\n") + "\n")
		}
		width := 80
		if stdoutTTY {
			if w, _, serr := term.GetSize(int(os.Stdout.Fd())); serr == nil && w > 0 {
				width = w
			}
		}
		err = print.Run(ctx, print.Config{
			OutputFormat: settings.OutputFormat,
			Context:      settings.DefaultContext,
			Report:       args.report,
			Color:        color,
			TTY:          stdoutTTY,
			Width:        width,
		}, print.Deps{
			Catalog: cat,
			Session: handle,
			In:      in,
			Out:     os.Stdout,
			Err:     os.Stderr,
		})
	}
	if err != nil {
		return err
	}

	if args.html != "" {
		if err := writeHTML(ctx, cat, handle, args.html); err != nil {
			return err
		}
	}
	return exportAll(ctx, reg, args.export)
}

func writeHTML(ctx context.Context, cat *catalog.Catalog, h *session.Handle, path string) error {
	cur, err := h.Current(ctx)
	if err != nil {
		return err
	}
	history, err := h.History(ctx)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing html: %w", err)
	}
	if err := export.ExportHTML(cat, "Session "+h.ID(), cur, history, f); err != nil {
		f.Close()
		return fmt.Errorf("writing html: %w", err)
	}
	return f.Close()
}

func exportAll(ctx context.Context, reg *session.Registry, dir string) error {
	if dir == "" {
		return nil
	}
	if err := reg.ExportAll(ctx, dir); err != nil {
		return fmt.Errorf("exporting history: %w", err)
	}
	pilog.Info("exported %d session(s) to %s", len(reg.IDs()), dir)
	return nil
}

// applyOverrides copies non-empty flag values over the loaded settings.
func applyOverrides(s *config.Settings, args cliArgs) {
	if args.format != "" {
		s.OutputFormat = args.format
	}
	if args.catalog != "" {
		s.CatalogPath = args.catalog
	}
	if args.store != "" {
		s.Store = args.store
	}
	if args.storeDSN != "" {
		s.StoreDSN = args.storeDSN
	}
	if args.context != "" {
		s.DefaultContext = args.context
	}
}

func configureLogging(s *config.Settings, verbose bool) error {
	if verbose {
		pilog.SetLevel(pilog.LevelDebug)
		return nil
	}
	if s.LogLevel == "" {
		return nil
	}
	lvl, err := pilog.ParseLevel(s.LogLevel)
	if err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	pilog.SetLevel(lvl)
	return nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	pilog.Debug("catalog: loaded %d emotions from %s", cat.Len(), path)
	return cat, nil
}

func dumpCatalog(w io.Writer, path string) error {
	data := catalog.DefaultYAML()
	if path != "" {
		if _, err := catalog.LoadFile(path); err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading catalog: %w", err)
		}
		data = raw
	}
	_, err := w.Write(data)
	return err
}

func engineOptions(s *config.Settings) emotion.Options {
	opts := emotion.Options{
		HistoryLimit:          s.HistoryLimit,
		CoActivationThreshold: s.CoActivationThreshold,
		DecayFloor:            s.DecayFloor,
		Sensitivity:           s.Sensitivity,
	}
	if s.TieBreak == config.TieDeclarationOrder {
		opts.TieBreak = emotion.TieDeclarationOrder
	}
	return opts
}

// reloader rebuilds the catalog from disk. The new registry shares the store,
// so the session resumes from its last saved snapshot.
func reloader(s *config.Settings, newRegistry func(*catalog.Catalog) *session.Registry, id string) interactive.ReloadFunc {
	if s.CatalogPath == "" {
		return nil
	}
	path := s.CatalogPath
	return func() (*catalog.Catalog, *session.Handle, error) {
		cat, err := loadCatalog(path)
		if err != nil {
			return nil, nil, err
		}
		return cat, newRegistry(cat).Handle(id), nil
	}
}

func statusLine(s *config.Settings) *statusline.Engine {
	if s.StatusLine == nil {
		return nil
	}
	return statusline.New(s.StatusLine.Command, s.StatusLine.Padding)
}

func watchPaths(s *config.Settings) []string {
	if s.CatalogPath == "" {
		return nil
	}
	return []string{s.CatalogPath}
}

func openLogFile() (*os.File, error) {
	if err := config.EnsureDir(config.GlobalDir()); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(config.GlobalDir(), "pi-mood.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
