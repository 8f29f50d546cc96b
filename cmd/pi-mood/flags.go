// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Flags override settings; positional arguments form one conversation turn

package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

const defaultSessionID = "default"

type cliArgs struct {
	session     string
	context     string
	event       string
	intensity   float64
	format      string
	catalog     string
	store       string
	storeDSN    string
	export      string
	html        string
	report      bool
	reset       bool
	print       bool
	rpc         bool
	noColor     bool
	verbose     bool
	version     bool
	dumpCatalog bool
	text        []string
}

func parseFlags(argv []string, stderr io.Writer) (cliArgs, error) {
	var args cliArgs
	fs := flag.NewFlagSet("pi-mood", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&args.session, "session", defaultSessionID, "Session ID whose mood is updated")
	fs.StringVar(&args.context, "context", "", "Context tag applied to text (e.g. learning_context)")
	fs.StringVar(&args.event, "event", "", "Apply a catalog event before any text")
	fs.Float64Var(&args.intensity, "intensity", 1.0, "Event intensity in [0, 1]")
	fs.StringVar(&args.format, "format", "", "Print mode output: text, json, stream-json")
	fs.StringVar(&args.catalog, "catalog", "", "Mood catalog YAML file (default: built-in)")
	fs.StringVar(&args.store, "store", "", "State store: file, sqlite, redis")
	fs.StringVar(&args.storeDSN, "store-dsn", "", "Store location: directory, database path, or redis URL")
	fs.StringVar(&args.export, "export", "", "Write session history as JSONL into this directory on exit")
	fs.StringVar(&args.html, "html", "", "Write the session's mood timeline as an HTML page to this file on exit")
	fs.BoolVar(&args.report, "report", false, "Finish text output with a markdown report")
	fs.BoolVar(&args.reset, "reset", false, "Reset the session to neutral before processing input")
	fs.BoolVar(&args.print, "print", false, "Force non-interactive print mode")
	fs.BoolVar(&args.rpc, "rpc", false, "Serve JSONL RPC requests on stdin/stdout")
	fs.BoolVar(&args.noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&args.verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&args.version, "version", false, "Show version and exit")
	fs.BoolVar(&args.dumpCatalog, "dump-catalog", false, "Print the active mood catalog and exit")

	if err := fs.Parse(argv); err != nil {
		return args, err
	}
	if args.intensity < 0 || args.intensity > 1 {
		return args, fmt.Errorf("--intensity must be in [0, 1], got %v", args.intensity)
	}
	args.text = fs.Args()
	if args.rpc && (len(args.text) > 0 || args.event != "" || args.html != "") {
		return args, fmt.Errorf("--rpc reads requests from stdin; drop text, --event, and --html")
	}
	return args, nil
}

// script turns one-shot flags into print-mode input lines. It is empty when
// input should come from stdin or the console.
func (a cliArgs) script() []string {
	var lines []string
	if a.event != "" {
		lines = append(lines, fmt.Sprintf("/event %s %g", a.event, a.intensity))
	}
	if text := strings.TrimSpace(strings.Join(a.text, " ")); text != "" {
		lines = append(lines, text)
	}
	return lines
}
