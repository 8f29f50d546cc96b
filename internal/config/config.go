// ABOUTME: Settings loading with global + project config merge
// ABOUTME: JSON settings tune the engine, choose the catalog, and pick the state store

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
)

// Output formats understood by print mode.
const (
	FormatText       = "text"
	FormatJSON       = "json"
	FormatStreamJSON = "stream-json"
)

// Store kinds for persisted session state.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Tie-break policies.
const (
	TieKeepDominant     = "keep-dominant"
	TieDeclarationOrder = "declaration-order"
)

// Settings holds the merged configuration.
type Settings struct {
	CatalogPath           string  `json:"catalog_path,omitempty"`
	HistoryLimit          int     `json:"history_limit,omitempty"`
	CoActivationThreshold float64 `json:"co_activation_threshold,omitempty"`
	DecayFloor            float64 `json:"decay_floor,omitempty"`
	Sensitivity           float64 `json:"sensitivity,omitempty"`
	TieBreak              string  `json:"tie_break,omitempty"`
	DefaultContext        string  `json:"default_context,omitempty"`
	OutputFormat          string  `json:"output_format,omitempty"`
	LogLevel              string  `json:"log_level,omitempty"`

	Store    string `json:"store,omitempty"`     // file, sqlite or redis
	StoreDSN string `json:"store_dsn,omitempty"` // directory, database path or redis URL

	Hooks      map[string][]HookDef `json:"hooks,omitempty"` // keyed by mood event name
	StatusLine *StatusLine          `json:"status_line,omitempty"`
}

// StatusLine configures an external command rendering the console status line.
type StatusLine struct {
	Command string `json:"command"`
	Padding int    `json:"padding,omitempty"`
}

// HookDef is one shell command run when a mood event fires.
type HookDef struct {
	Matcher string `json:"matcher,omitempty"` // regex on the event subject; empty matches all
	Command string `json:"command"`
}

// Load reads and merges global and project-local settings.
// Project settings override global settings.
func Load(projectRoot string) (*Settings, error) {
	LoadDotEnv(DotEnvFiles(projectRoot)...)

	global, err := loadFile(GlobalConfigFile())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	project, err := loadFile(ProjectConfigFile(projectRoot))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	merged := merge(global, project)
	ResolveEnvVars(merged)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// loadFile reads a Settings from a JSON file. Returns zero Settings if file
// does not exist.
func loadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Settings{}, err
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &s, nil
}

// merge overlays non-zero project values onto global values.
func merge(global, project *Settings) *Settings {
	if global == nil {
		global = &Settings{}
	}
	if project == nil {
		return global
	}

	result := *global
	overlay(&result.CatalogPath, project.CatalogPath)
	overlay(&result.HistoryLimit, project.HistoryLimit)
	overlay(&result.CoActivationThreshold, project.CoActivationThreshold)
	overlay(&result.DecayFloor, project.DecayFloor)
	overlay(&result.Sensitivity, project.Sensitivity)
	overlay(&result.TieBreak, project.TieBreak)
	overlay(&result.DefaultContext, project.DefaultContext)
	overlay(&result.OutputFormat, project.OutputFormat)
	overlay(&result.LogLevel, project.LogLevel)
	overlay(&result.Store, project.Store)
	overlay(&result.StoreDSN, project.StoreDSN)
	result.Hooks = mergeHooks(global.Hooks, project.Hooks)
	if project.StatusLine != nil {
		result.StatusLine = project.StatusLine
	}
	return &result
}

// mergeHooks lets project hooks replace global hooks event by event.
func mergeHooks(global, project map[string][]HookDef) map[string][]HookDef {
	if len(project) == 0 {
		return global
	}
	out := make(map[string][]HookDef, len(global)+len(project))
	maps.Copy(out, global)
	maps.Copy(out, project)
	return out
}

func overlay[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}

// Validate rejects values the engine or the CLI cannot honor.
func (s *Settings) Validate() error {
	if s.HistoryLimit < 0 {
		return fmt.Errorf("history_limit must be >= 0, got %d", s.HistoryLimit)
	}
	if s.CoActivationThreshold < 0 || s.CoActivationThreshold > 1 {
		return fmt.Errorf("co_activation_threshold must be in [0, 1], got %v", s.CoActivationThreshold)
	}
	if s.DecayFloor < 0 || s.DecayFloor >= 1 {
		return fmt.Errorf("decay_floor must be in [0, 1), got %v", s.DecayFloor)
	}
	if s.Sensitivity < 0 {
		return fmt.Errorf("sensitivity must be >= 0, got %v", s.Sensitivity)
	}
	if s.TieBreak != "" && !slices.Contains([]string{TieKeepDominant, TieDeclarationOrder}, s.TieBreak) {
		return fmt.Errorf("unknown tie_break %q", s.TieBreak)
	}
	if s.OutputFormat != "" && !slices.Contains([]string{FormatText, FormatJSON, FormatStreamJSON}, s.OutputFormat) {
		return fmt.Errorf("unknown output_format %q", s.OutputFormat)
	}
	if s.Store != "" && !slices.Contains([]string{StoreFile, StoreSQLite, StoreRedis}, s.Store) {
		return fmt.Errorf("unknown store %q", s.Store)
	}
	if s.StatusLine != nil && s.StatusLine.Padding < 0 {
		return fmt.Errorf("status_line.padding must be >= 0, got %d", s.StatusLine.Padding)
	}
	for event, defs := range s.Hooks {
		for i, d := range defs {
			if strings.TrimSpace(d.Command) == "" {
				return fmt.Errorf("hooks.%s[%d]: command is required", event, i)
			}
		}
	}
	return nil
}
