// ABOUTME: Tests for settings loading, merging, and validation
// ABOUTME: Uses temp directories for isolated file-based tests

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMerge(t *testing.T) {
	t.Parallel()

	global := &Settings{CatalogPath: "/etc/moods.yaml", Sensitivity: 2.5, HistoryLimit: 50}
	project := &Settings{CatalogPath: "moods.yaml", Store: StoreSQLite}

	result := merge(global, project)

	if result.CatalogPath != "moods.yaml" {
		t.Errorf("CatalogPath = %q, want %q", result.CatalogPath, "moods.yaml")
	}
	if result.Sensitivity != 2.5 || result.HistoryLimit != 50 {
		t.Errorf("global values lost: %+v", result)
	}
	if result.Store != StoreSQLite {
		t.Errorf("Store = %q, want sqlite", result.Store)
	}
	if global.CatalogPath != "/etc/moods.yaml" {
		t.Error("merge mutated the global settings")
	}
}

func TestMerge_HooksPerEvent(t *testing.T) {
	t.Parallel()

	global := &Settings{Hooks: map[string][]HookDef{
		"MoodChanged":  {{Command: "global-change"}},
		"SessionReset": {{Command: "global-reset"}},
	}}
	project := &Settings{Hooks: map[string][]HookDef{
		"MoodChanged": {{Matcher: "anger", Command: "project-change"}},
	}}

	result := merge(global, project)

	if got := result.Hooks["MoodChanged"]; len(got) != 1 || got[0].Command != "project-change" {
		t.Errorf("MoodChanged hooks = %+v, want project hook", got)
	}
	if got := result.Hooks["SessionReset"]; len(got) != 1 || got[0].Command != "global-reset" {
		t.Errorf("SessionReset hooks = %+v, want global hook", got)
	}
	if global.Hooks["MoodChanged"][0].Command != "global-change" {
		t.Error("merge mutated the global hooks")
	}
}

func TestMerge_Nil(t *testing.T) {
	t.Parallel()

	if merge(nil, nil) == nil {
		t.Fatal("merge(nil, nil) should return non-nil")
	}
}

func TestLoadFile_NotExist(t *testing.T) {
	t.Parallel()

	s, err := loadFile("/nonexistent/path/config.json")
	if !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if s == nil {
		t.Fatal("expected zero Settings, got nil")
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadFile(path); err == nil || !strings.Contains(err.Error(), "parsing") {
		t.Errorf("expected parsing error, got %v", err)
	}
}

func TestLoad_ProjectOverridesAndExpands(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("MOOD_DIR", "/srv/moods")

	writeFile(t, GlobalConfigFile(), `{"sensitivity": 2, "output_format": "json"}`)
	root := t.TempDir()
	writeFile(t, ProjectConfigFile(root), `{"catalog_path": "${MOOD_DIR}/custom.yaml", "output_format": "text"}`)

	s, err := Load(root)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if s.CatalogPath != "/srv/moods/custom.yaml" {
		t.Errorf("CatalogPath = %q", s.CatalogPath)
	}
	if s.Sensitivity != 2 || s.OutputFormat != FormatText {
		t.Errorf("merged = %+v", s)
	}
}

func TestLoad_DotEnvFillsUnsetVars(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	root := t.TempDir()

	writeFile(t, filepath.Join(ProjectDir(root), ".env"), "PI_MOOD_TEST_DSN=redis://cache:6379/2\n")
	writeFile(t, ProjectConfigFile(root), `{"store": "redis", "store_dsn": "${PI_MOOD_TEST_DSN}"}`)
	t.Cleanup(func() { os.Unsetenv("PI_MOOD_TEST_DSN") })

	s, err := Load(root)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if s.StoreDSN != "redis://cache:6379/2" {
		t.Errorf("StoreDSN = %q", s.StoreDSN)
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	root := t.TempDir()
	writeFile(t, ProjectConfigFile(root), `{"store": "floppy"}`)

	if _, err := Load(root); err == nil {
		t.Error("expected validation error")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		s       Settings
		wantErr bool
	}{
		{"zero", Settings{}, false},
		{"full", Settings{HistoryLimit: 10, CoActivationThreshold: 0.6, DecayFloor: 0.05, Sensitivity: 2, TieBreak: TieDeclarationOrder, OutputFormat: FormatStreamJSON, Store: StoreFile}, false},
		{"negative history", Settings{HistoryLimit: -1}, true},
		{"threshold above one", Settings{CoActivationThreshold: 1.5}, true},
		{"floor of one", Settings{DecayFloor: 1}, true},
		{"negative sensitivity", Settings{Sensitivity: -1}, true},
		{"tie break", Settings{TieBreak: "coin-flip"}, true},
		{"format", Settings{OutputFormat: "xml"}, true},
		{"store", Settings{Store: "tape"}, true},
		{"status line padding", Settings{StatusLine: &StatusLine{Command: "echo hi", Padding: -1}}, true},
		{"hook", Settings{Hooks: map[string][]HookDef{"MoodChanged": {{Matcher: "anger"}}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := tt.s.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
