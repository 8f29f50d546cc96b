// ABOUTME: YAML catalog document schema and loading entry points
// ABOUTME: Preserves mapping order via yaml.Node so declaration order drives tie-breaks

package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Entry is one key/value pair of an ordered YAML mapping.
type Entry[T any] struct {
	Key   string
	Value T
}

// Ordered is a YAML mapping decoded with its key order intact.
type Ordered[T any] []Entry[T]

// UnmarshalYAML decodes a mapping node pair by pair.
func (o *Ordered[T]) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", n.Line)
	}
	out := make(Ordered[T], 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		var v T
		if err := n.Content[i+1].Decode(&v); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		out = append(out, Entry[T]{Key: key, Value: v})
	}
	*o = out
	return nil
}

// MoodSpec is the document form of one emotion definition.
type MoodSpec struct {
	Energy            float64            `yaml:"energy"`
	Positivity        float64            `yaml:"positivity"`
	Arousal           float64            `yaml:"arousal"`
	Dominance         float64            `yaml:"dominance"`
	Keywords          []string           `yaml:"keywords"`
	Transitions       map[string]float64 `yaml:"transitions"`
	ResponseModifiers map[string]string  `yaml:"response_modifiers"`
}

// BandSpec is the document form of an intensity level.
type BandSpec struct {
	Range       []float64 `yaml:"range"`
	Description string    `yaml:"description"`
	Modifier    string    `yaml:"modifier"`
}

// AmplifierSpec is the document form of the intensity amplifier section.
type AmplifierSpec struct {
	Words []string `yaml:"words"`
	Step  float64  `yaml:"step"`
	Max   float64  `yaml:"max"`
}

// Document is the parsed, not yet validated, catalog configuration.
type Document struct {
	Moods               Ordered[MoodSpec]           `yaml:"moods"`
	Combinations        Ordered[[]string]           `yaml:"emotion_combinations"`
	IntensityLevels     Ordered[BandSpec]           `yaml:"intensity_levels"`
	DecayRates          Ordered[float64]            `yaml:"decay_rates"`
	ContextualModifiers Ordered[map[string]float64] `yaml:"contextual_modifiers"`
	Amplifiers          *AmplifierSpec              `yaml:"intensity_amplifiers"`
	Events              Ordered[map[string]float64] `yaml:"events"`
}

// ErrConfig is matched by every catalog configuration failure.
var ErrConfig = errors.New("configuration error")

// ConfigError describes why a catalog was rejected.
type ConfigError struct {
	Section string
	Key     string
	Reason  string
}

func (e *ConfigError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("configuration error: %s: %s", e.Section, e.Reason)
	}
	return fmt.Sprintf("configuration error: %s.%s: %s", e.Section, e.Key, e.Reason)
}

// Unwrap lets errors.Is(err, ErrConfig) match.
func (e *ConfigError) Unwrap() error {
	return ErrConfig
}

func configErr(section, key, format string, args ...any) *ConfigError {
	return &ConfigError{Section: section, Key: key, Reason: fmt.Sprintf(format, args...)}
}

// Parse decodes and validates a YAML catalog. Unknown top-level sections are rejected.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, configErr("document", "", "empty catalog")
		}
		return nil, &ConfigError{Section: "document", Reason: err.Error()}
	}
	return New(doc)
}

// LoadFile reads and parses a catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(defaultYAML)
}

// DefaultYAML returns a copy of the built-in catalog source.
func DefaultYAML() []byte {
	return bytes.Clone(defaultYAML)
}
