// ABOUTME: External command engine that renders the console status line from the current mood
// ABOUTME: Pipes the mood as JSON to a shell command, keeps the first line of stdout, applies padding

package statusline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/mauromedda/pi-mood-go/internal/emotion"
)

const defaultTimeout = 5 * time.Second

// Input contains the data piped to the external status line command as JSON.
type Input struct {
	CWD       string     `json:"cwd"`
	SessionID string     `json:"session_id,omitempty"`
	Context   string     `json:"context,omitempty"`
	Turn      int        `json:"turn"`
	Mood      MoodInfo   `json:"mood"`
	Affect    AffectInfo `json:"affect"`
}

// MoodInfo describes the dominant emotion.
type MoodInfo struct {
	Dominant string   `json:"dominant"`
	Band     string   `json:"band"`
	Value    float64  `json:"value"`
	Derived  []string `json:"derived,omitempty"`
}

// AffectInfo is the blended affect vector.
type AffectInfo struct {
	Energy     float64 `json:"energy"`
	Positivity float64 `json:"positivity"`
	Arousal    float64 `json:"arousal"`
	Dominance  float64 `json:"dominance"`
}

// NewInput builds the command input for snapshot s of session id.
func NewInput(cwd, id, contextTag string, s emotion.Snapshot) Input {
	return Input{
		CWD:       cwd,
		SessionID: id,
		Context:   contextTag,
		Turn:      s.Turn,
		Mood: MoodInfo{
			Dominant: s.Dominant,
			Band:     s.Intensity.Band,
			Value:    s.Intensity.Value,
			Derived:  s.Derived,
		},
		Affect: AffectInfo{
			Energy:     s.Affect.Energy,
			Positivity: s.Affect.Positivity,
			Arousal:    s.Affect.Arousal,
			Dominance:  s.Affect.Dominance,
		},
	}
}

// Engine executes an external command to produce status line content.
type Engine struct {
	command string
	padding int
}

// New creates a status line engine with the given shell command and padding.
func New(command string, padding int) *Engine {
	return &Engine{
		command: command,
		padding: padding,
	}
}

// HasCommand reports whether an external command is configured.
func (e *Engine) HasCommand() bool {
	return e != nil && e.command != ""
}

// Execute runs the configured command, piping the Input as JSON to stdin.
// Only the first line of stdout is kept. Without a deadline on ctx the
// command gets five seconds.
func (e *Engine) Execute(ctx context.Context, input Input) (string, error) {
	if !e.HasCommand() {
		return "", fmt.Errorf("no command configured")
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}

	data, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("marshaling input: %w", err)
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", e.command)
	cmd.Stdin = bytes.NewReader(data)
	cmd.WaitDelay = time.Second

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("running status line command: %w", err)
	}

	result, _, _ := strings.Cut(strings.TrimSpace(stdout.String()), "\n")
	result = strings.TrimRight(result, "\r")

	if e.padding > 0 {
		result = strings.Repeat(" ", e.padding) + result
	}

	return result, nil
}
