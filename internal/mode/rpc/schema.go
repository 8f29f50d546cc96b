// ABOUTME: Request params and result payloads for the mood RPC methods
// ABOUTME: Session defaults to "default" when a request omits it

package rpc

import "github.com/mauromedda/pi-mood-go/internal/emotion"

// DefaultSession is used when params name no session.
const DefaultSession = "default"

// SessionParams names the session a method acts on.
type SessionParams struct {
	Session string `json:"session,omitempty"`
}

func (p SessionParams) id() string {
	if p.Session == "" {
		return DefaultSession
	}
	return p.Session
}

// UpdateParams runs one text cycle.
type UpdateParams struct {
	SessionParams
	Text    string `json:"text"`
	Context string `json:"context,omitempty"`
}

// TriggerParams runs one event cycle. Intensity defaults to 1.
type TriggerParams struct {
	SessionParams
	Event     string   `json:"event"`
	Intensity *float64 `json:"intensity,omitempty"`
}

// InjectParams forces one activation.
type InjectParams struct {
	SessionParams
	Emotion string  `json:"emotion"`
	Value   float64 `json:"value"`
}

// DropParams forgets a session, optionally deleting its saved state.
type DropParams struct {
	SessionParams
	Purge bool `json:"purge,omitempty"`
}

// ExportParams names the directory receiving JSONL histories.
type ExportParams struct {
	Dir string `json:"dir"`
}

// HistoryResult is the response payload for get_history.
type HistoryResult struct {
	Session   string             `json:"session"`
	Snapshots []emotion.Snapshot `json:"snapshots"`
}

// SessionListResult is the response payload for list_sessions.
type SessionListResult struct {
	Live   []string `json:"live"`
	Stored []string `json:"stored"`
}

// CatalogResult is the response payload for get_catalog.
type CatalogResult struct {
	Emotions     []string            `json:"emotions"`
	Contexts     []string            `json:"contexts"`
	Events       []string            `json:"events"`
	Combinations map[string][]string `json:"combinations"`
}

// OKResult acknowledges methods without a payload.
type OKResult struct {
	OK bool `json:"ok"`
}
