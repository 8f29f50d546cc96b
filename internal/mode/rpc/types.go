// ABOUTME: RPC request/response envelope for hosts driving the mood engine
// ABOUTME: JSON-serializable types exchanged one per line over stdin/stdout

package rpc

import (
	"encoding/json"
	"fmt"
)

// Request represents an RPC request from an external client.
type Request struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response represents an RPC response to an external client.
type Response struct {
	ID     string `json:"id"`
	Result any    `json:"result,omitempty"`
	Error  *Error `json:"error,omitempty"`
}

// Error represents an RPC error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Methods
const (
	MethodUpdate       = "update"
	MethodTrigger      = "trigger"
	MethodInject       = "inject"
	MethodReset        = "reset"
	MethodGetState     = "get_state"
	MethodGetHistory   = "get_history"
	MethodListSessions = "list_sessions"
	MethodDrop         = "drop"
	MethodExport       = "export"
	MethodGetCatalog   = "get_catalog"
)
