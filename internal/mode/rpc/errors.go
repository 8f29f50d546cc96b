// ABOUTME: Standard JSON-RPC error codes and mood-specific application errors
// ABOUTME: Maps engine and session errors onto RPC error codes

package rpc

import (
	"errors"

	"github.com/mauromedda/pi-mood-go/internal/emotion"
	"github.com/mauromedda/pi-mood-go/internal/session"
)

// Standard JSON-RPC 2.0 error codes.
const (
	ErrCodeParse          = -32700
	ErrCodeInvalidReq     = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternal       = -32603
)

// Custom application error codes.
const (
	ErrCodeUnknownEmotion = -32001
	ErrCodeInvalidSession = -32002
	ErrCodeUnknownEvent   = -32003
)

// NewParseError returns an Error for malformed JSON input.
func NewParseError(msg string) *Error {
	return &Error{Code: ErrCodeParse, Message: msg}
}

// NewMethodNotFoundError returns an Error for an unknown RPC method.
func NewMethodNotFoundError(method string) *Error {
	return &Error{Code: ErrCodeMethodNotFound, Message: "method not found: " + method}
}

// NewInvalidParamsError returns an Error for invalid method parameters.
func NewInvalidParamsError(msg string) *Error {
	return &Error{Code: ErrCodeInvalidParams, Message: msg}
}

// NewInternalError returns an Error for unexpected server-side failures.
func NewInternalError(msg string) *Error {
	return &Error{Code: ErrCodeInternal, Message: msg}
}

// NewUnknownEventError returns an Error for an event missing from the catalog.
func NewUnknownEventError(msg string) *Error {
	return &Error{Code: ErrCodeUnknownEvent, Message: msg}
}

// fromError classifies err into an RPC error.
func fromError(err error) *Error {
	switch {
	case errors.Is(err, emotion.ErrUnknownEmotion):
		return &Error{Code: ErrCodeUnknownEmotion, Message: err.Error()}
	case errors.Is(err, session.ErrInvalidID):
		return &Error{Code: ErrCodeInvalidSession, Message: err.Error()}
	default:
		return NewInternalError(err.Error())
	}
}
