// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"fmt"

	"github.com/jeranaias/quill/internal/ollama"
)

// ErrorKind classifies failures shown to the user.
type ErrorKind int

const (
	// TransportError: the catalog fetch failed (unreachable, timeout, malformed).
	TransportError ErrorKind = iota + 1
	// EmptyCatalogError: the server answered but lists no models.
	EmptyCatalogError
	// StreamInterruptedError: a completion failed or stalled mid-stream.
	StreamInterruptedError
)

// String returns the string representation of the kind.
func (k ErrorKind) String() string {
	switch k {
	case TransportError:
		return "TransportError"
	case EmptyCatalogError:
		return "EmptyCatalogError"
	case StreamInterruptedError:
		return "StreamInterruptedError"
	default:
		return "UnknownError"
	}
}

// Error is a failure recorded in State.LastError. Every collaborator error
// is converted into one of these before it reaches the state.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// FromCatalog reports whether the error came from fetching the model list.
// Acknowledging such an error retries the fetch.
func (e *Error) FromCatalog() bool {
	return e.Kind == TransportError || e.Kind == EmptyCatalogError
}

func catalogError(err error, endpoint string) *Error {
	var msg string
	switch {
	case ollama.IsNotRunning(err):
		msg = fmt.Sprintf("Cannot reach the model server at %s. Is Ollama running?", endpoint)
	case ollama.IsTimeout(err):
		msg = fmt.Sprintf("The model server at %s did not answer in time.", endpoint)
	default:
		msg = fmt.Sprintf("Failed to fetch the model list from %s: %v", endpoint, err)
	}
	return &Error{Kind: TransportError, Message: msg, Cause: err}
}

func emptyCatalogError(endpoint string) *Error {
	return &Error{
		Kind:    EmptyCatalogError,
		Message: fmt.Sprintf("No models are installed on %s. Pull one with 'ollama pull <model>' and retry.", endpoint),
	}
}

func streamError(err error, modelName string) *Error {
	var msg string
	switch {
	case ollama.IsStalled(err):
		msg = "The response stalled and was discarded."
	case ollama.IsModelNotFound(err):
		msg = fmt.Sprintf("Model %q is not available on the server.", modelName)
	case errors.Is(err, ollama.ErrTruncated):
		msg = "The connection closed before the response finished. The partial reply was discarded."
	case ollama.IsNotRunning(err):
		msg = "Lost connection to the model server. The partial reply was discarded."
	case ollama.IsTimeout(err):
		msg = "The model server timed out. The partial reply was discarded."
	default:
		msg = fmt.Sprintf("The response was interrupted: %v", err)
	}
	return &Error{Kind: StreamInterruptedError, Message: msg, Cause: err}
}
