// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"time"

	"github.com/jeranaias/quill/internal/model"
	"github.com/jeranaias/quill/internal/ollama"
)

// =============================================================================
// MODE
// =============================================================================

// Mode is the current state of the session.
type Mode int

const (
	ModeLoading Mode = iota
	ModeSelecting
	ModeChatting
	ModeStreaming
	ModeError
	ModeExiting
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "Loading"
	case ModeSelecting:
		return "Selecting"
	case ModeChatting:
		return "Chatting"
	case ModeStreaming:
		return "Streaming"
	case ModeError:
		return "Error"
	case ModeExiting:
		return "Exiting"
	default:
		return "Unknown"
	}
}

// AcceptsText reports whether printable keys edit the input buffer.
func (m Mode) AcceptsText() bool {
	return m == ModeChatting || m == ModeStreaming
}

// =============================================================================
// STREAM HANDLE
// =============================================================================

// StreamHandle is the in-flight completion. The session holds at most one.
type StreamHandle struct {
	ID        string
	Model     string
	Started   time.Time
	Fragments int

	stream ollama.Stream
}

// =============================================================================
// STATE
// =============================================================================

// State is the whole session. It is owned by a Machine; readers such as the
// renderer must treat it as read-only.
type State struct {
	Mode Mode

	// Catalog is replaced wholesale on every successful fetch.
	Catalog  []string
	Selected int

	// Model is fixed when the user confirms a selection.
	Model string

	Input  []rune
	Cursor int

	Transcript *model.Transcript
	Stream     *StreamHandle
	LastError  *Error

	// Notice is a one-line hint that lasts until the next key.
	Notice string

	// LastRate is the generation speed of the last completed reply.
	LastRate float64

	// Scroll is how many lines the transcript view is scrolled up from the bottom.
	Scroll int

	// Frame counts render ticks and drives spinner animation.
	Frame int
}

// InputText returns the input buffer as a string.
func (s *State) InputText() string {
	return string(s.Input)
}

// SelectedModel returns the catalog entry under the cursor.
func (s *State) SelectedModel() string {
	if s.Selected < 0 || s.Selected >= len(s.Catalog) {
		return ""
	}
	return s.Catalog[s.Selected]
}
