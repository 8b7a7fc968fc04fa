// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import "github.com/jeranaias/quill/internal/ollama"

// =============================================================================
// INPUT
// =============================================================================

// Action is a key press already translated by the terminal driver.
type Action int

const (
	ActionNone Action = iota
	// ActionRunes carries printable text in InputMsg.Runes.
	ActionRunes
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionHome
	ActionEnd
	ActionBackspace
	ActionDelete
	ActionPageUp
	ActionPageDown
	// ActionSubmit confirms a selection, sends input or acknowledges an error.
	ActionSubmit
	// ActionCancel backs out: cancels a reply, clears input, declines a retry.
	ActionCancel
	// ActionQuit exits from any mode.
	ActionQuit
)

// InputMsg is a key action delivered to the machine.
type InputMsg struct {
	Action Action
	Runes  []rune
}

// =============================================================================
// NETWORK RESULTS
// =============================================================================

// CatalogLoadedMsg is the result of a model list fetch.
type CatalogLoadedMsg struct {
	Seq    int
	Models []string
	Err    error
}

// StreamFragmentMsg carries one fragment of the stream with the given ID.
type StreamFragmentMsg struct {
	StreamID string
	Fragment ollama.Fragment
}

// StreamEndMsg ends the stream with the given ID. A nil Err means the server
// finished the reply.
type StreamEndMsg struct {
	StreamID string
	Err      error
}
