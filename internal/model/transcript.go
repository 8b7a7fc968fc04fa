// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/jeranaias/quill/internal/ollama"
)

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript is the ordered history of a chat. Frozen messages are only ever
// appended. At most one pending assistant entry exists at a time and it is
// always the last entry; it ends either frozen into a normal Message or
// discarded.
//
// Transcript is not safe for concurrent use.
type Transcript struct {
	messages []Message
	pending  *pendingEntry
}

type pendingEntry struct {
	id        string
	timestamp time.Time
	// PERFORMANCE: strings.Builder avoids quadratic allocations during streaming
	content strings.Builder
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds a frozen message. A pending entry, if any, stays last.
func (t *Transcript) Append(msg Message) {
	t.messages = append(t.messages, msg)
}

// BeginPending opens a new pending assistant entry. It returns false and
// leaves the transcript unchanged if one is already open.
func (t *Transcript) BeginPending(at time.Time) bool {
	if t.pending != nil {
		return false
	}
	t.pending = &pendingEntry{id: newID(), timestamp: at}
	return true
}

// AppendPending appends a fragment to the pending entry, in call order.
func (t *Transcript) AppendPending(fragment string) bool {
	if t.pending == nil {
		return false
	}
	t.pending.content.WriteString(fragment)
	return true
}

// FreezePending converts the pending entry into a normal assistant message.
func (t *Transcript) FreezePending() (Message, bool) {
	if t.pending == nil {
		return Message{}, false
	}
	msg := t.pending.snapshot()
	t.pending = nil
	t.messages = append(t.messages, msg)
	return msg, true
}

// DiscardPending drops the pending entry and its partial content.
func (t *Transcript) DiscardPending() bool {
	if t.pending == nil {
		return false
	}
	t.pending = nil
	return true
}

// HasPending reports whether a pending entry is open.
func (t *Transcript) HasPending() bool {
	return t.pending != nil
}

// Pending returns a snapshot of the pending entry.
func (t *Transcript) Pending() (Message, bool) {
	if t.pending == nil {
		return Message{}, false
	}
	return t.pending.snapshot(), true
}

// Messages returns a copy of the frozen messages.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of frozen messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Last returns the most recent frozen message.
func (t *Transcript) Last() (Message, bool) {
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// LastOfRole returns the most recent frozen message with the given role.
func (t *Transcript) LastOfRole(role Role) (Message, bool) {
	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].Role == role {
			return t.messages[i], true
		}
	}
	return Message{}, false
}

// ToOllamaMessages converts the frozen history into a request context,
// prefixed with the system prompt when one is given. The pending entry is
// never included.
func (t *Transcript) ToOllamaMessages(systemPrompt string) []ollama.Message {
	messages := make([]ollama.Message, 0, len(t.messages)+1)
	if systemPrompt != "" {
		messages = append(messages, ollama.NewSystemMessage(systemPrompt))
	}
	for _, msg := range t.messages {
		if msg.Content == "" {
			continue
		}
		messages = append(messages, ollama.Message{
			Role:    msg.Role.String(),
			Content: msg.Content,
		})
	}
	return messages
}

func (p *pendingEntry) snapshot() Message {
	return Message{
		ID:        p.id,
		Role:      RoleAssistant,
		Content:   p.content.String(),
		Timestamp: p.timestamp,
	}
}
