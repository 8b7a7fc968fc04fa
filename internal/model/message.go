// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Label returns the upper-case label shown above a message.
func (r Role) Label() string {
	switch r {
	case RoleUser:
		return "USER"
	case RoleAssistant:
		return "ASSISTANT"
	case RoleSystem:
		return "SYSTEM"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single entry in the transcript. Messages are values; once
// appended they are never edited.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Timestamp time.Time
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string, at time.Time) Message {
	return Message{
		ID:        newID(),
		Role:      role,
		Content:   content,
		Timestamp: at,
	}
}

// IsEmpty reports whether the message has no content.
func (m Message) IsEmpty() bool {
	return m.Content == ""
}

// FormatTime returns the message time as HH:MM.
func (m Message) FormatTime() string {
	if m.Timestamp.IsZero() {
		return "--:--"
	}
	return m.Timestamp.Format("15:04")
}

func newID() string {
	return "msg_" + uuid.NewString()
}
