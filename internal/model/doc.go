// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the chat transcript.
//
// # Key Types
//
//   - Message: immutable record of one turn (role, content, timestamp)
//   - Transcript: append-only ordered messages plus at most one pending
//     assistant entry that is always last
//   - Role: message role enumeration (user, assistant, system)
//
// # Usage
//
//	tr := model.NewTranscript()
//	tr.Append(model.NewMessage(model.RoleUser, "Hello!", time.Now()))
//	tr.BeginPending(time.Now())
//	tr.AppendPending("Hi")
//	reply, _ := tr.FreezePending()
package model
