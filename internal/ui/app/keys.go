// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/quill/internal/session"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the keyboard bindings that drive the session.
// Single-letter shortcuts (j/k, q, r) arrive as runes; the session decides
// per mode whether they are commands or text.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Home      key.Binding
	End       key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Backspace key.Binding
	Delete    key.Binding
	Submit    key.Binding
	Cancel    key.Binding
	Quit      key.Binding
	Copy      key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "previous / scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next / scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "ctrl+b"),
			key.WithHelp("←", "cursor left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "ctrl+f"),
			key.WithHelp("→", "cursor right"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "ctrl+a"),
			key.WithHelp("Home/C-a", "line start"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "ctrl+e"),
			key.WithHelp("End/C-e", "line end"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp/C-u", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn/C-d", "page down"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace", "ctrl+h"),
			key.WithHelp("Backspace", "delete back"),
		),
		Delete: key.NewBinding(
			key.WithKeys("delete"),
			key.WithHelp("Del", "delete forward"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send / confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("C-c", "quit"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "copy last reply"),
		),
	}
}

// Translate maps a key press to a session action. It reports false for keys
// the session does not handle.
func (k KeyMap) Translate(msg tea.KeyMsg) (session.InputMsg, bool) {
	switch msg.Type {
	case tea.KeyRunes:
		return session.InputMsg{Action: session.ActionRunes, Runes: msg.Runes}, true
	case tea.KeySpace:
		return session.InputMsg{Action: session.ActionRunes, Runes: []rune{' '}}, true
	}

	bindings := []struct {
		binding key.Binding
		action  session.Action
	}{
		{k.Quit, session.ActionQuit},
		{k.Submit, session.ActionSubmit},
		{k.Cancel, session.ActionCancel},
		{k.Up, session.ActionUp},
		{k.Down, session.ActionDown},
		{k.Left, session.ActionLeft},
		{k.Right, session.ActionRight},
		{k.Home, session.ActionHome},
		{k.End, session.ActionEnd},
		{k.PageUp, session.ActionPageUp},
		{k.PageDown, session.ActionPageDown},
		{k.Backspace, session.ActionBackspace},
		{k.Delete, session.ActionDelete},
	}
	for _, b := range bindings {
		if key.Matches(msg, b.binding) {
			return session.InputMsg{Action: b.action}, true
		}
	}
	return session.InputMsg{}, false
}
