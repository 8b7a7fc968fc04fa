// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import "unicode"

// sanitizeRunes keeps printable runes. Pasted newlines and tabs become
// spaces since the input is a single line.
func sanitizeRunes(in []rune) []rune {
	out := make([]rune, 0, len(in))
	for _, r := range in {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			out = append(out, ' ')
		case unicode.IsPrint(r):
			out = append(out, r)
		}
	}
	return out
}

func (s *State) clampCursor() {
	if s.Cursor < 0 {
		s.Cursor = 0
	}
	if s.Cursor > len(s.Input) {
		s.Cursor = len(s.Input)
	}
}

// insertRunes inserts text at the cursor and moves the cursor past it.
func (s *State) insertRunes(runes []rune) {
	runes = sanitizeRunes(runes)
	if len(runes) == 0 {
		return
	}
	s.clampCursor()
	buf := make([]rune, 0, len(s.Input)+len(runes))
	buf = append(buf, s.Input[:s.Cursor]...)
	buf = append(buf, runes...)
	buf = append(buf, s.Input[s.Cursor:]...)
	s.Input = buf
	s.Cursor += len(runes)
}

// backspace removes the rune before the cursor.
func (s *State) backspace() {
	s.clampCursor()
	if s.Cursor == 0 {
		return
	}
	s.Input = append(s.Input[:s.Cursor-1:s.Cursor-1], s.Input[s.Cursor:]...)
	s.Cursor--
}

// deleteForward removes the rune under the cursor.
func (s *State) deleteForward() {
	s.clampCursor()
	if s.Cursor >= len(s.Input) {
		return
	}
	s.Input = append(s.Input[:s.Cursor:s.Cursor], s.Input[s.Cursor+1:]...)
}

func (s *State) moveCursor(delta int) {
	s.Cursor += delta
	s.clampCursor()
}

func (s *State) clearInput() {
	s.Input = nil
	s.Cursor = 0
}
