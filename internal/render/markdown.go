// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// Markdown renders frozen assistant replies with glamour. Frozen messages
// never change, so output is memoized per message and width; the result for
// a given input is always the same.
type Markdown struct {
	style string

	mu       sync.Mutex
	width    int
	renderer *glamour.TermRenderer
	cache    map[string]string
	unusable bool
}

// NewMarkdown returns a renderer using a glamour standard style ("dark",
// "light" or "notty").
func NewMarkdown(style string) *Markdown {
	if style == "" {
		style = "dark"
	}
	return &Markdown{style: style, cache: make(map[string]string)}
}

// Render returns the rendered content for the message with the given id.
// It reports false when rendering fails; the caller falls back to plain
// wrapping.
func (m *Markdown) Render(id, content string, width int) (string, bool) {
	if m == nil || width <= 0 {
		return "", false
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if width != m.width {
		// Rendered output depends on the wrap width.
		m.width = width
		m.renderer = nil
		m.unusable = false
		m.cache = make(map[string]string)
	}
	if out, ok := m.cache[id]; ok {
		return out, true
	}
	if m.unusable {
		return "", false
	}
	if m.renderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			m.unusable = true
			return "", false
		}
		m.renderer = r
	}

	out, err := m.renderer.Render(content)
	if err != nil {
		return "", false
	}
	out = strings.Trim(out, "\n")
	m.cache[id] = out
	return out, true
}
