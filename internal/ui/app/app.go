// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the terminal driver. It adapts Bubble Tea events into
// session input, runs the render tick and paints render layouts.
package app

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/quill/internal/model"
	"github.com/jeranaias/quill/internal/render"
	"github.com/jeranaias/quill/internal/session"
	"github.com/jeranaias/quill/internal/ui/styles"
)

// DefaultTickInterval is the repaint cadence.
const DefaultTickInterval = 100 * time.Millisecond

// Fallback size until the terminal reports its dimensions.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Options configures the driver.
type Options struct {
	// Timestamps shows message times on meta lines.
	Timestamps bool
	// Markdown renders finished replies with glamour.
	Markdown bool
	// TickInterval overrides DefaultTickInterval.
	TickInterval time.Duration
	// Clipboard writes text to the system clipboard (default clipboard.WriteAll).
	Clipboard func(string) error
}

// =============================================================================
// MESSAGES
// =============================================================================

type tickMsg time.Time

type copiedMsg struct {
	err   error
	empty bool
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model wrapping a session machine.
type Model struct {
	machine *session.Machine
	theme   *styles.Theme
	keys    KeyMap
	opts    Options
	md      *render.Markdown

	width  int
	height int
}

// New creates the driver for machine.
func New(machine *session.Machine, theme *styles.Theme, opts Options) *Model {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	m := &Model{
		machine: machine,
		theme:   theme,
		keys:    DefaultKeyMap(),
		opts:    opts,
		width:   defaultWidth,
		height:  defaultHeight,
	}
	if opts.Markdown {
		m.md = render.NewMarkdown(theme.MarkdownStyle())
	}
	return m
}

// ExitCode is the process exit status chosen by the session.
func (m *Model) ExitCode() int {
	return m.machine.ExitCode()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.machine.Init(), m.tick())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.syncScrollLimit()
		return m, nil

	case tickMsg:
		if m.machine.State().Mode == session.ModeExiting {
			return m, nil
		}
		m.machine.Tick()
		return m, m.tick()

	case copiedMsg:
		switch {
		case msg.empty:
			m.machine.Notify("No reply to copy yet.")
		case msg.err != nil:
			m.machine.Notify("Clipboard unavailable: " + msg.err.Error())
		default:
			m.machine.Notify("Copied the last reply to the clipboard.")
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Copy) {
			return m, m.copyLastReply()
		}
		in, ok := m.keys.Translate(msg)
		if !ok {
			return m, nil
		}
		m.syncScrollLimit()
		return m, m.machine.Update(in)
	}

	// Catalog and stream results.
	return m, m.machine.Update(msg)
}

// View implements tea.Model.
func (m *Model) View() string {
	return paint(m.layout(), m.theme)
}

func (m *Model) layout() render.Layout {
	return render.Build(m.machine.State(), render.Options{
		Width:      m.width,
		Height:     m.height,
		Timestamps: m.opts.Timestamps,
		Markdown:   m.md,
	})
}

// syncScrollLimit tells the machine how far the transcript can scroll at
// the current size.
func (m *Model) syncScrollLimit() {
	m.machine.SetScrollLimit(m.layout().MaxScroll)
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.opts.TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) copyLastReply() tea.Cmd {
	msg, ok := m.machine.State().Transcript.LastOfRole(model.RoleAssistant)
	if !ok || msg.IsEmpty() {
		return func() tea.Msg { return copiedMsg{empty: true} }
	}
	write := m.opts.Clipboard
	content := msg.Content
	return func() tea.Msg {
		return copiedMsg{err: write(content)}
	}
}
