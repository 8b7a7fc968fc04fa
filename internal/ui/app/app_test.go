// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/quill/internal/ollama"
	"github.com/jeranaias/quill/internal/session"
	"github.com/jeranaias/quill/internal/ui/styles"
)

// =============================================================================
// FAKES
// =============================================================================

type fakeDirectory struct{ names []string }

func (f fakeDirectory) ModelNames(ctx context.Context) ([]string, error) {
	return f.names, nil
}

type fakeStream struct {
	frags []ollama.Fragment
	pos   int
}

func (s *fakeStream) Recv() (ollama.Fragment, error) {
	if s.pos >= len(s.frags) {
		return ollama.Fragment{}, io.EOF
	}
	f := s.frags[s.pos]
	s.pos++
	return f, nil
}

func (s *fakeStream) Close() error { return nil }

type fakeCompleter struct{ reply []string }

func (f *fakeCompleter) StreamChat(ctx context.Context, model string, messages []ollama.Message) (ollama.Stream, error) {
	s := &fakeStream{}
	for _, part := range f.reply {
		s.frags = append(s.frags, ollama.Fragment{Content: part})
	}
	s.frags = append(s.frags, ollama.Fragment{Done: true})
	return s, nil
}

// =============================================================================
// HELPERS
// =============================================================================

type harness struct {
	app     *Model
	machine *session.Machine
	copied  []string
	copyErr error
}

func newHarness(t *testing.T, reply ...string) *harness {
	t.Helper()
	h := &harness{}
	h.machine = session.New(context.Background(),
		fakeDirectory{names: []string{"llama3", "mistral"}},
		&fakeCompleter{reply: reply},
		session.Options{Endpoint: "http://test"})
	theme := styles.NewThemeWithProfile(termenv.Ascii, true)
	h.app = New(h.machine, theme, Options{
		Clipboard: func(s string) error {
			h.copied = append(h.copied, s)
			return h.copyErr
		},
	})
	h.app.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	h.run(h.machine.Init())
	require.Equal(t, session.ModeSelecting, h.machine.State().Mode)
	return h
}

// run feeds command results back into the app until none remain.
func (h *harness) run(cmd tea.Cmd) {
	for cmd != nil {
		_, cmd = h.app.Update(cmd())
	}
}

func (h *harness) press(k tea.KeyType) {
	_, cmd := h.app.Update(tea.KeyMsg{Type: k})
	h.run(cmd)
}

func (h *harness) typeText(s string) {
	_, cmd := h.app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	h.run(cmd)
}

func (h *harness) send(text string) {
	h.typeText(text)
	h.press(tea.KeyEnter)
}

// =============================================================================
// KEY TRANSLATION
// =============================================================================

func TestKeyMap_Translate(t *testing.T) {
	keys := DefaultKeyMap()
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want session.Action
	}{
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, session.ActionSubmit},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, session.ActionCancel},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, session.ActionQuit},
		{"up", tea.KeyMsg{Type: tea.KeyUp}, session.ActionUp},
		{"down", tea.KeyMsg{Type: tea.KeyDown}, session.ActionDown},
		{"left", tea.KeyMsg{Type: tea.KeyLeft}, session.ActionLeft},
		{"ctrl+a", tea.KeyMsg{Type: tea.KeyCtrlA}, session.ActionHome},
		{"end", tea.KeyMsg{Type: tea.KeyEnd}, session.ActionEnd},
		{"pgdown", tea.KeyMsg{Type: tea.KeyPgDown}, session.ActionPageDown},
		{"backspace", tea.KeyMsg{Type: tea.KeyBackspace}, session.ActionBackspace},
		{"delete", tea.KeyMsg{Type: tea.KeyDelete}, session.ActionDelete},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := keys.Translate(tc.msg)
			require.True(t, ok)
			assert.Equal(t, tc.want, got.Action)
		})
	}

	got, ok := keys.Translate(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hé")})
	require.True(t, ok)
	assert.Equal(t, session.InputMsg{Action: session.ActionRunes, Runes: []rune("hé")}, got)

	got, ok = keys.Translate(tea.KeyMsg{Type: tea.KeySpace})
	require.True(t, ok)
	assert.Equal(t, []rune{' '}, got.Runes)

	_, ok = keys.Translate(tea.KeyMsg{Type: tea.KeyF5})
	assert.False(t, ok)
}

// =============================================================================
// DRIVER
// =============================================================================

func TestSelectionIsPainted(t *testing.T) {
	h := newHarness(t)
	view := h.app.View()
	assert.Contains(t, view, "Select a model (2 available)")
	assert.Contains(t, view, "> llama3")
	assert.Contains(t, view, "  mistral")

	h.press(tea.KeyDown)
	assert.Contains(t, h.app.View(), "> mistral")
}

func TestChatRoundTrip(t *testing.T) {
	h := newHarness(t, "Hel", "lo")
	h.press(tea.KeyEnter)
	require.Equal(t, session.ModeChatting, h.machine.State().Mode)
	assert.Contains(t, h.app.View(), "Type your message...")

	h.send("hi")
	st := h.machine.State()
	require.Equal(t, session.ModeChatting, st.Mode)
	require.Equal(t, 2, st.Transcript.Len())

	view := h.app.View()
	assert.Contains(t, view, "USER")
	assert.Contains(t, view, "ASSISTANT")
	assert.Contains(t, view, "Hello")
}

func TestViewFillsTerminal(t *testing.T) {
	h := newHarness(t, "reply")
	h.press(tea.KeyEnter)
	h.send("hello")

	rows := strings.Split(h.app.View(), "\n")
	require.Len(t, rows, 20)
	// The input box spans the full width.
	for _, row := range rows[16:19] {
		assert.Equal(t, 60, lipgloss.Width(row), "row %q", row)
	}
}

func TestCopyLastReply(t *testing.T) {
	h := newHarness(t, "Hel", "lo")
	h.press(tea.KeyEnter)

	h.press(tea.KeyCtrlY)
	assert.Empty(t, h.copied)
	assert.Equal(t, "No reply to copy yet.", h.machine.State().Notice)

	h.send("hi")
	h.press(tea.KeyCtrlY)
	assert.Equal(t, []string{"Hello"}, h.copied)
	assert.Contains(t, h.app.View(), "Copied the last reply")

	h.copyErr = errors.New("no clipboard")
	h.press(tea.KeyCtrlY)
	assert.Equal(t, "Clipboard unavailable: no clipboard", h.machine.State().Notice)
}

func TestTickAdvancesFrame(t *testing.T) {
	h := newHarness(t)
	_, cmd := h.app.Update(tickMsg(time.Now()))
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, h.machine.State().Frame)
}

func TestQuit(t *testing.T) {
	h := newHarness(t)
	_, cmd := h.app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, session.ModeExiting, h.machine.State().Mode)
	assert.Equal(t, 0, h.app.ExitCode())

	_, cmd = h.app.Update(tickMsg(time.Now()))
	assert.Nil(t, cmd)
}

func TestScrollLimitFollowsWindow(t *testing.T) {
	reply := strings.Repeat("line\n", 30)
	h := newHarness(t, reply)
	h.press(tea.KeyEnter)
	h.send("long please")

	h.app.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	for i := 0; i < 20; i++ {
		h.press(tea.KeyPgUp)
	}
	limit := h.app.layout().MaxScroll
	require.Greater(t, limit, 0)
	assert.Equal(t, limit, h.machine.State().Scroll)

	// Growing the window lowers the limit and pulls the offset back.
	h.app.Update(tea.WindowSizeMsg{Width: 40, Height: 30})
	assert.LessOrEqual(t, h.machine.State().Scroll, h.app.layout().MaxScroll)
}

func TestSplitAtCell(t *testing.T) {
	before, at, after := splitAtCell("a世b", 1)
	assert.Equal(t, "a", before)
	assert.Equal(t, "世", at)
	assert.Equal(t, "b", after)

	before, at, after = splitAtCell("ab", 5)
	assert.Equal(t, "ab", before)
	assert.Empty(t, at)
	assert.Empty(t, after)
}
