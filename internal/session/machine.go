// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
	"pkt.systems/pslog"

	"github.com/jeranaias/quill/internal/logx"
	"github.com/jeranaias/quill/internal/model"
	"github.com/jeranaias/quill/internal/ollama"
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// Directory lists the models a server offers.
type Directory interface {
	ModelNames(ctx context.Context) ([]string, error)
}

// Completer starts streaming completions.
type Completer interface {
	StreamChat(ctx context.Context, model string, messages []ollama.Message) (ollama.Stream, error)
}

// Options configures a Machine.
type Options struct {
	// SystemPrompt is sent ahead of the transcript on every request.
	SystemPrompt string
	// DefaultModel preselects this catalog entry when present.
	DefaultModel string
	// Endpoint names the server in error messages.
	Endpoint string
	// PageSize is the number of lines PageUp and PageDown scroll (default 10).
	PageSize int
	// Now returns the current time (default time.Now).
	Now func() time.Time
}

// =============================================================================
// MACHINE
// =============================================================================

// Machine drives every State transition. Its methods must be called from a
// single goroutine, which in the running program is the Bubble Tea loop;
// commands it returns run elsewhere and report back only through messages.
type Machine struct {
	ctx  context.Context
	dir  Directory
	comp Completer
	opts Options
	log  pslog.Logger

	state State

	fetchSeq    int
	fetchCancel context.CancelFunc
	scrollLimit int
	exitCode    int

	fragLog rate.Sometimes
}

// New creates a machine in Loading mode. Network work is bound to ctx.
func New(ctx context.Context, dir Directory, comp Completer, opts Options) *Machine {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	return &Machine{
		ctx:         ctx,
		dir:         dir,
		comp:        comp,
		opts:        opts,
		log:         logx.Ctx(ctx),
		state:       State{Mode: ModeLoading, Transcript: model.NewTranscript()},
		scrollLimit: -1,
		fragLog:     rate.Sometimes{First: 3, Interval: 2 * time.Second},
	}
}

// State returns the current state for rendering.
func (m *Machine) State() *State {
	return &m.state
}

// ExitCode is the process exit status once the machine reached Exiting.
func (m *Machine) ExitCode() int {
	return m.exitCode
}

// Init starts the first catalog fetch.
func (m *Machine) Init() tea.Cmd {
	return m.startFetch()
}

// Tick advances the animation frame.
func (m *Machine) Tick() {
	m.state.Frame++
}

// Notify shows a one-line notice until the next key.
func (m *Machine) Notify(text string) {
	if m.state.Mode != ModeExiting {
		m.state.Notice = text
	}
}

// SetScrollLimit bounds Scroll to the number of lines that can be scrolled.
// A negative limit leaves Scroll unbounded.
func (m *Machine) SetScrollLimit(limit int) {
	m.scrollLimit = limit
	m.clampScroll()
}

// Update applies one message and returns the follow-up command, if any.
func (m *Machine) Update(msg tea.Msg) tea.Cmd {
	if m.state.Mode == ModeExiting {
		return nil
	}
	switch msg := msg.(type) {
	case InputMsg:
		return m.handleInput(msg)
	case CatalogLoadedMsg:
		return m.handleCatalog(msg)
	case StreamFragmentMsg:
		return m.handleFragment(msg)
	case StreamEndMsg:
		return m.handleStreamEnd(msg)
	}
	return nil
}

// Shutdown cancels any in-flight fetch or stream and releases it. It is safe
// to call more than once.
func (m *Machine) Shutdown() {
	if m.fetchCancel != nil {
		m.fetchCancel()
		m.fetchCancel = nil
	}
	m.releaseStream()
	m.state.Transcript.DiscardPending()
}

// =============================================================================
// INPUT HANDLING
// =============================================================================

func (m *Machine) handleInput(msg InputMsg) tea.Cmd {
	m.state.Notice = ""

	if msg.Action == ActionQuit {
		return m.quit()
	}

	switch m.state.Mode {
	case ModeLoading:
		return m.inputLoading(msg)
	case ModeSelecting:
		return m.inputSelecting(msg)
	case ModeChatting, ModeStreaming:
		return m.inputChat(msg)
	case ModeError:
		return m.inputError(msg)
	}
	return nil
}

func (m *Machine) inputLoading(msg InputMsg) tea.Cmd {
	if msg.Action == ActionCancel || isRune(msg, 'q') {
		return m.exit(0)
	}
	return nil
}

func (m *Machine) inputSelecting(msg InputMsg) tea.Cmd {
	switch {
	case msg.Action == ActionUp || isRune(msg, 'k'):
		if m.state.Selected > 0 {
			m.state.Selected--
		}
	case msg.Action == ActionDown || isRune(msg, 'j'):
		if m.state.Selected < len(m.state.Catalog)-1 {
			m.state.Selected++
		}
	case msg.Action == ActionHome || isRune(msg, 'g'):
		m.state.Selected = 0
	case msg.Action == ActionEnd || isRune(msg, 'G'):
		m.state.Selected = len(m.state.Catalog) - 1
	case msg.Action == ActionSubmit:
		m.state.Model = m.state.SelectedModel()
		m.state.Mode = ModeChatting
		logx.WithModel(m.log, m.state.Model).Info("model selected")
	case msg.Action == ActionCancel || isRune(msg, 'q'):
		return m.exit(0)
	}
	return nil
}

func (m *Machine) inputChat(msg InputMsg) tea.Cmd {
	st := &m.state
	switch msg.Action {
	case ActionRunes:
		st.insertRunes(msg.Runes)
	case ActionBackspace:
		st.backspace()
	case ActionDelete:
		st.deleteForward()
	case ActionLeft:
		st.moveCursor(-1)
	case ActionRight:
		st.moveCursor(1)
	case ActionHome:
		st.Cursor = 0
	case ActionEnd:
		st.Cursor = len(st.Input)
	case ActionUp:
		m.scroll(1)
	case ActionDown:
		m.scroll(-1)
	case ActionPageUp:
		m.scroll(m.opts.PageSize)
	case ActionPageDown:
		m.scroll(-m.opts.PageSize)
	case ActionSubmit:
		return m.submit()
	case ActionCancel:
		if st.Mode == ModeStreaming {
			m.cancelStream()
		} else {
			st.clearInput()
		}
	}
	return nil
}

func (m *Machine) inputError(msg InputMsg) tea.Cmd {
	fromCatalog := m.state.LastError != nil && m.state.LastError.FromCatalog()

	switch {
	case msg.Action == ActionSubmit || isRune(msg, 'r') || isRune(msg, 'R'):
		return m.acknowledge()
	case msg.Action == ActionCancel:
		if fromCatalog {
			return m.exit(1)
		}
		return m.acknowledge()
	case isRune(msg, 'q'):
		if fromCatalog {
			return m.exit(1)
		}
		return m.exit(0)
	}
	return nil
}

// acknowledge dismisses the current error: catalog failures retry the
// fetch, stream failures return to the conversation.
func (m *Machine) acknowledge() tea.Cmd {
	err := m.state.LastError
	m.state.LastError = nil
	if err != nil && err.FromCatalog() {
		return m.startFetch()
	}
	m.state.Mode = ModeChatting
	return nil
}

func (m *Machine) scroll(delta int) {
	m.state.Scroll += delta
	m.clampScroll()
}

func (m *Machine) clampScroll() {
	if m.scrollLimit >= 0 && m.state.Scroll > m.scrollLimit {
		m.state.Scroll = m.scrollLimit
	}
	if m.state.Scroll < 0 {
		m.state.Scroll = 0
	}
}

func isRune(msg InputMsg, r rune) bool {
	return msg.Action == ActionRunes && len(msg.Runes) == 1 && msg.Runes[0] == r
}

// =============================================================================
// EXIT
// =============================================================================

func (m *Machine) quit() tea.Cmd {
	code := 0
	if m.state.Mode == ModeError && m.state.LastError != nil && m.state.LastError.FromCatalog() {
		code = 1
	}
	return m.exit(code)
}

func (m *Machine) exit(code int) tea.Cmd {
	m.Shutdown()
	m.exitCode = code
	m.state.Mode = ModeExiting
	m.log.Info("session exiting", "code", code)
	return tea.Quit
}

// =============================================================================
// CATALOG
// =============================================================================

func (m *Machine) startFetch() tea.Cmd {
	if m.fetchCancel != nil {
		m.fetchCancel()
	}
	m.state.Mode = ModeLoading
	m.fetchSeq++
	seq := m.fetchSeq

	ctx, cancel := context.WithCancel(m.ctx)
	m.fetchCancel = cancel
	dir := m.dir
	m.log.Debug("fetching model catalog", "seq", seq)

	return func() tea.Msg {
		defer cancel()
		names, err := dir.ModelNames(ctx)
		return CatalogLoadedMsg{Seq: seq, Models: names, Err: err}
	}
}

func (m *Machine) handleCatalog(msg CatalogLoadedMsg) tea.Cmd {
	if msg.Seq != m.fetchSeq || m.state.Mode != ModeLoading {
		return nil
	}
	m.fetchCancel = nil

	if msg.Err != nil {
		m.fail(catalogError(msg.Err, m.opts.Endpoint))
		return nil
	}
	if len(msg.Models) == 0 {
		m.fail(emptyCatalogError(m.opts.Endpoint))
		return nil
	}

	m.state.Catalog = append([]string(nil), msg.Models...)
	m.state.Selected = 0
	for i, name := range m.state.Catalog {
		if name == m.opts.DefaultModel {
			m.state.Selected = i
			break
		}
	}
	m.state.Mode = ModeSelecting
	m.log.Info("model catalog loaded", "models", len(m.state.Catalog))
	return nil
}

// =============================================================================
// STREAMING
// =============================================================================

func (m *Machine) submit() tea.Cmd {
	st := &m.state
	text := strings.TrimSpace(st.InputText())
	if text == "" {
		return nil
	}
	if st.Mode == ModeStreaming || st.Stream != nil {
		st.Notice = "Wait for the reply to finish, or press Esc to cancel it."
		return nil
	}

	now := m.opts.Now()
	st.Transcript.Append(model.NewMessage(model.RoleUser, text, now))
	st.clearInput()
	st.Scroll = 0

	messages := st.Transcript.ToOllamaMessages(m.opts.SystemPrompt)
	st.Transcript.BeginPending(now)

	stream, err := m.comp.StreamChat(m.ctx, st.Model, messages)
	if err != nil {
		st.Transcript.DiscardPending()
		m.fail(streamError(err, st.Model))
		return nil
	}

	handle := &StreamHandle{
		ID:      uuid.NewString(),
		Model:   st.Model,
		Started: now,
		stream:  stream,
	}
	st.Stream = handle
	st.Mode = ModeStreaming
	logx.WithStream(logx.WithModel(m.log, st.Model), handle.ID).
		Info("stream started", "messages", len(messages))
	return recvCmd(handle.ID, stream)
}

// recvCmd reads exactly one fragment. The machine issues the next read only
// after applying this one.
func recvCmd(id string, stream ollama.Stream) tea.Cmd {
	return func() tea.Msg {
		frag, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return StreamEndMsg{StreamID: id}
			}
			return StreamEndMsg{StreamID: id, Err: err}
		}
		return StreamFragmentMsg{StreamID: id, Fragment: frag}
	}
}

func (m *Machine) current(id string) bool {
	return m.state.Stream != nil && m.state.Stream.ID == id
}

func (m *Machine) handleFragment(msg StreamFragmentMsg) tea.Cmd {
	if !m.current(msg.StreamID) {
		return nil
	}
	h := m.state.Stream
	h.Fragments++
	m.state.Transcript.AppendPending(msg.Fragment.Content)
	if msg.Fragment.Done {
		m.state.LastRate = msg.Fragment.TokensPerSecond()
	}
	m.fragLog.Do(func() {
		logx.WithStream(m.log, h.ID).Debug("stream fragment", "n", h.Fragments, "bytes", len(msg.Fragment.Content))
	})
	return recvCmd(h.ID, h.stream)
}

func (m *Machine) handleStreamEnd(msg StreamEndMsg) tea.Cmd {
	if !m.current(msg.StreamID) {
		return nil
	}
	h := m.state.Stream
	log := logx.WithStream(logx.WithModel(m.log, h.Model), h.ID)
	m.releaseStream()

	if msg.Err != nil {
		m.state.Transcript.DiscardPending()
		log.Warn("stream interrupted", "err", msg.Err, "fragments", h.Fragments)
		m.fail(streamError(msg.Err, h.Model))
		return nil
	}

	m.state.Transcript.FreezePending()
	m.state.Mode = ModeChatting
	log.Info("stream finished", "fragments", h.Fragments, "elapsed", m.opts.Now().Sub(h.Started).String())
	return nil
}

func (m *Machine) cancelStream() {
	if m.state.Stream == nil {
		return
	}
	logx.WithStream(m.log, m.state.Stream.ID).Info("stream cancelled by user")
	m.releaseStream()
	m.state.Transcript.DiscardPending()
	m.state.Mode = ModeChatting
	m.state.Notice = "Reply cancelled."
}

func (m *Machine) releaseStream() {
	if m.state.Stream == nil {
		return
	}
	_ = m.state.Stream.stream.Close()
	m.state.Stream = nil
}

func (m *Machine) fail(err *Error) {
	m.state.LastError = err
	m.state.Mode = ModeError
	m.log.Warn("session error", "kind", err.Kind.String(), "err", err.Message)
}
