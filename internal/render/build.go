// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/jeranaias/quill/internal/model"
	"github.com/jeranaias/quill/internal/session"
)

// Title is the application name shown in the header.
const Title = "quill"

// PendingGlyph marks the end of a reply that is still streaming.
const PendingGlyph = "▋"

const (
	placeholderText  = "Type your message..."
	inputTitle       = "Message"
	inputTitleBusy   = "Message (processing...)"
	typingLabel      = "(typing...)"
	selectorHint     = "↑/↓: choose  Enter: confirm  q: quit"
	chatHint         = "Enter: send  PgUp/PgDn: scroll  C-y: copy  C-c: quit"
	streamHint       = "Esc: cancel reply  C-c: quit"
	catalogErrorHint = "Enter: retry  Esc: quit"
	streamErrorHint  = "Enter: continue  Esc: dismiss"
)

// Options are the display parameters that are not part of the session.
// A zero Width or Height disables wrapping or windowing respectively.
type Options struct {
	Width  int
	Height int

	// Timestamps adds the message time to meta lines.
	Timestamps bool

	// Markdown renders frozen assistant replies when set.
	Markdown *Markdown
}

// Build maps the session state to a layout. It never modifies st.
func Build(st *session.State, opts Options) Layout {
	l := Layout{
		Width:  opts.Width,
		Height: opts.Height,
		Header: buildHeader(st),
		Banner: buildBanner(st),
	}

	rows := -1
	if opts.Height > 0 {
		rows = max(opts.Height-chromeRows, minRows)
	}

	switch st.Mode {
	case session.ModeSelecting:
		l.Selector = buildSelector(st, rows)
		l.Rows = len(l.Selector.Items) + 1
	default:
		all := transcriptLines(st, opts)
		l.Lines, l.MaxScroll = window(all, rows, st.Scroll)
		l.Rows = len(l.Lines)
	}
	if rows > 0 {
		l.Rows = rows
	}

	l.Input, l.Cursor = buildInput(st, opts.Width, l.Rows)
	return l
}

// =============================================================================
// HEADER AND BANNER
// =============================================================================

func spinnerFrame(frame int) string {
	frames := spinner.Dot.Frames
	if frame < 0 {
		frame = -frame
	}
	return frames[frame%len(frames)]
}

func buildHeader(st *session.State) Header {
	h := Header{Title: Title, Model: st.Model, Mode: st.Mode.String()}
	switch st.Mode {
	case session.ModeLoading:
		h.Status = spinnerFrame(st.Frame) + " loading"
	case session.ModeSelecting:
		h.Model = st.SelectedModel()
		h.Status = fmt.Sprintf("%d models", len(st.Catalog))
	case session.ModeStreaming:
		h.Status = spinnerFrame(st.Frame) + " streaming"
	default:
		if st.LastRate > 0 {
			h.Status = fmt.Sprintf("%.1f tok/s", st.LastRate)
		}
	}
	return h
}

func buildBanner(st *session.State) Banner {
	if st.Mode == session.ModeError && st.LastError != nil {
		hint := streamErrorHint
		if st.LastError.FromCatalog() {
			hint = catalogErrorHint
		}
		return Banner{Kind: BannerError, Text: st.LastError.Message, Hint: hint}
	}
	if st.Notice != "" {
		return Banner{Kind: BannerNotice, Text: st.Notice, Hint: modeHint(st.Mode)}
	}
	switch st.Mode {
	case session.ModeLoading:
		return Banner{Kind: BannerInfo, Text: spinnerFrame(st.Frame) + " Loading models...", Hint: "q: quit"}
	case session.ModeStreaming:
		text := spinnerFrame(st.Frame) + " Receiving reply"
		if st.Stream != nil {
			text = fmt.Sprintf("%s from %s (%d fragments)", text, st.Stream.Model, st.Stream.Fragments)
		}
		return Banner{Kind: BannerInfo, Text: text, Hint: streamHint}
	}
	return Banner{Kind: BannerNone, Hint: modeHint(st.Mode)}
}

func modeHint(mode session.Mode) string {
	switch mode {
	case session.ModeSelecting:
		return selectorHint
	case session.ModeChatting:
		return chatHint
	case session.ModeStreaming:
		return streamHint
	default:
		return ""
	}
}

// =============================================================================
// SELECTOR
// =============================================================================

func buildSelector(st *session.State, rows int) *Selector {
	sel := &Selector{
		Title: fmt.Sprintf("Select a model (%d available)", len(st.Catalog)),
		Total: len(st.Catalog),
	}
	start, end := 0, len(st.Catalog)
	// One row goes to the title.
	if rows > 0 && end > rows-1 {
		size := max(rows-1, 1)
		start = st.Selected - size/2
		start = max(0, min(start, end-size))
		end = start + size
	}
	sel.Offset = start
	for i := start; i < end; i++ {
		sel.Items = append(sel.Items, SelectorItem{Name: st.Catalog[i], Highlighted: i == st.Selected})
	}
	return sel
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

func transcriptLines(st *session.State, opts Options) []Line {
	width := opts.Width - gutter
	if opts.Width <= 0 {
		width = 0
	}
	var lines []Line
	if st.Transcript == nil {
		return lines
	}

	msgs := st.Transcript.Messages()
	pending, hasPending := st.Transcript.Pending()
	if len(msgs) == 0 && !hasPending && st.Model != "" {
		lines = append(lines, Line{Kind: LineHint, Text: fmt.Sprintf("Chatting with %s. Type a message and press Enter.", st.Model)})
		return lines
	}

	for _, msg := range msgs {
		lines = append(lines, metaLine(msg, opts.Timestamps, ""))
		lines = append(lines, messageBody(msg, width, opts.Markdown)...)
		lines = append(lines, Line{Kind: LineBlank})
	}
	if hasPending {
		lines = append(lines, metaLine(pending, false, typingLabel))
		for _, text := range wrapText(pending.Content+PendingGlyph, width) {
			lines = append(lines, Line{Kind: LinePending, Text: text})
		}
	}
	return lines
}

func metaLine(msg model.Message, timestamps bool, suffix string) Line {
	parts := []string{msg.Role.Label()}
	if timestamps {
		parts = append(parts, msg.FormatTime())
	}
	if suffix != "" {
		parts = append(parts, suffix)
	}
	return Line{Kind: LineMeta, Text: strings.Join(parts, " ")}
}

func messageBody(msg model.Message, width int, md *Markdown) []Line {
	kind := LineUser
	switch msg.Role {
	case model.RoleAssistant:
		kind = LineAssistant
	case model.RoleSystem:
		kind = LineSystem
	}
	if kind == LineAssistant && md != nil {
		if out, ok := md.Render(msg.ID, msg.Content, width); ok {
			var lines []Line
			for _, text := range strings.Split(out, "\n") {
				lines = append(lines, Line{Kind: kind, Text: text, Styled: true})
			}
			return lines
		}
	}
	var lines []Line
	for _, text := range wrapText(msg.Content, width) {
		lines = append(lines, Line{Kind: kind, Text: text})
	}
	return lines
}

// wrapText breaks s into lines no wider than width cells. Words longer than
// width are split.
func wrapText(s string, width int) []string {
	if width > 0 {
		s = wrap.String(wordwrap.String(s, width), width)
	}
	return strings.Split(s, "\n")
}

// window returns the rows visible at the given scroll offset along with the
// largest offset that still shows content.
func window(lines []Line, rows, scroll int) ([]Line, int) {
	if rows <= 0 || len(lines) <= rows {
		return lines, 0
	}
	maxScroll := len(lines) - rows
	scroll = max(0, min(scroll, maxScroll))
	end := len(lines) - scroll
	return lines[end-rows : end], maxScroll
}

// =============================================================================
// INPUT
// =============================================================================

func buildInput(st *session.State, width, rows int) (Input, Cursor) {
	in := Input{Title: inputTitle}
	switch st.Mode {
	case session.ModeChatting, session.ModeStreaming, session.ModeError:
		in.Visible = st.Model != ""
	}
	if !in.Visible {
		return in, Cursor{}
	}
	if st.Mode == session.ModeStreaming {
		in.Title = inputTitleBusy
	}

	// Row of the input text: header, transcript rows, top border.
	cur := Cursor{X: gutter / 2, Y: headerRows + rows + 1, Visible: st.Mode.AcceptsText()}
	if len(st.Input) == 0 {
		in.Text = placeholderText
		in.Placeholder = true
		return in, cur
	}

	inner := width - gutter
	cursor := max(0, min(st.Cursor, len(st.Input)))
	start := 0
	if inner > 0 {
		// Scroll the text horizontally so the cursor stays inside the box.
		for start < cursor && runewidth.StringWidth(string(st.Input[start:cursor])) > inner-1 {
			start++
		}
	}
	visible := string(st.Input[start:])
	if inner > 0 {
		visible = runewidth.Truncate(visible, inner, "")
	}
	in.Text = visible
	cur.X += runewidth.StringWidth(string(st.Input[start:cursor]))
	return in, cur
}
