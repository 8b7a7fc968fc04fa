// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/jeranaias/quill/internal/render"
	"github.com/jeranaias/quill/internal/ui/styles"
)

// paint turns a layout into the frame string. Row positions match the
// layout's cursor coordinates.
func paint(l render.Layout, t *styles.Theme) string {
	rows := make([]string, 0, l.Rows+5)
	rows = append(rows, paintHeader(l.Header, l.Width, t))

	var body []string
	if l.Selector != nil {
		body = paintSelector(l.Selector, t)
	} else {
		for _, line := range l.Lines {
			body = append(body, paintLine(line, t))
		}
	}
	for i := range body {
		body[i] = fit(body[i], l.Width)
	}
	for len(body) < l.Rows {
		body = append(body, "")
	}
	rows = append(rows, body[:l.Rows]...)

	rows = append(rows, paintInput(l.Input, l.Cursor, l.Width, t)...)
	rows = append(rows, paintBanner(l.Banner, l.Width, t))
	return strings.Join(rows, "\n")
}

// =============================================================================
// HEADER
// =============================================================================

func paintHeader(h render.Header, width int, t *styles.Theme) string {
	left := t.HeaderTitle.Render(h.Title)
	if h.Model != "" {
		left += t.HeaderModel.Render(" " + h.Model)
	}
	left += t.HeaderMode.Render(" [" + h.Mode + "]")
	right := t.HeaderStatus.Render(h.Status)

	inner := width - 2
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	line := left + t.HeaderStatus.Render(strings.Repeat(" ", gap)) + right
	return fit(t.Header.Render(line), width)
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

func paintLine(line render.Line, t *styles.Theme) string {
	if line.Styled {
		return line.Text
	}
	switch line.Kind {
	case render.LineMeta:
		return metaStyle(line.Text, t).Render(line.Text)
	case render.LineUser:
		return t.UserText.Render(line.Text)
	case render.LineAssistant:
		return t.AssistantText.Render(line.Text)
	case render.LineSystem:
		return t.SystemText.Render(line.Text)
	case render.LinePending:
		return t.PendingText.Render(line.Text)
	case render.LineHint:
		return t.HintText.Render(line.Text)
	default:
		return ""
	}
}

func metaStyle(text string, t *styles.Theme) lipgloss.Style {
	switch {
	case strings.HasPrefix(text, "USER"):
		return t.MetaUser
	case strings.HasPrefix(text, "SYSTEM"):
		return t.MetaSystem
	default:
		return t.MetaAssistant
	}
}

func paintSelector(sel *render.Selector, t *styles.Theme) []string {
	rows := []string{t.SelectorTitle.Render(sel.Title)}
	for _, item := range sel.Items {
		if item.Highlighted {
			rows = append(rows, t.SelectorSelected.Render("> "+item.Name))
			continue
		}
		rows = append(rows, t.SelectorItem.Render("  "+item.Name))
	}
	return rows
}

// =============================================================================
// INPUT BOX
// =============================================================================

func paintInput(in render.Input, cur render.Cursor, width int, t *styles.Theme) []string {
	if !in.Visible {
		return []string{"", "", ""}
	}
	border := t.InputBorder
	if !cur.Visible {
		border = t.InputBorderBusy
	}
	inner := max(width-4, 1)

	title := runewidth.Truncate(in.Title, max(inner-1, 0), "")
	fill := max(width-5-runewidth.StringWidth(title), 0)
	top := border.Render("╭─ ") + t.InputTitle.Render(title) + border.Render(" "+strings.Repeat("─", fill)+"╮")

	var text string
	if in.Placeholder {
		text = paintWithCursor(in.Text, 0, cur.Visible, t.InputPlaceholder)
	} else {
		text = paintWithCursor(in.Text, cur.X-2, cur.Visible, t.InputText)
	}
	pad := max(inner-runewidth.StringWidth(in.Text), 0)
	if cur.Visible && cur.X-2 >= runewidth.StringWidth(in.Text) && !in.Placeholder {
		// The cursor cell sits past the text.
		pad = max(pad-1, 0)
	}
	middle := border.Render("│ ") + text + strings.Repeat(" ", pad) + border.Render(" │")

	bottom := border.Render("╰" + strings.Repeat("─", max(width-2, 0)) + "╯")
	return []string{top, middle, bottom}
}

// paintWithCursor draws text with the cell at column col in reverse video.
func paintWithCursor(text string, col int, visible bool, style lipgloss.Style) string {
	if !visible {
		return style.Render(text)
	}
	before, at, after := splitAtCell(text, col)
	if at == "" {
		at = " "
	}
	return style.Render(before) + style.Reverse(true).Render(at) + style.Render(after)
}

// splitAtCell splits s around the rune that starts at display column col.
func splitAtCell(s string, col int) (before, at, after string) {
	cells := 0
	for i, r := range s {
		if cells >= col {
			size := len(string(r))
			return s[:i], s[i : i+size], s[i+size:]
		}
		cells += runewidth.RuneWidth(r)
	}
	return s, "", ""
}

// =============================================================================
// BANNER
// =============================================================================

func paintBanner(b render.Banner, width int, t *styles.Theme) string {
	var left string
	switch b.Kind {
	case render.BannerError:
		left = t.BannerError.Render(styles.StatusIndicators.Error + " " + b.Text)
	case render.BannerNotice:
		left = t.BannerNotice.Render(styles.StatusIndicators.Notice + " " + b.Text)
	case render.BannerInfo:
		left = t.BannerInfo.Render(b.Text)
	}
	if b.Hint == "" {
		return fit(left, width)
	}
	hint := t.BannerHint.Render(b.Hint)
	if left == "" {
		return fit(hint, width)
	}
	gap := width - lipgloss.Width(left) - lipgloss.Width(hint)
	if gap < 1 {
		// The message wins over the key hint.
		return fit(left, width)
	}
	return left + strings.Repeat(" ", gap) + hint
}

// fit truncates a styled row to width cells.
func fit(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return truncate.String(s, uint(width))
}
