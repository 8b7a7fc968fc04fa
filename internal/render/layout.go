// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render maps a session state to a layout description the terminal
// driver can paint. Build is a pure function: it performs no I/O and keeps
// nothing between calls, so the driver may call it on every tick.
package render

// =============================================================================
// LINES
// =============================================================================

// LineKind tells the painter how to style a transcript line.
type LineKind int

const (
	LineBlank LineKind = iota
	// LineMeta is a role/timestamp header above a message body.
	LineMeta
	LineUser
	LineAssistant
	LineSystem
	// LinePending is part of the reply still being streamed.
	LinePending
	// LineHint is muted guidance shown in an empty transcript.
	LineHint
)

// String returns the string representation of the kind.
func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineMeta:
		return "meta"
	case LineUser:
		return "user"
	case LineAssistant:
		return "assistant"
	case LineSystem:
		return "system"
	case LinePending:
		return "pending"
	case LineHint:
		return "hint"
	default:
		return "unknown"
	}
}

// Line is one visible row of the transcript.
type Line struct {
	Kind LineKind
	Text string
	// Styled is set when Text already carries ANSI styling (rendered markdown).
	Styled bool
}

// =============================================================================
// REGIONS
// =============================================================================

// Header is the top status row.
type Header struct {
	Title  string
	Model  string
	Mode   string
	Status string
}

// SelectorItem is one catalog entry.
type SelectorItem struct {
	Name        string
	Highlighted bool
}

// Selector is the model picker shown while selecting. Items is the visible
// window of the catalog; Offset is the catalog index of Items[0].
type Selector struct {
	Title  string
	Items  []SelectorItem
	Offset int
	Total  int
}

// Input is the single-line prompt box. Text is the visible slice of the
// buffer, or the placeholder when Placeholder is set.
type Input struct {
	Visible     bool
	Title       string
	Text        string
	Placeholder bool
}

// Cursor is the terminal cursor position in screen cells.
type Cursor struct {
	X, Y    int
	Visible bool
}

// BannerKind selects the banner style.
type BannerKind int

const (
	BannerNone BannerKind = iota
	BannerInfo
	BannerNotice
	BannerError
)

// String returns the string representation of the kind.
func (k BannerKind) String() string {
	switch k {
	case BannerNone:
		return "none"
	case BannerInfo:
		return "info"
	case BannerNotice:
		return "notice"
	case BannerError:
		return "error"
	default:
		return "unknown"
	}
}

// Banner is the bottom status row. Hint lists the keys valid in the mode.
type Banner struct {
	Kind BannerKind
	Text string
	Hint string
}

// =============================================================================
// LAYOUT
// =============================================================================

// Layout is everything needed to paint one frame.
//
// Rows from the top: the header, Rows transcript rows (either Lines or the
// Selector), the three-row input box, then the banner.
type Layout struct {
	Width  int
	Height int
	Rows   int

	Header   Header
	Lines    []Line
	Selector *Selector
	Input    Input
	Cursor   Cursor
	Banner   Banner

	// MaxScroll is the largest useful transcript scroll offset.
	MaxScroll int
}

const (
	headerRows = 1
	inputRows  = 3
	bannerRows = 1
	chromeRows = headerRows + inputRows + bannerRows

	// gutter is the horizontal space taken by borders and padding.
	gutter = 4

	minRows = 1
)
