// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme names accepted by NewTheme.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	renderer *lipgloss.Renderer

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header       lipgloss.Style
	HeaderTitle  lipgloss.Style
	HeaderModel  lipgloss.Style
	HeaderMode   lipgloss.Style
	HeaderStatus lipgloss.Style

	// ==========================================================================
	// TRANSCRIPT STYLES
	// ==========================================================================

	MetaUser      lipgloss.Style
	MetaAssistant lipgloss.Style
	MetaSystem    lipgloss.Style
	UserText      lipgloss.Style
	AssistantText lipgloss.Style
	SystemText    lipgloss.Style
	PendingText   lipgloss.Style
	HintText      lipgloss.Style

	// ==========================================================================
	// SELECTOR STYLES
	// ==========================================================================

	SelectorTitle    lipgloss.Style
	SelectorItem     lipgloss.Style
	SelectorSelected lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputBorder      lipgloss.Style
	InputBorderBusy  lipgloss.Style
	InputTitle       lipgloss.Style
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// BANNER STYLES
	// ==========================================================================

	BannerInfo   lipgloss.Style
	BannerNotice lipgloss.Style
	BannerError  lipgloss.Style
	BannerHint   lipgloss.Style
}

// ValidTheme reports whether name is a theme NewTheme understands.
func ValidTheme(name string) bool {
	switch strings.ToLower(name) {
	case ThemeAuto, ThemeDark, ThemeLight:
		return true
	}
	return false
}

// NewTheme creates a theme for output written to w. The color profile comes
// from the terminal and honors NO_COLOR; name forces a dark or light palette
// or, for "auto", asks the terminal.
func NewTheme(name string, w io.Writer) (*Theme, error) {
	if !ValidTheme(name) {
		return nil, fmt.Errorf("unknown theme %q", name)
	}
	r := lipgloss.NewRenderer(w)
	switch strings.ToLower(name) {
	case ThemeDark:
		r.SetHasDarkBackground(true)
	case ThemeLight:
		r.SetHasDarkBackground(false)
	}
	return newTheme(r), nil
}

// NewThemeWithProfile creates a theme with fixed terminal capabilities.
func NewThemeWithProfile(profile termenv.Profile, dark bool) *Theme {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)
	r.SetHasDarkBackground(dark)
	return newTheme(r)
}

func newTheme(r *lipgloss.Renderer) *Theme {
	t := &Theme{
		IsDark:       r.HasDarkBackground(),
		ColorProfile: r.ColorProfile(),
		renderer:     r,
	}
	t.initStyles()
	return t
}

// MarkdownStyle returns the glamour standard style matching the theme.
func (t *Theme) MarkdownStyle() string {
	if t.ColorProfile == termenv.Ascii {
		return "notty"
	}
	if t.IsDark {
		return ThemeDark
	}
	return ThemeLight
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	s := t.renderer.NewStyle

	// Header
	t.Header = s().Background(SurfaceDim).Padding(0, 1)
	t.HeaderTitle = s().Bold(true).Foreground(Purple).Background(SurfaceDim)
	t.HeaderModel = s().Foreground(Cyan).Background(SurfaceDim)
	t.HeaderMode = s().Foreground(TextSecondary).Background(SurfaceDim).Italic(true)
	t.HeaderStatus = s().Foreground(Emerald).Background(SurfaceDim)

	// Transcript
	t.MetaUser = s().Bold(true).Foreground(Cyan)
	t.MetaAssistant = s().Bold(true).Foreground(Purple)
	t.MetaSystem = s().Bold(true).Foreground(Amber)
	t.UserText = s().Foreground(UserFg).PaddingLeft(2)
	t.AssistantText = s().Foreground(AssistantFg).PaddingLeft(2)
	t.SystemText = s().Foreground(SystemFg).PaddingLeft(2)
	t.PendingText = s().Foreground(AssistantFg).Italic(true).PaddingLeft(2)
	t.HintText = s().Foreground(TextMuted).Italic(true)

	// Selector
	t.SelectorTitle = s().Bold(true).Foreground(Purple)
	t.SelectorItem = s().Foreground(TextPrimary).PaddingLeft(2)
	t.SelectorSelected = s().Bold(true).Foreground(Cyan).Background(SelectionBg).PaddingLeft(2)

	// Input
	t.InputBorder = s().Foreground(Purple)
	t.InputBorderBusy = s().Foreground(OverlayDim)
	t.InputTitle = s().Bold(true).Foreground(Purple)
	t.InputText = s().Foreground(TextPrimary)
	t.InputPlaceholder = s().Foreground(TextMuted).Italic(true)

	// Banner
	t.BannerInfo = s().Foreground(Emerald)
	t.BannerNotice = s().Bold(true).Foreground(Amber)
	t.BannerError = s().Bold(true).Foreground(Rose).Background(RoseDeep)
	t.BannerHint = s().Foreground(TextMuted)
}
