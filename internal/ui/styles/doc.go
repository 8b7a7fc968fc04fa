// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the quill TUI.

# Color System (colors.go)

All colors use Lip Gloss AdaptiveColor, so a single palette serves light and
dark terminals:

  - Purple - assistant messages, titles, the active input border
  - Cyan - user messages, the selected model
  - Emerald - streaming and info states
  - Amber - notices
  - Rose - errors

Banners pair colors with ASCII shape indicators ([X], [!], [i]).

# Theme (theme.go)

A Theme binds the palette to one lipgloss renderer. NewTheme detects the
terminal's color profile (NO_COLOR yields plain text) and takes the
configured theme name:

	theme, err := styles.NewTheme("auto", os.Stdout)

Tests use NewThemeWithProfile to pin the profile.
*/
package styles
