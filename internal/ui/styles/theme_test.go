// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidTheme(t *testing.T) {
	for _, name := range []string{"auto", "dark", "light", "DARK"} {
		assert.True(t, ValidTheme(name), name)
	}
	assert.False(t, ValidTheme("solarized"))
	assert.False(t, ValidTheme(""))
}

func TestNewTheme_ForcedBackground(t *testing.T) {
	dark, err := NewTheme("dark", &bytes.Buffer{})
	require.NoError(t, err)
	assert.True(t, dark.IsDark)

	light, err := NewTheme("light", &bytes.Buffer{})
	require.NoError(t, err)
	assert.False(t, light.IsDark)

	_, err = NewTheme("neon", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestMarkdownStyle(t *testing.T) {
	assert.Equal(t, "notty", NewThemeWithProfile(termenv.Ascii, true).MarkdownStyle())
	assert.Equal(t, "dark", NewThemeWithProfile(termenv.TrueColor, true).MarkdownStyle())
	assert.Equal(t, "light", NewThemeWithProfile(termenv.ANSI256, false).MarkdownStyle())
}

func TestAsciiProfileRendersPlainText(t *testing.T) {
	theme := NewThemeWithProfile(termenv.Ascii, true)
	assert.Equal(t, "quill", theme.HeaderTitle.Render("quill"))
	assert.Equal(t, "x", theme.InputText.Render("x"))
}

func TestColorProfileRendersEscapes(t *testing.T) {
	theme := NewThemeWithProfile(termenv.TrueColor, true)
	out := theme.BannerError.Render("boom")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "\x1b[")
}
