// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"QUILL_OLLAMA_URL", "QUILL_MODEL", "QUILL_THEME", "QUILL_LOG_FILE", "QUILL_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[local]
ollama_url = "http://gpu-box:11434/"
default_model = "llama3:8b"
request_timeout = "5s"

[ui]
theme = "Dark"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://gpu-box:11434", cfg.Local.OllamaURL)
	assert.Equal(t, "llama3:8b", cfg.Local.DefaultModel)
	assert.Equal(t, 5*time.Second, cfg.Local.RequestTimeout)
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.True(t, cfg.UI.ShowTimestamps, "absent keys keep defaults")
	assert.True(t, cfg.Chat.IncludeEnvironment)
	assert.Equal(t, DefaultSystemPrompt, cfg.Chat.SystemPrompt)
}

func TestLoad_ExplicitFalseOverridesDefault(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[chat]
include_environment = false
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Chat.IncludeEnvironment)
}

func TestLoad_UnknownKey(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[local]
olama_url = "http://typo"
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "local.olama_url")
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[local]
ollama_url = "ftp://example"

[ui]
theme = "neon"

[log]
level = "loud"
`)
	_, err := Load(path)
	require.Error(t, err)

	var verrs ValidateErrors
	require.ErrorAs(t, err, &verrs)
	fields := make([]string, 0, len(verrs))
	for _, v := range verrs {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"local.ollama_url", "ui.theme", "log.level"}, fields)
}

func TestApplyEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("QUILL_OLLAMA_URL", "http://10.0.0.2:11434")
	t.Setenv("QUILL_MODEL", "mistral")
	t.Setenv("QUILL_THEME", "light")
	t.Setenv("QUILL_LOG_FILE", "/tmp/quill.log")
	t.Setenv("QUILL_LOG_LEVEL", "DEBUG")

	path := writeConfig(t, `
[local]
ollama_url = "http://file-wins-not:11434"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.2:11434", cfg.Local.OllamaURL)
	assert.Equal(t, "mistral", cfg.Local.DefaultModel)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.Equal(t, "/tmp/quill.log", cfg.Log.File)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	want := Default()
	want.Local.DefaultModel = "qwen2.5:7b"
	want.UI.Markdown = true
	require.NoError(t, SaveTOML(want, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestValidateErrors_Error(t *testing.T) {
	assert.Equal(t, "no validation errors", ValidateErrors{}.Error())
	errs := ValidateErrors{
		{Field: "a", Message: "bad"},
		{Field: "b", Message: "worse"},
	}
	assert.Equal(t, "a: bad; b: worse", errs.Error())
}
