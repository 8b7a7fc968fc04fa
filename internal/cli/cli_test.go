// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/quill/internal/config"
)

// =============================================================================
// HELPERS
// =============================================================================

// isolate points the default config location at an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, name := range []string{"QUILL_OLLAMA_URL", "QUILL_MODEL", "QUILL_THEME", "QUILL_LOG_FILE", "QUILL_LOG_LEVEL"} {
		t.Setenv(name, "")
	}
	return home
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	// A nil slice would make cobra fall back to os.Args.
	root.SetArgs(append([]string{}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func tagsServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// =============================================================================
// COMMANDS
// =============================================================================

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "quill "+Version)
}

func TestModelsCommand(t *testing.T) {
	isolate(t)
	srv := tagsServer(t, `{"models":[
		{"name":"llama3:8b","size":4661224676,"modified_at":"2025-01-01T00:00:00Z","details":{"family":"llama"}},
		{"name":"tiny","size":0}
	]}`)

	out, err := execute(t, "models", "--url", srv.URL+"/")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "llama3:8b")
	assert.Contains(t, out, "4.7 GB")
	assert.Contains(t, out, "llama")
	assert.Contains(t, out, "tiny")
}

func TestModelsCommand_Empty(t *testing.T) {
	isolate(t)
	srv := tagsServer(t, `{"models":[]}`)

	out, err := execute(t, "models", "--url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "No models installed on "+srv.URL)
}

func TestModelsCommand_Unreachable(t *testing.T) {
	isolate(t)
	srv := tagsServer(t, `{}`)
	url := srv.URL
	srv.Close()

	_, err := execute(t, "models", "--url", url)
	require.Error(t, err)
	assert.Contains(t, err.Error(), url)
	assert.Equal(t, 1, ExitCode(err))
}

func TestConfigShow_FlagsOverrideFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "quill.toml")
	require.NoError(t, os.WriteFile(path, []byte("[local]\ndefault_model = \"llama3\"\n\n[ui]\ntheme = \"light\"\n"), 0o600))

	out, err := execute(t, "config", "show", "--config", path, "--model", "mistral")
	require.NoError(t, err)
	assert.Contains(t, out, `default_model = "mistral"`)
	assert.Contains(t, out, `theme = "light"`)
}

func TestConfigShow_MissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := execute(t, "config", "show", "--config", filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestConfigShow_InvalidURLFlag(t *testing.T) {
	isolate(t)
	_, err := execute(t, "config", "show", "--url", "ftp://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid flags")
}

func TestConfigInit(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, err := execute(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), loaded)

	_, err = execute(t, "config", "init", "--config", path)
	assert.Error(t, err)

	_, err = execute(t, "config", "init", "--config", path, "--force")
	assert.NoError(t, err)
}

func TestConfigPath_DefaultLocation(t *testing.T) {
	home := isolate(t)
	out, err := execute(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".quill", "config.toml")+"\n", out)
}

func TestChatRequiresTerminal(t *testing.T) {
	isolate(t)
	prev := isInteractive
	isInteractive = func() bool { return false }
	t.Cleanup(func() { isInteractive = prev })

	_, err := execute(t)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotInteractive)
	assert.Equal(t, 1, ExitCode(err))
	assert.False(t, Silent(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))

	quiet := &ExitError{Code: 1}
	assert.Equal(t, 1, ExitCode(quiet))
	assert.True(t, Silent(quiet))
	assert.Equal(t, "exit status 1", quiet.Error())
}
