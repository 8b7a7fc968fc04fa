// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logx

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pkt.systems/pslog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want pslog.Level
		ok   bool
	}{
		{"trace", pslog.TraceLevel, true},
		{"DEBUG", pslog.DebugLevel, true},
		{"", pslog.InfoLevel, true},
		{"warn", pslog.WarnLevel, true},
		{"error", pslog.ErrorLevel, true},
		{"loud", pslog.InfoLevel, false},
	}
	for _, tc := range tests {
		got, err := ParseLevel(tc.in)
		if tc.ok {
			require.NoError(t, err, tc.in)
		} else {
			require.Error(t, err, tc.in)
		}
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestWithModelAndStreamAddFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, pslog.InfoLevel)
	ctx := pslog.ContextWithLogger(context.Background(), logger)

	log := WithStream(WithModel(Ctx(ctx), "llama3"), "s-1")
	log.Info("hello")

	entry := firstEntry(t, buf.Bytes())
	assert.Equal(t, "llama3", entry["model"])
	assert.Equal(t, "s-1", entry["stream"])
}

func TestWithModelSkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	WithStream(WithModel(New(&buf, pslog.InfoLevel), ""), "").Info("hello")

	entry := firstEntry(t, buf.Bytes())
	_, hasModel := entry["model"]
	_, hasStream := entry["stream"]
	assert.False(t, hasModel)
	assert.False(t, hasStream)
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "quill.log")
	log, closer, err := Open(path, "debug")
	require.NoError(t, err)
	log.Debug("written")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written")

	_, closer, err = Open("", "info")
	require.NoError(t, err)
	assert.NoError(t, closer.Close())

	_, _, err = Open(path, "nope")
	assert.Error(t, err)
}

func firstEntry(t *testing.T, data []byte) map[string]any {
	t.Helper()
	idx := bytes.IndexByte(data, '\n')
	if idx == -1 {
		idx = len(data)
	}
	entry := map[string]any{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data[:idx]), &entry))
	return entry
}
