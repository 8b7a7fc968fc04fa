// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/jeranaias/quill/internal/config"
	"github.com/jeranaias/quill/internal/logx"
	"github.com/jeranaias/quill/internal/ollama"
	"github.com/jeranaias/quill/internal/session"
	"github.com/jeranaias/quill/internal/ui/app"
	"github.com/jeranaias/quill/internal/ui/styles"
)

// =============================================================================
// CHAT UI
// =============================================================================

func newClient(cfg *config.Config) *ollama.Client {
	cc := ollama.DefaultConfig()
	cc.BaseURL = cfg.Local.OllamaURL
	if cfg.Local.RequestTimeout > 0 {
		cc.Timeout = cfg.Local.RequestTimeout
	}
	return ollama.NewClientWithConfig(cc)
}

func systemPrompt(cfg *config.Config) string {
	if !cfg.Chat.IncludeEnvironment {
		return session.SystemPrompt(cfg.Chat.SystemPrompt, nil)
	}
	env := session.CurrentEnvironment()
	return session.SystemPrompt(cfg.Chat.SystemPrompt, &env)
}

// runChat runs the interactive session until the user quits or ctx ends.
func runChat(cmd *cobra.Command, cfg *config.Config) error {
	if !isInteractive() {
		return &ExitError{Code: 1, Err: ErrNotInteractive}
	}

	logger, closer, err := logx.Open(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := context.WithCancel(pslog.ContextWithLogger(cmd.Context(), logger))
	defer cancel()

	client := newClient(cfg)
	logger.Info("quill starting", "version", Version, "ollama", client.BaseURL())

	machine := session.New(ctx, client, client, session.Options{
		SystemPrompt: systemPrompt(cfg),
		DefaultModel: cfg.Local.DefaultModel,
		Endpoint:     client.BaseURL(),
	})
	defer machine.Shutdown()

	theme, err := styles.NewTheme(cfg.UI.Theme, os.Stdout)
	if err != nil {
		return err
	}
	model := app.New(machine, theme, app.Options{
		Timestamps: cfg.UI.ShowTimestamps,
		Markdown:   cfg.UI.Markdown,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	// A signal ends the session the same way the quit key does, so the
	// stream is closed before the program exits.
	go func() {
		<-ctx.Done()
		p.Send(session.InputMsg{Action: session.ActionQuit})
	}()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}

	code := model.ExitCode()
	logger.Info("quill exiting", "code", code)
	if code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}
