// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/quill/internal/config"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	url        string
	model      string
	logFile    string
	logLevel   string
}

// NewRootCmd builds the quill command tree. Running it without a subcommand
// starts the chat UI.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "quill",
		Short:         "Chat with local Ollama models in the terminal",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			return runChat(cmd, cfg)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.quill/config.toml)")
	pf.StringVar(&flags.url, "url", "", "Ollama base URL")
	pf.StringVar(&flags.model, "model", "", "model to preselect in the picker")
	pf.StringVar(&flags.logFile, "log-file", "", "write diagnostic logs to this file")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	root.AddCommand(newModelsCmd(flags))
	root.AddCommand(newConfigCmd(flags))
	root.AddCommand(newVersionCmd())
	return root
}

// loadConfig reads the config file and applies flags that were set
// explicitly.
func loadConfig(cmd *cobra.Command, flags *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	changed := cmd.Flags().Changed
	if changed("url") {
		cfg.Local.OllamaURL = strings.TrimRight(flags.url, "/")
	}
	if changed("model") {
		cfg.Local.DefaultModel = flags.model
	}
	if changed("log-file") {
		cfg.Log.File = flags.logFile
	}
	if changed("log-level") {
		cfg.Log.Level = strings.ToLower(flags.logLevel)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "quill %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
			return err
		},
	}
}
