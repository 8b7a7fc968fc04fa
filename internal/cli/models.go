// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"pkt.systems/pslog"
)

func newModelsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models installed on the Ollama server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			client := newClient(cfg)
			models, err := client.ListModels(cmd.Context())
			if err != nil {
				pslog.Ctx(cmd.Context()).Debug("model list failed", "ollama", client.BaseURL(), "err", err)
				return fmt.Errorf("list models from %s: %w", client.BaseURL(), err)
			}
			if len(models) == 0 {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "No models installed on %s. Pull one with 'ollama pull <model>'.\n", client.BaseURL())
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSIZE\tFAMILY\tMODIFIED")
			for _, m := range models {
				family := m.Details.Family
				if family == "" {
					family = "-"
				}
				modified := "-"
				if !m.ModifiedAt.IsZero() {
					modified = humanize.Time(m.ModifiedAt)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Name, m.FormatSize(), family, modified)
			}
			return tw.Flush()
		},
	}
}
