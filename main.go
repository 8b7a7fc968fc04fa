// quill - chat with local Ollama models in the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"log"
	"os"

	"pkt.systems/psi"
	"pkt.systems/pslog"

	"github.com/jeranaias/quill/internal/cli"
)

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) int {
	// Startup and command errors go to stderr. The chat UI swaps in its own
	// file logger once it owns the terminal.
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)

	root := cli.NewRootCmd()
	root.SetArgs(os.Args[1:])

	if err := root.ExecuteContext(ctx); err != nil {
		if !cli.Silent(err) {
			logger.With("err", err).Error("quill failed")
		}
		return cli.ExitCode(err)
	}
	return 0
}
