// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli wires configuration, logging, the Ollama client, the session
// machine and the terminal driver into the quill commands:
//
//	quill [--url URL] [--model NAME] [--config PATH] [--log-file PATH] [--log-level LEVEL]
//	quill models
//	quill config init|show|path
//	quill version
//
// Flags override the config file, which overrides the built-in defaults.
package cli
