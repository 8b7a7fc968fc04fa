// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Environment describes the machine the client runs on.
type Environment struct {
	OS      string
	Arch    string
	WorkDir string
}

// CurrentEnvironment returns the running process's environment.
func CurrentEnvironment() Environment {
	wd, err := os.Getwd()
	if err != nil {
		wd = "unknown"
	}
	return Environment{OS: runtime.GOOS, Arch: runtime.GOARCH, WorkDir: wd}
}

// SystemPrompt joins the base prompt with an environment block when env is
// non-nil.
func SystemPrompt(base string, env *Environment) string {
	base = strings.TrimSpace(base)
	if env == nil {
		return base
	}
	var sb strings.Builder
	sb.WriteString(base)
	if sb.Len() > 0 {
		sb.WriteString("\n\n")
	}
	fmt.Fprintf(&sb, "Environment:\n- Operating system: %s\n- Architecture: %s\n- Working directory: %s",
		env.OS, env.Arch, env.WorkDir)
	return sb.String()
}
