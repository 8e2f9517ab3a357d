// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - Terminal detection and secure input for the asked REPL.
//
// - TTY detection for stdin/stdout
// - Color output control based on TTY and NO_COLOR
// - Hidden input for credential entry

package cli

import (
	"fmt"
	"os"
	"syscall"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsTTY returns true if stdin is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY returns true if stdout is a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ShouldUseColor returns true if colored output should be used.
// Respects NO_COLOR (https://no-color.org/) and piped output.
func ShouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return IsStdoutTTY()
}

// GetColorProfile returns the termenv color profile for output.
func GetColorProfile() termenv.Profile {
	if !ShouldUseColor() {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}

// =============================================================================
// SECURE INPUT
// =============================================================================

// ReadSecret prompts for a line of input with echo disabled. Used for API
// key entry so the credential never appears on screen or in history.
func ReadSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(secret), nil
}
