// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Centralized styling for the asked REPL.
//
// Color handling:
// - Colors are automatically disabled for non-TTY output (piped, redirected)
// - Respects NO_COLOR environment variable (https://no-color.org/)

package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// init configures lipgloss color profile based on terminal capabilities.
func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// promptStyle renders the input prompt.
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")). // Cyan
			Bold(true)

	// welcomeStyle renders the startup banner.
	welcomeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")). // Purple
			Bold(true)

	// assistantStyle renders assistant replies.
	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")) // White

	// infoStyle renders status lines and listings.
	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")) // Light gray

	// commandStyle renders slash command names in help output.
	commandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")) // Emerald

	// warningStyle renders cancellations and degraded outcomes.
	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // Amber

	// errorStyle renders errors.
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)

	// footerStyle renders the accuracy disclaimer under replies.
	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")). // Dark gray
			Italic(true)
)
