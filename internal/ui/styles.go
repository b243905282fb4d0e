// Package ui provides the terminal user interface components for the AskForm application.
// This file contains style definitions for various UI elements using the lipgloss library.
package ui

import (
	"github.com/VarunSharma3520/AskForm/internal/config"
	"github.com/charmbracelet/lipgloss"
)

// Global style definitions for consistent theming across the application.
var (
	// titleStyle defines the styling for the application title/header.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(config.MainColorBackground)).
			Background(lipgloss.Color(config.MainColorForeground)).
			PaddingRight(4).
			PaddingLeft(4).
			AlignVertical(lipgloss.Center)

	// helpStyle defines the styling for help/instruction text.
	helpStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color(config.MainColorBackgroundMute))

	optionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(config.MainColorForeground)).
			MarginLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Italic(true)

	// buttonStyle is the enabled submit action; disabledButtonStyle mirrors it at low contrast.
	buttonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("33")).
			Padding(0, 2)

	disabledButtonStyle = buttonStyle.
				Bold(false).
				Foreground(lipgloss.Color("246")).
				Background(lipgloss.Color("238"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(config.ErrorColor)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(config.ErrorColor)).
			Padding(0, 1)

	responseStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(config.MainColorBackgroundMute)).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().Bold(true)

	contextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(config.MainColorBackgroundMute))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(config.MainColorForeground))

	historyItemStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderLeft(true).
				BorderForeground(lipgloss.Color(config.MainColorBackgroundMute)).
				PaddingLeft(1).
				MarginBottom(1)
)
