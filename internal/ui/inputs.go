// Package ui provides the terminal user interface components for the AskForm application.
// It uses the Bubble Tea framework for building interactive terminal applications.
package ui

import (
	"github.com/VarunSharma3520/AskForm/internal/config"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// NewPromptInput creates the multi-line prompt editor.
// Enter is reserved for submitting, so newlines are bound to Alt+Enter and Ctrl+J.
// The prompt has no length or line limit; it is sent exactly as typed.
//
// Example:
//
//	input := NewPromptInput()
//	// Use in your Bubble Tea model's Update method
func NewPromptInput() textarea.Model {
	ta := textarea.New()

	ta.Placeholder = "Enter your prompt here..."
	ta.Focus()
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.ShowLineNumbers = false
	ta.SetWidth(80)
	ta.SetHeight(5)
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")

	ta.FocusedStyle.Prompt = lipgloss.NewStyle().Foreground(lipgloss.Color(config.MainColorForeground))

	return ta
}

// NewURLInput creates the single-line editor used on the options screen.
func NewURLInput() textinput.Model {
	ti := textinput.New()

	ti.Placeholder = "Enter API URL (e.g., http://localhost:8080)"
	ti.CharLimit = 200
	ti.Width = 50
	ti.Prompt = "> "

	return ti
}

// NewSpinner creates the indicator shown while a prompt is in flight.
func NewSpinner() spinner.Model {
	return spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(config.MainColorForeground))),
	)
}
