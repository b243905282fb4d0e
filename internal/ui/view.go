package ui

import (
	"fmt"
	"strings"

	"github.com/VarunSharma3520/AskForm/internal/types"
)

// renderOptions renders the options screen with a list of selectable options
func (m Model) renderOptions() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Options"))
	sb.WriteString("\n\n")

	if m.EditingAPIURL {
		sb.WriteString("Enter API URL (press Enter to save, Esc to cancel):\n")
		sb.WriteString(m.URLInput.View())
		return sb.String()
	}

	for i, option := range m.Options {
		valueText := ""
		switch i {
		case 0:
			valueText = fmt.Sprintf(" (Current: %s)", m.Client.BaseURL())
		case 2:
			if _, _, ok := m.historyTarget(); !ok {
				valueText = " (no task or subtask set)"
			}
		}

		cursor := "  "
		if i == m.SelectedOpt {
			cursor = "➜ "
		}
		sb.WriteString(optionStyle.Render(cursor + option + valueText))
		sb.WriteString("\n")
	}

	return sb.String()
}

// renderChat renders the prompt editor, the submit action and the outcome.
func (m Model) renderChat() string {
	var sb strings.Builder

	if line := m.contextLine(); line != "" {
		sb.WriteString(contextStyle.Render(line))
		sb.WriteString("\n")
	}

	sb.WriteString(m.Input.View())
	sb.WriteString("\n\n")

	switch {
	case m.Submitting:
		sb.WriteString(m.Spinner.View() + " " + disabledButtonStyle.Render("Sending..."))
	case m.CanSubmit():
		sb.WriteString(buttonStyle.Render("Send Prompt"))
	default:
		sb.WriteString(disabledButtonStyle.Render("Send Prompt"))
	}

	if m.ErrorMessage != "" {
		sb.WriteString("\n\n")
		sb.WriteString(errorStyle.Render("Error: " + m.ErrorMessage))
	}

	if m.ResponseText != "" {
		sb.WriteString("\n\n")
		sb.WriteString(responseStyle.Render(labelStyle.Render("LLM Response:") + "\n" + m.rendered))
	}

	return sb.String()
}

// renderHistoryView shows the loaded prompt/reply pairs in the order the server returned them.
func (m Model) renderHistoryView() string {
	var sb strings.Builder
	sb.WriteString(labelStyle.Render(m.historyTitle))
	sb.WriteString("\n\n")

	if len(m.historyItems) == 0 {
		sb.WriteString(helpStyle.Render("No history yet."))
		return sb.String()
	}
	sb.WriteString(strings.Join(m.historyItems, "\n"))
	return sb.String()
}

// View renders the current state of the UI based on the current screen mode
func (m Model) View() string {
	var content string
	var instructions string

	switch m.ScreenMode {
	case types.ModeChat:
		content = m.renderChat()
		if m.Submitting {
			instructions = helpStyle.Render("Sending… input is disabled until the reply arrives. Esc: Quit")
		} else {
			instructions = helpStyle.Render("Enter: Send • Alt+Enter: Newline • Ctrl+O: Options • Esc: Quit")
		}

	case types.ModeOptions:
		content = m.renderOptions()
		instructions = helpStyle.Render("Tab/↓: Next • Shift+Tab/↑: Prev • Enter: Select • Esc: Back to Chat")

	case types.ModeHistory:
		content = m.renderHistoryView()
		instructions = helpStyle.Render("Esc: Back to Options")

	default:
		content = "[Unknown Screen]"
	}

	statusBar := ""
	if m.StatusMsg != "" {
		statusBar = fmt.Sprintf("\n\n%s", statusStyle.Render(m.StatusMsg))
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s%s\n",
		titleStyle.Render("AskForm"),
		content,
		instructions,
		statusBar,
	)
}
