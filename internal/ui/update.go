// Package ui provides the terminal user interface components for the AskForm application.
// This file handles the update loop and message handling for the Bubble Tea TUI.
package ui

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/VarunSharma3520/AskForm/internal/config"
	"github.com/VarunSharma3520/AskForm/internal/llm"
	"github.com/VarunSharma3520/AskForm/internal/types"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// Init starts the cursor blinking in the prompt editor.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update is the main update function that handles all messages and updates the model state.
//
// The function handles different types of messages including:
// - Key presses
// - Window resize events
// - Submission results and spinner ticks
// - Status messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.handleResize(msg)

	case types.SubmitResultMsg:
		if m.Settle(msg) {
			return m, textarea.Blink
		}

	case types.HistoryResultMsg:
		return m, m.showHistory(msg)

	case spinner.TickMsg:
		// Letting the tick drop stops the spinner once the call settles.
		if m.Submitting {
			var cmd tea.Cmd
			m.Spinner, cmd = m.Spinner.Update(msg)
			return m, cmd
		}

	case types.StatusMsg:
		return m, m.setStatus(msg.Message, msg.Duration)

	case types.ClearStatusMsg:
		if m.StatusMsg == msg.Message {
			m.StatusMsg = ""
		}
	}

	return m, nil
}

func (m *Model) handleResize(msg tea.WindowSizeMsg) {
	width := msg.Width - 4
	if width < 20 {
		width = 20
	}
	if width > 120 {
		width = 120
	}
	m.width = width
	m.Input.SetWidth(width)
	m.renderer = m.newRenderer()
	m.rendered = m.renderResponse()
	m.renderHistory()
}

// handleKeyMsg processes keyboard input messages.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.ScreenMode {
	case types.ModeOptions:
		if m.EditingAPIURL {
			return m.handleAPIURLInput(msg)
		}
		return m.handleOptionsKeyPress(msg)

	case types.ModeHistory:
		if key.Matches(msg, m.keys.Back) {
			m.ScreenMode = types.ModeOptions
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		cmd := m.Submit()
		if cmd == nil {
			return m, nil
		}
		return m, tea.Batch(cmd, m.Spinner.Tick)

	case key.Matches(msg, m.keys.Options):
		if !m.Submitting {
			m.ScreenMode = types.ModeOptions
			m.SelectedOpt = 0
		}
		return m, nil
	}

	// Input is disabled while a prompt is in flight.
	if m.Submitting {
		return m, nil
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	m.PromptText = m.Input.Value()
	return m, cmd
}

// handleOptionsKeyPress handles all key presses when in options mode.
func (m *Model) handleOptionsKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, m.backToChat()
	case key.Matches(msg, m.keys.Next):
		m.SelectedOpt = (m.SelectedOpt + 1) % len(m.Options)
	case key.Matches(msg, m.keys.Prev):
		m.SelectedOpt = (m.SelectedOpt - 1 + len(m.Options)) % len(m.Options)
	case key.Matches(msg, m.keys.Select):
		return m.handleOptionsSelection()
	}
	return m, nil
}

// handleOptionsSelection handles option selection in the options menu.
func (m *Model) handleOptionsSelection() (tea.Model, tea.Cmd) {
	switch m.SelectedOpt {
	case 0: // Set API URL
		m.EditingAPIURL = true
		m.URLInput.SetValue(m.Client.BaseURL())
		return m, m.URLInput.Focus()

	case 1: // Save Settings
		cfg := config.Config{
			APIURL:    m.Client.BaseURL(),
			Style:     m.style,
			TaskID:    m.TaskID,
			SubtaskID: m.SubtaskID,
		}
		if err := config.SaveConfig(cfg); err != nil {
			m.Logger.Error("Failed to save settings", err, nil)
			return m, m.setStatus(fmt.Sprintf("Failed to save settings: %v", err), 3*time.Second)
		}
		m.Logger.Info("Settings saved", map[string]interface{}{"api_url": cfg.APIURL})
		return m, m.setStatus("Settings saved successfully!", 2*time.Second)

	case 2: // Show History
		return m, m.loadHistory()

	case 3: // Back to Chat
		return m, m.backToChat()
	}

	return m, nil
}

// loadHistory starts fetching the history of the current subtask or task.
func (m *Model) loadHistory() tea.Cmd {
	kind, id, ok := m.historyTarget()
	if !ok {
		return m.setStatus("Set a task or subtask to view history", 3*time.Second)
	}
	if m.LoadingHistory {
		return nil
	}
	m.LoadingHistory = true
	m.setStatus(fmt.Sprintf("Loading history for %s #%d...", kind, id), 0)
	return llm.HistoryCmd(m.ctx, m.Client, kind, id)
}

// showHistory applies a finished history lookup and opens the history screen on success.
func (m *Model) showHistory(res types.HistoryResultMsg) tea.Cmd {
	if !m.LoadingHistory {
		return nil
	}
	m.LoadingHistory = false
	m.StatusMsg = ""

	if res.Err != nil {
		m.Logger.Error("Failed to load history", res.Err, map[string]interface{}{
			"kind": string(res.Kind),
			"id":   res.ID,
		})
		return m.setStatus(fmt.Sprintf("Failed to load history: %v", res.Err), 3*time.Second)
	}

	m.History = res.Entries
	label := "Task"
	if res.Kind == types.HistorySubtask {
		label = "Subtask"
	}
	m.historyTitle = fmt.Sprintf("History · %s #%d", label, res.ID)
	m.renderHistory()
	m.ScreenMode = types.ModeHistory
	return nil
}

// handleAPIURLInput handles input when editing the API URL.
func (m *Model) handleAPIURLInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.stopEditingURL()
		return m, m.setStatus("API URL change cancelled", 2*time.Second)

	case tea.KeyEnter:
		newURL := strings.TrimSpace(m.URLInput.Value())
		if err := validateBaseURL(newURL); err != nil {
			return m, m.setStatus(fmt.Sprintf("Invalid API URL: %v", err), 3*time.Second)
		}
		m.Client.SetBaseURL(newURL)
		m.stopEditingURL()
		m.Logger.Info("API URL changed", map[string]interface{}{"api_url": m.Client.BaseURL()})
		return m, m.setStatus("API URL updated", 2*time.Second)
	}

	var cmd tea.Cmd
	m.URLInput, cmd = m.URLInput.Update(msg)
	return m, cmd
}

func (m *Model) stopEditingURL() {
	m.EditingAPIURL = false
	m.URLInput.Blur()
	m.URLInput.Reset()
}

// backToChat returns to the prompt editor; the returned command restarts the cursor blink.
func (m *Model) backToChat() tea.Cmd {
	m.ScreenMode = types.ModeChat
	m.SelectedOpt = 0
	return m.Input.Focus()
}

// validateBaseURL accepts absolute http(s) URLs with a host.
func validateBaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("empty URL")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}
