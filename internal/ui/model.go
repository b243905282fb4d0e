// Package ui provides the terminal user interface components for the AskForm application.
// This file defines the main application model and the prompt submission state.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/VarunSharma3520/AskForm/internal/llm"
	"github.com/VarunSharma3520/AskForm/internal/logger"
	"github.com/VarunSharma3520/AskForm/internal/types"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"
)

const (
	unknownErrorMessage = "An unknown error occurred."
	defaultWrapWidth    = 80
)

// State is the transient view state of the prompt submitter.
// ResponseText and ErrorMessage are never both set once a request has settled.
type State struct {
	PromptText   string
	ResponseText string
	Submitting   bool
	ErrorMessage string
}

// Options configures a new Model.
type Options struct {
	Client *llm.Client
	Logger *logger.Logger

	// TaskID and SubtaskID are sent with every prompt when set.
	TaskID    *int64
	SubtaskID *int64

	// Style is a glamour style name; "auto" detects the terminal background
	// and "plain" disables markdown rendering.
	Style string
}

// Model represents the main application state.
// All fields are owned by the Bubble Tea update loop; the ask call reports back as a message.
type Model struct {
	State

	Input    textarea.Model
	URLInput textinput.Model
	Spinner  spinner.Model

	Client    *llm.Client
	Logger    *logger.Logger
	TaskID    *int64
	SubtaskID *int64

	ScreenMode    types.ScreenMode
	Options       []string
	SelectedOpt   int
	EditingAPIURL bool
	StatusMsg     string

	// History holds the last loaded task/subtask history.
	History        []types.HistoryEntry
	LoadingHistory bool
	historyTitle   string
	historyItems   []string

	keys     keyMap
	ctx      context.Context
	seq      uint64
	style    string
	width    int
	renderer *glamour.TermRenderer
	rendered string
}

// InitialModel creates and initializes a new Model with an empty, focused prompt.
//
// Example:
//
//	client := llm.NewClient(config.APIURL(), nil, appLogger)
//	model := InitialModel(Options{Client: client, Logger: appLogger, Style: config.Style()})
func InitialModel(opts Options) *Model {
	m := &Model{
		Input:      NewPromptInput(),
		URLInput:   NewURLInput(),
		Spinner:    NewSpinner(),
		Client:     opts.Client,
		Logger:     opts.Logger,
		TaskID:     opts.TaskID,
		SubtaskID:  opts.SubtaskID,
		ScreenMode: types.ModeChat,
		Options: []string{
			"Set API URL",
			"Save Settings",
			"Show History",
			"Back to Chat",
		},
		keys:  defaultKeyMap(),
		ctx:   context.Background(),
		style: opts.Style,
		width: defaultWrapWidth,
	}
	m.renderer = m.newRenderer()
	return m
}

// OnInputChange replaces the prompt text.
func (m *Model) OnInputChange(text string) {
	m.PromptText = text
	if m.Input.Value() != text {
		m.Input.SetValue(text)
	}
}

// CanSubmit reports whether the submit action is enabled.
func (m *Model) CanSubmit() bool {
	return !m.Submitting && strings.TrimSpace(m.PromptText) != ""
}

// Submit starts a new submission and returns the command performing the call.
// It returns nil, issuing nothing, when CanSubmit is false.
func (m *Model) Submit() tea.Cmd {
	if !m.CanSubmit() {
		return nil
	}

	m.ErrorMessage = ""
	m.ResponseText = ""
	m.rendered = ""
	m.Submitting = true
	m.seq++
	m.Input.Blur()

	req := llm.Request{
		Prompt:    m.PromptText,
		TaskID:    m.TaskID,
		SubtaskID: m.SubtaskID,
		ID:        uuid.NewString(),
	}
	m.Logger.Info("Submitting prompt", map[string]interface{}{
		"request_id": req.ID,
		"seq":        m.seq,
		"prompt_len": len(req.Prompt),
		"endpoint":   m.Client.BaseURL() + llm.AskPath,
	})

	return llm.SubmitCmd(m.ctx, m.Client, m.seq, req)
}

// Settle applies the outcome of a submission. Results that do not belong to
// the most recent submission are dropped and Settle returns false.
func (m *Model) Settle(res types.SubmitResultMsg) bool {
	if !m.Submitting || res.Seq != m.seq {
		m.Logger.Debug("Dropping stale result", map[string]interface{}{
			"request_id": res.ID,
			"seq":        res.Seq,
			"current":    m.seq,
		})
		return false
	}

	m.Submitting = false
	m.Input.Focus()

	if res.Err != nil {
		msg := res.Err.Error()
		if strings.TrimSpace(msg) == "" {
			msg = unknownErrorMessage
		}
		m.ErrorMessage = msg
		m.ResponseText = ""
		m.rendered = ""
		m.Logger.Error("Prompt failed", res.Err, map[string]interface{}{
			"request_id": res.ID,
			"elapsed_ms": res.Elapsed.Milliseconds(),
		})
		return true
	}

	m.ErrorMessage = ""
	m.ResponseText = res.Reply
	m.rendered = m.renderResponse()
	m.OnInputChange("")
	m.Logger.Info("Prompt answered", map[string]interface{}{
		"request_id": res.ID,
		"elapsed_ms": res.Elapsed.Milliseconds(),
		"reply_len":  len(res.Reply),
	})
	return true
}

// newRenderer builds the markdown renderer for replies, or nil for plain text.
func (m *Model) newRenderer() *glamour.TermRenderer {
	if m.style == "plain" {
		return nil
	}

	styleOpt := glamour.WithStandardStyle(m.style)
	if m.style == "" || m.style == "auto" {
		styleOpt = glamour.WithAutoStyle()
	}

	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(m.width))
	if err != nil {
		m.Logger.Error("Failed to create markdown renderer", err, map[string]interface{}{"style": m.style})
		return nil
	}
	return r
}

// renderResponse renders ResponseText as markdown, falling back to the raw text.
func (m *Model) renderResponse() string {
	return m.renderMarkdown(m.ResponseText)
}

func (m *Model) renderMarkdown(text string) string {
	if text == "" {
		return ""
	}
	if m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		m.Logger.Error("Failed to render reply", err, nil)
		return text
	}
	return strings.Trim(out, "\n")
}

// historyTarget picks the association to look history up by; the subtask wins when both are set.
func (m *Model) historyTarget() (types.HistoryKind, int64, bool) {
	switch {
	case m.SubtaskID != nil:
		return types.HistorySubtask, *m.SubtaskID, true
	case m.TaskID != nil:
		return types.HistoryTask, *m.TaskID, true
	}
	return "", 0, false
}

// renderHistory pre-renders every history entry for the history screen.
func (m *Model) renderHistory() {
	m.historyItems = m.historyItems[:0]
	for i, e := range m.History {
		header := fmt.Sprintf("#%d", i+1)
		if !e.CreatedAt.IsZero() {
			header += " · " + e.CreatedAt.Format("2006-01-02 15:04")
		}
		item := labelStyle.Render(header) + "\n" +
			promptStyle.Render("> "+e.Prompt) + "\n" +
			m.renderMarkdown(e.Response)
		m.historyItems = append(m.historyItems, historyItemStyle.Render(item))
	}
}

// setStatus shows msg until the returned command clears it after d.
func (m *Model) setStatus(msg string, d time.Duration) tea.Cmd {
	m.StatusMsg = msg
	if d <= 0 {
		return nil
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return types.ClearStatusMsg{Message: msg}
	})
}

func (m *Model) contextLine() string {
	var parts []string
	if m.TaskID != nil {
		parts = append(parts, fmt.Sprintf("Task #%d", *m.TaskID))
	}
	if m.SubtaskID != nil {
		parts = append(parts, fmt.Sprintf("Subtask #%d", *m.SubtaskID))
	}
	return strings.Join(parts, " · ")
}
