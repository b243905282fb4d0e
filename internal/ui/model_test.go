package ui

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/VarunSharma3520/AskForm/internal/config"
	"github.com/VarunSharma3520/AskForm/internal/llm"
	"github.com/VarunSharma3520/AskForm/internal/types"
	tea "github.com/charmbracelet/bubbletea"
)

type failingTransport struct{ err error }

func (f failingTransport) RoundTrip(*http.Request) (*http.Response, error) { return nil, f.err }

// askServer answers every /api/ask call with status and body, counting calls.
func askServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestModel(client *llm.Client) *Model {
	return InitialModel(Options{Client: client, Style: "plain"})
}

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func resultOf(t *testing.T, msgs []tea.Msg) types.SubmitResultMsg {
	t.Helper()
	for _, msg := range msgs {
		if res, ok := msg.(types.SubmitResultMsg); ok {
			return res
		}
	}
	t.Fatalf("no SubmitResultMsg among %v", msgs)
	return types.SubmitResultMsg{}
}

func typeText(m *Model, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestSubmit_Success(t *testing.T) {
	srv, calls := askServer(t, http.StatusOK, `{"response":"hello"}`)
	m := newTestModel(llm.NewClient(srv.URL, nil, nil))

	typeText(m, "hi there")
	if m.PromptText != "hi there" {
		t.Fatalf("expected typed prompt, got %q", m.PromptText)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Submitting {
		t.Fatal("expected submitting after Enter")
	}
	res := resultOf(t, collect(cmd))
	m.Update(res)

	if m.ResponseText != "hello" {
		t.Errorf("ResponseText = %q, want hello", m.ResponseText)
	}
	if m.ErrorMessage != "" {
		t.Errorf("ErrorMessage = %q, want empty", m.ErrorMessage)
	}
	if m.PromptText != "" || m.Input.Value() != "" {
		t.Errorf("expected prompt cleared, got %q / %q", m.PromptText, m.Input.Value())
	}
	if m.Submitting {
		t.Error("expected Submitting=false after settle")
	}
	if got := atomic.LoadInt32(calls); got != 1 {
		t.Errorf("expected exactly one call, got %d", got)
	}
	if !strings.Contains(m.View(), "hello") {
		t.Error("expected reply in view")
	}
}

func TestSubmit_FailureWithMessage(t *testing.T) {
	srv, _ := askServer(t, http.StatusInternalServerError, `{"message":"server error"}`)
	m := newTestModel(llm.NewClient(srv.URL, nil, nil))
	m.OnInputChange("hello")

	m.Update(resultOf(t, collect(m.Submit())))

	if m.ErrorMessage != "server error" {
		t.Errorf("ErrorMessage = %q, want %q", m.ErrorMessage, "server error")
	}
	if m.ResponseText != "" {
		t.Errorf("ResponseText = %q, want empty", m.ResponseText)
	}
	if m.PromptText != "hello" {
		t.Errorf("expected prompt kept on failure, got %q", m.PromptText)
	}
	if !strings.Contains(m.View(), "Error: server error") {
		t.Error("expected error in view")
	}
}

func TestSubmit_FailureWithoutMessage(t *testing.T) {
	srv, _ := askServer(t, http.StatusInternalServerError, `{}`)
	m := newTestModel(llm.NewClient(srv.URL, nil, nil))
	m.OnInputChange("hello")

	m.Update(resultOf(t, collect(m.Submit())))

	if !strings.Contains(m.ErrorMessage, "500") {
		t.Errorf("expected status code in %q", m.ErrorMessage)
	}
	if m.ResponseText != "" {
		t.Errorf("ResponseText = %q, want empty", m.ResponseText)
	}
}

func TestSubmit_TransportFailure(t *testing.T) {
	httpClient := &http.Client{Transport: failingTransport{err: errors.New("connection refused")}}
	m := newTestModel(llm.NewClient("http://localhost:8080", httpClient, nil))
	m.OnInputChange("hello")

	m.Update(resultOf(t, collect(m.Submit())))

	if m.ErrorMessage != "connection refused" {
		t.Errorf("ErrorMessage = %q, want %q", m.ErrorMessage, "connection refused")
	}
	if m.Submitting {
		t.Error("expected Submitting=false after transport failure")
	}
}

func TestSubmit_BlankInputIsNoop(t *testing.T) {
	srv, calls := askServer(t, http.StatusOK, `{"response":"x"}`)
	m := newTestModel(llm.NewClient(srv.URL, nil, nil))

	for _, text := range []string{"", "   ", "\n\t "} {
		m.OnInputChange(text)
		if m.CanSubmit() {
			t.Errorf("CanSubmit true for %q", text)
		}
		if cmd := m.Submit(); cmd != nil {
			t.Errorf("expected nil command for %q", text)
		}
		if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
			t.Errorf("expected Enter to be a no-op for %q", text)
		}
		if m.Submitting {
			t.Errorf("Submitting set for %q", text)
		}
	}
	if got := atomic.LoadInt32(calls); got != 0 {
		t.Errorf("expected no calls, got %d", got)
	}
}

func TestSubmit_DisabledWhileInFlight(t *testing.T) {
	srv, calls := askServer(t, http.StatusOK, `{"response":"done"}`)
	m := newTestModel(llm.NewClient(srv.URL, nil, nil))
	m.OnInputChange("first")

	cmd := m.Submit()
	if cmd == nil {
		t.Fatal("expected a command for the first submit")
	}
	if m.CanSubmit() {
		t.Error("CanSubmit should be false while in flight")
	}
	if again := m.Submit(); again != nil {
		t.Error("second Submit should be a no-op while in flight")
	}
	if _, c := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); c != nil {
		t.Error("Enter should be a no-op while in flight")
	}

	// Typing is ignored while the input is disabled
	typeText(m, "more")
	if m.PromptText != "first" {
		t.Errorf("expected prompt unchanged while in flight, got %q", m.PromptText)
	}

	m.Update(resultOf(t, collect(cmd)))
	if m.Submitting {
		t.Error("expected Submitting=false after settle")
	}
	if got := atomic.LoadInt32(calls); got != 1 {
		t.Errorf("expected one call, got %d", got)
	}
}

func TestSubmit_ClearsPreviousOutcome(t *testing.T) {
	srv, _ := askServer(t, http.StatusOK, `{"response":"ok"}`)
	m := newTestModel(llm.NewClient(srv.URL, nil, nil))
	m.ErrorMessage = "old error"
	m.ResponseText = "old reply"
	m.OnInputChange("again")

	if cmd := m.Submit(); cmd == nil {
		t.Fatal("expected command")
	}
	if m.ErrorMessage != "" || m.ResponseText != "" {
		t.Errorf("expected outcome cleared at submit start, got %q / %q", m.ErrorMessage, m.ResponseText)
	}
}

func TestSettle_DropsStaleResult(t *testing.T) {
	srv, _ := askServer(t, http.StatusOK, `{"response":"fresh"}`)
	m := newTestModel(llm.NewClient(srv.URL, nil, nil))
	m.OnInputChange("q")
	cmd := m.Submit()

	if m.Settle(types.SubmitResultMsg{Seq: 0, Reply: "stale"}) {
		t.Fatal("stale result should be dropped")
	}
	if !m.Submitting || m.ResponseText != "" {
		t.Fatalf("stale result mutated state: %+v", m.State)
	}

	m.Update(resultOf(t, collect(cmd)))
	if m.ResponseText != "fresh" {
		t.Errorf("ResponseText = %q, want fresh", m.ResponseText)
	}

	// A duplicate delivery after settling is ignored too
	if m.Settle(types.SubmitResultMsg{Seq: 1, Err: errors.New("late")}) {
		t.Error("result after settle should be dropped")
	}
	if m.ErrorMessage != "" {
		t.Errorf("ErrorMessage = %q, want empty", m.ErrorMessage)
	}
}

func TestSettle_EmptyErrorMessageFallsBack(t *testing.T) {
	m := newTestModel(llm.NewClient("http://localhost:8080", nil, nil))
	m.OnInputChange("q")
	m.Submit()

	m.Settle(types.SubmitResultMsg{Seq: 1, Err: errors.New("")})
	if m.ErrorMessage != unknownErrorMessage {
		t.Errorf("ErrorMessage = %q, want %q", m.ErrorMessage, unknownErrorMessage)
	}
}

func TestSubmit_SendsTaskAssociation(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		io.WriteString(w, `{"response":"ok"}`)
	}))
	defer srv.Close()

	task := int64(5)
	m := InitialModel(Options{Client: llm.NewClient(srv.URL, nil, nil), TaskID: &task, Style: "plain"})
	m.OnInputChange("plan my week")
	m.Update(resultOf(t, collect(m.Submit())))

	if !strings.Contains(body, `"taskId":5`) || strings.Contains(body, "subtaskId") {
		t.Errorf("unexpected request body %s", body)
	}
	if !strings.Contains(m.View(), "Task #5") {
		t.Error("expected task context in view")
	}
}

func TestOptions_SetAPIURLAndSave(t *testing.T) {
	vault := t.TempDir()
	t.Setenv("ASKFORM_VAULT", vault)
	t.Setenv("ASKFORM_API_URL", "")

	client := llm.NewClient("http://localhost:8080", nil, nil)
	m := newTestModel(client)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	if m.ScreenMode != types.ModeOptions {
		t.Fatalf("expected options screen, got %s", m.ScreenMode)
	}

	// Select "Set API URL" and replace the value
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.EditingAPIURL {
		t.Fatal("expected URL editing")
	}
	m.URLInput.SetValue("not a url")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.EditingAPIURL || client.BaseURL() != "http://localhost:8080" {
		t.Fatal("invalid URL should be rejected")
	}
	m.URLInput.SetValue("http://backend:9090/")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.EditingAPIURL {
		t.Fatal("expected editing to end")
	}
	if client.BaseURL() != "http://backend:9090" {
		t.Errorf("BaseURL = %q", client.BaseURL())
	}

	// Move to "Save Settings"
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.StatusMsg != "Settings saved successfully!" {
		t.Errorf("StatusMsg = %q", m.StatusMsg)
	}
	if got := config.APIURL(); got != "http://backend:9090" {
		t.Errorf("saved API URL = %q", got)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.ScreenMode != types.ModeChat {
		t.Errorf("expected chat screen after Esc, got %s", m.ScreenMode)
	}
	if cmd == nil {
		t.Error("expected the prompt focus command when returning to chat")
	}
	if !m.Input.Focused() {
		t.Error("expected prompt focused after returning to chat")
	}
}

func TestOptions_BackToChatSelectionRefocuses(t *testing.T) {
	m := newTestModel(llm.NewClient("http://localhost:8080", nil, nil))
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	m.Input.Blur()

	// "Back to Chat" is the last entry.
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.ScreenMode != types.ModeChat {
		t.Fatalf("expected chat screen, got %s", m.ScreenMode)
	}
	if cmd == nil || !m.Input.Focused() {
		t.Error("expected prompt refocused with its focus command")
	}
}

func TestOptions_BlockedWhileSubmitting(t *testing.T) {
	m := newTestModel(llm.NewClient("http://localhost:8080", nil, nil))
	m.OnInputChange("q")
	m.Submit()

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	if m.ScreenMode != types.ModeChat {
		t.Error("options should not open while a prompt is in flight")
	}
}

func TestStatusMessages(t *testing.T) {
	m := newTestModel(llm.NewClient("http://localhost:8080", nil, nil))

	m.Update(types.StatusMsg{Message: "hi"})
	if m.StatusMsg != "hi" {
		t.Fatalf("StatusMsg = %q", m.StatusMsg)
	}
	m.Update(types.ClearStatusMsg{Message: "other"})
	if m.StatusMsg != "hi" {
		t.Error("clearing a different status should be ignored")
	}
	m.Update(types.ClearStatusMsg{Message: "hi"})
	if m.StatusMsg != "" {
		t.Error("expected status cleared")
	}
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(llm.NewClient("http://localhost:8080", nil, nil))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestValidateBaseURL(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"http://localhost:8080", true},
		{"https://example.com/base", true},
		{"", false},
		{"localhost:8080", false},
		{"ftp://host", false},
		{"http://", false},
	}
	for _, tt := range tests {
		if err := validateBaseURL(tt.in); (err == nil) != tt.ok {
			t.Errorf("validateBaseURL(%q) = %v, want ok=%v", tt.in, err, tt.ok)
		}
	}
}

func TestSubmit_LongPastedPromptIsSentWhole(t *testing.T) {
	var got llm.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		io.WriteString(w, `{"response":"ok"}`)
	}))
	defer srv.Close()

	lines := make([]string, 120)
	for i := range lines {
		lines[i] = strings.Repeat("a", 49)
	}
	prompt := strings.Join(lines, "\n")
	if len(prompt) <= 4000 {
		t.Fatalf("prompt too short: %d", len(prompt))
	}

	m := newTestModel(llm.NewClient(srv.URL, nil, nil))
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(prompt), Paste: true})
	if m.PromptText != prompt {
		t.Fatalf("pasted prompt truncated: got %d chars, want %d", len(m.PromptText), len(prompt))
	}

	m.Update(resultOf(t, collect(m.Submit())))
	if got.Prompt != prompt {
		t.Errorf("request prompt has %d chars, want %d", len(got.Prompt), len(prompt))
	}
	if m.ResponseText != "ok" {
		t.Errorf("ResponseText = %q", m.ResponseText)
	}
}

// historyOf runs cmd and returns its HistoryResultMsg.
func historyOf(t *testing.T, cmd tea.Cmd) types.HistoryResultMsg {
	t.Helper()
	for _, msg := range collect(cmd) {
		if res, ok := msg.(types.HistoryResultMsg); ok {
			return res
		}
	}
	t.Fatal("no HistoryResultMsg")
	return types.HistoryResultMsg{}
}

func openHistory(m *Model) tea.Cmd {
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	m.SelectedOpt = 2
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

func TestHistory_RequiresTaskOrSubtask(t *testing.T) {
	srv, calls := askServer(t, http.StatusOK, `[]`)
	m := newTestModel(llm.NewClient(srv.URL, nil, nil))

	openHistory(m)
	if m.StatusMsg != "Set a task or subtask to view history" {
		t.Errorf("StatusMsg = %q", m.StatusMsg)
	}
	if m.LoadingHistory || m.ScreenMode != types.ModeOptions {
		t.Error("history should not load without a task or subtask")
	}
	if got := atomic.LoadInt32(calls); got != 0 {
		t.Errorf("expected no request, got %d", got)
	}
	if !strings.Contains(m.View(), "no task or subtask set") {
		t.Error("expected the history option to be marked unavailable")
	}
}

func TestHistory_ShowsEntries(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		io.WriteString(w, `[{"id":1,"prompt":"plan sprint","response":"Here is a plan","createdAt":"2024-05-01T10:15:30"}]`)
	}))
	defer srv.Close()

	task, subtask := int64(3), int64(8)
	m := InitialModel(Options{
		Client:    llm.NewClient(srv.URL, nil, nil),
		TaskID:    &task,
		SubtaskID: &subtask,
		Style:     "plain",
	})

	cmd := openHistory(m)
	if !m.LoadingHistory {
		t.Fatal("expected history loading")
	}
	m.Update(historyOf(t, cmd))

	if path != "/api/history/subtask/8" {
		t.Errorf("path = %q, want the subtask history", path)
	}
	if m.ScreenMode != types.ModeHistory {
		t.Fatalf("expected history screen, got %s", m.ScreenMode)
	}
	view := m.View()
	for _, want := range []string{"History · Subtask #8", "plan sprint", "Here is a plan", "2024-05-01 10:15"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.ScreenMode != types.ModeOptions {
		t.Errorf("expected options screen after Esc, got %s", m.ScreenMode)
	}
}

func TestHistory_EmptyList(t *testing.T) {
	srv, _ := askServer(t, http.StatusOK, `[]`)
	task := int64(3)
	m := InitialModel(Options{Client: llm.NewClient(srv.URL, nil, nil), TaskID: &task, Style: "plain"})

	m.Update(historyOf(t, openHistory(m)))
	if m.ScreenMode != types.ModeHistory {
		t.Fatalf("expected history screen, got %s", m.ScreenMode)
	}
	if !strings.Contains(m.View(), "No history yet.") {
		t.Error("expected empty history message")
	}
}

func TestHistory_FailureStaysOnOptions(t *testing.T) {
	srv, _ := askServer(t, http.StatusNotFound, `{"message":"Task not found"}`)
	task := int64(99)
	m := InitialModel(Options{Client: llm.NewClient(srv.URL, nil, nil), TaskID: &task, Style: "plain"})

	m.Update(historyOf(t, openHistory(m)))
	if m.ScreenMode != types.ModeOptions {
		t.Errorf("expected options screen, got %s", m.ScreenMode)
	}
	if m.LoadingHistory {
		t.Error("expected loading flag cleared")
	}
	if m.StatusMsg != "Failed to load history: Task not found" {
		t.Errorf("StatusMsg = %q", m.StatusMsg)
	}
}
