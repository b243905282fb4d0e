package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/VarunSharma3520/AskForm/internal/types"
)

// HistoryPath is the prefix of the history endpoints: <base>/api/history/{task|subtask}/{id}.
const HistoryPath = "/api/history"

// History fetches the stored prompt/reply pairs for a task or subtask.
// Non-2xx answers come back as *RequestError, like Ask.
func (c *Client) History(ctx context.Context, kind types.HistoryKind, id int64) ([]types.HistoryEntry, error) {
	if kind != types.HistoryTask && kind != types.HistorySubtask {
		return nil, fmt.Errorf("unknown history kind %q", kind)
	}
	if id <= 0 {
		return nil, fmt.Errorf("invalid %s id %d", kind, id)
	}

	endpoint := c.BaseURL() + HistoryPath + "/" + string(kind) + "/" + strconv.FormatInt(id, 10)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		err = unwrapTransport(err)
		c.logger.Error("history request failed", err, map[string]interface{}{
			"kind":     string(kind),
			"id":       id,
			"endpoint": endpoint,
		})
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Info("history request settled", map[string]interface{}{
		"kind":   string(kind),
		"id":     id,
		"status": resp.StatusCode,
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{
			Status:  resp.StatusCode,
			Message: failureMessage(resp.StatusCode, data),
		}
	}

	entries := []types.HistoryEntry{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	return entries, nil
}

// HistoryCmd runs one History lookup off the UI goroutine.
func HistoryCmd(ctx context.Context, client *Client, kind types.HistoryKind, id int64) tea.Cmd {
	return func() tea.Msg {
		entries, err := client.History(ctx, kind, id)
		return types.HistoryResultMsg{Kind: kind, ID: id, Entries: entries, Err: err}
	}
}
