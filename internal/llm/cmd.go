package llm

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/VarunSharma3520/AskForm/internal/types"
)

// SubmitCmd performs one Ask call off the UI goroutine and reports the outcome
// as a types.SubmitResultMsg tagged with seq.
func SubmitCmd(ctx context.Context, client *Client, seq uint64, req Request) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		reply, err := client.Ask(ctx, req)
		return types.SubmitResultMsg{
			Seq:     seq,
			ID:      req.ID,
			Reply:   reply,
			Err:     err,
			Elapsed: time.Since(start),
		}
	}
}
