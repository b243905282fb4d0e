package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// HistoryKind selects which association a history lookup is keyed on.
type HistoryKind string

const (
	HistoryTask    HistoryKind = "task"
	HistorySubtask HistoryKind = "subtask"
)

// HistoryEntry is one stored prompt/reply pair returned by the history endpoints.
type HistoryEntry struct {
	ID        int64     `json:"id"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	CreatedAt Timestamp `json:"createdAt"`
}

// Timestamp accepts the service's local date-times either as an ISO string
// ("2024-05-01T10:15:30.123") or as a component array ([2024,5,1,10,15,30,123000000]).
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '[' {
		var parts []int
		if err := json.Unmarshal(data, &parts); err != nil {
			return fmt.Errorf("invalid timestamp array: %w", err)
		}
		if len(parts) < 3 {
			return fmt.Errorf("invalid timestamp array: %d components", len(parts))
		}
		comp := make([]int, 7)
		copy(comp, parts)
		t.Time = time.Date(comp[0], time.Month(comp[1]), comp[2], comp[3], comp[4], comp[5], comp[6], time.Local)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid timestamp: %w", err)
	}
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// HistoryResultMsg reports the outcome of a history lookup.
type HistoryResultMsg struct {
	Kind    HistoryKind
	ID      int64
	Entries []HistoryEntry
	Err     error
}
