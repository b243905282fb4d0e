package types

import "time"

type ScreenMode string

const (
	ModeChat    ScreenMode = "chat"
	ModeOptions ScreenMode = "options"
	ModeHistory ScreenMode = "history"
)

// SubmitResultMsg reports how a single ask call settled.
// Seq identifies the submission so stale results can be dropped.
type SubmitResultMsg struct {
	Seq     uint64
	ID      string
	Reply   string
	Err     error
	Elapsed time.Duration
}

// StatusMsg represents a status message to be displayed in the UI
type StatusMsg struct {
	Message  string
	Duration time.Duration
}

// ClearStatusMsg removes the status message it was scheduled for.
type ClearStatusMsg struct{ Message string }
