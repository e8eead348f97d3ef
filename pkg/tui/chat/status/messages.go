package status

import (
	"time"

	"github.com/killallgit/parley/pkg/process"
)

// StatusUpdateMsg updates the status text
type StatusUpdateMsg struct {
	Status string
	State  process.State
}

// StartStreamingMsg indicates a request has been dispatched
type StartStreamingMsg struct {
	State process.State
}

// StopStreamingMsg indicates the request has resolved
type StopStreamingMsg struct{}

// SetProcessStateMsg sets the current process state and icon
type SetProcessStateMsg struct {
	State process.State
}

// TickMsg updates the timer
type TickMsg time.Time
