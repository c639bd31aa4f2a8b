package gocraft

import (
	"errors"
	"fmt"
)

var (
	// ErrNoResponse is returned when a command that needs a reply gets none
	// within the connection timeout.
	ErrNoResponse = errors.New("no response received")
	// ErrConnectionClosed is returned once the connection has been closed,
	// by either end.
	ErrConnectionClosed = errors.New("connection closed")

	ErrBatchStarted    = errors.New("batch already started")
	ErrBatchNotStarted = errors.New("no batch in progress")
)

// CommandError reports a command the server rejected, or an unexpected
// reply to one.
type CommandError struct {
	Command string
	Reply   string
}

func (e *CommandError) Error() string {
	if e.Reply == "" {
		return fmt.Sprintf("command %q failed", e.Command)
	}
	return fmt.Sprintf("command %q: unexpected reply %q", e.Command, e.Reply)
}
