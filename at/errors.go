package at

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrBusy indicates the engine already has a command in flight.
	ErrBusy = errors.New("at: busy")

	// ErrNotOpen indicates the transport has been closed.
	ErrNotOpen = errors.New("at: not open")

	// ErrTimeout indicates a command exceeded its timeout without
	// completing.
	ErrTimeout = errors.New("at: timeout")

	// ErrAborted indicates the engine was closed while a command was
	// in flight.
	ErrAborted = errors.New("at: aborted")
)

// CommandError indicates the modem completed a command with its error
// pattern (ERROR, by default) rather than its success pattern.
// Response holds whatever lines had been accumulated into the buffer
// before the error line arrived; it is empty if the error arrived before
// any buffered content.
type CommandError struct {
	Description string
	Response    string
}

func (e *CommandError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("at: command error: %q", e.Response)
	}
	return fmt.Sprintf("at: %s: command error: %q", e.Description, e.Response)
}
