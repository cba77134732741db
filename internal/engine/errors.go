package engine

import (
	"errors"
	"fmt"
)

// EngineError is returned by Submit, Do and Query.
type EngineError struct {
	// Code identifies the error category.
	Code EngineErrorCode

	// Message is a human-readable description.
	Message string

	// Command is the name of the affected command.
	Command string

	// CommandID is set once the command was accepted.
	CommandID string

	// Err is the error returned (or panic recovered) by the command.
	Err error
}

// EngineErrorCode categorizes engine errors.
type EngineErrorCode string

const (
	// ErrCodeQueueClosed means the engine was stopped before the command
	// was accepted.
	ErrCodeQueueClosed EngineErrorCode = "QUEUE_CLOSED"

	// ErrCodeCommandFailed means the command ran and returned an error or
	// panicked.
	ErrCodeCommandFailed EngineErrorCode = "COMMAND_FAILED"
)

func (e *EngineError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Command != "" {
		msg += fmt.Sprintf(" (command=%s", e.Command)
		if e.CommandID != "" {
			msg += fmt.Sprintf(", id=%s", e.CommandID)
		}
		msg += ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// IsQueueClosed reports whether err is an EngineError with
// ErrCodeQueueClosed. Wrapped errors are unwrapped.
func IsQueueClosed(err error) bool {
	var ee *EngineError
	return errors.As(err, &ee) && ee.Code == ErrCodeQueueClosed
}

// IsCommandFailed reports whether err is an EngineError with
// ErrCodeCommandFailed.
func IsCommandFailed(err error) bool {
	var ee *EngineError
	return errors.As(err, &ee) && ee.Code == ErrCodeCommandFailed
}

func newQueueClosedError(name string) *EngineError {
	return &EngineError{
		Code:    ErrCodeQueueClosed,
		Message: "engine is stopped",
		Command: name,
	}
}

func newCommandFailedError(cmd *Command, err error) *EngineError {
	return &EngineError{
		Code:      ErrCodeCommandFailed,
		Message:   "command failed",
		Command:   cmd.Name,
		CommandID: cmd.ID,
		Err:       err,
	}
}
