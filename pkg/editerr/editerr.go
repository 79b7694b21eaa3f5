// Package editerr defines the error taxonomy of an editing session.
package editerr

import (
	"errors"
	"fmt"
)

// Code classifies an edit failure.
type Code string

const (
	ErrNoImage        Code = "NO_IMAGE"         // operation needs a loaded image
	ErrOutOfBounds    Code = "OUT_OF_BOUNDS"    // pixel access outside the buffer
	ErrRemote         Code = "REMOTE"           // AI service failure
	ErrBusy           Code = "BUSY"             // remote operation already running
	ErrStrokeInFlight Code = "STROKE_IN_FLIGHT" // history navigation during a stroke
	ErrInvalid        Code = "INVALID"          // bad argument
)

// EditError is a coded error. Err carries the underlying cause, if any.
type EditError struct {
	Code    Code
	Message string
	Details map[string]any
	Err     error
}

func (e *EditError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *EditError) Unwrap() error {
	return e.Err
}

// NewNoImage reports that op was attempted with nothing loaded.
func NewNoImage(op string) *EditError {
	return &EditError{
		Code:    ErrNoImage,
		Message: fmt.Sprintf("%s requires a loaded image", op),
		Details: map[string]any{"operation": op},
	}
}

// NewOutOfBounds wraps a bounds failure.
func NewOutOfBounds(err error) *EditError {
	return &EditError{
		Code:    ErrOutOfBounds,
		Message: "coordinates outside the image",
		Err:     err,
	}
}

// NewRemote wraps a failure from the AI service for operation op.
func NewRemote(op string, err error) *EditError {
	return &EditError{
		Code:    ErrRemote,
		Message: fmt.Sprintf("remote %s failed", op),
		Details: map[string]any{"operation": op},
		Err:     err,
	}
}

// NewBusy reports that a remote operation is already in progress.
func NewBusy(running string) *EditError {
	return &EditError{
		Code:    ErrBusy,
		Message: fmt.Sprintf("busy: %s", running),
		Details: map[string]any{"running": running},
	}
}

// NewStrokeInFlight reports an undo or redo attempted mid-stroke.
func NewStrokeInFlight(op string) *EditError {
	return &EditError{
		Code:    ErrStrokeInFlight,
		Message: fmt.Sprintf("%s ignored while a stroke is in progress", op),
	}
}

// NewInvalid reports an invalid argument.
func NewInvalid(msg string) *EditError {
	return &EditError{
		Code:    ErrInvalid,
		Message: msg,
	}
}

// Is reports whether err, or anything it wraps, is an EditError with code.
func Is(err error, code Code) bool {
	var e *EditError
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
