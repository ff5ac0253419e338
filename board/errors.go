// Package board provides error definitions for board construction and stepping
package board

import "errors"

var (
	// ErrInvalidDimensions indicates width or height below 1.
	ErrInvalidDimensions = errors.New("board dimensions must be positive")

	// ErrStepTimeout indicates the step coordinator did not receive a
	// neighbor-count report from every cell within the configured timeout.
	// The board is unchanged and the caller may retry or abort.
	ErrStepTimeout = errors.New("step timed out awaiting neighbor reports")

	// ErrBoardClosed indicates an operation on a board after Shutdown.
	ErrBoardClosed = errors.New("board has been shut down")
)
