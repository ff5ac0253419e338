package display

import (
	"fmt"
	"io"
)

// WriterDisplay streams frames to an io.Writer, one after another, each
// followed by a line reporting the generation and a blank separator.
type WriterDisplay struct {
	w io.Writer
}

// NewWriterDisplay creates a display writing to w.
func NewWriterDisplay(w io.Writer) *WriterDisplay {
	return &WriterDisplay{w: w}
}

// Show writes the frame's rows and its generation line.
func (d *WriterDisplay) Show(frame Frame) error {
	for _, row := range frame.Rows {
		if _, err := fmt.Fprintln(d.w, row); err != nil {
			return fmt.Errorf("failed to write frame row: %w", err)
		}
	}
	_, err := fmt.Fprintf(d.w, "generation: %d alive: %d\n\n", frame.Generation, frame.Alive)
	if err != nil {
		return fmt.Errorf("failed to write generation line: %w", err)
	}
	return nil
}

// Close is a no-op; the writer's lifetime belongs to the caller.
func (d *WriterDisplay) Close() error {
	return nil
}
