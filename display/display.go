// Package display provides frame sinks for the simulation's driving loop.
//
// The engine itself only produces rows of glyphs; a Display decides where
// they go. WriterDisplay streams frames to any io.Writer and ScreenDisplay
// draws them full-screen in a terminal.
package display

// Frame is one rendered generation.
type Frame struct {
	// Rows are the rendered grid rows, top to bottom.
	Rows []string

	// Generation is the board's generation counter for this frame.
	Generation uint64

	// Alive is the number of live cells in this frame.
	Alive int
}

// Display consumes rendered frames.
type Display interface {
	// Show presents one frame.
	Show(frame Frame) error

	// Close releases any resources held by the display.
	Close() error
}
