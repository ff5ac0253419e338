package display

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// ScreenDisplay draws frames on a full terminal screen. It runs its own
// event loop so the user can quit with 'q', Escape or Ctrl-C; the driving
// loop watches Quit for that.
type ScreenDisplay struct {
	screen tcell.Screen
	quit   chan struct{}
	once   sync.Once
}

// NewScreenDisplay initializes the terminal screen and starts the key
// event loop.
func NewScreenDisplay() (*ScreenDisplay, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}
	screen.Clear()

	d := &ScreenDisplay{
		screen: screen,
		quit:   make(chan struct{}),
	}
	go d.eventLoop()

	return d, nil
}

// Quit is closed when the user asks to exit.
func (d *ScreenDisplay) Quit() <-chan struct{} {
	return d.quit
}

// Show draws the frame and a status line beneath it.
func (d *ScreenDisplay) Show(frame Frame) error {
	for y, row := range frame.Rows {
		x := 0
		for _, r := range row {
			d.screen.SetContent(x, y, r, nil, tcell.StyleDefault)
			x++
		}
	}

	status := fmt.Sprintf("generation: %d alive: %d (q to quit)  ", frame.Generation, frame.Alive)
	for i, r := range status {
		d.screen.SetContent(i, len(frame.Rows)+1, r, nil, tcell.StyleDefault)
	}

	d.screen.Show()
	return nil
}

// Close restores the terminal.
func (d *ScreenDisplay) Close() error {
	d.once.Do(func() { close(d.quit) })
	d.screen.Fini()
	return nil
}

func (d *ScreenDisplay) eventLoop() {
	for {
		ev := d.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				d.once.Do(func() { close(d.quit) })
				return
			}
		case *tcell.EventResize:
			d.screen.Sync()
		case nil:
			// Screen finalized.
			return
		}
	}
}
