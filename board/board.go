// Package board assembles cell actors into a toroidal Life board and
// coordinates their generation-by-generation advance.
//
// A Board is an immutable value per generation: Step returns a new Board
// sharing the same cell actors with the generation counter advanced. All
// mutable state lives inside the cells themselves.
package board

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync/atomic"
	"time"

	"github.com/lifemesh/lifemesh/core"
	"github.com/lifemesh/lifemesh/grid"
)

// Options contains configuration options for building a board.
type Options struct {
	// Seed for the initial random liveness. Zero selects a time-based seed.
	Seed int64

	// MailboxSize for each cell actor.
	MailboxSize int

	// StepTimeout bounds how long a step waits for all neighbor-count
	// reports before surfacing ErrStepTimeout.
	StepTimeout time.Duration

	// OnFault handles cell protocol violations; nil keeps the cells'
	// default of aborting the process.
	OnFault core.FaultFunc
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		MailboxSize: 16,
		StepTimeout: 5 * time.Second,
	}
}

// RenderStyle selects the glyphs used for rendered frames.
type RenderStyle struct {
	Alive rune
	Dead  rune
}

// DefaultRenderStyle returns the conventional '*'/'_' glyphs.
func DefaultRenderStyle() RenderStyle {
	return RenderStyle{Alive: '*', Dead: '_'}
}

// Board is the value object for one generation of the simulation. It holds
// the dimensions, the generation counter and the ordered cell handles;
// cells[i] is the actor for grid position (i%width, i/width). Boards are
// passed by value; the cell handles are shared and immutable after
// construction.
type Board struct {
	width, height int
	generation    uint64
	cells         []*core.Cell

	stepTimeout time.Duration

	// Shared across all values derived from the same Generate call.
	closed *int32
}

// Generate builds a width x height board of cell actors, each seeded with
// a random initial liveness, at generation 0.
func Generate(width, height int, opts Options) (Board, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	rng := rand.New(rand.NewSource(seed))
	alive := make([]bool, width*height)
	for i := range alive {
		alive[i] = rng.Intn(2) == 1
	}

	return FromCells(width, height, alive, opts)
}

// FromCells builds a board with the given initial liveness per offset.
// len(alive) must equal width*height.
func FromCells(width, height int, alive []bool, opts Options) (Board, error) {
	if width < 1 || height < 1 {
		return Board{}, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if len(alive) != width*height {
		return Board{}, fmt.Errorf("%w: %d cells for a %dx%d board",
			ErrInvalidDimensions, len(alive), width, height)
	}
	if opts.StepTimeout <= 0 {
		opts.StepTimeout = DefaultOptions().StepTimeout
	}

	cellOpts := core.CellOptions{
		MailboxSize: opts.MailboxSize,
		OnFault:     opts.OnFault,
	}

	cells := make([]*core.Cell, len(alive))
	for offset := range cells {
		cells[offset] = core.NewCell(core.CellID(offset), alive[offset], cellOpts)
	}
	for _, cell := range cells {
		if err := cell.Start(); err != nil {
			return Board{}, fmt.Errorf("failed to start cell %d: %w", cell.ID(), err)
		}
	}

	return Board{
		width:       width,
		height:      height,
		cells:       cells,
		stepTimeout: opts.StepTimeout,
		closed:      new(int32),
	}, nil
}

// Width returns the board width.
func (b Board) Width() int { return b.width }

// Height returns the board height.
func (b Board) Height() int { return b.height }

// Generation returns the board's generation counter.
func (b Board) Generation() uint64 { return b.generation }

// Shutdown stops every cell actor. All board values derived from the same
// Generate call are closed together.
func (b Board) Shutdown() error {
	if b.closed == nil || !atomic.CompareAndSwapInt32(b.closed, 0, 1) {
		return ErrBoardClosed
	}

	var firstErr error
	for _, cell := range b.cells {
		if err := cell.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (b Board) isClosed() bool {
	return b.closed == nil || atomic.LoadInt32(b.closed) != 0
}

// Render queries every cell in offset order and returns height rows of
// width glyphs each.
func (b Board) Render(ctx context.Context, style RenderStyle) ([]string, error) {
	if b.isClosed() {
		return nil, ErrBoardClosed
	}

	rows := make([]string, 0, b.height)
	var row strings.Builder
	for y := 0; y < b.height; y++ {
		row.Reset()
		for x := 0; x < b.width; x++ {
			snap, err := b.cells[grid.ToOffset(x, y, b.width, b.height)].Query(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to query cell (%d,%d): %w", x, y, err)
			}
			if snap.Alive {
				row.WriteRune(style.Alive)
			} else {
				row.WriteRune(style.Dead)
			}
		}
		rows = append(rows, row.String())
	}
	return rows, nil
}

// AliveCount returns the number of live cells.
func (b Board) AliveCount(ctx context.Context) (int, error) {
	if b.isClosed() {
		return 0, ErrBoardClosed
	}

	count := 0
	for _, cell := range b.cells {
		snap, err := cell.Query(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to query cell %d: %w", cell.ID(), err)
		}
		if snap.Alive {
			count++
		}
	}
	return count, nil
}
