package board

import (
	"context"
	"fmt"
	"time"

	"github.com/lifemesh/lifemesh/core"
	"github.com/lifemesh/lifemesh/grid"
)

// report is one neighbor counter's result for one cell.
type report struct {
	id    core.CellID
	count int
}

// Step advances the whole board by one generation and returns the new
// board value. It spawns one neighbor counter per cell, waits for exactly
// width*height reports, and only then tells every cell to recompute its
// liveness, so no cell can observe a mix of generations.
//
// By the time Step returns, every cell has the update for the completed
// generation ahead of any later message in its mailbox: updates are
// enqueued before Step returns and each cell services its mailbox in
// order. The caller may therefore immediately query the new generation.
//
// Steps are strictly serialized: callers must not overlap Step calls on
// boards sharing the same cells.
func (b Board) Step(ctx context.Context) (Board, error) {
	if b.isClosed() {
		return b, ErrBoardClosed
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	n := b.width * b.height
	next := b.generation + 1

	// One counter per cell. The channel is sized so counters never block
	// on reporting, even if the coordinator has already given up.
	reports := make(chan report, n)
	for offset := range b.cells {
		go b.countNeighbors(ctx, offset, reports)
	}

	// Aggregation barrier: collect exactly n reports, in any order.
	counts := make(map[core.CellID]int, n)
	timeout := time.NewTimer(b.stepTimeout)
	defer timeout.Stop()

	for len(counts) < n {
		select {
		case r := <-reports:
			counts[r.id] = r.count
		case <-timeout.C:
			return b, fmt.Errorf("%w: generation %d received %d of %d reports",
				ErrStepTimeout, next, len(counts), n)
		case <-ctx.Done():
			return b, ctx.Err()
		}
	}

	// Every count is in; release the cells into the next generation.
	for id, count := range counts {
		msg := core.Message{
			Kind:       core.KindApplyNeighborCount,
			Generation: next,
			Count:      count,
		}
		if err := b.cells[id].Send(msg); err != nil {
			return b, fmt.Errorf("failed to update cell %d: %w", id, err)
		}
	}

	stepped := b
	stepped.generation = next
	return stepped, nil
}

// countNeighbors is the transient neighbor-counter task for one cell and
// one step: it queries the cell's 8 neighbors, tallies the live ones, and
// reports the result exactly once. If a neighbor cannot be queried the
// counter abandons without reporting and the coordinator's timeout
// surfaces the failure.
func (b Board) countNeighbors(ctx context.Context, offset int, reports chan<- report) {
	neighbors := grid.NeighborOffsets(offset, b.width, b.height)

	// Fire all queries, then await the replies; arrival order is
	// irrelevant since only the tally matters.
	replies := make(chan core.Snapshot, len(neighbors))
	pending := 0
	for _, n := range neighbors {
		err := b.cells[n].Send(core.Message{Kind: core.KindQueryState, Reply: replies})
		if err != nil {
			return
		}
		pending++
	}

	count := 0
	for i := 0; i < pending; i++ {
		select {
		case snap := <-replies:
			if snap.Alive {
				count++
			}
		case <-ctx.Done():
			return
		}
	}

	reports <- report{id: core.CellID(offset), count: count}
}
