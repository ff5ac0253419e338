package board

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/lifemesh/lifemesh/core"
	"github.com/lifemesh/lifemesh/grid"
)

func testContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// makeBoard builds a board with exactly the given cells alive.
func makeBoard(t *testing.T, width, height int, aliveAt ...[2]int) Board {
	t.Helper()

	alive := make([]bool, width*height)
	for _, xy := range aliveAt {
		alive[grid.ToOffset(xy[0], xy[1], width, height)] = true
	}

	b, err := FromCells(width, height, alive, DefaultOptions())
	if err != nil {
		t.Fatalf("Failed to build board: %v", err)
	}
	t.Cleanup(func() { b.Shutdown() })
	return b
}

// liveness reads the current liveness of every cell in offset order.
func liveness(t *testing.T, ctx context.Context, b Board) []bool {
	t.Helper()

	rows, err := b.Render(ctx, DefaultRenderStyle())
	if err != nil {
		t.Fatalf("Failed to render board: %v", err)
	}

	alive := make([]bool, 0, b.Width()*b.Height())
	for _, row := range rows {
		for _, r := range row {
			alive = append(alive, r == '*')
		}
	}
	return alive
}

// stepReference computes one generation sequentially, as a non-concurrent
// oracle for the actor-based step.
func stepReference(alive []bool, width, height int) []bool {
	next := make([]bool, len(alive))
	for offset := range alive {
		count := 0
		for _, n := range grid.NeighborOffsets(offset, width, height) {
			if alive[n] {
				count++
			}
		}
		next[offset] = core.Rule(alive[offset], count)
	}
	return next
}

func TestGenerateInvalidDimensions(t *testing.T) {
	cases := [][2]int{{0, 5}, {5, 0}, {0, 0}, {-3, 4}}

	for _, c := range cases {
		_, err := Generate(c[0], c[1], DefaultOptions())
		if !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("Generate(%d, %d) error = %v, expected ErrInvalidDimensions",
				c[0], c[1], err)
		}
	}
}

func TestGenerateDeterministicSeed(t *testing.T) {
	ctx := testContext(t)

	opts := DefaultOptions()
	opts.Seed = 42

	a, err := Generate(6, 6, opts)
	if err != nil {
		t.Fatalf("Failed to generate board: %v", err)
	}
	defer a.Shutdown()

	b, err := Generate(6, 6, opts)
	if err != nil {
		t.Fatalf("Failed to generate board: %v", err)
	}
	defer b.Shutdown()

	la, lb := liveness(t, ctx, a), liveness(t, ctx, b)
	for i := range la {
		if la[i] != lb[i] {
			t.Fatalf("Same seed produced different boards at offset %d", i)
		}
	}
}

func TestStepIncrementsGeneration(t *testing.T) {
	ctx := testContext(t)
	b := makeBoard(t, 3, 3)

	if b.Generation() != 0 {
		t.Fatalf("Expected generation 0, got %d", b.Generation())
	}

	for want := uint64(1); want <= 3; want++ {
		var err error
		b, err = b.Step(ctx)
		if err != nil {
			t.Fatalf("Step failed: %v", err)
		}
		if b.Generation() != want {
			t.Errorf("Expected generation %d, got %d", want, b.Generation())
		}
	}
}

func TestStepReturnsNewValue(t *testing.T) {
	ctx := testContext(t)
	before := makeBoard(t, 3, 3)

	after, err := before.Step(ctx)
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	if before.Generation() != 0 {
		t.Errorf("Step mutated the original board value: generation %d", before.Generation())
	}
	if after.Generation() != 1 {
		t.Errorf("Expected stepped generation 1, got %d", after.Generation())
	}
}

func TestBlinkerOscillates(t *testing.T) {
	ctx := testContext(t)

	// Horizontal blinker in the middle of a 5x5 board.
	b := makeBoard(t, 5, 5, [2]int{1, 2}, [2]int{2, 2}, [2]int{3, 2})

	expect := func(b Board, want map[[2]int]bool, phase string) {
		t.Helper()
		alive := liveness(t, ctx, b)
		for y := 0; y < 5; y++ {
			for x := 0; x < 5; x++ {
				got := alive[grid.ToOffset(x, y, 5, 5)]
				if got != want[[2]int{x, y}] {
					t.Errorf("%s: cell (%d,%d) alive=%v, expected %v",
						phase, x, y, got, want[[2]int{x, y}])
				}
			}
		}
	}

	b, err := b.Step(ctx)
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	expect(b, map[[2]int]bool{
		{2, 1}: true,
		{2, 2}: true,
		{2, 3}: true,
	}, "after first step")

	b, err = b.Step(ctx)
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	expect(b, map[[2]int]bool{
		{1, 2}: true,
		{2, 2}: true,
		{3, 2}: true,
	}, "after second step")
}

func TestBlockIsStillLife(t *testing.T) {
	ctx := testContext(t)

	// 2x2 block at (1,1)-(2,2) on a 4x4 board.
	b := makeBoard(t, 4, 4,
		[2]int{1, 1}, [2]int{2, 1},
		[2]int{1, 2}, [2]int{2, 2})

	before := liveness(t, ctx, b)

	b, err := b.Step(ctx)
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	after := liveness(t, ctx, b)
	for i := range before {
		if before[i] != after[i] {
			x, y := grid.ToXY(i, 4)
			t.Errorf("Block changed at (%d,%d): %v -> %v", x, y, before[i], after[i])
		}
	}
}

func TestStepMatchesSequentialReference(t *testing.T) {
	ctx := testContext(t)
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 20; trial++ {
		initial := make([]bool, 16)
		for i := range initial {
			initial[i] = rng.Intn(2) == 1
		}

		b, err := FromCells(4, 4, initial, DefaultOptions())
		if err != nil {
			t.Fatalf("Failed to build board: %v", err)
		}

		b, err = b.Step(ctx)
		if err != nil {
			t.Fatalf("Step failed: %v", err)
		}

		want := stepReference(initial, 4, 4)
		got := liveness(t, ctx, b)
		for i := range want {
			if got[i] != want[i] {
				x, y := grid.ToXY(i, 4)
				t.Errorf("trial %d: cell (%d,%d) alive=%v, reference says %v",
					trial, x, y, got[i], want[i])
			}
		}

		b.Shutdown()
	}
}

func TestStepTimeout(t *testing.T) {
	ctx := testContext(t)

	opts := DefaultOptions()
	opts.StepTimeout = 50 * time.Millisecond

	b, err := FromCells(3, 3, make([]bool, 9), opts)
	if err != nil {
		t.Fatalf("Failed to build board: %v", err)
	}
	defer b.Shutdown()

	// A stopped cell never answers its neighbors' queries, so their
	// counters never report and the barrier must give up.
	if err := b.cells[0].Stop(); err != nil {
		t.Fatalf("Failed to stop cell: %v", err)
	}

	_, err = b.Step(ctx)
	if !errors.Is(err, ErrStepTimeout) {
		t.Fatalf("Step error = %v, expected ErrStepTimeout", err)
	}
}

func TestRenderGlyphs(t *testing.T) {
	ctx := testContext(t)
	b := makeBoard(t, 3, 2, [2]int{0, 0}, [2]int{2, 1})

	rows, err := b.Render(ctx, DefaultRenderStyle())
	if err != nil {
		t.Fatalf("Failed to render board: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0] != "*__" || rows[1] != "__*" {
		t.Errorf("Rendered %q, expected [*__ __*]", rows)
	}

	rows, err = b.Render(ctx, RenderStyle{Alive: '#', Dead: '.'})
	if err != nil {
		t.Fatalf("Failed to render board: %v", err)
	}
	if rows[0] != "#.." || rows[1] != "..#" {
		t.Errorf("Rendered %q with custom style, expected [#.. ..#]", rows)
	}
}

func TestAliveCount(t *testing.T) {
	ctx := testContext(t)
	b := makeBoard(t, 4, 4, [2]int{0, 0}, [2]int{1, 1}, [2]int{2, 2})

	count, err := b.AliveCount(ctx)
	if err != nil {
		t.Fatalf("Failed to count alive cells: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 alive cells, got %d", count)
	}
}

func TestOperationsAfterShutdown(t *testing.T) {
	ctx := testContext(t)

	b, err := FromCells(2, 2, make([]bool, 4), DefaultOptions())
	if err != nil {
		t.Fatalf("Failed to build board: %v", err)
	}

	if err := b.Shutdown(); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	if _, err := b.Step(ctx); !errors.Is(err, ErrBoardClosed) {
		t.Errorf("Step error = %v, expected ErrBoardClosed", err)
	}
	if _, err := b.Render(ctx, DefaultRenderStyle()); !errors.Is(err, ErrBoardClosed) {
		t.Errorf("Render error = %v, expected ErrBoardClosed", err)
	}
	if err := b.Shutdown(); !errors.Is(err, ErrBoardClosed) {
		t.Errorf("Second shutdown error = %v, expected ErrBoardClosed", err)
	}
}
