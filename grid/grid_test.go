package grid

import "testing"

func TestToXY(t *testing.T) {
	cases := []struct {
		offset, width int
		x, y          int
	}{
		{0, 5, 0, 0},
		{4, 5, 4, 0},
		{5, 5, 0, 1},
		{12, 5, 2, 2},
		{24, 5, 4, 4},
	}

	for _, c := range cases {
		x, y := ToXY(c.offset, c.width)
		if x != c.x || y != c.y {
			t.Errorf("ToXY(%d, %d) = (%d, %d), expected (%d, %d)",
				c.offset, c.width, x, y, c.x, c.y)
		}
	}
}

func TestToOffsetWraps(t *testing.T) {
	// -1 wraps to dimension-1 on both axes.
	if got, want := ToOffset(-1, -1, 3, 3), ToOffset(2, 2, 3, 3); got != want {
		t.Errorf("ToOffset(-1, -1) = %d, expected %d", got, want)
	}

	// dimension wraps to 0.
	if got, want := ToOffset(3, 3, 3, 3), ToOffset(0, 0, 3, 3); got != want {
		t.Errorf("ToOffset(3, 3) = %d, expected %d", got, want)
	}

	// General wrapping, not just the boundary cases.
	if got, want := ToOffset(-7, 11, 3, 3), ToOffset(2, 2, 3, 3); got != want {
		t.Errorf("ToOffset(-7, 11) = %d, expected %d", got, want)
	}
}

func TestToOffsetRoundTrip(t *testing.T) {
	const width, height = 4, 3
	for offset := 0; offset < width*height; offset++ {
		x, y := ToXY(offset, width)
		if got := ToOffset(x, y, width, height); got != offset {
			t.Errorf("round trip of offset %d gave %d", offset, got)
		}
	}
}

func TestNeighborOffsets(t *testing.T) {
	neighbors := NeighborOffsets(0, 3, 3)
	if len(neighbors) != 8 {
		t.Fatalf("expected 8 neighbors, got %d", len(neighbors))
	}

	seen := make(map[int]bool)
	for _, n := range neighbors {
		if n < 0 || n >= 9 {
			t.Errorf("neighbor offset %d out of range [0, 9)", n)
		}
		if seen[n] {
			t.Errorf("duplicate neighbor offset %d on a 3x3 board", n)
		}
		seen[n] = true
	}
}

func TestNeighborOffsetsStableOrder(t *testing.T) {
	first := NeighborOffsets(4, 3, 3)
	second := NeighborOffsets(4, 3, 3)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("neighbor order changed between calls: %v vs %v", first, second)
		}
	}
}

func TestNeighborOffsetsDegenerateBoards(t *testing.T) {
	// A 1x1 board: every neighbor is the cell itself.
	for _, n := range NeighborOffsets(0, 1, 1) {
		if n != 0 {
			t.Errorf("1x1 board neighbor = %d, expected 0", n)
		}
	}

	// A 2x1 board must not panic and must stay in range.
	for _, n := range NeighborOffsets(1, 2, 1) {
		if n < 0 || n >= 2 {
			t.Errorf("2x1 board neighbor %d out of range", n)
		}
	}
}
