// Package grid provides coordinate mapping for a toroidal 2D grid.
//
// Cells are addressed by a linear offset in row-major order. All functions
// are pure; toroidal wrapping maps any integer coordinate, not just the
// off-by-one boundary cases, back into the grid.
package grid

// ToXY converts a linear offset into (x, y) coordinates.
func ToXY(offset, width int) (int, int) {
	return offset % width, offset / width
}

// ToOffset converts (x, y) coordinates into a linear offset, applying
// toroidal wrapping to both axes first.
func ToOffset(x, y, width, height int) int {
	x = (x%width + width) % width
	y = (y%height + height) % height
	return x + y*width
}

// NeighborOffsets returns the offsets of the 8 cells in the Moore
// neighborhood of offset, in a fixed order (row by row, left to right,
// skipping the cell itself). On boards narrower than 3 cells in either
// dimension the same offset may appear more than once: under wrapping a
// cell can be its own neighbor.
func NeighborOffsets(offset, width, height int) []int {
	x, y := ToXY(offset, width)
	neighbors := make([]int, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			neighbors = append(neighbors, ToOffset(x+dx, y+dy, width, height))
		}
	}
	return neighbors
}
