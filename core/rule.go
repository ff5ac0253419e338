package core

// Rule is the standard Life transition function. Given a cell's current
// liveness and its live-neighbor count, it returns the liveness for the
// next generation: a live cell survives with 2 or 3 live neighbors, a dead
// cell is born with exactly 3, everything else dies or stays dead.
func Rule(alive bool, count int) bool {
	if alive {
		return count == 2 || count == 3
	}
	return count == 3
}
