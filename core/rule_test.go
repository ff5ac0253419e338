package core

import "testing"

func TestRuleExhaustive(t *testing.T) {
	// Expected next state for every (alive, count) pair with count in 0..8.
	aliveNext := map[int]bool{2: true, 3: true}
	deadNext := map[int]bool{3: true}

	for count := 0; count <= 8; count++ {
		if got, want := Rule(true, count), aliveNext[count]; got != want {
			t.Errorf("Rule(true, %d) = %v, expected %v", count, got, want)
		}
		if got, want := Rule(false, count), deadNext[count]; got != want {
			t.Errorf("Rule(false, %d) = %v, expected %v", count, got, want)
		}
	}
}
