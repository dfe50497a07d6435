package warehouse

import "math/rand"

// RNG is the single seeded random stream threaded explicitly through every
// planner call that needs a coin flip (axis-order choice, escape direction,
// new_route item pick). Keeping it as an explicit value rather than a
// package-global `rand` source makes the whole simulation bit-reproducible
// for a given seed (spec §5, §8 P6) and keeps "no global mutable state
// beyond the random stream and the Warehouse struct" (spec §9) literal:
// the stream lives on the Scheduler, not in a package variable.
type RNG struct {
	r *rand.Rand
}

// NewRNG seeds a fresh stream. Production code always uses RandomSeed;
// tests may pass an alternate seed to probe different random choices
// while keeping determinism within that run.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewSource(seed))}
}

// Bool returns a uniformly random boolean, used for axis-order and escape
// direction choices.
func (g *RNG) Bool() bool {
	return g.r.Intn(2) == 0
}

// ChoiceInt picks a uniformly random element from a non-empty slice.
func ChoiceInt(g *RNG, items []int) int {
	return items[g.r.Intn(len(items))]
}

// Sign returns +1 or -1 uniformly at random, used by escape direction
// selection when the robot is interior to the grid.
func (g *RNG) Sign() int {
	if g.Bool() {
		return 1
	}
	return -1
}
