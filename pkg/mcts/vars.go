package mcts

import (
	"math"

	"lukechampine.com/frand"
)

// Exploration parameter used in UCB1 formula, higher values increase exploration
// while lower values increase exploitation. Theoretical perfect value is sqrt(2).
const DefaultExplorationParam = math.Sqrt2

// Synthetic visit counts reported for decisions made by the forced-move fast path
const (
	ForcedWinVisits   = 1_000_000
	ForcedBlockVisits = 10_000
)

var SeedGeneratorFn SeedGeneratorFnType = func() int64 {
	return int64(frand.Uint64n(math.MaxInt64-1)) + 1
}

// Set custom seed generator function for random number generators in MCTS,
// by default uses a cryptographically secure source
func SetSeedGeneratorFn(f SeedGeneratorFnType) {
	if f != nil {
		SeedGeneratorFn = f
	}
}

const (
	// When choosing the best child, choose the one with most visits,
	// this is the go-to method for MCTS
	BestChildMostVisits BestChildPolicy = iota

	// Experimental: choose the child with the best average outcome
	BestChildWinRate
)
