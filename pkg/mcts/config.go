package mcts

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Engine configuration, fixed at construction
type Config[T MoveLike, S any] struct {
	// UCB1 exploration constant, 0 makes the selection greedy
	ExplorationParam float64
	// Simulation policy, nil means uniformly random playouts
	Rollout RolloutPolicy[T, S]
	// Maximum number of rollout plies, 0 is unbounded. Truncated playouts count as draws.
	RolloutDepth int
	// Seed of the engine's random generator, 0 uses SeedGeneratorFn
	Seed int64
	// Detect immediate wins and blocks before searching
	ForcedMoves bool
	// Clock measuring the search time, defaults to process CPU time
	Clock  Clock
	Logger zerolog.Logger
}

func DefaultConfig[T MoveLike, S any]() *Config[T, S] {
	return &Config[T, S]{
		ExplorationParam: DefaultExplorationParam,
		ForcedMoves:      true,
		Clock:            CPUTime,
		Logger:           log.Logger,
	}
}

func (c *Config[T, S]) SetExplorationParam(param float64) *Config[T, S] {
	c.ExplorationParam = max(0, param)
	return c
}

func (c *Config[T, S]) SetRollout(policy RolloutPolicy[T, S]) *Config[T, S] {
	c.Rollout = policy
	return c
}

func (c *Config[T, S]) SetRolloutDepth(depth int) *Config[T, S] {
	c.RolloutDepth = max(0, depth)
	return c
}

func (c *Config[T, S]) SetSeed(seed int64) *Config[T, S] {
	c.Seed = seed
	return c
}

func (c *Config[T, S]) SetForcedMoves(enabled bool) *Config[T, S] {
	c.ForcedMoves = enabled
	return c
}

func (c *Config[T, S]) SetClock(clock Clock) *Config[T, S] {
	c.Clock = clock
	return c
}

func (c *Config[T, S]) SetLogger(logger zerolog.Logger) *Config[T, S] {
	c.Logger = logger
	return c
}
