package mcts

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"slices"
	"time"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Summary of the last search
type Statistics struct {
	Rollouts int
	Elapsed  time.Duration
	// Positions produced by move application during the search
	StatesGenerated int
	TreeSize        int
	MaxDepth        int
	StopReason      StopReason
	Forced          ForcedKind
}

func (s Statistics) String() string {
	return fmt.Sprintf("{Rollouts=%d, Elapsed=%v, States=%d, Size=%d, Depth=%d, Stop=%v, Forced=%v}",
		s.Rollouts, s.Elapsed, s.StatesGenerated, s.TreeSize, s.MaxDepth, s.StopReason, s.Forced)
}

// Monte Carlo Tree Search engine, mirroring the driver's game state.
//
// Usage:
//
//	engine := NewEngine(state, DefaultConfig[Move, *State]())
//	engine.Search(time.Second)
//	move, _ := engine.BestMove()
//	state.MakeMove(move)
//	engine.Advance(move)
//
// Not safe for concurrent use, except for Stop and context cancellation.
type Engine[T MoveLike, P comparable, S StateLike[T, P, S]] struct {
	Limiter LimiterLike

	state     S
	tree      *Tree[T]
	config    Config[T, S]
	selection *UCB1[T]
	strategy  StrategyLike[T]
	rollout   RolloutPolicy[T, S]
	rand      *rand.Rand
	listener  *StatsListener[T]
	logger    zerolog.Logger

	forced    Decision[T]
	hasForced bool

	// current search counters
	rollouts        int
	statesGenerated int
	maxdepth        int
	stats           Statistics
}

// Create new engine searching from a copy of 'state', nil config means DefaultConfig
func NewEngine[T MoveLike, P comparable, S StateLike[T, P, S]](state S, config *Config[T, S]) *Engine[T, P, S] {
	if config == nil {
		config = DefaultConfig[T, S]()
	}

	cfg := *config
	if cfg.Rollout == nil {
		cfg.Rollout = UniformRollout[T, P, S]{}
	}
	if cfg.Clock == nil {
		cfg.Clock = CPUTime
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = SeedGeneratorFn()
	}

	return &Engine[T, P, S]{
		Limiter:   NewLimiter(uint32(unsafe.Sizeof(Node[T]{})), cfg.Clock),
		state:     state.Clone(),
		tree:      NewTree[T](),
		config:    cfg,
		selection: NewUCB1[T](cfg.ExplorationParam),
		strategy:  DefaultBackprop[T]{},
		rollout:   cfg.Rollout,
		rand:      rand.New(rand.NewSource(seed)),
		listener:  &StatsListener[T]{nCycles: 1},
		logger:    cfg.Logger,
	}
}

func (e *Engine[T, P, S]) Config() Config[T, S] {
	return e.config
}

func (e *Engine[T, P, S]) Tree() *Tree[T] {
	return e.tree
}

// Copy of the engine's root state
func (e *Engine[T, P, S]) RootState() S {
	return e.state.Clone()
}

func (e *Engine[T, P, S]) StatsListener() *StatsListener[T] {
	return e.listener
}

func (e *Engine[T, P, S]) SetListener(listener StatsListener[T]) {
	*e.listener = listener
	e.listener.SetCycleInterval(listener.nCycles)
}

func (e *Engine[T, P, S]) ResetListener() {
	e.listener.OnCycle(nil).OnDepth(nil).OnStop(nil)
}

// Adds custom context to the limiter, enabling cancellation through it
//
// Example:
//
//	ctx, cancel := context.WithCancel(context.Background())
//
//	engine.SetContext(ctx)
//	go func() {
//	    time.Sleep(2 * time.Second)
//	    cancel() // Cancel the search after 2 seconds
//	}()
//
//	engine.Run()
func (e *Engine[T, P, S]) SetContext(ctx context.Context) {
	e.Limiter.SetContext(ctx)
}

func (e *Engine[T, P, S]) SetLimits(limits *Limits) {
	e.Limiter.SetLimits(limits)
}

func (e *Engine[T, P, S]) Limits() *Limits {
	return e.Limiter.Limits()
}

// Stop the running search, may be called from another goroutine
func (e *Engine[T, P, S]) Stop() {
	e.Limiter.SetStop(true)
}

// Statistics of the last search, the tree size is always the current one
func (e *Engine[T, P, S]) Statistics() Statistics {
	stats := e.stats
	stats.TreeSize = e.tree.Size()
	return stats
}

// Get cycles per second statistic of the current search
func (e *Engine[T, P, S]) Cps() uint32 {
	elapsed := e.Limiter.Elapsed()
	if elapsed <= 0 {
		return 0
	}
	return uint32(float64(e.rollouts) / elapsed.Seconds())
}

// Returns approximation of memory usage of the tree structure
func (e *Engine[T, P, S]) MemoryUsage() uint32 {
	return uint32(e.tree.Size())*uint32(unsafe.Sizeof(Node[T]{})) + uint32(unsafe.Sizeof(*e))
}

func (e *Engine[T, P, S]) String() string {
	return fmt.Sprintf("Engine={Size=%d, Stats:%v, Root=%v}", e.tree.Size(), e.Statistics(), e.tree.Root())
}

// Replace the root state, discarding the whole tree
func (e *Engine[T, P, S]) Reset(state S) {
	e.state = state.Clone()
	e.tree.Reset()
	e.clearForced()
	e.maxdepth = 0
	e.logger.Debug().Int("size", e.tree.Size()).Msg("engine reset")
}

// Apply a real move to the mirrored state. If the move was explored, its subtree
// becomes the new root, otherwise the tree starts anew from an empty root.
func (e *Engine[T, P, S]) Advance(move T) error {
	if err := e.state.MakeMove(move); err != nil {
		return errors.WithMessagef(err, "advance %v", move)
	}

	e.clearForced()
	if child, ok := e.tree.Child(RootID, move); ok {
		e.tree.Reroot(child)
		e.maxdepth = max(0, e.maxdepth-1)
		e.logger.Debug().Str("move", fmt.Sprint(move)).Int("size", e.tree.Size()).
			Int32("visits", e.tree.Root().Stats.N()).Msg("tree reused")
		return nil
	}

	e.tree.Reset()
	e.maxdepth = 0
	e.logger.Debug().Str("move", fmt.Sprint(move)).Msg("move not in tree, reset root")
	return nil
}

// 'the best move' in the position, false only if the game is over.
// Forced decisions take precedence over the tree, then the most visited root child is chosen,
// ties are broken at random. Without any search, a random legal move is returned.
//
// With no move, the state's NoneMove is returned if it implements NoneMoveState,
// the zero T otherwise, so always check the bool.
func (e *Engine[T, P, S]) BestMove() (T, bool) {
	none := e.noneMove()
	if e.state.IsTerminated() {
		return none, false
	}

	if e.hasForced || e.checkForced() {
		return e.forced.Move, true
	}

	if best := e.BestChild(RootID, BestChildMostVisits); best != NoNode {
		return e.tree.Node(best).Move, true
	}

	moves := e.state.LegalMoves()
	if len(moves) == 0 {
		return none, false
	}
	return moves[e.rand.Intn(len(moves))], true
}

func (e *Engine[T, P, S]) noneMove() T {
	if state, ok := any(e.state).(NoneMoveState[T]); ok {
		return state.NoneMove()
	}
	var none T
	return none
}

// The forced-move decision for the current root, if there is one
func (e *Engine[T, P, S]) Forced() (Decision[T], bool) {
	return e.forced, e.hasForced
}

// Current evaluation of the position, from the side to move's perspective
func (e *Engine[T, P, S]) RootScore() Result {
	if e.hasForced && e.forced.Kind == ForcedWin {
		return 1
	}
	if best := e.BestChild(RootID, BestChildMostVisits); best != NoNode {
		if stats := &e.tree.Node(best).Stats; stats.N() > 0 {
			return stats.AvgQ()
		}
	}
	return Result(math.NaN())
}

// Return best child of given node, based on the policy. Among equally good children
// the choice is random for the root and the first one deeper in the tree.
// Returns NoNode if the node has no children.
func (e *Engine[T, P, S]) BestChild(node NodeID, policy BestChildPolicy) NodeID {
	children := e.tree.Node(node).Children
	if len(children) == 0 {
		return NoNode
	}

	const minVisitsThreshold = 10
	best := make([]NodeID, 0, len(children))
	bestValue := math.Inf(-1)

	for _, id := range children {
		stats := &e.tree.Node(id).Stats
		var value float64

		switch policy {
		case BestChildWinRate:
			if stats.N() < minVisitsThreshold {
				continue
			}
			value = float64(stats.AvgQ())
		default:
			value = float64(stats.N())
		}

		if value > bestValue {
			bestValue = value
			best = best[:0]
		}
		if value == bestValue {
			best = append(best, id)
		}
	}

	switch {
	case len(best) == 0:
		// Not enough visits for the win rate, fall back to visits
		return e.BestChild(node, BestChildMostVisits)
	case len(best) == 1 || node != RootID:
		return best[0]
	}
	return best[e.rand.Intn(len(best))]
}

// Get the principal variation (ie. the best sequence of moves)
// from given starting node, following the most visited children.
// Returns (moves, terminal) where terminal means the line ends the game.
func (e *Engine[T, P, S]) PvFrom(root NodeID) ([]T, bool) {
	pv := make([]T, 0, e.maxdepth+1)
	node := root
	for {
		next := NoNode
		for _, id := range e.tree.Node(node).Children {
			if e.tree.Node(id).Stats.N() > 0 && (next == NoNode || e.tree.Node(id).Stats.N() > e.tree.Node(next).Stats.N()) {
				next = id
			}
		}
		if next == NoNode {
			return pv, e.tree.Node(node).Terminal()
		}

		node = next
		pv = append(pv, e.tree.Node(node).Move)
	}
}

// Principal variation from the root
func (e *Engine[T, P, S]) Pv() []T {
	pv, _ := e.PvFrom(RootID)
	return pv
}

// Returns up to Limits.MultiPv best root lines, ordered by visits
func (e *Engine[T, P, S]) MultiPv() []SearchLine[T] {
	children := slices.Clone(e.tree.Root().Children)
	slices.SortStableFunc(children, func(a, b NodeID) int {
		return int(e.tree.Node(b).Stats.N()) - int(e.tree.Node(a).Stats.N())
	})

	count := min(max(1, e.Limits().MultiPv), len(children))
	lines := make([]SearchLine[T], 0, count)
	for _, id := range children[:count] {
		node := e.tree.Node(id)
		if node.Stats.N() == 0 {
			break
		}

		rest, terminal := e.PvFrom(id)
		lines = append(lines, SearchLine[T]{
			BestMove: node.Move,
			Moves:    append([]T{node.Move}, rest...),
			Eval:     float64(node.Stats.AvgQ()),
			Visits:   node.Stats.N(),
			Terminal: terminal,
		})
	}
	return lines
}
