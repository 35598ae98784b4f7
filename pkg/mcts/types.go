package mcts

import "math/rand"

// Other types, which didn't fit to Engine or Node files

// Result of the rollout, should range from [0, 1], seen from the side to move
// at the simulated node: 0 is a loss, 1 is a win, 0.5 a draw (or a truncated playout)
type Result float64
type MoveLike comparable
type BestChildPolicy int
type SeedGeneratorFnType func() int64

// Game state the engine searches on. The engine keeps its own copy of the root state,
// and clones it once per iteration, so MakeMove may freely mutate the receiver.
type StateLike[T MoveLike, P comparable, S any] interface {
	// Legal moves in a stable order, empty when the game is over
	LegalMoves() []T
	// Apply the move, must return an error (and leave the state untouched) if it's illegal
	MakeMove(T) error
	IsTerminated() bool
	// Side to move
	Turn() P
	// Winner of the game, false on draws and ongoing games
	Winner() (P, bool)
	// Deep copy, without any shared memory with the original
	Clone() S
}

// Optional: the state knows a move that should be played without searching (like an opening)
type OpeningState[T MoveLike] interface {
	OpeningMove() (T, bool)
}

// Optional: the state can cheaply detect one-move wins and losses
type TacticalState[T MoveLike] interface {
	// Move winning the game right away for the side to move
	ImmediateWin() (T, bool)
	// Move preventing the opponent's win on their next turn
	ImmediateBlock() (T, bool)
}

// Optional: the state has a move value meaning "no move"
type NoneMoveState[T MoveLike] interface {
	NoneMove() T
}

// Chooses moves during the simulation phase, no tree nodes are created there
type RolloutPolicy[T MoveLike, S any] interface {
	ChooseMove(state S, r *rand.Rand) T
}

// Light playouts: uniformly random legal move
type UniformRollout[T MoveLike, P comparable, S StateLike[T, P, S]] struct{}

func (UniformRollout[T, P, S]) ChooseMove(state S, r *rand.Rand) T {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		var none T
		return none
	}
	return moves[r.Intn(len(moves))]
}

// Why the best move was decided without searching
type ForcedKind int

const (
	ForcedNone ForcedKind = iota
	ForcedOpening
	ForcedWin
	ForcedBlock
)

func (k ForcedKind) String() string {
	switch k {
	case ForcedOpening:
		return "Opening"
	case ForcedWin:
		return "Win"
	case ForcedBlock:
		return "Block"
	}
	return "None"
}

// Move chosen by the forced-move fast path, stored beside the tree, so
// the synthetic visit count never mixes with real statistics
type Decision[T MoveLike] struct {
	Move   T
	Visits int
	Kind   ForcedKind
}
