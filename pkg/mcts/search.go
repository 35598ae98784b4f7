package mcts

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Search for 'budget' of the engine's clock (process CPU time by default),
// the elapsed time is checked once per iteration. Replaces the current limits.
func (e *Engine[T, P, S]) Search(budget time.Duration) Statistics {
	e.SetLimits(DefaultLimits().SetMovetime(budget))
	return e.Run()
}

// This function only sets the limits, resets the counters, and the stop flag
// doesn't actually start the search
func (e *Engine[T, P, S]) setupSearch() {
	e.Limiter.Reset()
	e.rollouts = 0
	e.statesGenerated = 0
	e.maxdepth = 0
	e.stats = Statistics{}
}

// Run the search under the current limits, until one of them is reached
// (or the context gets cancelled). Simply calls:
//
// 1. selection - to choose the most promising node, expanding it if it was visited before
//
// 2. rollout - to simulate the game from that node until the end (or the depth cap)
//
// 3. backpropagate - to update the statistics up to the root
//
// Returns the statistics of this search.
func (e *Engine[T, P, S]) Run() Statistics {
	e.setupSearch()

	switch {
	case e.state.IsTerminated():
		e.Limiter.SetStopReason(StopTerminal)
		return e.finish()
	case e.hasForced || e.checkForced():
		e.Limiter.SetStopReason(StopTerminal)
		e.logger.Debug().Str("move", fmt.Sprint(e.forced.Move)).Stringer("kind", e.forced.Kind).
			Int("visits", e.forced.Visits).Msg("forced move, search skipped")
		return e.finish()
	}

	for e.Limiter.Ok(uint32(e.tree.Size()), uint32(e.maxdepth), uint32(e.rollouts)) {
		if !e.tree.Root().Expanded() {
			e.tree.Expand(RootID, e.state.LegalMoves())
		}

		state := e.state.Clone()
		node := e.selectLeaf(state)
		e.strategy.Backpropagate(e.tree, node, e.simulate(state))
		e.rollouts++

		if e.listener.onCycle != nil && e.rollouts%e.listener.nCycles == 0 {
			e.listener.onCycle(toListenerStats(e))
		}
	}

	e.Limiter.EvaluateStopReason(uint32(e.tree.Size()), uint32(e.maxdepth), uint32(e.rollouts))
	stats := e.finish()
	e.logger.Debug().Int("rollouts", stats.Rollouts).Dur("elapsed", stats.Elapsed).
		Int("states", stats.StatesGenerated).Int("size", stats.TreeSize).Int("depth", stats.MaxDepth).
		Stringer("stop", stats.StopReason).Msg("search finished")
	return stats
}

func (e *Engine[T, P, S]) finish() Statistics {
	e.stats = Statistics{
		Rollouts:        e.rollouts,
		Elapsed:         e.Limiter.Elapsed(),
		StatesGenerated: e.statesGenerated,
		TreeSize:        e.tree.Size(),
		MaxDepth:        e.maxdepth,
		StopReason:      e.Limiter.StopReason(),
	}
	if e.hasForced {
		e.stats.Forced = e.forced.Kind
	}

	if e.listener.onStop != nil {
		e.listener.onStop(toListenerStats(e))
	}
	return e.stats
}

// Descend from the root, applying the moves to 'state', until a leaf is reached.
// A leaf that was already simulated gets expanded and one of its new children
// (chosen at random) is returned instead.
func (e *Engine[T, P, S]) selectLeaf(state S) NodeID {
	node := RootID
	depth := 0
	for e.tree.Node(node).Expanded() {
		node = e.selection.Select(e.tree, node, e.rand)
		e.play(state, e.tree.Node(node).Move)
		depth++
	}

	if e.tree.Node(node).Stats.N() > 0 && e.Limiter.Expand() && e.tree.Expand(node, state.LegalMoves()) {
		children := e.tree.Node(node).Children
		node = children[e.rand.Intn(len(children))]
		e.play(state, e.tree.Node(node).Move)
		depth++
	}

	if depth > e.maxdepth {
		e.maxdepth = depth
		if e.listener.onDepth != nil {
			e.listener.onDepth(toListenerStats(e))
		}
	}
	return node
}

// Play the rollout policy until the game ends, returns the result
// seen by the side to move in the starting state
func (e *Engine[T, P, S]) simulate(state S) Result {
	turn := state.Turn()
	for ply := 0; !state.IsTerminated(); ply++ {
		if e.config.RolloutDepth > 0 && ply >= e.config.RolloutDepth {
			return 0.5
		}
		e.play(state, e.rollout.ChooseMove(state, e.rand))
	}

	switch winner, ok := state.Winner(); {
	case !ok:
		return 0.5
	case winner == turn:
		return 1
	}
	return 0
}

// Moves played during the search come from the state itself,
// so an error here means the state or the rollout policy is broken
func (e *Engine[T, P, S]) play(state S, move T) {
	if err := state.MakeMove(move); err != nil {
		panic(errors.Wrapf(err, "mcts: search produced an illegal move %v", move))
	}
	e.statesGenerated++
}

// Forced-move fast path, records the decision if the root position doesn't need a search
func (e *Engine[T, P, S]) checkForced() bool {
	if e.state.IsTerminated() {
		return false
	}

	if opening, ok := any(e.state).(OpeningState[T]); ok {
		if move, ok := opening.OpeningMove(); ok {
			e.setForced(Decision[T]{Move: move, Kind: ForcedOpening})
			return true
		}
	}

	if !e.config.ForcedMoves {
		return false
	}

	tactical, ok := any(e.state).(TacticalState[T])
	if !ok {
		return false
	}
	if move, ok := tactical.ImmediateWin(); ok {
		e.setForced(Decision[T]{Move: move, Visits: ForcedWinVisits, Kind: ForcedWin})
		return true
	}
	if move, ok := tactical.ImmediateBlock(); ok {
		e.setForced(Decision[T]{Move: move, Visits: ForcedBlockVisits, Kind: ForcedBlock})
		return true
	}
	return false
}

func (e *Engine[T, P, S]) setForced(decision Decision[T]) {
	e.forced = decision
	e.hasForced = true
}

func (e *Engine[T, P, S]) clearForced() {
	e.forced = Decision[T]{}
	e.hasForced = false
}
