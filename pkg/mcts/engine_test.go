package mcts_test

import (
	"testing"
	"time"

	"github.com/IlikeChooros/connect4-mcts/pkg/connect4"
	"github.com/IlikeChooros/connect4-mcts/pkg/mcts"
	"github.com/stretchr/testify/require"
)

type c4Engine = mcts.Engine[connect4.Move, connect4.Player, *connect4.Position]
type c4Config = mcts.Config[connect4.Move, *connect4.Position]

func newEngine(t *testing.T, moves string, config *c4Config) *c4Engine {
	t.Helper()
	pos, err := connect4.FromMoves(moves)
	require.NoError(t, err)

	if config == nil {
		config = mcts.DefaultConfig[connect4.Move, *connect4.Position]()
	}
	return mcts.NewEngine[connect4.Move, connect4.Player, *connect4.Position](pos, config.SetClock(mcts.WallTime))
}

func TestEmptyBoardCenter(t *testing.T) {
	engine := newEngine(t, "", nil)
	stats := engine.Search(0)

	require.Equal(t, 0, stats.Rollouts)
	require.Equal(t, mcts.ForcedOpening, stats.Forced)

	move, ok := engine.BestMove()
	require.True(t, ok)
	require.Equal(t, connect4.Move(connect4.CenterColumn), move)

	// opening doesn't depend on the tactical fast path
	noForced := newEngine(t, "", mcts.DefaultConfig[connect4.Move, *connect4.Position]().SetForcedMoves(false))
	move, ok = noForced.BestMove()
	require.True(t, ok)
	require.Equal(t, connect4.Move(connect4.CenterColumn), move)
}

func TestForcedWin(t *testing.T) {
	// x: columns 1-3 on the bottom row, x to move
	for _, budget := range []time.Duration{0, 20 * time.Millisecond} {
		engine := newEngine(t, "112233", nil)
		stats := engine.Search(budget)

		require.Equal(t, 0, stats.Rollouts)
		require.Equal(t, mcts.ForcedWin, stats.Forced)
		require.Equal(t, mcts.StopTerminal, stats.StopReason)

		move, ok := engine.BestMove()
		require.True(t, ok)
		require.Equal(t, connect4.Move(3), move)

		decision, ok := engine.Forced()
		require.True(t, ok)
		require.Equal(t, mcts.ForcedWinVisits, decision.Visits)
		require.Equal(t, mcts.Result(1), engine.RootScore())

		// the tree isn't touched by the synthetic visits
		require.Equal(t, 1, engine.Tree().Size())
	}

	// no search at all
	engine := newEngine(t, "112233", nil)
	move, ok := engine.BestMove()
	require.True(t, ok)
	require.Equal(t, connect4.Move(3), move)
}

func TestForcedBlock(t *testing.T) {
	engine := newEngine(t, "11223", nil)
	stats := engine.Search(0)
	require.Equal(t, mcts.ForcedBlock, stats.Forced)

	move, ok := engine.BestMove()
	require.True(t, ok)
	require.Equal(t, connect4.Move(3), move)

	decision, _ := engine.Forced()
	require.Equal(t, mcts.ForcedBlockVisits, decision.Visits)
}

func TestSearchFindsWinWithoutFastPath(t *testing.T) {
	config := mcts.DefaultConfig[connect4.Move, *connect4.Position]().SetForcedMoves(false).SetSeed(3)
	engine := newEngine(t, "112233", config)
	engine.SetLimits(mcts.DefaultLimits().SetCycles(3000))
	stats := engine.Run()

	require.Equal(t, mcts.ForcedNone, stats.Forced)
	require.Equal(t, 3000, stats.Rollouts)

	move, ok := engine.BestMove()
	require.True(t, ok)
	require.Equal(t, connect4.Move(3), move)
	require.Greater(t, float64(engine.RootScore()), 0.9)
}

func TestTerminalRoot(t *testing.T) {
	engine := newEngine(t, "1212121", nil)
	stats := engine.Search(time.Millisecond)
	require.Equal(t, 0, stats.Rollouts)
	require.Equal(t, mcts.StopTerminal, stats.StopReason)

	move, ok := engine.BestMove()
	require.False(t, ok)
	require.Equal(t, connect4.MoveNone, move)
}

func TestTreeReuse(t *testing.T) {
	config := mcts.DefaultConfig[connect4.Move, *connect4.Position]().SetSeed(11).SetForcedMoves(false)
	engine := newEngine(t, "4", config)
	engine.SetLimits(mcts.DefaultLimits().SetCycles(2000))
	engine.Run()

	for _, move := range engine.RootState().LegalMoves() {
		child, ok := engine.Tree().Child(mcts.RootID, move)
		require.True(t, ok)
		require.Greater(t, engine.Tree().Node(child).Stats.N(), int32(0))
	}

	move, ok := engine.BestMove()
	require.True(t, ok)
	child, _ := engine.Tree().Child(mcts.RootID, move)
	n, q := engine.Tree().Node(child).Stats.N(), engine.Tree().Node(child).Stats.Q()

	require.NoError(t, engine.Advance(move))
	require.Equal(t, n, engine.Tree().Root().Stats.N())
	require.Equal(t, q, engine.Tree().Root().Stats.Q())

	// Search continues on the reused tree
	engine.SetLimits(mcts.DefaultLimits().SetCycles(500))
	engine.Run()
	require.Equal(t, n+500, engine.Tree().Root().Stats.N())
}

func TestAdvanceUnknownMove(t *testing.T) {
	engine := newEngine(t, "", nil)
	require.NoError(t, engine.Advance(0))
	require.Equal(t, 1, engine.Tree().Size())

	pos := engine.RootState()
	require.Equal(t, "1", pos.Moves())
	require.Equal(t, connect4.PlayerTwo, pos.Turn())

	// illegal move doesn't change the state
	full := newEngine(t, "111111", nil)
	require.ErrorIs(t, full.Advance(0), connect4.ErrIllegalMove)
	require.Equal(t, "111111", full.RootState().Moves())
}

func TestRootStateIsolated(t *testing.T) {
	pos, err := connect4.FromMoves("44")
	require.NoError(t, err)

	engine := mcts.NewEngine[connect4.Move, connect4.Player, *connect4.Position](pos, nil)
	require.NoError(t, pos.MakeMove(0))
	require.Equal(t, "44", engine.RootState().Moves())

	root := engine.RootState()
	require.NoError(t, root.MakeMove(1))
	require.Equal(t, "44", engine.RootState().Moves())
}

// Two seeded engines with uniform rollouts play a full game
func TestSelfPlayTerminates(t *testing.T) {
	for seed := int64(1); seed <= 3; seed++ {
		pos := connect4.NewPosition()
		engines := [2]*c4Engine{
			newEngine(t, "", mcts.DefaultConfig[connect4.Move, *connect4.Position]().SetSeed(seed)),
			newEngine(t, "", mcts.DefaultConfig[connect4.Move, *connect4.Position]().SetSeed(seed+100)),
		}

		for ply := 0; !pos.IsTerminated(); ply++ {
			require.Less(t, ply, connect4.MaxPlies)
			engine := engines[ply%2]
			engine.SetLimits(mcts.DefaultLimits().SetCycles(200))
			engine.Run()

			move, ok := engine.BestMove()
			require.True(t, ok)
			require.NoError(t, pos.MakeMove(move))
			for _, e := range engines {
				require.NoError(t, e.Advance(move))
			}
		}

		outcome, err := pos.Outcome()
		require.NoError(t, err)
		require.Contains(t, []connect4.Outcome{
			connect4.OutcomePlayerOneWins,
			connect4.OutcomePlayerTwoWins,
			connect4.OutcomeDraw,
		}, outcome)

		for _, e := range engines {
			_, ok := e.BestMove()
			require.False(t, ok)
		}
	}
}

func TestHeuristicRollout(t *testing.T) {
	config := mcts.DefaultConfig[connect4.Move, *connect4.Position]().
		SetRollout(connect4.NewHeuristicPolicy()).
		SetRolloutDepth(20).
		SetSeed(5)
	engine := newEngine(t, "44", config)
	engine.SetLimits(mcts.DefaultLimits().SetCycles(1000))
	stats := engine.Run()

	require.Equal(t, 1000, stats.Rollouts)
	require.Equal(t, int32(1000), engine.Tree().Root().Stats.N())
	require.NotEmpty(t, engine.Pv())

	_, ok := engine.BestMove()
	require.True(t, ok)
}

func TestCPUTimeBudget(t *testing.T) {
	pos, err := connect4.FromMoves("44")
	require.NoError(t, err)

	engine := mcts.NewEngine[connect4.Move, connect4.Player, *connect4.Position](pos, nil)
	stats := engine.Search(30 * time.Millisecond)

	require.Equal(t, mcts.StopMovetime, stats.StopReason)
	require.Greater(t, stats.Rollouts, 0)
	require.GreaterOrEqual(t, stats.Elapsed, 30*time.Millisecond)
	require.Greater(t, stats.StatesGenerated, stats.Rollouts)
}
