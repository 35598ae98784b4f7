package mcts

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	branchFactor = 4
	gameLength   = 8
)

type dummyMove int

var errDummyIllegal = errors.New("illegal dummy move")

// A dummy game for testing purposes: every position has 'branchFactor' moves,
// the game ends after 'gameLength' plies and the result is derived from the moves played
type dummyState struct {
	hash   int
	depth  int
	turn   int8
	winner int8
}

func newDummyState() *dummyState {
	return &dummyState{winner: -1}
}

func (d *dummyState) LegalMoves() []dummyMove {
	if d.IsTerminated() {
		return nil
	}
	moves := make([]dummyMove, branchFactor)
	for i := range moves {
		moves[i] = dummyMove(i)
	}
	return moves
}

func (d *dummyState) MakeMove(m dummyMove) error {
	if d.IsTerminated() || m < 0 || m >= branchFactor {
		return errors.Wrapf(errDummyIllegal, "move %d at depth %d", m, d.depth)
	}

	d.hash = (d.hash*31 + int(m) + 7) % 1000003
	d.depth++
	if d.depth == gameLength {
		// 0 and 1 are the winners, 2 is a draw
		if w := d.hash % 3; w < 2 {
			d.winner = int8(w)
		}
	}
	d.turn ^= 1
	return nil
}

func (d *dummyState) IsTerminated() bool { return d.depth >= gameLength }
func (d *dummyState) Turn() int8         { return d.turn }
func (d *dummyState) Winner() (int8, bool) {
	return d.winner, d.winner >= 0
}
func (d *dummyState) Clone() *dummyState {
	clone := *d
	return &clone
}

type dummyEngine = Engine[dummyMove, int8, *dummyState]

func newDummyEngine(config *Config[dummyMove, *dummyState]) *dummyEngine {
	if config == nil {
		config = DefaultConfig[dummyMove, *dummyState]()
	}
	return NewEngine[dummyMove, int8, *dummyState](newDummyState(), config.SetClock(WallTime))
}

func TestMain(m *testing.M) {
	SetSeedGeneratorFn(func() int64 {
		return 42
	})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	fmt.Printf("Using seed %d\n", SeedGeneratorFn())
	os.Exit(m.Run())
}

// Check the statistics of every node: children's visits add up to the parent's
// (plus the parent's own rollout), rewards stay within [0, N]
func checkTree[T MoveLike](t *testing.T, tree *Tree[T]) {
	t.Helper()

	for i := range tree.Size() {
		id := NodeID(i)
		node := tree.Node(id)
		n, q := node.Stats.N(), float64(node.Stats.Q())
		if q < 0 || q > float64(n) {
			t.Fatalf("Node %d: Q=%f out of [0, N=%d]", id, q, n)
		}

		if !node.Expanded() {
			continue
		}

		sum := int32(0)
		for _, c := range node.Children {
			child := tree.Node(c)
			if child.Parent != id {
				t.Fatalf("Node %d: child %d has parent %d", id, c, child.Parent)
			}
			sum += child.Stats.N()
		}

		switch {
		case id == RootID && (n-sum < 0 || n-sum > 1):
			t.Fatalf("Root: N=%d, children sum=%d", n, sum)
		case id != RootID && n != sum+1:
			t.Fatalf("Node %d: N=%d, expected children sum + 1=%d", id, n, sum+1)
		}
	}
}

func TestTreeExpand(t *testing.T) {
	tree := NewTree[dummyMove]()
	require.Equal(t, 1, tree.Size())
	require.Equal(t, NoNode, tree.Root().Parent)

	require.True(t, tree.Expand(RootID, []dummyMove{0, 1, 2}))
	require.False(t, tree.Expand(RootID, []dummyMove{0, 1, 2}), "expansion is single-shot")
	require.Equal(t, 4, tree.Size())

	child, ok := tree.Child(RootID, 2)
	require.True(t, ok)
	require.Equal(t, dummyMove(2), tree.Node(child).Move)

	_, ok = tree.Child(RootID, 5)
	require.False(t, ok)

	require.True(t, tree.Expand(child, []dummyMove{0, 1}))
	grandchild, ok := tree.Child(child, 1)
	require.True(t, ok)
	require.Equal(t, []NodeID{RootID, child, grandchild}, tree.Path(grandchild))
	require.Equal(t, 2, tree.Depth(grandchild))

	// no moves, the node is terminal
	leaf, _ := tree.Child(RootID, 0)
	require.False(t, tree.Expand(leaf, nil))
	require.True(t, tree.Node(leaf).Terminal())
	require.False(t, tree.Node(leaf).Expanded())

	tree.Reset()
	require.Equal(t, 1, tree.Size())
	require.False(t, tree.Root().Expanded())
}

func TestTreeReroot(t *testing.T) {
	engine := newDummyEngine(nil)
	engine.SetLimits(DefaultLimits().SetCycles(2000))
	engine.Run()

	tree := engine.Tree()
	child, ok := tree.Child(RootID, 1)
	require.True(t, ok)

	before := *tree.Node(child)
	subtree := countSubtree(tree, child)

	tree.Reroot(child)
	root := tree.Root()
	require.Equal(t, before.Stats, root.Stats)
	require.Equal(t, before.Move, root.Move)
	require.Equal(t, NoNode, root.Parent)
	require.Equal(t, subtree, tree.Size())
	checkTree(t, tree)
}

func countSubtree[T MoveLike](tree *Tree[T], id NodeID) int {
	count := 0
	stack := []NodeID{id}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		stack = append(stack, tree.Node(node).Children...)
	}
	return count
}

func TestUCB1Value(t *testing.T) {
	ucb := NewUCB1[dummyMove](math.Sqrt2)
	unvisited := NodeStats{}
	if v := ucb.Value(10, &unvisited); !math.IsInf(v, 1) {
		t.Errorf("Unvisited node should have infinite value, got %f", v)
	}

	stats := NodeStats{}
	stats.AddQ(1)
	stats.AddQ(0)
	want := 0.5 + math.Sqrt2*math.Sqrt(math.Log(10)/2)
	if v := ucb.Value(10, &stats); math.Abs(v-want) > 1e-9 {
		t.Errorf("Expected %f, got %f", want, v)
	}

	greedy := NewUCB1[dummyMove](0)
	if v := greedy.Value(10, &unvisited); v != 0 {
		t.Errorf("Greedy selection should value unvisited nodes as 0, got %f", v)
	}
	if v := greedy.Value(10, &stats); v != 0.5 {
		t.Errorf("Greedy selection should use the average, got %f", v)
	}
}

func TestUCB1Ties(t *testing.T) {
	tree := NewTree[dummyMove]()
	tree.Expand(RootID, []dummyMove{0, 1, 2, 3})
	ucb := NewUCB1[dummyMove](DefaultExplorationParam)
	r := rand.New(rand.NewSource(1))

	// every child is unvisited, all of them must be reachable
	seen := make(map[NodeID]int)
	for range 400 {
		seen[ucb.Select(tree, RootID, r)]++
	}
	require.Len(t, seen, 4)

	// the only unvisited child wins over any visited one
	for _, id := range tree.Root().Children[1:] {
		tree.Node(id).Stats.AddQ(1)
		tree.Root().Stats.AddQ(0)
	}
	require.Equal(t, tree.Root().Children[0], ucb.Select(tree, RootID, r))
}

func TestBackpropagate(t *testing.T) {
	tree := NewTree[dummyMove]()
	tree.Expand(RootID, []dummyMove{0})
	child := tree.Root().Children[0]
	tree.Expand(child, []dummyMove{0})
	grandchild := tree.Node(child).Children[0]

	// side to move at the grandchild wins
	DefaultBackprop[dummyMove]{}.Backpropagate(tree, grandchild, 1)
	require.Equal(t, Result(0), tree.Node(grandchild).Stats.Q())
	require.Equal(t, Result(1), tree.Node(child).Stats.Q())
	require.Equal(t, Result(0), tree.Root().Stats.Q())

	// draws are worth the same on every level
	DefaultBackprop[dummyMove]{}.Backpropagate(tree, grandchild, 0.5)
	require.Equal(t, Result(0.5), tree.Node(grandchild).Stats.Q())
	require.Equal(t, Result(1.5), tree.Node(child).Stats.Q())
	require.Equal(t, Result(0.5), tree.Root().Stats.Q())

	for _, id := range []NodeID{RootID, child, grandchild} {
		require.Equal(t, int32(2), tree.Node(id).Stats.N())
	}
}

func TestSearchInvariants(t *testing.T) {
	explorations := []float64{0, 0.5, DefaultExplorationParam, 3}

	for _, c := range explorations {
		engine := newDummyEngine(DefaultConfig[dummyMove, *dummyState]().SetExplorationParam(c))
		engine.SetLimits(DefaultLimits().SetCycles(3000))
		stats := engine.Run()

		if stats.Rollouts != 3000 {
			t.Fatalf("c=%f: expected 3000 rollouts, got %d", c, stats.Rollouts)
		}
		if n := engine.Tree().Root().Stats.N(); n != 3000 {
			t.Fatalf("c=%f: root visits %d, expected 3000", c, n)
		}
		require.Equal(t, StopCycles, stats.StopReason)
		require.Greater(t, stats.StatesGenerated, stats.Rollouts)
		require.LessOrEqual(t, stats.MaxDepth, gameLength)
		require.Equal(t, engine.Tree().Size(), stats.TreeSize)
		checkTree(t, engine.Tree())
	}
}

func TestSearchZeroBudget(t *testing.T) {
	engine := newDummyEngine(nil)
	stats := engine.Search(0)

	require.Equal(t, 0, stats.Rollouts)
	require.Equal(t, StopMovetime, stats.StopReason)
	require.Equal(t, 1, engine.Tree().Size())

	// still a legal move, chosen at random
	move, ok := engine.BestMove()
	require.True(t, ok)
	require.True(t, move >= 0 && move < branchFactor)
}

func TestSearchDeterministic(t *testing.T) {
	run := func() ([]dummyMove, Result) {
		engine := newDummyEngine(DefaultConfig[dummyMove, *dummyState]().SetSeed(7))
		engine.SetLimits(DefaultLimits().SetCycles(1000))
		engine.Run()
		return engine.Pv(), engine.RootScore()
	}

	pv1, score1 := run()
	pv2, score2 := run()
	require.Equal(t, pv1, pv2)
	require.Equal(t, score1, score2)
	require.NotEmpty(t, pv1)
}

func TestSearchTerminalRoot(t *testing.T) {
	state := newDummyState()
	for !state.IsTerminated() {
		require.NoError(t, state.MakeMove(0))
	}

	engine := NewEngine[dummyMove, int8, *dummyState](state, nil)
	stats := engine.Search(0)
	require.Equal(t, StopTerminal, stats.StopReason)

	_, ok := engine.BestMove()
	require.False(t, ok)
	require.True(t, math.IsNaN(float64(engine.RootScore())))
}

func TestRolloutDepthCap(t *testing.T) {
	engine := newDummyEngine(DefaultConfig[dummyMove, *dummyState]().SetRolloutDepth(3))
	state := newDummyState()

	// Truncated rollouts are draws
	require.Equal(t, Result(0.5), engine.simulate(state))
	require.Equal(t, 3, state.depth)
	require.Equal(t, 3, engine.statesGenerated)

	unbounded := newDummyEngine(nil)
	state = newDummyState()
	result := unbounded.simulate(state)
	require.True(t, state.IsTerminated())

	// seen by the side to move at the start (player 0)
	switch winner, ok := state.Winner(); {
	case !ok:
		require.Equal(t, Result(0.5), result)
	case winner == 0:
		require.Equal(t, Result(1), result)
	default:
		require.Equal(t, Result(0), result)
	}
}

func TestAdvance(t *testing.T) {
	engine := newDummyEngine(nil)
	engine.SetLimits(DefaultLimits().SetCycles(1000))
	engine.Run()

	move, ok := engine.BestMove()
	require.True(t, ok)
	child, ok := engine.Tree().Child(RootID, move)
	require.True(t, ok)
	before := engine.Tree().Node(child).Stats

	require.NoError(t, engine.Advance(move))
	require.Equal(t, before, engine.Tree().Root().Stats)
	require.Equal(t, 1, engine.RootState().depth)
	checkTree(t, engine.Tree())

	// illegal move leaves everything untouched
	size := engine.Tree().Size()
	err := engine.Advance(branchFactor)
	require.ErrorIs(t, err, errDummyIllegal)
	require.Equal(t, size, engine.Tree().Size())
	require.Equal(t, 1, engine.RootState().depth)
}

func TestListener(t *testing.T) {
	engine := newDummyEngine(nil)
	engine.SetLimits(DefaultLimits().SetCycles(100).SetMultiPv(2))

	cycles, depths, stops := 0, 0, 0
	var last ListenerTreeStats[dummyMove]
	listener := NewStatsListener[dummyMove]()
	listener.
		OnCycle(func(ListenerTreeStats[dummyMove]) { cycles++ }).
		SetCycleInterval(10).
		OnDepth(func(ListenerTreeStats[dummyMove]) { depths++ }).
		OnStop(func(stats ListenerTreeStats[dummyMove]) {
			stops++
			last = stats
		})
	engine.SetListener(listener)
	engine.Run()

	require.Equal(t, 10, cycles)
	require.Equal(t, 1, stops)
	require.Greater(t, depths, 0)
	require.Equal(t, 100, last.Cycles)
	require.Equal(t, StopCycles, last.StopReason)
	require.Len(t, last.Lines, 2)
	require.GreaterOrEqual(t, last.Lines[0].Visits, last.Lines[1].Visits)

	engine.ResetListener()
	engine.Run()
	require.Equal(t, 1, stops)
}

func TestListenerZeroValue(t *testing.T) {
	engine := newDummyEngine(nil)
	engine.SetLimits(DefaultLimits().SetCycles(20))

	cycles := 0
	var listener StatsListener[dummyMove]
	listener.OnCycle(func(ListenerTreeStats[dummyMove]) { cycles++ })
	engine.SetListener(listener)

	require.NotPanics(t, func() { engine.Run() })
	require.Equal(t, 20, cycles)
}
