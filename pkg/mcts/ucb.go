package mcts

import (
	"math"
	"math/rand"
)

// Upper Confidence Bound selection, ties between the best children are broken at random
type UCB1[T MoveLike] struct {
	ExplorationParam float64
	best             []NodeID
}

func NewUCB1[T MoveLike](explorationParam float64) *UCB1[T] {
	return &UCB1[T]{ExplorationParam: max(0, explorationParam)}
}

func (u *UCB1[T]) SetExplorationParam(c float64) {
	u.ExplorationParam = max(0, c)
}

// UCB 1 : wins/visits + C * sqrt(ln(parent_visits)/visits)
// Unvisited children are always preferred, unless C is 0 (greedy selection)
func (u *UCB1[T]) Value(parentVisits int32, stats *NodeStats) float64 {
	visits := stats.N()
	if visits == 0 {
		if u.ExplorationParam > 0 {
			return math.Inf(1)
		}
		return 0
	}

	// Children store rewards from the parent's point of view,
	// so the parent simply maximizes them
	exploitation := float64(stats.Q()) / float64(visits)
	if u.ExplorationParam == 0 {
		return exploitation
	}
	return exploitation + u.ExplorationParam*math.Sqrt(math.Log(float64(parentVisits))/float64(visits))
}

// Choose the most promising child of an expanded node
func (u *UCB1[T]) Select(tree *Tree[T], parent NodeID, r *rand.Rand) NodeID {
	node := tree.Node(parent)
	if len(node.Children) == 0 {
		return parent
	}

	u.best = u.best[:0]
	bestValue := math.Inf(-1)
	parentVisits := node.Stats.N()

	for _, id := range node.Children {
		value := u.Value(parentVisits, &tree.Node(id).Stats)
		if value > bestValue {
			bestValue = value
			u.best = u.best[:0]
		}
		if value == bestValue {
			u.best = append(u.best, id)
		}
	}

	if len(u.best) == 1 {
		return u.best[0]
	}
	return u.best[r.Intn(len(u.best))]
}
