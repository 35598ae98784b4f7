package mcts

type StrategyLike[T MoveLike] interface {
	// Walk from 'node' up to the root, updating the statistics with the rollout 'result'
	Backpropagate(tree *Tree[T], node NodeID, result Result)
}

type DefaultBackprop[T MoveLike] struct{}

// Assumes the game is 2 player and zero sum, meaning for given result for the current player,
// the value for the enemy is exactly 1 - result
func (b DefaultBackprop[T]) Backpropagate(tree *Tree[T], node NodeID, result Result) {
	/*
		source: https://en.wikipedia.org/wiki/Monte_Carlo_tree_search
			If white loses the simulation, all nodes along the selection incremented their simulation count (the denominator),
			but among them only the black nodes were credited with wins (the numerator). If instead white wins,
			all nodes along the selection would still increment their simulation count, but among them
			only the white nodes would be credited with wins. In games where draws are possible,
			a draw causes the numerator for both black and white to be incremented by 0.5 and the denominator by 1.
	*/

	// 'result' is seen by the side to move at 'node', while the node's stats
	// belong to the player who moved into it, hence the switch before adding
	for node != NoNode {
		n := tree.Node(node)
		result = 1.0 - result
		n.Stats.AddQ(result)
		node = n.Parent
	}
}
