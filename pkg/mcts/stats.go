package mcts

// Visit count and cumulated rewards of the node.
// Rewards are stored from the perspective of the player who made the move leading to the node.
type NodeStats struct {
	n int32
	q float64
}

// Number of rollouts that went through this node
func (stats *NodeStats) N() int32 {
	return stats.n
}

// Cumulated rewards/outcomes for this node
func (stats *NodeStats) Q() Result {
	return Result(stats.q)
}

// Average outcome for this node, 0 when it wasn't visited yet
func (stats *NodeStats) AvgQ() Result {
	if stats.n == 0 {
		return 0
	}
	return Result(stats.q / float64(stats.n))
}

// Count one more rollout with given result
func (stats *NodeStats) AddQ(result Result) {
	stats.n++
	stats.q += float64(result)
}
