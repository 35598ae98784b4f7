package connect4

import "math/rand"

// Probability of playing a uniformly random move in the heuristic playout, off by default
const DefaultHeuristicEpsilon = 0.0

// Rollout policy choosing, in order: an immediate win, a block of the opponent's
// immediate win, the move connecting most of own pieces around the drop point,
// and finally the legal column closest to the center.
//
// Slower than uniform playouts, but gives more realistic results per rollout.
type HeuristicPolicy struct {
	Epsilon float64
}

func NewHeuristicPolicy() *HeuristicPolicy {
	return &HeuristicPolicy{Epsilon: DefaultHeuristicEpsilon}
}

func (h *HeuristicPolicy) ChooseMove(p *Position, r *rand.Rand) Move {
	moves := p.GenerateMoves()
	if moves.Size == 0 {
		return MoveNone
	}

	if h.Epsilon > 0 && r.Float64() < h.Epsilon {
		return moves.Moves[r.Intn(int(moves.Size))]
	}

	if m, ok := p.ImmediateWin(); ok {
		return m
	}
	if m, ok := p.ImmediateBlock(); ok {
		return m
	}

	best := NewMoveList()
	bestScore := 0
	for _, m := range moves.Slice() {
		score := p.LocalScore(p.turn, m)
		if score > bestScore {
			bestScore = score
			best.Size = 0
		}
		if score == bestScore && score > 0 {
			best.Append(m)
		}
	}

	if best.Size > 0 {
		return nearestCenter(best, r)
	}
	return nearestCenter(moves, r)
}

// Pick the move closest to the center, ties are broken at random
func nearestCenter(ml *MoveList, r *rand.Rand) Move {
	closest := NewMoveList()
	bestDist := Cols
	for _, m := range ml.Slice() {
		d := CenterDistance(m)
		if d < bestDist {
			bestDist = d
			closest.Size = 0
		}
		if d == bestDist {
			closest.Append(m)
		}
	}

	if closest.Size == 1 {
		return closest.Moves[0]
	}
	return closest.Moves[r.Intn(int(closest.Size))]
}
