package connect4

// Generate all legal moves, empty if the board is full or the game is won
func (p *Position) GenerateMoves() *MoveList {
	movelist := NewMoveList()
	if p.winner != PlayerNone {
		return movelist
	}

	for col := range Cols {
		if p.height[col] >= 0 {
			movelist.Append(Move(col))
		}
	}
	return movelist
}

// Same as GenerateMoves, but as a fresh slice
func (p *Position) LegalMoves() []Move {
	ml := p.GenerateMoves()
	moves := make([]Move, ml.Size)
	copy(moves, ml.Slice())
	return moves
}

// MoveNone, returned by the engine when the game is over
func (p *Position) NoneMove() Move {
	return MoveNone
}

func (p *Position) IsLegal(m Move) bool {
	return m >= 0 && m < Cols && p.winner == PlayerNone && p.height[m] >= 0
}
