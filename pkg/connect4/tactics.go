package connect4

// Static lookahead: would dropping 'player' piece into 'col' complete a run.
// Doesn't change the position nor the side to move.
func (p *Position) WouldConnect(player Player, col Move) bool {
	if !p.IsLegal(col) {
		return false
	}
	return p.connects(Square{Row: int(p.height[col]), Col: int(col)}, player, WinLength)
}

// Move winning the game right away for the side to move
func (p *Position) ImmediateWin() (Move, bool) {
	return p.connectingMove(p.turn)
}

// Column the opponent would win with on their next move
func (p *Position) ImmediateBlock() (Move, bool) {
	return p.connectingMove(p.turn.Opponent())
}

func (p *Position) connectingMove(player Player) (Move, bool) {
	for col := range Move(Cols) {
		if p.WouldConnect(player, col) {
			return col, true
		}
	}
	return MoveNone, false
}

// The center column is the strongest first move, no need to search for it
func (p *Position) OpeningMove() (Move, bool) {
	if p.plies == 0 {
		return CenterColumn, true
	}
	return MoveNone, false
}

// Number of 'player' pieces directly connected to the drop point in 'col',
// summed over the four directions. Zero for illegal columns.
func (p *Position) LocalScore(player Player, col Move) int {
	if !p.IsLegal(col) {
		return 0
	}

	sq := Square{Row: int(p.height[col]), Col: int(col)}
	score := 0
	for _, d := range directions {
		score += p.run(sq, player, d.dr, d.dc) + p.run(sq, player, -d.dr, -d.dc)
	}
	return score
}

// Distance of the column from the center one
func CenterDistance(m Move) int {
	d := int(m) - CenterColumn
	if d < 0 {
		return -d
	}
	return d
}
