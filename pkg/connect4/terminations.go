package connect4

type direction struct {
	dr, dc int
}

// horizontal, vertical, diagonal and anti-diagonal,
// each one is walked in both signs
var directions = [4]direction{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

func inBounds(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}

// Count contiguous 'player' pieces starting next to 'sq' and walking in (dr, dc),
// the square itself is not counted
func (p *Position) run(sq Square, player Player, dr, dc int) int {
	count := 0
	r, c := sq.Row+dr, sq.Col+dc
	for inBounds(r, c) && p.cells[r][c] == player {
		count++
		r += dr
		c += dc
	}
	return count
}

// Whether a 'player' piece on 'sq' is part of a run of at least 'length' pieces.
// The square itself is assumed to hold 'player' piece, so this also
// works as a lookahead on an empty square.
func (p *Position) connects(sq Square, player Player, length int) bool {
	for _, d := range directions {
		count := 1
		for _, sign := range [2]int{1, -1} {
			r, c := sq.Row+d.dr*sign, sq.Col+d.dc*sign
			for inBounds(r, c) && p.cells[r][c] == player {
				count++
				if count >= length {
					return true
				}
				r += d.dr * sign
				c += d.dc * sign
			}
		}
	}
	return false
}

// Winner of the game, evaluated relative to the last placed piece
func (p *Position) CheckWin() Player {
	return p.winner
}

// Same as CheckWin, but in the form expected by the search
func (p *Position) Winner() (Player, bool) {
	return p.winner, p.winner != PlayerNone
}

// Check if the game is over (someone won or the board is full)
func (p *Position) IsTerminated() bool {
	return p.winner != PlayerNone || int(p.plies) >= MaxPlies
}

// Final outcome, valid only on a terminated position
func (p *Position) Outcome() (Outcome, error) {
	if !p.IsTerminated() {
		return OutcomeNone, ErrNotTerminated
	}
	if p.winner != PlayerNone {
		return WinOutcome(p.winner), nil
	}
	return OutcomeDraw, nil
}

// Full board scan, used only when there is no last move to check from
// (positions loaded from notation)
func (p *Position) scanWinner() Player {
	for row := range Rows {
		for col := range Cols {
			if pl := p.cells[row][col]; pl != PlayerNone && p.connects(Square{row, col}, pl, WinLength) {
				return pl
			}
		}
	}
	return PlayerNone
}
