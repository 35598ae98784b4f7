package connect4

import "github.com/pkg/errors"

// Main position struct, all of the storage is held in fixed size arrays,
// so copying the struct gives an independent position
type Position struct {
	cells   [Rows][Cols]Player
	height  [Cols]int8 // next free row in each column, -1 when the column is full
	history [MaxPlies]int8
	moves   uint8 // number of moves stored in history
	plies   uint8 // number of pieces on the board
	turn    Player
	last    Square
	hasLast bool
	winner  Player
}

// Create an empty position, PlayerOne moves first
func NewPosition() *Position {
	p := &Position{}
	p.Init()
	return p
}

// Initialize the position (empty board)
func (p *Position) Init() {
	*p = Position{turn: PlayerOne}
	for col := range Cols {
		p.height[col] = Rows - 1
	}
}

// Make a deep copy of the position (has no shared memory with this object)
func (p *Position) Clone() *Position {
	clone := *p
	return &clone
}

// Side to move
func (p *Position) Turn() Player {
	return p.turn
}

func (p *Position) At(row, col int) Player {
	return p.cells[row][col]
}

// Next free row in given column, negative if the column is full
func (p *Position) Height(col int) int {
	return int(p.height[col])
}

// Square of the last placed piece, false before any move
func (p *Position) LastMove() (Square, bool) {
	return p.last, p.hasLast
}

// Number of pieces on the board
func (p *Position) Plies() int {
	return int(p.plies)
}

func (p *Position) IsEmpty() bool {
	return p.plies == 0
}

// Drop the side to move's piece in given column
func (p *Position) MakeMove(m Move) error {
	if m < 0 || m >= Cols {
		return errors.Wrapf(ErrIllegalMove, "column %d out of range", m)
	}
	if p.winner != PlayerNone {
		return errors.Wrapf(ErrIllegalMove, "column %d, game already won by %v", m, p.winner)
	}
	if p.height[m] < 0 {
		return errors.Wrapf(ErrIllegalMove, "column %d is full", m)
	}

	p.play(m)
	return nil
}

// Unchecked move application
func (p *Position) play(m Move) {
	row := int(p.height[m])
	p.cells[row][m] = p.turn
	p.height[m]--
	p.last = Square{Row: row, Col: int(m)}
	p.hasLast = true
	p.plies++

	if int(p.moves) < MaxPlies {
		p.history[p.moves] = int8(m)
		p.moves++
	}

	// A new run can only go through the piece just placed
	if p.connects(p.last, p.turn, WinLength) {
		p.winner = p.turn
	}
	p.turn = p.turn.Opponent()
}

// Left-right mirror of this position, columns are mapped as col -> Cols-1-col
func (p *Position) Mirror() *Position {
	m := &Position{
		moves:   p.moves,
		plies:   p.plies,
		turn:    p.turn,
		hasLast: p.hasLast,
		winner:  p.winner,
		last:    Square{Row: p.last.Row, Col: Cols - 1 - p.last.Col},
	}

	for row := range Rows {
		for col := range Cols {
			m.cells[row][Cols-1-col] = p.cells[row][col]
		}
	}
	for col := range Cols {
		m.height[Cols-1-col] = p.height[col]
	}
	for i := range int(p.moves) {
		m.history[i] = int8(Cols-1) - p.history[i]
	}
	return m
}
