package connect4

import "github.com/pkg/errors"

// Board geometry, the win detection itself only depends on WinLength
const (
	Rows         = 6
	Cols         = 7
	WinLength    = 4
	CenterColumn = Cols / 2
	MaxPlies     = Rows * Cols
)

type Player uint8
type Outcome uint8

// Move is a column index, MoveNone means "no move"
type Move int

const MoveNone Move = -1

// Enum for the players (and cell occupancy)
const (
	PlayerNone Player = iota
	PlayerOne
	PlayerTwo
)

// Final result of the game, codes are stable and may be stored by drivers
const (
	OutcomeNone          Outcome = 0
	OutcomePlayerOneWins Outcome = 1
	OutcomePlayerTwoWins Outcome = 2
	OutcomeDraw          Outcome = 3
)

var (
	ErrIllegalMove   = errors.New("illegal move")
	ErrNotTerminated = errors.New("game is not over")
	ErrBadNotation   = errors.New("invalid notation")
)

// Square on the board, row 0 is the top one
type Square struct {
	Row int
	Col int
}

func (p Player) Opponent() Player {
	switch p {
	case PlayerOne:
		return PlayerTwo
	case PlayerTwo:
		return PlayerOne
	}
	return PlayerNone
}

func (p Player) String() string {
	switch p {
	case PlayerOne:
		return "x"
	case PlayerTwo:
		return "o"
	}
	return "."
}

// Outcome won by given player
func WinOutcome(p Player) Outcome {
	switch p {
	case PlayerOne:
		return OutcomePlayerOneWins
	case PlayerTwo:
		return OutcomePlayerTwoWins
	}
	return OutcomeNone
}

func (o Outcome) String() string {
	switch o {
	case OutcomePlayerOneWins:
		return "PlayerOneWins"
	case OutcomePlayerTwoWins:
		return "PlayerTwoWins"
	case OutcomeDraw:
		return "Draw"
	}
	return "None"
}

// Mirrored column (left-right)
func (m Move) Mirror() Move {
	if m < 0 || m >= Cols {
		return m
	}
	return Cols - 1 - m
}
