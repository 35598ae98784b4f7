package connect4

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const StartingPosition string = "7/7/7/7/7/7 x"

// String notation of the board, much like chess FEN:
//
//	<row>/<row>/<row>/<row>/<row>/<row> <turn>
//
// Rows go from the top to the bottom, 'x' is PlayerOne's piece, 'o' PlayerTwo's,
// a digit skips that many empty cells. <turn> is either 'x' or 'o'.
//
// Examples:
//
// * 7/7/7/7/7/7 x
//
// * 7/7/7/7/3o3/2xxo2 x
func (p *Position) Notation() string {
	builder := strings.Builder{}

	for row := range Rows {
		counter := 0
		for col := range Cols {
			piece := p.cells[row][col]
			if piece == PlayerNone {
				counter++
				continue
			}

			if counter > 0 {
				builder.WriteString(strconv.Itoa(counter))
				counter = 0
			}
			builder.WriteString(piece.String())
		}

		if counter > 0 {
			builder.WriteString(strconv.Itoa(counter))
		}
		if row != Rows-1 {
			builder.WriteByte('/')
		}
	}

	builder.WriteByte(' ')
	builder.WriteString(p.turn.String())
	return builder.String()
}

// Create the position from given notation string
func FromNotation(notation string) (*Position, error) {
	pos := NewPosition()
	return pos, pos.FromNotation(notation)
}

// Load the position from given notation, on error the position is left empty
func (p *Position) FromNotation(notation string) error {
	p.Init()
	if notation == "startpos" {
		return nil
	}

	if err := fromNotation(p, notation); err != nil {
		p.Init()
		return err
	}
	return nil
}

func fromNotation(pos *Position, notation string) error {
	fields := strings.Fields(notation)
	if len(fields) != 2 {
		return errors.Wrapf(ErrBadNotation, "expected board and turn sections, got %q", notation)
	}

	rows := strings.Split(fields[0], "/")
	if len(rows) != Rows {
		return errors.Wrapf(ErrBadNotation, "expected %d rows, got %d", Rows, len(rows))
	}

	counts := [3]int{}
	for row, str := range rows {
		col := 0
		for i, v := range str {
			switch {
			case v == 'x' || v == 'o':
				if col >= Cols {
					return errors.Wrapf(ErrBadNotation, "row %d is too wide", row)
				}
				piece := PlayerOne
				if v == 'o' {
					piece = PlayerTwo
				}
				pos.cells[row][col] = piece
				counts[piece]++
				col++
			case '1' <= v && v <= '9':
				col += int(v - '0')
			default:
				return errors.Wrapf(ErrBadNotation, "unexpected token %q in row %d at %d", v, row, i)
			}
		}

		if col != Cols {
			return errors.Wrapf(ErrBadNotation, "row %d has %d cells, expected %d", row, col, Cols)
		}
	}

	switch fields[1] {
	case "x":
		pos.turn = PlayerOne
	case "o":
		pos.turn = PlayerTwo
	default:
		return errors.Wrapf(ErrBadNotation, "invalid side %q", fields[1])
	}

	// PlayerOne always starts, so the piece counts decide whose turn it is
	ones, twos := counts[PlayerOne], counts[PlayerTwo]
	if (pos.turn == PlayerOne && ones != twos) || (pos.turn == PlayerTwo && ones != twos+1) {
		return errors.Wrapf(ErrBadNotation, "piece counts x=%d o=%d don't match side %v", ones, twos, pos.turn)
	}

	// Pieces fall down, there can't be an empty cell below a piece
	for col := range Cols {
		pos.height[col] = -1
		for row := Rows - 1; row >= 0; row-- {
			if pos.cells[row][col] != PlayerNone {
				continue
			}
			if pos.height[col] == -1 {
				pos.height[col] = int8(row)
			}
			for above := row - 1; above >= 0; above-- {
				if pos.cells[above][col] != PlayerNone {
					return errors.Wrapf(ErrBadNotation, "floating piece at row %d column %d", above, col)
				}
			}
			break
		}
	}

	pos.plies = uint8(ones + twos)
	pos.winner = pos.scanWinner()
	if pos.winner != PlayerNone {
		if pos.winner.Opponent() != pos.turn {
			return errors.Wrapf(ErrBadNotation, "%v won, but it's %v's turn", pos.winner, pos.turn)
		}
		// Both sides can't have a completed run
		if pos.scanRuns(pos.turn) {
			return errors.Wrap(ErrBadNotation, "both players have a winning run")
		}
	}
	return nil
}

// Whether given player has any completed run on the board
func (p *Position) scanRuns(player Player) bool {
	for row := range Rows {
		for col := range Cols {
			if p.cells[row][col] == player && p.connects(Square{row, col}, player, WinLength) {
				return true
			}
		}
	}
	return false
}

// Play a sequence of 1-based columns, like "4453", from the starting position
func FromMoves(moves string) (*Position, error) {
	pos := NewPosition()
	for i, v := range moves {
		if v < '1' || v > '0'+Cols {
			return nil, errors.Wrapf(ErrBadNotation, "invalid column %q at %d", v, i)
		}
		if err := pos.MakeMove(Move(v - '1')); err != nil {
			return nil, errors.WithMessagef(err, "move %d", i+1)
		}
	}
	return pos, nil
}

// Moves played on this position object, as 1-based columns
func (p *Position) Moves() string {
	builder := strings.Builder{}
	for i := range int(p.moves) {
		builder.WriteByte(byte('1' + p.history[i]))
	}
	return builder.String()
}
