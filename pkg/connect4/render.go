package connect4

import (
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// Piece colours, the last placed piece is additionally rendered in bold
const (
	PlayerOneColor = "#1E90FF"
	PlayerTwoColor = "#DC143C"
)

// Write the board to 'w', using given colour profile (termenv.Ascii disables colours)
func Render(w io.Writer, p *Position, profile termenv.Profile) error {
	_, err := io.WriteString(w, render(p, profile))
	return err
}

// Plain text board
func (p *Position) String() string {
	return render(p, termenv.Ascii)
}

func render(p *Position, profile termenv.Profile) string {
	builder := strings.Builder{}
	border := "+" + strings.Repeat("--", Cols) + "-+\n"

	builder.WriteString(border)
	for row := range Rows {
		builder.WriteString("|")
		for col := range Cols {
			builder.WriteByte(' ')
			builder.WriteString(cell(p, row, col, profile))
		}
		builder.WriteString(" |\n")
	}
	builder.WriteString(border)

	builder.WriteString(" ")
	for col := range Cols {
		builder.WriteByte(' ')
		builder.WriteByte(byte('1' + col))
	}
	builder.WriteString("\n")
	return builder.String()
}

func cell(p *Position, row, col int, profile termenv.Profile) string {
	piece := p.cells[row][col]
	style := profile.String(piece.String())

	switch piece {
	case PlayerOne:
		style = style.Foreground(profile.Color(PlayerOneColor))
	case PlayerTwo:
		style = style.Foreground(profile.Color(PlayerTwoColor))
	default:
		return style.String()
	}

	if p.hasLast && p.last.Row == row && p.last.Col == col {
		style = style.Bold()
	}
	return style.String()
}
