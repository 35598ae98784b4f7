package connect4

import "strings"

// Fixed capacity list of moves, there can't be more than 'Cols' legal moves
type MoveList struct {
	Moves [Cols]Move
	Size  uint8
}

func NewMoveList() *MoveList {
	return &MoveList{}
}

func (ml *MoveList) Append(m Move) {
	ml.Moves[ml.Size] = m
	ml.Size++
}

// Get the actual slice of valid moves
func (ml *MoveList) Slice() []Move {
	return ml.Moves[:ml.Size]
}

func (ml *MoveList) Contains(m Move) bool {
	for _, mv := range ml.Slice() {
		if mv == m {
			return true
		}
	}
	return false
}

// Space separated, 1-based columns
func (ml *MoveList) String() string {
	if ml.Size == 0 {
		return "empty"
	}

	builder := strings.Builder{}
	for i, m := range ml.Slice() {
		if i > 0 {
			builder.WriteByte(' ')
		}
		builder.WriteByte(byte('1' + m))
	}
	return builder.String()
}
