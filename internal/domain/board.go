package domain

import (
	"encoding/json"
	"fmt"
)

// Board is the 3x3 grid in row-major order.
type Board [Cells]Role

func NewBoard() Board {
	return Board{}
}

func InBounds(cell int) bool {
	return cell >= 0 && cell < Cells
}

// IsValidMove reports whether cell is on the board and still empty.
func IsValidMove(board Board, cell int) bool {
	if !InBounds(cell) {
		return false
	}
	return board[cell] == RoleNone
}

func IsBoardFull(board Board) bool {
	for _, cell := range board {
		if cell == RoleNone {
			return false
		}
	}
	return true
}

// MoveCount returns the number of occupied cells.
func MoveCount(board Board) int {
	count := 0
	for _, cell := range board {
		if cell != RoleNone {
			count++
		}
	}
	return count
}

// MarshalJSON encodes empty cells as null so clients can test truthiness.
func (b Board) MarshalJSON() ([]byte, error) {
	cells := make([]*Role, Cells)
	for i := range b {
		if b[i] != RoleNone {
			mark := b[i]
			cells[i] = &mark
		}
	}
	return json.Marshal(cells)
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var cells []*Role
	if err := json.Unmarshal(data, &cells); err != nil {
		return err
	}
	if len(cells) != Cells {
		return fmt.Errorf("board: expected %d cells, got %d", Cells, len(cells))
	}
	var out Board
	for i, cell := range cells {
		if cell == nil {
			continue
		}
		if !cell.Valid() {
			return fmt.Errorf("board: invalid mark %q at cell %d", *cell, i)
		}
		out[i] = *cell
	}
	*b = out
	return nil
}
