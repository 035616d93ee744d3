package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
)

// Mark is the symbol a participant places on the board.
type Mark string

const (
	Empty  Mark = ""
	First  Mark = "X"
	Second Mark = "O"
)

// BoardSize is the number of cells on the 3x3 grid.
const BoardSize = 9

// WinCombos lists every line of three in evaluation order: rows, columns, diagonals.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board - 3x3 grid stored row by row.
type Board [BoardSize]Mark

// NewBoard - returns a board with every cell empty.
func NewBoard() Board {
	return Board{}
}

// ApplyMove - returns a copy of the board with mark placed on cell.
// The receiver is never modified, an occupied or out of range cell is rejected.
func (that Board) ApplyMove(cell int, mark Mark) (Board, error) {
	if cell < 0 || cell >= BoardSize {
		return that, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if that[cell] != Empty {
		return that, fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	that[cell] = mark

	return that, nil
}

// EvaluateWinner - returns the mark of the first completed line or Empty.
func (that Board) EvaluateWinner() Mark {
	for _, combo := range WinCombos {
		a, b, c := that[combo[0]], that[combo[1]], that[combo[2]]
		if a != Empty && a == b && b == c {
			return a
		}
	}

	return Empty
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == Empty {
			return false
		}
	}

	return true
}

// Count - number of occupied cells.
func (that Board) Count() int {
	var n int
	for _, cell := range that {
		if cell != Empty {
			n++
		}
	}

	return n
}
