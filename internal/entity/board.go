package entity

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/oxbingo-backend/internal/apperror"
)

const (
	BoardSize = 4
	CellCount = BoardSize * BoardSize
)

// Cell is a single board position. The zero value is an empty cell.
type Cell string

const (
	EmptyCell Cell = ""
	MarkO     Cell = "O"
	MarkX     Cell = "X"
)

func (that Cell) IsEmpty() bool {
	return that == EmptyCell
}

func (that Cell) IsMark() bool {
	return that == MarkO || that == MarkX
}

var ErrBoardShape = fmt.Errorf("%w: board must be %d rows of %d cells", apperror.ErrInvalidBoard, BoardSize, BoardSize)

type Board [BoardSize][BoardSize]Cell

// UnmarshalJSON only accepts exactly BoardSize rows of BoardSize cells.
func (that *Board) UnmarshalJSON(data []byte) error {
	var rows [][]Cell
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("failed to unmarshal board: %w", err)
	}

	if len(rows) != BoardSize {
		return fmt.Errorf("%w: got %d rows", ErrBoardShape, len(rows))
	}

	var board Board

	for i, row := range rows {
		if len(row) != BoardSize {
			return fmt.Errorf("%w: row %d has %d cells", ErrBoardShape, i, len(row))
		}

		copy(board[i][:], row)
	}

	*that = board

	return nil
}

// InRange reports whether row and col address a cell of the board.
func InRange(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// Count returns how many cells hold the given value.
func (that *Board) Count(cell Cell) int {
	count := 0

	for _, row := range that {
		for _, c := range row {
			if c == cell {
				count++
			}
		}
	}

	return count
}

func (that *Board) IsFull() bool {
	return that.Count(EmptyCell) == 0
}
