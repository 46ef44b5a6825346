package bingo

import (
	"fmt"

	"github.com/rocketscienceinc/oxbingo-backend/internal/apperror"
	"github.com/rocketscienceinc/oxbingo-backend/internal/entity"
)

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type Line struct {
	Name  string                     `json:"name"`
	Cells [entity.BoardSize]Position `json:"cells"`
}

// Outcome of evaluating a board. Winner is EmptyCell while nobody has won.
type Outcome struct {
	Winner entity.Cell `json:"winner"`
	Line   *Line       `json:"line,omitempty"`
}

func (that Outcome) HasWinner() bool {
	return that.Winner.IsMark()
}

// Lines lists every line in evaluation order: row i then column i for each i, then the two diagonals.
var Lines = buildLines()

func buildLines() []Line {
	lines := make([]Line, 0, 2*entity.BoardSize+2)

	for i := range entity.BoardSize {
		row := Line{Name: fmt.Sprintf("row-%d", i)}
		col := Line{Name: fmt.Sprintf("column-%d", i)}

		for j := range entity.BoardSize {
			row.Cells[j] = Position{Row: i, Col: j}
			col.Cells[j] = Position{Row: j, Col: i}
		}

		lines = append(lines, row, col)
	}

	diagonal := Line{Name: "diagonal"}
	antiDiagonal := Line{Name: "anti-diagonal"}

	for i := range entity.BoardSize {
		diagonal.Cells[i] = Position{Row: i, Col: i}
		antiDiagonal.Cells[i] = Position{Row: i, Col: entity.BoardSize - 1 - i}
	}

	return append(lines, diagonal, antiDiagonal)
}

// owner returns the mark filling the whole line, or EmptyCell.
func (that *Line) owner(board *entity.Board) entity.Cell {
	first := board[that.Cells[0].Row][that.Cells[0].Col]
	if !first.IsMark() {
		return entity.EmptyCell
	}

	for _, pos := range that.Cells[1:] {
		if board[pos.Row][pos.Col] != first {
			return entity.EmptyCell
		}
	}

	return first
}

// Evaluate returns the owner of the first complete line. It does not look at turn count,
// so a full board without a line is reported as no winner.
func Evaluate(board entity.Board) Outcome {
	for i := range Lines {
		if winner := Lines[i].owner(&board); winner != entity.EmptyCell {
			line := Lines[i]
			return Outcome{Winner: winner, Line: &line}
		}
	}

	return Outcome{Winner: entity.EmptyCell}
}

// WinningLines returns every complete line on the board.
func WinningLines(board entity.Board) []Line {
	var lines []Line

	for i := range Lines {
		if Lines[i].owner(&board) != entity.EmptyCell {
			lines = append(lines, Lines[i])
		}
	}

	return lines
}

// Validate rejects boards that alternating play starting with O cannot produce.
func Validate(board entity.Board) error {
	countO, countX := board.Count(entity.MarkO), board.Count(entity.MarkX)

	if countO+countX+board.Count(entity.EmptyCell) != entity.CellCount {
		return fmt.Errorf("%w: unknown cell value", apperror.ErrInvalidBoard)
	}

	if countO != countX && countO != countX+1 {
		return fmt.Errorf("%w: %d O marks and %d X marks", apperror.ErrInvalidBoard, countO, countX)
	}

	var winner entity.Cell
	for _, line := range WinningLines(board) {
		owner := line.owner(&board)
		if winner != entity.EmptyCell && owner != winner {
			return fmt.Errorf("%w: both marks complete a line", apperror.ErrInvalidBoard)
		}

		winner = owner
	}

	return nil
}
