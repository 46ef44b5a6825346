package entity

import (
	"errors"
	"fmt"
)

const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusWon        = "won"
	StatusDrawn      = "drawn"
)

var (
	ErrUnknownSessionStatus = errors.New("unknown session status")
	ErrUnknownCellValue     = errors.New("unknown cell value")
)

// Session is the whole mutable state of one game.
type Session struct {
	ID     string `json:"id"`
	Board  Board  `json:"board"`
	Turn   int    `json:"turn"`
	Status string `json:"status"`
	Winner Cell   `json:"winner,omitempty"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:     id,
		Status: StatusNotStarted,
	}
}

// Start discards whatever the session held and begins a new game.
func (that *Session) Start() {
	*that = Session{
		ID:     that.ID,
		Status: StatusInProgress,
	}
}

// Reset returns the session to the state it had before the first Start.
func (that *Session) Reset() {
	*that = *NewSession(that.ID)
}

// CurrentMark returns the mark that plays on the current turn: O on even turns, X on odd ones.
func (that *Session) CurrentMark() Cell {
	if that.Turn%2 == 0 {
		return MarkO
	}

	return MarkX
}

// ApplyMove places the current mark at row, col. Illegal moves leave the session untouched.
// The caller is responsible for evaluating the board afterwards.
func (that *Session) ApplyMove(row, col int) MoveResult {
	switch {
	case that.IsNotStarted():
		return MoveRejectedNotStarted
	case that.IsTerminal():
		return MoveRejectedTerminal
	case !that.IsInProgress():
		return MoveRejectedNotStarted
	case !InRange(row, col):
		return MoveRejectedOutOfRange
	case !that.Board[row][col].IsEmpty():
		return MoveRejectedOccupied
	}

	that.Board[row][col] = that.CurrentMark()
	that.Turn++

	return MoveAccepted
}

// Finish marks the session as won by mark.
func (that *Session) Finish(mark Cell) {
	that.Status = StatusWon
	that.Winner = mark
}

// Draw marks the session as drawn.
func (that *Session) Draw() {
	that.Status = StatusDrawn
	that.Winner = EmptyCell
}

func (that *Session) TurnCount() int {
	return that.Turn
}

// Cells returns a copy of the board.
func (that *Session) Cells() Board {
	return that.Board
}

func (that *Session) IsNotStarted() bool {
	return that.Status == StatusNotStarted
}

func (that *Session) IsInProgress() bool {
	return that.Status == StatusInProgress
}

func (that *Session) IsWon() bool {
	return that.Status == StatusWon
}

func (that *Session) IsDrawn() bool {
	return that.Status == StatusDrawn
}

func (that *Session) IsTerminal() bool {
	return that.IsWon() || that.IsDrawn()
}

// Check validates the fields a stored session must satisfy regardless of the board contents.
func (that *Session) Check() error {
	switch that.Status {
	case StatusNotStarted, StatusInProgress, StatusWon, StatusDrawn:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSessionStatus, that.Status)
	}

	if that.Turn < 0 || that.Turn > CellCount {
		return fmt.Errorf("turn %d out of range", that.Turn)
	}

	filled := that.Board.Count(MarkO) + that.Board.Count(MarkX)
	if filled+that.Board.Count(EmptyCell) != CellCount {
		return ErrUnknownCellValue
	}

	if that.Turn != filled {
		return fmt.Errorf("turn %d does not match %d filled cells", that.Turn, filled)
	}

	if that.IsWon() != that.Winner.IsMark() {
		return fmt.Errorf("winner %q does not match status %s", that.Winner, that.Status)
	}

	return nil
}
