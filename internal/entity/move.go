package entity

import "github.com/rocketscienceinc/oxbingo-backend/internal/apperror"

// MoveResult tells whether ApplyMove accepted a move and, if not, why.
type MoveResult string

const (
	MoveAccepted           MoveResult = "accepted"
	MoveRejectedNotStarted MoveResult = "rejected_not_started"
	MoveRejectedTerminal   MoveResult = "rejected_terminal"
	MoveRejectedOutOfRange MoveResult = "rejected_out_of_range"
	MoveRejectedOccupied   MoveResult = "rejected_occupied"
)

func (that MoveResult) Accepted() bool {
	return that == MoveAccepted
}

// Err maps a rejected move to its sentinel error. Accepted moves return nil.
func (that MoveResult) Err() error {
	switch that {
	case MoveRejectedNotStarted:
		return apperror.ErrGameIsNotStarted
	case MoveRejectedTerminal:
		return apperror.ErrGameFinished
	case MoveRejectedOutOfRange:
		return apperror.ErrCellOutOfRange
	case MoveRejectedOccupied:
		return apperror.ErrCellOccupied
	default:
		return nil
	}
}
