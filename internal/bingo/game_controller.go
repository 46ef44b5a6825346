package bingo

import (
	"fmt"

	"github.com/rocketscienceinc/oxbingo-backend/internal/apperror"
	"github.com/rocketscienceinc/oxbingo-backend/internal/entity"
)

var ErrStaleStatus = fmt.Errorf("%w: status does not match board", apperror.ErrInvalidBoard)

// Play applies one move to the session and updates its status from the resulting board.
// Rejected moves leave the session untouched.
func Play(session *entity.Session, row, col int) MoveResult {
	result := session.ApplyMove(row, col)
	if !result.Accepted() {
		return MoveResult{Result: result}
	}

	outcome := updateGameStatus(session)

	return MoveResult{Result: result, Outcome: outcome}
}

// MoveResult pairs the verdict on a move with the board outcome it produced.
type MoveResult struct {
	Result  entity.MoveResult
	Outcome Outcome
}

// updateGameStatus - checks the board after an accepted move.
func updateGameStatus(session *entity.Session) Outcome {
	outcome := Evaluate(session.Board)

	switch {
	case outcome.HasWinner():
		session.Finish(outcome.Winner)
	case session.TurnCount() == entity.CellCount:
		session.Draw()
	}

	return outcome
}

// CheckSession validates a session loaded from outside, board included.
func CheckSession(session *entity.Session) error {
	if err := session.Check(); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidBoard, err)
	}

	if err := Validate(session.Board); err != nil {
		return err
	}

	if session.IsNotStarted() && session.TurnCount() != 0 {
		return ErrStaleStatus
	}

	outcome := Evaluate(session.Board)
	if session.IsInProgress() && (outcome.HasWinner() || session.Board.IsFull()) {
		return ErrStaleStatus
	}

	if session.IsWon() && outcome.Winner != session.Winner {
		return ErrStaleStatus
	}

	if session.IsDrawn() && (outcome.HasWinner() || !session.Board.IsFull()) {
		return ErrStaleStatus
	}

	return nil
}
