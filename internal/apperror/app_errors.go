package apperror

import "errors"

var (
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrCellOutOfRange   = errors.New("cell is out of range")
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidBoard     = errors.New("invalid board")
	ErrUnknownAction    = errors.New("unknown action")
)
