package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/oxbingo-backend/internal/bingo"
	"github.com/rocketscienceinc/oxbingo-backend/internal/entity"
)

const (
	actionStart = "game:start"
	actionState = "game:state"
	actionMove  = "game:move"
	actionReset = "game:reset"
	actionLeave = "game:leave"
	actionError = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	SessionID string `json:"session_id"`
	Row       *int   `json:"row,omitempty"`
	Col       *int   `json:"col,omitempty"`
}

// ResponsePayload is everything a client needs to redraw the game after one action.
type ResponsePayload struct {
	Session      *entity.Session   `json:"session,omitempty"`
	CurrentMark  entity.Cell       `json:"current_mark,omitempty"`
	Result       entity.MoveResult `json:"result,omitempty"`
	WinningLines []bingo.Line      `json:"winning_lines,omitempty"`
	Error        string            `json:"error,omitempty"`
}

func newSessionPayload(session *entity.Session) ResponsePayload {
	payload := ResponsePayload{Session: session}

	if session.IsInProgress() {
		payload.CurrentMark = session.CurrentMark()
	}

	if session.IsWon() {
		payload.WinningLines = bingo.WinningLines(session.Board)
	}

	return payload
}
