package websocket

import (
	"context"
	"errors"
	"fmt"
)

var (
	errSessionIDRequired = errors.New("session_id is required")
	errCellRequired      = errors.New("row and col are required")
	errSessionNotOwned   = errors.New("session was not started on this connection")
)

// handleStart creates a session for the connection, or restarts one the connection already owns.
func (that *Server) handleStart(ctx context.Context, client *client, req *RequestPayload) (ResponsePayload, error) {
	if req.SessionID != "" && !client.owns(req.SessionID) {
		return ResponsePayload{}, errSessionNotOwned
	}

	session, err := that.uGame.StartGame(ctx, req.SessionID)
	if err != nil {
		return ResponsePayload{}, fmt.Errorf("failed to start game: %w", err)
	}

	client.own(session.ID)

	return newSessionPayload(session), nil
}

func (that *Server) handleState(ctx context.Context, client *client, req *RequestPayload) (ResponsePayload, error) {
	if err := checkOwner(client, req); err != nil {
		return ResponsePayload{}, err
	}

	session, err := that.uGame.GetGame(ctx, req.SessionID)
	if err != nil {
		return ResponsePayload{}, fmt.Errorf("failed to get game: %w", err)
	}

	return newSessionPayload(session), nil
}

func (that *Server) handleMove(ctx context.Context, client *client, req *RequestPayload) (ResponsePayload, error) {
	if req.SessionID == "" {
		return ResponsePayload{}, errSessionIDRequired
	}

	if req.Row == nil || req.Col == nil {
		return ResponsePayload{}, errCellRequired
	}

	if err := checkOwner(client, req); err != nil {
		return ResponsePayload{}, err
	}

	session, result, err := that.uGame.MakeMove(ctx, req.SessionID, *req.Row, *req.Col)
	if err != nil {
		return ResponsePayload{}, fmt.Errorf("failed to make move: %w", err)
	}

	payload := newSessionPayload(session)
	payload.Result = result.Result

	// rejected moves are reported next to the unchanged session
	if rejected := result.Result.Err(); rejected != nil {
		payload.Error = rejected.Error()
	}

	return payload, nil
}

func (that *Server) handleReset(ctx context.Context, client *client, req *RequestPayload) (ResponsePayload, error) {
	if err := checkOwner(client, req); err != nil {
		return ResponsePayload{}, err
	}

	session, err := that.uGame.ResetGame(ctx, req.SessionID)
	if err != nil {
		return ResponsePayload{}, fmt.Errorf("failed to reset game: %w", err)
	}

	return newSessionPayload(session), nil
}

func (that *Server) handleLeave(ctx context.Context, client *client, req *RequestPayload) (ResponsePayload, error) {
	if err := checkOwner(client, req); err != nil {
		return ResponsePayload{}, err
	}

	if err := that.uGame.DeleteGame(ctx, req.SessionID); err != nil {
		return ResponsePayload{}, fmt.Errorf("failed to leave game: %w", err)
	}

	client.release(req.SessionID)

	return ResponsePayload{}, nil
}

func checkOwner(client *client, req *RequestPayload) error {
	if req.SessionID == "" {
		return errSessionIDRequired
	}

	if !client.owns(req.SessionID) {
		return errSessionNotOwned
	}

	return nil
}
