package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/oxbingo-backend/internal/bingo"
	"github.com/rocketscienceinc/oxbingo-backend/internal/entity"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
	Update(ctx context.Context, id string, fn func(session *entity.Session) error) (*entity.Session, error)
}

type gameMetrics interface {
	GameStarted()
	Move(result entity.MoveResult, session *entity.Session)
}

type GameManager struct {
	logger  *slog.Logger
	metrics gameMetrics

	sessionRepo sessionRepo
}

func NewGameManager(logger *slog.Logger, sessionRepo sessionRepo, metrics gameMetrics) *GameManager {
	return &GameManager{
		logger:  logger.With("component", "game_manager"),
		metrics: metrics,

		sessionRepo: sessionRepo,
	}
}

// StartGame begins a game. An empty id creates a session under a fresh UUID. A non-empty id
// restarts that existing session; ids the server never issued are not found.
func (that *GameManager) StartGame(ctx context.Context, id string) (*entity.Session, error) {
	if id != "" {
		return that.restartGame(ctx, id)
	}

	session := entity.NewSession(uuid.NewString())
	session.Start()

	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	that.metrics.GameStarted()
	that.logger.Info("game started", "sessionID", session.ID)

	return session, nil
}

func (that *GameManager) restartGame(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.Update(ctx, id, func(session *entity.Session) error {
		session.Start()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to restart game: %w", err)
	}

	that.metrics.GameStarted()
	that.logger.Info("game restarted", "sessionID", id)

	return session, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return session, nil
}

// MakeMove plays the current mark at row, col. Illegal moves are not errors: they come back
// as a rejected result with the session unchanged.
func (that *GameManager) MakeMove(ctx context.Context, id string, row, col int) (*entity.Session, bingo.MoveResult, error) {
	log := that.logger.With("method", "MakeMove", "sessionID", id)

	var result bingo.MoveResult

	session, err := that.sessionRepo.Update(ctx, id, func(session *entity.Session) error {
		result = bingo.Play(session, row, col)
		return nil
	})
	if err != nil {
		return nil, bingo.MoveResult{}, fmt.Errorf("failed to make move: %w", err)
	}

	that.metrics.Move(result.Result, session)

	if !result.Result.Accepted() {
		log.Debug("move rejected", "row", row, "col", col, "result", result.Result)
		return session, result, nil
	}

	switch {
	case session.IsWon():
		log.Info("game won", "winner", session.Winner, "turn", session.TurnCount())
	case session.IsDrawn():
		log.Info("game drawn")
	}

	return session, result, nil
}

// ResetGame returns the session to not started.
func (that *GameManager) ResetGame(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.Update(ctx, id, func(session *entity.Session) error {
		session.Reset()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reset game: %w", err)
	}

	that.logger.Info("game reset", "sessionID", id)

	return session, nil
}

func (that *GameManager) DeleteGame(ctx context.Context, id string) error {
	if err := that.sessionRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game deleted", "sessionID", id)

	return nil
}
