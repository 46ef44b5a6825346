package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/oxbingo-backend/internal/apperror"
	"github.com/rocketscienceinc/oxbingo-backend/internal/entity"
)

type Handlers interface {
	GetSession(w http.ResponseWriter, r *http.Request)
	Metrics() http.Handler
}

type gameService interface {
	GetGame(ctx context.Context, id string) (*entity.Session, error)
}

type handlers struct {
	logger      *slog.Logger
	gameService gameService
	metrics     http.Handler
}

func NewHandlers(logger *slog.Logger, gameService gameService, metrics http.Handler) Handlers {
	return &handlers{
		logger:      logger.With("component", "rest"),
		gameService: gameService,
		metrics:     metrics,
	}
}

func (that *handlers) Metrics() http.Handler {
	return that.metrics
}

type sessionResponse struct {
	Session     *entity.Session `json:"session"`
	CurrentMark entity.Cell     `json:"current_mark,omitempty"`
}

func (that *handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "GetSession")

	session, err := that.gameService.GetGame(r.Context(), r.PathValue("id"))
	if errors.Is(err, apperror.ErrSessionNotFound) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	if err != nil {
		log.Error("failed to get session", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	resp := sessionResponse{Session: session}
	if session.IsInProgress() {
		resp.CurrentMark = session.CurrentMark()
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(resp); err != nil {
		log.Error("failed to encode session", "error", err)
	}
}
