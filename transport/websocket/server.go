package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/oxbingo-backend/internal/bingo"
	"github.com/rocketscienceinc/oxbingo-backend/internal/entity"
)

const (
	maxMessageSize  = 4096
	writeWait       = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

type uGame interface {
	StartGame(ctx context.Context, id string) (*entity.Session, error)
	GetGame(ctx context.Context, id string) (*entity.Session, error)
	MakeMove(ctx context.Context, id string, row, col int) (*entity.Session, bingo.MoveResult, error)
	ResetGame(ctx context.Context, id string) (*entity.Session, error)
	DeleteGame(ctx context.Context, id string) error
}

type handler func(ctx context.Context, client *client, req *RequestPayload) (ResponsePayload, error)

type Server struct {
	logger   *slog.Logger
	uGame    uGame
	upgrader websocket.Upgrader

	handlers map[string]handler
}

func New(logger *slog.Logger, uGame uGame) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		uGame:  uGame,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},

		handlers: make(map[string]handler),
	}

	server.handlers[actionStart] = server.handleStart
	server.handlers[actionState] = server.handleState
	server.handlers[actionMove] = server.handleMove
	server.handlers[actionReset] = server.handleReset
	server.handlers[actionLeave] = server.handleLeave

	return server
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(ctx),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})

	return mux
}

// serveConnection - upgrades the connection and answers its messages one at a time.
func (that *Server) serveConnection(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveConnection", "remote", req.RemoteAddr)

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)

	client := newClient(conn)
	if err = client.watchReads(); err != nil {
		log.Error("failed to set read deadline", "error", err)
		return
	}

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go client.keepAlive(connCtx)

	log.Info("WebSocket connection established")

	if err = that.handleMessages(connCtx, client); err != nil {
		log.Info("WebSocket connection closed", "reason", err)
	}
}

// handleMessages - processes messages from the client until it disconnects or ctx is done.
func (that *Server) handleMessages(ctx context.Context, client *client) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, reqBody, err := client.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("server shutting down: %w", ctx.Err())
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		response := that.process(ctx, client, reqBody)

		if err = that.sendMessage(client.conn, response); err != nil {
			return err
		}

		log.Debug("message processed", "action", response.Action)
	}
}

func (that *Server) process(ctx context.Context, client *client, reqBody []byte) Message {
	log := that.logger.With("method", "process")

	var message Message
	if err := json.Unmarshal(reqBody, &message); err != nil {
		log.Warn("failed to unmarshal message", "error", err)
		return errorMessage(actionError, "malformed message")
	}

	handle, ok := that.handlers[message.Action]
	if !ok {
		log.Warn("unknown action", "action", message.Action)
		return errorMessage(message.Action, "unknown action")
	}

	var req RequestPayload
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &req); err != nil {
			log.Warn("failed to unmarshal payload", "action", message.Action, "error", err)
			return errorMessage(message.Action, "malformed payload")
		}
	}

	payload, err := handle(ctx, client, &req)
	if err != nil {
		log.Error("error processing message", "action", message.Action, "error", err)
		payload.Error = err.Error()
	}

	return Message{Action: message.Action, Payload: mustMarshal(payload)}
}

func (that *Server) sendMessage(conn *websocket.Conn, message Message) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := conn.WriteJSON(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func errorMessage(action, errorMsg string) Message {
	return Message{Action: action, Payload: mustMarshal(ResponsePayload{Error: errorMsg})}
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}

	return b
}
