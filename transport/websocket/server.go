package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	ws "github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/usecase"
)

const maxMessageBytes = 1 << 12

type uGame interface {
	CreateSession(ctx context.Context) (*usecase.GameView, error)
	StartNewGame(ctx context.Context, sessionID, firstPlayerName, secondPlayerName string) (*usecase.GameView, error)
	PlayRound(ctx context.Context, sessionID string) (*usecase.GameView, error)
	TakeTurn(ctx context.Context, sessionID string, cell int) (*usecase.TurnResult, error)
	GetGame(ctx context.Context, sessionID string) (*usecase.GameView, error)
	CloseSession(ctx context.Context, sessionID string) error
}

type handlerFunc func(ctx context.Context, conn *connection, message *Message) error

// Server gives every socket connection its own session that lives as long as the connection.
type Server struct {
	logger   *slog.Logger
	uGame    uGame
	upgrader ws.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, uGame uGame, allowedOrigins []string) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		uGame:  uGame,
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionGameNew] = server.handleNewGame
	server.handlers[actionGameRound] = server.handlePlayRound
	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionGameState] = server.handleGameState

	return server
}

// Handler - returns the mux serving the socket endpoint at /ws.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.upgradeToWebSocket)

	return mux
}

// upgradeToWebSocket - upgrades the connection and runs its session until the client leaves.
func (that *Server) upgradeToWebSocket(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	wsConn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer wsConn.Close()

	wsConn.SetReadLimit(maxMessageBytes)

	ctx := req.Context()

	view, err := that.uGame.CreateSession(ctx)
	if err != nil {
		log.Error("failed to create session", "error", err)
		return
	}

	conn := &connection{ws: wsConn, sessionID: view.SessionID}
	log = log.With("session_id", conn.sessionID)

	defer func() {
		if err := that.uGame.CloseSession(context.WithoutCancel(ctx), conn.sessionID); err != nil {
			log.Error("failed to close session", "error", err)
		}
	}()

	if err = conn.send(actionSessionCreated, ResponsePayload{Game: view}); err != nil {
		log.Error("failed to send session", "error", err)
		return
	}

	log.Info("WebSocket connection established")

	if err = that.handleMessages(ctx, conn); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client until it disconnects.
func (that *Server) handleMessages(ctx context.Context, conn *connection) error {
	log := that.logger.With("method", "handleMessages", "session_id", conn.sessionID)

	for {
		_, reqBody, err := conn.ws.ReadMessage()
		if err != nil {
			if ws.IsUnexpectedCloseError(err, ws.CloseNormalClosure, ws.CloseGoingAway, ws.CloseNoStatusReceived) {
				return fmt.Errorf("failed to read message: %w", err)
			}

			log.Info("WebSocket connection closed")

			return nil
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)

			if err = conn.sendError("", "malformed message"); err != nil {
				return err
			}

			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)

			if err = conn.sendError(message.Action, "unknown action"); err != nil {
				return err
			}

			continue
		}

		if err = handler(ctx, conn, &message); err != nil {
			return fmt.Errorf("failed to reply to %s: %w", message.Action, err)
		}
	}
}

func checkOrigin(allowedOrigins []string) func(r *http.Request) bool {
	if slices.Contains(allowedOrigins, "*") {
		return func(*http.Request) bool { return true }
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowedOrigins, origin)
	}
}
