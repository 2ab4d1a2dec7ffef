package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/usecase"
)

type gameUseCase interface {
	CreateSession(ctx context.Context) (*usecase.GameView, error)
	StartNewGame(ctx context.Context, sessionID, firstPlayerName, secondPlayerName string) (*usecase.GameView, error)
	PlayRound(ctx context.Context, sessionID string) (*usecase.GameView, error)
	TakeTurn(ctx context.Context, sessionID string, cell int) (*usecase.TurnResult, error)
	GetGame(ctx context.Context, sessionID string) (*usecase.GameView, error)
	CloseSession(ctx context.Context, sessionID string) error
}

// NewRouter - builds the REST API for hot-seat sessions.
func NewRouter(logger *slog.Logger, allowedOrigins []string, games gameUseCase) http.Handler {
	handlers := newGameHandlers(logger, games)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/ping", PingHandler)

	router.Route("/sessions", func(r chi.Router) {
		r.Post("/", handlers.createSession)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", handlers.getGame)
			r.Delete("/", handlers.closeSession)
			r.Post("/game", handlers.startNewGame)
			r.Post("/round", handlers.playRound)
			r.Post("/turn", handlers.takeTurn)
		})
	})

	return router
}
