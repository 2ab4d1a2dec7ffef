package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/validator"
	"github.com/rocketscienceinc/tictactoe-hotseat/transport/dto"
)

const maxBodyBytes = 1 << 12

type errorResponse struct {
	Error string `json:"error"`
}

type gameHandlers struct {
	logger *slog.Logger
	games  gameUseCase
}

func newGameHandlers(logger *slog.Logger, games gameUseCase) *gameHandlers {
	return &gameHandlers{
		logger: logger.With("component", "rest"),
		games:  games,
	}
}

func (that *gameHandlers) createSession(w http.ResponseWriter, r *http.Request) {
	view, err := that.games.CreateSession(r.Context())
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, view)
}

func (that *gameHandlers) getGame(w http.ResponseWriter, r *http.Request) {
	view, err := that.games.GetGame(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, view)
}

func (that *gameHandlers) closeSession(w http.ResponseWriter, r *http.Request) {
	if err := that.games.CloseSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		that.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *gameHandlers) startNewGame(w http.ResponseWriter, r *http.Request) {
	var request dto.NewGameRequest
	if err := decodeRequest(w, r, &request); err != nil {
		that.writeError(w, r, err)
		return
	}

	view, err := that.games.StartNewGame(r.Context(), chi.URLParam(r, "sessionID"), request.FirstPlayer, request.SecondPlayer)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, view)
}

func (that *gameHandlers) playRound(w http.ResponseWriter, r *http.Request) {
	view, err := that.games.PlayRound(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, view)
}

func (that *gameHandlers) takeTurn(w http.ResponseWriter, r *http.Request) {
	var request dto.TurnRequest
	if err := decodeRequest(w, r, &request); err != nil {
		that.writeError(w, r, err)
		return
	}

	result, err := that.games.TakeTurn(r.Context(), chi.URLParam(r, "sessionID"), *request.Cell)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, result)
}

func (that *gameHandlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func (that *gameHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		that.writeJSON(w, status, errorResponse{Error: http.StatusText(status)})
		return
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, validator.ErrInvalidRequest), errors.Is(err, apperror.ErrInvalidCell):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrNoPlayers):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func decodeRequest(w http.ResponseWriter, r *http.Request, request any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(request); err != nil {
		return fmt.Errorf("%w: %w", validator.ErrInvalidRequest, err)
	}

	return validator.Struct(request)
}
