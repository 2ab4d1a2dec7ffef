package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/tictactoe"
)

var tracer = otel.Tracer("github.com/rocketscienceinc/tictactoe-hotseat/internal/usecase")

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameManager runs one hot-seat game per session, restoring the controller for every call.
type GameManager struct {
	logger      *slog.Logger
	sessionRepo sessionRepo
	locks       *sessionLock
}

func NewGameManager(logger *slog.Logger, sessionRepo sessionRepo) *GameManager {
	return &GameManager{
		logger:      logger.With("component", "game_manager"),
		sessionRepo: sessionRepo,
		locks:       newSessionLock(),
	}
}

func (that *GameManager) CreateSession(ctx context.Context) (_ *GameView, err error) {
	ctx, span := tracer.Start(ctx, "GameManager.CreateSession")
	defer func() { endSpan(span, err) }()

	session := entity.NewSession(uuid.NewString())
	span.SetAttributes(attribute.String("session.id", session.ID))

	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	controller, err := tictactoe.Restore(session.Game)
	if err != nil {
		return nil, fmt.Errorf("failed to restore game: %w", err)
	}

	that.logger.Info("session created", "session_id", session.ID)

	return newGameView(session.ID, controller), nil
}

func (that *GameManager) StartNewGame(ctx context.Context, sessionID, firstPlayerName, secondPlayerName string) (_ *GameView, err error) {
	ctx, span := tracer.Start(ctx, "GameManager.StartNewGame", trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer func() { endSpan(span, err) }()

	var view *GameView
	err = that.withSession(ctx, sessionID, func(controller *tictactoe.GameController) error {
		if err := controller.StartNewGame(firstPlayerName, secondPlayerName); err != nil {
			return fmt.Errorf("failed to start new game: %w", err)
		}

		view = newGameView(sessionID, controller)

		return nil
	})
	if err != nil {
		return nil, err
	}

	that.logger.Info("new game started", "session_id", sessionID, "first_player", firstPlayerName, "second_player", secondPlayerName)

	return view, nil
}

func (that *GameManager) PlayRound(ctx context.Context, sessionID string) (_ *GameView, err error) {
	ctx, span := tracer.Start(ctx, "GameManager.PlayRound", trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer func() { endSpan(span, err) }()

	var view *GameView
	err = that.withSession(ctx, sessionID, func(controller *tictactoe.GameController) error {
		if err := controller.PlayRound(); err != nil {
			return fmt.Errorf("failed to play round: %w", err)
		}

		view = newGameView(sessionID, controller)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}

func (that *GameManager) TakeTurn(ctx context.Context, sessionID string, cell int) (_ *TurnResult, err error) {
	ctx, span := tracer.Start(ctx, "GameManager.TakeTurn", trace.WithAttributes(
		attribute.String("session.id", sessionID),
		attribute.Int("turn.cell", cell),
	))
	defer func() { endSpan(span, err) }()

	log := that.logger.With("method", "TakeTurn", "session_id", sessionID)

	result := &TurnResult{}
	err = that.withSession(ctx, sessionID, func(controller *tictactoe.GameController) error {
		controller.OnRoundEnded(func(roundResult entity.RoundResult) {
			result.RoundEnded = &roundResult
			log.Info("round ended", "message", roundResult.Message, "winner", roundResult.WinnerName)
		})

		mark, err := controller.TakeTurn(cell)
		if err != nil {
			return fmt.Errorf("failed to make turn: %w", err)
		}

		result.Mark = mark
		result.Accepted = !mark.IsEmpty()
		result.Game = newGameView(sessionID, controller)

		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Bool("turn.accepted", result.Accepted))

	return result, nil
}

func (that *GameManager) GetGame(ctx context.Context, sessionID string) (_ *GameView, err error) {
	ctx, span := tracer.Start(ctx, "GameManager.GetGame", trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer func() { endSpan(span, err) }()

	unlock := that.locks.Lock(sessionID)
	defer unlock()

	controller, err := that.loadController(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return newGameView(sessionID, controller), nil
}

func (that *GameManager) CloseSession(ctx context.Context, sessionID string) (err error) {
	ctx, span := tracer.Start(ctx, "GameManager.CloseSession", trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer func() { endSpan(span, err) }()

	unlock := that.locks.Lock(sessionID)
	defer unlock()

	if err = that.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	that.logger.Info("session closed", "session_id", sessionID)

	return nil
}

// withSession - loads the session, applies fn and stores the result unless fn failed.
func (that *GameManager) withSession(ctx context.Context, sessionID string, fn func(controller *tictactoe.GameController) error) error {
	unlock := that.locks.Lock(sessionID)
	defer unlock()

	controller, err := that.loadController(ctx, sessionID)
	if err != nil {
		return err
	}

	if err = fn(controller); err != nil {
		return err
	}

	session := &entity.Session{
		ID:   sessionID,
		Game: controller.Snapshot(),
	}

	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return nil
}

func (that *GameManager) loadController(ctx context.Context, sessionID string) (*tictactoe.GameController, error) {
	session, err := that.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	controller, err := tictactoe.Restore(session.Game)
	if err != nil {
		return nil, fmt.Errorf("failed to restore game: %w", err)
	}

	return controller, nil
}

func newGameView(sessionID string, controller *tictactoe.GameController) *GameView {
	view := &GameView{
		SessionID: sessionID,
		Board:     controller.Cells(),
		Status:    controller.State().Status,
	}

	if mark, ok := controller.ActivePlayerMark(); ok {
		view.ActiveMark = mark
	}

	if players, ok := controller.PlayersSummary(); ok {
		view.Players = players
	}

	if result, ok := controller.RoundResult(); ok {
		view.Result = &result
	}

	return view
}

// endSpan - expected game errors are not span failures.
func endSpan(span trace.Span, err error) {
	if err != nil && !isClientError(err) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	span.End()
}

func isClientError(err error) bool {
	return errors.Is(err, apperror.ErrSessionNotFound) ||
		errors.Is(err, apperror.ErrInvalidCell) ||
		errors.Is(err, apperror.ErrNoPlayers)
}
