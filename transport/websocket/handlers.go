package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/validator"
	"github.com/rocketscienceinc/tictactoe-hotseat/transport/dto"
)

func (that *Server) handleNewGame(ctx context.Context, conn *connection, msg *Message) error {
	var request dto.NewGameRequest
	if err := decodePayload(msg, &request); err != nil {
		return that.replyError(conn, msg.Action, err)
	}

	game, err := that.uGame.StartNewGame(ctx, conn.sessionID, request.FirstPlayer, request.SecondPlayer)
	if err != nil {
		return that.replyError(conn, msg.Action, err)
	}

	return conn.send(msg.Action, ResponsePayload{Game: game})
}

func (that *Server) handlePlayRound(ctx context.Context, conn *connection, msg *Message) error {
	game, err := that.uGame.PlayRound(ctx, conn.sessionID)
	if err != nil {
		return that.replyError(conn, msg.Action, err)
	}

	return conn.send(msg.Action, ResponsePayload{Game: game})
}

func (that *Server) handleGameTurn(ctx context.Context, conn *connection, msg *Message) error {
	var request dto.TurnRequest
	if err := decodePayload(msg, &request); err != nil {
		return that.replyError(conn, msg.Action, err)
	}

	turn, err := that.uGame.TakeTurn(ctx, conn.sessionID, *request.Cell)
	if err != nil {
		return that.replyError(conn, msg.Action, err)
	}

	if err = conn.send(msg.Action, ResponsePayload{Turn: turn}); err != nil {
		return err
	}

	if turn.RoundEnded == nil {
		return nil
	}

	return conn.send(actionRoundEnded, ResponsePayload{Result: turn.RoundEnded, Game: turn.Game})
}

func (that *Server) handleGameState(ctx context.Context, conn *connection, msg *Message) error {
	game, err := that.uGame.GetGame(ctx, conn.sessionID)
	if err != nil {
		return that.replyError(conn, msg.Action, err)
	}

	return conn.send(msg.Action, ResponsePayload{Game: game})
}

// replyError - tells the client what went wrong; unexpected errors are logged and hidden.
func (that *Server) replyError(conn *connection, action string, err error) error {
	switch {
	case errors.Is(err, validator.ErrInvalidRequest),
		errors.Is(err, apperror.ErrInvalidCell),
		errors.Is(err, apperror.ErrNoPlayers),
		errors.Is(err, apperror.ErrSessionNotFound):
		return conn.sendError(action, err.Error())
	default:
		that.logger.Error("failed to process message", "action", action, "session_id", conn.sessionID, "error", err)
		return conn.sendError(action, "internal error")
	}
}

func decodePayload(msg *Message, request any) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%w: payload is required", validator.ErrInvalidRequest)
	}

	if err := json.Unmarshal(msg.Payload, request); err != nil {
		return fmt.Errorf("%w: %w", validator.ErrInvalidRequest, err)
	}

	return validator.Struct(request)
}
