package apperror

import "errors"

var (
	ErrInvalidCell      = errors.New("invalid cell index")
	ErrNoPlayers        = errors.New("cannot play round: game has not started")
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidSnapshot  = errors.New("invalid game snapshot")
	ErrInvalidPlayerSet = errors.New("game requires exactly two players")
)
