package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
)

// Status is the lifecycle stage of the current round.
type Status string

const (
	StatusPreparation Status = "preparation"
	StatusRunning     Status = "running"
	StatusWon         Status = "won"
	StatusTied        Status = "tied"
)

const (
	MessageWon = "GAME OVER!"
	MessageTie = "GAME TIE!"

	// NoWinner is reported as the winner name of a tied round.
	NoWinner = "NO ONE!"
)

func (that Status) IsRoundOver() bool {
	return that == StatusWon || that == StatusTied
}

func (that Status) Validate() error {
	switch that {
	case StatusPreparation, StatusRunning, StatusWon, StatusTied:
		return nil
	default:
		return fmt.Errorf("%w: unknown status %q", apperror.ErrInvalidSnapshot, string(that))
	}
}

// RoundResult describes how a finished round ended.
type RoundResult struct {
	Message     string `json:"message"`
	WinnerName  string `json:"winner_name"`
	WinningLine *Line  `json:"winning_line"`
}

func NewWonResult(winner *Player, line Line) RoundResult {
	return RoundResult{
		Message:     MessageWon,
		WinnerName:  winner.Name,
		WinningLine: &line,
	}
}

func NewTiedResult() RoundResult {
	return RoundResult{
		Message:    MessageTie,
		WinnerName: NoWinner,
	}
}

// GameSnapshot is the storable form of a game between two requests of one session.
type GameSnapshot struct {
	Board        [BoardSize]Mark `json:"board"`
	Players      []*Player       `json:"players,omitempty"`
	ActivePlayer int             `json:"active_player"`
	Status       Status          `json:"status"`
}

type Session struct {
	ID   string       `json:"id"`
	Game GameSnapshot `json:"game"`
}

func NewSession(id string) *Session {
	return &Session{
		ID: id,
		Game: GameSnapshot{
			Status: StatusPreparation,
		},
	}
}
