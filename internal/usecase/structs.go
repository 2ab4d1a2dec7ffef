package usecase

import "github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"

// GameView is everything a client needs to render a session.
type GameView struct {
	SessionID  string                               `json:"session_id"`
	Board      [entity.BoardSize]entity.Mark        `json:"board"`
	Status     entity.Status                        `json:"status"`
	ActiveMark entity.Mark                          `json:"active_mark,omitempty"`
	Players    map[entity.Mark]entity.PlayerSummary `json:"players,omitempty"`
	Result     *entity.RoundResult                  `json:"result,omitempty"`
}

// TurnResult - Mark is empty and Accepted false when the turn was ignored.
type TurnResult struct {
	Mark       entity.Mark         `json:"mark"`
	Accepted   bool                `json:"accepted"`
	RoundEnded *entity.RoundResult `json:"round_ended,omitempty"`
	Game       *GameView           `json:"game"`
}
