package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/usecase"
)

const (
	actionSessionCreated = "session:created"
	actionGameNew        = "game:new"
	actionGameRound      = "game:round"
	actionGameTurn       = "game:turn"
	actionGameState      = "game:state"
	actionRoundEnded     = "round:ended"
	actionError          = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type ResponsePayload struct {
	Game    *usecase.GameView   `json:"game,omitempty"`
	Turn    *usecase.TurnResult `json:"turn,omitempty"`
	Result  *entity.RoundResult `json:"result,omitempty"`
	Request string              `json:"request,omitempty"`
	Error   string              `json:"error,omitempty"`
}
