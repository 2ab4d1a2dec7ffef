package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

const (
	firstPlayer  = 0
	secondPlayer = 1
	playersCount = 2
)

// RoundEndedFunc is called synchronously when a round is won or tied.
type RoundEndedFunc func(result entity.RoundResult)

// State is the controller state; Winner is set only for entity.StatusWon.
type State struct {
	Status entity.Status
	Winner *entity.Player
}

// GameController drives a board through rounds played by two players taking turns.
type GameController struct {
	board *entity.Board

	players      []*entity.Player
	activePlayer int
	status       entity.Status

	observers []RoundEndedFunc
}

func NewGameController(board *entity.Board) *GameController {
	return &GameController{
		board:  board,
		status: entity.StatusPreparation,
	}
}

// Restore - rebuilds a controller from a stored snapshot.
func Restore(snapshot entity.GameSnapshot) (*GameController, error) {
	if err := snapshot.Status.Validate(); err != nil {
		return nil, err
	}

	board, err := entity.RestoreBoard(snapshot.Board)
	if err != nil {
		return nil, err
	}

	if _, ok := board.WinningLine(); snapshot.Status == entity.StatusWon && !ok {
		return nil, fmt.Errorf("%w: won round without a complete line", apperror.ErrInvalidSnapshot)
	}

	controller := NewGameController(board)
	controller.status = snapshot.Status

	if snapshot.Status == entity.StatusPreparation {
		return controller, nil
	}

	if len(snapshot.Players) != playersCount {
		return nil, fmt.Errorf("%w: got %d", apperror.ErrInvalidPlayerSet, len(snapshot.Players))
	}

	if snapshot.ActivePlayer != firstPlayer && snapshot.ActivePlayer != secondPlayer {
		return nil, fmt.Errorf("%w: active player %d", apperror.ErrInvalidSnapshot, snapshot.ActivePlayer)
	}

	for _, player := range snapshot.Players {
		if player == nil {
			return nil, fmt.Errorf("%w: missing player", apperror.ErrInvalidSnapshot)
		}

		restored := *player
		controller.players = append(controller.players, &restored)
	}

	controller.activePlayer = snapshot.ActivePlayer

	return controller, nil
}

// OnRoundEnded - registers an observer of round results.
func (that *GameController) OnRoundEnded(fn RoundEndedFunc) {
	that.observers = append(that.observers, fn)
}

// StartNewGame - replaces both players and starts the first round.
func (that *GameController) StartNewGame(firstPlayerName, secondPlayerName string) error {
	that.players = []*entity.Player{
		entity.NewPlayer(entity.MarkX, firstPlayerName),
		entity.NewPlayer(entity.MarkO, secondPlayerName),
	}

	return that.PlayRound()
}

// PlayRound - starts a new round keeping the players and their tallies.
func (that *GameController) PlayRound() error {
	if len(that.players) == 0 {
		return apperror.ErrNoPlayers
	}

	that.activePlayer = firstPlayer
	that.status = entity.StatusRunning
	that.board.Reset()

	return nil
}

// TakeTurn - marks the cell for the active player.
// Returns MarkEmpty when the round is not running or the cell is occupied.
func (that *GameController) TakeTurn(cell int) (entity.Mark, error) {
	if that.status != entity.StatusRunning {
		return entity.MarkEmpty, nil
	}

	mark := that.players[that.activePlayer].Mark

	ok, err := that.board.MarkCell(cell, mark)
	if err != nil {
		return entity.MarkEmpty, fmt.Errorf("invalid turn: %w", err)
	}

	if !ok {
		return entity.MarkEmpty, nil
	}

	that.evaluateGameState()

	if that.status == entity.StatusRunning {
		that.activePlayer = (that.activePlayer + 1) % playersCount
	}

	return mark, nil
}

func (that *GameController) ActivePlayerMark() (entity.Mark, bool) {
	if that.status == entity.StatusPreparation {
		return entity.MarkEmpty, false
	}

	return that.players[that.activePlayer].Mark, true
}

func (that *GameController) PlayersSummary() (map[entity.Mark]entity.PlayerSummary, bool) {
	if that.status == entity.StatusPreparation {
		return nil, false
	}

	summary := make(map[entity.Mark]entity.PlayerSummary, len(that.players))
	for _, player := range that.players {
		summary[player.Mark] = player.Summary()
	}

	return summary, true
}

// RoundResult - returns the outcome of the round that just ended.
func (that *GameController) RoundResult() (entity.RoundResult, bool) {
	switch that.status {
	case entity.StatusWon:
		line, _ := that.board.WinningLine()
		return entity.NewWonResult(that.players[that.activePlayer], line), true
	case entity.StatusTied:
		return entity.NewTiedResult(), true
	default:
		return entity.RoundResult{}, false
	}
}

func (that *GameController) IsRoundOver() bool {
	return that.status.IsRoundOver()
}

func (that *GameController) State() State {
	state := State{Status: that.status}
	if that.status == entity.StatusWon {
		state.Winner = that.players[that.activePlayer]
	}

	return state
}

func (that *GameController) Cells() [entity.BoardSize]entity.Mark {
	return that.board.Cells()
}

// Snapshot - returns a copy of the game that Restore accepts.
func (that *GameController) Snapshot() entity.GameSnapshot {
	snapshot := entity.GameSnapshot{
		Board:        that.board.Cells(),
		ActivePlayer: that.activePlayer,
		Status:       that.status,
	}

	for _, player := range that.players {
		stored := *player
		snapshot.Players = append(snapshot.Players, &stored)
	}

	return snapshot
}

// evaluateGameState - ends the round on a completed line or a full board.
func (that *GameController) evaluateGameState() {
	switch {
	case that.board.HasWinningLine():
		that.status = entity.StatusWon
		that.players[that.activePlayer].Win()
	case !that.board.HasEmptyCell():
		that.status = entity.StatusTied
	default:
		return
	}

	result, _ := that.RoundResult()
	for _, notify := range that.observers {
		notify(result)
	}
}
