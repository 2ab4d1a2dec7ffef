package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/repository"
)

var errRedisDown = errors.New("redis down")

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestManager() *GameManager {
	return NewGameManager(newTestLogger(), repository.NewMemorySessionRepository(0))
}

func startGame(ctx context.Context, t *testing.T, manager *GameManager) string {
	t.Helper()

	view, err := manager.CreateSession(ctx)
	require.NoError(t, err)

	_, err = manager.StartNewGame(ctx, view.SessionID, "Alice", "Bob")
	require.NoError(t, err)

	return view.SessionID
}

func takeTurns(ctx context.Context, t *testing.T, manager *GameManager, sessionID string, cells ...int) *TurnResult {
	t.Helper()

	var result *TurnResult
	for _, cell := range cells {
		var err error
		result, err = manager.TakeTurn(ctx, sessionID, cell)
		require.NoError(t, err)
		require.True(t, result.Accepted, "turn on cell %d was rejected", cell)
	}

	return result
}

func TestGameManager_CreateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a session in preparation", func(t *testing.T) {
		// Given: a game manager
		manager := newTestManager()

		// When: creating a session
		view, err := manager.CreateSession(ctx)

		// Then: the session exists and waits for players
		require.NoError(t, err)
		assert.NotEmpty(t, view.SessionID)
		assert.Equal(t, entity.StatusPreparation, view.Status)
		assert.Empty(t, view.ActiveMark)
		assert.Nil(t, view.Players)
		assert.Nil(t, view.Result)

		stored, err := manager.GetGame(ctx, view.SessionID)
		require.NoError(t, err)
		assert.Equal(t, view, stored)
	})

	t.Run("Returns error if repository fails", func(t *testing.T) {
		// Given: a repository that cannot store sessions
		repo := &mockSessionRepo{}
		repo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Session")).Return(errRedisDown).Once()
		manager := NewGameManager(newTestLogger(), repo)

		// When: creating a session
		view, err := manager.CreateSession(ctx)

		// Then: the error is returned
		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, view)
		repo.AssertExpectations(t)
	})
}

func TestGameManager_StartNewGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Starts the first round", func(t *testing.T) {
		// Given: a new session
		manager := newTestManager()
		created, err := manager.CreateSession(ctx)
		require.NoError(t, err)

		// When: starting a game between Alice and Bob
		view, err := manager.StartNewGame(ctx, created.SessionID, "Alice", "Bob")

		// Then: X moves first and both players have no wins
		require.NoError(t, err)
		assert.Equal(t, entity.StatusRunning, view.Status)
		assert.Equal(t, entity.MarkX, view.ActiveMark)
		assert.Equal(t, map[entity.Mark]entity.PlayerSummary{
			entity.MarkX: {Name: "Alice"},
			entity.MarkO: {Name: "Bob"},
		}, view.Players)
	})

	t.Run("Returns ErrSessionNotFound for unknown session", func(t *testing.T) {
		// Given: a game manager without sessions
		manager := newTestManager()

		// When: starting a game in a missing session
		view, err := manager.StartNewGame(ctx, "missing", "Alice", "Bob")

		// Then: ErrSessionNotFound is returned
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
		assert.Nil(t, view)
	})
}

func TestGameManager_PlayRound(t *testing.T) {
	ctx := context.Background()

	t.Run("Fails before a game has started", func(t *testing.T) {
		// Given: a session without players
		manager := newTestManager()
		created, err := manager.CreateSession(ctx)
		require.NoError(t, err)

		// When: playing a round
		view, err := manager.PlayRound(ctx, created.SessionID)

		// Then: ErrNoPlayers is returned and the session stays in preparation
		require.ErrorIs(t, err, apperror.ErrNoPlayers)
		assert.Nil(t, view)

		stored, err := manager.GetGame(ctx, created.SessionID)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusPreparation, stored.Status)
	})

	t.Run("Keeps the tally across rounds", func(t *testing.T) {
		// Given: a game where Alice won the first round
		manager := newTestManager()
		sessionID := startGame(ctx, t, manager)
		takeTurns(ctx, t, manager, sessionID, 0, 3, 1, 4, 2)

		// When: Alice wins the second round too
		view, err := manager.PlayRound(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, [entity.BoardSize]entity.Mark{}, view.Board)
		assert.Nil(t, view.Result)

		result := takeTurns(ctx, t, manager, sessionID, 0, 3, 1, 4, 2)

		// Then: Alice has two wins and Bob none
		assert.Equal(t, map[entity.Mark]entity.PlayerSummary{
			entity.MarkX: {Name: "Alice", GamesWon: 2},
			entity.MarkO: {Name: "Bob", GamesWon: 0},
		}, result.Game.Players)
	})
}

func TestGameManager_TakeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Places marks and rejects occupied cells", func(t *testing.T) {
		// Given: a running game
		manager := newTestManager()
		sessionID := startGame(ctx, t, manager)

		// When: X takes cell 0
		result, err := manager.TakeTurn(ctx, sessionID, 0)

		// Then: the mark is stored and O is active
		require.NoError(t, err)
		assert.True(t, result.Accepted)
		assert.Equal(t, entity.MarkX, result.Mark)
		assert.Equal(t, entity.MarkO, result.Game.ActiveMark)
		assert.Nil(t, result.RoundEnded)

		// When: O tries the same cell
		result, err = manager.TakeTurn(ctx, sessionID, 0)

		// Then: the turn is ignored
		require.NoError(t, err)
		assert.False(t, result.Accepted)
		assert.Equal(t, entity.MarkEmpty, result.Mark)
		assert.Equal(t, entity.MarkO, result.Game.ActiveMark)
	})

	t.Run("Reports the end of the round", func(t *testing.T) {
		// Given: a running game
		manager := newTestManager()
		sessionID := startGame(ctx, t, manager)

		// When: X completes the first row
		result := takeTurns(ctx, t, manager, sessionID, 0, 3, 1, 4, 2)

		// Then: the round end is reported with the winner and line
		expected := &entity.RoundResult{
			Message:     entity.MessageWon,
			WinnerName:  "Alice",
			WinningLine: &entity.Line{0, 1, 2},
		}
		assert.Equal(t, expected, result.RoundEnded)
		assert.Equal(t, expected, result.Game.Result)
		assert.Equal(t, entity.StatusWon, result.Game.Status)

		// Then: the next turn is ignored and the event is not repeated
		next, err := manager.TakeTurn(ctx, sessionID, 8)
		require.NoError(t, err)
		assert.False(t, next.Accepted)
		assert.Nil(t, next.RoundEnded)
		assert.Equal(t, expected, next.Game.Result)
	})

	t.Run("Reports a tie", func(t *testing.T) {
		// Given: a running game
		manager := newTestManager()
		sessionID := startGame(ctx, t, manager)

		// When: the board fills without a line
		result := takeTurns(ctx, t, manager, sessionID, 0, 1, 2, 4, 3, 5, 7, 6, 8)

		// Then: the tie is reported
		require.NotNil(t, result.RoundEnded)
		assert.Equal(t, entity.MessageTie, result.RoundEnded.Message)
		assert.Equal(t, entity.NoWinner, result.RoundEnded.WinnerName)
		assert.Nil(t, result.RoundEnded.WinningLine)
		assert.Equal(t, entity.StatusTied, result.Game.Status)
	})

	t.Run("Returns ErrInvalidCell for a cell outside the board", func(t *testing.T) {
		// Given: a running game
		manager := newTestManager()
		sessionID := startGame(ctx, t, manager)

		// When: X targets cell 42
		result, err := manager.TakeTurn(ctx, sessionID, 42)

		// Then: ErrInvalidCell is returned and the board is untouched
		require.ErrorIs(t, err, apperror.ErrInvalidCell)
		assert.Nil(t, result)

		view, err := manager.GetGame(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, [entity.BoardSize]entity.Mark{}, view.Board)
		assert.Equal(t, entity.MarkX, view.ActiveMark)
	})

	t.Run("Does not store the session if loading fails", func(t *testing.T) {
		// Given: a repository that fails to load
		repo := &mockSessionRepo{}
		repo.On("GetByID", mock.Anything, "s1").Return(nil, errRedisDown).Once()
		manager := NewGameManager(newTestLogger(), repo)

		// When: taking a turn
		result, err := manager.TakeTurn(ctx, "s1", 0)

		// Then: the error is returned and nothing is written
		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, result)
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "CreateOrUpdate", mock.Anything, mock.Anything)
	})

	t.Run("Returns error if the session cannot be stored", func(t *testing.T) {
		// Given: a stored running game and a repository that fails on write
		session := entity.NewSession("s1")
		session.Game.Status = entity.StatusRunning
		session.Game.Players = []*entity.Player{entity.NewPlayer(entity.MarkX, "Alice"), entity.NewPlayer(entity.MarkO, "Bob")}

		repo := &mockSessionRepo{}
		repo.On("GetByID", mock.Anything, "s1").Return(session, nil).Once()
		repo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Session")).Return(errRedisDown).Once()
		manager := NewGameManager(newTestLogger(), repo)

		// When: taking a turn
		result, err := manager.TakeTurn(ctx, "s1", 0)

		// Then: the error is returned
		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, result)
		repo.AssertExpectations(t)
	})

	t.Run("Serializes concurrent turns on one session", func(t *testing.T) {
		// Given: a running game
		manager := newTestManager()
		sessionID := startGame(ctx, t, manager)

		// When: four turns on different cells arrive at once
		var wg sync.WaitGroup
		for _, cell := range []int{0, 1, 6, 7} {
			wg.Add(1)
			go func(cell int) {
				defer wg.Done()
				_, err := manager.TakeTurn(ctx, sessionID, cell)
				assert.NoError(t, err)
			}(cell)
		}
		wg.Wait()

		// Then: every turn was applied exactly once
		view, err := manager.GetGame(ctx, sessionID)
		require.NoError(t, err)

		var xCount, oCount int
		for _, mark := range view.Board {
			switch mark {
			case entity.MarkX:
				xCount++
			case entity.MarkO:
				oCount++
			}
		}
		assert.Equal(t, 2, xCount)
		assert.Equal(t, 2, oCount)
	})
}

func TestGameManager_CloseSession(t *testing.T) {
	ctx := context.Background()

	// Given: a running game
	manager := newTestManager()
	sessionID := startGame(ctx, t, manager)

	// When: closing the session
	err := manager.CloseSession(ctx, sessionID)

	// Then: the session cannot be used anymore
	require.NoError(t, err)

	_, err = manager.GetGame(ctx, sessionID)
	require.ErrorIs(t, err, apperror.ErrSessionNotFound)

	err = manager.CloseSession(ctx, sessionID)
	require.ErrorIs(t, err, apperror.ErrSessionNotFound)
}
