package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/rocketscienceinc/oxbingo-backend/internal/apperror"
	"github.com/rocketscienceinc/oxbingo-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errRedisDown = errors.New("redis down")

type mockSessionRepo struct {
	mock.Mock
}

func (that *mockSessionRepo) CreateOrUpdate(ctx context.Context, session *entity.Session) error {
	args := that.Called(ctx, session)
	return args.Error(0)
}

func (that *mockSessionRepo) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	args := that.Called(ctx, id)
	session, _ := args.Get(0).(*entity.Session)
	return session, args.Error(1)
}

func (that *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	args := that.Called(ctx, id)
	return args.Error(0)
}

// Update runs fn on the session the expectation returns, like the real repository does.
func (that *mockSessionRepo) Update(ctx context.Context, id string, fn func(*entity.Session) error) (*entity.Session, error) {
	args := that.Called(ctx, id)
	session, _ := args.Get(0).(*entity.Session)
	if err := args.Error(1); err != nil {
		return nil, err
	}

	if err := fn(session); err != nil {
		return nil, err
	}

	return session, nil
}

type mockMetrics struct {
	mock.Mock
}

func (that *mockMetrics) GameStarted() {
	that.Called()
}

func (that *mockMetrics) Move(result entity.MoveResult, session *entity.Session) {
	that.Called(result, session)
}

func newTestManager(t *testing.T) (*GameManager, *mockSessionRepo, *mockMetrics) {
	t.Helper()

	repo := &mockSessionRepo{}
	metrics := &mockMetrics{}
	t.Cleanup(func() {
		repo.AssertExpectations(t)
		metrics.AssertExpectations(t)
	})

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	return NewGameManager(logger, repo, metrics), repo, metrics
}

func startedSession(id string) *entity.Session {
	session := entity.NewSession(id)
	session.Start()

	return session
}

func TestGameManager_StartGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a session with a generated id", func(t *testing.T) {
		// Given: a repository that accepts the session
		manager, repo, metrics := newTestManager(t)
		repo.On("CreateOrUpdate", ctx, mock.AnythingOfType("*entity.Session")).Return(nil).Once()
		metrics.On("GameStarted").Once()

		// When: starting a game without an id
		session, err := manager.StartGame(ctx, "")

		// Then: a started session with a fresh id is returned
		require.NoError(t, err)
		assert.NotEmpty(t, session.ID)
		assert.True(t, session.IsInProgress())
		assert.Equal(t, entity.Board{}, session.Board)
	})

	t.Run("Restarts a known session wholesale", func(t *testing.T) {
		// Given: a stored session with a move on the board
		stored := startedSession("abc")
		stored.ApplyMove(2, 2)

		manager, repo, metrics := newTestManager(t)
		repo.On("Update", ctx, "abc").Return(stored, nil).Once()
		metrics.On("GameStarted").Once()

		// When: starting a game with its id
		session, err := manager.StartGame(ctx, "abc")

		// Then: the id is kept and the board is cleared
		require.NoError(t, err)
		assert.Equal(t, startedSession("abc"), session)
	})

	t.Run("Does not create a session under a client chosen id", func(t *testing.T) {
		// Given: a repository without the session
		manager, repo, _ := newTestManager(t)
		repo.On("Update", ctx, "alice").Return(nil, apperror.ErrSessionNotFound).Once()

		// When: starting a game with an unknown id
		session, err := manager.StartGame(ctx, "alice")

		// Then: nothing is created
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
		assert.Nil(t, session)
		repo.AssertNotCalled(t, "CreateOrUpdate", mock.Anything, mock.Anything)
	})

	t.Run("Returns error if the repository fails", func(t *testing.T) {
		// Given: a failing repository
		manager, repo, _ := newTestManager(t)
		repo.On("CreateOrUpdate", ctx, mock.Anything).Return(errRedisDown).Once()

		// When: starting a game
		session, err := manager.StartGame(ctx, "")

		// Then: the error is wrapped
		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, session)
	})
}

func TestGameManager_MakeMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Accepted move is applied", func(t *testing.T) {
		// Given: a stored started session
		manager, repo, metrics := newTestManager(t)
		repo.On("Update", ctx, "abc").Return(startedSession("abc"), nil).Once()
		metrics.On("Move", entity.MoveAccepted, mock.Anything).Once()

		// When: O plays (3, 0)
		session, result, err := manager.MakeMove(ctx, "abc", 3, 0)

		// Then: the board holds the mark
		require.NoError(t, err)
		assert.Equal(t, entity.MoveAccepted, result.Result)
		assert.Equal(t, entity.MarkO, session.Board[3][0])
		assert.Equal(t, 1, session.TurnCount())
	})

	t.Run("Rejected move is not an error", func(t *testing.T) {
		// Given: a session whose cell (0, 0) is taken
		stored := startedSession("abc")
		stored.ApplyMove(0, 0)

		manager, repo, metrics := newTestManager(t)
		repo.On("Update", ctx, "abc").Return(stored, nil).Once()
		metrics.On("Move", entity.MoveRejectedOccupied, mock.Anything).Once()

		// When: X targets the same cell
		session, result, err := manager.MakeMove(ctx, "abc", 0, 0)

		// Then: the result says occupied and the session is unchanged
		require.NoError(t, err)
		assert.Equal(t, entity.MoveRejectedOccupied, result.Result)
		require.ErrorIs(t, result.Result.Err(), apperror.ErrCellOccupied)
		assert.Equal(t, 1, session.TurnCount())
	})

	t.Run("Winning move finishes the game", func(t *testing.T) {
		// Given: O has three in column 2 and it is O's turn
		stored := startedSession("abc")
		for _, cell := range [][2]int{{0, 2}, {0, 0}, {1, 2}, {1, 0}, {2, 2}, {3, 3}} {
			require.Equal(t, entity.MoveAccepted, stored.ApplyMove(cell[0], cell[1]))
		}

		manager, repo, metrics := newTestManager(t)
		repo.On("Update", ctx, "abc").Return(stored, nil).Once()
		metrics.On("Move", entity.MoveAccepted, mock.Anything).Once()

		// When: O completes the column
		session, result, err := manager.MakeMove(ctx, "abc", 3, 2)

		// Then: O wins
		require.NoError(t, err)
		assert.True(t, session.IsWon())
		assert.Equal(t, entity.MarkO, session.Winner)
		require.NotNil(t, result.Outcome.Line)
		assert.Equal(t, "column-2", result.Outcome.Line.Name)
	})

	t.Run("Unknown session is an error", func(t *testing.T) {
		// Given: a repository without the session
		manager, repo, _ := newTestManager(t)
		repo.On("Update", ctx, "missing").Return(nil, apperror.ErrSessionNotFound).Once()

		// When: moving
		session, _, err := manager.MakeMove(ctx, "missing", 0, 0)

		// Then: ErrSessionNotFound is returned
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
		assert.Nil(t, session)
	})
}

func TestGameManager_ResetGame(t *testing.T) {
	ctx := context.Background()

	// Given: a won session
	stored := startedSession("abc")
	stored.ApplyMove(1, 1)
	stored.Finish(entity.MarkO)

	manager, repo, _ := newTestManager(t)
	repo.On("Update", ctx, "abc").Return(stored, nil).Once()

	// When: resetting it
	session, err := manager.ResetGame(ctx, "abc")

	// Then: it is back to not started
	require.NoError(t, err)
	assert.Equal(t, entity.NewSession("abc"), session)
}

func TestGameManager_GetGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns the stored session", func(t *testing.T) {
		// Given: a stored session
		manager, repo, _ := newTestManager(t)
		repo.On("GetByID", ctx, "abc").Return(startedSession("abc"), nil).Once()

		// When: getting it
		session, err := manager.GetGame(ctx, "abc")

		// Then: it is returned
		require.NoError(t, err)
		assert.Equal(t, startedSession("abc"), session)
	})

	t.Run("Wraps repository errors", func(t *testing.T) {
		// Given: a failing repository
		manager, repo, _ := newTestManager(t)
		repo.On("GetByID", ctx, "abc").Return(nil, errRedisDown).Once()

		// When: getting the session
		_, err := manager.GetGame(ctx, "abc")

		// Then: the error is wrapped
		require.ErrorIs(t, err, errRedisDown)
	})
}

func TestGameManager_DeleteGame(t *testing.T) {
	ctx := context.Background()

	// Given: a repository that deletes the session
	manager, repo, _ := newTestManager(t)
	repo.On("DeleteByID", ctx, "abc").Return(nil).Once()

	// When: deleting it
	err := manager.DeleteGame(ctx, "abc")

	// Then: no error
	require.NoError(t, err)
}
