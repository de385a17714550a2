package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-rooms/testing/suite"
)

type discardNotifier struct{}

func (discardNotifier) Notify(string, entity.Event) {}

func newTestRouter(t *testing.T) (http.Handler, *usecase.Coordinator) {
	t.Helper()

	logger := suite.Logger()
	coordinator := usecase.NewCoordinator(logger, repository.NewRoomRegistry(), discardNotifier{}, usecase.Options{})

	return NewRouter(logger, coordinator), coordinator
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestPing(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := get(router, "/ping")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestGetRoom(t *testing.T) {
	t.Run("Live room", func(t *testing.T) {
		// Given: a started game with one move
		router, coordinator := newTestRouter(t)
		require.NoError(t, coordinator.CreateRoom("alice", "ABC123", "Alice"))
		require.NoError(t, coordinator.JoinRoom("bob", "ABC123", ""))
		require.NoError(t, coordinator.MakeMove("alice", "ABC123", 0))

		// When: the room is fetched with a lower-case code
		rec := get(router, "/api/rooms/abc123")

		// Then: the snapshot is returned without connection ids
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{
			"code": "ABC123",
			"board": ["X", null, null, null, null, null, null, null, null],
			"turn": "O",
			"status": "playing",
			"players": [{"name": "Alice", "symbol": "X"}, {"symbol": "O"}]
		}`, rec.Body.String())
		assert.NotContains(t, rec.Body.String(), "alice")
	})

	t.Run("Unknown room", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := get(router, "/api/rooms/ZZZ999")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error": "Room not found"}`, rec.Body.String())
	})
}

func TestGetStats(t *testing.T) {
	router, coordinator := newTestRouter(t)
	require.NoError(t, coordinator.CreateRoom("alice", "ABC123", ""))
	require.NoError(t, coordinator.JoinRoom("bob", "ABC123", ""))
	require.NoError(t, coordinator.CreateRoom("carol", "DEF456", ""))

	rec := get(router, "/api/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats usecase.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, usecase.Stats{Rooms: 2, Waiting: 1, Playing: 1, Members: 3}, stats)
}
