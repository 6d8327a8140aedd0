package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
)

type stubRoom struct {
	view domain.SessionView
	err  error
}

func (s stubRoom) State(context.Context) (domain.SessionView, error) {
	return s.view, s.err
}

type stubSummary domain.Summary

func (s stubSummary) Summary(context.Context) domain.Summary {
	return domain.Summary(s)
}

type stubArchive struct {
	results []domain.Result
	err     error
	limit   int
}

func (s *stubArchive) Recent(_ context.Context, limit int) ([]domain.Result, error) {
	s.limit = limit
	return s.results, s.err
}

func newTestRouter(room StateReader, archive RecentReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(RouterDeps{
		AllowedOrigins: []string{"http://localhost:3000"},
		WebSocket:      func(c *gin.Context) { c.Status(http.StatusTeapot) },
		Room:           NewRoomHandler(room),
		Results:        NewResultsHandler(stubSummary{XWins: 2, Draws: 1}, archive),
	})
}

func serve(router http.Handler, method, path, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	w := serve(newTestRouter(stubRoom{}, nil), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestRouter_WebSocketRoute(t *testing.T) {
	w := serve(newTestRouter(stubRoom{}, nil), http.MethodGet, "/ws", "")
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestRouter_RoomSnapshot(t *testing.T) {
	view := domain.SessionView{
		RoomID:      "game-room",
		Phase:       domain.PhaseWaiting,
		Board:       domain.NewBoard(),
		RoleMap:     domain.RoleMap{"conn-a": domain.RoleX},
		ChatLog:     []domain.ChatMessage{},
		Connections: 1,
	}
	w := serve(newTestRouter(stubRoom{view: view}, nil), http.MethodGet, "/api/room", "http://localhost:3000")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	var got domain.SessionView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, view, got)
}

func TestRouter_RoomUnavailable(t *testing.T) {
	w := serve(newTestRouter(stubRoom{err: errors.New("room closed")}, nil), http.MethodGet, "/api/room", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_ForeignOriginRejected(t *testing.T) {
	w := serve(newTestRouter(stubRoom{}, nil), http.MethodGet, "/api/room", "http://evil.example")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_Preflight(t *testing.T) {
	w := serve(newTestRouter(stubRoom{}, nil), http.MethodOptions, "/api/results", "http://localhost:3000")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "GET")
}

func TestRouter_ResultsWithoutArchive(t *testing.T) {
	w := serve(newTestRouter(stubRoom{}, nil), http.MethodGet, "/api/results", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got resultsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, domain.Summary{XWins: 2, Draws: 1}, got.Summary)
	assert.Equal(t, int64(3), got.Total)
	assert.Empty(t, got.Recent)
}

func TestRouter_ResultsWithArchive(t *testing.T) {
	archive := &stubArchive{results: []domain.Result{{RoomID: "game-room", Outcome: domain.OutcomeDraw}}}
	router := newTestRouter(stubRoom{}, archive)

	w := serve(router, http.MethodGet, "/api/results?limit=500", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, maxRecentLimit, archive.limit)

	var got resultsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Recent, 1)
	assert.Equal(t, domain.OutcomeDraw, got.Recent[0].Outcome)

	w = serve(router, http.MethodGet, "/api/results?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	archive.err = errors.New("db down")
	w = serve(router, http.MethodGet, "/api/results", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
