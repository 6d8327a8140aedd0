package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
)

// StateReader exposes a snapshot of the live room.
type StateReader interface {
	State(ctx context.Context) (domain.SessionView, error)
}

type RoomHandler struct {
	Room StateReader
}

func NewRoomHandler(room StateReader) *RoomHandler {
	return &RoomHandler{Room: room}
}

func (h *RoomHandler) GetRoom(c *gin.Context) {
	view, err := h.Room.State(c.Request.Context())
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Room unavailable"})
		return
	}
	c.JSON(http.StatusOK, view)
}
