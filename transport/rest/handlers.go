package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/usecase"
)

type roomViewer interface {
	Room(code string) (entity.Snapshot, error)
	Stats() usecase.Stats
}

type handlers struct {
	rooms roomViewer
}

// getRoom - GET /api/rooms/:code
func (that *handlers) getRoom(c *gin.Context) {
	snapshot, err := that.rooms.Room(c.Param("code"))
	if errors.Is(err, apperror.ErrRoomNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": apperror.Message(err)})
		return
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": apperror.Message(err)})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// getStats - GET /api/stats
func (that *handlers) getStats(c *gin.Context) {
	c.JSON(http.StatusOK, that.rooms.Stats())
}
