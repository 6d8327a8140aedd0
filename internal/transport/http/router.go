package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iamasit07/tic-tac-toe/backend/internal/transport/http/middleware"
)

type RouterDeps struct {
	AllowedOrigins []string
	WebSocket      gin.HandlerFunc
	Room           *RoomHandler
	Results        *ResultsHandler
	Logger         *zap.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(logger.Named("http")))

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	// Origin checks for the upgrade happen inside the WebSocket handler.
	router.GET("/ws", deps.WebSocket)

	api := router.Group("/api")
	api.Use(middleware.CORSMiddleware(deps.AllowedOrigins, logger.Named("cors")))
	{
		api.GET("/room", deps.Room.GetRoom)
		api.GET("/results", deps.Results.GetResults)
		api.OPTIONS("/room", preflight)
		api.OPTIONS("/results", preflight)
	}

	return router
}

// preflight is only reached when the CORS middleware did not answer already.
func preflight(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
