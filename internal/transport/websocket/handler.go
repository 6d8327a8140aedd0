package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
	"github.com/iamasit07/tic-tac-toe/backend/internal/service/room"
	"github.com/iamasit07/tic-tac-toe/backend/pkg/uid"
)

// Inbox is the room side of a connection: every decoded intent goes here.
type Inbox interface {
	Send(ctx context.Context, msg room.Msg) error
}

type Options struct {
	AllowedOrigins []string
	SendBuffer     int
	PingInterval   time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxMessageSize int64
}

func (o *Options) withDefaults() {
	if o.SendBuffer <= 0 {
		o.SendBuffer = 16
	}
	if o.PingInterval <= 0 {
		o.PingInterval = 30 * time.Second
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = 60 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 10 * time.Second
	}
	if o.MaxMessageSize <= 0 {
		o.MaxMessageSize = 4096
	}
}

// Handler upgrades HTTP requests and pumps frames between a socket and the room.
type Handler struct {
	ConnManager *ConnectionManager
	Room        Inbox
	Upgrader    websocket.Upgrader

	opts Options
	log  *zap.Logger
}

func NewHandler(cm *ConnectionManager, inbox Inbox, logger *zap.Logger, opts Options) *Handler {
	opts.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &Handler{
		ConnManager: cm,
		Room:        inbox,
		opts:        opts,
		log:         logger.Named("ws"),
	}
	h.Upgrader = websocket.Upgrader{
		CheckOrigin:     h.checkOrigin,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	return h
}

// HandleWebSocket is the gin entry point for /ws.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	h.ServeHTTP(c.Writer, c.Request)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}

	h.handleConnection(r.Context(), conn)
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.opts.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	h.log.Warn("origin not allowed", zap.String("origin", origin))
	return false
}

// handleConnection owns the read side of one socket until it closes.
func (h *Handler) handleConnection(ctx context.Context, conn *websocket.Conn) {
	client := NewClient(uid.NewConnectionID(), conn, h.opts.SendBuffer)
	logger := h.log.With(zap.String("conn_id", client.ID))

	h.ConnManager.AddConnection(client)
	go client.writePump(h.opts.PingInterval, h.opts.WriteTimeout, logger)

	defer func() {
		// Waits for inbox space or for the room to stop, never for the request.
		if err := h.Room.Send(context.WithoutCancel(ctx), room.Disconnect{ConnID: client.ID}); err != nil {
			logger.Error("failed to report disconnect", zap.Error(err))
		}
		h.ConnManager.RemoveConnection(client.ID)
		logger.Info("connection closed")
	}()

	conn.SetReadLimit(h.opts.MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(h.opts.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(h.opts.ReadTimeout))
		return nil
	})

	logger.Info("connection opened")
	if err := h.Room.Send(ctx, room.Connect{ConnID: client.ID}); err != nil {
		logger.Warn("room unavailable", zap.Error(err))
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("unexpected close", zap.Error(err))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(h.opts.ReadTimeout))

		msg, ok := h.decode(client.ID, data, logger)
		if !ok {
			continue
		}
		if err := h.Room.Send(ctx, msg); err != nil {
			logger.Warn("room unavailable", zap.Error(err))
			return
		}
	}
}

// decode turns a client frame into a room message. Malformed frames and
// unknown intents are logged and dropped.
func (h *Handler) decode(connID string, data []byte, logger *zap.Logger) (room.Msg, bool) {
	var envelope domain.ClientMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		logger.Debug("invalid message format", zap.Error(err))
		return nil, false
	}

	switch envelope.Type {
	case domain.EventJoin:
		return room.Join{ConnID: connID}, true

	case domain.EventMove:
		var payload domain.MovePayload
		if err := unmarshalPayload(envelope.Payload, &payload); err != nil || payload.CellIndex == nil {
			logger.Debug("invalid move payload", zap.ByteString("payload", envelope.Payload))
			return nil, false
		}
		return room.Move{ConnID: connID, Cell: *payload.CellIndex}, true

	case domain.EventChatSend:
		var payload domain.ChatSendPayload
		if err := unmarshalPayload(envelope.Payload, &payload); err != nil {
			logger.Debug("invalid chat payload", zap.ByteString("payload", envelope.Payload))
			return nil, false
		}
		return room.Chat{ConnID: connID, Text: payload.Text}, true

	case domain.EventResetRequest:
		return room.Reset{ConnID: connID}, true

	default:
		logger.Debug("unknown message type", zap.String("type", envelope.Type), zap.Error(domain.ErrUnknownIntent))
		return nil, false
	}
}

func unmarshalPayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return domain.ErrUnknownIntent
	}
	return json.Unmarshal(raw, v)
}
