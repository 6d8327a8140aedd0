package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
)

// Client is one upgraded connection. Outbound frames are queued on send and
// written by a single writer goroutine.
type Client struct {
	ID   string
	conn *websocket.Conn
	send chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func NewClient(id string, conn *websocket.Conn, buffer int) *Client {
	if buffer <= 0 {
		buffer = 16
	}
	return &Client{
		ID:   id,
		conn: conn,
		send: make(chan []byte, buffer),
		done: make(chan struct{}),
	}
}

// Close stops the writer and closes the socket. Safe to call repeatedly.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

func (c *Client) Done() <-chan struct{} { return c.done }

// enqueue never blocks. A full buffer means the client cannot keep up, so
// it is closed and the read loop cleans it up.
func (c *Client) enqueue(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- data:
		return true
	default:
		c.Close()
		return false
	}
}

// writePump drains the send queue and keeps the connection alive with pings.
func (c *Client) writePump(pingInterval, writeTimeout time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logger.Debug("write failed", zap.String("conn_id", c.ID), zap.Error(err))
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Debug("ping failed", zap.String("conn_id", c.ID), zap.Error(err))
				return
			}
		}
	}
}

// ConnectionManager tracks live clients and the rooms they are subscribed
// to, and fans server events out to them.
type ConnectionManager struct {
	clients map[string]*Client
	rooms   map[string]map[string]struct{}
	mu      sync.RWMutex
	log     *zap.Logger
}

func NewConnectionManager(logger *zap.Logger) *ConnectionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConnectionManager{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]struct{}),
		log:     logger.Named("ws"),
	}
}

func (cm *ConnectionManager) AddConnection(c *Client) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if old, exists := cm.clients[c.ID]; exists && old != c {
		old.Close()
	}
	cm.clients[c.ID] = c
}

// RemoveConnection forgets the client and drops it from every room.
func (cm *ConnectionManager) RemoveConnection(connID string) {
	cm.mu.Lock()
	c, exists := cm.clients[connID]
	delete(cm.clients, connID)
	for roomID, members := range cm.rooms {
		delete(members, connID)
		if len(members) == 0 {
			delete(cm.rooms, roomID)
		}
	}
	cm.mu.Unlock()

	if exists {
		c.Close()
	}
}

func (cm *ConnectionManager) Subscribe(roomID, connID string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	members, ok := cm.rooms[roomID]
	if !ok {
		members = make(map[string]struct{})
		cm.rooms[roomID] = members
	}
	members[connID] = struct{}{}
}

func (cm *ConnectionManager) Unsubscribe(roomID, connID string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if members, ok := cm.rooms[roomID]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(cm.rooms, roomID)
		}
	}
}

// ToConnection queues message for a single client. Unknown ids are ignored.
func (cm *ConnectionManager) ToConnection(connID string, message domain.ServerMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		cm.log.Error("failed to encode message", zap.String("type", message.Type), zap.Error(err))
		return
	}

	cm.mu.RLock()
	c, exists := cm.clients[connID]
	cm.mu.RUnlock()
	if !exists {
		return
	}

	if !c.enqueue(data) {
		cm.log.Warn("dropped slow client", zap.String("conn_id", connID), zap.String("type", message.Type))
	}
}

// ToRoom queues message for every client subscribed to roomID. The payload
// is encoded once and a slow member never delays the others.
func (cm *ConnectionManager) ToRoom(roomID string, message domain.ServerMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		cm.log.Error("failed to encode message", zap.String("type", message.Type), zap.Error(err))
		return
	}

	cm.mu.RLock()
	targets := make([]*Client, 0, len(cm.rooms[roomID]))
	for connID := range cm.rooms[roomID] {
		if c, ok := cm.clients[connID]; ok {
			targets = append(targets, c)
		}
	}
	cm.mu.RUnlock()

	for _, c := range targets {
		if !c.enqueue(data) {
			cm.log.Warn("dropped slow client", zap.String("conn_id", c.ID), zap.String("room_id", roomID), zap.String("type", message.Type))
		}
	}
}

func (cm *ConnectionManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.clients)
}
