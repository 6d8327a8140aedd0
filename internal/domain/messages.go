package domain

import (
	"encoding/json"
	"time"
)

// Client -> server event names.
const (
	EventJoin         = "join"
	EventMove         = "move"
	EventChatSend     = "chat-send"
	EventResetRequest = "reset-request"
)

// Server -> client event names.
const (
	EventRoleAssigned = "role-assigned"
	EventWaiting      = "waiting"
	EventRoomFull     = "room-full"
	EventSessionStart = "session-start"
	EventStateUpdate  = "state-update"
	EventSessionEnd   = "session-end"
	EventChatMessage  = "chat-message"
	EventOpponentLeft = "opponent-left"
)

// ClientMessage is the envelope every inbound frame arrives in. Payload is
// decoded once the type is known.
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type MovePayload struct {
	CellIndex *int `json:"cellIndex"`
}

type ChatSendPayload struct {
	Text string `json:"text"`
}

// ServerMessage is the envelope for every outbound frame.
type ServerMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type RoleAssignedPayload struct {
	Role    Role `json:"role"`
	IsFirst bool `json:"isFirst"`
}

type SessionStartPayload struct {
	Board       Board         `json:"board"`
	CurrentTurn Role          `json:"currentTurn"`
	RoleMap     RoleMap       `json:"roleMap"`
	ChatLog     []ChatMessage `json:"chatLog"`
}

type StateUpdatePayload struct {
	Board       Board   `json:"board"`
	CurrentTurn Role    `json:"currentTurn"`
	RoleMap     RoleMap `json:"roleMap"`
}

type SessionEndPayload struct {
	Outcome Outcome `json:"outcome"`
	Board   Board   `json:"board"`
}

type ChatMessagePayload struct {
	ID     int64     `json:"id"`
	Author Role      `json:"author"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sentAt"`
}

type OpponentLeftPayload struct {
	Role Role `json:"role"`
}

func NewRoleAssigned(role Role) ServerMessage {
	return ServerMessage{
		Type:    EventRoleAssigned,
		Payload: RoleAssignedPayload{Role: role, IsFirst: role.IsFirst()},
	}
}

func NewWaiting() ServerMessage {
	return ServerMessage{Type: EventWaiting}
}

func NewRoomFull() ServerMessage {
	return ServerMessage{Type: EventRoomFull}
}

func NewChatMessage(msg ChatMessage) ServerMessage {
	return ServerMessage{
		Type: EventChatMessage,
		Payload: ChatMessagePayload{
			ID:     msg.ID,
			Author: msg.Author,
			Text:   msg.Text,
			SentAt: msg.SentAt,
		},
	}
}

func NewOpponentLeft(role Role) ServerMessage {
	return ServerMessage{Type: EventOpponentLeft, Payload: OpponentLeftPayload{Role: role}}
}
