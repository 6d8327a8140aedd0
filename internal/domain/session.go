package domain

import "time"

// ChatMessage is one entry of the session chat log.
type ChatMessage struct {
	ID     int64     `json:"id"`
	Author Role      `json:"author"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sentAt"`
}

// RoleMap maps admitted connection ids to their roles.
type RoleMap map[string]Role

// SessionView is a read-only copy of the room state.
type SessionView struct {
	RoomID      string        `json:"roomId"`
	Phase       Phase         `json:"phase"`
	Board       Board         `json:"board"`
	CurrentTurn Role          `json:"currentTurn"`
	Outcome     Outcome       `json:"outcome,omitempty"`
	RoleMap     RoleMap       `json:"roleMap"`
	ChatLog     []ChatMessage `json:"chatLog"`
	Connections int           `json:"connections"`
}
