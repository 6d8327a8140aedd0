package room

import "github.com/iamasit07/tic-tac-toe/backend/internal/domain"

// Msg is anything the room goroutine accepts on its inbox.
type Msg interface{ isRoomMsg() }

// Connect reports a new transport connection.
type Connect struct{ ConnID string }

// Disconnect reports a dropped transport connection.
type Disconnect struct{ ConnID string }

// Join asks for admission to the room.
type Join struct{ ConnID string }

type Move struct {
	ConnID string
	Cell   int
}

type Chat struct {
	ConnID string
	Text   string
}

type Reset struct{ ConnID string }

// GetState asks for a copy of the session state.
type GetState struct {
	Reply chan domain.SessionView
}

func (Connect) isRoomMsg()    {}
func (Disconnect) isRoomMsg() {}
func (Join) isRoomMsg()       {}
func (Move) isRoomMsg()       {}
func (Chat) isRoomMsg()       {}
func (Reset) isRoomMsg()      {}
func (GetState) isRoomMsg()   {}
