package game

import (
	"fmt"
	"time"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
	"github.com/iamasit07/tic-tac-toe/backend/internal/service/chat"
	"github.com/iamasit07/tic-tac-toe/backend/internal/service/registry"
)

// Dispatcher delivers server events. Implementations must not block.
type Dispatcher interface {
	ToConnection(connID string, message domain.ServerMessage)
	ToRoom(roomID string, message domain.ServerMessage)
}

// Session is the authoritative state machine of the room's game.
// All methods must be called from the goroutine that owns the room.
type Session struct {
	RoomID    string
	Game      *domain.Game
	Phase     domain.Phase
	StartedAt time.Time

	registry *registry.Registry
	chat     *chat.Log
	conn     Dispatcher
	now      func() time.Time
}

func NewSession(roomID string, reg *registry.Registry, chatLog *chat.Log, conn Dispatcher) *Session {
	return &Session{
		RoomID:   roomID,
		Game:     domain.NewGame(),
		Phase:    domain.PhaseIdle,
		registry: reg,
		chat:     chatLog,
		conn:     conn,
		now:      time.Now,
	}
}

// SetClock replaces the time source used for session timestamps.
func (s *Session) SetClock(now func() time.Time) {
	s.now = now
}

// OnAdmit advances the lifecycle after connID was admitted with role.
func (s *Session) OnAdmit(connID string, role domain.Role) {
	switch s.registry.Count() {
	case 1:
		s.Game.Reset()
		s.Phase = domain.PhaseWaiting
		s.conn.ToConnection(connID, domain.NewWaiting())
	case 2:
		s.start()
	}
}

// OnMove applies a move from connID. A rejected move returns an error
// wrapping domain.ErrInvalidMove and leaves state and clients untouched.
// The returned result is non-nil when the move concluded the session.
func (s *Session) OnMove(connID string, cell int) (*domain.Result, error) {
	if s.Phase != domain.PhaseActive {
		return nil, fmt.Errorf("%w: session is %s", domain.ErrInvalidMove, s.Phase)
	}

	role, ok := s.registry.RoleOf(connID)
	if !ok {
		return nil, fmt.Errorf("%w: connection holds no role", domain.ErrInvalidMove)
	}

	if err := s.Game.MakeMove(role, cell); err != nil {
		return nil, err
	}

	if !s.Game.IsFinished() {
		s.conn.ToRoom(s.RoomID, domain.ServerMessage{
			Type: domain.EventStateUpdate,
			Payload: domain.StateUpdatePayload{
				Board:       s.Game.Board,
				CurrentTurn: s.Game.CurrentTurn,
				RoleMap:     s.registry.RoleMap(),
			},
		})
		return nil, nil
	}

	// The board stays frozen until a reset or a new admission.
	s.Phase = domain.PhaseConcluded
	s.conn.ToRoom(s.RoomID, domain.ServerMessage{
		Type: domain.EventSessionEnd,
		Payload: domain.SessionEndPayload{
			Outcome: s.Game.Outcome,
			Board:   s.Game.Board,
		},
	})

	return &domain.Result{
		RoomID:     s.RoomID,
		Outcome:    s.Game.Outcome,
		Board:      s.Game.Board,
		Moves:      s.Game.MoveCount,
		Players:    s.registry.RoleMap(),
		StartedAt:  s.StartedAt,
		FinishedAt: s.now(),
	}, nil
}

// OnChat appends a message from connID and echoes it to the room.
func (s *Session) OnChat(connID string, text string) error {
	role, _ := s.registry.RoleOf(connID)
	msg, err := s.chat.Append(role, text)
	if err != nil {
		return err
	}
	s.conn.ToRoom(s.RoomID, domain.NewChatMessage(msg))
	return nil
}

// OnResetRequested starts a fresh game. With only one participant present
// the state is cleared but the session keeps waiting for an opponent.
func (s *Session) OnResetRequested(connID string) error {
	if _, ok := s.registry.RoleOf(connID); !ok {
		return fmt.Errorf("%w: reset from connection without a role", domain.ErrInvalidSender)
	}

	if s.registry.Full() {
		s.chat.Clear()
		s.start()
		return nil
	}

	s.Game.Reset()
	s.chat.Clear()
	s.Phase = domain.PhaseWaiting
	s.conn.ToConnection(connID, domain.NewWaiting())
	return nil
}

// OnParticipantLeft is called after the registry released role.
func (s *Session) OnParticipantLeft(role domain.Role) {
	s.Game.Reset()
	s.chat.Clear()

	switch s.registry.Count() {
	case 0:
		s.Phase = domain.PhaseIdle
	case 1:
		s.Phase = domain.PhaseWaiting
		if remaining, ok := s.registry.HolderOf(role.Other()); ok {
			s.conn.ToConnection(remaining, domain.NewOpponentLeft(role))
			s.conn.ToConnection(remaining, domain.NewWaiting())
		}
	}
}

func (s *Session) Snapshot() domain.SessionView {
	return domain.SessionView{
		RoomID:      s.RoomID,
		Phase:       s.Phase,
		Board:       s.Game.Board,
		CurrentTurn: s.Game.CurrentTurn,
		Outcome:     s.Game.Outcome,
		RoleMap:     s.registry.RoleMap(),
		ChatLog:     s.chat.Snapshot(),
		Connections: s.registry.Count(),
	}
}

func (s *Session) start() {
	s.Game.Reset()
	s.Phase = domain.PhaseActive
	s.StartedAt = s.now()

	s.conn.ToRoom(s.RoomID, domain.ServerMessage{
		Type: domain.EventSessionStart,
		Payload: domain.SessionStartPayload{
			Board:       s.Game.Board,
			CurrentTurn: s.Game.CurrentTurn,
			RoleMap:     s.registry.RoleMap(),
			ChatLog:     s.chat.Snapshot(),
		},
	})
}
