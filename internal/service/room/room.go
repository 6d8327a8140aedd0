package room

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
	"github.com/iamasit07/tic-tac-toe/backend/internal/service/chat"
	"github.com/iamasit07/tic-tac-toe/backend/internal/service/game"
	"github.com/iamasit07/tic-tac-toe/backend/internal/service/registry"
)

var ErrClosed = errors.New("room closed")

// Dispatcher delivers events and tracks which connections belong to a room.
type Dispatcher interface {
	game.Dispatcher
	Subscribe(roomID, connID string)
	Unsubscribe(roomID, connID string)
}

// Recorder receives concluded sessions. Submit must not block.
type Recorder interface {
	Submit(result domain.Result)
}

type Options struct {
	// AutoJoin admits connections as soon as they connect instead of
	// waiting for a join intent.
	AutoJoin  bool
	InboxSize int
	// Chat limits are off when zero.
	ChatMaxLength   int
	ChatMaxMessages int
}

// Room is the lifecycle controller for the single game room. Every state
// change happens on the goroutine running Run, in inbox order.
type Room struct {
	id       string
	inbox    chan Msg
	done     chan struct{}
	autoJoin bool

	registry *registry.Registry
	session  *game.Session
	conn     Dispatcher
	recorder Recorder
	log      *zap.Logger
}

func New(id string, conn Dispatcher, recorder Recorder, logger *zap.Logger, opts Options) *Room {
	if opts.InboxSize <= 0 {
		opts.InboxSize = 64
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	chatOpts := []chat.Option{}
	if opts.ChatMaxLength > 0 {
		chatOpts = append(chatOpts, chat.WithMaxLength(opts.ChatMaxLength))
	}
	if opts.ChatMaxMessages > 0 {
		chatOpts = append(chatOpts, chat.WithMaxMessages(opts.ChatMaxMessages))
	}

	reg := registry.New()
	return &Room{
		id:       id,
		inbox:    make(chan Msg, opts.InboxSize),
		done:     make(chan struct{}),
		autoJoin: opts.AutoJoin,
		registry: reg,
		session:  game.NewSession(id, reg, chat.New(chatOpts...), conn),
		conn:     conn,
		recorder: recorder,
		log:      logger.Named("room").With(zap.String("room_id", id)),
	}
}

func (r *Room) ID() string { return r.id }

// Run processes the inbox until ctx is cancelled.
func (r *Room) Run(ctx context.Context) error {
	defer close(r.done)
	r.log.Info("room loop started")

	for {
		select {
		case <-ctx.Done():
			r.log.Info("room loop stopped")
			return nil
		case msg := <-r.inbox:
			r.handle(msg)
		}
	}
}

// Send queues msg for the room goroutine, waiting for inbox space.
func (r *Room) Send(ctx context.Context, msg Msg) error {
	select {
	case r.inbox <- msg:
		return nil
	case <-r.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns a snapshot taken on the room goroutine.
func (r *Room) State(ctx context.Context) (domain.SessionView, error) {
	reply := make(chan domain.SessionView, 1)
	if err := r.Send(ctx, GetState{Reply: reply}); err != nil {
		return domain.SessionView{}, err
	}
	select {
	case view := <-reply:
		return view, nil
	case <-r.done:
		return domain.SessionView{}, ErrClosed
	case <-ctx.Done():
		return domain.SessionView{}, ctx.Err()
	}
}

func (r *Room) handle(m Msg) {
	switch msg := m.(type) {
	case Connect:
		r.log.Debug("connection opened", zap.String("conn_id", msg.ConnID))
		if r.autoJoin {
			r.join(msg.ConnID)
		}

	case Join:
		r.join(msg.ConnID)

	case Disconnect:
		r.leave(msg.ConnID)

	case Move:
		result, err := r.session.OnMove(msg.ConnID, msg.Cell)
		if err != nil {
			r.log.Debug("move rejected", zap.String("conn_id", msg.ConnID), zap.Int("cell", msg.Cell), zap.Error(err))
			return
		}
		if result == nil {
			return
		}
		r.log.Info("session concluded",
			zap.String("outcome", string(result.Outcome)),
			zap.Int("moves", result.Moves),
			zap.Duration("duration", result.Duration()))
		if r.recorder != nil {
			r.recorder.Submit(*result)
		}

	case Chat:
		if err := r.session.OnChat(msg.ConnID, msg.Text); err != nil {
			r.log.Debug("chat rejected", zap.String("conn_id", msg.ConnID), zap.Error(err))
		}

	case Reset:
		if err := r.session.OnResetRequested(msg.ConnID); err != nil {
			r.log.Debug("reset rejected", zap.String("conn_id", msg.ConnID), zap.Error(err))
			return
		}
		r.log.Info("session reset", zap.String("conn_id", msg.ConnID), zap.String("phase", string(r.session.Phase)))

	case GetState:
		msg.Reply <- r.session.Snapshot()

	default:
		r.log.Warn("unknown room message", zap.Any("msg", m))
	}
}

func (r *Room) join(connID string) {
	if role, ok := r.registry.RoleOf(connID); ok {
		r.conn.ToConnection(connID, domain.NewRoleAssigned(role))
		return
	}

	role, err := r.registry.Admit(connID)
	if errors.Is(err, domain.ErrFull) {
		r.log.Info("admission rejected, room full", zap.String("conn_id", connID))
		r.conn.ToConnection(connID, domain.NewRoomFull())
		return
	}

	r.log.Info("participant admitted", zap.String("conn_id", connID), zap.String("role", string(role)))
	r.conn.Subscribe(r.id, connID)
	r.conn.ToConnection(connID, domain.NewRoleAssigned(role))
	r.session.OnAdmit(connID, role)
}

func (r *Room) leave(connID string) {
	role, ok := r.registry.Release(connID)
	r.conn.Unsubscribe(r.id, connID)
	if !ok {
		r.log.Debug("connection closed", zap.String("conn_id", connID))
		return
	}

	r.log.Info("participant left", zap.String("conn_id", connID), zap.String("role", string(role)))
	r.session.OnParticipantLeft(role)
}
