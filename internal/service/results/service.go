package results

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
)

// Sink stores a concluded session somewhere durable.
type Sink interface {
	Record(ctx context.Context, result domain.Result) error
}

// Summarizer reports the running tally from a durable store.
type Summarizer interface {
	Summary(ctx context.Context) (domain.Summary, error)
}

// Service takes concluded sessions off the room goroutine and hands them to
// the configured sinks from its own worker.
type Service struct {
	queue  chan domain.Result
	sinks  []Sink
	source Summarizer

	mu     sync.Mutex
	memory domain.Summary

	recordTimeout time.Duration
	log           *zap.Logger
}

func NewService(queueSize int, source Summarizer, logger *zap.Logger, sinks ...Sink) *Service {
	if queueSize <= 0 {
		queueSize = 32
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		queue:         make(chan domain.Result, queueSize),
		sinks:         sinks,
		source:        source,
		recordTimeout: 5 * time.Second,
		log:           logger.Named("results"),
	}
}

// Submit queues result without blocking. When the queue is full the result
// only reaches the in-memory tally.
func (s *Service) Submit(result domain.Result) {
	s.mu.Lock()
	s.memory.Add(result.Outcome)
	s.mu.Unlock()

	select {
	case s.queue <- result:
	default:
		s.log.Warn("result queue full, dropping", zap.String("room_id", result.RoomID), zap.String("outcome", string(result.Outcome)))
	}
}

// Run writes queued results until ctx is cancelled, then flushes what is left.
func (s *Service) Run(ctx context.Context) error {
	s.log.Info("results worker started", zap.Int("sinks", len(s.sinks)))
	for {
		select {
		case <-ctx.Done():
			s.flush()
			s.log.Info("results worker stopped")
			return nil
		case result := <-s.queue:
			s.record(context.WithoutCancel(ctx), result)
		}
	}
}

func (s *Service) flush() {
	for {
		select {
		case result := <-s.queue:
			s.record(context.Background(), result)
		default:
			return
		}
	}
}

func (s *Service) record(ctx context.Context, result domain.Result) {
	for _, sink := range s.sinks {
		rctx, cancel := context.WithTimeout(ctx, s.recordTimeout)
		err := sink.Record(rctx, result)
		cancel()
		if err != nil {
			s.log.Error("failed to record result", zap.String("room_id", result.RoomID), zap.Error(err))
		}
	}
}

// Summary prefers the durable tally and falls back to what this process saw.
func (s *Service) Summary(ctx context.Context) domain.Summary {
	if s.source != nil {
		summary, err := s.source.Summary(ctx)
		if err == nil {
			return summary
		}
		s.log.Warn("summary source unavailable, using in-memory tally", zap.Error(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memory
}
