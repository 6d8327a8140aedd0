package chat

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
)

// Log is the append-only message history of the current session.
// Not safe for concurrent use.
type Log struct {
	messages    []domain.ChatMessage
	nextID      int64
	maxLength   int
	maxMessages int
	now         func() time.Time
}

type Option func(*Log)

// WithMaxLength caps message length in runes after trimming. Zero means
// no limit, which is the default.
func WithMaxLength(n int) Option {
	return func(l *Log) { l.maxLength = n }
}

// WithMaxMessages bounds the history; the oldest entries are dropped first.
// Zero keeps everything until Clear, which is the default.
func WithMaxMessages(n int) Option {
	return func(l *Log) { l.maxMessages = n }
}

func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

func New(opts ...Option) *Log {
	l := &Log{now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append records text from author. Ids keep increasing across Clear so a
// client never sees the same id twice.
func (l *Log) Append(author domain.Role, text string) (domain.ChatMessage, error) {
	if !author.Valid() {
		return domain.ChatMessage{}, fmt.Errorf("%w: sender holds no role", domain.ErrInvalidSender)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ChatMessage{}, fmt.Errorf("%w: empty message", domain.ErrInvalidSender)
	}
	if l.maxLength > 0 && utf8.RuneCountInString(text) > l.maxLength {
		return domain.ChatMessage{}, fmt.Errorf("%w: message longer than %d characters", domain.ErrInvalidSender, l.maxLength)
	}

	l.nextID++
	msg := domain.ChatMessage{
		ID:     l.nextID,
		Author: author,
		Text:   text,
		SentAt: l.now().UTC(),
	}

	l.messages = append(l.messages, msg)
	if l.maxMessages > 0 && len(l.messages) > l.maxMessages {
		l.messages = l.messages[len(l.messages)-l.maxMessages:]
	}
	return msg, nil
}

func (l *Log) Clear() {
	l.messages = nil
}

// Snapshot returns the history oldest first. Never nil, so it encodes as [].
func (l *Log) Snapshot() []domain.ChatMessage {
	out := make([]domain.ChatMessage, len(l.messages))
	copy(out, l.messages)
	return out
}

func (l *Log) Len() int {
	return len(l.messages)
}
