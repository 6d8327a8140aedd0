package redis

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
)

const tallyKey = "tictactoe:tally"

// Tally keeps outcome counters in a single hash.
type Tally struct {
	client *redis.Client
	key    string
}

func NewTally(client *redis.Client) *Tally {
	return &Tally{client: client, key: tallyKey}
}

func (t *Tally) Record(ctx context.Context, result domain.Result) error {
	return t.client.HIncrBy(ctx, t.key, string(result.Outcome), 1).Err()
}

func (t *Tally) Summary(ctx context.Context) (domain.Summary, error) {
	var summary domain.Summary

	fields, err := t.client.HGetAll(ctx, t.key).Result()
	if err != nil {
		return summary, err
	}

	for field, value := range fields {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return summary, err
		}
		switch domain.Outcome(field) {
		case domain.OutcomeDraw:
			summary.Draws = n
		case domain.WinnerOutcome(domain.RoleX):
			summary.XWins = n
		case domain.WinnerOutcome(domain.RoleO):
			summary.OWins = n
		}
	}
	return summary, nil
}
