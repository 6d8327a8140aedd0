package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
)

func newTestTally(t *testing.T) (*Tally, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), mr.Addr(), "")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return NewTally(client), mr
}

func TestTally_RecordAndSummary(t *testing.T) {
	tally, mr := newTestTally(t)
	ctx := context.Background()

	for _, o := range []domain.Outcome{
		domain.WinnerOutcome(domain.RoleX),
		domain.WinnerOutcome(domain.RoleX),
		domain.WinnerOutcome(domain.RoleO),
		domain.OutcomeDraw,
	} {
		require.NoError(t, tally.Record(ctx, domain.Result{Outcome: o}))
	}

	summary, err := tally.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Summary{XWins: 2, OWins: 1, Draws: 1}, summary)
	assert.Equal(t, "2", mr.HGet(tallyKey, "X"))
}

func TestTally_EmptySummary(t *testing.T) {
	tally, _ := newTestTally(t)

	summary, err := tally.Summary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.Total())
}

func TestTally_SummaryFailsWhenServerGone(t *testing.T) {
	tally, mr := newTestTally(t)
	mr.Close()

	_, err := tally.Summary(context.Background())
	assert.Error(t, err)
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), "redis://"+mr.Addr()+"/0", "")
	require.NoError(t, err)
	client.Close()

	_, err = Connect(context.Background(), "127.0.0.1:1", "")
	assert.Error(t, err)
}
