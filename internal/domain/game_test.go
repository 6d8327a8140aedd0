package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGame_MakeMoveAlternatesTurns(t *testing.T) {
	g := NewGame()

	require.NoError(t, g.MakeMove(RoleX, 4))
	assert.Equal(t, RoleO, g.CurrentTurn)
	require.NoError(t, g.MakeMove(RoleO, 0))
	assert.Equal(t, RoleX, g.CurrentTurn)
	assert.Equal(t, 2, g.MoveCount)
	assert.Equal(t, RoleX, g.Board[4])
	assert.Equal(t, RoleO, g.Board[0])
}

func TestGame_RejectsInvalidMoves(t *testing.T) {
	cases := []struct {
		name string
		role Role
		cell int
	}{
		{name: "out of turn", role: RoleO, cell: 1},
		{name: "negative cell", role: RoleX, cell: -1},
		{name: "cell past end", role: RoleX, cell: Cells},
		{name: "occupied cell", role: RoleX, cell: 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewGame()
			g.Board[4] = RoleO
			before := *g

			err := g.MakeMove(tc.role, tc.cell)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidMove))
			assert.Equal(t, before, *g, "rejected move must not mutate the game")
		})
	}
}

func TestIsValidMove(t *testing.T) {
	b := NewBoard()
	b[4] = RoleX

	assert.True(t, IsValidMove(b, 0))
	assert.True(t, IsValidMove(b, 8))
	assert.False(t, IsValidMove(b, 4))
	assert.False(t, IsValidMove(b, -1))
	assert.False(t, IsValidMove(b, Cells))
}

func TestGame_WinStopsTurnAndFreezes(t *testing.T) {
	g := NewGame()
	moves := []struct {
		role Role
		cell int
	}{
		{RoleX, 0}, {RoleO, 3}, {RoleX, 1}, {RoleO, 4}, {RoleX, 2},
	}
	for _, m := range moves {
		require.NoError(t, g.MakeMove(m.role, m.cell))
	}

	assert.True(t, g.IsFinished())
	assert.Equal(t, WinnerOutcome(RoleX), g.Outcome)
	assert.Equal(t, RoleX, g.CurrentTurn, "turn does not flip on the winning move")

	err := g.MakeMove(RoleO, 8)
	assert.ErrorIs(t, err, ErrInvalidMove)
	assert.Equal(t, RoleNone, g.Board[8])
}

func TestGame_Reset(t *testing.T) {
	g := NewGame()
	require.NoError(t, g.MakeMove(RoleX, 0))
	g.Reset()

	assert.Equal(t, NewBoard(), g.Board)
	assert.Equal(t, RoleX, g.CurrentTurn)
	assert.Equal(t, OutcomeNone, g.Outcome)
	assert.Zero(t, g.MoveCount)
}

func TestBoard_JSONUsesNullForEmptyCells(t *testing.T) {
	var b Board
	b[0] = RoleX
	b[8] = RoleO

	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `["X",null,null,null,null,null,null,null,"O"]`, string(data))

	var decoded Board
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, b, decoded)
}

func TestBoard_UnmarshalRejectsBadInput(t *testing.T) {
	var b Board
	assert.Error(t, json.Unmarshal([]byte(`[null,null]`), &b))
	assert.Error(t, json.Unmarshal([]byte(`["Z",null,null,null,null,null,null,null,null]`), &b))
}

func TestRoleOther(t *testing.T) {
	assert.Equal(t, RoleO, RoleX.Other())
	assert.Equal(t, RoleX, RoleO.Other())
	assert.Equal(t, RoleNone, RoleNone.Other())
	assert.True(t, RoleX.IsFirst())
	assert.False(t, RoleO.IsFirst())
}
