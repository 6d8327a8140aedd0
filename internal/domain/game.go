package domain

import "fmt"

// Game is the board plus whose turn it is. It knows nothing about
// connections or phases; the session decides when moves are allowed.
type Game struct {
	Board       Board
	CurrentTurn Role
	Outcome     Outcome
	MoveCount   int
}

func NewGame() *Game {
	return &Game{
		Board:       NewBoard(),
		CurrentTurn: RoleX,
		Outcome:     OutcomeNone,
		MoveCount:   0,
	}
}

// Reset clears the board and gives the first move back to X.
func (g *Game) Reset() {
	g.Board = NewBoard()
	g.CurrentTurn = RoleX
	g.Outcome = OutcomeNone
	g.MoveCount = 0
}

// MakeMove places role's mark on cell. The turn only passes to the other
// role when the move does not end the game.
func (g *Game) MakeMove(role Role, cell int) error {
	if g.IsFinished() {
		return fmt.Errorf("%w: game is over", ErrInvalidMove)
	}
	if role != g.CurrentTurn {
		return fmt.Errorf("%w: not %s's turn", ErrInvalidMove, role)
	}
	if !IsValidMove(g.Board, cell) {
		if !InBounds(cell) {
			return fmt.Errorf("%w: cell %d out of range", ErrInvalidMove, cell)
		}
		return fmt.Errorf("%w: cell %d already taken", ErrInvalidMove, cell)
	}

	g.Board[cell] = role
	g.MoveCount++

	g.Outcome = Evaluate(g.Board)
	if g.Outcome.Decided() {
		return nil
	}

	g.CurrentTurn = g.CurrentTurn.Other()
	return nil
}

func (g *Game) IsFinished() bool {
	return g.Outcome.Decided()
}
