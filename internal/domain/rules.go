package domain

// Lines holds every winning triple: rows, then columns, then the two
// diagonals. Evaluate scans them in this order.
var Lines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Evaluate returns the winner of the first complete line, OutcomeDraw for a
// full board without one, and OutcomeNone otherwise.
func Evaluate(board Board) Outcome {
	if winner := CheckWin(board); winner != RoleNone {
		return WinnerOutcome(winner)
	}
	if IsBoardFull(board) {
		return OutcomeDraw
	}
	return OutcomeNone
}

func CheckWin(board Board) Role {
	for _, line := range Lines {
		a, b, c := line[0], line[1], line[2]
		if board[a] != RoleNone && board[a] == board[b] && board[b] == board[c] {
			return board[a]
		}
	}
	return RoleNone
}
