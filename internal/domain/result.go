package domain

import "time"

// Result describes a concluded session for the results archive.
type Result struct {
	RoomID     string    `json:"roomId"`
	Outcome    Outcome   `json:"outcome"`
	Board      Board     `json:"board"`
	Moves      int       `json:"moves"`
	Players    RoleMap   `json:"players"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

func (r Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Summary is the running tally of concluded sessions.
type Summary struct {
	XWins int64 `json:"xWins"`
	OWins int64 `json:"oWins"`
	Draws int64 `json:"draws"`
}

func (s Summary) Total() int64 {
	return s.XWins + s.OWins + s.Draws
}

// Add counts one more session with the given outcome.
func (s *Summary) Add(o Outcome) {
	if o == OutcomeDraw {
		s.Draws++
		return
	}
	switch winner, _ := o.Winner(); winner {
	case RoleX:
		s.XWins++
	case RoleO:
		s.OWins++
	}
}
