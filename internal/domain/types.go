package domain

// Role is the mark a participant plays with. The first admitted
// participant plays X, the second plays O.
type Role string

const (
	RoleNone Role = ""
	RoleX    Role = "X"
	RoleO    Role = "O"
)

// Other returns the opposing role. RoleNone has no opponent.
func (r Role) Other() Role {
	switch r {
	case RoleX:
		return RoleO
	case RoleO:
		return RoleX
	default:
		return RoleNone
	}
}

func (r Role) Valid() bool {
	return r == RoleX || r == RoleO
}

// IsFirst reports whether r moves first in a fresh session.
func (r Role) IsFirst() bool {
	return r == RoleX
}

// Roles lists the assignable roles in admission order.
var Roles = [2]Role{RoleX, RoleO}

const (
	Rows    = 3
	Columns = 3
	Cells   = Rows * Columns
)

// to represent the lifecycle of the room's session
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseWaiting   Phase = "waiting"
	PhaseActive    Phase = "active"
	PhaseConcluded Phase = "concluded"
)

// Outcome is the terminal result of a session: the winning role's mark,
// "draw", or empty while the game is still open.
type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeDraw Outcome = "draw"
)

func WinnerOutcome(r Role) Outcome {
	return Outcome(r)
}

// Winner returns the winning role, if the outcome names one.
func (o Outcome) Winner() (Role, bool) {
	r := Role(o)
	if r.Valid() {
		return r, true
	}
	return RoleNone, false
}

func (o Outcome) Decided() bool {
	return o != OutcomeNone
}

// basic errors that can occur while handling an intent
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrFull          Error = "room is full"
	ErrInvalidMove   Error = "invalid move"
	ErrInvalidSender Error = "invalid sender"
	ErrUnknownIntent Error = "unknown intent"
)
