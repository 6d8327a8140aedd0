package uid

import (
	"strings"

	"github.com/google/uuid"
)

// NewConnectionID returns an opaque identifier for a transport connection.
func NewConnectionID() string {
	return "conn-" + shortUUID()
}

func shortUUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
