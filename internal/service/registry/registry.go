package registry

import "github.com/iamasit07/tic-tac-toe/backend/internal/domain"

// Registry tracks which connection holds which role in the room.
// It is not safe for concurrent use; the room goroutine owns it.
type Registry struct {
	roles   map[string]domain.Role // connID → role
	holders map[domain.Role]string // role → connID
}

func New() *Registry {
	return &Registry{
		roles:   make(map[string]domain.Role),
		holders: make(map[domain.Role]string),
	}
}

// Admit binds connID to the next free role, X before O. A connection that
// already holds a role keeps it.
func (r *Registry) Admit(connID string) (domain.Role, error) {
	if role, ok := r.roles[connID]; ok {
		return role, nil
	}

	for _, role := range domain.Roles {
		if _, taken := r.holders[role]; taken {
			continue
		}
		r.roles[connID] = role
		r.holders[role] = connID
		return role, nil
	}

	return domain.RoleNone, domain.ErrFull
}

// Release frees the role held by connID. Unknown connections are a no-op.
func (r *Registry) Release(connID string) (domain.Role, bool) {
	role, ok := r.roles[connID]
	if !ok {
		return domain.RoleNone, false
	}
	delete(r.roles, connID)
	delete(r.holders, role)
	return role, true
}

func (r *Registry) RoleOf(connID string) (domain.Role, bool) {
	role, ok := r.roles[connID]
	return role, ok
}

func (r *Registry) HolderOf(role domain.Role) (string, bool) {
	connID, ok := r.holders[role]
	return connID, ok
}

func (r *Registry) Count() int {
	return len(r.roles)
}

func (r *Registry) Full() bool {
	return len(r.roles) == len(domain.Roles)
}

// RoleMap returns a copy safe to hand to other goroutines.
func (r *Registry) RoleMap() domain.RoleMap {
	out := make(domain.RoleMap, len(r.roles))
	for connID, role := range r.roles {
		out[connID] = role
	}
	return out
}

// Connections lists admitted connection ids in role order.
func (r *Registry) Connections() []string {
	out := make([]string, 0, len(r.roles))
	for _, role := range domain.Roles {
		if connID, ok := r.holders[role]; ok {
			out = append(out, connID)
		}
	}
	return out
}
