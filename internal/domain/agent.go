package domain

import "time"

// Role роль сотрудника агентства
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleAgent        Role = "agent"
	RoleCollaborator Role = "collaborator"
)

// IsValid returns true for known roles
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleAgent || r == RoleCollaborator
}

// Agent represents an agency staff member who owns properties and events
type Agent struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	Phone     *string
	Role      Role
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName returns "FirstName LastName"
func (a *Agent) FullName() string {
	return joinName(a.FirstName, a.LastName)
}

// Actor is the authenticated caller as seen by the service.
// Identity comes from the session token and is trusted as-is.
type Actor struct {
	AgentID   int64
	Email     string
	Role      Role
	FirstName string
	LastName  string
}

// IsAdmin returns true if the actor may act on any resource
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanManage returns true if the actor may manage a resource owned by ownerAgentID.
// Admins manage everything, agents and collaborators only their own resources.
func (a Actor) CanManage(ownerAgentID int64) bool {
	if a.IsAdmin() {
		return true
	}
	return a.AgentID > 0 && a.AgentID == ownerAgentID
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
