package domain

import "time"

// Role is the closed set of helpdesk roles carried by a UserProfile.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAgent    Role = "agent"
)

// Valid reports whether r is one of the recognized roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleAgent:
		return true
	default:
		return false
	}
}

// User is an account holder. Username and email are immutable after registration.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserProfile is the 1:1 role record for a User.
type UserProfile struct {
	UserID    string
	Role      Role
	CreatedAt time.Time
	User      *User
}

// IsAgent reports whether the profile carries the agent role.
func (p *UserProfile) IsAgent() bool {
	return p != nil && p.Role == RoleAgent
}
