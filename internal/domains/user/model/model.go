package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents a marketplace account.
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`

	PasswordHash string `json:"-"`

	// Wallet address the user's collectibles are minted against.
	BlockchainAddress string `json:"blockchain_address"`

	Role Role `json:"role"`

	// A user belongs to at most one team at a time.
	TeamID *uuid.UUID `json:"team_id,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"` // soft delete
}

// Role is a closed two-variant enumeration.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid reports whether the role is one of the two known variants.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// HasTeam reports whether the user currently belongs to a team.
func (u *User) HasTeam() bool {
	return u.TeamID != nil
}

// Sanitize removes sensitive data before sending to client.
func (u *User) Sanitize() {
	u.PasswordHash = ""
}
