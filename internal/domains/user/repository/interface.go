package repository

import (
	"context"

	"github.com/google/uuid"

	"nft-market-backend/internal/domains/user/model"
)

// UserRepository is the data-access contract for users.
// Postgres in production, in-memory in tests.
type UserRepository interface {
	// Create inserts a new user.
	// Returns model.ErrEmailAlreadyExists on a duplicate email.
	Create(ctx context.Context, user *model.User) error

	// GetByID returns a live (non soft-deleted) user.
	// Returns model.ErrUserNotFound when absent or deleted.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByEmail looks a live user up by email, for login.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// Exists reports whether a live user with this id exists.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// Update persists profile fields and team membership.
	Update(ctx context.Context, user *model.User) error

	// SoftDelete stamps deleted_at instead of removing the row.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// List returns live users in insertion order with offset/limit.
	// An offset past the end yields an empty slice, not an error.
	List(ctx context.Context, offset, limit int) ([]*model.User, error)

	// JoinTeam sets the user's team.
	JoinTeam(ctx context.Context, userID, teamID uuid.UUID) error

	// LeaveTeam clears the user's team.
	LeaveTeam(ctx context.Context, userID uuid.UUID) error

	// IsAdmin reports whether the id resolves to a live admin.
	// Unknown ids are simply "not admin", never an error.
	IsAdmin(ctx context.Context, id uuid.UUID) (bool, error)
}
