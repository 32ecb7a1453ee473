package repository

import (
	"context"

	"github.com/google/uuid"

	"nft-market-backend/internal/domains/team/model"
)

// TeamRepository is the data-access contract for teams.
//
// Membership mutations touch both the team row and the users table,
// so Create, SoftDelete, AddMember and RemoveMember commit both
// writes in a single transaction.
type TeamRepository interface {
	// Create inserts the team and assigns the creator to it.
	Create(ctx context.Context, team *model.Team) error

	// GetByID returns a live team.
	// Returns model.ErrTeamNotFound when absent or deleted.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Team, error)

	// Update persists name and balance.
	Update(ctx context.Context, team *model.Team) error

	// SoftDelete stamps deleted_at and releases every member.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// List returns live teams in insertion order.
	List(ctx context.Context, offset, limit int) ([]*model.Team, error)

	// BestSellers orders live teams by balance, descending.
	// Balance only grows through settlement proceeds or admin
	// edits, so it approximates sales volume.
	BestSellers(ctx context.Context, offset, limit int) ([]*model.Team, error)

	// AddMember appends the user to the member set and points the
	// user's team_id at the team.
	AddMember(ctx context.Context, teamID, userID uuid.UUID) error

	// RemoveMember drops the user from the member set and clears
	// the user's team_id.
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error

	// UserHasTeam reports whether the user belongs to any live team.
	UserHasTeam(ctx context.Context, userID uuid.UUID) (bool, error)

	// UserBelongsTo reports whether the user is a member of this team.
	UserBelongsTo(ctx context.Context, userID, teamID uuid.UUID) (bool, error)
}
