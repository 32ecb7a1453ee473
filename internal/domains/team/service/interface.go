package service

import (
	"context"

	"github.com/google/uuid"

	"nft-market-backend/internal/domains/team/model"
)

// ServiceInterface is the business-logic contract for teams.
type ServiceInterface interface {
	CreateTeam(ctx context.Context, creatorID uuid.UUID, req model.CreateTeamRequest) (*model.TeamDTO, error)
	UpdateTeam(ctx context.Context, actorID, id uuid.UUID, req model.UpdateTeamRequest) (*model.TeamDTO, error)
	DeleteTeam(ctx context.Context, actorID, id uuid.UUID) error
	GetTeam(ctx context.Context, id uuid.UUID) (*model.TeamDTO, error)
	ListTeams(ctx context.Context, offset, limit int) ([]model.TeamDTO, error)

	AddMember(ctx context.Context, actorID, teamID, newMemberID uuid.UUID) (*model.TeamDTO, error)
	RemoveMember(ctx context.Context, actorID, teamID, memberID uuid.UUID) (*model.TeamDTO, error)

	// BestSellers ranks teams by balance, descending.
	BestSellers(ctx context.Context, offset, limit int) ([]model.TeamDTO, error)

	// IsMemberOrAdmin reports whether the user belongs to the team
	// or carries the admin role.
	IsMemberOrAdmin(ctx context.Context, userID, teamID uuid.UUID) bool
}
