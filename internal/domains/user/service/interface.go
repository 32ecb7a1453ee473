package service

import (
	"context"

	"github.com/google/uuid"

	"nft-market-backend/internal/domains/user/model"
)

// ServiceInterface is the business-logic contract for users.
type ServiceInterface interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.RegisterResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)

	GetUser(ctx context.Context, requesterID, id uuid.UUID) (*model.UserDTO, error)
	UpdateUser(ctx context.Context, requesterID, id uuid.UUID, req model.UpdateUserRequest) (*model.UserDTO, error)
	DeleteUser(ctx context.Context, requesterID, id uuid.UUID) error
	ListUsers(ctx context.Context, offset, limit int) ([]model.UserDTO, error)

	// IsSelfOrAdmin is the ownership-or-admin predicate: true iff
	// actorID is non-nil and either equals targetID or resolves to
	// an admin. Never returns an error to the caller.
	IsSelfOrAdmin(ctx context.Context, actorID, targetID uuid.UUID) bool
}
