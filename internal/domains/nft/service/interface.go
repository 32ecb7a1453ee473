package service

import (
	"context"

	"github.com/google/uuid"

	"nft-market-backend/internal/domains/nft/model"
)

type ServiceInterface interface {
	CreateNFT(ctx context.Context, creatorID uuid.UUID, req model.CreateNFTRequest) (*model.NFTDTO, error)
	GetNFT(ctx context.Context, actorID, id uuid.UUID) (*model.NFTDTO, error)
	UpdateNFT(ctx context.Context, actorID, id uuid.UUID, req model.UpdateNFTRequest) (*model.NFTDTO, error)
	DeleteNFT(ctx context.Context, actorID, id uuid.UUID) error
	ListNFTs(ctx context.Context, actorID uuid.UUID, offset, limit int) ([]*model.NFTDTO, int, error)
	ListByCollection(ctx context.Context, actorID, collectionID uuid.UUID) ([]*model.NFTDTO, error)

	// IsOwnerOrAdmin is a pure predicate: it reports false for missing
	// actors or items and never surfaces an error.
	IsOwnerOrAdmin(ctx context.Context, actorID, nftID uuid.UUID) bool
}
