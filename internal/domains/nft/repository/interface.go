package repository

import (
	"context"

	"github.com/google/uuid"

	"nft-market-backend/internal/domains/nft/model"
)

// NFTRepository is the persistence boundary for collectibles.
// All reads exclude soft-deleted rows.
type NFTRepository interface {
	Create(ctx context.Context, nft *model.NFT) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.NFT, error)
	Update(ctx context.Context, nft *model.NFT) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	List(ctx context.Context, offset, limit int) ([]*model.NFT, int, error)
	ListPublished(ctx context.Context, offset, limit int) ([]*model.NFT, int, error)
	ListByCollection(ctx context.Context, collectionID uuid.UUID) ([]*model.NFT, error)

	// IsOwner reports whether userID currently owns the live item.
	IsOwner(ctx context.Context, nftID, userID uuid.UUID) (bool, error)

	// SetCollection stamps the item's collection exactly once.
	SetCollection(ctx context.Context, nftID, collectionID uuid.UUID) error
}
