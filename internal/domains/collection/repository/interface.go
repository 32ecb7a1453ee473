package repository

import (
	"context"

	"github.com/google/uuid"

	"nft-market-backend/internal/domains/collection/model"
)

// CollectionRepository is the persistence boundary for collections.
// All reads exclude soft-deleted rows.
type CollectionRepository interface {
	// Create inserts the collection and stamps collection_id on every
	// referenced item in one transaction. An item that already belongs
	// to a collection aborts the whole insert.
	Create(ctx context.Context, collection *model.Collection) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Collection, error)
	Update(ctx context.Context, collection *model.Collection) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	List(ctx context.Context, offset, limit int) ([]*model.Collection, int, error)
	ListPublished(ctx context.Context, offset, limit int) ([]*model.Collection, int, error)

	// AddNFT appends the item to the collection and stamps its
	// collection_id atomically.
	AddNFT(ctx context.Context, collectionID, nftID uuid.UUID) error

	// TopCollections ranks collections by the summed price of their
	// items, highest first.
	TopCollections(ctx context.Context, offset, limit int, publishedOnly bool) ([]*model.CollectionRank, error)
}
