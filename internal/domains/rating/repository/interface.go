package repository

import (
	"context"

	"github.com/google/uuid"

	"nft-market-backend/internal/domains/rating/model"
)

// RatingRepository is the persistence boundary for ratings.
// All reads exclude soft-deleted rows.
type RatingRepository interface {
	Create(ctx context.Context, rating *model.Rating) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Rating, error)
	Update(ctx context.Context, rating *model.Rating) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	List(ctx context.Context, offset, limit int) ([]*model.Rating, int, error)
	ListByNFT(ctx context.Context, nftID uuid.UUID) ([]*model.Rating, error)

	// HasRated reports whether a live rating by userID for nftID exists.
	HasRated(ctx context.Context, userID, nftID uuid.UUID) (bool, error)

	// TopRated averages scores per item, highest average first.
	TopRated(ctx context.Context, offset, limit int, publishedOnly bool) ([]*model.NFTRating, error)
}
