package service

import (
	"context"

	"github.com/google/uuid"

	"nft-market-backend/internal/domains/rating/model"
)

type ServiceInterface interface {
	CreateRating(ctx context.Context, raterID uuid.UUID, req model.CreateRatingRequest) (*model.RatingDTO, error)
	GetRating(ctx context.Context, id uuid.UUID) (*model.RatingDTO, error)
	UpdateRating(ctx context.Context, actorID, id uuid.UUID, req model.UpdateRatingRequest) (*model.RatingDTO, error)
	DeleteRating(ctx context.Context, actorID, id uuid.UUID) error
	ListRatings(ctx context.Context, offset, limit int) ([]*model.RatingDTO, int, error)
	ListByNFT(ctx context.Context, nftID uuid.UUID) ([]*model.RatingDTO, error)

	TopRated(ctx context.Context, actorID uuid.UUID, offset, limit int) ([]*model.NFTRating, error)
}
