package service

import (
	"context"

	"github.com/google/uuid"

	"nft-market-backend/internal/domains/collection/model"
)

type ServiceInterface interface {
	CreateCollection(ctx context.Context, creatorID uuid.UUID, req model.CreateCollectionRequest) (*model.CollectionDTO, error)
	GetCollection(ctx context.Context, actorID, id uuid.UUID) (*model.CollectionDTO, error)
	UpdateCollection(ctx context.Context, actorID, id uuid.UUID, req model.UpdateCollectionRequest) (*model.CollectionDTO, error)
	DeleteCollection(ctx context.Context, actorID, id uuid.UUID) error
	ListCollections(ctx context.Context, actorID uuid.UUID, offset, limit int) ([]*model.CollectionDTO, int, error)

	AddNFT(ctx context.Context, actorID, collectionID, nftID uuid.UUID) (*model.CollectionDTO, error)
	TopCollections(ctx context.Context, actorID uuid.UUID, offset, limit int) ([]*model.CollectionRank, error)
}
