package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"nft-market-backend/internal/domains/collection/model"
	"nft-market-backend/internal/domains/collection/repository"
	nftmodel "nft-market-backend/internal/domains/nft/model"
	nftrepo "nft-market-backend/internal/domains/nft/repository"
	usermodel "nft-market-backend/internal/domains/user/model"
	userrepo "nft-market-backend/internal/domains/user/repository"
	"nft-market-backend/pkg/cache"
	"nft-market-backend/pkg/logger"
)

const (
	topCollectionsTTL         = 30 * time.Second
	topCollectionsKeyFmt      = "rank:collections:%t:%d:%d"
	topCollectionsInvalidator = "rank:collections:*"
)

type collectionService struct {
	repo     repository.CollectionRepository
	nftRepo  nftrepo.NFTRepository
	userRepo userrepo.UserRepository
	cache    cache.Cache
}

func NewCollectionService(
	repo repository.CollectionRepository,
	nftRepo nftrepo.NFTRepository,
	userRepo userrepo.UserRepository,
	c cache.Cache,
) ServiceInterface {
	return &collectionService{
		repo:     repo,
		nftRepo:  nftRepo,
		userRepo: userRepo,
		cache:    c,
	}
}

func (s *collectionService) CreateCollection(ctx context.Context, creatorID uuid.UUID, req model.CreateCollectionRequest) (*model.CollectionDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByID(ctx, creatorID); err != nil {
		return nil, wrapExternalErr(err)
	}

	// Every referenced item must resolve before anything is written.
	for _, nftID := range req.NFTIDs {
		nft, err := s.nftRepo.GetByID(ctx, nftID)
		if err != nil {
			return nil, wrapExternalErr(err)
		}
		if nft.InCollection() {
			return nil, wrapExternalErr(nftmodel.ErrAlreadyCollected)
		}
	}

	collection := &model.Collection{
		Name:      req.Name,
		Logo:      req.Logo,
		Status:    req.Status,
		CreatorID: creatorID,
		NFTIDs:    req.NFTIDs,
	}
	if err := s.repo.Create(ctx, collection); err != nil {
		return nil, wrapExternalErr(err)
	}
	s.invalidateRankings(ctx)

	logger.Info("collection created", map[string]interface{}{
		"collection_id": collection.ID.String(),
		"creator_id":    creatorID.String(),
		"nft_count":     len(collection.NFTIDs),
	})
	return collection.ToDTO(), nil
}

func (s *collectionService) GetCollection(ctx context.Context, actorID, id uuid.UUID) (*model.CollectionDTO, error) {
	collection, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !collection.IsPublished() && !s.isCreatorOrAdmin(ctx, actorID, collection) {
		return nil, model.NewUnauthorizedError()
	}
	return collection.ToDTO(), nil
}

func (s *collectionService) UpdateCollection(ctx context.Context, actorID, id uuid.UUID, req model.UpdateCollectionRequest) (*model.CollectionDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	collection, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	admin := s.isAdmin(ctx, actorID)
	if actorID != collection.CreatorID && !admin {
		return nil, model.NewUnauthorizedError()
	}
	// Once archived, only an admin may still touch the collection.
	if collection.IsArchived() && !admin {
		return nil, model.NewCollectionArchivedError()
	}

	if req.Name != nil {
		collection.Name = *req.Name
	}
	if req.Logo != nil {
		collection.Logo = *req.Logo
	}
	if req.Status != nil {
		if !collection.Status.CanAdvance(*req.Status) {
			return nil, wrapExternalErr(nftmodel.ErrStatusRegression)
		}
		collection.Status = *req.Status
		if collection.IsArchived() {
			now := time.Now()
			collection.ArchivedAt = &now
		}
	}

	if err := s.repo.Update(ctx, collection); err != nil {
		return nil, err
	}
	s.invalidateRankings(ctx)
	return collection.ToDTO(), nil
}

func (s *collectionService) DeleteCollection(ctx context.Context, actorID, id uuid.UUID) error {
	collection, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.isCreatorOrAdmin(ctx, actorID, collection) {
		return model.NewUnauthorizedError()
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidateRankings(ctx)

	logger.Info("collection deleted", map[string]interface{}{
		"collection_id": id.String(),
		"actor_id":      actorID.String(),
	})
	return nil
}

func (s *collectionService) ListCollections(ctx context.Context, actorID uuid.UUID, offset, limit int) ([]*model.CollectionDTO, int, error) {
	var (
		collections []*model.Collection
		total       int
		err         error
	)
	if actorID == uuid.Nil {
		collections, total, err = s.repo.ListPublished(ctx, offset, limit)
	} else {
		collections, total, err = s.repo.List(ctx, offset, limit)
	}
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]*model.CollectionDTO, 0, len(collections))
	for _, collection := range collections {
		dtos = append(dtos, collection.ToDTO())
	}
	return dtos, total, nil
}

func (s *collectionService) AddNFT(ctx context.Context, actorID, collectionID, nftID uuid.UUID) (*model.CollectionDTO, error) {
	collection, err := s.repo.GetByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if !s.isCreatorOrAdmin(ctx, actorID, collection) {
		return nil, model.NewUnauthorizedError()
	}
	if collection.IsArchived() {
		return nil, model.NewCollectionArchivedError()
	}

	nft, err := s.nftRepo.GetByID(ctx, nftID)
	if err != nil {
		return nil, wrapExternalErr(err)
	}
	if nft.IsArchived() {
		return nil, model.NewNFTArchivedError()
	}
	if nft.InCollection() {
		return nil, wrapExternalErr(nftmodel.ErrAlreadyCollected)
	}

	if err := s.repo.AddNFT(ctx, collectionID, nftID); err != nil {
		return nil, wrapExternalErr(err)
	}
	s.invalidateRankings(ctx)

	return s.GetCollection(ctx, actorID, collectionID)
}

func (s *collectionService) TopCollections(ctx context.Context, actorID uuid.UUID, offset, limit int) ([]*model.CollectionRank, error) {
	publishedOnly := actorID == uuid.Nil
	key := fmt.Sprintf(topCollectionsKeyFmt, publishedOnly, offset, limit)

	if s.cache != nil {
		var cached []*model.CollectionRank
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	ranks, err := s.repo.TopCollections(ctx, offset, limit, publishedOnly)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, ranks, topCollectionsTTL); err != nil {
			logger.Warn("ranking cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return ranks, nil
}

func (s *collectionService) isCreatorOrAdmin(ctx context.Context, actorID uuid.UUID, collection *model.Collection) bool {
	if actorID == uuid.Nil {
		return false
	}
	if actorID == collection.CreatorID {
		return true
	}
	return s.isAdmin(ctx, actorID)
}

func (s *collectionService) isAdmin(ctx context.Context, actorID uuid.UUID) bool {
	if actorID == uuid.Nil {
		return false
	}
	admin, err := s.userRepo.IsAdmin(ctx, actorID)
	return err == nil && admin
}

func (s *collectionService) invalidateRankings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, topCollectionsInvalidator); err != nil {
		logger.Warn("ranking cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}

// wrapExternalErr re-tags errors raised by sibling domains with their
// own business codes so handlers can map them uniformly.
func wrapExternalErr(err error) error {
	switch {
	case errors.Is(err, usermodel.ErrUserNotFound):
		return &model.CollectionError{
			Code:    usermodel.ErrCodeUserNotFound,
			Message: "user not found",
			Err:     usermodel.ErrUserNotFound,
		}
	case errors.Is(err, nftmodel.ErrNFTNotFound):
		return &model.CollectionError{
			Code:    nftmodel.ErrCodeNFTNotFound,
			Message: "nft not found",
			Err:     nftmodel.ErrNFTNotFound,
		}
	case errors.Is(err, nftmodel.ErrStatusRegression):
		return &model.CollectionError{
			Code:    nftmodel.ErrCodeStatusRegression,
			Message: "collection status can only advance",
			Err:     nftmodel.ErrStatusRegression,
		}
	case errors.Is(err, nftmodel.ErrAlreadyCollected):
		return &model.CollectionError{
			Code:    nftmodel.ErrCodeAlreadyCollected,
			Message: "nft already belongs to a collection",
			Err:     nftmodel.ErrAlreadyCollected,
		}
	default:
		return err
	}
}
