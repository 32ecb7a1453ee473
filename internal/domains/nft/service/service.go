package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"nft-market-backend/internal/domains/nft/model"
	"nft-market-backend/internal/domains/nft/repository"
	usermodel "nft-market-backend/internal/domains/user/model"
	userrepo "nft-market-backend/internal/domains/user/repository"
	"nft-market-backend/pkg/cache"
	"nft-market-backend/pkg/logger"
)

const collectionRankPattern = "rank:collections:*"

type nftService struct {
	repo     repository.NFTRepository
	userRepo userrepo.UserRepository
	cache    cache.Cache
}

func NewNFTService(repo repository.NFTRepository, userRepo userrepo.UserRepository, c cache.Cache) ServiceInterface {
	return &nftService{
		repo:     repo,
		userRepo: userRepo,
		cache:    c,
	}
}

func (s *nftService) CreateNFT(ctx context.Context, creatorID uuid.UUID, req model.CreateNFTRequest) (*model.NFTDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByID(ctx, creatorID); err != nil {
		return nil, wrapUserErr(err)
	}

	nft := &model.NFT{
		Name:    req.Name,
		Image:   req.Image,
		Price:   req.Price,
		OwnerID: creatorID,
		Status:  req.Status,
	}
	if err := s.repo.Create(ctx, nft); err != nil {
		return nil, err
	}

	logger.Info("nft created", map[string]interface{}{
		"nft_id":   nft.ID.String(),
		"owner_id": creatorID.String(),
		"status":   string(nft.Status),
	})
	return nft.ToDTO(), nil
}

func (s *nftService) GetNFT(ctx context.Context, actorID, id uuid.UUID) (*model.NFTDTO, error) {
	nft, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Anything not published is only visible to its owner or an admin.
	if !nft.IsPublished() && !s.IsOwnerOrAdmin(ctx, actorID, id) {
		return nil, model.NewUnauthorizedError()
	}
	return nft.ToDTO(), nil
}

func (s *nftService) UpdateNFT(ctx context.Context, actorID, id uuid.UUID, req model.UpdateNFTRequest) (*model.NFTDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	nft, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.IsOwnerOrAdmin(ctx, actorID, id) {
		return nil, model.NewNotOwnerError()
	}

	if req.Name != nil {
		nft.Name = *req.Name
	}
	if req.Image != nil {
		nft.Image = *req.Image
	}
	if req.Price != nil {
		nft.Price = *req.Price
	}
	if req.Status != nil {
		if !nft.Status.CanAdvance(*req.Status) {
			return nil, model.NewStatusRegressionError()
		}
		nft.Status = *req.Status
	}

	if err := s.repo.Update(ctx, nft); err != nil {
		return nil, err
	}
	s.invalidateRankings(ctx)
	return nft.ToDTO(), nil
}

func (s *nftService) DeleteNFT(ctx context.Context, actorID, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if !s.IsOwnerOrAdmin(ctx, actorID, id) {
		return model.NewNotOwnerError()
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidateRankings(ctx)

	logger.Info("nft deleted", map[string]interface{}{
		"nft_id":   id.String(),
		"actor_id": actorID.String(),
	})
	return nil
}

func (s *nftService) ListNFTs(ctx context.Context, actorID uuid.UUID, offset, limit int) ([]*model.NFTDTO, int, error) {
	var (
		nfts  []*model.NFT
		total int
		err   error
	)

	// Anonymous callers only ever see the published catalog.
	if actorID == uuid.Nil {
		nfts, total, err = s.repo.ListPublished(ctx, offset, limit)
	} else {
		nfts, total, err = s.repo.List(ctx, offset, limit)
	}
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]*model.NFTDTO, 0, len(nfts))
	for _, nft := range nfts {
		dtos = append(dtos, nft.ToDTO())
	}
	return dtos, total, nil
}

func (s *nftService) ListByCollection(ctx context.Context, actorID, collectionID uuid.UUID) ([]*model.NFTDTO, error) {
	nfts, err := s.repo.ListByCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	admin := false
	if actorID != uuid.Nil {
		admin, _ = s.userRepo.IsAdmin(ctx, actorID)
	}

	dtos := make([]*model.NFTDTO, 0, len(nfts))
	for _, nft := range nfts {
		if !nft.IsPublished() && !admin && nft.OwnerID != actorID {
			continue
		}
		dtos = append(dtos, nft.ToDTO())
	}
	return dtos, nil
}

func (s *nftService) IsOwnerOrAdmin(ctx context.Context, actorID, nftID uuid.UUID) bool {
	if actorID == uuid.Nil || nftID == uuid.Nil {
		return false
	}

	owns, err := s.repo.IsOwner(ctx, nftID, actorID)
	if err == nil && owns {
		return true
	}

	admin, err := s.userRepo.IsAdmin(ctx, actorID)
	return err == nil && admin
}

func (s *nftService) invalidateRankings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, collectionRankPattern); err != nil {
		logger.Warn("ranking cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}

func wrapUserErr(err error) error {
	if errors.Is(err, usermodel.ErrUserNotFound) {
		return &model.NFTError{
			Code:    usermodel.ErrCodeUserNotFound,
			Message: "user not found",
			Err:     usermodel.ErrUserNotFound,
		}
	}
	return err
}
