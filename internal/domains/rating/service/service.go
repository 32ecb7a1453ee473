package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	nftmodel "nft-market-backend/internal/domains/nft/model"
	nftrepo "nft-market-backend/internal/domains/nft/repository"
	"nft-market-backend/internal/domains/rating/model"
	"nft-market-backend/internal/domains/rating/repository"
	teammodel "nft-market-backend/internal/domains/team/model"
	teamrepo "nft-market-backend/internal/domains/team/repository"
	usermodel "nft-market-backend/internal/domains/user/model"
	userrepo "nft-market-backend/internal/domains/user/repository"
	"nft-market-backend/pkg/cache"
	"nft-market-backend/pkg/logger"
)

const (
	topRatedTTL         = 30 * time.Second
	topRatedKeyFmt      = "rank:nfts:%t:%d:%d"
	topRatedInvalidator = "rank:nfts:*"
)

type ratingService struct {
	repo     repository.RatingRepository
	userRepo userrepo.UserRepository
	teamRepo teamrepo.TeamRepository
	nftRepo  nftrepo.NFTRepository
	cache    cache.Cache
}

func NewRatingService(
	repo repository.RatingRepository,
	userRepo userrepo.UserRepository,
	teamRepo teamrepo.TeamRepository,
	nftRepo nftrepo.NFTRepository,
	c cache.Cache,
) ServiceInterface {
	return &ratingService{
		repo:     repo,
		userRepo: userRepo,
		teamRepo: teamRepo,
		nftRepo:  nftRepo,
		cache:    c,
	}
}

func (s *ratingService) CreateRating(ctx context.Context, raterID uuid.UUID, req model.CreateRatingRequest) (*model.RatingDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rater, err := s.userRepo.GetByID(ctx, raterID)
	if err != nil {
		return nil, wrapExternalErr(err)
	}
	if rater.TeamID == nil {
		return nil, model.NewNotInTeamError()
	}

	if _, err := s.nftRepo.GetByID(ctx, req.NFTID); err != nil {
		return nil, wrapExternalErr(err)
	}

	// Ratings must come from outside the owning team.
	team, err := s.teamRepo.GetByID(ctx, *rater.TeamID)
	if err != nil {
		return nil, wrapExternalErr(err)
	}
	for _, memberID := range team.MemberIDs {
		owns, err := s.nftRepo.IsOwner(ctx, req.NFTID, memberID)
		if err != nil {
			return nil, err
		}
		if owns {
			return nil, model.NewOwnTeamNFTError()
		}
	}

	rated, err := s.repo.HasRated(ctx, raterID, req.NFTID)
	if err != nil {
		return nil, err
	}
	if rated {
		return nil, model.NewAlreadyRatedError()
	}

	rating := &model.Rating{
		NFTID:  req.NFTID,
		UserID: raterID,
		Score:  req.Score,
	}
	if err := s.repo.Create(ctx, rating); err != nil {
		if errors.Is(err, model.ErrAlreadyRated) {
			return nil, model.NewAlreadyRatedError()
		}
		return nil, err
	}
	s.invalidateRankings(ctx)

	logger.Info("rating created", map[string]interface{}{
		"rating_id": rating.ID.String(),
		"nft_id":    req.NFTID.String(),
		"user_id":   raterID.String(),
		"score":     req.Score,
	})
	return rating.ToDTO(), nil
}

func (s *ratingService) GetRating(ctx context.Context, id uuid.UUID) (*model.RatingDTO, error) {
	rating, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return rating.ToDTO(), nil
}

func (s *ratingService) UpdateRating(ctx context.Context, actorID, id uuid.UUID, req model.UpdateRatingRequest) (*model.RatingDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rating, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.isAuthorOrAdmin(ctx, actorID, rating) {
		return nil, model.NewUnauthorizedError()
	}

	rating.Score = req.Score
	if err := s.repo.Update(ctx, rating); err != nil {
		return nil, err
	}
	s.invalidateRankings(ctx)
	return rating.ToDTO(), nil
}

func (s *ratingService) DeleteRating(ctx context.Context, actorID, id uuid.UUID) error {
	rating, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.isAuthorOrAdmin(ctx, actorID, rating) {
		return model.NewUnauthorizedError()
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidateRankings(ctx)
	return nil
}

func (s *ratingService) ListRatings(ctx context.Context, offset, limit int) ([]*model.RatingDTO, int, error) {
	ratings, total, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return toDTOs(ratings), total, nil
}

func (s *ratingService) ListByNFT(ctx context.Context, nftID uuid.UUID) ([]*model.RatingDTO, error) {
	if _, err := s.nftRepo.GetByID(ctx, nftID); err != nil {
		return nil, wrapExternalErr(err)
	}

	ratings, err := s.repo.ListByNFT(ctx, nftID)
	if err != nil {
		return nil, err
	}
	return toDTOs(ratings), nil
}

func (s *ratingService) TopRated(ctx context.Context, actorID uuid.UUID, offset, limit int) ([]*model.NFTRating, error) {
	publishedOnly := actorID == uuid.Nil
	key := fmt.Sprintf(topRatedKeyFmt, publishedOnly, offset, limit)

	if s.cache != nil {
		var cached []*model.NFTRating
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	ranks, err := s.repo.TopRated(ctx, offset, limit, publishedOnly)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, ranks, topRatedTTL); err != nil {
			logger.Warn("ranking cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return ranks, nil
}

func (s *ratingService) isAuthorOrAdmin(ctx context.Context, actorID uuid.UUID, rating *model.Rating) bool {
	if actorID == uuid.Nil {
		return false
	}
	if actorID == rating.UserID {
		return true
	}
	admin, err := s.userRepo.IsAdmin(ctx, actorID)
	return err == nil && admin
}

func (s *ratingService) invalidateRankings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, topRatedInvalidator); err != nil {
		logger.Warn("ranking cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}

func toDTOs(ratings []*model.Rating) []*model.RatingDTO {
	dtos := make([]*model.RatingDTO, 0, len(ratings))
	for _, rating := range ratings {
		dtos = append(dtos, rating.ToDTO())
	}
	return dtos
}

func wrapExternalErr(err error) error {
	switch {
	case errors.Is(err, usermodel.ErrUserNotFound):
		return &model.RatingError{
			Code:    usermodel.ErrCodeUserNotFound,
			Message: "user not found",
			Err:     usermodel.ErrUserNotFound,
		}
	case errors.Is(err, nftmodel.ErrNFTNotFound):
		return &model.RatingError{
			Code:    nftmodel.ErrCodeNFTNotFound,
			Message: "nft not found",
			Err:     nftmodel.ErrNFTNotFound,
		}
	case errors.Is(err, teammodel.ErrTeamNotFound):
		return &model.RatingError{
			Code:    teammodel.ErrCodeTeamNotFound,
			Message: "team not found",
			Err:     teammodel.ErrTeamNotFound,
		}
	default:
		return err
	}
}
