package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	nftmodel "nft-market-backend/internal/domains/nft/model"
	nftrepo "nft-market-backend/internal/domains/nft/repository"
	"nft-market-backend/internal/domains/sale/model"
	"nft-market-backend/internal/domains/sale/repository"
	teamrepo "nft-market-backend/internal/domains/team/repository"
	usermodel "nft-market-backend/internal/domains/user/model"
	userrepo "nft-market-backend/internal/domains/user/repository"
	"nft-market-backend/pkg/cache"
	"nft-market-backend/pkg/logger"
)

const teamRankInvalidator = "rank:teams:*"

type saleService struct {
	repo     repository.SaleRepository
	userRepo userrepo.UserRepository
	nftRepo  nftrepo.NFTRepository
	teamRepo teamrepo.TeamRepository
	cache    cache.Cache
}

func NewSaleService(
	repo repository.SaleRepository,
	userRepo userrepo.UserRepository,
	nftRepo nftrepo.NFTRepository,
	teamRepo teamrepo.TeamRepository,
	c cache.Cache,
) ServiceInterface {
	return &saleService{
		repo:     repo,
		userRepo: userRepo,
		nftRepo:  nftRepo,
		teamRepo: teamRepo,
		cache:    c,
	}
}

// CreateSale runs the settlement preconditions in a fixed order, first
// failure wins, then hands the trade to the repository for atomic
// execution.
func (s *saleService) CreateSale(ctx context.Context, req model.CreateSaleRequest) (*model.SaleDTO, error) {
	if req.Price <= 0 {
		return nil, model.NewInvalidPriceError()
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	seller, err := s.userRepo.GetByID(ctx, req.SellerID)
	if err != nil {
		return nil, wrapExternalErr(err)
	}
	buyer, err := s.userRepo.GetByID(ctx, req.BuyerID)
	if err != nil {
		return nil, wrapExternalErr(err)
	}

	nft, err := s.nftRepo.GetByID(ctx, req.NFTID)
	if err != nil {
		// An unknown item reads as the seller not owning it; anything
		// else is a backend failure and must not turn into a 4xx.
		if errors.Is(err, nftmodel.ErrNFTNotFound) {
			return nil, model.NewNotNFTOwnerError()
		}
		return nil, err
	}
	if nft.OwnerID != seller.ID {
		return nil, model.NewNotNFTOwnerError()
	}

	if seller.TeamID == nil || buyer.TeamID == nil {
		return nil, model.NewNoTeamError()
	}
	sellerTeam, err := s.teamRepo.GetByID(ctx, *seller.TeamID)
	if err != nil {
		return nil, model.NewNoTeamError()
	}
	buyerTeam, err := s.teamRepo.GetByID(ctx, *buyer.TeamID)
	if err != nil {
		return nil, model.NewNoTeamError()
	}

	if sellerTeam.ID == buyerTeam.ID {
		return nil, model.NewSameTeamError()
	}
	if buyerTeam.Balance < req.Price {
		return nil, model.NewInsufficientBalanceError()
	}

	sale := &model.Sale{
		NFTID:    req.NFTID,
		Price:    req.Price,
		SellerID: seller.ID,
		BuyerID:  buyer.ID,
	}
	settlement := &model.Settlement{
		Sale:         sale,
		SellerTeamID: sellerTeam.ID,
		BuyerTeamID:  buyerTeam.ID,
	}
	if err := s.repo.Settle(ctx, settlement); err != nil {
		return nil, wrapSettleErr(err)
	}
	s.invalidateRankings(ctx)

	logger.Info("sale settled", map[string]interface{}{
		"sale_id":   sale.ID.String(),
		"nft_id":    sale.NFTID.String(),
		"price":     sale.Price,
		"seller_id": sale.SellerID.String(),
		"buyer_id":  sale.BuyerID.String(),
	})
	return sale.ToDTO(), nil
}

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*model.SaleDTO, error) {
	sale, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrSaleNotFound) {
			return nil, model.NewSaleNotFoundError()
		}
		return nil, err
	}
	return sale.ToDTO(), nil
}

func (s *saleService) ListSales(ctx context.Context, offset, limit int) ([]*model.SaleDTO, int, error) {
	sales, total, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return toDTOs(sales), total, nil
}

func (s *saleService) RecentSales(ctx context.Context, offset, limit int) ([]*model.SaleDTO, error) {
	sales, err := s.repo.Recent(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return toDTOs(sales), nil
}

func (s *saleService) SalesBySeller(ctx context.Context, sellerID uuid.UUID, offset, limit int) ([]*model.SaleDTO, error) {
	sales, err := s.repo.BySeller(ctx, sellerID, offset, limit)
	if err != nil {
		return nil, err
	}
	return toDTOs(sales), nil
}

func (s *saleService) SalesByBuyer(ctx context.Context, buyerID uuid.UUID, offset, limit int) ([]*model.SaleDTO, error) {
	sales, err := s.repo.ByBuyer(ctx, buyerID, offset, limit)
	if err != nil {
		return nil, err
	}
	return toDTOs(sales), nil
}

func (s *saleService) invalidateRankings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, teamRankInvalidator); err != nil {
		logger.Warn("ranking cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}

func toDTOs(sales []*model.Sale) []*model.SaleDTO {
	dtos := make([]*model.SaleDTO, 0, len(sales))
	for _, sale := range sales {
		dtos = append(dtos, sale.ToDTO())
	}
	return dtos
}

func wrapExternalErr(err error) error {
	switch {
	case errors.Is(err, usermodel.ErrUserNotFound):
		return &model.SaleError{
			Code:    usermodel.ErrCodeUserNotFound,
			Message: "user not found",
			Err:     usermodel.ErrUserNotFound,
		}
	case errors.Is(err, nftmodel.ErrNFTNotFound):
		return &model.SaleError{
			Code:    nftmodel.ErrCodeNFTNotFound,
			Message: "nft not found",
			Err:     nftmodel.ErrNFTNotFound,
		}
	default:
		return err
	}
}

// wrapSettleErr re-tags guard failures surfaced by the atomic
// settlement itself, where a concurrent writer won the race.
func wrapSettleErr(err error) error {
	switch {
	case errors.Is(err, model.ErrNotNFTOwner):
		return model.NewNotNFTOwnerError()
	case errors.Is(err, model.ErrInsufficientBalance):
		return model.NewInsufficientBalanceError()
	case errors.Is(err, model.ErrNoTeam):
		return model.NewNoTeamError()
	default:
		return err
	}
}
