package service

import (
	"context"

	"github.com/google/uuid"

	"nft-market-backend/internal/domains/sale/model"
)

type ServiceInterface interface {
	// CreateSale validates the trade and settles it atomically.
	CreateSale(ctx context.Context, req model.CreateSaleRequest) (*model.SaleDTO, error)

	GetSale(ctx context.Context, id uuid.UUID) (*model.SaleDTO, error)
	ListSales(ctx context.Context, offset, limit int) ([]*model.SaleDTO, int, error)
	RecentSales(ctx context.Context, offset, limit int) ([]*model.SaleDTO, error)
	SalesBySeller(ctx context.Context, sellerID uuid.UUID, offset, limit int) ([]*model.SaleDTO, error)
	SalesByBuyer(ctx context.Context, buyerID uuid.UUID, offset, limit int) ([]*model.SaleDTO, error)
}
