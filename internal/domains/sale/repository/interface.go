package repository

import (
	"context"

	"github.com/google/uuid"

	"nft-market-backend/internal/domains/sale/model"
)

// SaleRepository is the persistence boundary for settled trades.
type SaleRepository interface {
	// Settle executes one trade atomically: the item's owner moves to
	// the trade history and the buyer takes it, the sale row is
	// inserted, the buyer team is debited and the seller team is
	// credited. A partial settlement never persists.
	Settle(ctx context.Context, settlement *model.Settlement) error

	GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)

	// List orders by price, most expensive first.
	List(ctx context.Context, offset, limit int) ([]*model.Sale, int, error)
	// Recent orders by settlement time, newest first.
	Recent(ctx context.Context, offset, limit int) ([]*model.Sale, error)
	BySeller(ctx context.Context, sellerID uuid.UUID, offset, limit int) ([]*model.Sale, error)
	ByBuyer(ctx context.Context, buyerID uuid.UUID, offset, limit int) ([]*model.Sale, error)
}
