package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	nftrepo "nft-market-backend/internal/domains/nft/repository"
	"nft-market-backend/internal/domains/sale/model"
	teamrepo "nft-market-backend/internal/domains/team/repository"
)

// MemorySaleRepository is the in-memory implementation used by service
// tests. Settlement drives the shared in-memory nft and team
// repositories so the cross-domain effects stay observable.
type MemorySaleRepository struct {
	mu    sync.RWMutex
	sales map[uuid.UUID]*model.Sale
	order []uuid.UUID
	nfts  *nftrepo.MemoryNFTRepository
	teams *teamrepo.MemoryTeamRepository
}

func NewMemorySaleRepository(nfts *nftrepo.MemoryNFTRepository, teams *teamrepo.MemoryTeamRepository) *MemorySaleRepository {
	return &MemorySaleRepository{
		sales: make(map[uuid.UUID]*model.Sale),
		nfts:  nfts,
		teams: teams,
	}
}

func (r *MemorySaleRepository) Settle(ctx context.Context, settlement *model.Settlement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sale := settlement.Sale

	// Re-verify the guards the SQL settlement enforces, before any
	// mutation, so a failure leaves every repository untouched.
	owns, err := r.nfts.IsOwner(ctx, sale.NFTID, sale.SellerID)
	if err != nil {
		return err
	}
	if !owns {
		return model.ErrNotNFTOwner
	}
	buyerTeam, err := r.teams.GetByID(ctx, settlement.BuyerTeamID)
	if err != nil {
		return err
	}
	if buyerTeam.Balance < sale.Price {
		return model.ErrInsufficientBalance
	}

	if err := r.nfts.TransferOwnership(sale.NFTID, sale.BuyerID); err != nil {
		return err
	}
	if err := r.teams.AdjustBalances(settlement.SellerTeamID, settlement.BuyerTeamID, sale.Price); err != nil {
		return err
	}

	sale.ID = uuid.New()
	sale.CreatedAt = time.Now()
	r.sales[sale.ID] = cloneSale(sale)
	r.order = append(r.order, sale.ID)
	return nil
}

func (r *MemorySaleRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sale, ok := r.sales[id]
	if !ok {
		return nil, model.ErrSaleNotFound
	}
	return cloneSale(sale), nil
}

func (r *MemorySaleRepository) List(_ context.Context, offset, limit int) ([]*model.Sale, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sales := r.all()
	sort.SliceStable(sales, func(i, j int) bool {
		return sales[i].Price > sales[j].Price
	})
	total := len(sales)
	return paginateSales(sales, offset, limit), total, nil
}

func (r *MemorySaleRepository) Recent(_ context.Context, offset, limit int) ([]*model.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sales := r.all()
	sort.SliceStable(sales, func(i, j int) bool {
		return sales[i].CreatedAt.After(sales[j].CreatedAt)
	})
	return paginateSales(sales, offset, limit), nil
}

func (r *MemorySaleRepository) BySeller(_ context.Context, sellerID uuid.UUID, offset, limit int) ([]*model.Sale, error) {
	return r.filter(offset, limit, func(s *model.Sale) bool { return s.SellerID == sellerID })
}

func (r *MemorySaleRepository) ByBuyer(_ context.Context, buyerID uuid.UUID, offset, limit int) ([]*model.Sale, error) {
	return r.filter(offset, limit, func(s *model.Sale) bool { return s.BuyerID == buyerID })
}

func (r *MemorySaleRepository) filter(offset, limit int, keep func(*model.Sale) bool) ([]*model.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sales := make([]*model.Sale, 0)
	for _, id := range r.order {
		if keep(r.sales[id]) {
			sales = append(sales, cloneSale(r.sales[id]))
		}
	}
	sort.SliceStable(sales, func(i, j int) bool {
		return sales[i].CreatedAt.After(sales[j].CreatedAt)
	})
	return paginateSales(sales, offset, limit), nil
}

// all assumes the read lock is held.
func (r *MemorySaleRepository) all() []*model.Sale {
	sales := make([]*model.Sale, 0, len(r.order))
	for _, id := range r.order {
		sales = append(sales, cloneSale(r.sales[id]))
	}
	return sales
}

func paginateSales(sales []*model.Sale, offset, limit int) []*model.Sale {
	if offset >= len(sales) {
		return []*model.Sale{}
	}
	end := offset + limit
	if end > len(sales) {
		end = len(sales)
	}
	return sales[offset:end]
}

func cloneSale(sale *model.Sale) *model.Sale {
	clone := *sale
	return &clone
}
