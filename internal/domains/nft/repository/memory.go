package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"nft-market-backend/internal/domains/nft/model"
)

// MemoryNFTRepository is a mutex-guarded in-memory implementation used
// by service tests.
type MemoryNFTRepository struct {
	mu    sync.RWMutex
	nfts  map[uuid.UUID]*model.NFT
	order []uuid.UUID
}

func NewMemoryNFTRepository() *MemoryNFTRepository {
	return &MemoryNFTRepository{
		nfts: make(map[uuid.UUID]*model.NFT),
	}
}

func (r *MemoryNFTRepository) Create(_ context.Context, nft *model.NFT) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	nft.ID = uuid.New()
	nft.CreatedAt = now
	nft.UpdatedAt = now
	if nft.PreviousOwnerIDs == nil {
		nft.PreviousOwnerIDs = []uuid.UUID{}
	}

	r.nfts[nft.ID] = cloneNFT(nft)
	r.order = append(r.order, nft.ID)
	return nil
}

func (r *MemoryNFTRepository) GetByID(_ context.Context, id uuid.UUID) (*model.NFT, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	nft, ok := r.nfts[id]
	if !ok || nft.IsDeleted() {
		return nil, model.ErrNFTNotFound
	}
	return cloneNFT(nft), nil
}

func (r *MemoryNFTRepository) Update(_ context.Context, nft *model.NFT) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.nfts[nft.ID]
	if !ok || stored.IsDeleted() {
		return model.ErrNFTNotFound
	}

	stored.Name = nft.Name
	stored.Image = nft.Image
	stored.Price = nft.Price
	stored.Status = nft.Status
	stored.UpdatedAt = time.Now()
	nft.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *MemoryNFTRepository) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	nft, ok := r.nfts[id]
	if !ok || nft.IsDeleted() {
		return model.ErrNFTNotFound
	}

	now := time.Now()
	nft.DeletedAt = &now
	nft.UpdatedAt = now
	return nil
}

func (r *MemoryNFTRepository) List(_ context.Context, offset, limit int) ([]*model.NFT, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(offset, limit, func(*model.NFT) bool { return true })
}

func (r *MemoryNFTRepository) ListPublished(_ context.Context, offset, limit int) ([]*model.NFT, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(offset, limit, (*model.NFT).IsPublished)
}

// filter assumes the read lock is held.
func (r *MemoryNFTRepository) filter(offset, limit int, keep func(*model.NFT) bool) ([]*model.NFT, int, error) {
	live := make([]*model.NFT, 0)
	for _, id := range r.order {
		nft := r.nfts[id]
		if nft.IsDeleted() || !keep(nft) {
			continue
		}
		live = append(live, nft)
	}

	total := len(live)
	if offset >= total {
		return []*model.NFT{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}

	page := make([]*model.NFT, 0, end-offset)
	for _, nft := range live[offset:end] {
		page = append(page, cloneNFT(nft))
	}
	return page, total, nil
}

func (r *MemoryNFTRepository) ListByCollection(_ context.Context, collectionID uuid.UUID) ([]*model.NFT, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	nfts := make([]*model.NFT, 0)
	for _, id := range r.order {
		nft := r.nfts[id]
		if nft.IsDeleted() || nft.CollectionID == nil || *nft.CollectionID != collectionID {
			continue
		}
		nfts = append(nfts, cloneNFT(nft))
	}
	return nfts, nil
}

func (r *MemoryNFTRepository) IsOwner(_ context.Context, nftID, userID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	nft, ok := r.nfts[nftID]
	if !ok || nft.IsDeleted() {
		return false, nil
	}
	return nft.OwnerID == userID, nil
}

func (r *MemoryNFTRepository) SetCollection(_ context.Context, nftID, collectionID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	nft, ok := r.nfts[nftID]
	if !ok || nft.IsDeleted() {
		return model.ErrNFTNotFound
	}
	if nft.CollectionID != nil {
		return model.ErrAlreadyCollected
	}

	cid := collectionID
	nft.CollectionID = &cid
	nft.UpdatedAt = time.Now()
	return nil
}

// ClearCollection removes a collection stamp again, but only if it
// points at the given collection. Used by the in-memory collection
// repository to roll back a creation that failed halfway.
func (r *MemoryNFTRepository) ClearCollection(nftID, collectionID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	nft, ok := r.nfts[nftID]
	if !ok || nft.CollectionID == nil || *nft.CollectionID != collectionID {
		return
	}
	nft.CollectionID = nil
	nft.UpdatedAt = time.Now()
}

// TransferOwnership appends the current owner to the trade history and
// hands the item to newOwner. Used by the in-memory settlement path.
func (r *MemoryNFTRepository) TransferOwnership(nftID, newOwnerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	nft, ok := r.nfts[nftID]
	if !ok || nft.IsDeleted() {
		return model.ErrNFTNotFound
	}

	nft.PreviousOwnerIDs = append(nft.PreviousOwnerIDs, nft.OwnerID)
	nft.OwnerID = newOwnerID
	nft.UpdatedAt = time.Now()
	return nil
}

func cloneNFT(nft *model.NFT) *model.NFT {
	clone := *nft
	if nft.CollectionID != nil {
		cid := *nft.CollectionID
		clone.CollectionID = &cid
	}
	if nft.PreviousOwnerIDs != nil {
		clone.PreviousOwnerIDs = append([]uuid.UUID(nil), nft.PreviousOwnerIDs...)
	}
	if nft.DeletedAt != nil {
		t := *nft.DeletedAt
		clone.DeletedAt = &t
	}
	return &clone
}
