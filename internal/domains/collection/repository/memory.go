package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"nft-market-backend/internal/domains/collection/model"
	nftrepo "nft-market-backend/internal/domains/nft/repository"
)

// MemoryCollectionRepository is the in-memory implementation used by
// service tests. It keeps the item side of the relation in sync through
// the shared in-memory nft repository.
type MemoryCollectionRepository struct {
	mu          sync.RWMutex
	collections map[uuid.UUID]*model.Collection
	order       []uuid.UUID
	nfts        *nftrepo.MemoryNFTRepository
}

func NewMemoryCollectionRepository(nfts *nftrepo.MemoryNFTRepository) *MemoryCollectionRepository {
	return &MemoryCollectionRepository{
		collections: make(map[uuid.UUID]*model.Collection),
		nfts:        nfts,
	}
}

func (r *MemoryCollectionRepository) Create(ctx context.Context, collection *model.Collection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	collection.ID = uuid.New()
	collection.CreatedAt = now
	collection.UpdatedAt = now
	if collection.NFTIDs == nil {
		collection.NFTIDs = []uuid.UUID{}
	}
	if collection.IsArchived() && collection.ArchivedAt == nil {
		collection.ArchivedAt = &now
	}

	// Stamp items before registering the collection so a conflict
	// leaves no collection behind; a mid-way failure unstamps what was
	// already written, mirroring the transactional rollback of the
	// Postgres path.
	for i, nftID := range collection.NFTIDs {
		if err := r.nfts.SetCollection(ctx, nftID, collection.ID); err != nil {
			for _, stamped := range collection.NFTIDs[:i] {
				r.nfts.ClearCollection(stamped, collection.ID)
			}
			return err
		}
	}

	r.collections[collection.ID] = cloneCollection(collection)
	r.order = append(r.order, collection.ID)
	return nil
}

func (r *MemoryCollectionRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Collection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	collection, ok := r.collections[id]
	if !ok || collection.IsDeleted() {
		return nil, model.ErrCollectionNotFound
	}
	return cloneCollection(collection), nil
}

func (r *MemoryCollectionRepository) Update(_ context.Context, collection *model.Collection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.collections[collection.ID]
	if !ok || stored.IsDeleted() {
		return model.ErrCollectionNotFound
	}

	stored.Name = collection.Name
	stored.Logo = collection.Logo
	stored.Status = collection.Status
	stored.ArchivedAt = collection.ArchivedAt
	stored.UpdatedAt = time.Now()
	collection.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *MemoryCollectionRepository) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	collection, ok := r.collections[id]
	if !ok || collection.IsDeleted() {
		return model.ErrCollectionNotFound
	}

	now := time.Now()
	collection.DeletedAt = &now
	collection.UpdatedAt = now
	return nil
}

func (r *MemoryCollectionRepository) List(_ context.Context, offset, limit int) ([]*model.Collection, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(offset, limit, func(*model.Collection) bool { return true })
}

func (r *MemoryCollectionRepository) ListPublished(_ context.Context, offset, limit int) ([]*model.Collection, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(offset, limit, (*model.Collection).IsPublished)
}

// filter assumes the read lock is held.
func (r *MemoryCollectionRepository) filter(offset, limit int, keep func(*model.Collection) bool) ([]*model.Collection, int, error) {
	live := make([]*model.Collection, 0)
	for _, id := range r.order {
		collection := r.collections[id]
		if collection.IsDeleted() || !keep(collection) {
			continue
		}
		live = append(live, collection)
	}

	total := len(live)
	if offset >= total {
		return []*model.Collection{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}

	page := make([]*model.Collection, 0, end-offset)
	for _, collection := range live[offset:end] {
		page = append(page, cloneCollection(collection))
	}
	return page, total, nil
}

func (r *MemoryCollectionRepository) AddNFT(ctx context.Context, collectionID, nftID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	collection, ok := r.collections[collectionID]
	if !ok || collection.IsDeleted() {
		return model.ErrCollectionNotFound
	}
	if collection.Contains(nftID) {
		return model.ErrAlreadyContains
	}

	if err := r.nfts.SetCollection(ctx, nftID, collectionID); err != nil {
		return err
	}

	collection.NFTIDs = append(collection.NFTIDs, nftID)
	collection.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryCollectionRepository) TopCollections(ctx context.Context, offset, limit int, publishedOnly bool) ([]*model.CollectionRank, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ranks := make([]*model.CollectionRank, 0)
	for _, id := range r.order {
		collection := r.collections[id]
		if collection.IsDeleted() {
			continue
		}
		if publishedOnly && !collection.IsPublished() {
			continue
		}

		total := decimal.Zero
		for _, nftID := range collection.NFTIDs {
			nft, err := r.nfts.GetByID(ctx, nftID)
			if err != nil {
				continue
			}
			total = total.Add(decimal.NewFromInt(nft.Price))
		}
		ranks = append(ranks, &model.CollectionRank{
			Collection: cloneCollection(collection).ToDTO(),
			TotalValue: total,
		})
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].TotalValue.GreaterThan(ranks[j].TotalValue)
	})

	if offset >= len(ranks) {
		return []*model.CollectionRank{}, nil
	}
	end := offset + limit
	if end > len(ranks) {
		end = len(ranks)
	}
	return ranks[offset:end], nil
}

func cloneCollection(collection *model.Collection) *model.Collection {
	clone := *collection
	if collection.NFTIDs != nil {
		clone.NFTIDs = append([]uuid.UUID(nil), collection.NFTIDs...)
	}
	if collection.ArchivedAt != nil {
		t := *collection.ArchivedAt
		clone.ArchivedAt = &t
	}
	if collection.DeletedAt != nil {
		t := *collection.DeletedAt
		clone.DeletedAt = &t
	}
	return &clone
}
