package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	nftrepo "nft-market-backend/internal/domains/nft/repository"
	"nft-market-backend/internal/domains/rating/model"
)

// MemoryRatingRepository is the in-memory implementation used by
// service tests.
type MemoryRatingRepository struct {
	mu      sync.RWMutex
	ratings map[uuid.UUID]*model.Rating
	order   []uuid.UUID
	nfts    *nftrepo.MemoryNFTRepository
}

func NewMemoryRatingRepository(nfts *nftrepo.MemoryNFTRepository) *MemoryRatingRepository {
	return &MemoryRatingRepository{
		ratings: make(map[uuid.UUID]*model.Rating),
		nfts:    nfts,
	}
}

func (r *MemoryRatingRepository) Create(_ context.Context, rating *model.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.ratings {
		if !existing.IsDeleted() && existing.UserID == rating.UserID && existing.NFTID == rating.NFTID {
			return model.ErrAlreadyRated
		}
	}

	now := time.Now()
	rating.ID = uuid.New()
	rating.CreatedAt = now
	rating.UpdatedAt = now

	r.ratings[rating.ID] = cloneRating(rating)
	r.order = append(r.order, rating.ID)
	return nil
}

func (r *MemoryRatingRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rating, ok := r.ratings[id]
	if !ok || rating.IsDeleted() {
		return nil, model.ErrRatingNotFound
	}
	return cloneRating(rating), nil
}

func (r *MemoryRatingRepository) Update(_ context.Context, rating *model.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.ratings[rating.ID]
	if !ok || stored.IsDeleted() {
		return model.ErrRatingNotFound
	}

	stored.Score = rating.Score
	stored.UpdatedAt = time.Now()
	rating.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *MemoryRatingRepository) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rating, ok := r.ratings[id]
	if !ok || rating.IsDeleted() {
		return model.ErrRatingNotFound
	}

	now := time.Now()
	rating.DeletedAt = &now
	rating.UpdatedAt = now
	return nil
}

func (r *MemoryRatingRepository) List(_ context.Context, offset, limit int) ([]*model.Rating, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	live := make([]*model.Rating, 0)
	for _, id := range r.order {
		rating := r.ratings[id]
		if rating.IsDeleted() {
			continue
		}
		live = append(live, rating)
	}

	total := len(live)
	if offset >= total {
		return []*model.Rating{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}

	page := make([]*model.Rating, 0, end-offset)
	for _, rating := range live[offset:end] {
		page = append(page, cloneRating(rating))
	}
	return page, total, nil
}

func (r *MemoryRatingRepository) ListByNFT(_ context.Context, nftID uuid.UUID) ([]*model.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ratings := make([]*model.Rating, 0)
	for _, id := range r.order {
		rating := r.ratings[id]
		if rating.IsDeleted() || rating.NFTID != nftID {
			continue
		}
		ratings = append(ratings, cloneRating(rating))
	}
	return ratings, nil
}

func (r *MemoryRatingRepository) HasRated(_ context.Context, userID, nftID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rating := range r.ratings {
		if !rating.IsDeleted() && rating.UserID == userID && rating.NFTID == nftID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRatingRepository) TopRated(ctx context.Context, offset, limit int, publishedOnly bool) ([]*model.NFTRating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type bucket struct {
		sum   int
		count int
	}
	buckets := make(map[uuid.UUID]*bucket)
	keys := make([]uuid.UUID, 0)

	for _, id := range r.order {
		rating := r.ratings[id]
		if rating.IsDeleted() {
			continue
		}
		if publishedOnly {
			nft, err := r.nfts.GetByID(ctx, rating.NFTID)
			if err != nil || !nft.IsPublished() {
				continue
			}
		}

		b, ok := buckets[rating.NFTID]
		if !ok {
			b = &bucket{}
			buckets[rating.NFTID] = b
			keys = append(keys, rating.NFTID)
		}
		b.sum += rating.Score
		b.count++
	}

	ranks := make([]*model.NFTRating, 0, len(keys))
	for _, nftID := range keys {
		b := buckets[nftID]
		ranks = append(ranks, &model.NFTRating{
			NFTID:   nftID,
			Average: decimal.NewFromInt(int64(b.sum)).Div(decimal.NewFromInt(int64(b.count))),
			Count:   b.count,
		})
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		if !ranks[i].Average.Equal(ranks[j].Average) {
			return ranks[i].Average.GreaterThan(ranks[j].Average)
		}
		return ranks[i].Count > ranks[j].Count
	})

	if offset >= len(ranks) {
		return []*model.NFTRating{}, nil
	}
	end := offset + limit
	if end > len(ranks) {
		end = len(ranks)
	}
	return ranks[offset:end], nil
}

func cloneRating(rating *model.Rating) *model.Rating {
	clone := *rating
	if rating.DeletedAt != nil {
		t := *rating.DeletedAt
		clone.DeletedAt = &t
	}
	return &clone
}
