package model

import (
	"time"

	"github.com/google/uuid"

	nftmodel "nft-market-backend/internal/domains/nft/model"
)

// Collection groups collectibles under one curated catalog entry.
// It shares the item lifecycle enum: draft -> published -> archived.
type Collection struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Logo      string          `json:"logo"`
	Status    nftmodel.Status `json:"status"`
	CreatorID uuid.UUID       `json:"creator_id"`

	// Append-only, no duplicates.
	NFTIDs []uuid.UUID `json:"nft_ids"`

	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"-"`
}

func (c *Collection) IsDeleted() bool {
	return c.DeletedAt != nil
}

func (c *Collection) IsPublished() bool {
	return c.Status == nftmodel.StatusPublished
}

func (c *Collection) IsArchived() bool {
	return c.Status == nftmodel.StatusArchived
}

func (c *Collection) Contains(nftID uuid.UUID) bool {
	for _, id := range c.NFTIDs {
		if id == nftID {
			return true
		}
	}
	return false
}
