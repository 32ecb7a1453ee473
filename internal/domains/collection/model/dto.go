package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	nftmodel "nft-market-backend/internal/domains/nft/model"
)

type CreateCollectionRequest struct {
	Name   string          `json:"name"`
	Logo   string          `json:"logo"`
	Status nftmodel.Status `json:"status"`
	NFTIDs []uuid.UUID     `json:"nft_ids"`
}

func (r CreateCollectionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Logo, validation.Required, validation.Length(1, 2048)),
		validation.Field(&r.Status, validation.Required,
			validation.In(nftmodel.StatusDraft, nftmodel.StatusPublished, nftmodel.StatusArchived)),
		validation.Field(&r.NFTIDs, validation.By(uniqueUUIDs(r.NFTIDs))),
	)
}

// uniqueUUIDs rejects a list naming the same id twice. Membership is
// unique, so a duplicate can never be satisfied.
func uniqueUUIDs(ids []uuid.UUID) validation.RuleFunc {
	return func(interface{}) error {
		seen := make(map[uuid.UUID]struct{}, len(ids))
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				return validation.NewError("validation_duplicate", "must not contain duplicates")
			}
			seen[id] = struct{}{}
		}
		return nil
	}
}

type UpdateCollectionRequest struct {
	Name   *string          `json:"name,omitempty"`
	Logo   *string          `json:"logo,omitempty"`
	Status *nftmodel.Status `json:"status,omitempty"`
}

func (r UpdateCollectionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Logo, validation.NilOrNotEmpty, validation.Length(1, 2048)),
		validation.Field(&r.Status,
			validation.In(nftmodel.StatusDraft, nftmodel.StatusPublished, nftmodel.StatusArchived)),
	)
}

type AddNFTRequest struct {
	NFTID uuid.UUID `json:"nft_id"`
}

func (r AddNFTRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.NFTID, validation.By(func(interface{}) error {
			if r.NFTID == uuid.Nil {
				return validation.NewError("validation_required", "cannot be blank")
			}
			return nil
		})),
	)
}

type CollectionDTO struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Logo       string          `json:"logo"`
	Status     nftmodel.Status `json:"status"`
	CreatorID  uuid.UUID       `json:"creator_id"`
	NFTIDs     []uuid.UUID     `json:"nft_ids"`
	ArchivedAt *time.Time      `json:"archived_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (c *Collection) ToDTO() *CollectionDTO {
	ids := c.NFTIDs
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return &CollectionDTO{
		ID:         c.ID,
		Name:       c.Name,
		Logo:       c.Logo,
		Status:     c.Status,
		CreatorID:  c.CreatorID,
		NFTIDs:     ids,
		ArchivedAt: c.ArchivedAt,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// CollectionRank is one row of the value ranking: a collection plus the
// summed price of its items.
type CollectionRank struct {
	Collection *CollectionDTO  `json:"collection"`
	TotalValue decimal.Decimal `json:"total_value"`
}
