package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateRatingRequest struct {
	NFTID uuid.UUID `json:"nft_id"`
	Score int       `json:"score"`
}

func (r CreateRatingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.NFTID, validation.By(requireUUID(r.NFTID))),
		validation.Field(&r.Score, validation.Required, validation.Min(1), validation.Max(5)),
	)
}

type UpdateRatingRequest struct {
	Score int `json:"score"`
}

func (r UpdateRatingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Score, validation.Required, validation.Min(1), validation.Max(5)),
	)
}

func requireUUID(id uuid.UUID) validation.RuleFunc {
	return func(interface{}) error {
		if id == uuid.Nil {
			return validation.NewError("validation_required", "cannot be blank")
		}
		return nil
	}
}

type RatingDTO struct {
	ID        uuid.UUID `json:"id"`
	NFTID     uuid.UUID `json:"nft_id"`
	UserID    uuid.UUID `json:"user_id"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Rating) ToDTO() *RatingDTO {
	return &RatingDTO{
		ID:        r.ID,
		NFTID:     r.NFTID,
		UserID:    r.UserID,
		Score:     r.Score,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// NFTRating is one row of the score ranking: an item with its average
// score and how many ratings produced it.
type NFTRating struct {
	NFTID   uuid.UUID       `json:"nft_id"`
	Average decimal.Decimal `json:"average"`
	Count   int             `json:"count"`
}
