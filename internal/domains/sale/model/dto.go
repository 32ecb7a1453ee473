package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type CreateSaleRequest struct {
	NFTID    uuid.UUID `json:"nft_id"`
	Price    int64     `json:"price"`
	SellerID uuid.UUID `json:"seller_id"`
	BuyerID  uuid.UUID `json:"buyer_id"`
}

func (r CreateSaleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.NFTID, validation.By(requireUUID(r.NFTID))),
		validation.Field(&r.SellerID, validation.By(requireUUID(r.SellerID))),
		validation.Field(&r.BuyerID, validation.By(requireUUID(r.BuyerID))),
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

type SaleDTO struct {
	ID        uuid.UUID `json:"id"`
	NFTID     uuid.UUID `json:"nft_id"`
	Price     int64     `json:"price"`
	SellerID  uuid.UUID `json:"seller_id"`
	BuyerID   uuid.UUID `json:"buyer_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Sale) ToDTO() *SaleDTO {
	return &SaleDTO{
		ID:        s.ID,
		NFTID:     s.NFTID,
		Price:     s.Price,
		SellerID:  s.SellerID,
		BuyerID:   s.BuyerID,
		CreatedAt: s.CreatedAt,
	}
}
