package model

import (
	"time"

	"github.com/google/uuid"
)

// Sale is one settled trade. Rows are immutable once written: the
// settlement that created them already moved the money and the item.
type Sale struct {
	ID       uuid.UUID `json:"id"`
	NFTID    uuid.UUID `json:"nft_id"`
	Price    int64     `json:"price"`
	SellerID uuid.UUID `json:"seller_id"`
	BuyerID  uuid.UUID `json:"buyer_id"`

	CreatedAt time.Time `json:"created_at"`
}

// Settlement carries everything the storage layer needs to execute one
// trade atomically.
type Settlement struct {
	Sale         *Sale
	SellerTeamID uuid.UUID
	BuyerTeamID  uuid.UUID
}
