package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type CreateNFTRequest struct {
	Name   string `json:"name"`
	Image  string `json:"image"`
	Price  int64  `json:"price"`
	Status Status `json:"status"`
}

func (r CreateNFTRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Image, validation.Required, validation.Length(1, 2048)),
		validation.Field(&r.Price, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.Status, validation.Required, validation.In(StatusDraft, StatusPublished, StatusArchived)),
	)
}

type UpdateNFTRequest struct {
	Name   *string `json:"name,omitempty"`
	Image  *string `json:"image,omitempty"`
	Price  *int64  `json:"price,omitempty"`
	Status *Status `json:"status,omitempty"`
}

func (r UpdateNFTRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Image, validation.NilOrNotEmpty, validation.Length(1, 2048)),
		validation.Field(&r.Price, validation.Min(int64(1))),
		validation.Field(&r.Status, validation.In(StatusDraft, StatusPublished, StatusArchived)),
	)
}

type NFTDTO struct {
	ID               uuid.UUID   `json:"id"`
	Name             string      `json:"name"`
	Image            string      `json:"image"`
	Price            int64       `json:"price"`
	OwnerID          uuid.UUID   `json:"owner_id"`
	Status           Status      `json:"status"`
	CollectionID     *uuid.UUID  `json:"collection_id,omitempty"`
	PreviousOwnerIDs []uuid.UUID `json:"previous_owner_ids"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

func (n *NFT) ToDTO() *NFTDTO {
	history := n.PreviousOwnerIDs
	if history == nil {
		history = []uuid.UUID{}
	}
	return &NFTDTO{
		ID:               n.ID,
		Name:             n.Name,
		Image:            n.Image,
		Price:            n.Price,
		OwnerID:          n.OwnerID,
		Status:           n.Status,
		CollectionID:     n.CollectionID,
		PreviousOwnerIDs: history,
		CreatedAt:        n.CreatedAt,
		UpdatedAt:        n.UpdatedAt,
	}
}
