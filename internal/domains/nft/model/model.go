package model

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a collectible. Transitions are
// one-directional: draft -> published -> archived.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Rank maps each status onto its ordinal position. Unknown statuses
// rank below draft so they can never be transitioned into.
func (s Status) Rank() int {
	switch s {
	case StatusDraft:
		return 0
	case StatusPublished:
		return 1
	case StatusArchived:
		return 2
	default:
		return -1
	}
}

func (s Status) IsValid() bool {
	return s.Rank() >= 0
}

// CanAdvance reports whether the status may move to next.
// Only strictly increasing rank is allowed, never equal or backward.
func (s Status) CanAdvance(next Status) bool {
	return next.IsValid() && next.Rank() > s.Rank()
}

// NFT is a uniquely owned digital collectible.
type NFT struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Image string    `json:"image"`
	Price int64     `json:"price"`

	OwnerID uuid.UUID `json:"owner_id"`
	Status  Status    `json:"status"`

	// Set exactly once, when the item joins a collection.
	CollectionID *uuid.UUID `json:"collection_id,omitempty"`

	// Append-only trade history; the latest previous owner is last.
	PreviousOwnerIDs []uuid.UUID `json:"previous_owner_ids"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"` // soft delete
}

func (n *NFT) IsDeleted() bool {
	return n.DeletedAt != nil
}

func (n *NFT) IsPublished() bool {
	return n.Status == StatusPublished
}

func (n *NFT) IsArchived() bool {
	return n.Status == StatusArchived
}

// InCollection reports whether the item already belongs to a collection.
func (n *NFT) InCollection() bool {
	return n.CollectionID != nil
}
