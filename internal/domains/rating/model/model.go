package model

import (
	"time"

	"github.com/google/uuid"
)

// Rating is one user's score for one collectible. A user rates a given
// item at most once.
type Rating struct {
	ID     uuid.UUID `json:"id"`
	NFTID  uuid.UUID `json:"nft_id"`
	UserID uuid.UUID `json:"user_id"`
	Score  int       `json:"score"` // 1..5

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

func (r *Rating) IsDeleted() bool {
	return r.DeletedAt != nil
}
