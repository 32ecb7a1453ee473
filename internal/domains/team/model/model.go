package model

import (
	"time"

	"github.com/google/uuid"
)

// Team groups users behind a single balance. The balance is the
// economic unit for trades: only trade settlement or an admin edit
// may change it.
type Team struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`

	Balance int64 `json:"balance"`

	CreatorID uuid.UUID   `json:"creator_id"`
	MemberIDs []uuid.UUID `json:"member_ids"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"` // soft delete
}

func (t *Team) IsDeleted() bool {
	return t.DeletedAt != nil
}

// HasMember reports whether the user id is in the member set.
func (t *Team) HasMember(userID uuid.UUID) bool {
	for _, id := range t.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
