package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type CreateTeamRequest struct {
	Name    string `json:"name" binding:"required"`
	Balance int64  `json:"balance"`
}

func (r CreateTeamRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(2, 100),
		),
		validation.Field(&r.Balance,
			validation.Min(int64(0)).Error("balance cannot be negative"),
		),
	)
}

// UpdateTeamRequest updates team fields. A non-nil Balance is an
// admin-only operation.
type UpdateTeamRequest struct {
	Name    *string `json:"name"`
	Balance *int64  `json:"balance"`
}

func (r UpdateTeamRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.When(r.Name != nil, validation.Length(2, 100)),
		),
	)
}

type AddMemberRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

type TeamDTO struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Balance   int64       `json:"balance"`
	CreatorID uuid.UUID   `json:"creator_id"`
	MemberIDs []uuid.UUID `json:"member_ids"`
	CreatedAt time.Time   `json:"created_at"`
}

func ToDTO(t *Team) TeamDTO {
	return TeamDTO{
		ID:        t.ID,
		Name:      t.Name,
		Balance:   t.Balance,
		CreatorID: t.CreatorID,
		MemberIDs: t.MemberIDs,
		CreatedAt: t.CreatedAt,
	}
}
