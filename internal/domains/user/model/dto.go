package model

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

var blockchainAddressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// RegisterRequest creates an account. The password is generated
// server-side and handed back exactly once in the response.
type RegisterRequest struct {
	Email             string `json:"email" binding:"required"`
	Name              string `json:"name" binding:"required"`
	BlockchainAddress string `json:"blockchain_address" binding:"required"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.Email.Error("invalid email format"),
			validation.Length(5, 255),
		),
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(2, 100),
		),
		validation.Field(&r.BlockchainAddress,
			validation.Required.Error("blockchain address is required"),
			validation.Match(blockchainAddressPattern).Error("must be a 0x-prefixed 40 hex digit address"),
		),
	)
}

// RegisterResponse includes the one-time plaintext password.
type RegisterResponse struct {
	User     UserDTO `json:"user"`
	Password string  `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserDTO   `json:"user"`
}

// UpdateUserRequest updates profile fields. Nil means "leave unchanged".
type UpdateUserRequest struct {
	Name              *string `json:"name"`
	Password          *string `json:"password"`
	BlockchainAddress *string `json:"blockchain_address"`
}

func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.When(r.Name != nil, validation.Length(2, 100)),
		),
		validation.Field(&r.Password,
			validation.When(r.Password != nil, validation.Length(8, 128)),
		),
		validation.Field(&r.BlockchainAddress,
			validation.When(r.BlockchainAddress != nil,
				validation.Match(blockchainAddressPattern).Error("must be a 0x-prefixed 40 hex digit address"),
			),
		),
	)
}

// UserDTO is the public representation of a user.
type UserDTO struct {
	ID                uuid.UUID  `json:"id"`
	Email             string     `json:"email"`
	Name              string     `json:"name"`
	BlockchainAddress string     `json:"blockchain_address"`
	Role              string     `json:"role"`
	TeamID            *uuid.UUID `json:"team_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func ToDTO(u *User) UserDTO {
	return UserDTO{
		ID:                u.ID,
		Email:             u.Email,
		Name:              u.Name,
		BlockchainAddress: u.BlockchainAddress,
		Role:              u.Role.String(),
		TeamID:            u.TeamID,
		CreatedAt:         u.CreatedAt,
	}
}
