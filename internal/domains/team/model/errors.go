package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeTeamNotFound     = "TEA001"
	ErrCodeAlreadyInTeam    = "TEA002"
	ErrCodeNotMember        = "TEA003"
	ErrCodeBalanceAdminOnly = "TEA004"
	ErrCodeUnauthorized     = "TEA005"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrAlreadyInTeam    = errors.New("user already belongs to a team")
	ErrNotMember        = errors.New("user is not a member of the team")
	ErrBalanceAdminOnly = errors.New("only an admin can update the team balance")
	ErrUnauthorized     = errors.New("unauthorized to perform this action")
)

type TeamError struct {
	Code    string
	Message string
	Err     error
}

func (e *TeamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *TeamError) Unwrap() error {
	return e.Err
}

func NewTeamNotFoundError() *TeamError {
	return &TeamError{
		Code:    ErrCodeTeamNotFound,
		Message: "Team not found",
		Err:     ErrTeamNotFound,
	}
}

func NewAlreadyInTeamError() *TeamError {
	return &TeamError{
		Code:    ErrCodeAlreadyInTeam,
		Message: "User already belongs to a team",
		Err:     ErrAlreadyInTeam,
	}
}

func NewNotMemberError() *TeamError {
	return &TeamError{
		Code:    ErrCodeNotMember,
		Message: "User is not a member of the team",
		Err:     ErrNotMember,
	}
}

func NewBalanceAdminOnlyError() *TeamError {
	return &TeamError{
		Code:    ErrCodeBalanceAdminOnly,
		Message: "Only an admin can update the team balance",
		Err:     ErrBalanceAdminOnly,
	}
}

func NewUnauthorizedError(message string) *TeamError {
	return &TeamError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Err:     ErrUnauthorized,
	}
}
