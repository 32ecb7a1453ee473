package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeUserNotFound       = "USR001"
	ErrCodeEmailAlreadyExists = "USR002"
	ErrCodeInvalidAddress     = "USR003"
	ErrCodeUnauthorized       = "USR004"
	ErrCodeInvalidCredentials = "USR005"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidAddress     = errors.New("invalid blockchain address")
	ErrUnauthorized       = errors.New("unauthorized to perform this action")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// UserError carries a short machine-readable code next to the message.
type UserError struct {
	Code    string
	Message string
	Err     error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

func NewUserNotFoundError() *UserError {
	return &UserError{
		Code:    ErrCodeUserNotFound,
		Message: "User not found",
		Err:     ErrUserNotFound,
	}
}

func NewEmailAlreadyExistsError(email string) *UserError {
	return &UserError{
		Code:    ErrCodeEmailAlreadyExists,
		Message: fmt.Sprintf("Email %s is already registered", email),
		Err:     ErrEmailAlreadyExists,
	}
}

func NewInvalidAddressError(address string) *UserError {
	return &UserError{
		Code:    ErrCodeInvalidAddress,
		Message: fmt.Sprintf("Invalid blockchain address %s", address),
		Err:     ErrInvalidAddress,
	}
}

func NewUnauthorizedError(message string) *UserError {
	return &UserError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Err:     ErrUnauthorized,
	}
}

func NewInvalidCredentialsError() *UserError {
	return &UserError{
		Code:    ErrCodeInvalidCredentials,
		Message: "Invalid email or password",
		Err:     ErrInvalidCredentials,
	}
}
