package model

import "errors"

const (
	ErrCodeNFTNotFound      = "NFT001"
	ErrCodeInvalidStatus    = "NFT002"
	ErrCodeStatusRegression = "NFT003"
	ErrCodeNotOwner         = "NFT004"
	ErrCodeAlreadyCollected = "NFT005"
	ErrCodeUnauthorized     = "NFT006"
)

var (
	ErrNFTNotFound      = errors.New("nft not found")
	ErrInvalidStatus    = errors.New("invalid nft status")
	ErrStatusRegression = errors.New("nft status cannot move backward")
	ErrNotOwner         = errors.New("user is not the owner of this nft")
	ErrAlreadyCollected = errors.New("nft already belongs to a collection")
	ErrUnauthorized     = errors.New("unauthorized access to nft")
)

// NFTError carries a short business code alongside the wrapped sentinel.
type NFTError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *NFTError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *NFTError) Unwrap() error {
	return e.Err
}

func NewNFTNotFoundError() *NFTError {
	return &NFTError{
		Code:    ErrCodeNFTNotFound,
		Message: "nft not found",
		Err:     ErrNFTNotFound,
	}
}

func NewInvalidStatusError() *NFTError {
	return &NFTError{
		Code:    ErrCodeInvalidStatus,
		Message: "invalid nft status",
		Err:     ErrInvalidStatus,
	}
}

func NewStatusRegressionError() *NFTError {
	return &NFTError{
		Code:    ErrCodeStatusRegression,
		Message: "nft status can only advance",
		Err:     ErrStatusRegression,
	}
}

func NewNotOwnerError() *NFTError {
	return &NFTError{
		Code:    ErrCodeNotOwner,
		Message: "only the owner can perform this action",
		Err:     ErrNotOwner,
	}
}

func NewAlreadyCollectedError() *NFTError {
	return &NFTError{
		Code:    ErrCodeAlreadyCollected,
		Message: "nft already belongs to a collection",
		Err:     ErrAlreadyCollected,
	}
}

func NewUnauthorizedError() *NFTError {
	return &NFTError{
		Code:    ErrCodeUnauthorized,
		Message: "unauthorized access to nft",
		Err:     ErrUnauthorized,
	}
}
