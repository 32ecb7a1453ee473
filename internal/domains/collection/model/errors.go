package model

import "errors"

const (
	ErrCodeCollectionNotFound = "COL001"
	ErrCodeCollectionArchived = "COL002"
	ErrCodeNFTArchived        = "COL003"
	ErrCodeAlreadyContains    = "COL004"
	ErrCodeUnauthorized       = "COL005"
)

var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrCollectionArchived = errors.New("collection is archived")
	ErrNFTArchived        = errors.New("nft is archived")
	ErrAlreadyContains    = errors.New("collection already contains this nft")
	ErrUnauthorized       = errors.New("unauthorized access to collection")
)

type CollectionError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *CollectionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *CollectionError) Unwrap() error {
	return e.Err
}

func NewCollectionNotFoundError() *CollectionError {
	return &CollectionError{
		Code:    ErrCodeCollectionNotFound,
		Message: "collection not found",
		Err:     ErrCollectionNotFound,
	}
}

func NewCollectionArchivedError() *CollectionError {
	return &CollectionError{
		Code:    ErrCodeCollectionArchived,
		Message: "archived collections cannot be modified",
		Err:     ErrCollectionArchived,
	}
}

func NewNFTArchivedError() *CollectionError {
	return &CollectionError{
		Code:    ErrCodeNFTArchived,
		Message: "archived nfts cannot join a collection",
		Err:     ErrNFTArchived,
	}
}

func NewAlreadyContainsError() *CollectionError {
	return &CollectionError{
		Code:    ErrCodeAlreadyContains,
		Message: "collection already contains this nft",
		Err:     ErrAlreadyContains,
	}
}

func NewUnauthorizedError() *CollectionError {
	return &CollectionError{
		Code:    ErrCodeUnauthorized,
		Message: "unauthorized access to collection",
		Err:     ErrUnauthorized,
	}
}
