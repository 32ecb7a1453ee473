package model

import "errors"

const (
	ErrCodeSaleNotFound        = "SAL001"
	ErrCodeInvalidPrice        = "SAL002"
	ErrCodeNotNFTOwner         = "SAL003"
	ErrCodeNoTeam              = "SAL004"
	ErrCodeSameTeam            = "SAL005"
	ErrCodeInsufficientBalance = "SAL006"
)

var (
	ErrSaleNotFound        = errors.New("sale not found")
	ErrInvalidPrice        = errors.New("sale price must be positive")
	ErrNotNFTOwner         = errors.New("seller does not own this nft")
	ErrNoTeam              = errors.New("both parties must belong to a team")
	ErrSameTeam            = errors.New("cannot sell to your own team")
	ErrInsufficientBalance = errors.New("buyer team balance is too low")
)

type SaleError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *SaleError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *SaleError) Unwrap() error {
	return e.Err
}

func NewSaleNotFoundError() *SaleError {
	return &SaleError{
		Code:    ErrCodeSaleNotFound,
		Message: "sale not found",
		Err:     ErrSaleNotFound,
	}
}

func NewInvalidPriceError() *SaleError {
	return &SaleError{
		Code:    ErrCodeInvalidPrice,
		Message: "sale price must be positive",
		Err:     ErrInvalidPrice,
	}
}

func NewNotNFTOwnerError() *SaleError {
	return &SaleError{
		Code:    ErrCodeNotNFTOwner,
		Message: "seller does not own this nft",
		Err:     ErrNotNFTOwner,
	}
}

func NewNoTeamError() *SaleError {
	return &SaleError{
		Code:    ErrCodeNoTeam,
		Message: "both parties must belong to a team",
		Err:     ErrNoTeam,
	}
}

func NewSameTeamError() *SaleError {
	return &SaleError{
		Code:    ErrCodeSameTeam,
		Message: "cannot sell to your own team",
		Err:     ErrSameTeam,
	}
}

func NewInsufficientBalanceError() *SaleError {
	return &SaleError{
		Code:    ErrCodeInsufficientBalance,
		Message: "buyer team balance is too low",
		Err:     ErrInsufficientBalance,
	}
}
