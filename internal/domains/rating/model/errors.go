package model

import "errors"

const (
	ErrCodeRatingNotFound = "RAT001"
	ErrCodeAlreadyRated   = "RAT002"
	ErrCodeNotInTeam      = "RAT003"
	ErrCodeOwnTeamNFT     = "RAT004"
	ErrCodeUnauthorized   = "RAT005"
)

var (
	ErrRatingNotFound = errors.New("rating not found")
	ErrAlreadyRated   = errors.New("user already rated this nft")
	ErrNotInTeam      = errors.New("rater must belong to a team")
	ErrOwnTeamNFT     = errors.New("cannot rate an nft owned by a teammate")
	ErrUnauthorized   = errors.New("unauthorized access to rating")
)

type RatingError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *RatingError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *RatingError) Unwrap() error {
	return e.Err
}

func NewRatingNotFoundError() *RatingError {
	return &RatingError{
		Code:    ErrCodeRatingNotFound,
		Message: "rating not found",
		Err:     ErrRatingNotFound,
	}
}

func NewAlreadyRatedError() *RatingError {
	return &RatingError{
		Code:    ErrCodeAlreadyRated,
		Message: "user already rated this nft",
		Err:     ErrAlreadyRated,
	}
}

func NewNotInTeamError() *RatingError {
	return &RatingError{
		Code:    ErrCodeNotInTeam,
		Message: "rater must belong to a team",
		Err:     ErrNotInTeam,
	}
}

func NewOwnTeamNFTError() *RatingError {
	return &RatingError{
		Code:    ErrCodeOwnTeamNFT,
		Message: "cannot rate an nft owned by a teammate",
		Err:     ErrOwnTeamNFT,
	}
}

func NewUnauthorizedError() *RatingError {
	return &RatingError{
		Code:    ErrCodeUnauthorized,
		Message: "unauthorized access to rating",
		Err:     ErrUnauthorized,
	}
}
