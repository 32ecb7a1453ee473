package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	nftmodel "nft-market-backend/internal/domains/nft/model"
	"nft-market-backend/internal/domains/rating/model"
	"nft-market-backend/internal/domains/rating/service"
	teammodel "nft-market-backend/internal/domains/team/model"
	userhandler "nft-market-backend/internal/domains/user/handler"
	usermodel "nft-market-backend/internal/domains/user/model"
	"nft-market-backend/internal/shared/middleware"
	"nft-market-backend/internal/shared/response"
)

type RatingHandler struct {
	ratingService service.ServiceInterface
}

func NewRatingHandler(ratingService service.ServiceInterface) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

func mapRatingError(c *gin.Context, err error) {
	var verr validation.Errors
	if errors.As(err, &verr) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request", verr)
		return
	}

	var rerr *model.RatingError
	if errors.As(err, &rerr) {
		switch {
		case errors.Is(err, model.ErrRatingNotFound),
			errors.Is(err, usermodel.ErrUserNotFound),
			errors.Is(err, nftmodel.ErrNFTNotFound),
			errors.Is(err, teammodel.ErrTeamNotFound):
			response.ErrorResponse(c, http.StatusNotFound, rerr.Code, rerr.Message)
		case errors.Is(err, model.ErrAlreadyRated):
			response.ErrorResponse(c, http.StatusConflict, rerr.Code, rerr.Message)
		case errors.Is(err, model.ErrNotInTeam),
			errors.Is(err, model.ErrOwnTeamNFT),
			errors.Is(err, model.ErrUnauthorized):
			response.ErrorResponse(c, http.StatusForbidden, rerr.Code, rerr.Message)
		default:
			response.ErrorResponse(c, http.StatusBadRequest, rerr.Code, rerr.Message)
		}
		return
	}

	switch {
	case errors.Is(err, model.ErrRatingNotFound):
		response.NotFound(c, "rating not found")
	case errors.Is(err, model.ErrAlreadyRated):
		response.Conflict(c, "user already rated this nft")
	default:
		response.InternalServerError(c, "something went wrong")
	}
}

// CreateRating scores an nft on behalf of the caller.
// POST /api/v1/ratings
func (h *RatingHandler) CreateRating(c *gin.Context) {
	var req model.CreateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.ratingService.CreateRating(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		mapRatingError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, dto)
}

// GetRating returns a single rating.
// GET /api/v1/ratings/:id
func (h *RatingHandler) GetRating(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid rating id")
		return
	}

	dto, err := h.ratingService.GetRating(c.Request.Context(), id)
	if err != nil {
		mapRatingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dto)
}

// UpdateRating changes the score of the caller's rating.
// PUT /api/v1/ratings/:id
func (h *RatingHandler) UpdateRating(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid rating id")
		return
	}

	var req model.UpdateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.ratingService.UpdateRating(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		mapRatingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dto)
}

// DeleteRating soft-deletes the caller's rating.
// DELETE /api/v1/ratings/:id
func (h *RatingHandler) DeleteRating(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid rating id")
		return
	}

	if err := h.ratingService.DeleteRating(c.Request.Context(), middleware.UserID(c), id); err != nil {
		mapRatingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ListRatings pages through all live ratings.
// GET /api/v1/ratings
func (h *RatingHandler) ListRatings(c *gin.Context) {
	offset, limit := userhandler.ParsePagination(c)

	dtos, total, err := h.ratingService.ListRatings(c.Request.Context(), offset, limit)
	if err != nil {
		mapRatingError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, dtos, &response.Meta{Offset: offset, Limit: limit, Total: total})
}

// ListByNFT returns every live rating for one nft.
// GET /api/v1/nfts/:id/ratings
func (h *RatingHandler) ListByNFT(c *gin.Context) {
	nftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid nft id")
		return
	}

	dtos, err := h.ratingService.ListByNFT(c.Request.Context(), nftID)
	if err != nil {
		mapRatingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dtos)
}

// TopRated ranks nfts by average score.
// GET /api/v1/ratings/top
func (h *RatingHandler) TopRated(c *gin.Context) {
	offset, limit := userhandler.ParsePagination(c)

	ranks, err := h.ratingService.TopRated(c.Request.Context(), middleware.UserID(c), offset, limit)
	if err != nil {
		mapRatingError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, ranks, &response.Meta{Offset: offset, Limit: limit})
}
