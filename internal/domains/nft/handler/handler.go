package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"nft-market-backend/internal/domains/nft/model"
	"nft-market-backend/internal/domains/nft/service"
	userhandler "nft-market-backend/internal/domains/user/handler"
	usermodel "nft-market-backend/internal/domains/user/model"
	"nft-market-backend/internal/shared/middleware"
	"nft-market-backend/internal/shared/response"
)

type NFTHandler struct {
	nftService service.ServiceInterface
}

func NewNFTHandler(nftService service.ServiceInterface) *NFTHandler {
	return &NFTHandler{nftService: nftService}
}

func mapNFTError(c *gin.Context, err error) {
	var verr validation.Errors
	if errors.As(err, &verr) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request", verr)
		return
	}

	var nerr *model.NFTError
	if errors.As(err, &nerr) {
		switch {
		case errors.Is(err, model.ErrNFTNotFound), errors.Is(err, usermodel.ErrUserNotFound):
			response.ErrorResponse(c, http.StatusNotFound, nerr.Code, nerr.Message)
		case errors.Is(err, model.ErrStatusRegression), errors.Is(err, model.ErrAlreadyCollected):
			response.ErrorResponse(c, http.StatusConflict, nerr.Code, nerr.Message)
		case errors.Is(err, model.ErrNotOwner), errors.Is(err, model.ErrUnauthorized):
			response.ErrorResponse(c, http.StatusForbidden, nerr.Code, nerr.Message)
		default:
			response.ErrorResponse(c, http.StatusBadRequest, nerr.Code, nerr.Message)
		}
		return
	}

	switch {
	case errors.Is(err, model.ErrNFTNotFound):
		response.NotFound(c, "nft not found")
	case errors.Is(err, model.ErrAlreadyCollected):
		response.Conflict(c, "nft already belongs to a collection")
	default:
		response.InternalServerError(c, "something went wrong")
	}
}

// CreateNFT mints a draft or published item owned by the caller.
// POST /api/v1/nfts
func (h *NFTHandler) CreateNFT(c *gin.Context) {
	var req model.CreateNFTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.nftService.CreateNFT(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		mapNFTError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, dto)
}

// GetNFT returns a single item, respecting publication visibility.
// GET /api/v1/nfts/:id
func (h *NFTHandler) GetNFT(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid nft id")
		return
	}

	dto, err := h.nftService.GetNFT(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		mapNFTError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dto)
}

// UpdateNFT patches item fields; status may only advance.
// PUT /api/v1/nfts/:id
func (h *NFTHandler) UpdateNFT(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid nft id")
		return
	}

	var req model.UpdateNFTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.nftService.UpdateNFT(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		mapNFTError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dto)
}

// DeleteNFT soft-deletes an item.
// DELETE /api/v1/nfts/:id
func (h *NFTHandler) DeleteNFT(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid nft id")
		return
	}

	if err := h.nftService.DeleteNFT(c.Request.Context(), middleware.UserID(c), id); err != nil {
		mapNFTError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ListByCollection returns the items of a collection the caller is
// allowed to see.
// GET /api/v1/collections/:id/nfts
func (h *NFTHandler) ListByCollection(c *gin.Context) {
	collectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid collection id")
		return
	}

	dtos, err := h.nftService.ListByCollection(c.Request.Context(), middleware.UserID(c), collectionID)
	if err != nil {
		mapNFTError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dtos)
}

// ListNFTs pages through the catalog. Anonymous callers only see
// published items.
// GET /api/v1/nfts
func (h *NFTHandler) ListNFTs(c *gin.Context) {
	offset, limit := userhandler.ParsePagination(c)

	dtos, total, err := h.nftService.ListNFTs(c.Request.Context(), middleware.UserID(c), offset, limit)
	if err != nil {
		mapNFTError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, dtos, &response.Meta{Offset: offset, Limit: limit, Total: total})
}
