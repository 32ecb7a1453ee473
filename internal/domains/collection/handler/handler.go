package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"nft-market-backend/internal/domains/collection/model"
	"nft-market-backend/internal/domains/collection/service"
	nftmodel "nft-market-backend/internal/domains/nft/model"
	userhandler "nft-market-backend/internal/domains/user/handler"
	usermodel "nft-market-backend/internal/domains/user/model"
	"nft-market-backend/internal/shared/middleware"
	"nft-market-backend/internal/shared/response"
)

type CollectionHandler struct {
	collectionService service.ServiceInterface
}

func NewCollectionHandler(collectionService service.ServiceInterface) *CollectionHandler {
	return &CollectionHandler{collectionService: collectionService}
}

func mapCollectionError(c *gin.Context, err error) {
	var verr validation.Errors
	if errors.As(err, &verr) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request", verr)
		return
	}

	var cerr *model.CollectionError
	if errors.As(err, &cerr) {
		switch {
		case errors.Is(err, model.ErrCollectionNotFound),
			errors.Is(err, usermodel.ErrUserNotFound),
			errors.Is(err, nftmodel.ErrNFTNotFound):
			response.ErrorResponse(c, http.StatusNotFound, cerr.Code, cerr.Message)
		case errors.Is(err, model.ErrAlreadyContains),
			errors.Is(err, nftmodel.ErrAlreadyCollected),
			errors.Is(err, nftmodel.ErrStatusRegression):
			response.ErrorResponse(c, http.StatusConflict, cerr.Code, cerr.Message)
		case errors.Is(err, model.ErrUnauthorized),
			errors.Is(err, model.ErrCollectionArchived):
			response.ErrorResponse(c, http.StatusForbidden, cerr.Code, cerr.Message)
		default:
			response.ErrorResponse(c, http.StatusBadRequest, cerr.Code, cerr.Message)
		}
		return
	}

	switch {
	case errors.Is(err, model.ErrCollectionNotFound):
		response.NotFound(c, "collection not found")
	case errors.Is(err, model.ErrAlreadyContains):
		response.Conflict(c, "collection already contains this nft")
	default:
		response.InternalServerError(c, "something went wrong")
	}
}

// CreateCollection creates a collection owned by the caller. Every
// referenced nft must exist and be uncollected.
// POST /api/v1/collections
func (h *CollectionHandler) CreateCollection(c *gin.Context) {
	var req model.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.collectionService.CreateCollection(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		mapCollectionError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, dto)
}

// GetCollection returns a single collection, respecting publication
// visibility.
// GET /api/v1/collections/:id
func (h *CollectionHandler) GetCollection(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid collection id")
		return
	}

	dto, err := h.collectionService.GetCollection(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		mapCollectionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dto)
}

// UpdateCollection patches collection fields; archived collections only
// accept admin edits.
// PUT /api/v1/collections/:id
func (h *CollectionHandler) UpdateCollection(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid collection id")
		return
	}

	var req model.UpdateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.collectionService.UpdateCollection(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		mapCollectionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dto)
}

// DeleteCollection soft-deletes a collection.
// DELETE /api/v1/collections/:id
func (h *CollectionHandler) DeleteCollection(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid collection id")
		return
	}

	if err := h.collectionService.DeleteCollection(c.Request.Context(), middleware.UserID(c), id); err != nil {
		mapCollectionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ListCollections pages through collections. Anonymous callers only
// see published ones.
// GET /api/v1/collections
func (h *CollectionHandler) ListCollections(c *gin.Context) {
	offset, limit := userhandler.ParsePagination(c)

	dtos, total, err := h.collectionService.ListCollections(c.Request.Context(), middleware.UserID(c), offset, limit)
	if err != nil {
		mapCollectionError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, dtos, &response.Meta{Offset: offset, Limit: limit, Total: total})
}

// AddNFT attaches an uncollected nft to a collection.
// POST /api/v1/collections/:id/nfts
func (h *CollectionHandler) AddNFT(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid collection id")
		return
	}

	var req model.AddNFTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		mapCollectionError(c, err)
		return
	}

	dto, err := h.collectionService.AddNFT(c.Request.Context(), middleware.UserID(c), id, req.NFTID)
	if err != nil {
		mapCollectionError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dto)
}

// TopCollections ranks collections by total item value.
// GET /api/v1/collections/top
func (h *CollectionHandler) TopCollections(c *gin.Context) {
	offset, limit := userhandler.ParsePagination(c)

	ranks, err := h.collectionService.TopCollections(c.Request.Context(), middleware.UserID(c), offset, limit)
	if err != nil {
		mapCollectionError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, ranks, &response.Meta{Offset: offset, Limit: limit})
}
