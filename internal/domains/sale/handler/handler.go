package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	nftmodel "nft-market-backend/internal/domains/nft/model"
	"nft-market-backend/internal/domains/sale/model"
	"nft-market-backend/internal/domains/sale/service"
	userhandler "nft-market-backend/internal/domains/user/handler"
	usermodel "nft-market-backend/internal/domains/user/model"
	"nft-market-backend/internal/shared/response"
)

type SaleHandler struct {
	saleService service.ServiceInterface
}

func NewSaleHandler(saleService service.ServiceInterface) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

func mapSaleError(c *gin.Context, err error) {
	var verr validation.Errors
	if errors.As(err, &verr) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request", verr)
		return
	}

	var serr *model.SaleError
	if errors.As(err, &serr) {
		switch {
		case errors.Is(err, model.ErrSaleNotFound),
			errors.Is(err, model.ErrNoTeam),
			errors.Is(err, usermodel.ErrUserNotFound),
			errors.Is(err, nftmodel.ErrNFTNotFound):
			response.ErrorResponse(c, http.StatusNotFound, serr.Code, serr.Message)
		case errors.Is(err, model.ErrInvalidPrice),
			errors.Is(err, model.ErrNotNFTOwner),
			errors.Is(err, model.ErrSameTeam),
			errors.Is(err, model.ErrInsufficientBalance):
			response.ErrorResponse(c, http.StatusBadRequest, serr.Code, serr.Message)
		default:
			response.ErrorResponse(c, http.StatusBadRequest, serr.Code, serr.Message)
		}
		return
	}

	if errors.Is(err, model.ErrSaleNotFound) {
		response.NotFound(c, "sale not found")
		return
	}
	response.InternalServerError(c, "something went wrong")
}

// CreateSale settles a trade between two teams.
// POST /api/v1/sales
func (h *SaleHandler) CreateSale(c *gin.Context) {
	var req model.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.saleService.CreateSale(c.Request.Context(), req)
	if err != nil {
		mapSaleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, dto)
}

// GetSale returns a single settled trade.
// GET /api/v1/sales/:id
func (h *SaleHandler) GetSale(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid sale id")
		return
	}

	dto, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		mapSaleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dto)
}

// ListSales pages through trades, most expensive first.
// GET /api/v1/sales
func (h *SaleHandler) ListSales(c *gin.Context) {
	offset, limit := userhandler.ParsePagination(c)

	dtos, total, err := h.saleService.ListSales(c.Request.Context(), offset, limit)
	if err != nil {
		mapSaleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, dtos, &response.Meta{Offset: offset, Limit: limit, Total: total})
}

// RecentSales pages through trades, newest first.
// GET /api/v1/sales/recent
func (h *SaleHandler) RecentSales(c *gin.Context) {
	offset, limit := userhandler.ParsePagination(c)

	dtos, err := h.saleService.RecentSales(c.Request.Context(), offset, limit)
	if err != nil {
		mapSaleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, dtos, &response.Meta{Offset: offset, Limit: limit})
}

// SalesBySeller returns the trades a user sold.
// GET /api/v1/sales/seller/:userId
func (h *SaleHandler) SalesBySeller(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	offset, limit := userhandler.ParsePagination(c)

	dtos, err := h.saleService.SalesBySeller(c.Request.Context(), userID, offset, limit)
	if err != nil {
		mapSaleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, dtos, &response.Meta{Offset: offset, Limit: limit})
}

// SalesByBuyer returns the trades a user bought.
// GET /api/v1/sales/buyer/:userId
func (h *SaleHandler) SalesByBuyer(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	offset, limit := userhandler.ParsePagination(c)

	dtos, err := h.saleService.SalesByBuyer(c.Request.Context(), userID, offset, limit)
	if err != nil {
		mapSaleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, dtos, &response.Meta{Offset: offset, Limit: limit})
}
