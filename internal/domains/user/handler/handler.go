package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"nft-market-backend/internal/domains/user/model"
	"nft-market-backend/internal/domains/user/service"
	"nft-market-backend/internal/shared/middleware"
	"nft-market-backend/internal/shared/response"
)

type UserHandler struct {
	userService service.ServiceInterface
}

func NewUserHandler(userService service.ServiceInterface) *UserHandler {
	return &UserHandler{userService: userService}
}

// ParsePagination reads offset/limit query params with sane defaults.
// Shared by every list endpoint.
func ParsePagination(c *gin.Context) (int, int) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}
	return offset, limit
}

func mapUserError(c *gin.Context, err error) {
	var verr validation.Errors
	if errors.As(err, &verr) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request", verr)
		return
	}

	var uerr *model.UserError
	if errors.As(err, &uerr) {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			response.ErrorResponse(c, http.StatusNotFound, uerr.Code, uerr.Message)
		case errors.Is(err, model.ErrEmailAlreadyExists):
			response.ErrorResponse(c, http.StatusConflict, uerr.Code, uerr.Message)
		case errors.Is(err, model.ErrInvalidCredentials):
			response.ErrorResponse(c, http.StatusUnauthorized, uerr.Code, uerr.Message)
		case errors.Is(err, model.ErrUnauthorized):
			response.ErrorResponse(c, http.StatusForbidden, uerr.Code, uerr.Message)
		default:
			response.ErrorResponse(c, http.StatusBadRequest, uerr.Code, uerr.Message)
		}
		return
	}

	response.InternalServerError(c, "something went wrong")
}

// Register creates an account.
// POST /api/v1/auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		mapUserError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// Login exchanges credentials for a JWT.
// POST /api/v1/auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		mapUserError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// GetUser returns a single account (self or admin).
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	dto, err := h.userService.GetUser(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		mapUserError(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// UpdateUser updates profile fields (self or admin).
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.userService.UpdateUser(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		mapUserError(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// DeleteUser soft-deletes an account (self or admin).
// DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), middleware.UserID(c), id); err != nil {
		mapUserError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ListUsers lists live accounts.
// GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	offset, limit := ParsePagination(c)

	dtos, err := h.userService.ListUsers(c.Request.Context(), offset, limit)
	if err != nil {
		mapUserError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, dtos, &response.Meta{Offset: offset, Limit: limit})
}
