package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"nft-market-backend/internal/domains/team/model"
	"nft-market-backend/internal/domains/team/service"
	userhandler "nft-market-backend/internal/domains/user/handler"
	usermodel "nft-market-backend/internal/domains/user/model"
	"nft-market-backend/internal/shared/middleware"
	"nft-market-backend/internal/shared/response"
)

type TeamHandler struct {
	teamService service.ServiceInterface
}

func NewTeamHandler(teamService service.ServiceInterface) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

func mapTeamError(c *gin.Context, err error) {
	var verr validation.Errors
	if errors.As(err, &verr) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request", verr)
		return
	}

	var terr *model.TeamError
	if errors.As(err, &terr) {
		switch {
		case errors.Is(err, model.ErrTeamNotFound), errors.Is(err, usermodel.ErrUserNotFound):
			response.ErrorResponse(c, http.StatusNotFound, terr.Code, terr.Message)
		case errors.Is(err, model.ErrAlreadyInTeam):
			response.ErrorResponse(c, http.StatusConflict, terr.Code, terr.Message)
		case errors.Is(err, model.ErrNotMember), errors.Is(err, model.ErrBalanceAdminOnly),
			errors.Is(err, model.ErrUnauthorized):
			response.ErrorResponse(c, http.StatusForbidden, terr.Code, terr.Message)
		default:
			response.ErrorResponse(c, http.StatusBadRequest, terr.Code, terr.Message)
		}
		return
	}

	response.InternalServerError(c, "something went wrong")
}

// CreateTeam creates a team owned by the caller.
// POST /api/v1/teams
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var req model.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.teamService.CreateTeam(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		mapTeamError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, dto)
}

// GetTeam returns a team.
// GET /api/v1/teams/:id
func (h *TeamHandler) GetTeam(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid team id")
		return
	}

	dto, err := h.teamService.GetTeam(c.Request.Context(), id)
	if err != nil {
		mapTeamError(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// UpdateTeam updates team fields.
// PUT /api/v1/teams/:id
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid team id")
		return
	}

	var req model.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.teamService.UpdateTeam(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		mapTeamError(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// DeleteTeam soft-deletes a team and releases its members.
// DELETE /api/v1/teams/:id
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid team id")
		return
	}

	if err := h.teamService.DeleteTeam(c.Request.Context(), middleware.UserID(c), id); err != nil {
		mapTeamError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ListTeams lists live teams.
// GET /api/v1/teams
func (h *TeamHandler) ListTeams(c *gin.Context) {
	offset, limit := userhandler.ParsePagination(c)

	dtos, err := h.teamService.ListTeams(c.Request.Context(), offset, limit)
	if err != nil {
		mapTeamError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, dtos, &response.Meta{Offset: offset, Limit: limit})
}

// AddMember adds a user to the team.
// POST /api/v1/teams/:id/members
func (h *TeamHandler) AddMember(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid team id")
		return
	}

	var req model.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.teamService.AddMember(c.Request.Context(), middleware.UserID(c), id, req.UserID)
	if err != nil {
		mapTeamError(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// RemoveMember removes a user from the team.
// DELETE /api/v1/teams/:id/members/:userId
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid team id")
		return
	}

	memberID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	dto, err := h.teamService.RemoveMember(c.Request.Context(), middleware.UserID(c), id, memberID)
	if err != nil {
		mapTeamError(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// BestSellers ranks teams by balance.
// GET /api/v1/teams/best-sellers
func (h *TeamHandler) BestSellers(c *gin.Context) {
	offset, limit := userhandler.ParsePagination(c)

	dtos, err := h.teamService.BestSellers(c.Request.Context(), offset, limit)
	if err != nil {
		mapTeamError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, dtos, &response.Meta{Offset: offset, Limit: limit})
}
