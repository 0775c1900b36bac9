package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"homehub/internal/domain/auth"
	"homehub/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetPendingLandlords godoc
// @Summary		Landlords awaiting verification
// @Tags		Admin
// @Security	BearerAuth
// @Success		200	{array}	auth.User
// @Router		/admin/landlords/pending [get]
func (h *Handler) GetPendingLandlords(c *gin.Context) {
	users, err := h.service.PendingLandlords(c.Request.Context(), auth.ActorFrom(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, users)
}

// VerifyLandlord godoc
// @Summary		Approve, reject or reset a landlord verification
// @Tags		Admin
// @Security	BearerAuth
// @Accept		json
// @Param		id		path	int						true	"User ID"
// @Param		body	body	VerifyLandlordRequest	true	"action"
// @Success		200	{object}	auth.User
// @Failure		409	{object}	map[string]interface{}
// @Router		/admin/landlords/{id}/verify [patch]
func (h *Handler) VerifyLandlord(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}
	var req VerifyLandlordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	u, err := h.service.VerifyLandlord(c.Request.Context(), auth.ActorFrom(c), id, req.action())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *Handler) GetUsers(c *gin.Context) {
	users, err := h.service.Users(c.Request.Context(), auth.ActorFrom(c), c.Query("role"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, users)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), auth.ActorFrom(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}
