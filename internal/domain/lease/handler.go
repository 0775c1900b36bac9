package lease

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

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid lease ID")
		return 0, false
	}
	return id, true
}

// Apply files a lease application.
// @Summary		Apply for a lease
// @Tags		Leases
// @Security	BearerAuth
// @Accept		json
// @Param		body	body	ApplyRequest	true	"application"
// @Success		201	{object}	Lease
// @Failure		404	{object}	map[string]interface{}
// @Failure		409	{object}	map[string]interface{}
// @Router		/leases [post]
func (h *Handler) Apply(c *gin.Context) {
	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	l, err := h.service.Apply(c.Request.Context(), auth.ActorFrom(c), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, l)
}

// GetLeases lists the caller's leases.
// @Summary		List leases
// @Tags		Leases
// @Security	BearerAuth
// @Param		status	query	string	false	"pending, active, rejected or ended"
// @Success		200	{array}	View
// @Router		/leases [get]
func (h *Handler) GetLeases(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), auth.ActorFrom(c), c.Query("status"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) GetLease(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	l, err := h.service.Get(c.Request.Context(), auth.ActorFrom(c), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, l)
}

// UpdateStatus records the landlord decision on a pending lease.
// @Summary		Decide on a lease application
// @Tags		Leases
// @Security	BearerAuth
// @Accept		json
// @Param		id		path	int				true	"Lease ID"
// @Param		body	body	DecideRequest	true	"{status: approved|rejected}"
// @Success		200	{object}	View
// @Failure		409	{object}	map[string]interface{}
// @Router		/leases/{id}/status [post]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	l, err := h.service.Decide(c.Request.Context(), auth.ActorFrom(c), id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, l)
}

func (h *Handler) Terminate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	l, err := h.service.Terminate(c.Request.Context(), auth.ActorFrom(c), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, l)
}
