package maintenance

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
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid maintenance request ID")
		return 0, false
	}
	return id, true
}

// GetRequests lists maintenance requests visible to the caller.
// @Summary		List maintenance requests
// @Tags		Maintenance
// @Security	BearerAuth
// @Param		status	query	string	false	"pending, in_progress or completed"
// @Success		200	{array}	View
// @Router		/maintenance [get]
func (h *Handler) GetRequests(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), auth.ActorFrom(c), c.Query("status"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) GetRequest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := h.service.Get(c.Request.Context(), auth.ActorFrom(c), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, item)
}

// CreateRequest files a ticket against the caller's active lease.
// @Summary		File maintenance request
// @Tags		Maintenance
// @Security	BearerAuth
// @Accept		json
// @Param		body	body	FileRequest	true	"ticket"
// @Success		201	{object}	View
// @Failure		403	{object}	map[string]interface{}
// @Router		/maintenance [post]
func (h *Handler) CreateRequest(c *gin.Context) {
	var req FileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	item, err := h.service.File(c.Request.Context(), auth.ActorFrom(c), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, item)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	item, err := h.service.UpdateStatus(c.Request.Context(), auth.ActorFrom(c), id, req.Status)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, item)
}
