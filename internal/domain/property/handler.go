package property

import (
	"errors"
	"io"
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
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid property ID")
		return 0, false
	}
	return id, true
}

// parseFilters reads listing filters from the query string. Malformed
// numbers are ignored.
func parseFilters(c *gin.Context) (Filters, error) {
	var f Filters
	f.City = c.Query("city")
	f.PropertyType = c.Query("property_type")
	if f.PropertyType == "" {
		f.PropertyType = c.Query("type")
	}

	if v := c.Query("min_price"); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinPrice = val
		}
	}
	if v := c.Query("max_price"); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxPrice = val
		}
	}
	if v := c.Query("bedrooms"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			f.Bedrooms = val
		}
	}
	if v := c.Query("limit"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			f.Limit = val
		}
	}
	if v := c.Query("offset"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			f.Offset = val
		}
	}
	if v := c.Query("status"); v != "" {
		status, ok := ParseStatus(v)
		if !ok {
			return f, ErrInvalidStatus
		}
		f.Status = status
	}
	return f, nil
}

// GetProperties lists properties. Admins see every listing, everyone else
// only the public catalog.
// @Summary		List properties
// @Tags		Properties
// @Param		city			query	string	false	"City (contains)"
// @Param		min_price		query	number	false	"Minimum monthly price"
// @Param		max_price		query	number	false	"Maximum monthly price"
// @Param		property_type	query	string	false	"apartment, house, ..."
// @Param		bedrooms		query	int		false	"Minimum bedrooms"
// @Param		status			query	string	false	"Admin only"
// @Success		200	{array}	View
// @Router		/properties [get]
func (h *Handler) GetProperties(c *gin.Context) {
	f, err := parseFilters(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	items, err := h.service.List(c.Request.Context(), auth.ActorFrom(c), f)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) GetMyProperties(c *gin.Context) {
	f, err := parseFilters(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	items, err := h.service.ListMine(c.Request.Context(), auth.ActorFrom(c), f)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) GetLandlordProperties(c *gin.Context) {
	ownerID, ok := parseID(c)
	if !ok {
		return
	}
	f, err := parseFilters(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	items, err := h.service.ListByOwner(c.Request.Context(), auth.ActorFrom(c), ownerID, f)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// GetProperty returns one property.
// @Summary		Property detail
// @Tags		Properties
// @Param		id	path	int	true	"Property ID"
// @Success		200	{object}	View
// @Failure		404	{object}	map[string]interface{}
// @Router		/properties/{id} [get]
func (h *Handler) GetProperty(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	p, err := h.service.Get(c.Request.Context(), auth.ActorFrom(c), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// CreateProperty submits a listing for approval.
// @Summary		Create property
// @Tags		Properties
// @Security	BearerAuth
// @Accept		json
// @Param		body	body	CreateRequest	true	"listing"
// @Success		201	{object}	View
// @Failure		403	{object}	map[string]interface{}
// @Router		/properties [post]
func (h *Handler) CreateProperty(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	p, err := h.service.Create(c.Request.Context(), auth.ActorFrom(c), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p)
}

func (h *Handler) UpdateProperty(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	p, err := h.service.Update(c.Request.Context(), auth.ActorFrom(c), id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) ResubmitProperty(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	p, err := h.service.Resubmit(c.Request.Context(), auth.ActorFrom(c), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) DeleteProperty(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), auth.ActorFrom(c), id); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Property deleted")
}

// ApproveProperty and RejectProperty take an optional {"comment": "..."}.
func (h *Handler) ApproveProperty(c *gin.Context) {
	h.decide(c, StatusApproved)
}

func (h *Handler) RejectProperty(c *gin.Context) {
	h.decide(c, StatusRejected)
}

// VerifyProperty is the admin console variant taking {"action", "comment"}.
func (h *Handler) VerifyProperty(c *gin.Context) {
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	target, err := ParseAction(req.Action)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	h.apply(c, target, req.Comment)
}

func (h *Handler) decide(c *gin.Context, target Status) {
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	h.apply(c, target, req.Comment)
}

func (h *Handler) apply(c *gin.Context, target Status, comment string) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	p, err := h.service.SetApproval(c.Request.Context(), auth.ActorFrom(c), id, target, comment)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) GetPendingProperties(c *gin.Context) {
	items, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}
