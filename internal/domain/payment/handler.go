package payment

import (
	"net/http"

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

// GetInvoices lists invoices visible to the caller.
// @Summary		List invoices
// @Tags		Payments
// @Security	BearerAuth
// @Success		200	{array}	InvoiceView
// @Router		/payments/my-invoices [get]
func (h *Handler) GetInvoices(c *gin.Context) {
	items, err := h.service.ListInvoices(c.Request.Context(), auth.ActorFrom(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// CreateInvoice issues an invoice against an active lease.
// @Summary		Create invoice
// @Tags		Payments
// @Security	BearerAuth
// @Accept		json
// @Param		body	body	CreateInvoiceRequest	true	"invoice"
// @Success		201	{object}	InvoiceView
// @Failure		409	{object}	map[string]interface{}
// @Router		/payments/invoices [post]
func (h *Handler) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	inv, err := h.service.CreateInvoice(c.Request.Context(), auth.ActorFrom(c), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, inv)
}

// Pay starts a mobile-money checkout for an invoice.
// @Summary		Pay invoice
// @Tags		Payments
// @Security	BearerAuth
// @Accept		json
// @Param		body	body	PayRequest	true	"invoice_id and phone_number"
// @Success		202	{object}	PayResponse
// @Failure		503	{object}	map[string]interface{}
// @Router		/payments/pay [post]
func (h *Handler) Pay(c *gin.Context) {
	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	resp, err := h.service.InitiatePayment(c.Request.Context(), auth.ActorFrom(c), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusAccepted, resp)
}

// Callback receives the gateway confirmation.
func (h *Handler) Callback(c *gin.Context) {
	var req CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	resp, err := h.service.HandleCallback(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}
