package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"homehub/internal/pkg/response"
)

// Handler manages all HTTP interactions for authentication and profiles
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register creates an account.
// @Summary		Register
// @Tags		Auth
// @Accept		json
// @Produce		json
// @Param		body	body	RegisterRequest	true	"payload"
// @Success		201	{object}	RegisterResponse
// @Failure		400	{object}	map[string]interface{}
// @Failure		409	{object}	map[string]interface{}
// @Router		/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	u, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, RegisterResponse{Message: "User created", User: SummaryOf(u)})
}

// Login authenticates and returns a bearer token.
// @Summary		Login
// @Tags		Auth
// @Accept		json
// @Produce		json
// @Param		body	body	LoginRequest	true	"credentials"
// @Success		200	{object}	LoginResponse
// @Failure		401	{object}	map[string]interface{}
// @Router		/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	out, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, out)
}

func (h *Handler) GetProfile(c *gin.Context) {
	u, err := h.service.GetUser(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	u, err := h.service.UpdateProfile(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *Handler) DeleteProfile(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.GetInt64("user_id")); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Account deactivated")
}

// SubmitVerification accepts JSON or a multipart form. An uploaded document
// is recorded by file name; storing the file itself happens elsewhere.
// @Summary		Submit landlord verification
// @Tags		Users
// @Security	BearerAuth
// @Accept		json,mpfd
// @Success		200	{object}	User
// @Router		/users/verify-upload [post]
func (h *Handler) SubmitVerification(c *gin.Context) {
	var req SubmitVerificationRequest
	if err := c.ShouldBind(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if strings.HasPrefix(c.ContentType(), "multipart/") && req.DocumentRef == "" {
		if file, err := c.FormFile("document"); err == nil {
			req.DocumentRef = file.Filename
		}
	}

	u, err := h.service.SubmitVerification(c.Request.Context(), ActorFrom(c), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}
