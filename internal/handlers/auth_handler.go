package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/boboboiiiw/backend-edutrack/internal/models"
	"github.com/boboboiiiw/backend-edutrack/internal/services"
	"github.com/boboboiiiw/backend-edutrack/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	service services.AuthService
}

func NewAuthHandler(service services.AuthService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ProfileResponse is the caller's profile flattened next to a message.
type ProfileResponse struct {
	models.UserProfile
	Message string `json:"message"`
}

type UpdateProfileResponse struct {
	Message string             `json:"message"`
	User    models.UserProfile `json:"user"`
}

// Register creates an account
// @Summary Register
// @Description Create an account; the role is derived from the email domain
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.RegisterRequest true "Registration data"
// @Success 201 {object} services.RegisterResponse
// @Failure 400 {object} ErrorResponse "Missing fields or email domain not allowed"
// @Failure 409 {object} ErrorResponse "Email or NIM already registered"
// @Router /api/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Field tidak lengkap."})
		return
	}

	h.LogRequest(c, "Registering user", "email", req.Email)

	resp, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err, "Terjadi kesalahan server saat registrasi.")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login exchanges credentials for a token
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.LoginRequest true "Credentials"
// @Success 200 {object} services.LoginResponse
// @Failure 400 {object} ErrorResponse "Missing email or password"
// @Failure 401 {object} ErrorResponse "Wrong credentials"
// @Router /api/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Email dan password wajib diisi."})
		return
	}

	h.LogRequest(c, "Logging in", "email", req.Email)

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err, "Terjadi kesalahan server tidak terduga.")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetProfile returns the caller's profile
// @Summary Get my profile
// @Tags auth
// @Produce json
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /api/me [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	h.LogRequest(c, "Getting profile")

	profile, err := h.service.GetProfile(c.Request.Context(), callerIdentity(c))
	if err != nil {
		h.handleServiceError(c, err, "Terjadi kesalahan server saat mengambil profil.")
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{UserProfile: *profile, Message: "Profil berhasil diambil."})
}

// UpdateProfile applies a partial profile update
// @Summary Update my profile
// @Description Only name, and for students prodi and nim, may change
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} UpdateProfileResponse
// @Failure 400 {object} ErrorResponse "Invalid or empty update"
// @Failure 403 {object} ErrorResponse "Field not changeable by this role"
// @Failure 409 {object} ErrorResponse "NIM already registered"
// @Router /api/me [patch]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Tidak ada field yang valid untuk diperbarui."})
		return
	}

	h.LogRequest(c, "Updating profile", "fields", len(payload))

	profile, err := h.service.UpdateProfile(c.Request.Context(), callerIdentity(c), payload)
	if err != nil {
		h.handleServiceError(c, err, "Terjadi kesalahan server saat memperbarui profil.")
		return
	}

	c.JSON(http.StatusOK, UpdateProfileResponse{Message: "Profil berhasil diperbarui.", User: *profile})
}

// ChangePassword replaces the caller's password
// @Summary Change password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.ChangePasswordRequest true "Old and new password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse "Missing fields or password too short"
// @Failure 401 {object} ErrorResponse "Wrong old password"
// @Router /api/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Password lama dan password baru wajib diisi."})
		return
	}

	h.LogRequest(c, "Changing password")

	if err := h.service.ChangePassword(c.Request.Context(), callerIdentity(c), &req); err != nil {
		h.handleServiceError(c, err, "Terjadi kesalahan server.")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Password berhasil diubah."})
}
