package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"campusportal/internal/pkg/response"
)

// Handler manages all HTTP interactions for authentication and profile.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	group := v1.Group("/auth")
	{
		group.POST("/signup", h.Signup)
		group.POST("/login", h.Login)
		group.POST("/verify-otp", h.VerifyOTP)
		group.POST("/resend-otp", h.ResendOTP)
		group.POST("/forgot-password", h.ForgotPassword)
		group.POST("/reset-password", h.ResetPassword)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	group := protected.Group("/user")
	{
		group.GET("/profile", h.GetProfile)
		group.PUT("/profile", h.UpdateProfile)
	}
}

func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusConflict, "This email is already registered")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to create account")
		return
	}

	response.JSON(c, http.StatusCreated, gin.H{
		"message": "Account created, check your email for the verification code",
		"user":    user,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, ErrNotVerified):
			response.Error(c, http.StatusForbidden, "Account is not verified, check your email")
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to log in")
		}
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"user":  result.User,
		"token": result.Token,
	})
}

func (h *Handler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.VerifyOTP(c.Request.Context(), req)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"message": "Account verified, you can now log in",
		"user":    user,
	})
}

func (h *Handler) ResendOTP(c *gin.Context) {
	var req ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.ResendOTP(c.Request.Context(), req.Email); err != nil {
		respondAuthError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Verification code sent")
}

func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondAuthError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Password reset code sent")
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req); err != nil {
		respondAuthError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Password updated, you can now log in")
}

func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.service.GetProfile(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		respondAuthError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user)
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "User not found")
	case errors.Is(err, ErrAlreadyVerified):
		response.Error(c, http.StatusConflict, "Account is already verified")
	case errors.Is(err, ErrInvalidOTP):
		response.Error(c, http.StatusBadRequest, "Invalid verification code")
	case errors.Is(err, ErrOTPExpired):
		response.Error(c, http.StatusBadRequest, "Verification code has expired")
	case errors.Is(err, ErrResendCooldown):
		response.Error(c, http.StatusTooManyRequests, "Please wait before requesting another code")
	default:
		response.Error(c, http.StatusInternalServerError, "Server error")
	}
}
