package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"campusportal/internal/domain"
	"campusportal/internal/pkg/response"
	"campusportal/internal/workflow"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects a group guarded by the admin-role middleware.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	group := admin.Group("/admin")
	{
		group.POST("/add-admin", h.AddAdmin)
		group.DELETE("/users/:id", h.DeleteUser)

		group.POST("/lostfound/:id/approve", h.approve(domain.KindLostFound))
		group.POST("/lostfound/:id/reject", h.reject(domain.KindLostFound))
		group.POST("/marketplace/:id/approve", h.approve(domain.KindMarketplace))
		group.POST("/marketplace/:id/reject", h.reject(domain.KindMarketplace))
		group.POST("/notes/:id/approve", h.approve(domain.KindNote))
		group.POST("/notes/:id/reject", h.reject(domain.KindNote))
	}
}

type addAdminRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) AddAdmin(c *gin.Context) {
	var req addAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.AddAdmin(c.Request.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "User not found")
		case errors.Is(err, ErrAlreadyAdmin):
			response.Error(c, http.StatusConflict, "User is already an admin")
		default:
			response.Error(c, http.StatusInternalServerError, "Server error")
		}
		return
	}
	response.JSON(c, http.StatusOK, user)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}
	response.Message(c, http.StatusOK, "User deleted")
}

func (h *Handler) approve(kind domain.ItemKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid item ID")
			return
		}

		item, err := h.service.Approve(c.Request.Context(), kind, id, actorFrom(c))
		if err != nil {
			respondModerationError(c, err)
			return
		}
		response.JSON(c, http.StatusOK, item)
	}
}

func (h *Handler) reject(kind domain.ItemKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid item ID")
			return
		}

		var req rejectRequest
		_ = c.ShouldBindJSON(&req)

		item, err := h.service.Reject(c.Request.Context(), kind, id, actorFrom(c), req.Reason)
		if err != nil {
			respondModerationError(c, err)
			return
		}
		response.JSON(c, http.StatusOK, item)
	}
}

func actorFrom(c *gin.Context) workflow.Actor {
	return workflow.Actor{
		ID:   c.GetInt64("user_id"),
		Role: domain.UserRole(c.GetString("role")),
	}
}

func respondModerationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrReasonRequired):
		response.Error(c, http.StatusBadRequest, "Rejection reason is required")
	case errors.Is(err, workflow.ErrNotFound):
		response.Error(c, http.StatusNotFound, "Item not found")
	case errors.Is(err, workflow.ErrForbidden):
		response.Error(c, http.StatusForbidden, "You are not allowed to do this")
	case errors.Is(err, workflow.ErrIllegalTransition):
		response.Error(c, http.StatusConflict, "Transition is not permitted from the current status")
	case errors.Is(err, workflow.ErrConflict):
		response.Error(c, http.StatusConflict, "Item was modified concurrently, please retry")
	default:
		response.Error(c, http.StatusInternalServerError, "Server error")
	}
}
