package notification

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"campusportal/internal/domain"
	"campusportal/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	group := protected.Group("/notifications")
	{
		group.GET("", h.List)
		group.GET("/unread", h.Unread)
		group.POST("", h.Create)
		group.POST("/:id/read", h.MarkRead)
		group.POST("/read-all", h.MarkAllRead)
	}
}

func (h *Handler) List(c *gin.Context) {
	userID := c.GetInt64("user_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	notifs, err := h.service.ListFor(c.Request.Context(), userID, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}
	response.JSON(c, http.StatusOK, notifs)
}

func (h *Handler) Unread(c *gin.Context) {
	count, err := h.service.CountUnread(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"count": count})
}

type createRequest struct {
	Message       string `json:"message" binding:"required"`
	Type          string `json:"type"`
	RelatedItemID *int64 `json:"related_item_id"`
}

// Create lets a user append a notice for themself.
func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Type == "" {
		req.Type = domain.NotifTypeGeneral
	}

	n, err := h.service.Notify(c.Request.Context(), c.GetInt64("user_id"), req.Message, req.Type, req.RelatedItemID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}
	response.JSON(c, http.StatusCreated, n)
}

func (h *Handler) MarkRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	err = h.service.MarkRead(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			response.Error(c, http.StatusNotFound, "Notification not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}
	response.Message(c, http.StatusOK, "Notification marked as read")
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	if err := h.service.MarkAllRead(c.Request.Context(), c.GetInt64("user_id")); err != nil {
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}
	response.Message(c, http.StatusOK, "All notifications marked as read")
}
