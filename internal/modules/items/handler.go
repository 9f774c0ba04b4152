package items

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"campusportal/internal/domain"
	"campusportal/internal/pkg/response"
	"campusportal/internal/storage"
	"campusportal/internal/workflow"
)

// UserGetter resolves the submitting user so the item can snapshot their
// display name.
type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Handler serves the lostfound, marketplace and notes route families off the
// single generalized items service.
type Handler struct {
	service *Service
	uploads *storage.Gateway
	users   UserGetter
}

func NewHandler(service *Service, uploads *storage.Gateway, users UserGetter) *Handler {
	return &Handler{service: service, uploads: uploads, users: users}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.GET("/lostfound/approved-items", h.listApproved(domain.KindLostFound))
	v1.GET("/marketplace/items", h.listApproved(domain.KindMarketplace))
	v1.GET("/notes/approved", h.listApproved(domain.KindNote))
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.POST("/lostfound/post-item", h.submitMultipart(domain.KindLostFound, storage.NamespaceLostFound, "image", storage.ClassImage, false))
	protected.GET("/lostfound/my-items", h.listMine(domain.KindLostFound))
	protected.DELETE("/lostfound/:id", h.deleteItem)

	protected.POST("/marketplace/sell", h.submitMultipart(domain.KindMarketplace, storage.NamespaceMarketplace, "image", storage.ClassImage, false))
	protected.GET("/marketplace/my-items", h.listMine(domain.KindMarketplace))
	protected.PUT("/marketplace/:id/status", h.setMarketplaceStatus)
	protected.DELETE("/marketplace/:id", h.deleteItem)

	protected.POST("/notes/create", h.createNote)
	protected.POST("/notes/upload", h.submitMultipart(domain.KindNote, storage.NamespaceNotes, "file", storage.ClassDocument, true))
	protected.GET("/notes/my-notes", h.listMine(domain.KindNote))
	protected.DELETE("/notes/:id", h.deleteItem)
}

// RegisterAdminRoutes expects a group already guarded by the admin-role
// middleware; the service re-checks the policy regardless.
func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/lostfound/pending-items", h.listPending(domain.KindLostFound))
	admin.GET("/marketplace/pending", h.listPending(domain.KindMarketplace))
	admin.GET("/notes/pending", h.listPending(domain.KindNote))
	admin.GET("/notes/all", h.listAllNotes)
	admin.PUT("/notes/approve/:id", h.transitionHandler(domain.StatusApproved))
	admin.PUT("/notes/reject/:id", h.transitionHandler(domain.StatusRejected))
}

func (h *Handler) listApproved(kind domain.ItemKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		includePostSale := c.Query("include_post_sale") == "true" && kind == domain.KindMarketplace
		list, err := h.service.ListApproved(c.Request.Context(), kind, includePostSale)
		if err != nil {
			respondError(c, err)
			return
		}
		response.JSON(c, http.StatusOK, list)
	}
}

func (h *Handler) listMine(kind domain.ItemKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := actorFrom(c)
		list, err := h.service.ListMine(c.Request.Context(), kind, actor.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		response.JSON(c, http.StatusOK, list)
	}
}

func (h *Handler) listPending(kind domain.ItemKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := h.service.ListPending(c.Request.Context(), kind, actorFrom(c))
		if err != nil {
			respondError(c, err)
			return
		}
		response.JSON(c, http.StatusOK, list)
	}
}

func (h *Handler) listAllNotes(c *gin.Context) {
	list, err := h.service.ListAll(c.Request.Context(), domain.KindNote, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list)
}

// submitMultipart handles the three multipart submission routes. The file
// part is optional unless fileRequired is set (notes upload).
func (h *Handler) submitMultipart(kind domain.ItemKind, namespace, filePart string, class storage.Class, fileRequired bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubmitRequest
		if err := c.ShouldBind(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		req.RequireAttachment = fileRequired

		if fh, err := c.FormFile(filePart); err == nil && fh != nil {
			ref, err := h.storeUpload(c, namespace, fh, class)
			if err != nil {
				respondError(c, err)
				return
			}
			req.AttachmentURL = ref.URL
		}

		h.submit(c, kind, req)
	}
}

func (h *Handler) createNote(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.submit(c, domain.KindNote, req)
}

func (h *Handler) submit(c *gin.Context, kind domain.ItemKind, req SubmitRequest) {
	actor := actorFrom(c)

	user, err := h.users.GetByID(c.Request.Context(), actor.ID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	item, err := h.service.Submit(c.Request.Context(), kind, actor.ID, user.Name, req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, item)
}

func (h *Handler) setMarketplaceStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req MarketplaceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	to := domain.ItemStatus(req.Status)
	if to != domain.StatusSold && to != domain.StatusInactive {
		response.Error(c, http.StatusBadRequest, "Status must be sold or inactive")
		return
	}

	item, err := h.service.SetStatus(c.Request.Context(), id, to, actorFrom(c), "")
	if err != nil {
		respondError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

func (h *Handler) transitionHandler(to domain.ItemStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid item ID")
			return
		}

		var reason string
		if to == domain.StatusRejected {
			var req RejectRequest
			if err := c.ShouldBindJSON(&req); err == nil {
				reason = req.Reason
			}
		}

		item, err := h.service.SetStatus(c.Request.Context(), id, to, actorFrom(c), reason)
		if err != nil {
			respondError(c, err)
			return
		}
		response.JSON(c, http.StatusOK, item)
	}
}

func (h *Handler) deleteItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid item ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, actorFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Item deleted")
}

func (h *Handler) storeUpload(c *gin.Context, namespace string, fh *multipart.FileHeader, class storage.Class) (*storage.FileReference, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// Buffer at most one byte past the limit; the gateway rejects oversized
	// payloads before anything is written.
	data, err := io.ReadAll(io.LimitReader(f, storage.MaxSize(class)+1))
	if err != nil {
		return nil, err
	}

	return h.uploads.Store(c.Request.Context(), namespace, fh.Filename, fh.Header.Get("Content-Type"), class, data)
}

func actorFrom(c *gin.Context) workflow.Actor {
	return workflow.Actor{
		ID:   c.GetInt64("user_id"),
		Role: domain.UserRole(c.GetString("role")),
	}
}

func respondError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithFields(c, http.StatusBadRequest, verr.Error(), verr.Fields)
	case errors.Is(err, storage.ErrFileTooLarge),
		errors.Is(err, storage.ErrUnsupportedFileType),
		errors.Is(err, storage.ErrEmptyFile):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, workflow.ErrForbidden):
		response.Error(c, http.StatusForbidden, "You are not allowed to do this")
	case errors.Is(err, ErrItemNotFound), errors.Is(err, workflow.ErrNotFound):
		response.Error(c, http.StatusNotFound, "Item not found")
	case errors.Is(err, workflow.ErrIllegalTransition):
		response.Error(c, http.StatusConflict, "Transition is not permitted from the current status")
	case errors.Is(err, workflow.ErrConflict):
		response.Error(c, http.StatusConflict, "Item was modified concurrently, please retry")
	default:
		response.Error(c, http.StatusInternalServerError, "Server error")
	}
}
