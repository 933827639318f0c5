package documents

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/bayside-club/backend/internal/authz"
	"github.com/bayside-club/backend/internal/middleware"
	"github.com/bayside-club/backend/internal/models"
	"github.com/bayside-club/backend/pkg/response"
	"github.com/bayside-club/backend/pkg/storage"
)

// CategoryRequest is the body for POST /documents/categories.
type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// Handler handles document library HTTP endpoints.
type Handler struct {
	repo   *Repository
	store  *storage.S3
	logger *zap.Logger
}

// NewHandler creates a documents handler. store may be nil when object
// storage is not configured; upload and download then return 500.
func NewHandler(repo *Repository, store *storage.S3, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, store: store, logger: logger}
}

func canManage(p *authz.Principal, scope []uuid.UUID) bool {
	return authz.CanPerform(p, authz.ActionDeleteAnyResource) || authz.CanManageScoped(p, scope)
}

// ListCategories handles GET /documents/categories.
func (h *Handler) ListCategories(c *gin.Context) {
	list, err := h.repo.ListCategories(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list categories")
		return
	}
	response.OK(c, list)
}

// CreateCategory handles POST /documents/categories. Admin only,
// enforced by route middleware; a duplicate name maps to 409.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	cat, err := h.repo.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		if errors.Is(err, ErrDuplicateCategory) {
			response.Conflict(c, "category name already exists")
			return
		}
		response.Internal(c, "failed to create category")
		return
	}
	response.Created(c, cat)
}

// DeleteCategory handles DELETE /documents/categories/:id.
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid category id")
		return
	}
	if err := h.repo.DeleteCategory(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			response.NotFound(c, "category not found")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}
	response.OK(c, gin.H{"deleted": id.Hex()})
}

// List handles GET /documents?category_id=. Only documents visible to
// the caller are returned.
func (h *Handler) List(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	var categoryID *primitive.ObjectID
	if raw := c.Query("category_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			response.BadRequest(c, "invalid category id")
			return
		}
		categoryID = &id
	}
	all, err := h.repo.List(c.Request.Context(), categoryID)
	if err != nil {
		response.Internal(c, "failed to list documents")
		return
	}
	visible := make([]models.Document, 0, len(all))
	for _, d := range all {
		if authz.IsVisible(p, d.GroupScope()) {
			visible = append(visible, d)
		}
	}
	response.OK(c, visible)
}

// Upload handles POST /documents: multipart form with a "file" part,
// plus title, category_id, and optional repeated visible_to_groups.
func (h *Handler) Upload(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	if h.store == nil {
		response.Internal(c, "document storage not configured")
		return
	}

	title := c.PostForm("title")
	if title == "" {
		response.BadRequest(c, "title is required")
		return
	}
	categoryID, err := primitive.ObjectIDFromHex(c.PostForm("category_id"))
	if err != nil {
		response.BadRequest(c, "invalid category id")
		return
	}
	scope, err := parseScope(c.PostFormArray("visible_to_groups"))
	if err != nil {
		response.BadRequest(c, "invalid visible_to_groups")
		return
	}
	if !authz.CanCreateScoped(p, scope) {
		response.Forbidden(c, "not allowed to upload for this scope")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if fileHeader.Size > storage.MaxDocumentSize {
		response.BadRequest(c, "file exceeds maximum document size")
		return
	}
	if !storage.ValidateDocumentFilename(fileHeader.Filename) {
		response.BadRequest(c, "unsupported document type")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Internal(c, "failed to read upload")
		return
	}
	defer file.Close()

	key := storage.DocumentKey(primitive.NewObjectID().Hex(), fileHeader.Filename)
	contentType := storage.ContentTypeForFilename(fileHeader.Filename)
	url, err := h.store.Upload(c.Request.Context(), h.store.DocumentsBucket(), key, contentType, file, fileHeader.Size, false)
	if err != nil {
		h.logger.Error("upload document", zap.Error(err), zap.String("key", key))
		response.Internal(c, "failed to store document")
		return
	}

	d := &models.Document{
		Title:           title,
		CategoryID:      categoryID,
		FileURL:         url,
		FileKey:         key,
		ContentType:     contentType,
		SizeBytes:       fileHeader.Size,
		VisibleToGroups: models.GroupScopeStrings(scope),
		CreatedBy:       p.UserID.String(),
	}
	if err := h.repo.Create(c.Request.Context(), d); err != nil {
		// Keep storage consistent with the record that failed to land.
		if delErr := h.store.DeleteDocument(c.Request.Context(), key); delErr != nil {
			h.logger.Warn("orphaned document object", zap.Error(delErr), zap.String("key", key))
		}
		if errors.Is(err, ErrCategoryNotFound) {
			response.BadRequest(c, "unknown category")
			return
		}
		response.Internal(c, "failed to save document")
		return
	}
	response.Created(c, d)
}

// Download handles GET /documents/:id/download: returns a short-lived
// pre-signed URL for documents the caller can see.
func (h *Handler) Download(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid document id")
		return
	}
	d, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "document not found")
		return
	}
	if !authz.IsVisible(p, d.GroupScope()) {
		response.NotFound(c, "document not found")
		return
	}
	if h.store == nil {
		response.Internal(c, "document storage not configured")
		return
	}
	url, err := h.store.GeneratePresignedDownloadURL(c.Request.Context(), h.store.DocumentsBucket(), d.FileKey, h.store.PresignExpire())
	if err != nil {
		h.logger.Error("presign document", zap.Error(err), zap.String("key", d.FileKey))
		response.Internal(c, "failed to generate download link")
		return
	}
	response.OK(c, gin.H{"url": url, "expires_in_seconds": int(h.store.PresignExpire().Seconds())})
}

// Delete handles DELETE /documents/:id.
func (h *Handler) Delete(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid document id")
		return
	}
	d, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "document not found")
		return
	}
	if !canManage(p, d.GroupScope()) {
		response.Forbidden(c, "not authorized to manage this document")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete document")
		return
	}
	if h.store != nil && d.FileKey != "" {
		if err := h.store.DeleteDocument(c.Request.Context(), d.FileKey); err != nil {
			h.logger.Warn("delete document object", zap.Error(err), zap.String("key", d.FileKey))
		}
	}
	response.OK(c, gin.H{"deleted": id.Hex()})
}

func parseScope(ids []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(ids))
	for _, s := range ids {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
