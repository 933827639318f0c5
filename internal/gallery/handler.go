package gallery

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

// AlbumRequest is the body for POST /gallery/albums and PATCH /gallery/albums/:id.
type AlbumRequest struct {
	Title           string   `json:"title" binding:"required"`
	Description     string   `json:"description"`
	CoverPhotoURL   string   `json:"cover_photo_url"`
	VisibleToGroups []string `json:"visible_to_groups"`
}

// Handler handles photo gallery HTTP endpoints.
type Handler struct {
	repo   *Repository
	store  *storage.S3
	logger *zap.Logger
}

// NewHandler creates a gallery handler.
func NewHandler(repo *Repository, store *storage.S3, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, store: store, logger: logger}
}

func canManage(p *authz.Principal, scope []uuid.UUID) bool {
	return authz.CanPerform(p, authz.ActionDeleteAnyResource) || authz.CanManageScoped(p, scope)
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

// ListAlbums handles GET /gallery/albums.
func (h *Handler) ListAlbums(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	all, err := h.repo.ListAlbums(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list albums")
		return
	}
	visible := make([]models.Album, 0, len(all))
	for _, a := range all {
		if authz.IsVisible(p, a.GroupScope()) {
			visible = append(visible, a)
		}
	}
	response.OK(c, visible)
}

// GetAlbum handles GET /gallery/albums/:id, returning the album with
// its photos.
func (h *Handler) GetAlbum(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid album id")
		return
	}
	a, err := h.repo.GetAlbum(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "album not found")
		return
	}
	if !authz.IsVisible(p, a.GroupScope()) {
		response.NotFound(c, "album not found")
		return
	}
	photos, err := h.repo.ListPhotos(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to list photos")
		return
	}
	response.OK(c, gin.H{"album": a, "photos": photos})
}

// CreateAlbum handles POST /gallery/albums.
func (h *Handler) CreateAlbum(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	var req AlbumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	scope, err := parseScope(req.VisibleToGroups)
	if err != nil {
		response.BadRequest(c, "invalid visible_to_groups")
		return
	}
	if !authz.CanCreateScoped(p, scope) {
		response.Forbidden(c, "not allowed to create albums for this scope")
		return
	}
	a := &models.Album{
		Title:           req.Title,
		Description:     req.Description,
		CoverPhotoURL:   req.CoverPhotoURL,
		VisibleToGroups: models.GroupScopeStrings(scope),
		CreatedBy:       p.UserID.String(),
	}
	if err := h.repo.CreateAlbum(c.Request.Context(), a); err != nil {
		h.logger.Error("create album", zap.Error(err))
		response.Internal(c, "failed to create album")
		return
	}
	response.Created(c, a)
}

// UpdateAlbum handles PATCH /gallery/albums/:id.
func (h *Handler) UpdateAlbum(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid album id")
		return
	}
	a, err := h.repo.GetAlbum(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "album not found")
		return
	}
	if !canManage(p, a.GroupScope()) {
		response.Forbidden(c, "not authorized to manage this album")
		return
	}

	var req AlbumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	scope, err := parseScope(req.VisibleToGroups)
	if err != nil {
		response.BadRequest(c, "invalid visible_to_groups")
		return
	}
	if !authz.CanPerform(p, authz.ActionDeleteAnyResource) && !authz.CanCreateScoped(p, scope) {
		response.Forbidden(c, "not allowed to move album to this scope")
		return
	}

	a.Title = req.Title
	a.Description = req.Description
	a.CoverPhotoURL = req.CoverPhotoURL
	a.VisibleToGroups = models.GroupScopeStrings(scope)
	if err := h.repo.UpdateAlbum(c.Request.Context(), a); err != nil {
		response.Internal(c, "failed to update album")
		return
	}
	response.OK(c, a)
}

// DeleteAlbum handles DELETE /gallery/albums/:id: removes the album,
// its photo records, and the stored objects. Object cleanup failures
// are reported but do not undo the record deletion.
func (h *Handler) DeleteAlbum(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid album id")
		return
	}
	a, err := h.repo.GetAlbum(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "album not found")
		return
	}
	if !canManage(p, a.GroupScope()) {
		response.Forbidden(c, "not authorized to manage this album")
		return
	}
	photos, err := h.repo.DeleteAlbum(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to delete album")
		return
	}
	failed := 0
	if h.store != nil {
		for _, ph := range photos {
			if ph.Key == "" {
				continue
			}
			if err := h.store.DeletePhoto(c.Request.Context(), ph.Key); err != nil {
				failed++
				h.logger.Warn("delete photo object", zap.Error(err), zap.String("key", ph.Key))
			}
		}
	}
	response.OK(c, gin.H{"deleted": id.Hex(), "photos_removed": len(photos), "object_cleanup_failures": failed})
}

// UploadPhoto handles POST /gallery/albums/:id/photos: multipart form
// with a "photo" part and an optional caption.
func (h *Handler) UploadPhoto(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	if h.store == nil {
		response.Internal(c, "photo storage not configured")
		return
	}
	albumID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid album id")
		return
	}
	a, err := h.repo.GetAlbum(c.Request.Context(), albumID)
	if err != nil {
		response.NotFound(c, "album not found")
		return
	}
	if !canManage(p, a.GroupScope()) {
		response.Forbidden(c, "not authorized to manage this album")
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		response.BadRequest(c, "photo is required")
		return
	}
	if fileHeader.Size > storage.MaxPhotoSize {
		response.BadRequest(c, "photo exceeds maximum size")
		return
	}
	if !storage.ValidatePhotoFilename(fileHeader.Filename) {
		response.BadRequest(c, "unsupported image type")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Internal(c, "failed to read upload")
		return
	}
	defer file.Close()

	key := storage.PhotoKey(albumID.Hex(), primitive.NewObjectID().Hex()+"_"+fileHeader.Filename)
	contentType := storage.ContentTypeForFilename(fileHeader.Filename)
	url, err := h.store.Upload(c.Request.Context(), h.store.MediaBucket(), key, contentType, file, fileHeader.Size, true)
	if err != nil {
		h.logger.Error("upload photo", zap.Error(err), zap.String("key", key))
		response.Internal(c, "failed to store photo")
		return
	}

	photo := &models.Photo{
		AlbumID:    albumID,
		URL:        url,
		Key:        key,
		Caption:    c.PostForm("caption"),
		UploadedBy: p.UserID.String(),
	}
	if err := h.repo.AddPhoto(c.Request.Context(), photo); err != nil {
		if delErr := h.store.DeletePhoto(c.Request.Context(), key); delErr != nil {
			h.logger.Warn("orphaned photo object", zap.Error(delErr), zap.String("key", key))
		}
		response.Internal(c, "failed to save photo")
		return
	}
	response.Created(c, photo)
}

// DeletePhoto handles DELETE /gallery/photos/:id.
func (h *Handler) DeletePhoto(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid photo id")
		return
	}
	photo, err := h.repo.GetPhoto(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "photo not found")
		return
	}
	a, err := h.repo.GetAlbum(c.Request.Context(), photo.AlbumID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		response.Internal(c, "failed to load album")
		return
	}
	var scope []uuid.UUID
	if a != nil {
		scope = a.GroupScope()
	}
	if !canManage(p, scope) {
		response.Forbidden(c, "not authorized to manage this photo")
		return
	}
	if err := h.repo.DeletePhoto(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete photo")
		return
	}
	if h.store != nil && photo.Key != "" {
		if err := h.store.DeletePhoto(c.Request.Context(), photo.Key); err != nil {
			h.logger.Warn("delete photo object", zap.Error(err), zap.String("key", photo.Key))
		}
	}
	response.OK(c, gin.H{"deleted": id.Hex()})
}
