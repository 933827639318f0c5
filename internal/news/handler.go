package news

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bayside-club/backend/internal/authz"
	"github.com/bayside-club/backend/internal/middleware"
	"github.com/bayside-club/backend/internal/models"
	"github.com/bayside-club/backend/internal/notify"
	"github.com/bayside-club/backend/pkg/response"
)

// ArticleRequest is the body for POST /news and PATCH /news/:id.
type ArticleRequest struct {
	Title           string   `json:"title" binding:"required"`
	Body            string   `json:"body" binding:"required"`
	ImageURL        string   `json:"image_url"`
	VisibleToGroups []string `json:"visible_to_groups"`
}

// Handler handles news HTTP endpoints.
type Handler struct {
	repo     *Repository
	notifier *notify.Notifier
	logger   *zap.Logger
}

// NewHandler creates a news handler.
func NewHandler(repo *Repository, notifier *notify.Notifier, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, notifier: notifier, logger: logger}
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

func canManage(p *authz.Principal, scope []uuid.UUID) bool {
	return authz.CanPerform(p, authz.ActionDeleteAnyResource) || authz.CanManageScoped(p, scope)
}

// List handles GET /news.
func (h *Handler) List(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	all, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list articles")
		return
	}
	visible := make([]models.Article, 0, len(all))
	for _, a := range all {
		if authz.IsVisible(p, a.VisibleToGroups) {
			visible = append(visible, a)
		}
	}
	response.OK(c, visible)
}

// GetByID handles GET /news/:id.
func (h *Handler) GetByID(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid article id")
		return
	}
	a, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "article not found")
		return
	}
	if !authz.IsVisible(p, a.VisibleToGroups) {
		response.NotFound(c, "article not found")
		return
	}
	response.OK(c, a)
}

// Create handles POST /news.
func (h *Handler) Create(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	var req ArticleRequest
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
		response.Forbidden(c, "not allowed to publish for this scope")
		return
	}

	a := &models.Article{
		Title:           req.Title,
		Body:            req.Body,
		ImageURL:        req.ImageURL,
		VisibleToGroups: scope,
		CreatedBy:       p.UserID,
	}
	if err := h.repo.Create(c.Request.Context(), a); err != nil {
		h.logger.Error("create article", zap.Error(err))
		response.Internal(c, "failed to create article")
		return
	}
	h.notifier.ArticlePublished(a)
	response.Created(c, a)
}

// Update handles PATCH /news/:id.
func (h *Handler) Update(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid article id")
		return
	}
	a, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "article not found")
		return
	}
	if !canManage(p, a.VisibleToGroups) {
		response.Forbidden(c, "not authorized to manage this article")
		return
	}

	var req ArticleRequest
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
		response.Forbidden(c, "not allowed to move article to this scope")
		return
	}

	a.Title = req.Title
	a.Body = req.Body
	a.ImageURL = req.ImageURL
	a.VisibleToGroups = scope
	if err := h.repo.Update(c.Request.Context(), a); err != nil {
		response.Internal(c, "failed to update article")
		return
	}
	response.OK(c, a)
}

// Delete handles DELETE /news/:id.
func (h *Handler) Delete(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid article id")
		return
	}
	a, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "article not found")
		return
	}
	if !canManage(p, a.VisibleToGroups) {
		response.Forbidden(c, "not authorized to manage this article")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete article")
		return
	}
	response.OK(c, gin.H{"deleted": id})
}

// ToggleLike handles POST /news/:id/like: self-scoped, any member who
// can see the article.
func (h *Handler) ToggleLike(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid article id")
		return
	}
	a, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "article not found")
		return
	}
	if !authz.IsVisible(p, a.VisibleToGroups) {
		response.NotFound(c, "article not found")
		return
	}
	result, err := h.repo.ToggleLike(c.Request.Context(), id, p.UserID)
	if err != nil {
		h.logger.Error("toggle like", zap.Error(err), zap.String("article_id", id.String()))
		response.Internal(c, "failed to toggle like")
		return
	}
	response.OK(c, result)
}
