package events

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bayside-club/backend/internal/authz"
	"github.com/bayside-club/backend/internal/middleware"
	"github.com/bayside-club/backend/internal/models"
	"github.com/bayside-club/backend/internal/notify"
	"github.com/bayside-club/backend/pkg/response"
)

// CreateRequest is the body for POST /events.
type CreateRequest struct {
	Title           string   `json:"title" binding:"required"`
	Description     string   `json:"description"`
	Location        string   `json:"location"`
	StartsAt        string   `json:"starts_at" binding:"required"`
	EndsAt          *string  `json:"ends_at"`
	VisibleToGroups []string `json:"visible_to_groups"`
}

// RSVPRequest is the body for PUT /events/:id/rsvp.
type RSVPRequest struct {
	Status      string `json:"status" binding:"required"`
	Comment     string `json:"comment"`
	AdultGuests int    `json:"adult_guests"`
	KidGuests   int    `json:"kid_guests"`
}

// Handler handles event HTTP endpoints.
type Handler struct {
	repo     *Repository
	notifier *notify.Notifier
	logger   *zap.Logger
}

// NewHandler creates an events handler.
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

// List handles GET /events. Anonymous viewers see only public events;
// members additionally see events scoped to their groups.
func (h *Handler) List(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	all, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list events")
		return
	}
	visible := make([]models.Event, 0, len(all))
	for _, e := range all {
		if authz.IsVisible(p, e.VisibleToGroups) {
			visible = append(visible, e)
		}
	}
	response.OK(c, visible)
}

// GetByID handles GET /events/:id.
func (h *Handler) GetByID(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	if !authz.IsVisible(p, e.VisibleToGroups) {
		// Scoped resources stay invisible, not just forbidden.
		response.NotFound(c, "event not found")
		return
	}
	response.OK(c, e)
}

// Create handles POST /events. Admins may create public or scoped
// events; group admins only events scoped to groups they administer.
func (h *Handler) Create(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	var req CreateRequest
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
		response.Forbidden(c, "not allowed to create events for this scope")
		return
	}
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		response.BadRequest(c, "invalid starts_at")
		return
	}
	var endsAt *time.Time
	if req.EndsAt != nil {
		t, err := time.Parse(time.RFC3339, *req.EndsAt)
		if err != nil {
			response.BadRequest(c, "invalid ends_at")
			return
		}
		endsAt = &t
	}

	e := &models.Event{
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		StartsAt:        startsAt,
		EndsAt:          endsAt,
		VisibleToGroups: scope,
		CreatedBy:       p.UserID,
	}
	if err := h.repo.Create(c.Request.Context(), e); err != nil {
		h.logger.Error("create event", zap.Error(err))
		response.Internal(c, "failed to create event")
		return
	}
	h.notifier.EventCreated(e)
	response.Created(c, e)
}

// canManage applies per-instance management rights: admins via the
// delete-any action, group admins via the delegated resolver.
func canManage(p *authz.Principal, scope []uuid.UUID) bool {
	return authz.CanPerform(p, authz.ActionDeleteAnyResource) || authz.CanManageScoped(p, scope)
}

// Update handles PATCH /events/:id. Fetch-then-decide: the resource's
// current scope determines who may manage it.
func (h *Handler) Update(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	if !canManage(p, e.VisibleToGroups) {
		response.Forbidden(c, "not authorized to manage this event")
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	scope, err := parseScope(req.VisibleToGroups)
	if err != nil {
		response.BadRequest(c, "invalid visible_to_groups")
		return
	}
	// Re-scoping must also be allowed for the new target scope.
	if !authz.CanPerform(p, authz.ActionDeleteAnyResource) && !authz.CanCreateScoped(p, scope) {
		response.Forbidden(c, "not allowed to move event to this scope")
		return
	}
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		response.BadRequest(c, "invalid starts_at")
		return
	}
	var endsAt *time.Time
	if req.EndsAt != nil {
		t, err := time.Parse(time.RFC3339, *req.EndsAt)
		if err != nil {
			response.BadRequest(c, "invalid ends_at")
			return
		}
		endsAt = &t
	}

	e.Title = req.Title
	e.Description = req.Description
	e.Location = req.Location
	e.StartsAt = startsAt
	e.EndsAt = endsAt
	e.VisibleToGroups = scope
	if err := h.repo.Update(c.Request.Context(), e); err != nil {
		response.Internal(c, "failed to update event")
		return
	}
	response.OK(c, e)
}

// Delete handles DELETE /events/:id. Removes the event and its RSVPs
// together.
func (h *Handler) Delete(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	if !canManage(p, e.VisibleToGroups) {
		response.Forbidden(c, "not authorized to manage this event")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("delete event", zap.Error(err), zap.String("event_id", id.String()))
		response.Internal(c, "failed to delete event")
		return
	}
	response.OK(c, gin.H{"deleted": id})
}

// UpsertRSVP handles PUT /events/:id/rsvp: the caller's single current
// answer, overwritten on every call.
func (h *Handler) UpsertRSVP(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	var req RSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	status, err := models.ParseRSVPStatus(req.Status)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.AdultGuests < 0 || req.KidGuests < 0 {
		response.BadRequest(c, "guest counts must be non-negative")
		return
	}

	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	if !authz.IsVisible(p, e.VisibleToGroups) {
		response.NotFound(c, "event not found")
		return
	}

	rsvp := &models.RSVP{
		EventID:     id,
		UserID:      p.UserID,
		Status:      status,
		Comment:     req.Comment,
		AdultGuests: req.AdultGuests,
		KidGuests:   req.KidGuests,
	}
	if err := h.repo.UpsertRSVP(c.Request.Context(), rsvp); err != nil {
		h.logger.Error("upsert rsvp", zap.Error(err), zap.String("event_id", id.String()))
		response.Internal(c, "failed to save rsvp")
		return
	}
	response.OK(c, rsvp)
}

// MyRSVP handles GET /events/:id/rsvp.
func (h *Handler) MyRSVP(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	rsvp, err := h.repo.GetRSVP(c.Request.Context(), id, p.UserID)
	if err != nil {
		if errors.Is(err, ErrNoRSVP) {
			response.NotFound(c, "no rsvp yet")
			return
		}
		response.Internal(c, "failed to load rsvp")
		return
	}
	response.OK(c, rsvp)
}

// Tally handles GET /events/:id/rsvps/tally: aggregate counts, readable
// by anyone who can see the event.
func (h *Handler) Tally(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	if !authz.IsVisible(p, e.VisibleToGroups) {
		response.NotFound(c, "event not found")
		return
	}
	tally, err := h.repo.TallyRSVPs(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to tally rsvps")
		return
	}
	response.OK(c, tally)
}

// ListRSVPs handles GET /events/:id/rsvps: full detail, admins and
// delegated group admins only.
func (h *Handler) ListRSVPs(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	if !canManage(p, e.VisibleToGroups) {
		response.Forbidden(c, "not authorized to view rsvp detail")
		return
	}
	list, err := h.repo.ListRSVPs(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to list rsvps")
		return
	}
	response.OK(c, list)
}
