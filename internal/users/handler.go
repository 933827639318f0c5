package users

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bayside-club/backend/internal/authz"
	"github.com/bayside-club/backend/internal/middleware"
	"github.com/bayside-club/backend/internal/models"
	"github.com/bayside-club/backend/pkg/response"
)

// UpdateProfileRequest is the body for PATCH /me.
type UpdateProfileRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
}

// DeviceTokenRequest is the body for POST /me/devices.
type DeviceTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// AssignRequest is the body for PATCH /users/:id/roles.
type AssignRequest struct {
	Roles    []string `json:"roles" binding:"required"`
	GroupIDs []string `json:"group_ids"`
	AdminFor []string `json:"admin_for"`
}

// Handler handles user management HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a users handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /users (management only).
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list users")
		return
	}
	response.OK(c, list)
}

// Me handles GET /me.
func (h *Handler) Me(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	u, err := h.repo.GetByID(c.Request.Context(), p.UserID)
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}
	response.OK(c, u.ToPublic())
}

// UpdateMe handles PATCH /me (self-scoped, any role).
func (h *Handler) UpdateMe(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	u, err := h.repo.UpdateProfile(c.Request.Context(), p.UserID, req.FullName, req.Phone)
	if err != nil {
		response.Internal(c, "failed to update profile")
		return
	}
	response.OK(c, u.ToPublic())
}

// UpdateNotifications handles PUT /me/notifications.
func (h *Handler) UpdateNotifications(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	var req models.NotificationSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.repo.UpdateNotificationSettings(c.Request.Context(), p.UserID, req); err != nil {
		response.Internal(c, "failed to update notification settings")
		return
	}
	response.OK(c, req)
}

// RegisterDevice handles POST /me/devices.
func (h *Handler) RegisterDevice(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	var req DeviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.repo.AddDeviceToken(c.Request.Context(), p.UserID, req.Token); err != nil {
		response.Internal(c, "failed to register device")
		return
	}
	response.OK(c, gin.H{"registered": true})
}

// Assign handles PATCH /users/:id/roles: replaces a user's roles and
// group sets. Admin action; appointing group admins (the group_admin
// role or a non-empty admin_for set) is reserved for the super-admin.
func (h *Handler) Assign(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	roles := make([]string, 0, len(req.Roles))
	appointsGroupAdmin := len(req.AdminFor) > 0
	for _, s := range req.Roles {
		r, err := authz.ParseRole(s)
		if err != nil {
			response.BadRequest(c, "invalid role: "+s)
			return
		}
		if r == authz.RoleGroupAdmin {
			appointsGroupAdmin = true
		}
		roles = append(roles, string(r))
	}
	if appointsGroupAdmin && !authz.CanPerform(p, authz.ActionManageRoles) {
		response.Forbidden(c, "appointing group admins requires super-admin")
		return
	}

	groupIDs, err := parseUUIDs(req.GroupIDs)
	if err != nil {
		response.BadRequest(c, "invalid group_ids")
		return
	}
	adminFor, err := parseUUIDs(req.AdminFor)
	if err != nil {
		response.BadRequest(c, "invalid admin_for")
		return
	}

	u, err := h.repo.UpdateRolesAndGroups(c.Request.Context(), id, roles, groupIDs, adminFor)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		h.logger.Error("assign roles", zap.Error(err), zap.String("user_id", id.String()))
		response.Internal(c, "failed to update user")
		return
	}
	response.OK(c, u.ToPublic())
}

// Delete handles DELETE /users/:id (admin only; not self).
func (h *Handler) Delete(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	if p.UserID == id {
		response.BadRequest(c, "cannot delete own account")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.Internal(c, "failed to delete user")
		return
	}
	response.OK(c, gin.H{"deleted": id})
}

func parseUUIDs(ss []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(ss))
	for _, s := range ss {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
