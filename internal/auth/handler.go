package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bayside-club/backend/internal/middleware"
	"github.com/bayside-club/backend/internal/models"
	"github.com/bayside-club/backend/pkg/response"
	"github.com/bayside-club/backend/pkg/utils"
)

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ExternalRequest is the body for POST /auth/external.
type ExternalRequest struct {
	ProviderToken string `json:"provider_token" binding:"required"`
}

// SessionResponse is the auth response. The token also travels in the
// auth_token cookie; the body copy serves non-browser clients.
type SessionResponse struct {
	Token string            `json:"token"`
	User  models.UserPublic `json:"user"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	repo         *Repository
	tokens       *TokenService
	identity     IdentityVerifier
	secureCookie bool
	logger       *zap.Logger
}

// NewHandler creates an auth handler. identity may be nil when external
// sign-in is not configured.
func NewHandler(repo *Repository, tokens *TokenService, identity IdentityVerifier, secureCookie bool, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, tokens: tokens, identity: identity, secureCookie: secureCookie, logger: logger}
}

func (h *Handler) issueSession(c *gin.Context, user *models.User, created bool) {
	token, err := h.tokens.Issue(user)
	if err != nil {
		h.logger.Error("issue token", zap.Error(err))
		response.Internal(c, "failed to create session")
		return
	}
	SetSessionCookie(c, token, h.tokens.TTL(), h.secureCookie)
	body := SessionResponse{Token: token, User: user.ToPublic()}
	if created {
		response.Created(c, body)
		return
	}
	response.OK(c, body)
}

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}
	// The unique email constraint settles races between two concurrent
	// registrations; no pre-check needed.
	user, err := h.repo.Create(c.Request.Context(), req.Email, hash, req.FullName, req.Phone)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			response.Conflict(c, "email already registered")
			return
		}
		h.logger.Error("create user", zap.Error(err))
		response.Internal(c, "failed to create user")
		return
	}
	h.issueSession(c, user, true)
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.repo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil || !utils.CheckPassword(req.Password, user.PasswordHash) {
		response.Unauthorized(c, "invalid email or password")
		return
	}
	h.issueSession(c, user, false)
}

// External handles POST /auth/external: verifies a provider token and
// signs in, creating the account on first use.
func (h *Handler) External(c *gin.Context) {
	if h.identity == nil {
		response.Internal(c, "external sign-in not configured")
		return
	}
	var req ExternalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	ident, err := h.identity.VerifyExternalIdentity(c.Request.Context(), req.ProviderToken)
	if err != nil {
		response.Unauthorized(c, "identity verification failed")
		return
	}

	user, err := h.repo.GetByExternalSubject(c.Request.Context(), ident.SubjectID)
	if errors.Is(err, ErrUserNotFound) {
		user, err = h.repo.CreateExternal(c.Request.Context(), ident.SubjectID, ident.Email, ident.DisplayName)
		if err != nil {
			h.logger.Error("create external user", zap.Error(err))
			response.Internal(c, "failed to create user")
			return
		}
		h.issueSession(c, user, true)
		return
	}
	if err != nil {
		h.logger.Error("lookup external user", zap.Error(err))
		response.Internal(c, "sign-in failed")
		return
	}
	h.issueSession(c, user, false)
}

// Refresh handles POST /auth/refresh: re-issues a token from the user's
// current database row, closing the claims staleness window on demand.
func (h *Handler) Refresh(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	user, err := h.repo.GetByID(c.Request.Context(), p.UserID)
	if err != nil {
		response.Unauthorized(c, "account no longer exists")
		return
	}
	h.issueSession(c, user, false)
}

// Logout handles POST /auth/logout.
func (h *Handler) Logout(c *gin.Context) {
	ClearSessionCookie(c, h.secureCookie)
	response.OK(c, gin.H{"logged_out": true})
}
