package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bayside-club/backend/internal/authz"
	"github.com/bayside-club/backend/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

// Claims is the session token payload: identity, role set and group
// memberships. Claims are fixed at issue time; role or group changes
// reach a token only on re-login or refresh (known staleness window).
type Claims struct {
	UserID     uuid.UUID   `json:"user_id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Roles      []string    `json:"roles"`
	GroupIDs   []uuid.UUID `json:"group_ids"`
	AdminFor   []uuid.UUID `json:"admin_for"`
	SuperAdmin bool        `json:"super_admin"`
	jwt.RegisteredClaims
}

// Principal converts verified claims into an authz principal, rejecting
// malformed role values at the boundary instead of propagating them.
func (c *Claims) Principal() (*authz.Principal, error) {
	roles := make([]authz.Role, 0, len(c.Roles))
	for _, s := range c.Roles {
		r, err := authz.ParseRole(s)
		if err != nil {
			return nil, ErrInvalidToken
		}
		roles = append(roles, r)
	}
	return &authz.Principal{
		UserID:     c.UserID,
		Name:       c.Name,
		Email:      c.Email,
		Roles:      roles,
		Groups:     c.GroupIDs,
		AdminFor:   c.AdminFor,
		SuperAdmin: c.SuperAdmin,
	}, nil
}

// TokenService signs and verifies session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service.
func NewTokenService(secret string, expireHours int) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    time.Duration(expireHours) * time.Hour,
	}
}

// TTL returns the token validity window (also the cookie max-age).
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue creates a signed session token from the user's current database row.
func (s *TokenService) Issue(u *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:     u.ID,
		Name:       u.FullName,
		Email:      u.Email,
		Roles:      u.Roles,
		GroupIDs:   u.GroupIDs,
		AdminFor:   u.AdminFor,
		SuperAdmin: u.SuperAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a session token. Verification fails
// closed: signature mismatch, structural corruption and expiry all
// yield an error, never a partially-trusted result.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
