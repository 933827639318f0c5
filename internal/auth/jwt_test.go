package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/bayside-club/backend/internal/authz"
	"github.com/bayside-club/backend/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:       uuid.New(),
		Email:    "kim@example.com",
		FullName: "Kim Park",
		Roles:    []string{"member", "group_admin"},
		GroupIDs: []uuid.UUID{uuid.New(), uuid.New()},
		AdminFor: []uuid.UUID{uuid.New()},
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", 24)
	u := testUser()

	token, err := svc.Issue(u)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != u.ID {
		t.Errorf("user id = %v, want %v", claims.UserID, u.ID)
	}
	if claims.Email != u.Email {
		t.Errorf("email = %q, want %q", claims.Email, u.Email)
	}
	if len(claims.Roles) != 2 || len(claims.GroupIDs) != 2 || len(claims.AdminFor) != 1 {
		t.Errorf("claims not carried: roles=%v groups=%v admin_for=%v", claims.Roles, claims.GroupIDs, claims.AdminFor)
	}

	p, err := claims.Principal()
	if err != nil {
		t.Fatalf("principal: %v", err)
	}
	if !p.HasRole(authz.RoleGroupAdmin) {
		t.Error("principal lost group_admin role")
	}
	if p.SuperAdmin {
		t.Error("principal gained super_admin")
	}
}

func TestVerifyExpired(t *testing.T) {
	svc := NewTokenService("test-secret", -1)
	token, err := svc.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	_, err = svc.Verify(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("verify expired = %v, want ErrExpiredToken", err)
	}
}

func TestVerifyTampered(t *testing.T) {
	svc := NewTokenService("test-secret", 24)
	token, err := svc.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %d parts", len(parts))
	}
	// Flip the payload; the signature no longer matches.
	tampered := parts[0] + "." + parts[1][:len(parts[1])-2] + "xx." + parts[2]
	if _, err := svc.Verify(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("verify tampered = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", 24)
	verifier := NewTokenService("secret-b", 24)
	token, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("verify with wrong secret = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	svc := NewTokenService("test-secret", 24)
	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.Verify(token); err == nil {
			t.Errorf("verify(%q) accepted malformed token", token)
		}
	}
}

func TestPrincipalRejectsUnknownRole(t *testing.T) {
	claims := &Claims{
		UserID: uuid.New(),
		Roles:  []string{"member", "owner"},
	}
	if _, err := claims.Principal(); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("principal with unknown role = %v, want ErrInvalidToken", err)
	}
}
