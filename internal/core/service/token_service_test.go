package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sehatsathi/inventory-api/internal/core/domain"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := NewTokenService(testSecret, 0)
	identity := &domain.Identity{ID: "id-1", Role: domain.RoleGovernment}

	token, expiresAt, err := svc.Issue(identity)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if d := time.Until(expiresAt); d < 23*time.Hour || d > 25*time.Hour {
		t.Fatalf("default TTL should be 24h, expires in %v", d)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.IdentityID != "id-1" || claims.Role != domain.RoleGovernment {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	raw := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(token, raw, func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil }); err != nil {
		t.Fatalf("parse raw: %v", err)
	}
	if raw["user_id"] != "id-1" || raw["user_type"] != "government" {
		t.Fatalf("expected user_id/user_type claims, got %v", raw)
	}
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := svc.Issue(&domain.Identity{ID: "id-1", Role: domain.RolePharmacy})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenService_Invalid(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	other := NewTokenService("another-secret", time.Hour)

	foreign, _, err := other.Issue(&domain.Identity{ID: "id-1", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id":   "id-1",
		"user_type": "admin",
		"exp":       time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   "id-1",
		"user_type": "admin",
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   "id-1",
		"user_type": "root",
		"exp":       time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	for name, token := range map[string]string{
		"garbage":        "not-a-token",
		"foreign secret": foreign,
		"alg none":       unsigned,
		"no expiry":      noExpiry,
		"unknown role":   badRole,
	} {
		if _, err := svc.Verify(token); !errors.Is(err, domain.ErrTokenInvalid) {
			t.Fatalf("%s: expected ErrTokenInvalid, got %v", name, err)
		}
	}
}
