package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/riskibarqy/sport-alerts/internal/domain/user"
	"github.com/riskibarqy/sport-alerts/internal/usecase"
)

func newTestManager(t *testing.T, now time.Time) *Manager {
	t.Helper()
	m, err := NewManager(Config{Secret: "test-secret", TTL: 24 * time.Hour, CacheTTL: time.Minute, CacheMaxItems: 8}, nil)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	m.now = func() time.Time { return now }
	return m
}

func TestManager_IssueAndVerify(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 12, 25, 2, 0, 0, 0, time.UTC)
	m := newTestManager(t, now)
	principal := user.Principal{UserID: "u-bb", Username: "bb", Role: user.RoleSportManager, SportType: "Basketball"}

	session, err := m.Issue(context.Background(), principal)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !session.ExpiresAt.Equal(now.Add(24 * time.Hour)) {
		t.Fatalf("unexpected expiry: got=%s want=%s", session.ExpiresAt, now.Add(24*time.Hour))
	}

	got, err := m.VerifyAccessToken(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != principal {
		t.Fatalf("unexpected principal: got=%+v want=%+v", got, principal)
	}
}

func TestManager_VerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2025, 12, 25, 2, 0, 0, 0, time.UTC)
	m := newTestManager(t, issuedAt)
	session, err := m.Issue(context.Background(), user.Principal{UserID: "u-admin", Role: user.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	m.now = func() time.Time { return issuedAt.Add(25 * time.Hour) }
	if _, err := m.VerifyAccessToken(context.Background(), session.Token); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for expired token, got %v", err)
	}
}

func TestManager_VerifyRejectsForeignSignature(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 12, 25, 2, 0, 0, 0, time.UTC)
	m := newTestManager(t, now)
	other, _ := NewManager(Config{Secret: "another-secret"}, nil)
	other.now = m.now

	session, err := other.Issue(context.Background(), user.Principal{UserID: "u-admin", Role: user.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.VerifyAccessToken(context.Background(), session.Token); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for foreign signature, got %v", err)
	}
}

func TestManager_VerifyRejectsUnscopedManager(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 12, 25, 2, 0, 0, 0, time.UTC)
	m := newTestManager(t, now)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-x",
			Issuer:    "sport-alerts",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Role: string(user.RoleSportManager),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.VerifyAccessToken(context.Background(), signed); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for unscoped manager, got %v", err)
	}
}

func TestManager_VerifyServesCachedPrincipal(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, time.Now())
	principal := user.Principal{UserID: "u-admin", Username: "admin", Role: user.RoleAdmin}
	session, err := m.Issue(context.Background(), principal)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.VerifyAccessToken(context.Background(), session.Token); err != nil {
		t.Fatalf("first verify: %v", err)
	}

	m.secret = []byte("rotated-secret")
	got, err := m.VerifyAccessToken(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("expected cached principal, got %v", err)
	}
	if got.UserID != "u-admin" {
		t.Fatalf("unexpected principal: got=%+v", got)
	}
}
