package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/riskibarqy/sport-alerts/internal/domain/user"
	"github.com/riskibarqy/sport-alerts/internal/platform/cache"
	"github.com/riskibarqy/sport-alerts/internal/platform/logging"
	"github.com/riskibarqy/sport-alerts/internal/usecase"
)

type Config struct {
	Secret        string
	Issuer        string
	TTL           time.Duration
	CacheTTL      time.Duration
	CacheMaxItems int
}

type claims struct {
	jwt.RegisteredClaims
	Username  string `json:"username"`
	Name      string `json:"name,omitempty"`
	Role      string `json:"role"`
	SportType string `json:"sportType,omitempty"`
}

// Manager issues and verifies HS256 session tokens. Verified principals are
// cached by token hash until the cache TTL or the token expiry, whichever is first.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	cache  *cache.Store[user.Principal] // nil when caching is off
	logger *logging.Logger
	now    func() time.Time
}

func NewManager(cfg Config, logger *logging.Logger) (*Manager, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if strings.TrimSpace(cfg.Issuer) == "" {
		cfg.Issuer = "sport-alerts"
	}
	if logger == nil {
		logger = logging.Default()
	}

	m := &Manager{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    cfg.TTL,
		logger: logger,
		now:    time.Now,
	}
	if cfg.CacheTTL > 0 {
		m.cache = cache.NewStore[user.Principal](cfg.CacheTTL, cfg.CacheMaxItems)
	}
	return m, nil
}

func (m *Manager) Issue(_ context.Context, p user.Principal) (user.Session, error) {
	if err := p.Validate(); err != nil {
		return user.Session{}, fmt.Errorf("issue session: %w", err)
	}

	now := m.now().UTC()
	expiresAt := now.Add(m.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Username:  p.Username,
		Name:      p.Name,
		Role:      string(p.Role),
		SportType: p.SportType,
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return user.Session{}, fmt.Errorf("sign session token: %w", err)
	}
	return user.Session{Token: signed, ExpiresAt: expiresAt, Principal: p}, nil
}

// VerifyAccessToken checks signature, issuer and expiry, then validates the
// role and sport scope carried in the token.
func (m *Manager) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	key := hashToken(token)
	if m.cache != nil {
		if principal, ok := m.cache.Get(key); ok {
			return principal, nil
		}
	}

	parsed := &claims{}
	_, err := jwt.ParseWithClaims(token, parsed, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return user.Principal{}, fmt.Errorf("%w: session expired", usecase.ErrUnauthorized)
		}
		m.logger.DebugContext(ctx, "session token rejected", "error", err)
		return user.Principal{}, fmt.Errorf("%w: invalid session token", usecase.ErrUnauthorized)
	}

	role, err := user.ParseRole(parsed.Role)
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: %v", usecase.ErrUnauthorized, err)
	}
	principal := user.Principal{
		UserID:    parsed.Subject,
		Username:  parsed.Username,
		Name:      parsed.Name,
		Role:      role,
		SportType: parsed.SportType,
	}
	if err := principal.Validate(); err != nil {
		return user.Principal{}, fmt.Errorf("%w: %v", usecase.ErrUnauthorized, err)
	}

	if m.cache != nil {
		m.cache.SetUntil(key, principal, parsed.ExpiresAt.Time)
	}
	return principal, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
