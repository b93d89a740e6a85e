package user

import (
	"context"
	"time"
)

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

// Session is a signed access token bound to a principal.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Principal Principal
}

type SessionIssuer interface {
	Issue(ctx context.Context, p Principal) (Session, error)
}
