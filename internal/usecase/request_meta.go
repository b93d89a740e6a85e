package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/riskibarqy/sport-alerts/internal/domain/match"
)

// RequestMeta describes the client that triggered an operation.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type requestMetaKey struct{}

func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// LookupRequestMeta reports whether a RequestMeta was attached to ctx.
func LookupRequestMeta(ctx context.Context) (RequestMeta, bool) {
	meta, ok := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta, ok
}

func RequestMetaFromContext(ctx context.Context) RequestMeta {
	meta, _ := LookupRequestMeta(ctx)
	if strings.TrimSpace(meta.IPAddress) == "" {
		meta.IPAddress = "unknown"
	}
	if strings.TrimSpace(meta.UserAgent) == "" {
		meta.UserAgent = "unknown"
	}
	return meta
}

func bangkokNow(now func() time.Time) time.Time {
	return now().In(match.Bangkok)
}
