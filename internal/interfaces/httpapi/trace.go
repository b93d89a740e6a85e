package httpapi

import (
	"context"
	"strings"

	"github.com/riskibarqy/sport-alerts/internal/domain/user"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var (
	apiTracer = otel.Tracer("sport-alerts/internal/interfaces/httpapi")
	noopSpan  = trace.SpanFromContext(context.Background())
)

// startSpan opens a child span for handler entry points only; middleware and
// response helpers get a no-op span. Requests without a server span (health
// routes) never start one. Handler spans carry the caller's role and sport.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !isHandlerSpan(name) || !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, noopSpan
	}
	ctx, span := apiTracer.Start(ctx, name)
	if p, ok := principalFromContext(ctx); ok {
		span.SetAttributes(
			attribute.String("enduser.id", p.UserID),
			attribute.String("enduser.role", string(p.Role)),
		)
		if p.SportType != "" {
			span.SetAttributes(attribute.String("sport.type", p.SportType))
		}
	}
	return ctx, span
}

func isHandlerSpan(name string) bool {
	return strings.HasPrefix(name, handlerSpanPrefix)
}

type principalKey struct{}

func withPrincipal(ctx context.Context, p user.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func principalFromContext(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(user.Principal)
	return p, ok
}
