package httpapi

import (
	"net/http"

	"github.com/riskibarqy/sport-alerts/internal/platform/logging"
	"github.com/riskibarqy/sport-alerts/internal/platform/ratelimit"
)

// RateLimitRules are the per ip:path windows applied at the edge.
type RateLimitRules struct {
	General ratelimit.Rule
	Auth    ratelimit.Rule
	Upload  ratelimit.Rule
}

type RouterConfig struct {
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
	ClientIPResolver   *ClientIPResolver
	InternalJobToken   string
	RateLimits         RateLimitRules
}

func NewRouter(
	handler *Handler,
	verifier TokenVerifier,
	limiter RateLimiter,
	cfg RouterConfig,
	logger *logging.Logger,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	routes := routeDeps{
		handler:  handler,
		verifier: verifier,
		limiter:  limiter,
		rules:    cfg.RateLimits,
		logger:   logger,
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, cfg.SwaggerEnabled)
	registerPublicRoutes(mux, routes)
	registerAuthRoutes(mux, routes)
	registerMatchRoutes(mux, routes)
	registerNotificationRoutes(mux, routes)
	registerSubscriberRoutes(mux, routes)
	registerBannerRoutes(mux, routes)
	registerAdminRoutes(mux, routes)
	registerInternalJobRoutes(mux, handler, cfg.InternalJobToken)

	var root http.Handler = recoverPanic(logger, mux)
	root = RateLimitPrefix("/v1/", limiter, cfg.RateLimits.General, logger, root)
	root = CORS(cfg.CORSAllowedOrigins, root)
	root = SecurityHeaders(root)
	root = RequestLogging(logger, root)
	return RequestTracing(RequestMeta(cfg.ClientIPResolver, root))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
