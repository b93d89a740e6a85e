package httpapi

import (
	"net/http"

	"github.com/riskibarqy/sport-alerts/internal/domain/user"
	"github.com/riskibarqy/sport-alerts/internal/platform/logging"
	"github.com/riskibarqy/sport-alerts/internal/platform/ratelimit"
)

type routeDeps struct {
	handler  *Handler
	verifier TokenVerifier
	limiter  RateLimiter
	rules    RateLimitRules
	logger   *logging.Logger
}

func (d routeDeps) auth(fn http.HandlerFunc) http.Handler {
	return RequireAuth(d.verifier, fn)
}

func (d routeDeps) roles(fn http.HandlerFunc, roles ...user.Role) http.Handler {
	return RequireAuth(d.verifier, RequireRole(fn, roles...))
}

func (d routeDeps) limited(rule ratelimit.Rule, next http.Handler) http.Handler {
	return RateLimit(d.limiter, rule, d.logger, next)
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicRoutes(mux *http.ServeMux, d routeDeps) {
	h := d.handler
	mux.HandleFunc("GET /v1/public/matches", h.ListPublicMatches)
	mux.HandleFunc("GET /v1/public/matches/{matchID}", h.GetPublicMatch)
	mux.HandleFunc("GET /v1/public/sports", h.ListSports)
	mux.HandleFunc("GET /v1/public/server-time", h.ServerTime)
	mux.HandleFunc("GET /v1/public/banners", h.ListPublicBanners)
	mux.HandleFunc("GET /v1/public/banners/latest", h.GetLatestBanner)
}

func registerAuthRoutes(mux *http.ServeMux, d routeDeps) {
	h := d.handler
	mux.Handle("POST /v1/auth/login", d.limited(d.rules.Auth, http.HandlerFunc(h.Login)))
	mux.Handle("POST /v1/auth/logout", d.auth(h.Logout))
	mux.Handle("GET /v1/auth/me", d.auth(h.Me))
}

func registerMatchRoutes(mux *http.ServeMux, d routeDeps) {
	h := d.handler
	operators := []user.Role{user.RoleAdmin, user.RoleSportManager}
	mux.Handle("GET /v1/matches", d.auth(h.ListMatches))
	mux.Handle("POST /v1/matches", d.roles(h.CreateMatch, operators...))
	mux.Handle("POST /v1/matches/evaluate", d.roles(h.EvaluateMatchStatuses, operators...))
	mux.Handle("PUT /v1/matches/{matchID}", d.roles(h.UpdateMatch, operators...))
	mux.Handle("PATCH /v1/matches/{matchID}/status", d.roles(h.UpdateMatchStatus, operators...))
	mux.Handle("PUT /v1/matches/{matchID}/result", d.roles(h.RecordMatchResult, operators...))
	mux.Handle("DELETE /v1/matches/{matchID}", d.roles(h.DeleteMatch, operators...))
}

func registerNotificationRoutes(mux *http.ServeMux, d routeDeps) {
	h := d.handler
	mux.Handle("POST /v1/notifications/reminder", d.roles(h.SendMatchReminder, user.RoleAdmin, user.RoleSportManager))
	mux.Handle("POST /v1/notifications/result", d.roles(h.SendMatchResult, user.RoleAdmin, user.RoleSportManager))
}

func registerSubscriberRoutes(mux *http.ServeMux, d routeDeps) {
	h := d.handler
	mux.HandleFunc("POST /v1/subscribers", h.Subscribe)
	mux.HandleFunc("DELETE /v1/subscribers", h.Unsubscribe)
	mux.Handle("GET /v1/subscribers", OptionalAuth(d.verifier, http.HandlerFunc(h.ListSubscribers)))
}

func registerBannerRoutes(mux *http.ServeMux, d routeDeps) {
	h := d.handler
	uploaders := []user.Role{user.RoleAdmin, user.RoleEditor, user.RoleSportManager}
	mux.Handle("POST /v1/banners", d.limited(d.rules.Upload, d.roles(h.UploadBanner, uploaders...)))
	mux.Handle("DELETE /v1/banners/{bannerID}", d.roles(h.DeleteBanner, uploaders...))
	mux.Handle("GET /v1/banners/history", d.auth(h.ListBannerHistory))
}

func registerAdminRoutes(mux *http.ServeMux, d routeDeps) {
	h := d.handler
	mux.Handle("GET /v1/logs", d.roles(h.ListActivityLogs, user.RoleAdmin))
	mux.Handle("GET /v1/admin/users", d.roles(h.ListUsers, user.RoleAdmin))
	mux.Handle("POST /v1/admin/users", d.roles(h.CreateUser, user.RoleAdmin))
	mux.Handle("GET /v1/admin/users/{userID}", d.roles(h.GetUser, user.RoleAdmin))
	mux.Handle("PUT /v1/admin/users/{userID}", d.roles(h.UpdateUser, user.RoleAdmin))
	mux.Handle("DELETE /v1/admin/users/{userID}", d.roles(h.DeleteUser, user.RoleAdmin))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/sweep", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSweepJob)))
	mux.Handle("POST /v1/internal/jobs/check-reminders", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunReminderCheckJob)))
	mux.Handle("POST /v1/internal/jobs/bootstrap", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunBootstrapJob)))
}
