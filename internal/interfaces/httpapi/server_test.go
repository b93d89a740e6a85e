package httpapi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/sport-alerts/internal/domain/notification"
	"github.com/riskibarqy/sport-alerts/internal/domain/user"
	"github.com/riskibarqy/sport-alerts/internal/infrastructure/account/session"
	"github.com/riskibarqy/sport-alerts/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/sport-alerts/internal/platform/id"
	"github.com/riskibarqy/sport-alerts/internal/platform/logging"
	"github.com/riskibarqy/sport-alerts/internal/platform/password"
	"github.com/riskibarqy/sport-alerts/internal/platform/ratelimit"
	"github.com/riskibarqy/sport-alerts/internal/usecase"
)

const testPassword = "kku-secret"

type recordingSender struct {
	mu       sync.Mutex
	messages []notification.Message
}

func (s *recordingSender) Send(_ context.Context, msg notification.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

func (s *recordingSender) templates() []notification.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notification.Template, 0, len(s.messages))
	for _, msg := range s.messages {
		out = append(out, msg.Template)
	}
	return out
}

type testAPI struct {
	router http.Handler
	sender *recordingSender
}

func newTestAPI(t *testing.T, rules RateLimitRules) testAPI {
	t.Helper()

	hasher := password.NewBcryptHasher(4)
	hash, err := hasher.Hash(testPassword)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	now := time.Now().UTC()
	users := memory.NewUserRepository(
		user.User{ID: "u-admin", Username: "admin", Name: "Admin", PasswordHash: hash, Role: user.RoleAdmin, IsActive: true, CreatedAt: now, UpdatedAt: now},
		user.User{ID: "u-bb", Username: "bb", Name: "Basketball Desk", PasswordHash: hash, Role: user.RoleSportManager, SportType: "Basketball", IsActive: true, CreatedAt: now, UpdatedAt: now},
	)

	sessions, err := session.NewManager(session.Config{Secret: "test-secret"}, logging.NewNop())
	if err != nil {
		t.Fatalf("new session manager: %v", err)
	}

	logger := logging.NewNop()
	ids := id.NewUUIDGenerator()
	sender := &recordingSender{}
	matches := memory.NewMatchRepository()
	subscribers := memory.NewSubscriberRepository()
	activity := usecase.NewActivityLogService(memory.NewActivityLogRepository(), ids, logger)
	notifications := usecase.NewNotificationService(matches, subscribers, sender, activity, usecase.NotificationConfig{}, logger)
	sweeper := usecase.NewSweepService(matches, notifications, usecase.SweepConfig{}, logger)

	handler := NewHandler(
		usecase.NewMatchService(matches, notifications, activity, ids, logger),
		notifications,
		sweeper,
		usecase.NewJobOrchestratorService(sweeper, nil, memory.NewJobDispatchRepository(), usecase.JobOrchestratorConfig{}, logger),
		usecase.NewSubscriberService(subscribers, sender, activity, ids, logger),
		usecase.NewBannerService(memory.NewBannerRepository(), nil, activity, ids, logger),
		usecase.NewAuthService(users, hasher, sessions, activity, logger),
		usecase.NewUserService(users, hasher, activity, ids, usecase.UserServiceConfig{ProtectedUsername: "admin"}, logger),
		activity,
		usecase.NewSportService(memory.NewSportRepository(memory.SeedSports())),
		usecase.NewClockService(),
		logger,
	)

	router := NewRouter(handler, sessions, ratelimit.NewLimiter(ratelimit.NewMemoryStore()), RouterConfig{
		InternalJobToken: "job-token",
		RateLimits:       rules,
	}, logger)
	return testAPI{router: router, sender: sender}
}

type apiResponse struct {
	code   int
	header http.Header
	data   any
	status string
}

func (a testAPI) do(t *testing.T, method, path, token string, body any) apiResponse {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var envelope struct {
		Data  any `json:"data"`
		Error *struct {
			Status string `json:"status"`
		} `json:"error"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("%s %s: unmarshal body %q: %v", method, path, rec.Body.String(), err)
	}
	out := apiResponse{code: rec.Code, header: rec.Header(), data: envelope.Data}
	if envelope.Error != nil {
		out.status = envelope.Error.Status
	}
	return out
}

func (a testAPI) login(t *testing.T, username string) string {
	t.Helper()

	resp := a.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{"username": username, "password": testPassword})
	if resp.code != http.StatusOK {
		t.Fatalf("login %s: got=%d want=%d", username, resp.code, http.StatusOK)
	}
	data, _ := resp.data.(map[string]any)
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatalf("login %s: empty token", username)
	}
	return token
}

func field(t *testing.T, data any, key string) any {
	t.Helper()
	obj, ok := data.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %T", data)
	}
	return obj[key]
}

func TestRouter_MatchResultFlow(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, RateLimitRules{})
	token := api.login(t, "admin")

	sub := api.do(t, http.MethodPost, "/v1/subscribers", "", map[string]any{"email": "Fan@KKU.ac.th", "sports": []string{"Basketball"}})
	if sub.code != http.StatusCreated {
		t.Fatalf("subscribe: got=%d want=%d", sub.code, http.StatusCreated)
	}

	created := api.do(t, http.MethodPost, "/v1/matches", token, map[string]string{
		"sportType": "Basketball",
		"team1":     "Engineering",
		"team2":     "Medicine",
		"date":      "2020-01-15",
		"timeStart": "09:00",
		"timeEnd":   "10:00",
		"location":  "KKU Gym 2",
		"mapsLink":  "https://maps.app.goo.gl/kku-gym-2",
	})
	if created.code != http.StatusCreated {
		t.Fatalf("create match: got=%d want=%d", created.code, http.StatusCreated)
	}
	matchID, _ := field(t, created.data, "id").(string)
	if got := field(t, created.data, "status"); got != "SCHEDULED" {
		t.Fatalf("created status: got=%v want=SCHEDULED", got)
	}

	result := map[string]any{"homeScore": 3, "awayScore": 1, "winner": "team1"}
	early := api.do(t, http.MethodPut, "/v1/matches/"+matchID+"/result", token, result)
	if early.code != http.StatusConflict || early.status != "FAILED_PRECONDITION" {
		t.Fatalf("result before evaluation: got=%d/%s want=409/FAILED_PRECONDITION", early.code, early.status)
	}

	evaluated := api.do(t, http.MethodPost, "/v1/matches/evaluate", token, nil)
	if evaluated.code != http.StatusOK {
		t.Fatalf("evaluate: got=%d want=%d", evaluated.code, http.StatusOK)
	}

	recorded := api.do(t, http.MethodPut, "/v1/matches/"+matchID+"/result", token, result)
	if recorded.code != http.StatusOK {
		t.Fatalf("record result: got=%d want=%d", recorded.code, http.StatusOK)
	}
	if got := field(t, recorded.data, "status"); got != "COMPLETED" {
		t.Fatalf("recorded status: got=%v want=COMPLETED", got)
	}
	if got := field(t, recorded.data, "winner"); got != "team1" {
		t.Fatalf("recorded winner: got=%v want=team1", got)
	}

	public := api.do(t, http.MethodGet, "/v1/public/matches/"+matchID, "", nil)
	if got := field(t, public.data, "homeScore"); got != float64(3) {
		t.Fatalf("public home score: got=%v want=3", got)
	}

	templates := api.sender.templates()
	if len(templates) != 2 || templates[0] != notification.TemplateWelcome || templates[1] != notification.TemplateMatchResult {
		t.Fatalf("unexpected emails: got=%v", templates)
	}

	logs := api.do(t, http.MethodGet, "/v1/logs?filter=match", token, nil)
	if logs.code != http.StatusOK {
		t.Fatalf("list logs: got=%d want=%d", logs.code, http.StatusOK)
	}
	if got := field(t, logs.data, "total"); got != float64(2) {
		t.Fatalf("match log total: got=%v want=2", got)
	}
}

func TestRouter_ScopeAndRoleChecks(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, RateLimitRules{})
	manager := api.login(t, "bb")

	foreign := api.do(t, http.MethodPost, "/v1/matches", manager, map[string]string{
		"sportType": "Football",
		"team1":     "Science",
		"team2":     "Education",
		"date":      "2030-01-15",
		"timeStart": "09:00",
		"timeEnd":   "10:00",
		"location":  "Main Field",
		"mapsLink":  "https://maps.app.goo.gl/main-field",
	})
	if foreign.code != http.StatusForbidden || foreign.status != "PERMISSION_DENIED" {
		t.Fatalf("foreign sport: got=%d/%s want=403/PERMISSION_DENIED", foreign.code, foreign.status)
	}

	if resp := api.do(t, http.MethodGet, "/v1/admin/users", manager, nil); resp.code != http.StatusForbidden {
		t.Fatalf("manager listing users: got=%d want=%d", resp.code, http.StatusForbidden)
	}
	if resp := api.do(t, http.MethodGet, "/v1/matches", "", nil); resp.code != http.StatusUnauthorized {
		t.Fatalf("anonymous match list: got=%d want=%d", resp.code, http.StatusUnauthorized)
	}
	if resp := api.do(t, http.MethodGet, "/v1/subscribers", "", nil); resp.code != http.StatusUnauthorized {
		t.Fatalf("anonymous subscriber list: got=%d want=%d", resp.code, http.StatusUnauthorized)
	}

	me := api.do(t, http.MethodGet, "/v1/auth/me", manager, nil)
	if got := field(t, me.data, "sportType"); got != "Basketball" {
		t.Fatalf("me sport: got=%v want=Basketball", got)
	}
}

func TestRouter_LoginRateLimit(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, RateLimitRules{
		Auth: ratelimit.Rule{Name: "auth", Limit: 1, Window: 15 * time.Minute},
	})

	body := map[string]string{"username": "admin", "password": "wrong-password"}
	first := api.do(t, http.MethodPost, "/v1/auth/login", "", body)
	if first.code != http.StatusUnauthorized {
		t.Fatalf("first attempt: got=%d want=%d", first.code, http.StatusUnauthorized)
	}
	if got := first.header.Get("X-RateLimit-Remaining"); got != "0" {
		t.Fatalf("remaining after first attempt: got=%q want=0", got)
	}

	second := api.do(t, http.MethodPost, "/v1/auth/login", "", body)
	if second.code != http.StatusTooManyRequests || second.status != "RESOURCE_EXHAUSTED" {
		t.Fatalf("second attempt: got=%d/%s want=429/RESOURCE_EXHAUSTED", second.code, second.status)
	}
	if second.header.Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
}

func TestRouter_InternalJobs(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, RateLimitRules{})

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sweep", nil)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing job token: got=%d want=%d", rec.Code, http.StatusUnauthorized)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sweep", bytes.NewReader([]byte(`{"dispatch_id":"qstash-1"}`)))
	req.Header.Set("X-Internal-Job-Token", "job-token")
	rec = httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("sweep job: got=%d want=%d body=%s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"dispatchId":"qstash-1"`)) {
		t.Fatalf("expected dispatch id echoed, body=%s", rec.Body.String())
	}
}

func TestRouter_SecurityHeadersAndPublicRoutes(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, RateLimitRules{})

	sports := api.do(t, http.MethodGet, "/v1/public/sports", "", nil)
	items, _ := sports.data.([]any)
	if len(items) != 7 {
		t.Fatalf("sports: got=%d want=7", len(items))
	}
	if got := sports.header.Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("X-Frame-Options: got=%q want=DENY", got)
	}
	if got := sports.header.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options: got=%q want=nosniff", got)
	}

	clock := api.do(t, http.MethodGet, "/v1/public/server-time", "", nil)
	if got := field(t, clock.data, "utcOffset"); got != "+07:00" {
		t.Fatalf("utcOffset: got=%v want=+07:00", got)
	}

	latest := api.do(t, http.MethodGet, "/v1/public/banners/latest", "", nil)
	if latest.code != http.StatusNotFound {
		t.Fatalf("latest banner without uploads: got=%d want=%d", latest.code, http.StatusNotFound)
	}
}

func TestRouter_DocsOnlyWhenSwaggerEnabled(t *testing.T) {
	t.Parallel()

	handler := &Handler{logger: logging.NewNop()}
	for _, enabled := range []bool{false, true} {
		router := NewRouter(handler, nil, nil, RouterConfig{SwaggerEnabled: enabled, InternalJobToken: "job-token"}, logging.NewNop())

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
		if enabled && (rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "openapi:")) {
			t.Fatalf("openapi with swagger enabled: got=%d", rec.Code)
		}
		if !enabled && rec.Code != http.StatusNotFound {
			t.Fatalf("openapi with swagger disabled: got=%d want=%d", rec.Code, http.StatusNotFound)
		}
	}
}
