package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/sport-alerts/internal/config"
	"github.com/riskibarqy/sport-alerts/internal/platform/logging"
)

type betterStackSink struct {
	mu       sync.Mutex
	requests int
	records  []map[string]any
	auth     string
}

func (s *betterStackSink) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var batch []map[string]any
		if err := jsoniter.Unmarshal(body, &batch); err != nil {
			t.Errorf("decode batch: %v body=%s", err, body)
		}
		s.mu.Lock()
		s.requests++
		s.records = append(s.records, batch...)
		s.auth = r.Header.Get("Authorization")
		s.mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func betterStackConfig(endpoint string) config.Config {
	return config.Config{
		BetterStackEnabled:  true,
		BetterStackEndpoint: endpoint,
		BetterStackToken:    "secret-token",
		BetterStackTimeout:  2 * time.Second,
		BetterStackMinLevel: logging.LevelError,
		ServiceName:         "sport-alerts-api",
		AppEnv:              config.EnvDev,
	}
}

func TestInitBetterStackLogger_ShipsErrorsInOneBatch(t *testing.T) {
	t.Parallel()

	sink := &betterStackSink{}
	logger, shutdown, err := InitBetterStackLogger(betterStackConfig(sink.server(t).URL), logging.NewNop())
	if err != nil {
		t.Fatalf("init betterstack logger: %v", err)
	}

	logger.ErrorContext(context.Background(), "reminder email failed", "match_id", "m-1")
	logger.Error("result email failed", "match_id", "m-2")
	logger.Info("sweep finished")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown logger: %v", err)
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.requests != 1 {
		t.Fatalf("unexpected request count: got=%d want=1", sink.requests)
	}
	if len(sink.records) != 2 {
		t.Fatalf("unexpected shipped records: got=%d want=2", len(sink.records))
	}
	if sink.records[0]["match_id"] != "m-1" || sink.records[0]["level"] != "ERROR" {
		t.Fatalf("unexpected first record: %+v", sink.records[0])
	}
	if sink.auth != "Bearer secret-token" {
		t.Fatalf("unexpected authorization header: %q", sink.auth)
	}
}

func TestInitBetterStackLogger_RespectsMinLevel(t *testing.T) {
	t.Parallel()

	sink := &betterStackSink{}
	logger, shutdown, err := InitBetterStackLogger(betterStackConfig(sink.server(t).URL), logging.NewNop())
	if err != nil {
		t.Fatalf("init betterstack logger: %v", err)
	}

	logger.InfoContext(context.Background(), "info log should not be shipped")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown logger: %v", err)
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.requests != 0 {
		t.Fatalf("expected no request for info log, got %d", sink.requests)
	}
}

func TestInitBetterStackLogger_Disabled(t *testing.T) {
	t.Parallel()

	base := logging.NewNop()
	logger, shutdown, err := InitBetterStackLogger(config.Config{}, base)
	if err != nil {
		t.Fatalf("init betterstack logger: %v", err)
	}
	if logger != base {
		t.Fatalf("expected base logger when disabled")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestInitBetterStackLogger_RequiresEndpoint(t *testing.T) {
	t.Parallel()

	if _, _, err := InitBetterStackLogger(betterStackConfig(" "), logging.NewNop()); err == nil {
		t.Fatalf("expected error for empty endpoint")
	}
}
