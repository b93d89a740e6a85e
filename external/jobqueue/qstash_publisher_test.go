package jobqueue

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/sport-alerts/internal/platform/resilience"
)

func TestQStashPublisher_EnqueueSetsUpstashHeaders(t *testing.T) {
	t.Parallel()

	type captured struct {
		path, delay, dedup, forward, auth, body string
	}
	requests := make(chan captured, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		requests <- captured{
			path:    r.URL.Path,
			delay:   r.Header.Get("Upstash-Delay"),
			dedup:   r.Header.Get("Upstash-Deduplication-Id"),
			forward: r.Header.Get("Upstash-Forward-X-Internal-Job-Token"),
			auth:    r.Header.Get("Authorization"),
			body:    string(raw),
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	publisher, err := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:          srv.URL,
		Token:            "qstash-token",
		TargetBaseURL:    "https://alerts.example.com/",
		InternalJobToken: "job-secret",
	}, nil)
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}

	err = publisher.Enqueue(context.Background(), "v1/internal/jobs/sweep", map[string]any{"reschedule": true}, 5*time.Minute, "match-sweep-all-20251225T020500Z")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	got := <-requests
	if want := "/v2/publish/https://alerts.example.com/v1/internal/jobs/sweep"; got.path != want {
		t.Fatalf("unexpected publish path: got=%s want=%s", got.path, want)
	}
	if got.delay != "300s" || got.dedup != "match-sweep-all-20251225T020500Z" {
		t.Fatalf("unexpected scheduling headers: delay=%s dedup=%s", got.delay, got.dedup)
	}
	if got.forward != "job-secret" || got.auth != "Bearer qstash-token" {
		t.Fatalf("unexpected auth headers: forward=%s auth=%s", got.forward, got.auth)
	}
	if !strings.Contains(got.body, `"reschedule":true`) {
		t.Fatalf("unexpected body: %s", got.body)
	}
}

func TestQStashPublisher_OpensCircuitOnTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	publisher, err := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:       srv.URL,
		Token:         "t",
		TargetBaseURL: "https://alerts.example.com",
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
		},
	}, nil)
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := publisher.Enqueue(context.Background(), "/v1/internal/jobs/sweep", nil, 0, ""); err == nil {
			t.Fatalf("expected enqueue %d to fail", i)
		}
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("open circuit should short-circuit calls: got=%d want=2", got)
	}
}

func TestNewQStashPublisher_RejectsBadTarget(t *testing.T) {
	t.Parallel()

	_, err := NewQStashPublisher(QStashPublisherConfig{BaseURL: "https://qstash.upstash.io", Token: "t", TargetBaseURL: "ftp://x"}, nil)
	if err == nil {
		t.Fatalf("expected invalid target base url to be rejected")
	}
}

func TestNormalizeDelay(t *testing.T) {
	t.Parallel()

	if got := normalizeDelay(-time.Second); got != "0s" {
		t.Fatalf("unexpected delay: got=%s want=0s", got)
	}
	if got := normalizeDelay(90 * time.Second); got != "90s" {
		t.Fatalf("unexpected delay: got=%s want=90s", got)
	}
}

func TestPublishCall_RedactsCredentials(t *testing.T) {
	t.Parallel()

	p := &QStashPublisher{token: "qstash-token", internalJobToken: "job-secret", retries: 2}
	call := publishCall{header: p.upstashHeaders("60s", "dedup-1")}

	got := call.redactedHeaders()
	if strings.Contains(got, "qstash-token") || strings.Contains(got, "job-secret") {
		t.Fatalf("credentials leaked into log headers: %s", got)
	}
	for _, want := range []string{"Authorization=***", "Upstash-Delay=60s", "Upstash-Retries=2", "Upstash-Deduplication-Id=dedup-1"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in %s", want, got)
		}
	}
}
