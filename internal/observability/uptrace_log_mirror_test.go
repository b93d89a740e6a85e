package observability

import (
	"errors"
	"testing"

	otellog "go.opentelemetry.io/otel/log"
)

func TestShouldSkipUptraceLog(t *testing.T) {
	t.Parallel()

	if !shouldSkipUptraceLog("http request", []any{"method", "GET", "path", "/healthz"}) {
		t.Fatalf("expected health check log to be skipped")
	}
	if !shouldSkipUptraceLog("http request", []any{"path", "/readyz"}) {
		t.Fatalf("expected health check log to be skipped")
	}
	if shouldSkipUptraceLog("http request", []any{"path", "/v1/matches"}) {
		t.Fatalf("did not expect non-health-check log to be skipped")
	}
	if shouldSkipUptraceLog("qstash publish request", []any{"path", "/healthz"}) {
		t.Fatalf("did not expect non-request event to be skipped")
	}
}

func TestOTelAttributes(t *testing.T) {
	t.Parallel()

	attrs := otelAttributes([]any{"match_id", "m-42", "attempt", 2, "error", errors.New("smtp timeout"), "payload"})
	byKey := make(map[string]otellog.Value, len(attrs))
	for _, a := range attrs {
		byKey[a.Key] = a.Value
	}

	if attrs[0].Key != "attempt" {
		t.Fatalf("expected attributes sorted by key, first=%s", attrs[0].Key)
	}
	if byKey["match_id"].AsString() != "m-42" {
		t.Fatalf("unexpected match_id attribute: %v", byKey["match_id"])
	}
	if byKey["attempt"].AsInt64() != 2 {
		t.Fatalf("unexpected attempt attribute: %v", byKey["attempt"])
	}
	if byKey["error"].AsString() != "smtp timeout" {
		t.Fatalf("unexpected error attribute: %v", byKey["error"])
	}
	if v, ok := byKey["payload"]; !ok || v.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected payload attribute: %v", v)
	}
}

func TestOTelValue_Map(t *testing.T) {
	t.Parallel()

	v := otelValue(map[string]any{"home_score": 2, "winner": "Team A"}, 0)
	if v.Kind() != otellog.KindMap {
		t.Fatalf("unexpected kind: got=%s want=%s", v.Kind(), otellog.KindMap)
	}
	if items := v.AsMap(); len(items) != 2 || items[0].Key != "home_score" {
		t.Fatalf("unexpected map items: %+v", items)
	}
}
