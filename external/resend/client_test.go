package resend

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestClient_SendPostsEmail(t *testing.T) {
	t.Parallel()

	bodies := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/emails" || r.Header.Get("Authorization") != "Bearer re_test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		raw, _ := io.ReadAll(r.Body)
		bodies <- string(raw)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg-1"}`))
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "re_test"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	id, err := client.Send(context.Background(), SendRequest{
		From:    "alerts@example.com",
		To:      []string{"a@example.com", "b@example.com"},
		Subject: "hello",
		HTML:    "<p>hi</p>",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if id != "msg-1" {
		t.Fatalf("unexpected message id: got=%s want=msg-1", id)
	}
	if body := <-bodies; !strings.Contains(body, `"to":["a@example.com","b@example.com"]`) {
		t.Fatalf("unexpected request body: %s", body)
	}
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"id":"msg-2"}`))
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "re_test", MaxRetries: 1})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	id, err := client.Send(context.Background(), SendRequest{From: "f@example.com", To: []string{"a@example.com"}})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if id != "msg-2" || calls.Load() != 2 {
		t.Fatalf("unexpected retry outcome: id=%s calls=%d", id, calls.Load())
	}
}

func TestClient_DoesNotRetryValidationError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"name":"validation_error","message":"invalid from"}`))
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "re_test", MaxRetries: 3})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.Send(context.Background(), SendRequest{From: "bad", To: []string{"a@example.com"}})
	if err == nil || !strings.Contains(err.Error(), "invalid from") {
		t.Fatalf("expected validation error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("validation errors must not be retried: calls=%d", calls.Load())
	}
}
