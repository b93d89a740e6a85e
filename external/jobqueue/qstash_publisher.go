package jobqueue

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/sport-alerts/internal/platform/logging"
	"github.com/riskibarqy/sport-alerts/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const internalJobTokenHeader = "X-Internal-Job-Token"

var errQStashTransient = crerr.New("qstash transient failure")

type QStashPublisherConfig struct {
	BaseURL          string
	Token            string
	TargetBaseURL    string
	Retries          int
	InternalJobToken string
	Timeout          time.Duration
	CircuitBreaker   resilience.CircuitBreakerConfig
}

// QStashPublisher enqueues delayed HTTP callbacks to this service's internal
// job endpoints. QStash forwards the internal job token on delivery.
type QStashPublisher struct {
	client           *http.Client
	baseURL          string
	token            string
	targetBaseURL    string
	retries          int
	internalJobToken string
	logger           *logging.Logger
	breaker          *resilience.CircuitBreaker
}

func NewQStashPublisher(cfg QStashPublisherConfig, logger *logging.Logger) (*QStashPublisher, error) {
	baseURL, err := validateHTTPBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid QSTASH_BASE_URL")
	}
	targetBaseURL, err := validateHTTPBaseURL(cfg.TargetBaseURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid QSTASH_TARGET_BASE_URL")
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, crerr.New("QSTASH_TOKEN is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &QStashPublisher{
		client:           &http.Client{Timeout: timeout},
		baseURL:          baseURL,
		token:            strings.TrimSpace(cfg.Token),
		targetBaseURL:    targetBaseURL,
		retries:          cfg.Retries,
		internalJobToken: strings.TrimSpace(cfg.InternalJobToken),
		logger:           logger,
		breaker:          resilience.NewCircuitBreaker(cfg.CircuitBreaker),
	}, nil
}

func (p *QStashPublisher) Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error {
	path = "/" + strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "/" {
		return crerr.New("job path is required")
	}
	if payload == nil {
		payload = map[string]any{}
	}

	body, err := sonic.Marshal(payload)
	if err != nil {
		return crerr.Wrap(err, "marshal job payload")
	}

	call := publishCall{
		url:    p.baseURL + "/v2/publish/" + p.targetBaseURL + path,
		target: p.targetBaseURL + path,
		body:   body,
		header: p.upstashHeaders(normalizeDelay(delay), strings.TrimSpace(deduplicationID)),
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("qstash.target_url", call.target),
			attribute.String("qstash.delay", call.header.Get("Upstash-Delay")),
			attribute.String("qstash.deduplication_id", call.header.Get("Upstash-Deduplication-Id")),
		)
	}
	p.logger.DebugContext(ctx, "qstash publish request",
		"target_url", call.target,
		"headers", call.redactedHeaders(),
		"body_bytes", len(body),
	)

	err = p.breaker.Execute(func() error { return p.publish(ctx, call) }, isTransient)
	if err != nil {
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			p.logger.WarnContext(ctx, "qstash circuit breaker rejected request", "state", p.breaker.State())
			return fmt.Errorf("qstash is temporarily unavailable: %w", err)
		}
		return err
	}

	p.logger.InfoContext(ctx, "qstash job published", "path", path, "delay", call.header.Get("Upstash-Delay"))
	return nil
}

type publishCall struct {
	url    string
	target string
	body   []byte
	header http.Header
}

// redactedHeaders renders the call headers for logs with credentials masked.
func (c publishCall) redactedHeaders() string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	keys := make([]string, 0, len(c.header))
	for key := range c.header {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for i, key := range keys {
		if i > 0 {
			_, _ = buf.WriteString("; ")
		}
		value := c.header.Get(key)
		if key == "Authorization" || strings.HasPrefix(key, "Upstash-Forward-") {
			value = "***"
		}
		_, _ = buf.WriteString(key + "=" + value)
	}
	return buf.String()
}

func (p *QStashPublisher) upstashHeaders(delay, deduplicationID string) http.Header {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+p.token)
	header.Set("Content-Type", "application/json")
	header.Set("Upstash-Method", http.MethodPost)
	if p.retries > 0 {
		header.Set("Upstash-Retries", strconv.Itoa(p.retries))
	}
	if delay != "0s" {
		header.Set("Upstash-Delay", delay)
	}
	if deduplicationID != "" {
		header.Set("Upstash-Deduplication-Id", deduplicationID)
	}
	if p.internalJobToken != "" {
		header.Set("Upstash-Forward-"+internalJobTokenHeader, p.internalJobToken)
	}
	return header
}

func (p *QStashPublisher) publish(ctx context.Context, call publishCall) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, call.url, bytes.NewReader(call.body))
	if err != nil {
		return crerr.Wrap(err, "create qstash request")
	}
	req.Header = call.header.Clone()

	resp, err := p.client.Do(req)
	if err != nil {
		return crerr.Mark(crerr.Wrapf(err, "publish qstash job target_url=%s", call.target), errQStashTransient)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 == 2 {
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	callErr := crerr.Newf("publish qstash job status=%d target_url=%s body=%s", resp.StatusCode, call.target, strings.TrimSpace(string(raw)))
	if isRetryableStatus(resp.StatusCode) {
		return crerr.Mark(callErr, errQStashTransient)
	}
	return callErr
}

func normalizeDelay(delay time.Duration) string {
	seconds := int(delay.Round(time.Second).Seconds())
	if seconds <= 0 {
		return "0s"
	}
	return strconv.Itoa(seconds) + "s"
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}
	return strings.TrimRight(candidate, "/"), nil
}

func isTransient(err error) bool {
	return crerr.Is(err, errQStashTransient)
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
