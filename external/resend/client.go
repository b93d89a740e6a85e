package resend

import (
	"context"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/sport-alerts/internal/platform/logging"
	"github.com/riskibarqy/sport-alerts/internal/platform/resilience"
	"github.com/valyala/fasthttp"
)

const defaultBaseURL = "https://api.resend.com"

var errResendTransient = crerr.New("resend transient failure")

type ClientConfig struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client sends transactional email through the Resend REST API.
type Client struct {
	http       *fasthttp.Client
	baseURL    string
	apiKey     string
	timeout    time.Duration
	maxRetries int
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
}

type SendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, crerr.New("RESEND_API_KEY is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		http: &fasthttp.Client{
			ReadTimeout:     timeout,
			WriteTimeout:    timeout,
			MaxConnsPerHost: 32,
		},
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		timeout:    timeout,
		maxRetries: max(cfg.MaxRetries, 0),
		logger:     logger,
		breaker:    resilience.NewCircuitBreaker(cfg.CircuitBreaker),
	}, nil
}

// Send delivers one email and returns the provider message id.
func (c *Client) Send(ctx context.Context, in SendRequest) (string, error) {
	if len(in.To) == 0 {
		return "", crerr.New("at least one recipient is required")
	}
	body, err := sonic.Marshal(in)
	if err != nil {
		return "", crerr.Wrap(err, "marshal resend request")
	}

	var messageID string
	err = c.breaker.Execute(func() error {
		var callErr error
		messageID, callErr = c.sendWithRetry(ctx, body)
		return callErr
	}, isTransient)
	if err != nil {
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "resend circuit breaker rejected request", "state", c.breaker.State())
		}
		return "", err
	}

	c.logger.DebugContext(ctx, "resend email accepted", "message_id", messageID, "recipients", len(in.To))
	return messageID, nil
}

func (c *Client) sendWithRetry(ctx context.Context, body []byte) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepWithContext(ctx, backoff(attempt)); err != nil {
				return "", lastErr
			}
		}
		id, err := c.post(ctx, body)
		if err == nil {
			return id, nil
		}
		lastErr = err
		if !isTransient(err) {
			return "", err
		}
	}
	return "", lastErr
}

func (c *Client) post(ctx context.Context, body []byte) (string, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(fasthttp.MethodPost)
	req.SetRequestURI(c.baseURL + "/emails")
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.SetBody(body)

	if err := c.http.DoDeadline(req, resp, c.deadline(ctx)); err != nil {
		return "", crerr.Mark(crerr.Wrap(err, "resend request failed"), errResendTransient)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		var decoded errorResponse
		_ = sonic.Unmarshal(resp.Body(), &decoded)
		callErr := crerr.Newf("resend api error: status=%d name=%s message=%s", status, decoded.Name, decoded.Message)
		if status == fasthttp.StatusTooManyRequests || status >= fasthttp.StatusInternalServerError {
			return "", crerr.Mark(callErr, errResendTransient)
		}
		return "", callErr
	}

	var decoded sendResponse
	if err := sonic.Unmarshal(resp.Body(), &decoded); err != nil {
		return "", crerr.Wrap(err, "decode resend response")
	}
	return decoded.ID, nil
}

func (c *Client) deadline(ctx context.Context) time.Time {
	clientDeadline := time.Now().Add(c.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(clientDeadline) {
		return dl
	}
	return clientDeadline
}

func isTransient(err error) bool {
	return crerr.Is(err, errResendTransient)
}

func backoff(attempt int) time.Duration {
	attempt = min(max(attempt, 1), 5)
	return time.Duration(1<<uint(attempt-1)) * 200 * time.Millisecond
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
