package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/sport-alerts/internal/domain/banner"
	"github.com/riskibarqy/sport-alerts/internal/platform/logging"
	"github.com/riskibarqy/sport-alerts/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
)

const (
	defaultBaseURL        = "https://api.cloudinary.com/v1_1"
	defaultFolder         = "KKUENSPORT/Banner"
	defaultTransformation = "c_fill,h_500,q_95,w_1600"
)

var errCloudinaryTransient = crerr.New("cloudinary transient failure")

type ClientConfig struct {
	BaseURL        string
	CloudName      string
	APIKey         string
	APISecret      string
	Folder         string
	Transformation string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client uploads banner images with signed Cloudinary API requests. It
// implements banner.ImageStore.
type Client struct {
	httpClient     *http.Client
	endpoint       string
	apiKey         string
	apiSecret      string
	folder         string
	transformation string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	now            func() time.Time
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

type destroyResponse struct {
	Result string `json:"result"`
}

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if strings.TrimSpace(cfg.CloudName) == "" || strings.TrimSpace(cfg.APIKey) == "" || strings.TrimSpace(cfg.APISecret) == "" {
		return nil, crerr.New("cloudinary cloud name, api key and api secret are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	folder := strings.TrimSpace(cfg.Folder)
	if folder == "" {
		folder = defaultFolder
	}
	transformation := strings.TrimSpace(cfg.Transformation)
	if transformation == "" {
		transformation = defaultTransformation
	}

	return &Client{
		httpClient:     &http.Client{Timeout: timeout},
		endpoint:       baseURL + "/" + strings.TrimSpace(cfg.CloudName) + "/image",
		apiKey:         strings.TrimSpace(cfg.APIKey),
		apiSecret:      strings.TrimSpace(cfg.APISecret),
		folder:         folder,
		transformation: transformation,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		now:            time.Now,
	}, nil
}

func (c *Client) Upload(ctx context.Context, in banner.Upload) (banner.StoredImage, error) {
	if in.Body == nil {
		return banner.StoredImage{}, crerr.New("upload body is required")
	}

	params := map[string]string{
		"folder":         c.folder,
		"format":         "jpg",
		"timestamp":      strconv.FormatInt(c.now().Unix(), 10),
		"transformation": c.transformation,
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	for key, value := range c.signedFields(params) {
		if err := form.WriteField(key, value); err != nil {
			return banner.StoredImage{}, crerr.Wrap(err, "write upload field")
		}
	}
	part, err := form.CreateFormFile("file", in.Filename)
	if err != nil {
		return banner.StoredImage{}, crerr.Wrap(err, "create upload file part")
	}
	if _, err := io.Copy(part, in.Body); err != nil {
		return banner.StoredImage{}, crerr.Wrap(err, "copy upload body")
	}
	if err := form.Close(); err != nil {
		return banner.StoredImage{}, crerr.Wrap(err, "close upload form")
	}

	var decoded uploadResponse
	err = c.breaker.Execute(func() error {
		return c.post(ctx, "/upload", form.FormDataContentType(), body.Bytes(), &decoded)
	}, isTransient)
	if err != nil {
		return banner.StoredImage{}, crerr.Wrap(err, "cloudinary upload")
	}
	if decoded.SecureURL == "" || decoded.PublicID == "" {
		return banner.StoredImage{}, crerr.New("cloudinary upload returned no url or public id")
	}

	c.logger.InfoContext(ctx, "banner image uploaded", "public_id", decoded.PublicID, "bytes", in.Size)
	return banner.StoredImage{URL: decoded.SecureURL, PublicID: decoded.PublicID}, nil
}

func (c *Client) Destroy(ctx context.Context, publicID string) error {
	publicID = strings.TrimSpace(publicID)
	if publicID == "" {
		return nil
	}

	fields := c.signedFields(map[string]string{
		"public_id": publicID,
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	})
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	for key, value := range fields {
		if err := form.WriteField(key, value); err != nil {
			return crerr.Wrap(err, "write destroy field")
		}
	}
	if err := form.Close(); err != nil {
		return crerr.Wrap(err, "close destroy form")
	}

	var decoded destroyResponse
	err := c.breaker.Execute(func() error {
		return c.post(ctx, "/destroy", form.FormDataContentType(), body.Bytes(), &decoded)
	}, isTransient)
	if err != nil {
		return crerr.Wrapf(err, "cloudinary destroy public_id=%s", publicID)
	}
	if decoded.Result != "ok" && decoded.Result != "not found" {
		return crerr.Newf("cloudinary destroy public_id=%s result=%s", publicID, decoded.Result)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return crerr.Wrap(err, "create cloudinary request")
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return crerr.Mark(crerr.Wrap(err, "cloudinary request failed"), errCloudinaryTransient)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return crerr.Mark(crerr.Wrap(err, "read cloudinary response"), errCloudinaryTransient)
	}
	if resp.StatusCode/100 != 2 {
		var envelope errorEnvelope
		_ = sonic.Unmarshal(raw, &envelope)
		callErr := crerr.Newf("cloudinary status=%d message=%s", resp.StatusCode, envelope.Error.Message)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return crerr.Mark(callErr, errCloudinaryTransient)
		}
		return callErr
	}
	if err := sonic.Unmarshal(raw, out); err != nil {
		return crerr.Wrap(err, "decode cloudinary response")
	}
	return nil
}

// signedFields adds api_key and the SHA-1 signature over the sorted params.
func (c *Client) signedFields(params map[string]string) map[string]string {
	fields := make(map[string]string, len(params)+2)
	for key, value := range params {
		fields[key] = value
	}
	fields["signature"] = sign(params, c.apiSecret)
	fields["api_key"] = c.apiKey
	return fields
}

func sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for key, value := range params {
		if value != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	for i, key := range keys {
		if i > 0 {
			_ = buf.WriteByte('&')
		}
		_, _ = buf.WriteString(key)
		_ = buf.WriteByte('=')
		_, _ = buf.WriteString(params[key])
	}
	_, _ = buf.WriteString(secret)

	sum := sha1.Sum(buf.B)
	return hex.EncodeToString(sum[:])
}

func isTransient(err error) bool {
	return crerr.Is(err, errCloudinaryTransient)
}
