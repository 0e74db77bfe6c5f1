package ecfr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://www.ecfr.gov/api"

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "ecfr_client_request_duration_seconds",
	Help:    "eCFR API request latency by endpoint and outcome",
	Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
}, []string{"endpoint", "outcome"})

// HTTPDoer lets tests substitute the transport.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type WebConfig struct {
	BaseURL string
	Timeout time.Duration
	// MaxRequests are allowed per Window.
	MaxRequests int
	Window      time.Duration
	UserAgent   string
}

func DefaultWebConfig() WebConfig {
	return WebConfig{
		BaseURL:     DefaultBaseURL,
		Timeout:     60 * time.Second,
		MaxRequests: 10,
		Window:      500 * time.Millisecond,
		UserAgent:   "ecfr-analytics/1.0",
	}
}

type WebClient struct {
	baseURL   string
	userAgent string
	http      HTTPDoer
	limiter   *rate.Limiter
	logger    *zap.Logger
}

type WebOption func(*WebClient)

func WithHTTPDoer(d HTTPDoer) WebOption {
	return func(c *WebClient) { c.http = d }
}

func WithLogger(l *zap.Logger) WebOption {
	return func(c *WebClient) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewWebClient(cfg WebConfig, opts ...WebOption) *WebClient {
	def := DefaultWebConfig()
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = def.MaxRequests
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}

	c := &WebClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: cfg.Timeout},
		limiter:   rate.NewLimiter(rate.Every(cfg.Window/time.Duration(cfg.MaxRequests)), cfg.MaxRequests),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *WebClient) Titles(ctx context.Context) (*TitlesResponse, error) {
	var out TitlesResponse
	if err := c.getJSON(ctx, "titles", "/versioner/v1/titles.json", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *WebClient) Agencies(ctx context.Context) ([]Agency, error) {
	var out struct {
		Agencies []Agency `json:"agencies"`
	}
	if err := c.getJSON(ctx, "agencies", "/admin/v1/agencies.json", nil, &out); err != nil {
		return nil, err
	}
	return out.Agencies, nil
}

func (c *WebClient) TitleXML(ctx context.Context, date string, title int, p XMLParams) (string, error) {
	path := fmt.Sprintf("/versioner/v1/full/%s/title-%d.xml", url.PathEscape(date), title)
	body, err := c.get(ctx, "full", path, p.values(), "application/xml")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *WebClient) TitleStructure(ctx context.Context, date string, title int) (*StructureNode, error) {
	path := fmt.Sprintf("/versioner/v1/structure/%s/title-%d.json", url.PathEscape(date), title)
	var out StructureNode
	if err := c.getJSON(ctx, "structure", path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *WebClient) Versions(ctx context.Context, title int, p VersionParams) (*VersionsResponse, error) {
	path := "/versioner/v1/versions/title-" + strconv.Itoa(title) + ".json"
	var out VersionsResponse
	if err := c.getJSON(ctx, "versions", path, p.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *WebClient) getJSON(ctx context.Context, endpoint, path string, q url.Values, dst any) error {
	body, err := c.get(ctx, endpoint, path, q, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

func (c *WebClient) get(ctx context.Context, endpoint, path string, q url.Values, accept string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		requestDuration.WithLabelValues(endpoint, "error").Observe(time.Since(start).Seconds())
		return nil, fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		requestDuration.WithLabelValues(endpoint, "error").Observe(time.Since(start).Seconds())
		return nil, fmt.Errorf("read %s body: %w", endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		requestDuration.WithLabelValues(endpoint, "status").Observe(time.Since(start).Seconds())
		c.logger.Warn("ecfr request failed",
			zap.String("endpoint", endpoint),
			zap.String("url", target),
			zap.Int("status", resp.StatusCode))
		return nil, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(body)}
	}
	requestDuration.WithLabelValues(endpoint, "ok").Observe(time.Since(start).Seconds())
	c.logger.Debug("ecfr request",
		zap.String("endpoint", endpoint),
		zap.String("url", target),
		zap.Duration("elapsed", time.Since(start)))
	return body, nil
}
