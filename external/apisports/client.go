package apisports

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/matchday-engine/internal/platform/logging"
	"github.com/riskibarqy/matchday-engine/internal/platform/resilience"
	"github.com/riskibarqy/matchday-engine/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	apiKeyHeader     = "x-apisports-key"
	defaultTimeout   = 30 * time.Second
	maxResponseBytes = 8 << 20
)

var (
	errTransient   = crerr.New("apisports transient failure")
	apiKeyRegex    = regexp.MustCompile(`(?i)x-apisports-key[=:]\s*[^&\s"']+`)
	providerLayout = []string{time.RFC3339, "2006-01-02T15:04:05-07:00", "2006-01-02 15:04:05"}
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client is the shared API-Sports transport used by every sport adapter.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight[[]byte]
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = timeout
	}

	breakerCfg := cfg.CircuitBreaker.Normalize()
	if breakerCfg.OnStateChange == nil {
		breakerCfg.OnStateChange = func(from, to resilience.CircuitState) {
			logger.Warn("apisports circuit breaker state changed", "base_url", cfg.BaseURL, "from", from, "to", to)
		}
	}
	return &Client{
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// envelope is the common API-Sports response wrapper.
type envelope[T any] struct {
	Get      string         `json:"get"`
	Errors   providerErrors `json:"errors"`
	Results  int            `json:"results"`
	Response []T            `json:"response"`
}

// providerErrors accepts both shapes the provider uses: an empty array on
// success and an object keyed by field on failure.
type providerErrors []string

func (p *providerErrors) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "" || trimmed == "null":
		*p = nil
		return nil
	case strings.HasPrefix(trimmed, "["):
		var items []any
		if err := sonic.Unmarshal(data, &items); err != nil {
			return err
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, fmt.Sprint(item))
		}
		*p = out
		return nil
	case strings.HasPrefix(trimmed, "{"):
		var items map[string]any
		if err := sonic.Unmarshal(data, &items); err != nil {
			return err
		}
		out := make([]string, 0, len(items))
		for key, value := range items {
			out = append(out, key+": "+fmt.Sprint(value))
		}
		*p = out
		return nil
	default:
		*p = providerErrors{trimmed}
		return nil
	}
}

func getJSON[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	raw, err := c.get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var out envelope[T]
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, crerr.Wrap(err, "decode provider payload")
	}
	if len(out.Errors) > 0 {
		return nil, crerr.Newf("provider errors: %s", strings.Join(out.Errors, "; "))
	}
	return out.Response, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, err, _ := c.flight.Do(fullURL, func() ([]byte, error) {
		if !c.circuitEnabled {
			return c.executeRequest(ctx, fullURL)
		}
		var raw []byte
		err := c.breaker.Do(func() error {
			var reqErr error
			raw, reqErr = c.executeRequest(ctx, fullURL)
			return reqErr
		}, isTransient)
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "apisports circuit breaker rejected request", "state", c.breaker.State(), "path", path)
			return nil, fmt.Errorf("%w: sport data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		return raw, err
	})
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		raw, err := c.doOnce(ctx, fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !isTransient(err) || attempt == c.maxRetries {
			break
		}

		timer := time.NewTimer(time.Duration(attempt+1) * time.Second)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "apisports request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, crerr.Mark(crerr.Newf("send request: %s", sanitizeSensitiveText(err.Error(), c.apiKey)), errTransient)
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxResponseBytes)); err != nil {
		return nil, crerr.Mark(crerr.Wrap(err, "read response body"), errTransient)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := crerr.Newf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(buf.B))
		if isRetryableStatus(resp.StatusCode) {
			return nil, crerr.Mark(statusErr, errTransient)
		}
		return nil, statusErr
	}

	return append([]byte(nil), buf.B...), nil
}

func isTransient(err error) bool {
	return err != nil && crerr.Is(err, errTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	return apiKeyRegex.ReplaceAllString(value, apiKeyHeader+"=REDACTED")
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func parseProviderDateTime(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	for _, layout := range providerLayout {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			v := parsed.UTC()
			return &v
		}
	}
	return nil
}
