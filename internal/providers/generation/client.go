package generation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/visionaryvybes/Archi-sub000/internal/infrastructure/logging"
	"github.com/visionaryvybes/Archi-sub000/internal/infrastructure/resilience"
	"github.com/visionaryvybes/Archi-sub000/internal/infrastructure/tracing"
)

// ErrUnexpectedResponse is returned when the endpoint's body cannot be decoded
var ErrUnexpectedResponse = errors.New("generation: unexpected response")

// StatusError marks a 5xx reply so the breaker counts it as a failure
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("generation: upstream status %d", e.Code)
}

// Config configures the endpoints and transport
type Config struct {
	Endpoint          string
	ChatEndpoint      string
	Timeout           time.Duration
	Retries           int
	RetryWaitMin      time.Duration
	RetryWaitMax      time.Duration
	RequestsPerSecond float64
}

// Client calls the image generation and chat editing endpoints through a
// retrying transport, a rate limiter and a circuit breaker.
type Client struct {
	resty   *resty.Client
	breaker *resilience.Breaker
	logger  *logging.Logger
	cfg     Config

	mu      sync.RWMutex
	limiter *rate.Limiter
}

// New creates a generation client
func New(cfg Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	if cfg.RetryWaitMin == 0 {
		cfg.RetryWaitMin = 500 * time.Millisecond
	}
	if cfg.RetryWaitMax == 0 {
		cfg.RetryWaitMax = 5 * time.Second
	}

	// Retries happen in the transport; 5xx replies that exhaust them are
	// passed through so their body can still be decoded.
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.Retries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.Logger = nil
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	restyClient := resty.NewWithClient(retryClient.StandardClient()).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "VisionaryStudio/1.0").
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)

	named := logger.Named("generation-client")
	breaker := resilience.New("generation", resilience.Settings{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to resilience.State) {
			named.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		},
	})

	c := &Client{
		resty:   restyClient,
		breaker: breaker,
		logger:  named,
		cfg:     cfg,
	}
	c.SetRateLimit(cfg.RequestsPerSecond)
	return c
}

// SetRateLimit configures rate limiting (requests per second, 0 = unlimited)
func (c *Client) SetRateLimit(rps float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rps <= 0 {
		c.limiter = rate.NewLimiter(rate.Inf, 0)
		return
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
}

// BreakerState returns the current circuit breaker state
func (c *Client) BreakerState() resilience.State {
	return c.breaker.State()
}

// BreakerCounts returns circuit breaker statistics
func (c *Client) BreakerCounts() resilience.Counts {
	return c.breaker.Counts()
}

// Generate requests one image. A non-2xx reply with a decodable body is
// returned as an unsuccessful response rather than an error.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	var out GenerateResponse
	if err := c.post(ctx, c.cfg.Endpoint, req, &out); err != nil {
		return nil, err
	}
	if !out.Success && out.Error == "" {
		out.Error = "generation failed"
	}
	return &out, nil
}

// Chat sends an edit instruction with the conversation so far
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if req.ConversationHistory == nil {
		req.ConversationHistory = []HistoryEntry{}
	}

	var out ChatResponse
	if err := c.post(ctx, c.cfg.ChatEndpoint, req, &out); err != nil {
		return nil, err
	}
	if !out.Success && out.Error == "" {
		out.Error = "chat failed"
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, url string, body, out any) error {
	c.mu.RLock()
	limiter := c.limiter
	c.mu.RUnlock()

	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit error: %w", err)
	}

	headers := make(map[string]string, 2)
	tracing.InjectTraceContext(ctx, headers)

	start := time.Now()
	resp, err := resilience.Do(ctx, c.breaker, func(ctx context.Context) (*resty.Response, error) {
		resp, err := c.resty.R().
			SetContext(ctx).
			SetHeaders(headers).
			SetBody(body).
			Post(url)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() >= http.StatusInternalServerError {
			return resp, &StatusError{Code: resp.StatusCode()}
		}
		return resp, nil
	})

	var statusErr *StatusError
	if err != nil && !errors.As(err, &statusErr) {
		c.logger.Warn("Upstream request failed",
			zap.String("url", url),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return fmt.Errorf("post %s: %w", url, err)
	}

	if decodeErr := sonic.Unmarshal(resp.Body(), out); decodeErr != nil {
		c.logger.Warn("Undecodable upstream response",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode()),
			zap.Error(decodeErr))
		return fmt.Errorf("%w: status %d: %v", ErrUnexpectedResponse, resp.StatusCode(), decodeErr)
	}

	c.logger.Debug("Upstream request finished",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
