package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/oauth2"

	"github.com/yurkol/mailsweep/internal/instrumentation"
	"github.com/yurkol/mailsweep/internal/logging"
	"github.com/yurkol/mailsweep/internal/msauth"
)

const (
	// DefaultBaseURL is the Graph v1.0 endpoint.
	DefaultBaseURL = "https://graph.microsoft.com/v1.0"

	// DefaultPageSize is the $top value requested per page. The mail
	// endpoints cap a single page at 999 items; continuation links
	// cover anything beyond that.
	DefaultPageSize = 999

	// DefaultTimeout bounds each HTTP request.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxTries bounds the retry loop for throttled and failing requests.
	DefaultMaxTries = 4
)

// Client wraps the Microsoft Graph mail API for a single mailbox.
type Client struct {
	httpClient *http.Client
	baseURL    string
	pageSize   int
	timeout    time.Duration
	maxTries   uint
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the Graph endpoint. Intended for tests.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithPageSize sets the $top value requested per page.
func WithPageSize(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithMaxTries bounds the retry loop for transient failures.
func WithMaxTries(n uint) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxTries = n
		}
	}
}

// WithLogger sets the logger used for request events.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics enables API operation metrics.
func WithMetrics(metrics *instrumentation.Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = metrics
	}
}

// NewClient creates a Graph client whose requests carry bearer tokens
// from the given source. The source is consulted per request, so an
// expired token is renewed before the next call rather than sent.
func NewClient(ctx context.Context, ts oauth2.TokenSource, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		pageSize: DefaultPageSize,
		timeout:  DefaultTimeout,
		maxTries: DefaultMaxTries,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	httpClient := oauth2.NewClient(ctx, ts)
	httpClient.Timeout = c.timeout
	c.httpClient = httpClient

	return c
}

// get issues a GET with bounded retries and decodes the JSON body into out.
// 429 and 5xx responses are retried with exponential backoff, honoring a
// Retry-After hint; other non-success statuses fail immediately.
func (c *Client) get(ctx context.Context, op, url string, out any) error {
	operation := func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// The oauth2 transport surfaces token-source failures here.
			// A failed credential exchange will not heal on retry, and
			// repeating it risks locking the account out.
			var authErr *msauth.AuthError
			if errors.As(err, &authErr) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return body, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			c.logger.Debug("transient graph failure, will retry",
				logging.Operation(op),
				slog.String("status", resp.Status))
			if seconds, ok := retryAfterHint(resp); ok {
				return nil, backoff.RetryAfter(seconds)
			}
			return nil, &apiError{StatusCode: resp.StatusCode, Status: resp.Status}
		default:
			return nil, backoff.Permanent(&apiError{StatusCode: resp.StatusCode, Status: resp.Status})
		}
	}

	start := time.Now()
	body, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(newBackOff()),
		backoff.WithMaxTries(c.maxTries))

	status := logging.StatusSuccess
	if err != nil {
		status = logging.StatusError
	}
	c.metrics.RecordGraphOperation(ctx, op, status, time.Since(start))

	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	return nil
}

// apiError is a non-success Graph response that survived (or bypassed)
// the retry loop.
type apiError struct {
	StatusCode int
	Status     string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("graph returned %s", e.Status)
}

func newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	return b
}

// retryAfterHint reads the provider-supplied retry delay, in seconds.
func retryAfterHint(resp *http.Response) (int, bool) {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0, false
	}
	seconds, err := strconv.Atoi(v)
	if err != nil || seconds < 0 {
		return 0, false
	}
	return seconds, true
}
