package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	applog "github.com/janisto/swarm-balance/internal/platform/logging"
	appmiddleware "github.com/janisto/swarm-balance/internal/platform/middleware"
)

const (
	defaultTimeout = 3 * time.Second
	userAgent      = "swarm-balance-frontend"
	// maxBodyBytes bounds how much of a peer response is buffered.
	maxBodyBytes = 1 << 20
)

// Client implements Service over HTTP. Every call is a single attempt bounded
// by the client timeout; nothing is retried.
type Client struct {
	httpClient    *http.Client
	backendURL    string
	frontendIDURL string
	timeout       time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBackendURL sets the backend info endpoint.
func WithBackendURL(url string) Option {
	return func(c *Client) {
		c.backendURL = url
	}
}

// WithFrontendIDURL sets the frontend identity endpoint used for fanout.
func WithFrontendIDURL(url string) Option {
	return func(c *Client) {
		c.frontendIDURL = url
	}
}

// WithTimeout bounds each call, including reading the response body.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewTransport returns a transport that dials a new connection for every
// request. The swarm VIP balances per TCP connection, so a pooled connection
// would pin all calls to one replica.
func NewTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.DisableKeepAlives = true
	return t
}

// NewClient creates a peer client. A nil httpClient selects a client built on
// NewTransport.
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Transport: NewTransport()}
	}
	c := &Client{
		httpClient: httpClient,
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BackendInfo implements Service.
func (c *Client) BackendInfo(ctx context.Context) (json.RawMessage, error) {
	body, err := c.get(ctx, c.backendURL)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, &UpstreamError{Kind: ErrorKindDecode, URL: c.backendURL, cause: errors.New("body is not valid JSON")}
	}
	return json.RawMessage(body), nil
}

// BackendIdentity implements Service.
func (c *Client) BackendIdentity(ctx context.Context) (*Identity, error) {
	return c.identity(ctx, c.backendURL)
}

// FrontendIdentity implements Service.
func (c *Client) FrontendIdentity(ctx context.Context) (*Identity, error) {
	return c.identity(ctx, c.frontendIDURL)
}

func (c *Client) identity(ctx context.Context, url string) (*Identity, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	var id Identity
	if err := json.Unmarshal(body, &id); err != nil {
		return nil, &UpstreamError{Kind: ErrorKindDecode, URL: url, cause: err}
	}
	return &id, nil
}

// get performs one GET and returns the body regardless of status code; peers
// are judged only on whether they answer with JSON.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &UpstreamError{Kind: ErrorKindUnreachable, URL: url, cause: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	appmiddleware.Propagate(ctx, req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, classify(url, err)
	}
	applog.LoggerFromContext(ctx).Debug("upstream call completed",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	return body, nil
}

func classify(url string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &UpstreamError{Kind: ErrorKindTimeout, URL: url, cause: err}
	}
	return &UpstreamError{Kind: ErrorKindUnreachable, URL: url, cause: err}
}

// Compile-time interface check
var _ Service = (*Client)(nil)
