package faasapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/faas3/faas3-cli/internal/apperr"
	"github.com/faas3/faas3-cli/internal/ctxlog"
	"resty.dev/v3"
)

const (
	functionsPath = "/api/functions"
	functionPath  = "/api/functions/{name}"
	deployPath    = "/api/deploy"
	runnerPath    = "/api/runner/{name}"
)

// Config configures a Client.
type Config struct {
	BaseURL string
	// Timeout bounds each request. Zero leaves requests unbounded.
	Timeout time.Duration
	// HTTPClient replaces the default transport, mainly for tests.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the FaaS HTTP API. One Client is created per process and
// shared by every command; requests are issued sequentially and never
// retried.
type Client struct {
	rc *resty.Client
}

// New creates a Client for the API rooted at cfg.BaseURL.
func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = newHTTPClient()
	}

	rc := resty.NewWithClient(hc)
	rc.SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
	}
	if cfg.Logger != nil {
		rc.SetLogger(&restyLogger{l: cfg.Logger})
	}

	return &Client{rc: rc}
}

// newHTTPClient returns the pooled transport shared by every API request of
// a run.
func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// Close releases idle connections held by the client.
func (c *Client) Close() error {
	return c.rc.Close()
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.rc.R().SetContext(ctx)
}

// do executes a request and wraps transport failures as network errors.
func (c *Client) do(ctx context.Context, req *resty.Request, method, path string) (*resty.Response, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Sending API request.", "method", method, "path", path)

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", apperr.ErrNetwork, method, path, err)
	}

	logger.Debug("Received API response.", "method", method, "path", path, "status", resp.StatusCode(), "bytes", len(resp.Bytes()))
	return resp, nil
}

// decode unmarshals a response body, reporting schema mismatches as decode
// errors.
func decode(resp *resty.Response, v any) error {
	body := resp.Bytes()
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %s %s (status %d): %w", apperr.ErrDecode, resp.Request.Method, resp.Request.URL, resp.StatusCode(), err)
	}
	return nil
}

// remoteError describes a non-success response.
func remoteError(resp *resty.Response) error {
	return fmt.Errorf("%w: %s %s returned %s: %s", apperr.ErrRemote, resp.Request.Method, resp.Request.URL, resp.Status(), snippet(resp.Bytes()))
}

func snippet(b []byte) string {
	const max = 256
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}

// restyLogger routes resty's internal warnings onto slog.
type restyLogger struct {
	l *slog.Logger
}

func (r *restyLogger) Errorf(format string, v ...any) { r.l.Error(fmt.Sprintf(format, v...)) }
func (r *restyLogger) Warnf(format string, v ...any)  { r.l.Warn(fmt.Sprintf(format, v...)) }
func (r *restyLogger) Debugf(format string, v ...any) { r.l.Debug(fmt.Sprintf(format, v...)) }
