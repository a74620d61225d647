package http

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/kernel-auth/sigverify"
	"github.com/kernel-auth/sigverify/types"
)

// ClientConfig holds configuration for a Client
type ClientConfig struct {
	// Timeout for each request, defaults to DefaultRequestTimeout
	Timeout time.Duration
	// Headers sent with every request
	Headers map[string]string
}

// APIError is a non-2xx answer from the server
type APIError struct {
	StatusCode int
	Response   types.ErrorResponse
}

func (e *APIError) Error() string {
	if e.Response.Reason != "" {
		return fmt.Sprintf("verifier returned %d (%s): %s", e.StatusCode, e.Response.Reason, e.Response.Error)
	}
	return fmt.Sprintf("verifier returned %d: %s", e.StatusCode, e.Response.Error)
}

// Client talks to a remote verification server
type Client struct {
	http *resty.Client
}

// NewClient creates a client for the server at baseURL
// Args:
//
//	baseURL: Server root, e.g. http://localhost:8090
//	config: Optional configuration (nil uses defaults)
//
// Returns:
//
//	Configured Client instance
func NewClient(baseURL string, config *ClientConfig) *Client {
	cfg := ClientConfig{}
	if config != nil {
		cfg = *config
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultRequestTimeout
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "sigverify/"+sigverify.Version)
	if len(cfg.Headers) > 0 {
		httpClient.SetHeaders(cfg.Headers)
	}

	return &Client{http: httpClient}
}

// Health calls the health endpoint
func (c *Client) Health(ctx context.Context) (*types.HealthResponse, error) {
	var out types.HealthResponse
	if err := c.do(ctx, c.http.R().SetResult(&out), "GET", RouteHealth); err != nil {
		return nil, err
	}
	return &out, nil
}

// Account looks up the account of identity
func (c *Client) Account(ctx context.Context, identity string) (*types.AccountResponse, error) {
	var out types.AccountResponse
	req := c.http.R().SetPathParam("identity", identity).SetResult(&out)
	if err := c.do(ctx, req, "GET", "/v1/accounts/{identity}"); err != nil {
		return nil, err
	}
	return &out, nil
}

// Format asks the server for the universal form of a raw signature
func (c *Client) Format(ctx context.Context, request types.FormatRequest) (*types.FormatResponse, error) {
	var out types.FormatResponse
	if err := c.do(ctx, c.http.R().SetBody(request).SetResult(&out), "POST", RouteFormat); err != nil {
		return nil, err
	}
	return &out, nil
}

// Verify asks the server for a verdict
// An invalid signature is a response with IsValid false, not an error
func (c *Client) Verify(ctx context.Context, request types.VerifyRequest) (*types.VerifyResponse, error) {
	var out types.VerifyResponse
	if err := c.do(ctx, c.http.R().SetBody(request).SetResult(&out), "POST", RouteVerify); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, req *resty.Request, method string, path string) error {
	var apiErr types.ErrorResponse
	resp, err := req.
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetError(&apiErr).
		Execute(method, path)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	if resp.IsError() {
		return &APIError{StatusCode: resp.StatusCode(), Response: apiErr}
	}
	return nil
}
