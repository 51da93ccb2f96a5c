// Package genai is a minimal HTTP client for the Anthropic Messages API,
// used by the roadmap pipeline as its generative backend. Failures are
// classified into domain.GenerationError kinds so callers can distinguish
// connectivity, timeout, rate-limit, and key-configuration problems.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/pathwise-edu/pathwise/internal/domain"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	defaultVersion = "2023-06-01"
	defaultModel   = "claude-3-5-sonnet-20241022"

	// DefaultTimeout bounds each generation call. The underlying HTTP client
	// has no implicit deadline, so the bound is set explicitly here.
	DefaultTimeout = 30 * time.Second
)

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithVersion sets the API version header.
func WithVersion(version string) ClientOption {
	return func(c *Client) {
		c.version = version
	}
}

// WithModel sets the model used by Generate.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithMaxTokens sets the completion budget used by Generate.
func WithMaxTokens(n int) ClientOption {
	return func(c *Client) {
		c.maxTokens = n
	}
}

// WithTimeout sets the per-call deadline used by Generate.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// Client is a custom HTTP client for the Messages API.
type Client struct {
	apiKey     string
	baseURL    string
	version    string
	model      string
	maxTokens  int
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient creates a new Messages API client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		version:    defaultVersion,
		model:      defaultModel,
		maxTokens:  2048,
		timeout:    DefaultTimeout,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// systemDirective instructs the model to emit one structured JSON object.
const systemDirective = "You are an academic planning assistant. Respond with a single JSON object and no other text."

// Generate sends one prompt and returns the raw text of the response.
// The call is bounded by the client's configured timeout.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.CreateMessage(ctx, &MessagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    systemDirective,
		Messages:  []Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// CreateMessage sends a messages request.
func (c *Client) CreateMessage(ctx context.Context, req *MessagesRequest) (*MessagesResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewGenerationError(domain.GenerationTransport, "failed to read response").WithCause(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatusError(resp.StatusCode, respBody)
	}

	var result MessagesResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, domain.NewGenerationError(domain.GenerationProvider, "malformed response envelope").
			WithStatusCode(resp.StatusCode).WithCause(err)
	}

	return &result, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", c.version)
	req.Header.Set("User-Agent", "pathwise/1.0")
}

// classifyTransportError maps a failed round trip to a classified error.
// Deadline and cancellation failures are reported as timeouts; everything
// else is a connectivity problem.
func classifyTransportError(err error) *domain.GenerationError {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return domain.NewGenerationError(domain.GenerationTimeout, "generation call timed out").WithCause(err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return domain.NewGenerationError(domain.GenerationTimeout, "generation call timed out").WithCause(err)
	default:
		return domain.NewGenerationError(domain.GenerationTransport, "request failed").WithCause(err)
	}
}

// classifyStatusError maps a non-200 status and error body to a classified
// error. The provider's error message is carried verbatim when parseable.
func classifyStatusError(status int, body []byte) *domain.GenerationError {
	message := fmt.Sprintf("API error: %s", strings.TrimSpace(string(body)))
	var cause error
	if apiErr, err := ParseErrorResponse(body); err == nil && apiErr != nil {
		message = apiErr.Message
		cause = apiErr
	}

	kind := domain.GenerationProvider
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = domain.GenerationAuth
	case http.StatusTooManyRequests:
		kind = domain.GenerationRateLimit
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		kind = domain.GenerationTimeout
	}

	e := domain.NewGenerationError(kind, message).WithStatusCode(status)
	if cause != nil {
		e = e.WithCause(cause)
	}
	return e
}
