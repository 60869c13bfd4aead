package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nvalenzo/threadhaus-backend/pkg/config"
	pkgerrors "github.com/nvalenzo/threadhaus-backend/pkg/errors"
	"github.com/nvalenzo/threadhaus-backend/pkg/metrics"
)

const responseBodyReadLimit int64 = 2048

var errBaseURLRequired = errors.New("gateway base url is required")

// Client talks to the hosted identity/document-store service. Every call is a
// single attempt; retry policy is left to the caller-facing error taxonomy.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	projectID  string
	metrics    *metrics.HTTPMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithMetrics attaches per-call counters.
func WithMetrics(m *metrics.HTTPMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds the gateway client from configuration.
func NewClient(cfg config.GatewayConfig, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gateway api key is required")
	}

	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		projectID:  strings.TrimSpace(cfg.ProjectID),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// TransportError carries the upstream status for error dumps and retry hints.
type TransportError struct {
	Status   int
	Endpoint string
	Body     string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gateway %s: status %d: %s", e.Endpoint, e.Status, e.Body)
}

func (e *TransportError) GatewayStatus() int      { return e.Status }
func (e *TransportError) GatewayEndpoint() string { return e.Endpoint }
func (e *TransportError) GatewayMessage() string  { return e.Body }

// do executes one JSON round trip. Write payloads pass through StripAbsent so
// the persisted document never carries explicit null markers.
func (c *Client) do(ctx context.Context, operation, method, path string, in, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "gateway client not configured")
	}

	var body io.Reader
	if in != nil {
		doc, err := StripAbsent(in)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "encode gateway document")
		}
		payload, err := json.Marshal(doc)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal gateway payload")
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build gateway request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.projectID != "" {
		httpReq.Header.Set("X-Project-Id", c.projectID)
	}
	if in != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.IncGatewayCall(operation, false)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute gateway request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		c.metrics.IncGatewayCall(operation, false)
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, &TransportError{
			Status:   resp.StatusCode,
			Endpoint: path,
			Body:     readErrorBody(resp.Body),
		}, "document not found")
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		c.metrics.IncGatewayCall(operation, false)
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, &TransportError{
			Status:   resp.StatusCode,
			Endpoint: path,
			Body:     readErrorBody(resp.Body),
		}, "gateway rejected credentials")
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.metrics.IncGatewayCall(operation, false)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, &TransportError{
			Status:   resp.StatusCode,
			Endpoint: path,
			Body:     readErrorBody(resp.Body),
		}, operation+" failed")
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.metrics.IncGatewayCall(operation, false)
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode gateway response")
		}
	}

	c.metrics.IncGatewayCall(operation, true)
	return nil
}

// Ping verifies the gateway is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, "ping", http.MethodGet, "/v1/ping", nil, nil)
}

func readErrorBody(r io.Reader) string {
	msg, _ := io.ReadAll(io.LimitReader(r, responseBodyReadLimit))
	return strings.TrimSpace(string(msg))
}
