// Package chatapi is the HTTP client for the external chat backend. The
// backend is an opaque collaborator: any transport error or non-2xx status is
// total failure and callers fall back to local handling.
package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/suvai/freshmart-backend/pkg/errors"
	"github.com/suvai/freshmart-backend/pkg/geo"
)

const (
	defaultTimeout             = 10 * time.Second
	responseBodyReadLimit int64 = 1024
)

// ResponseType tags how a backend reply should be rendered.
type ResponseType string

const (
	ResponseTypeProductSearch  ResponseType = "product_search"
	ResponseTypeStoreLocations ResponseType = "store_locations"
	ResponseTypeText           ResponseType = "text"
)

// Request is the payload sent for each user message.
type Request struct {
	Message   string     `json:"message"`
	Location  *geo.Point `json:"location"`
	SessionID string     `json:"session_id"`
}

// ProductResult is a product row in a product_search reply.
type ProductResult struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// StoreResult is a store row in a store_locations reply.
type StoreResult struct {
	Name               string  `json:"name"`
	Distance           float64 `json:"distance"`
	Address            string  `json:"address"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	AvailabilityStatus string  `json:"availability_status"`
}

// Response is the backend reply, shaped by Type.
type Response struct {
	Type     ResponseType    `json:"type"`
	Message  string          `json:"message"`
	Products []ProductResult `json:"products,omitempty"`
	Stores   []StoreResult   `json:"stores,omitempty"`
}

// Client posts chat messages to the configured backend endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
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

// WithTimeout bounds each call. The upstream contract leaves the call
// unbounded; we always pick an explicit bound here.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds a chat backend client for the given endpoint.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil, fmt.Errorf("chat backend endpoint is required")
	}

	client := &Client{
		endpoint:   trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// Send posts one message and decodes the typed reply.
func (c *Client) Send(ctx context.Context, req Request) (*Response, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "chat backend client not configured")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal chat request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build chat request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute chat request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(
			pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			"chat request failed",
		)
	}

	var decoded Response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode chat response")
	}

	if decoded.Type == "" {
		decoded.Type = ResponseTypeText
	}

	return &decoded, nil
}
