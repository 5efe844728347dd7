// Package monday provides a GraphQL client for the Monday.com v2 API.
// It implements a deep module interface - simple methods hiding complex
// GraphQL queries.
package monday

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/machinebox/graphql"
)

const (
	// DefaultEndpoint is the production Monday.com GraphQL endpoint.
	DefaultEndpoint = "https://api.monday.com/v2"

	// apiVersion pins the Monday.com API version header.
	apiVersion = "2024-01"

	// requestTimeout bounds each API round trip.
	requestTimeout = 30 * time.Second
)

// ErrItemNotFound indicates the API returned zero items for the requested ID.
var ErrItemNotFound = errors.New("item not found")

// APIError wraps any transport, status, or GraphQL-level failure from the
// Monday.com API. These are fatal for the primary item query.
type APIError struct {
	Err error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("monday API request failed: %v", e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// Client is a Monday.com GraphQL API client.
// It provides high-level methods for fetching item data for export.
type Client struct {
	gql   *graphql.Client
	token string
}

// New creates a Monday.com client authenticated with the given API token
// against the production endpoint.
func New(token string) *Client {
	return NewWithEndpoint(token, DefaultEndpoint)
}

// NewWithEndpoint creates a client against a custom endpoint. Used by tests
// to point the client at a local fake server.
func NewWithEndpoint(token, endpoint string) *Client {
	httpClient := &http.Client{Timeout: requestTimeout}
	return &Client{
		gql:   graphql.NewClient(endpoint, graphql.WithHTTPClient(httpClient)),
		token: token,
	}
}

// Token returns the session credential, for callers that fetch asset bytes
// from authenticated platform URLs outside the GraphQL surface.
func (c *Client) Token() string { return c.token }

// makeRequest executes a GraphQL request with authentication and the pinned
// API version. This is a helper method to avoid repeating header setup.
func (c *Client) makeRequest(ctx context.Context, req *graphql.Request, resp interface{}) error {
	req.Header.Set("Authorization", c.token)
	req.Header.Set("API-Version", apiVersion)
	return c.gql.Run(ctx, req, resp)
}
