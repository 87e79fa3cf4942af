// Package dummyjson provides the remote catalog client for the dummyjson.com
// demo REST API: paged product listings, product search, and cart lookups.
package dummyjson

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/donaldgifford/storefront/internal/metrics"
	domain "github.com/donaldgifford/storefront/pkg/types"
)

const (
	// DefaultBaseURL is the public demo API.
	DefaultBaseURL = "https://dummyjson.com"
	// DefaultPageSize is the page size used when the caller passes zero.
	DefaultPageSize = 10
)

// Endpoint labels used in errors, logs and metrics.
const (
	OpFetchPage = "fetch_page"
	OpSearch    = "search_products"
	OpFetchCart = "fetch_cart"
)

// Client implements the remote catalog source over HTTP.
type Client struct {
	baseURL     string
	client      *http.Client
	rateLimiter *RateLimiter
	validate    *validator.Validate
	log         *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithRateLimiter routes every request through r.Wait first.
func WithRateLimiter(r *RateLimiter) Option {
	return func(c *Client) {
		c.rateLimiter = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a new API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		client:   &http.Client{Timeout: 30 * time.Second},
		validate: validator.New(),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchPage returns one page of products. Pages are 1-based;
// skip = (page-1) * pageSize.
func (c *Client) FetchPage(ctx context.Context, page, pageSize int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(pageSize))
	q.Set("skip", strconv.Itoa((page-1)*pageSize))

	var resp ProductsResponse
	if err := c.get(ctx, OpFetchPage, "/products?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return ToProducts(c.validate, c.log, resp.Products), nil
}

// SearchProducts returns products whose title or description matches term.
func (c *Client) SearchProducts(ctx context.Context, term string) ([]domain.Product, error) {
	q := url.Values{}
	q.Set("q", term)

	var resp ProductsResponse
	if err := c.get(ctx, OpSearch, "/products/search?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return ToProducts(c.validate, c.log, resp.Products), nil
}

// FetchCart returns the products and quantities held in a server-side cart.
func (c *Client) FetchCart(ctx context.Context, cartID int) ([]domain.CartProduct, error) {
	var resp CartResponse
	if err := c.get(ctx, OpFetchCart, fmt.Sprintf("/carts/%d", cartID), &resp); err != nil {
		return nil, err
	}
	return ToCartProducts(c.validate, c.log, resp.Products), nil
}

func (c *Client) get(ctx context.Context, op, path string, dst any) error {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			metrics.RemoteRequestsTotal.WithLabelValues(op, "rate_limited").Inc()
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	start := time.Now()
	defer func() {
		metrics.RemoteRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RemoteRequestsTotal.WithLabelValues(op, "transport_error").Inc()
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RemoteRequestsTotal.WithLabelValues(op, "transport_error").Inc()
		return &TransportError{Op: op, Err: fmt.Errorf("reading response body: %w", err)}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		metrics.RemoteRequestsTotal.WithLabelValues(op, "server_error").Inc()
		return &ServerError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, dst); err != nil {
		metrics.RemoteRequestsTotal.WithLabelValues(op, "decode_error").Inc()
		return fmt.Errorf("parsing %s response: %w", op, err)
	}

	metrics.RemoteRequestsTotal.WithLabelValues(op, "ok").Inc()
	c.log.Debug("remote request", "op", op, "path", path, "duration_ms", time.Since(start).Milliseconds())
	return nil
}
