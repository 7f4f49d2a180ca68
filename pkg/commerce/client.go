// Package commerce provides the client for the vendor commerce API
// (category tree and product search) with rate limiting and retries.
package commerce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"go.uber.org/ratelimit"
	"resty.dev/v3"

	"github.com/Sternrassler/catalog-bff/pkg/catalog"
)

const (
	categoriesPath = "/product/shopper-products/v1/organizations/%s/categories"
	searchPath     = "/search/shopper-search/v1/organizations/%s/product-search"

	operationCategories = "categories"
	operationSearch     = "product_search"
)

// DefaultSearchExpand is the expansion list requested for product search.
var DefaultSearchExpand = []string{"availability", "images", "prices", "represented_products", "variations", "custom_properties"}

// Client calls the commerce API on behalf of a shopper. The shopper's
// Authorization header is passed per call and never stored.
type Client struct {
	httpClient *resty.Client
	rl         ratelimit.Limiter
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the commerce API (e.g., "https://abc123.api.commercecloud.salesforce.com")
	BaseURL string

	// OrganizationID and SiteID scope every request
	OrganizationID string
	SiteID         string

	// Timeout per HTTP request
	Timeout time.Duration

	// RequestsPerSecond caps outbound calls (0 = unlimited)
	RequestsPerSecond int

	// Retry controls retries of server, rate limit and network failures
	Retry RetryConfig
}

// DefaultConfig returns a default configuration for the given API location.
func DefaultConfig(baseURL, organizationID, siteID string) Config {
	return Config{
		BaseURL:           baseURL,
		OrganizationID:    organizationID,
		SiteID:            siteID,
		Timeout:           10 * time.Second,
		RequestsPerSecond: 50,
		Retry:             DefaultRetryConfig(),
	}
}

// CategoryQuery selects a part of the category tree.
type CategoryQuery struct {
	IDs    string
	Levels int
}

// RootCategories is the query used for the navigation tree.
var RootCategories = CategoryQuery{IDs: "root", Levels: 4}

// CategoryResult is the category endpoint payload.
type CategoryResult struct {
	Total int                   `json:"total"`
	Data  []catalog.RawCategory `json:"data"`
}

// SearchQuery holds product search parameters.
type SearchQuery struct {
	Query  string
	Refine []string
	Sort   string
	Offset int
	Limit  int
	Expand []string
}

// Values returns the query parameters for q.
func (q SearchQuery) Values() url.Values {
	values := url.Values{}
	if q.Query != "" {
		values.Set("q", q.Query)
	}
	for _, refine := range q.Refine {
		values.Add("refine", refine)
	}
	if q.Sort != "" {
		values.Set("sort", q.Sort)
	}
	values.Set("offset", strconv.Itoa(q.Offset))
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	expand := q.Expand
	if len(expand) == 0 {
		expand = DefaultSearchExpand
	}
	values.Set("expand", strings.Join(expand, ","))
	return values
}

// New creates a new commerce API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if cfg.OrganizationID == "" {
		return nil, fmt.Errorf("organization id is required")
	}
	if cfg.SiteID == "" {
		return nil, fmt.Errorf("site id is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	rl := ratelimit.NewUnlimited()
	if cfg.RequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.RequestsPerSecond)
	}

	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: httpClient,
		rl:         rl,
		config:     cfg,
		logger:     log.With().Str("component", "commerce").Logger(),
	}, nil
}

// GetCategories fetches the category tree selected by q.
func (c *Client) GetCategories(ctx context.Context, token string, q CategoryQuery) (*CategoryResult, error) {
	params := url.Values{}
	params.Set("ids", q.IDs)
	params.Set("levels", strconv.Itoa(q.Levels))

	body, err := c.get(ctx, operationCategories, token, c.endpoint(categoriesPath), params)
	if err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}

	result := &CategoryResult{
		Total: int(gjson.GetBytes(body, "total").Int()),
	}
	if data := gjson.GetBytes(body, "data"); data.IsArray() {
		if err := json.Unmarshal([]byte(data.Raw), &result.Data); err != nil {
			return nil, fmt.Errorf("decode categories: %w", err)
		}
	}

	return result, nil
}

// SearchProducts runs a product search. Payloads that are not a JSON object
// fail with catalog.ErrInvalidInput.
func (c *Client) SearchProducts(ctx context.Context, token string, q SearchQuery) (*catalog.SearchResult, error) {
	body, err := c.get(ctx, operationSearch, token, c.endpoint(searchPath), q.Values())
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	result, err := catalog.DecodeSearchResult(body)
	if err != nil {
		return nil, fmt.Errorf("decode product search: %w", err)
	}
	return result, nil
}

func (c *Client) endpoint(pathFormat string) string {
	return strings.TrimRight(c.config.BaseURL, "/") + fmt.Sprintf(pathFormat, url.PathEscape(c.config.OrganizationID))
}

// get performs a rate limited GET with retries and returns the response body.
func (c *Client) get(ctx context.Context, operation, token, endpoint string, params url.Values) ([]byte, error) {
	params.Set("siteId", c.config.SiteID)

	var body []byte
	err := retryWithBackoff(ctx, c.config.Retry, operation, func() (ErrorClass, error) {
		c.rl.Take()

		start := time.Now()
		req := c.httpClient.R().
			SetContext(ctx).
			SetQueryParamsFromValues(params)
		if token != "" {
			req.SetHeader("Authorization", token)
		}
		resp, err := req.Get(endpoint)
		upstreamRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

		if err != nil {
			if ctx.Err() != nil {
				return "", fmt.Errorf("request cancelled: %w", ctx.Err())
			}
			c.logger.Error().Err(err).Str("operation", operation).Msg("HTTP request failed")
			upstreamErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			upstreamRequestsTotal.WithLabelValues(operation, "network_error").Inc()
			return ErrorClassNetwork, &UpstreamError{
				ErrorClass: ErrorClassNetwork,
				Message:    "request failed",
				Err:        err,
			}
		}

		status := resp.StatusCode()
		upstreamRequestsTotal.WithLabelValues(operation, strconv.Itoa(status)).Inc()

		if status >= 400 {
			errClass := classifyStatus(status)
			upstreamErrorsTotal.WithLabelValues(string(errClass)).Inc()
			c.logger.Warn().
				Str("operation", operation).
				Int("status", status).
				Str("error_class", string(errClass)).
				Msg("Commerce API request error")
			return errClass, &UpstreamError{
				StatusCode: status,
				ErrorClass: errClass,
				Message:    errorMessage(resp.String(), resp.Status()),
			}
		}

		body = []byte(resp.String())
		return "", nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("operation", operation).
		Int("bytes", len(body)).
		Msg("Commerce API request succeeded")
	return body, nil
}

// errorMessage extracts a readable message from a commerce API error body.
func errorMessage(body, status string) string {
	for _, field := range []string{"detail", "title", "message", "error"} {
		if v := gjson.Get(body, field); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	if status != "" {
		return status
	}
	return "unknown error"
}

// IsInvalidPayload reports whether err comes from a malformed upstream payload.
func IsInvalidPayload(err error) bool {
	return errors.Is(err, catalog.ErrInvalidInput)
}
