// Package testutil provides testing utilities for catalog-bff.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// Test organization and site used by the mock commerce API.
const (
	OrganizationID = "f_ecom_test"
	SiteID         = "shoplc"
)

// MockResponse defines the behavior for a mock commerce endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockCommerce is a configurable mock commerce API server for testing.
type MockCommerce struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount      int
	LastRequestHeader http.Header
	LastQuery         map[string][]string
}

// NewMockCommerce creates a new mock commerce API server.
func NewMockCommerce() *MockCommerce {
	mock := &MockCommerce{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		mock.LastQuery = r.URL.Query()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"title": "Not Found", "detail": "no mock configured for path"}`))
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockCommerce) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockCommerce) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockCommerce) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.LastRequestHeader = nil
	m.LastQuery = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockCommerce) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockCommerce) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetSequence answers successive requests to path with responses in order,
// repeating the last one once the sequence is used up.
func (m *MockCommerce) SetSequence(path string, responses ...MockResponse) {
	var (
		mu   sync.Mutex
		next int
	)
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		resp := responses[next]
		if next < len(responses)-1 {
			next++
		}
		mu.Unlock()

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		w.Write([]byte(resp.Body))
	})
}

// SetCategoriesResponse configures the category endpoint.
func (m *MockCommerce) SetCategoriesResponse(resp MockResponse) {
	m.SetResponse(CategoriesPath(), resp)
}

// SetSearchResponse configures the product search endpoint.
func (m *MockCommerce) SetSearchResponse(resp MockResponse) {
	m.SetResponse(SearchPath(), resp)
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockCommerce) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetLastRequestHeader returns the headers of the most recent request.
func (m *MockCommerce) GetLastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastRequestHeader
}

// GetLastQuery returns the query parameters of the most recent request.
func (m *MockCommerce) GetLastQuery() map[string][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastQuery
}

// CategoriesPath is the category endpoint path for the test organization.
func CategoriesPath() string {
	return fmt.Sprintf("/product/shopper-products/v1/organizations/%s/categories", OrganizationID)
}

// SearchPath is the product search endpoint path for the test organization.
func SearchPath() string {
	return fmt.Sprintf("/search/shopper-search/v1/organizations/%s/product-search", OrganizationID)
}

// CategoryTreeJSON is a category payload with one menu category, one hidden
// category and a nested subtree.
const CategoryTreeJSON = `{
	"total": 1,
	"data": [{
		"id": "root",
		"categories": [
			{
				"id": "jewelry",
				"name": "Jewelry",
				"c_showInMenu": true,
				"c_categoryMegaMenuImage": "https://cdn.shoplc.com/menu/jewelry.png",
				"thumbnail": "https://cdn.shoplc.com/thumb/jewelry.png",
				"page_description": "Fine jewelry",
				"parentCategoryTree": [{"id": "root", "name": "Root"}],
				"categories": [
					{"id": "rings", "name": "Rings", "c_showInMenu": false},
					{"id": "livetv", "name": "Live TV", "c_showInMenu": true}
				]
			},
			{"id": "hidden", "name": "Hidden", "c_showInMenu": false}
		]
	}]
}`

// SearchResultJSON is a product search payload with a single hit.
const SearchResultJSON = `{
	"total": 1,
	"selectedSortingOption": "best-matches",
	"sortingOptions": [{"id": "best-matches", "label": "Best Matches"}],
	"refinements": [{"attributeId": "price", "label": "Price", "values": [{"label": "$0 - $20", "value": "(0..20)", "hitCount": 1}]}],
	"hits": [{
		"productId": "P1",
		"productName": "Silver Ring",
		"price": 100,
		"c_categoryName": "Rings",
		"representedProduct": {"id": "P1", "c_sirvImgData": "/p1/a.jpg", "c_estimatedPrice": 125}
	}]
}`

// NewCategoriesResponse creates a 200 OK category response with body.
func NewCategoriesResponse(body string) MockResponse {
	return NewJSONResponse(http.StatusOK, body)
}

// NewEmptyCategoriesResponse creates a 200 OK category response with no results.
func NewEmptyCategoriesResponse() MockResponse {
	return NewJSONResponse(http.StatusOK, `{"total": 0, "data": []}`)
}

// NewUnauthorizedResponse creates a 401 Unauthorized response.
func NewUnauthorizedResponse() MockResponse {
	return NewJSONResponse(http.StatusUnauthorized,
		`{"title": "Unauthorized", "detail": "The access token is invalid"}`)
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse() MockResponse {
	return NewJSONResponse(http.StatusTooManyRequests,
		`{"title": "Too Many Requests", "detail": "Rate limit exceeded"}`)
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return NewJSONResponse(http.StatusInternalServerError,
		`{"title": "Internal Server Error", "detail": "Internal server error"}`)
}

// NewJSONResponse creates a JSON response with the given status.
func NewJSONResponse(status int, body string) MockResponse {
	return MockResponse{
		StatusCode: status,
		Body:       body,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}
