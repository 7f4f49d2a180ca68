package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Sternrassler/catalog-bff/internal/testutil"
	"github.com/Sternrassler/catalog-bff/pkg/cache"
	"github.com/Sternrassler/catalog-bff/pkg/catalog"
	"github.com/Sternrassler/catalog-bff/pkg/commerce"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func serve(t *testing.T, h *Handler, target string, headers map[string]string) (int, envelope) {
	t.Helper()

	mux := http.NewServeMux()
	h.Register(mux)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	var body envelope
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return w.Code, body
}

var withToken = map[string]string{"Authorization": "Bearer guest"}

func TestCategoryList_MissingToken(t *testing.T) {
	source := &fakeSource{categories: sampleCategories()}
	h := NewHandler(source, newFakeStore(), DefaultOptions())

	status, body := serve(t, h, "/api/categories", nil)

	if status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", status)
	}
	if body.Success || body.Message != "Please pass access Token" {
		t.Errorf("body = %+v", body)
	}
	if source.categoryCalls != 0 {
		t.Error("upstream should not be called without a token")
	}
}

func TestCategoryList_CacheHit(t *testing.T) {
	store := newFakeStore()
	store.data[cache.CategoryListKey] = `{"categories":[{"id":"cached"}]}`
	source := &fakeSource{categories: sampleCategories()}
	h := NewHandler(source, store, DefaultOptions())

	status, body := serve(t, h, "/api/categories", withToken)

	if status != http.StatusOK {
		t.Errorf("status = %d, want 200", status)
	}
	if !body.Success || body.Message != "Categories retrieved from cache" {
		t.Errorf("body = %+v", body)
	}
	if string(body.Data) != `{"categories":[{"id":"cached"}]}` {
		t.Errorf("data = %s", body.Data)
	}
	if source.categoryCalls != 0 {
		t.Errorf("upstream calls = %d, want 0", source.categoryCalls)
	}
}

func TestCategoryList_CacheMiss(t *testing.T) {
	store := newFakeStore()
	source := &fakeSource{categories: sampleCategories()}
	h := NewHandler(source, store, DefaultOptions())

	status, body := serve(t, h, "/api/categories", map[string]string{
		"Authorization":    "Bearer guest",
		"X-Forwarded-Host": "edge.shoplc.com, www.shoplc.com",
	})
	h.Wait()

	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if !body.Success || body.Message != "Categories retrieved successfully" {
		t.Errorf("body = %+v", body)
	}
	if source.categoryCalls != 1 {
		t.Errorf("upstream calls = %d, want 1", source.categoryCalls)
	}
	if source.lastToken != "Bearer guest" {
		t.Errorf("forwarded token = %q", source.lastToken)
	}

	var list catalog.CategoryList
	if err := json.Unmarshal(body.Data, &list); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(list.Categories) != 1 || list.Categories[0].ID != "jewelry" {
		t.Fatalf("categories = %+v", list.Categories)
	}
	if list.Categories[0].Image != "https://www.shoplc.com/menu/jewelry.png" {
		t.Errorf("Image = %q, want second forwarded host", list.Categories[0].Image)
	}

	cached, ok := store.value(cache.CategoryListKey)
	if !ok {
		t.Fatal("categoryList should be cached")
	}
	if cached != strings.TrimSpace(string(body.Data)) {
		t.Errorf("cached = %s, want %s", cached, body.Data)
	}
	if store.ttls[cache.CategoryListKey] != 30*time.Minute {
		t.Errorf("ttl = %v, want 30m", store.ttls[cache.CategoryListKey])
	}
}

func TestCategoryList_NoCategoriesFound(t *testing.T) {
	store := newFakeStore()
	source := &fakeSource{categories: &commerce.CategoryResult{Total: 0}}
	h := NewHandler(source, store, DefaultOptions())

	status, body := serve(t, h, "/api/categories", withToken)
	h.Wait()

	if status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
	if !body.Success {
		t.Error("success should be true alongside 404")
	}
	if body.Message != "No category found under this parent category" {
		t.Errorf("message = %q", body.Message)
	}
	if body.Data != nil {
		t.Errorf("data = %s, want absent", body.Data)
	}
	if store.sets != 0 {
		t.Errorf("cache writes = %d, want 0", store.sets)
	}
}

func TestCategoryList_EmptyMappingNotCached(t *testing.T) {
	store := newFakeStore()
	source := &fakeSource{categories: &commerce.CategoryResult{
		Total: 1,
		Data:  []catalog.RawCategory{{ID: "root", Categories: []catalog.RawCategory{{ID: "hidden"}}}},
	}}
	h := NewHandler(source, store, DefaultOptions())

	status, _ := serve(t, h, "/api/categories", withToken)
	h.Wait()

	if status != http.StatusOK {
		t.Errorf("status = %d, want 200", status)
	}
	if store.sets != 0 {
		t.Errorf("cache writes = %d, want 0 for an empty tree", store.sets)
	}
}

func TestCategoryList_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "upstream unauthorized",
			err:        fmt.Errorf("get categories: %w", &commerce.UpstreamError{StatusCode: 401, ErrorClass: commerce.ErrorClassClient, Message: "token expired"}),
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "token expired",
		},
		{
			name:       "plain error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &fakeSource{categoriesErr: tt.err}
			h := NewHandler(source, newFakeStore(), DefaultOptions())

			status, body := serve(t, h, "/api/categories", withToken)

			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if body.Success {
				t.Error("success should be false")
			}
			if !strings.Contains(body.Message, tt.wantMsg) {
				t.Errorf("message = %q, want it to contain %q", body.Message, tt.wantMsg)
			}
		})
	}
}

func TestCategoryList_CacheReadErrorIgnored(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("redis get: connection refused")
	source := &fakeSource{categories: sampleCategories()}
	h := NewHandler(source, store, DefaultOptions())

	status, body := serve(t, h, "/api/categories", withToken)
	h.Wait()

	if status != http.StatusOK || body.Message != "Categories retrieved successfully" {
		t.Errorf("status = %d, body = %+v", status, body)
	}
	if source.categoryCalls != 1 {
		t.Errorf("upstream calls = %d, want 1", source.categoryCalls)
	}
}

func TestCategoryList_CacheWriteErrorIgnored(t *testing.T) {
	store := newFakeStore()
	store.setErr = errors.New("redis set: READONLY")
	h := NewHandler(&fakeSource{categories: sampleCategories()}, store, DefaultOptions())

	status, _ := serve(t, h, "/api/categories", withToken)
	h.Wait()

	if status != http.StatusOK {
		t.Errorf("status = %d, want 200", status)
	}
	if store.sets != 1 {
		t.Errorf("cache writes = %d, want 1 attempt", store.sets)
	}
}

func TestCategoryList_InvalidCachedPayload(t *testing.T) {
	store := newFakeStore()
	store.data[cache.CategoryListKey] = `{"categories":[`
	source := &fakeSource{categories: sampleCategories()}
	h := NewHandler(source, store, DefaultOptions())

	status, body := serve(t, h, "/api/categories", withToken)
	h.Wait()

	if status != http.StatusOK || body.Message != "Categories retrieved successfully" {
		t.Errorf("status = %d, body = %+v", status, body)
	}
	if cached, _ := store.value(cache.CategoryListKey); !json.Valid([]byte(cached)) {
		t.Errorf("invalid entry should be replaced, got %q", cached)
	}
}

func TestCategoryList_NoStore(t *testing.T) {
	h := NewHandler(&fakeSource{categories: sampleCategories()}, nil, DefaultOptions())

	status, body := serve(t, h, "/api/categories", withToken)
	h.Wait()

	if status != http.StatusOK || !body.Success {
		t.Errorf("status = %d, body = %+v", status, body)
	}
}

func TestCategoryList_LocalhostUsesFallbackDomain(t *testing.T) {
	opts := DefaultOptions()
	opts.FallbackDomain = "www.shoplc.com"
	h := NewHandler(&fakeSource{categories: sampleCategories()}, nil, opts)

	_, body := serve(t, h, "/api/categories", map[string]string{
		"Authorization":    "Bearer guest",
		"X-Forwarded-Host": "localhost",
	})

	var list catalog.CategoryList
	if err := json.Unmarshal(body.Data, &list); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if got := list.Categories[0].Image; got != "https://www.shoplc.com/menu/jewelry.png" {
		t.Errorf("Image = %q", got)
	}
}

func TestCategoryList_MalformedUpstreamNode(t *testing.T) {
	mock := testutil.NewMockCommerce()
	defer mock.Close()
	mock.SetCategoriesResponse(testutil.NewCategoriesResponse(`{"total":1,"data":[{"categories":[
		{"id":"a","name":"Alpha","c_showInMenu":true},
		{"id":"b","c_showInMenu":"true","thumbnail":42,"categories":{"id":"x"}},
		{"id":"c","c_showInMenu":"maybe"}
	]}]}`))

	source, err := commerce.New(commerce.DefaultConfig(mock.URL(), testutil.OrganizationID, testutil.SiteID))
	if err != nil {
		t.Fatalf("commerce.New() error = %v", err)
	}
	h := NewHandler(source, nil, DefaultOptions())

	status, body := serve(t, h, "/api/categories", withToken)

	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%+v)", status, body)
	}

	var list catalog.CategoryList
	if err := json.Unmarshal(body.Data, &list); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(list.Categories) != 2 {
		t.Fatalf("categories = %+v, want a and b", list.Categories)
	}
	b := list.Categories[1]
	if b.ID != "b" || b.Thumbnail != "42" || len(b.Subcategories) != 0 {
		t.Errorf("malformed node = %+v", b)
	}
}

func TestNewHandler_NilSourcePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewHandler should panic with nil source")
		}
	}()
	NewHandler(nil, nil, DefaultOptions())
}

func TestProductSearch(t *testing.T) {
	store := newFakeStore()
	source := &fakeSource{search: sampleSearch()}
	h := NewHandler(source, store, DefaultOptions())

	status, body := serve(t, h, "/api/products/search?q=ring&refine=cgid%3Drings&page=2", withToken)
	h.Wait()

	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%+v)", status, body)
	}
	if body.Message != "Products retrieved successfully" {
		t.Errorf("message = %q", body.Message)
	}

	if source.lastQuery.Offset != 60 || source.lastQuery.Limit != 60 {
		t.Errorf("query = %+v, want offset 60 limit 60", source.lastQuery)
	}
	if len(source.lastQuery.Refine) != 1 || source.lastQuery.Refine[0] != "cgid=rings" {
		t.Errorf("refine = %v", source.lastQuery.Refine)
	}

	var listing catalog.ProductList
	if err := json.Unmarshal(body.Data, &listing); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if listing.CurrentPage != 2 || listing.TotalPages != 3 || len(listing.Products) != 1 {
		t.Errorf("listing = %+v", listing)
	}

	key := "productSearch:limit=60:offset=60:q=ring:refine=cgid=rings"
	if _, ok := store.value(key); !ok {
		t.Errorf("listing should be cached under %s", key)
	}
}

func TestProductSearch_CacheHit(t *testing.T) {
	store := newFakeStore()
	store.data["productSearch:limit=60:offset=0:q=ring"] = `{"products":[]}`
	source := &fakeSource{search: sampleSearch()}
	h := NewHandler(source, store, DefaultOptions())

	status, body := serve(t, h, "/api/products/search?q=ring", withToken)

	if status != http.StatusOK || body.Message != "Products retrieved from cache" {
		t.Errorf("status = %d, body = %+v", status, body)
	}
	if source.searchCalls != 0 {
		t.Errorf("upstream calls = %d, want 0", source.searchCalls)
	}
}

func TestProductSearch_CacheDisabled(t *testing.T) {
	store := newFakeStore()
	opts := DefaultOptions()
	opts.ProductSearchTTL = 0
	h := NewHandler(&fakeSource{search: sampleSearch()}, store, opts)

	serve(t, h, "/api/products/search?q=ring", withToken)
	h.Wait()

	if store.sets != 0 {
		t.Errorf("cache writes = %d, want 0 with caching disabled", store.sets)
	}
}

func TestProductSearch_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"no query", "/api/products/search"},
		{"bad limit", "/api/products/search?q=ring&limit=abc"},
		{"negative offset", "/api/products/search?q=ring&offset=-1"},
		{"zero page", "/api/products/search?q=ring&page=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &fakeSource{search: sampleSearch()}
			h := NewHandler(source, nil, DefaultOptions())

			status, body := serve(t, h, tt.target, withToken)

			if status != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", status)
			}
			if body.Success {
				t.Error("success should be false")
			}
			if source.searchCalls != 0 {
				t.Error("upstream should not be called")
			}
		})
	}
}

func TestProductSearch_InvalidPayload(t *testing.T) {
	source := &fakeSource{searchErr: fmt.Errorf("decode product search: %w", catalog.ErrInvalidInput)}
	h := NewHandler(source, nil, DefaultOptions())

	status, body := serve(t, h, "/api/products/search?q=ring", withToken)

	if status != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", status)
	}
	if !strings.Contains(body.Message, "invalid data provided") {
		t.Errorf("message = %q", body.Message)
	}
}

func TestProductSearch_MalformedNestedFields(t *testing.T) {
	mock := testutil.NewMockCommerce()
	defer mock.Close()
	mock.SetSearchResponse(testutil.NewJSONResponse(http.StatusOK, `{"total":1,"hits":[{
		"productName":"Opal Ring","price":40,
		"representedProduct":{"id":"P1","c_estimatedPrice":"","c_installmentsNumber":"4"}
	}]}`))

	source, err := commerce.New(commerce.DefaultConfig(mock.URL(), testutil.OrganizationID, testutil.SiteID))
	if err != nil {
		t.Fatalf("commerce.New() error = %v", err)
	}
	h := NewHandler(source, nil, DefaultOptions())

	status, body := serve(t, h, "/api/products/search?q=opal", withToken)

	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%+v)", status, body)
	}
	var listing catalog.ProductList
	if err := json.Unmarshal(body.Data, &listing); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(listing.Products) != 1 || listing.Products[0].BudgetPay.Count != 4 || listing.Products[0].BudgetPay.Price != 10 {
		t.Errorf("products = %+v", listing.Products)
	}
}

func TestProductSearch_MissingToken(t *testing.T) {
	h := NewHandler(&fakeSource{search: sampleSearch()}, nil, DefaultOptions())

	status, body := serve(t, h, "/api/products/search?q=ring", nil)

	if status != http.StatusUnauthorized || body.Message != "Please pass access Token" {
		t.Errorf("status = %d, body = %+v", status, body)
	}
}

func TestParseSearchQuery_LimitClamped(t *testing.T) {
	q, err := parseSearchQuery(map[string][]string{"q": {"ring"}, "limit": {"1000"}, "offset": {"5"}})
	if err != nil {
		t.Fatalf("parseSearchQuery() error = %v", err)
	}
	if q.Limit != 200 {
		t.Errorf("Limit = %d, want 200", q.Limit)
	}
	if q.Offset != 5 {
		t.Errorf("Offset = %d, want 5", q.Offset)
	}
}
