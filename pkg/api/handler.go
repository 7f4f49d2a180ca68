package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/catalog-bff/pkg/cache"
	"github.com/Sternrassler/catalog-bff/pkg/catalog"
	"github.com/Sternrassler/catalog-bff/pkg/commerce"
	"github.com/Sternrassler/catalog-bff/pkg/logging"
	"github.com/Sternrassler/catalog-bff/pkg/pagination"
)

// Store is the cache used by the read paths.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CatalogSource is the commerce API.
type CatalogSource interface {
	GetCategories(ctx context.Context, token string, q commerce.CategoryQuery) (*commerce.CategoryResult, error)
	SearchProducts(ctx context.Context, token string, q commerce.SearchQuery) (*catalog.SearchResult, error)
}

// Options configures a Handler.
type Options struct {
	// FallbackDomain replaces "localhost" when rewriting image hosts
	FallbackDomain string

	// CategoryTTL is the lifetime of the cached navigation tree (0 = no expiry)
	CategoryTTL time.Duration

	// ProductSearchTTL is the lifetime of cached listings (0 disables caching)
	ProductSearchTTL time.Duration

	// CacheWriteTimeout bounds a background cache write
	CacheWriteTimeout time.Duration
}

// DefaultOptions returns the default handler options.
func DefaultOptions() Options {
	return Options{
		CategoryTTL:       30 * time.Minute,
		ProductSearchTTL:  2 * time.Minute,
		CacheWriteTimeout: 5 * time.Second,
	}
}

// Handler serves the catalog endpoints.
type Handler struct {
	source  CatalogSource
	store   Store
	options Options
	logger  zerolog.Logger
	writes  sync.WaitGroup
}

// NewHandler creates a handler. store may be nil to run without a cache.
func NewHandler(source CatalogSource, store Store, options Options) *Handler {
	if source == nil {
		panic("catalog source cannot be nil")
	}
	if options.CacheWriteTimeout <= 0 {
		options.CacheWriteTimeout = 5 * time.Second
	}
	return &Handler{
		source:  source,
		store:   store,
		options: options,
		logger:  logging.NewLogger("api"),
	}
}

// Register adds the API routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/categories", h.CategoryList)
	mux.HandleFunc("GET /api/products/search", h.ProductSearch)
}

// Wait blocks until pending background cache writes have finished.
func (h *Handler) Wait() {
	h.writes.Wait()
}

// CategoryList serves the navigation tree.
func (h *Handler) CategoryList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := r.Header.Get("Authorization")
	if token == "" {
		writeError(w, http.StatusUnauthorized, msgMissingToken)
		return
	}

	if cached, ok := h.cachedPayload(ctx, cache.CategoryListKey); ok {
		writeJSON(w, http.StatusOK, Response{
			Success: true,
			Message: msgCategoriesFromCache,
			Data:    cached,
		})
		return
	}

	host := ForwardedHost(r.Header)

	result, err := h.source.GetCategories(ctx, token, commerce.RootCategories)
	if err != nil {
		h.fail(w, "categories", err)
		return
	}

	if result.Total == 0 {
		writeJSON(w, http.StatusNotFound, Response{
			Success: true,
			Message: msgNoCategoryFound,
		})
		return
	}

	categories := catalog.MapCategories(result.Data, host, h.options.FallbackDomain)

	if len(categories.Categories) > 0 {
		h.storePayload(cache.CategoryListKey, categories, h.options.CategoryTTL)
	}

	h.logger.Debug().
		Str("host", host).
		Int("categories", len(categories.Categories)).
		Msg("Categories mapped")

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: msgCategoriesRetrieved,
		Data:    categories,
	})
}

// ProductSearch serves a product listing page.
//
// Query parameters: q, refine (repeatable), sort, offset or page (1-based),
// limit.
func (h *Handler) ProductSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := r.Header.Get("Authorization")
	if token == "" {
		writeError(w, http.StatusUnauthorized, msgMissingToken)
		return
	}

	query, err := parseSearchQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := searchCacheKey(query)
	useCache := h.options.ProductSearchTTL > 0
	if useCache {
		if cached, ok := h.cachedPayload(ctx, key); ok {
			writeJSON(w, http.StatusOK, Response{
				Success: true,
				Message: msgProductsFromCache,
				Data:    cached,
			})
			return
		}
	}

	result, err := h.source.SearchProducts(ctx, token, query)
	if err != nil {
		h.fail(w, "product_search", err)
		return
	}

	listing, err := catalog.MapProductList(result, query.Offset, query.Limit)
	if err != nil {
		h.fail(w, "product_search", err)
		return
	}

	if useCache && len(listing.Products) > 0 {
		h.storePayload(key, listing, h.options.ProductSearchTTL)
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: msgProductsRetrieved,
		Data:    listing,
	})
}

// cachedPayload returns the cached JSON under key. Read errors and invalid
// entries are logged and reported as a miss.
func (h *Handler) cachedPayload(ctx context.Context, key string) (json.RawMessage, bool) {
	if h.store == nil {
		return nil, false
	}

	value, err := h.store.Get(ctx, key)
	switch {
	case errors.Is(err, cache.ErrCacheMiss):
		h.logger.Debug().Str("cache_key", key).Bool("cache_hit", false).Msg("Cache miss")
		return nil, false
	case err != nil:
		h.logger.Warn().Err(err).Str("cache_key", key).Msg("Cache read failed, continuing without cache")
		return nil, false
	case value == "":
		return nil, false
	case !json.Valid([]byte(value)):
		err := fmt.Errorf("%w: %s is not valid JSON", cache.ErrInvalidEntry, key)
		h.logger.Warn().Err(err).Str("cache_key", key).Msg("Ignoring cached payload")
		return nil, false
	}

	h.logger.Debug().Str("cache_key", key).Bool("cache_hit", true).Msg("Cache hit")
	return json.RawMessage(value), true
}

// storePayload writes v to the cache in the background. The write outlives
// the request; Wait drains pending writes.
func (h *Handler) storePayload(key string, v any, ttl time.Duration) {
	if h.store == nil {
		return
	}

	payload, err := json.Marshal(v)
	if err != nil {
		h.logger.Warn().Err(err).Str("cache_key", key).Msg("Cache write skipped")
		return
	}

	h.writes.Add(1)
	go func() {
		defer h.writes.Done()

		ctx, cancel := context.WithTimeout(context.Background(), h.options.CacheWriteTimeout)
		defer cancel()

		if err := h.store.Set(ctx, key, string(payload), ttl); err != nil {
			h.logger.Warn().Err(err).Str("cache_key", key).Msg("Cache write failed")
			return
		}
		h.logger.Debug().Str("cache_key", key).Dur("ttl", ttl).Msg("Cached response")
	}()
}

// fail writes the error response for err.
func (h *Handler) fail(w http.ResponseWriter, operation string, err error) {
	status := commerce.HTTPStatus(err)
	if commerce.IsInvalidPayload(err) {
		status = http.StatusBadGateway
	}

	message := err.Error()
	if message == "" {
		message = msgDefaultFetchFailure
	}

	h.logger.Error().
		Err(err).
		Str("operation", operation).
		Int("status", status).
		Msg("Request failed")

	writeError(w, status, message)
}

func parseSearchQuery(values url.Values) (commerce.SearchQuery, error) {
	query := commerce.SearchQuery{
		Query:  values.Get("q"),
		Refine: values["refine"],
		Sort:   values.Get("sort"),
		Limit:  pagination.DefaultPageSize,
	}

	if query.Query == "" && len(query.Refine) == 0 {
		return query, errors.New(msgMissingSearchRequest)
	}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return query, fmt.Errorf("invalid limit %q", raw)
		}
		query.Limit = pagination.ClampPageSize(limit)
	}

	switch {
	case values.Get("offset") != "":
		offset, err := strconv.Atoi(values.Get("offset"))
		if err != nil || offset < 0 {
			return query, fmt.Errorf("invalid offset %q", values.Get("offset"))
		}
		query.Offset = offset
	case values.Get("page") != "":
		page, err := strconv.Atoi(values.Get("page"))
		if err != nil || page < 1 {
			return query, fmt.Errorf("invalid page %q", values.Get("page"))
		}
		query.Offset = pagination.OffsetForPage(page, query.Limit)
	}

	return query, nil
}

func searchCacheKey(q commerce.SearchQuery) string {
	params := url.Values{}
	if q.Query != "" {
		params.Set("q", q.Query)
	}
	if len(q.Refine) > 0 {
		params["refine"] = q.Refine
	}
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}
	params.Set("offset", strconv.Itoa(q.Offset))
	params.Set("limit", strconv.Itoa(q.Limit))

	return cache.Key{Name: "productSearch", Params: params}.String()
}
