// Package cache provides the Redis-backed cache used by catalog-bff's
// cache-aside read paths.
//
// Values are opaque strings (JSON payloads of mapped responses) stored with a
// per-kind TTL. The cache is best-effort: callers treat every error as a miss.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	manager := cache.NewManager(redisClient)
//
//	value, err := manager.Get(ctx, cache.CategoryListKey)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch from the commerce API, then
//		_ = manager.Set(ctx, cache.CategoryListKey, payload, 30*time.Minute)
//	}
//
// # Keys
//
// Request-dependent payloads use Key, which renders its parameters in sorted
// order so equivalent requests share an entry:
//
//	key := cache.Key{
//		Name:   "productSearch",
//		Params: url.Values{"q": {"ring"}, "limit": {"60"}},
//	}
//	key.String() // productSearch:limit=60:q=ring
//
// # Metrics
//
//   - catalog_cache_hits_total{kind} - Cache hits
//   - catalog_cache_misses_total{kind} - Cache misses
//   - catalog_cache_errors_total{operation} - Cache operation errors
//   - catalog_cache_write_bytes - Size of written payloads
package cache
