package cache

import (
	"net/url"
	"sort"
	"strings"
)

// CategoryListKey is the cache key of the navigation tree.
const CategoryListKey = "categoryList"

// Key identifies a cached payload.
type Key struct {
	// Name is the payload kind (e.g., "categoryList", "productSearch")
	Name string

	// Params are the request parameters the payload depends on
	Params url.Values
}

// String generates a deterministic cache key string.
// Format: name:param1=val1:param2=val2a,val2b
//
// Example:
//
//	productSearch:limit=60:q=ring:refine=c_color=Blue,cgid=rings
func (k Key) String() string {
	parts := []string{k.Name}

	if len(k.Params) > 0 {
		keys := make([]string, 0, len(k.Params))
		for key := range k.Params {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			values := append([]string(nil), k.Params[key]...)
			sort.Strings(values)
			parts = append(parts, key+"="+strings.Join(values, ","))
		}
	}

	return strings.Join(parts, ":")
}

// kind returns the name part of a key string, used as a metric label.
func kind(key string) string {
	if i := strings.IndexByte(key, ':'); i != -1 {
		return key[:i]
	}
	return key
}
