// Package api serves the catalog-bff HTTP endpoints.
//
// Routes:
//
//	GET /api/categories       navigation tree (cache-aside, key "categoryList")
//	GET /api/products/search  product listing for a search query
//
// Both routes require an Authorization header, which is forwarded to the
// commerce API. Responses use the envelope {success, message, data}.
package api
