// Package catalog reshapes commerce search and category payloads into the
// view models served by catalog-bff.
//
// The package has two entry points:
//
//   - MapProductList turns a product search result into a paginated listing
//     (products, sort options, filters, page metadata).
//   - MapCategories turns the category tree returned by the commerce API into
//     the navigation tree, rewriting image hosts and deriving links.
//
// Both are pure functions. Missing or mistyped fields in the raw payloads
// never fail a mapping: strings default to "", numbers to 0, flags to false
// and lists to []. Numeric strings are read as numbers.
//
// # Basic Usage
//
//	result, err := catalog.DecodeSearchResult(body)
//	if err != nil {
//		return err // wraps catalog.ErrInvalidInput
//	}
//
//	listing, err := catalog.MapProductList(result, offset, 60)
//
//	tree := catalog.MapCategories(categories, "www.example.com", "www.example.com")
package catalog
