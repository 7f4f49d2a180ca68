// Package pagination provides the page arithmetic shared by the product
// listing mapper and the search handler.
//
// Listings are addressed by a zero-based record offset and a page size.
// Pages are 1-based:
//
//	TotalPages(125, 60)  // 3
//	CurrentPage(59, 60)  // 1
//	CurrentPage(60, 60)  // 2
//	OffsetForPage(2, 60) // 60
//
// A non-positive page size is replaced by DefaultPageSize.
package pagination
