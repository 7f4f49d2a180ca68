package pagination

// DefaultPageSize is the listing page size used when none is given.
const DefaultPageSize = 60

// MaxPageSize caps page sizes accepted from clients.
const MaxPageSize = 200

// NormalizePageSize returns size, or DefaultPageSize when size is not positive.
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	return size
}

// ClampPageSize normalizes size and caps it at MaxPageSize.
func ClampPageSize(size int) int {
	size = NormalizePageSize(size)
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// TotalPages returns ceil(total/pageSize). Zero or negative totals yield 0.
func TotalPages(total, pageSize int) int {
	if total <= 0 {
		return 0
	}
	pageSize = NormalizePageSize(pageSize)
	return (total + pageSize - 1) / pageSize
}

// CurrentPage returns ceil((offset+1)/pageSize), the 1-based page holding the
// record at offset.
func CurrentPage(offset, pageSize int) int {
	if offset < 0 {
		offset = 0
	}
	pageSize = NormalizePageSize(pageSize)
	return (offset + pageSize) / pageSize
}

// OffsetForPage returns the zero-based offset of the first record on a
// 1-based page. Pages below 1 map to offset 0.
func OffsetForPage(page, pageSize int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * NormalizePageSize(pageSize)
}
