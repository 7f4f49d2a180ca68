package api

import (
	"net/http"
	"strings"
)

// ForwardedHost returns the host a request was addressed to, read from
// X-Forwarded-Host. With several values (repeated headers or a comma
// separated list) the second one is used, otherwise the first.
func ForwardedHost(header http.Header) string {
	values := header.Values("X-Forwarded-Host")
	switch {
	case len(values) > 1:
		return strings.TrimSpace(values[1])
	case len(values) == 0:
		return ""
	}

	parts := strings.Split(values[0], ",")
	if len(parts) > 1 {
		return strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(parts[0])
}
