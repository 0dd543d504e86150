// Package uploads resolves opaque title-image references produced by the
// upload subsystem into retrievable URLs. The application stores only the
// reference; storage mechanics live elsewhere.
package uploads

import (
	"strings"

	"eventer/internal/domain"
)

type resolver struct {
	baseURL string
}

// NewResolver returns an UploadResolver serving references below baseURL,
// e.g. "https://cdn.example.org/uploads".
func NewResolver(baseURL string) domain.UploadResolver {
	return &resolver{baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (r *resolver) ResolveURL(ref string) string {
	if ref == "" || r.baseURL == "" {
		return ""
	}
	return r.baseURL + "/" + strings.TrimPrefix(ref, "/")
}
