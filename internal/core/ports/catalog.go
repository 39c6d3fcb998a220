package ports

import (
	"context"

	"github.com/slipwaylabs/slipway/internal/core/domain"
)

// CatalogService searches an upstream catalog provider.
type CatalogService interface {
	Search(ctx context.Context, query string, kind domain.SearchType, limit int) (domain.SearchResult, error)
}
