package ports

import (
	"context"

	"github.com/slipwaylabs/slipway/internal/core/domain"
)

// BuilderService defines operations for building container images from source code.
type BuilderService interface {
	// BuildImage fetches the source, applies the recipe and builds an
	// image tagged imageTag. Any failing build step aborts the whole
	// build; no partial image is tagged.
	BuildImage(ctx context.Context, src domain.BuildSource, rec domain.Recipe, imageTag string) (domain.BuildResult, error)
}
