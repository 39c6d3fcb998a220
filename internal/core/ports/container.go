package ports

import (
	"context"
	"io"

	"github.com/slipwaylabs/slipway/internal/core/domain"
)

// ContainerService defines the core operations for managing containers.
// This interface allows us to switch between Docker, Podman, or Kubernetes
// without changing the business logic.
type ContainerService interface {
	ListContainers(ctx context.Context) ([]domain.Container, error)
	// StartContainer creates and starts a container named name from
	// image, publishing port to the host. No restart policy is set;
	// restarts belong to the orchestrator.
	StartContainer(ctx context.Context, image, name string, port int) (string, error)
	StopContainer(ctx context.Context, id string) error
	GetContainerLogs(ctx context.Context, id string) (io.ReadCloser, error)
	// RuntimeUser reports the identity the container's process runs as.
	RuntimeUser(ctx context.Context, id string) (string, error)
}
