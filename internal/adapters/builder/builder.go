package builder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/archive"
	"github.com/go-git/go-git/v5"
	"github.com/sirupsen/logrus"

	"github.com/slipwaylabs/slipway/internal/core/domain"
	"github.com/slipwaylabs/slipway/internal/recipe"
)

// Adapter builds service images from a recipe and a source location.
type Adapter struct {
	cli *client.Client
	log *logrus.Logger
}

func NewBuilderAdapter(log *logrus.Logger) (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Adapter{cli: cli, log: log}, nil
}

// BuildImage fetches the source, writes the rendered recipe into the
// build context when none exists there, and builds the image. Every
// step runs in order; the first failure aborts the build and no
// partial image is tagged.
func (a *Adapter) BuildImage(ctx context.Context, src domain.BuildSource, rec domain.Recipe, imageTag string) (domain.BuildResult, error) {
	ctxDir, cleanup, err := a.prepareContext(ctx, src)
	if err != nil {
		return domain.BuildResult{}, err
	}
	defer cleanup()

	if err := injectDockerfile(ctxDir, rec); err != nil {
		return domain.BuildResult{}, err
	}

	tar, err := archive.TarWithOptions(ctxDir, &archive.TarOptions{})
	if err != nil {
		return domain.BuildResult{}, fmt.Errorf("failed to create build context: %w", err)
	}

	a.log.WithField("image", imageTag).Info("building image")
	resp, err := a.cli.ImageBuild(ctx, tar, types.ImageBuildOptions{
		Tags:       []string{imageTag},
		Dockerfile: "Dockerfile",
		Remove:     true, // Remove intermediate containers
	})
	if err != nil {
		return domain.BuildResult{}, fmt.Errorf("failed to build image: %w", err)
	}
	defer resp.Body.Close()

	if err := drainBuildStream(resp.Body); err != nil {
		return domain.BuildResult{}, fmt.Errorf("build failed: %w", err)
	}

	return domain.BuildResult{ImageTag: imageTag}, nil
}

// prepareContext materializes the build context: a shallow clone for a
// repo URL, or the local directory as-is.
func (a *Adapter) prepareContext(ctx context.Context, src domain.BuildSource) (string, func(), error) {
	if src.ContextDir != "" {
		return src.ContextDir, func() {}, nil
	}
	if src.RepoURL == "" {
		return "", nil, fmt.Errorf("build source requires a repo URL or a context directory")
	}

	tmpDir, err := os.MkdirTemp("", "slipway-build-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(tmpDir) }

	a.log.WithField("repo", src.RepoURL).Info("cloning source")
	_, err = git.PlainCloneContext(ctx, tmpDir, false, &git.CloneOptions{
		URL:   src.RepoURL,
		Depth: 1, // Shallow clone for speed
	})
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to clone repo: %w", err)
	}
	return tmpDir, cleanup, nil
}

// injectDockerfile renders the recipe into the context unless the
// source already ships its own Dockerfile.
func injectDockerfile(ctxDir string, rec domain.Recipe) error {
	path := filepath.Join(ctxDir, "Dockerfile")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	rendered, err := recipe.Render(rec)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("failed to write Dockerfile: %w", err)
	}
	return nil
}

// buildMessage is one line of the daemon's JSON build stream.
type buildMessage struct {
	Stream      string `json:"stream"`
	Error       string `json:"error"`
	ErrorDetail struct {
		Message string `json:"message"`
	} `json:"errorDetail"`
}

// drainBuildStream consumes the build output and reports the first
// failing step. The daemon only aborts the build on its side; the
// error arrives inline in the stream, so draining without decoding
// would silently tag nothing.
func drainBuildStream(r io.Reader) error {
	dec := json.NewDecoder(r)
	for {
		var msg buildMessage
		if err := dec.Decode(&msg); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("failed to decode build output: %w", err)
		}
		if msg.Error != "" {
			if msg.ErrorDetail.Message != "" {
				return fmt.Errorf("%s", msg.ErrorDetail.Message)
			}
			return fmt.Errorf("%s", msg.Error)
		}
	}
}
