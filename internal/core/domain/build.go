package domain

// BuildSource points at the application source a build consumes:
// either a git repository to clone or a local context directory.
// Exactly one of the two should be set.
type BuildSource struct {
	RepoURL    string `json:"repo_url"`
	ContextDir string `json:"context_dir"`
}

// BuildResult reports what an image build produced.
type BuildResult struct {
	ImageTag string `json:"image_tag"`
}
