package recipe

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/slipwaylabs/slipway/internal/core/domain"
)

// manifestFile mirrors the slipway.yaml schema. It is separate from
// domain.Recipe so file-only fields stay out of the runtime type.
type manifestFile struct {
	Service struct {
		Name string `yaml:"name"`
	} `yaml:"service"`
	Recipe domain.Recipe `yaml:"recipe"`
}

// Manifest is a named recipe loaded from disk.
type Manifest struct {
	Name   string
	Recipe domain.Recipe
}

// LoadManifest reads a recipe manifest from path. Fields omitted in
// the file fall back to the defaults.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe manifest: %w", err)
	}

	var mf manifestFile
	mf.Recipe = Default()
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("failed to parse recipe manifest: %w", err)
	}

	if mf.Service.Name == "" {
		return nil, fmt.Errorf("recipe manifest %s: service name is required", path)
	}
	if err := mf.Recipe.Validate(); err != nil {
		return nil, fmt.Errorf("recipe manifest %s: %w", path, err)
	}

	return &Manifest{Name: mf.Service.Name, Recipe: mf.Recipe}, nil
}

// LoadManifestOrDefault loads the manifest at path, falling back to the
// default recipe under name when the file does not exist.
func LoadManifestOrDefault(path, name string) *Manifest {
	mf, err := LoadManifest(path)
	if err != nil {
		return &Manifest{Name: name, Recipe: Default()}
	}
	return mf
}

// Default returns the stock recipe: a pinned slim Python base, a
// dedicated appuser account, logs under /app/logs and the ASGI entry
// point served on all interfaces at port 8000.
func Default() domain.Recipe {
	return domain.Recipe{
		BaseImage:     "python:3.11-slim",
		ManifestPath:  "requirements.txt",
		BuildPackages: []string{"gcc", "build-essential"},
		User:          "appuser",
		AppDir:        "/app",
		LogDir:        "/app/logs",
		Entry:         domain.EntryPoint{Module: "server", Attr: "app"},
		Host:          "0.0.0.0",
		Port:          8000,
		Env: map[string]string{
			"PYTHONUNBUFFERED":        "1",
			"PYTHONDONTWRITEBYTECODE": "1",
		},
	}
}
