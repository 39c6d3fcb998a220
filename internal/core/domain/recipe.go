package domain

import "fmt"

// Recipe describes how a service image is assembled and launched.
// It captures everything the build needs to produce a least-privilege
// runtime: the pinned base image, the dependency manifest, the
// unprivileged account, the log directory, and the fixed listening
// endpoint the launched process binds to.
type Recipe struct {
	// BaseImage is the pinned runtime image, e.g. "python:3.11-slim".
	BaseImage string `yaml:"base_image" json:"base_image"`

	// ManifestPath is the dependency manifest inside the build context.
	// Its content is opaque to the launcher; it is handed to the install
	// step as-is.
	ManifestPath string `yaml:"manifest" json:"manifest"`

	// BuildPackages are OS-level toolchain packages installed before the
	// dependency install so native extensions can compile.
	BuildPackages []string `yaml:"build_packages" json:"build_packages"`

	// User is the unprivileged account the process runs as.
	User string `yaml:"user" json:"user"`

	// AppDir is where application source lives inside the image.
	AppDir string `yaml:"app_dir" json:"app_dir"`

	// LogDir is created at build time, owned by User, and left writable
	// for the application.
	LogDir string `yaml:"log_dir" json:"log_dir"`

	// Entry identifies the application object the process manager loads:
	// attribute Attr of module Module.
	Entry EntryPoint `yaml:"entry" json:"entry"`

	// Host and Port fix the listening endpoint. Changing them requires a
	// rebuild; nothing reconfigures them at runtime.
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`

	// Env holds environment flags baked into the image.
	Env map[string]string `yaml:"env" json:"env"`
}

// EntryPoint names the module-level attribute the server loads.
type EntryPoint struct {
	Module string `yaml:"module" json:"module"`
	Attr   string `yaml:"attr" json:"attr"`
}

func (e EntryPoint) String() string {
	return e.Module + ":" + e.Attr
}

// Validate rejects recipes that would break the runtime contract.
func (r Recipe) Validate() error {
	if r.BaseImage == "" {
		return fmt.Errorf("recipe: base image is required")
	}
	if !hasTag(r.BaseImage) {
		return fmt.Errorf("recipe: base image %q must be pinned to a tag", r.BaseImage)
	}
	if r.User == "" || r.User == "root" {
		return fmt.Errorf("recipe: runtime user must be a dedicated non-root account, got %q", r.User)
	}
	if r.Host == "" {
		return fmt.Errorf("recipe: listen host is required")
	}
	if r.Port <= 0 || r.Port > 65535 {
		return fmt.Errorf("recipe: invalid port %d", r.Port)
	}
	if r.Entry.Module == "" || r.Entry.Attr == "" {
		return fmt.Errorf("recipe: entry point module and attr are required")
	}
	if r.AppDir == "" || r.LogDir == "" {
		return fmt.Errorf("recipe: app dir and log dir are required")
	}
	return nil
}

func hasTag(image string) bool {
	for i := len(image) - 1; i >= 0; i-- {
		switch image[i] {
		case ':':
			return i < len(image)-1
		case '/':
			return false
		}
	}
	return false
}
