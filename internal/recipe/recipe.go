// Package recipe renders build recipes for service images. A recipe
// produces a Dockerfile whose steps run in a fixed order: toolchain
// install, dependency install, runtime account and log directory
// provisioning, source copy with ownership re-assertion, privilege
// drop, then the serve command.
package recipe

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/slipwaylabs/slipway/internal/core/domain"
)

const dockerfileTemplate = `FROM {{.BaseImage}}

{{- if .EnvLines}}

ENV {{join .EnvLines " \\\n    "}}
{{- end}}

WORKDIR {{.AppDir}}
{{- if .BuildPackages}}

RUN apt-get update && \
    apt-get install -y --no-install-recommends {{join .BuildPackages " "}} && \
    rm -rf /var/lib/apt/lists/*
{{- end}}

COPY {{.ManifestPath}} .
RUN pip install --no-cache-dir -r {{.ManifestPath}}

RUN useradd --create-home {{.User}} && \
    mkdir -p {{.LogDir}} && \
    chown -R {{.User}}:{{.User}} {{.AppDir}} {{.LogDir}}

COPY . .
RUN chown -R {{.User}}:{{.User}} {{.AppDir}} {{.LogDir}}

USER {{.User}}

EXPOSE {{.Port}}

CMD ["uvicorn", "{{.Entry}}", "--host", "{{.Host}}", "--port", "{{.Port}}"]
`

var tmpl = template.Must(template.New("dockerfile").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(dockerfileTemplate))

type templateData struct {
	BaseImage     string
	EnvLines      []string
	AppDir        string
	BuildPackages []string
	ManifestPath  string
	User          string
	LogDir        string
	Entry         string
	Host          string
	Port          int
}

// Render produces the Dockerfile for a recipe. Output is deterministic
// for equal input: env entries are emitted in sorted key order.
func Render(r domain.Recipe) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}

	envLines := make([]string, 0, len(r.Env))
	for k, v := range r.Env {
		envLines = append(envLines, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(envLines)

	entry := r.Entry.Module + ":" + r.Entry.Attr

	var buf bytes.Buffer
	err := tmpl.Execute(&buf, templateData{
		BaseImage:     r.BaseImage,
		EnvLines:      envLines,
		AppDir:        r.AppDir,
		BuildPackages: r.BuildPackages,
		ManifestPath:  r.ManifestPath,
		User:          r.User,
		LogDir:        r.LogDir,
		Entry:         entry,
		Host:          r.Host,
		Port:          r.Port,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render recipe: %w", err)
	}
	return buf.String(), nil
}
