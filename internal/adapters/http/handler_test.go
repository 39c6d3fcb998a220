package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/slipwaylabs/slipway/internal/core/domain"
)

type stubContainers struct {
	containers []domain.Container
	started    []string
	stopped    []string
	user       string
	err        error
}

func (s *stubContainers) ListContainers(ctx context.Context) ([]domain.Container, error) {
	return s.containers, s.err
}

func (s *stubContainers) StartContainer(ctx context.Context, image, name string, port int) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.started = append(s.started, fmt.Sprintf("%s/%s:%d", image, name, port))
	return "c0ffee000000", nil
}

func (s *stubContainers) StopContainer(ctx context.Context, id string) error {
	s.stopped = append(s.stopped, id)
	return s.err
}

func (s *stubContainers) GetContainerLogs(ctx context.Context, id string) (io.ReadCloser, error) {
	if s.err != nil {
		return nil, s.err
	}
	return io.NopCloser(strings.NewReader("log line\n")), nil
}

func (s *stubContainers) RuntimeUser(ctx context.Context, id string) (string, error) {
	return s.user, s.err
}

type stubBuilder struct {
	built []string
	err   error
}

func (s *stubBuilder) BuildImage(ctx context.Context, src domain.BuildSource, rec domain.Recipe, imageTag string) (domain.BuildResult, error) {
	if s.err != nil {
		return domain.BuildResult{}, s.err
	}
	s.built = append(s.built, imageTag)
	return domain.BuildResult{ImageTag: imageTag}, nil
}

func newTestAPI(t *testing.T, containers *stubContainers, builder *stubBuilder) *fiber.App {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	h := NewServiceHandler(containers, builder, log)

	app := fiber.New()
	app.Get("/services", h.ListServices)
	app.Post("/services", h.LaunchService)
	app.Delete("/services/:id", h.StopService)
	app.Get("/services/:id/identity", h.GetServiceIdentity)
	return app
}

func TestLaunchServiceBuildsThenStarts(t *testing.T) {
	containers := &stubContainers{}
	builder := &stubBuilder{}
	app := newTestAPI(t, containers, builder)

	body := `{"name":"search-api","repo_url":"https://example.com/repo.git"}`
	req := httptest.NewRequest("POST", "/services", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status=%d want 201", resp.StatusCode)
	}

	var out map[string]any
	json.NewDecoder(resp.Body).Decode(&out)
	resp.Body.Close()
	if out["image"] != "slipway/search-api:latest" {
		t.Fatalf("image=%v", out["image"])
	}
	if out["port"] != float64(8000) {
		t.Fatalf("port=%v want 8000", out["port"])
	}
	if len(builder.built) != 1 || len(containers.started) != 1 {
		t.Fatalf("built=%v started=%v", builder.built, containers.started)
	}
}

func TestLaunchServiceRequiresSource(t *testing.T) {
	app := newTestAPI(t, &stubContainers{}, &stubBuilder{})

	req := httptest.NewRequest("POST", "/services", strings.NewReader(`{"name":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status=%d want 400", resp.StatusCode)
	}
}

func TestLaunchServiceBuildFailureAbortsLaunch(t *testing.T) {
	containers := &stubContainers{}
	builder := &stubBuilder{err: fmt.Errorf("step 3 failed")}
	app := newTestAPI(t, containers, builder)

	body := `{"name":"x","repo_url":"https://example.com/repo.git"}`
	req := httptest.NewRequest("POST", "/services", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("status=%d want 500", resp.StatusCode)
	}
	if len(containers.started) != 0 {
		t.Fatal("container started despite failed build")
	}
}

func TestListServices(t *testing.T) {
	containers := &stubContainers{containers: []domain.Container{
		{ID: "abc123def456", Name: "search-api", State: "running", Port: 8000},
	}}
	app := newTestAPI(t, containers, &stubBuilder{})

	resp, err := app.Test(httptest.NewRequest("GET", "/services", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	var out []domain.Container
	json.NewDecoder(resp.Body).Decode(&out)
	resp.Body.Close()
	if len(out) != 1 || out[0].Name != "search-api" {
		t.Fatalf("out=%+v", out)
	}
}

func TestGetServiceIdentity(t *testing.T) {
	containers := &stubContainers{user: "appuser"}
	app := newTestAPI(t, containers, &stubBuilder{})

	resp, err := app.Test(httptest.NewRequest("GET", "/services/c0ffee/identity", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	var out map[string]any
	json.NewDecoder(resp.Body).Decode(&out)
	resp.Body.Close()
	if out["user"] != "appuser" {
		t.Fatalf("user=%v", out["user"])
	}
	if out["root"] != false {
		t.Fatal("appuser flagged as root")
	}
}

func TestStopService(t *testing.T) {
	containers := &stubContainers{}
	app := newTestAPI(t, containers, &stubBuilder{})

	resp, err := app.Test(httptest.NewRequest("DELETE", "/services/c0ffee", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status=%d want 200", resp.StatusCode)
	}
	if len(containers.stopped) != 1 {
		t.Fatal("stop not forwarded")
	}
}
