package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/slipwaylabs/slipway/internal/core/domain"
	"github.com/slipwaylabs/slipway/internal/core/ports"
	"github.com/slipwaylabs/slipway/internal/recipe"
)

// ServiceHandler exposes the launcher operations: build a service image
// from a recipe, run it, inspect it, stop it.
type ServiceHandler struct {
	service ports.ContainerService
	builder ports.BuilderService
	log     *logrus.Logger
}

func NewServiceHandler(service ports.ContainerService, builder ports.BuilderService, log *logrus.Logger) *ServiceHandler {
	return &ServiceHandler{service: service, builder: builder, log: log}
}

func (h *ServiceHandler) ListServices(c *fiber.Ctx) error {
	containers, err := h.service.ListContainers(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(containers)
}

type LaunchServiceRequest struct {
	Name       string `json:"name"`
	RepoURL    string `json:"repo_url"`
	ContextDir string `json:"context_dir"`
	Image      string `json:"image"`

	// RecipePath points at a slipway.yaml in the launcher's filesystem.
	// Empty means the stock recipe.
	RecipePath string `json:"recipe_path"`
}

// LaunchService builds the service image from its recipe and starts a
// container from it. The build is synchronous; a failing build step
// aborts the launch and nothing is started.
func (h *ServiceHandler) LaunchService(c *fiber.Ctx) error {
	var req LaunchServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.RepoURL == "" && req.ContextDir == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Repo URL or context directory is required",
		})
	}

	name := req.Name
	if name == "" {
		name = "svc-" + uuid.NewString()[:8]
	}

	var mf *recipe.Manifest
	if req.RecipePath != "" {
		loaded, err := recipe.LoadManifest(req.RecipePath)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		mf = loaded
	} else {
		mf = &recipe.Manifest{Name: name, Recipe: recipe.Default()}
	}

	imageTag := req.Image
	if imageTag == "" {
		imageTag = fmt.Sprintf("slipway/%s:latest", name)
	}

	src := domain.BuildSource{RepoURL: req.RepoURL, ContextDir: req.ContextDir}
	result, err := h.builder.BuildImage(c.Context(), src, mf.Recipe, imageTag)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Build failed: " + err.Error(),
		})
	}

	containerID, err := h.service.StartContainer(c.Context(), result.ImageTag, name, mf.Recipe.Port)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	h.log.WithFields(logrus.Fields{
		"name":  name,
		"image": result.ImageTag,
		"id":    containerID,
	}).Info("service launched")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    containerID,
		"name":  name,
		"image": result.ImageTag,
		"port":  mf.Recipe.Port,
	})
}

func (h *ServiceHandler) StopService(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Container ID is required",
		})
	}

	if err := h.service.StopContainer(c.Context(), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *ServiceHandler) GetServiceLogs(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Container ID is required",
		})
	}

	logs, err := h.service.GetContainerLogs(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set("Content-Type", "text/plain")
	return c.SendStream(logs)
}

// GetServiceIdentity reports the runtime identity a service executes
// as, so least-privilege can be checked from outside the container.
func (h *ServiceHandler) GetServiceIdentity(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Container ID is required",
		})
	}

	user, err := h.service.RuntimeUser(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"id":   id,
		"user": user,
		"root": user == "root" || user == "0",
	})
}
