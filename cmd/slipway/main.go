package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/slipwaylabs/slipway/internal/adapters/builder"
	"github.com/slipwaylabs/slipway/internal/adapters/docker"
	slipwayhttp "github.com/slipwaylabs/slipway/internal/adapters/http"
	"github.com/slipwaylabs/slipway/internal/logging"
)

func main() {
	log := logging.Setup("slipway", "")

	// 1. Initialize Adapters (Infrastructure)
	dockerAdapter, err := docker.NewAdapter()
	if err != nil {
		log.Fatalf("Failed to initialize Docker adapter: %v", err)
	}
	builderAdapter, err := builder.NewBuilderAdapter(log)
	if err != nil {
		log.Fatalf("Failed to initialize builder adapter: %v", err)
	}

	// 2. Initialize HTTP Handlers (Interface Adapters)
	serviceHandler := slipwayhttp.NewServiceHandler(dockerAdapter, builderAdapter, log)
	proxyHandler := slipwayhttp.NewProxyHandler(dockerAdapter)

	// 3. Setup Framework (Fiber)
	app := fiber.New()

	// Subdomain requests go straight to the service containers.
	app.Use(proxyHandler.ProxyRequest)

	// 4. Define Routes
	api := app.Group("/api")
	v1 := api.Group("/v1")

	services := v1.Group("/services")
	services.Get("/", serviceHandler.ListServices)
	services.Post("/", serviceHandler.LaunchService)
	services.Delete("/:id", serviceHandler.StopService)
	services.Get("/:id/logs", serviceHandler.GetServiceLogs)
	services.Get("/:id/identity", serviceHandler.GetServiceIdentity)

	// 5. Start Server
	log.WithFields(logrus.Fields{"addr": ":3000"}).Info("launcher starting")
	if err := app.Listen(":3000"); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
