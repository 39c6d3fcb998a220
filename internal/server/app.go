// Package server is the search application the launcher packages and
// serves. It exposes one search endpoint over a catalog provider and
// registers itself as attribute "app" of module "server", the entry
// point the runtime contract loads.
package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/sirupsen/logrus"

	"github.com/slipwaylabs/slipway/internal/asgi"
	"github.com/slipwaylabs/slipway/internal/core/ports"
)

// Module and attribute names of the served entry point.
const (
	EntryModule = "server"
	EntryAttr   = "app"
)

// NewApp assembles the search application.
func NewApp(catalog ports.CatalogService, log *logrus.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Catalog Search API",
		DisableStartupMessage: true,
	})

	h := newSearchHandler(catalog, log)
	app.Get("/search", h.Search)

	return app
}

// Register wires the application into the entry-point registry so the
// serve command can resolve server:app.
func Register(catalog ports.CatalogService, log *logrus.Logger) {
	app := NewApp(catalog, log)
	asgi.Register(EntryModule, EntryAttr, asgi.WrapHandler(adaptor.FiberApp(app)))
}
