// The server command is the process the build recipe launches: it
// resolves attribute "app" of module "server" and serves it on all
// interfaces at port 8000. Resolution failure exits non-zero before
// any socket is bound.
package main

import (
	"context"

	"github.com/slipwaylabs/slipway/internal/adapters/spotify"
	"github.com/slipwaylabs/slipway/internal/asgi"
	"github.com/slipwaylabs/slipway/internal/config"
	"github.com/slipwaylabs/slipway/internal/logging"
	"github.com/slipwaylabs/slipway/internal/server"
)

const (
	listenHost = "0.0.0.0"
	listenPort = 8000
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger not up yet; a bare fatal is all we can do.
		logging.Setup(server.EntryModule, "").Fatalf("Configuration error: %v", err)
	}

	log := logging.Setup(server.EntryModule, cfg.LogDir)

	catalog := spotify.New(spotify.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		BaseURL:      cfg.ProviderBaseURL,
		TokenURL:     cfg.TokenURL,
	})
	server.Register(catalog, log)

	app, err := asgi.Resolve(server.EntryModule, server.EntryAttr)
	if err != nil {
		log.Fatalf("Failed to resolve entry point: %v", err)
	}

	srv := asgi.NewServer(listenHost, listenPort, app)
	log.WithField("addr", "0.0.0.0:8000").Info("server starting")
	if err := srv.Listen(context.Background()); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
