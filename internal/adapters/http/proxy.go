package http

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/slipwaylabs/slipway/internal/core/ports"
)

// ProxyHandler routes subdomain requests (name.localhost) to the
// matching service container.
type ProxyHandler struct {
	service ports.ContainerService
}

// NewProxyHandler creates a new proxy handler.
func NewProxyHandler(service ports.ContainerService) *ProxyHandler {
	return &ProxyHandler{service: service}
}

// ProxyRequest intercepts requests to subdomains and forwards them to
// the corresponding container's endpoint.
func (h *ProxyHandler) ProxyRequest(c *fiber.Ctx) error {
	host := c.Hostname()

	parts := strings.Split(host, ".")
	if len(parts) < 2 {
		return c.Next()
	}
	subdomain := parts[0]

	if subdomain == "www" || subdomain == "" {
		return c.Next()
	}

	containers, err := h.service.ListContainers(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to list containers")
	}

	var targetIP string
	var targetPort int
	for _, container := range containers {
		if container.Name == subdomain {
			// Only proxy to running containers with a published port;
			// port 0 means there is nothing to route to.
			if container.State != "running" || container.Port == 0 {
				continue
			}
			targetIP = container.IPAddress
			targetPort = container.Port
			break
		}
	}

	if targetIP == "" {
		return c.Status(fiber.StatusNotFound).SendString(fmt.Sprintf("Service '%s' not found or not running", subdomain))
	}

	targetURL := fmt.Sprintf("http://%s:%d", targetIP, targetPort)
	remote, err := url.Parse(targetURL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Invalid target URL")
	}

	proxy := httputil.NewSingleHostReverseProxy(remote)

	// Rewrite Host header to the target so the service inside sees a
	// host it recognizes.
	originalDirector := proxy.Director
	proxy.Director = func(req *http.Request) {
		originalDirector(req)
		req.Host = remote.Host
		req.URL.Host = remote.Host
		req.URL.Scheme = remote.Scheme
	}

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(fmt.Sprintf("Proxy Info: target=%s error=%v", targetURL, err)))
	}

	return adaptor.HTTPHandler(proxy)(c)
}
