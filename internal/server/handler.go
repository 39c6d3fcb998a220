package server

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/slipwaylabs/slipway/internal/core/domain"
	"github.com/slipwaylabs/slipway/internal/core/ports"
)

const (
	defaultLimit = 5
	maxLimit     = 50
)

type searchHandler struct {
	catalog ports.CatalogService
	log     *logrus.Logger
}

func newSearchHandler(catalog ports.CatalogService, log *logrus.Logger) *searchHandler {
	return &searchHandler{catalog: catalog, log: log}
}

// Search handles GET /search. Parameter errors are the caller's fault
// and rejected; provider errors are logged and degrade to an empty
// result set rather than failing the request.
func (h *searchHandler) Search(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "query parameter is required",
		})
	}

	kind, err := domain.ParseSearchType(c.Query("type"))
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	limit := defaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": "limit must be an integer",
			})
		}
		limit = n
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	// Callers often pass underscores where they mean spaces.
	query = strings.ReplaceAll(query, "_", " ")

	reqID := uuid.NewString()
	log := h.log.WithFields(logrus.Fields{
		"request_id": reqID,
		"type":       kind,
		"query":      query,
		"limit":      limit,
	})
	log.Info("searching catalog")

	result, err := h.catalog.Search(c.Context(), query, kind, limit)
	if err != nil {
		// Degrade to an empty result set; the provider being down is
		// not the caller's problem.
		log.WithError(err).Error("catalog search failed")
		return c.JSON(domain.SearchResult{Results: []domain.Item{}, Total: 0})
	}

	if result.Results == nil {
		result.Results = []domain.Item{}
	}
	log.WithField("total", result.Total).Info("search complete")
	return c.JSON(result)
}
