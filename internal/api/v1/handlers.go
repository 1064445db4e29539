package apiv1

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/DanceLinkHQ/DanceLink/app/models"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/cache"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/metrics/counter"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/platformapi"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/recommend"
)

const (
	planCacheKey = "dancelink:plans"
	planCacheTTL = 5 * time.Minute
)

// Pong is the ping response body.
type Pong struct {
	Ping string `json:"ping"`
}

// RecommendationRequest is the JSON body for the recommendation preview.
type RecommendationRequest struct {
	Features []string `json:"features"`
	Cycle    string   `json:"cycle"`
}

// APIServer implements the v1 JSON surface.
type APIServer struct {
	api platformapi.API
}

// NewAPIServer creates a new API server instance
func NewAPIServer(api platformapi.API) *APIServer {
	return &APIServer{api: api}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// GetFeatures returns the selectable feature catalog grouped by category.
func (s *APIServer) GetFeatures(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"features": recommend.Catalog})
}

// GetPlans returns the plan catalog from the backend, cached briefly.
func (s *APIServer) GetPlans(c *fiber.Ctx) error {
	plans, err := s.loadPlans(c)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   "upstream_unavailable",
			"message": "plans are temporarily unavailable",
		})
	}
	return c.JSON(fiber.Map{"plans": plans})
}

// PostRecommendation previews the plan recommendation for a feature set
// without touching any stored flow state.
func (s *APIServer) PostRecommendation(c *fiber.Ctx) error {
	var req RecommendationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid JSON body",
		})
	}

	plans, err := s.loadPlans(c)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   "upstream_unavailable",
			"message": "plans are temporarily unavailable",
		})
	}

	res := recommend.Recommend(req.Features, plans)
	payload := fiber.Map{
		"cycle": recommend.NormalizeCycle(req.Cycle),
	}
	if res != nil {
		payload["required_tier"] = res.RequiredTier
		payload["recommended_slug"] = res.RecommendedSlug
		payload["matches"] = res.Matches
	}
	return c.JSON(payload)
}

// GetFunnelStats reports the wizard funnel counters.
func (s *APIServer) GetFunnelStats(c *fiber.Ctx) error {
	registration, booking, err := counter.Snapshot()
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":   "unavailable",
			"message": "counters are temporarily unavailable",
		})
	}
	return c.JSON(fiber.Map{
		"registration": registration,
		"booking":      booking,
	})
}

func (s *APIServer) loadPlans(c *fiber.Ctx) ([]models.Plan, error) {
	if raw, err := cache.Get(planCacheKey); err == nil && raw != "" {
		var plans []models.Plan
		if json.Unmarshal([]byte(raw), &plans) == nil {
			return plans, nil
		}
	}

	plans, err := s.api.ListPlans(c.Context())
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(plans); err == nil {
		_ = cache.Set(planCacheKey, string(raw), planCacheTTL)
	}
	return plans, nil
}

// RegisterHandlers attaches the v1 routes to the given router group.
func RegisterHandlers(r fiber.Router, s *APIServer) {
	r.Get("/ping", s.GetPing)
	r.Get("/features", s.GetFeatures)
	r.Get("/plans", s.GetPlans)
	r.Post("/recommendation", s.PostRecommendation)
	r.Get("/stats/funnel", s.GetFunnelStats)
}
