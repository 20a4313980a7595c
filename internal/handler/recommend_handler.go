package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/ivanmoure/reelmind/internal/port"
	"github.com/ivanmoure/reelmind/internal/service"
)

// RecommendHandler handles the recommendation endpoint.
type RecommendHandler struct {
	recommendService *service.RecommendService
}

// NewRecommendHandler creates a new recommendation handler.
func NewRecommendHandler(recommendService *service.RecommendService) *RecommendHandler {
	return &RecommendHandler{recommendService: recommendService}
}

// Register sets up recommendation routes.
func (h *RecommendHandler) Register(router fiber.Router) {
	router.Post("/recommend", h.Recommend)
}

// Recommend returns the top movies for a free-text query.
// Bad input maps to 400; any pipeline failure maps to an opaque 500 with the
// detail kept in the server log.
func (h *RecommendHandler) Recommend(c fiber.Ctx) error {
	var body struct {
		Text string `json:"text"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	recommendations, err := h.recommendService.Recommend(c.Context(), body.Text)
	if err != nil {
		if errors.Is(err, port.ErrEmptyQuery) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no input provided"})
		}
		slog.Error("recommendation failed", "query", body.Text, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(fiber.Map{
		"recommendations": recommendations,
	})
}
