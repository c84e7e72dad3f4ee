package handler

import (
	"errors"
	"net/http"

	"procurement-flow/internal/core/logger"
	"procurement-flow/internal/features/flows/domain"
	"procurement-flow/internal/features/flows/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// FlowHandler handles HTTP requests for the status flow registry.
type FlowHandler struct {
	service ports.FlowService
}

// NewFlowHandler creates a new FlowHandler.
func NewFlowHandler(s ports.FlowService) *FlowHandler {
	return &FlowHandler{
		service: s,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	Message string `json:"message"`
	RayID   string `json:"ray_id,omitempty"`
}

// ReplaceFlowRequest represents the request body for replacing the registry.
type ReplaceFlowRequest struct {
	Steps []domain.Step `json:"steps"`
}

func rayID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return "unknown"
}

// GetFlow godoc
// @Summary Get the procurement status flow
// @Description Returns the ordered fulfillment chain with display labels, icons and colors.
// @Tags flows
// @Produce json
// @Success 200 {object} domain.Flow
// @Router /flows/procurement [get]
func (h *FlowHandler) GetFlow(c *fiber.Ctx) error {
	flow, err := h.service.GetFlow(c.Context())
	if err != nil {
		logger.Get().Error("Failed to get status flow",
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal Server Error",
			RayID:   rayID(c),
		})
	}

	return c.Status(http.StatusOK).JSON(flow)
}

// ReplaceFlow godoc
// @Summary Replace the procurement status flow
// @Description Validates and stores a new fulfillment chain for all instances.
// @Tags flows
// @Accept json
// @Produce json
// @Param flow body ReplaceFlowRequest true "New flow steps"
// @Success 200 {object} domain.Flow
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /flows/procurement [put]
func (h *FlowHandler) ReplaceFlow(c *fiber.Ctx) error {
	var req ReplaceFlowRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID(c),
		})
	}

	flow, err := h.service.ReplaceFlow(c.Context(), req.Steps)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyFlow) ||
			errors.Is(err, domain.ErrBlankStepValue) ||
			errors.Is(err, domain.ErrDuplicateStepValue) {
			return c.Status(http.StatusUnprocessableEntity).JSON(ErrorResponse{
				Message: err.Error(),
				RayID:   rayID(c),
			})
		}

		logger.Get().Error("Failed to replace status flow",
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal Server Error",
			RayID:   rayID(c),
		})
	}

	return c.Status(http.StatusOK).JSON(flow)
}
