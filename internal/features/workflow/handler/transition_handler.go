package handler

import (
	"errors"
	"net/http"

	"procurement-flow/internal/core/logger"
	"procurement-flow/internal/features/workflow/domain"
	"procurement-flow/internal/features/workflow/ports"
	"procurement-flow/internal/features/workflow/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TransitionHandler handles HTTP requests for the status workflow.
type TransitionHandler struct {
	service *service.TransitionService
}

// NewTransitionHandler creates a new TransitionHandler.
func NewTransitionHandler(s *service.TransitionService) *TransitionHandler {
	return &TransitionHandler{
		service: s,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// Code is a machine-readable error code, when one applies.
	Code string `json:"code,omitempty"`
	// Errors lists every violated constraint for validation failures.
	Errors []string `json:"errors,omitempty"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// SubmitTransitionRequest represents the request body for submitting a
// status transition.
type SubmitTransitionRequest struct {
	// FromStatus is optional; the order's current status is used when empty.
	FromStatus string `json:"from_status"`
	// ToStatus is the target status.
	ToStatus string `json:"to_status"`
	// HistoryID, when set together with non-blank comments, triggers the
	// history comment update after the order update.
	HistoryID string `json:"history_id"`
	// Form carries the user-entered fields for the transition.
	Form domain.FormState `json:"form"`
}

func rayID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return "unknown"
}

// GetEditSession godoc
// @Summary Start a status edit session for an order
// @Description Returns the order projection, a form seeded from it, the editable fields and the edit permission for its current status.
// @Tags workflow
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} service.EditSession
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id}/edit-session [get]
func (h *TransitionHandler) GetEditSession(c *fiber.Ctx) error {
	orderID := c.Params("id")
	if orderID == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Order ID is required",
			RayID:   rayID(c),
		})
	}

	session, err := h.service.GetEditSession(c.Context(), orderID)
	if err != nil {
		return h.errorResponse(c, orderID, err)
	}

	return c.Status(http.StatusOK).JSON(session)
}

// SubmitTransition godoc
// @Summary Validate and submit a status transition
// @Description Validates the form for the (from, to) edge, builds the minimal PATCH payload and applies it upstream.
// @Tags workflow
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param transition body SubmitTransitionRequest true "Transition details"
// @Success 200 {object} service.SubmitResult
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /orders/{id}/transitions [post]
func (h *TransitionHandler) SubmitTransition(c *fiber.Ctx) error {
	orderID := c.Params("id")
	if orderID == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Order ID is required",
			RayID:   rayID(c),
		})
	}

	var req SubmitTransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID(c),
		})
	}

	to, err := domain.ParseStatus(req.ToStatus)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Unknown target status: " + req.ToStatus,
			RayID:   rayID(c),
		})
	}

	var from domain.Status
	if req.FromStatus != "" {
		from, err = domain.ParseStatus(req.FromStatus)
		if err != nil {
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Message: "Unknown source status: " + req.FromStatus,
				RayID:   rayID(c),
			})
		}
	}

	result, err := h.service.Submit(c.Context(), orderID, service.SubmitRequest{
		From:      from,
		To:        to,
		HistoryID: req.HistoryID,
		Form:      req.Form,
	})
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			return c.Status(http.StatusUnprocessableEntity).JSON(ErrorResponse{
				Message: "Transition validation failed",
				Errors:  validationErr.Result.Errors,
				RayID:   rayID(c),
			})
		}
		if errors.Is(err, service.ErrReceivingRequired) {
			return c.Status(http.StatusConflict).JSON(ErrorResponse{
				Message: "Item-level receiving confirmation is required before this transition",
				Code:    "receiving_required",
				RayID:   rayID(c),
			})
		}
		return h.errorResponse(c, orderID, err)
	}

	return c.Status(http.StatusOK).JSON(result)
}

// errorResponse maps gateway errors onto HTTP responses, surfacing the
// upstream message verbatim when one exists.
func (h *TransitionHandler) errorResponse(c *fiber.Ctx, orderID string, err error) error {
	logger.Get().Error("Workflow request failed",
		zap.String("order_id", orderID),
		zap.String("ray_id", rayID(c)),
		zap.Error(err),
	)

	var upstreamErr *ports.UpstreamError
	if errors.As(err, &upstreamErr) {
		status := http.StatusBadGateway
		if upstreamErr.StatusCode == http.StatusNotFound {
			status = http.StatusNotFound
		}
		return c.Status(status).JSON(ErrorResponse{
			Message: upstreamErr.Message,
			RayID:   rayID(c),
		})
	}

	if errors.Is(err, domain.ErrUnknownStatus) {
		return c.Status(http.StatusBadGateway).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID(c),
		})
	}

	return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
		Message: "Internal Server Error",
		RayID:   rayID(c),
	})
}
