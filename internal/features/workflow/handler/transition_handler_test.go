package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"procurement-flow/internal/features/workflow/domain"
	"procurement-flow/internal/features/workflow/ports"
	"procurement-flow/internal/features/workflow/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockGateway is a mock implementation of OrderGateway for testing.
type mockGateway struct {
	order      *domain.OrderSnapshot
	getErr     error
	updateErr  error
	commentErr error
}

func (m *mockGateway) GetOrder(ctx context.Context, orderID string) (*domain.OrderSnapshot, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	order := *m.order
	return &order, nil
}

func (m *mockGateway) UpdateOrder(ctx context.Context, orderID string, payload map[string]interface{}) (*domain.OrderSnapshot, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	updated := *m.order
	if status, ok := payload["status"].(string); ok {
		updated.Status = domain.Status(status)
	}
	return &updated, nil
}

func (m *mockGateway) UpdateHistoryComment(ctx context.Context, orderID, historyID, comments string) error {
	return m.commentErr
}

func (m *mockGateway) HealthCheck(ctx context.Context) error {
	return nil
}

func newTestApp(gw ports.OrderGateway) *fiber.App {
	svc := service.NewTransitionService(gw, nil, nil, 0)
	h := NewTransitionHandler(svc)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	app.Get("/orders/:id/edit-session", h.GetEditSession)
	app.Post("/orders/:id/transitions", h.SubmitTransition)
	return app
}

func postTransition(t *testing.T, app *fiber.App, orderID string, body interface{}) *http.Response {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/orders/"+orderID+"/transitions", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

// TestTransitionHandler_GetEditSession_Success verifies the session payload.
func TestTransitionHandler_GetEditSession_Success(t *testing.T) {
	app := newTestApp(&mockGateway{order: &domain.OrderSnapshot{
		ID:     "PO-1001",
		Status: domain.StatusSupplierDispatched,
	}})

	req := httptest.NewRequest(http.MethodGet, "/orders/PO-1001/edit-session", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var session service.EditSession
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&session))
	assert.Equal(t, domain.StatusSupplierDispatched, session.Order.Status)
	assert.Equal(t, []string{"courierName", "trackingNumber", "comments"}, session.EditableFields)
	assert.True(t, session.CanEdit)
}

// TestTransitionHandler_GetEditSession_UpstreamNotFound verifies the upstream
// message is surfaced verbatim with a 404.
func TestTransitionHandler_GetEditSession_UpstreamNotFound(t *testing.T) {
	app := newTestApp(&mockGateway{getErr: &ports.UpstreamError{
		StatusCode: http.StatusNotFound,
		Message:    "Order not found",
	}})

	req := httptest.NewRequest(http.MethodGet, "/orders/PO-404/edit-session", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "Order not found", errResp.Message)
	assert.Equal(t, "test-ray-id", errResp.RayID)
}

// TestTransitionHandler_SubmitTransition_Success verifies a valid submission
// returns the payload and updated order.
func TestTransitionHandler_SubmitTransition_Success(t *testing.T) {
	app := newTestApp(&mockGateway{order: &domain.OrderSnapshot{
		ID:     "PO-1001",
		Status: domain.StatusWarehouseReceived,
	}})

	resp := postTransition(t, app, "PO-1001", fiber.Map{
		"from_status": "warehouse_received",
		"to_status":   "shipped_bd",
		"form":        fiber.Map{"lotNumber": "LOT-42", "comments": "  two cartons  "},
	})

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result service.SubmitResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, domain.StatusShippedBD, result.Order.Status)
	assert.Equal(t, "LOT-42", result.Payload["lot_number"])
	assert.Equal(t, "two cartons", result.Payload["comments"])
}

// TestTransitionHandler_SubmitTransition_ValidationErrors verifies a 422 with
// the complete violation list.
func TestTransitionHandler_SubmitTransition_ValidationErrors(t *testing.T) {
	app := newTestApp(&mockGateway{order: &domain.OrderSnapshot{
		ID:     "PO-1001",
		Status: domain.StatusDraft,
	}})

	resp := postTransition(t, app, "PO-1001", fiber.Map{
		"from_status": "draft",
		"to_status":   "payment_confirmed",
		"form":        fiber.Map{},
	})

	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	require.Len(t, errResp.Errors, 2)
	assert.Contains(t, errResp.Errors[0], "exchange rate")
	assert.Contains(t, errResp.Errors[1], "payment account")
}

// TestTransitionHandler_SubmitTransition_UnknownStatus verifies unknown
// status strings are rejected at the boundary with a 400.
func TestTransitionHandler_SubmitTransition_UnknownStatus(t *testing.T) {
	app := newTestApp(&mockGateway{order: &domain.OrderSnapshot{
		ID:     "PO-1001",
		Status: domain.StatusDraft,
	}})

	resp := postTransition(t, app, "PO-1001", fiber.Map{
		"to_status": "teleported",
	})

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Contains(t, errResp.Message, "Unknown target status")
}

// TestTransitionHandler_SubmitTransition_ReceivingGate verifies the 409 with
// the receiving_required code.
func TestTransitionHandler_SubmitTransition_ReceivingGate(t *testing.T) {
	app := newTestApp(&mockGateway{order: &domain.OrderSnapshot{
		ID:     "PO-1001",
		Status: domain.StatusInTransitBogura,
	}})

	resp := postTransition(t, app, "PO-1001", fiber.Map{
		"from_status": "in_transit_bogura",
		"to_status":   "received_hub",
	})

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "receiving_required", errResp.Code)
}

// TestTransitionHandler_SubmitTransition_UpstreamRejection verifies the
// upstream message passes through on a failed PATCH.
func TestTransitionHandler_SubmitTransition_UpstreamRejection(t *testing.T) {
	app := newTestApp(&mockGateway{
		order: &domain.OrderSnapshot{ID: "PO-1001", Status: domain.StatusDraft},
		updateErr: &ports.UpstreamError{
			StatusCode: http.StatusUnprocessableEntity,
			Message:    "Order was modified by another user",
		},
	})

	resp := postTransition(t, app, "PO-1001", fiber.Map{
		"from_status": "draft",
		"to_status":   "payment_confirmed",
		"form":        fiber.Map{"exchangeRate": 110, "paymentAccountId": 4},
	})

	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "Order was modified by another user", errResp.Message)
}
