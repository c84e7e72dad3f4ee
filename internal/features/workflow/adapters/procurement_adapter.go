package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"procurement-flow/internal/core/config"
	"procurement-flow/internal/core/httpclient"
	"procurement-flow/internal/core/logger"
	"procurement-flow/internal/features/workflow/domain"
	"procurement-flow/internal/features/workflow/ports"

	"go.uber.org/zap"
)

// ProcurementAdapter implements the OrderGateway interface against the
// upstream procurement REST API.
type ProcurementAdapter struct {
	// client is the HTTP client used for API requests.
	client *http.Client
	// config holds the procurement API connection details.
	config config.ProcurementConfig
	logger *zap.Logger
}

// NewProcurementAdapter creates a new instance of ProcurementAdapter.
func NewProcurementAdapter(cfg config.ProcurementConfig) *ProcurementAdapter {
	return &ProcurementAdapter{
		client: httpclient.NewClient(10 * time.Second),
		config: cfg,
		logger: logger.Named("procurement"),
	}
}

// apiOrder represents the JSON structure of an order from the procurement API.
type apiOrder struct {
	ID                string  `json:"id"`
	Status            string  `json:"status"`
	IsCompleted       bool    `json:"is_completed"`
	IsPartiallyDone   bool    `json:"is_partially_completed"`
	ExchangeRate      float64 `json:"exchange_rate"`
	PaymentAccountID  *int64  `json:"payment_account_id"`
	CourierName       string  `json:"courier_name"`
	TrackingNumber    string  `json:"tracking_number"`
	LotNumber         string  `json:"lot_number"`
	TransportType     string  `json:"transport_type"`
	TotalWeight       float64 `json:"total_weight"`
	ShippingCostPerKg float64 `json:"shipping_cost_per_kg"`
	BDCourierTracking string  `json:"bd_courier_tracking"`
}

// apiError represents the upstream error body.
type apiError struct {
	Message string `json:"message"`
}

// GetOrder fetches an order projection from the procurement API.
func (a *ProcurementAdapter) GetOrder(ctx context.Context, orderID string) (*domain.OrderSnapshot, error) {
	url := fmt.Sprintf("%s/procurement/orders/%s", a.config.URL, orderID)

	resp, err := a.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, a.upstreamError(resp)
	}

	var order apiOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}

	return a.mapToSnapshot(order)
}

// UpdateOrder PATCHes the transition payload onto the order and returns the
// updated projection.
func (a *ProcurementAdapter) UpdateOrder(ctx context.Context, orderID string, payload map[string]interface{}) (*domain.OrderSnapshot, error) {
	url := fmt.Sprintf("%s/procurement/orders/%s", a.config.URL, orderID)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	resp, err := a.do(ctx, http.MethodPatch, url, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, a.upstreamError(resp)
	}

	var order apiOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode update response: %w", err)
	}

	return a.mapToSnapshot(order)
}

// UpdateHistoryComment PATCHes the comment of one status history entry.
func (a *ProcurementAdapter) UpdateHistoryComment(ctx context.Context, orderID, historyID, comments string) error {
	url := fmt.Sprintf("%s/procurement/orders/%s/status-history/%s/comments", a.config.URL, orderID, historyID)

	body, err := json.Marshal(map[string]string{"comments": comments})
	if err != nil {
		return fmt.Errorf("failed to marshal comment body: %w", err)
	}

	resp, err := a.do(ctx, http.MethodPatch, url, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return a.upstreamError(resp)
	}

	return nil
}

// HealthCheck verifies that the procurement API is reachable and the token is valid.
func (a *ProcurementAdapter) HealthCheck(ctx context.Context) error {
	url := fmt.Sprintf("%s/procurement/orders?per_page=1", a.config.URL)

	resp, err := a.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("health check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status: %d", resp.StatusCode)
	}

	return nil
}

// do builds and executes an authenticated request.
func (a *ProcurementAdapter) do(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+a.config.Token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	return resp, nil
}

// upstreamError extracts the server's message from a non-2xx response so the
// dashboard can show it verbatim.
func (a *ProcurementAdapter) upstreamError(resp *http.Response) error {
	message := fmt.Sprintf("procurement API returned status %d", resp.StatusCode)

	var body apiError
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		message = body.Message
	}

	a.logger.Warn("Upstream rejection",
		zap.Int("status_code", resp.StatusCode),
		zap.String("message", message),
	)

	return &ports.UpstreamError{
		StatusCode: resp.StatusCode,
		Message:    message,
	}
}

// mapToSnapshot converts the raw API order into the domain projection. The
// status string is parsed here so unknown values fail at the boundary.
func (a *ProcurementAdapter) mapToSnapshot(order apiOrder) (*domain.OrderSnapshot, error) {
	status, err := domain.ParseStatus(order.Status)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", order.ID, err)
	}

	return &domain.OrderSnapshot{
		ID:                 order.ID,
		Status:             status,
		Completed:          order.IsCompleted,
		PartiallyCompleted: order.IsPartiallyDone,
		ExchangeRate:       order.ExchangeRate,
		PaymentAccountID:   order.PaymentAccountID,
		CourierName:        order.CourierName,
		TrackingNumber:     order.TrackingNumber,
		LotNumber:          order.LotNumber,
		TransportType:      order.TransportType,
		TotalWeight:        order.TotalWeight,
		ShippingCostPerKg:  order.ShippingCostPerKg,
		BDCourierTracking:  order.BDCourierTracking,
	}, nil
}
