package ports

import (
	"context"
	"fmt"

	"procurement-flow/internal/features/workflow/domain"
)

// OrderGateway defines the secondary port for the upstream procurement API.
// It owns the order; this service only reads projections and sends minimal
// PATCH payloads.
type OrderGateway interface {
	// GetOrder retrieves a read-only projection of the order.
	GetOrder(ctx context.Context, orderID string) (*domain.OrderSnapshot, error)
	// UpdateOrder applies a transition payload and returns the updated projection.
	UpdateOrder(ctx context.Context, orderID string, payload map[string]interface{}) (*domain.OrderSnapshot, error)
	// UpdateHistoryComment updates the comment on a single status history entry.
	UpdateHistoryComment(ctx context.Context, orderID, historyID, comments string) error
	// HealthCheck verifies the API is reachable and credentials are valid.
	HealthCheck(ctx context.Context) error
}

// TransitionGuard defines the secondary port for deployment-specific
// transition constraints layered on top of the built-in rule table.
type TransitionGuard interface {
	// Check returns the messages of all violated guards for the edge.
	Check(ctx context.Context, from, to domain.Status, form domain.FormState) ([]string, error)
}

// UpstreamError carries the procurement API's status code and message so the
// caller can surface the server's rejection verbatim.
type UpstreamError struct {
	// StatusCode is the HTTP status returned by the upstream API.
	StatusCode int
	// Message is the server's message when present, else a generic fallback.
	Message string
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("procurement API error (status %d): %s", e.StatusCode, e.Message)
}
