package ports

import (
	"context"

	"procurement-flow/internal/features/flows/domain"
)

// FlowService defines the primary port for status flow registry operations.
type FlowService interface {
	// GetFlow returns the active flow, falling back to the built-in default.
	GetFlow(ctx context.Context) (*domain.Flow, error)
	// ReplaceFlow validates and stores a new flow.
	ReplaceFlow(ctx context.Context, steps []domain.Step) (*domain.Flow, error)
}

// FlowRepository defines the secondary port for flow storage.
type FlowRepository interface {
	// Save stores the flow.
	Save(ctx context.Context, flow *domain.Flow) error
	// Get retrieves the stored flow, or (nil, nil) when none is stored.
	Get(ctx context.Context) (*domain.Flow, error)
}
