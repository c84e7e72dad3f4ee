package service

import (
	"context"
	"fmt"

	"procurement-flow/internal/features/flows/domain"
	"procurement-flow/internal/features/flows/ports"
)

// FlowServiceImpl implements ports.FlowService.
type FlowServiceImpl struct {
	repo ports.FlowRepository
	// fallback is served (and stored on first use) when nothing is in the
	// repository yet.
	fallback *domain.Flow
}

// NewFlowService creates a new FlowServiceImpl. A nil fallback means the
// built-in default flow.
func NewFlowService(repo ports.FlowRepository, fallback *domain.Flow) *FlowServiceImpl {
	if fallback == nil {
		fallback = domain.Default()
	}
	return &FlowServiceImpl{
		repo:     repo,
		fallback: fallback,
	}
}

// Bootstrap stores the fallback flow when the repository is empty, so every
// instance serves the same registry from the start.
func (s *FlowServiceImpl) Bootstrap(ctx context.Context) error {
	flow, err := s.repo.Get(ctx)
	if err != nil {
		return fmt.Errorf("service: failed to check stored flow: %w", err)
	}
	if flow != nil {
		return nil
	}

	if err := s.repo.Save(ctx, s.fallback); err != nil {
		return fmt.Errorf("service: failed to bootstrap flow: %w", err)
	}
	return nil
}

// GetFlow retrieves the active flow, preferring the stored one.
func (s *FlowServiceImpl) GetFlow(ctx context.Context) (*domain.Flow, error) {
	flow, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get flow: %w", err)
	}
	if flow == nil {
		return s.fallback, nil
	}
	return flow, nil
}

// ReplaceFlow validates and stores a new registry.
func (s *FlowServiceImpl) ReplaceFlow(ctx context.Context, steps []domain.Step) (*domain.Flow, error) {
	flow, err := domain.NewFlow(steps)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, flow); err != nil {
		return nil, fmt.Errorf("service: failed to save flow: %w", err)
	}

	return flow, nil
}
