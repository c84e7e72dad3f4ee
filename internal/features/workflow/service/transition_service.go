package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"procurement-flow/internal/core/cache"
	"procurement-flow/internal/core/logger"
	"procurement-flow/internal/features/workflow/domain"
	"procurement-flow/internal/features/workflow/ports"

	"go.uber.org/zap"
)

// ErrReceivingRequired is returned when the transition needs the item-level
// receiving flow before the engine's payload is sufficient.
var ErrReceivingRequired = errors.New("receiving confirmation required before this transition")

// ValidationError carries the full list of violated constraints so the
// dashboard can show all of them at once.
type ValidationError struct {
	Result domain.ValidationResult
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "transition validation failed: " + strings.Join(e.Result.Errors, "; ")
}

const snapshotKeyPrefix = "order_snapshot:"

// TransitionService orchestrates edit sessions and transition submissions.
type TransitionService struct {
	// gateway talks to the upstream procurement API.
	gateway ports.OrderGateway
	// guard holds deployment-specific transition constraints; nil when no
	// guard pack is configured.
	guard ports.TransitionGuard
	// snapshots caches order projections between dashboard refreshes; nil
	// disables caching.
	snapshots   cache.Cache
	snapshotTTL time.Duration
	logger      *zap.Logger
}

// NewTransitionService creates a new TransitionService.
func NewTransitionService(gateway ports.OrderGateway, guard ports.TransitionGuard, snapshots cache.Cache, snapshotTTL time.Duration) *TransitionService {
	return &TransitionService{
		gateway:     gateway,
		guard:       guard,
		snapshots:   snapshots,
		snapshotTTL: snapshotTTL,
		logger:      logger.Named("workflow"),
	}
}

// EditSession is everything a dashboard needs to open the status edit UI:
// the order projection, a form seeded from it, and the edit permissions for
// the order's current status.
type EditSession struct {
	Order          domain.OrderSnapshot `json:"order"`
	Form           domain.FormState     `json:"form"`
	EditableFields []string             `json:"editable_fields"`
	CanEdit        bool                 `json:"can_edit"`
}

// GetEditSession fetches the order (through the snapshot cache) and derives
// the session state for its current status.
func (s *TransitionService) GetEditSession(ctx context.Context, orderID string) (*EditSession, error) {
	order, err := s.getSnapshot(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return &EditSession{
		Order:          *order,
		Form:           domain.NewFormState(*order),
		EditableFields: domain.EditableFields(order.Status),
		CanEdit:        domain.CanEditStatus(order.Status, order.Completed, order.PartiallyCompleted),
	}, nil
}

// SubmitRequest is one attempted transition. From may be empty, in which
// case the order's current status is used.
type SubmitRequest struct {
	From      domain.Status
	To        domain.Status
	HistoryID string
	Form      domain.FormState
}

// SubmitResult reports a successful (possibly partially applied) submission.
type SubmitResult struct {
	// Order is the updated projection returned by the upstream API.
	Order domain.OrderSnapshot `json:"order"`
	// Payload is the exact PATCH body that was sent.
	Payload map[string]interface{} `json:"payload"`
	// CommentSaved is set only when a history comment update was attempted;
	// false means the order update applied but the comment did not.
	CommentSaved *bool `json:"comment_saved,omitempty"`
}

// Submit validates the transition, projects the payload and applies it
// upstream. When a history entry id and non-blank comments are supplied, the
// comment is updated afterwards as an independent call; its failure does not
// roll back the order update (the upstream API offers no transactional
// contract), it is reported through CommentSaved instead.
func (s *TransitionService) Submit(ctx context.Context, orderID string, req SubmitRequest) (*SubmitResult, error) {
	from := req.From
	if from == "" {
		order, err := s.getSnapshot(ctx, orderID)
		if err != nil {
			return nil, err
		}
		from = order.Status
	}

	if domain.RequiresReceivingConfirmation(from, req.To) {
		return nil, ErrReceivingRequired
	}

	result := domain.ValidateTransition(from, req.To, req.Form)
	if s.guard != nil {
		violations, err := s.guard.Check(ctx, from, req.To, req.Form)
		if err != nil {
			return nil, fmt.Errorf("guard evaluation failed: %w", err)
		}
		if len(violations) > 0 {
			result.IsValid = false
			result.Errors = append(result.Errors, violations...)
		}
	}
	if !result.IsValid {
		return nil, &ValidationError{Result: result}
	}

	payload := domain.BuildPayload(from, req.To, req.Form)

	updated, err := s.gateway.UpdateOrder(ctx, orderID, payload)
	if err != nil {
		return nil, err
	}
	s.invalidateSnapshot(ctx, orderID)

	res := &SubmitResult{
		Order:   *updated,
		Payload: payload,
	}

	if comments := req.Form.TrimmedComments(); req.HistoryID != "" && comments != "" {
		saved := true
		if err := s.gateway.UpdateHistoryComment(ctx, orderID, req.HistoryID, comments); err != nil {
			s.logger.Warn("History comment update failed after order update",
				zap.String("order_id", orderID),
				zap.String("history_id", req.HistoryID),
				zap.Error(err),
			)
			saved = false
		}
		res.CommentSaved = &saved
	}

	return res, nil
}

// getSnapshot returns the cached order projection or fetches a fresh one.
// Cache failures only degrade to a direct fetch.
func (s *TransitionService) getSnapshot(ctx context.Context, orderID string) (*domain.OrderSnapshot, error) {
	key := snapshotKeyPrefix + orderID

	if s.snapshots != nil {
		if data, err := s.snapshots.Get(ctx, key); err == nil {
			var order domain.OrderSnapshot
			if err := json.Unmarshal(data, &order); err == nil {
				return &order, nil
			}
			s.logger.Warn("Discarding corrupt cached snapshot", zap.String("order_id", orderID))
		}
	}

	order, err := s.gateway.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if s.snapshots != nil {
		if data, err := json.Marshal(order); err == nil {
			if err := s.snapshots.Set(ctx, key, data, s.snapshotTTL); err != nil {
				s.logger.Warn("Failed to cache order snapshot", zap.String("order_id", orderID), zap.Error(err))
			}
		}
	}

	return order, nil
}

// invalidateSnapshot drops the cached projection after a successful update.
func (s *TransitionService) invalidateSnapshot(ctx context.Context, orderID string) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Delete(ctx, snapshotKeyPrefix+orderID); err != nil {
		s.logger.Warn("Failed to invalidate order snapshot", zap.String("order_id", orderID), zap.Error(err))
	}
}
