package domain

import "errors"

var (
	// ErrEmptyFlow is returned when a flow has no steps.
	ErrEmptyFlow = errors.New("status flow must have at least one step")
	// ErrBlankStepValue is returned when a step has no status value.
	ErrBlankStepValue = errors.New("status flow step has a blank value")
	// ErrDuplicateStepValue is returned when two steps share a status value.
	ErrDuplicateStepValue = errors.New("status flow has duplicate step values")
)

// DefaultColor is the fallback color for statuses missing from the flow.
const DefaultColor = "gray"

// Step is one display entry of the status flow registry.
type Step struct {
	// Value is the status code the dashboards match against.
	Value string `json:"value" yaml:"value"`
	// Label is the human-readable status name.
	Label string `json:"label" yaml:"label"`
	// Icon is the dashboard icon identifier.
	Icon string `json:"icon,omitempty" yaml:"icon,omitempty"`
	// Color is the badge color for the status.
	Color string `json:"color" yaml:"color"`
}

// Flow is the ordered status flow registry. The workflow engine treats it as
// an opaque read-only display table; it never drives validation.
type Flow struct {
	Steps []Step `json:"steps" yaml:"steps"`
}

// NewFlow validates and creates a Flow.
func NewFlow(steps []Step) (*Flow, error) {
	if len(steps) == 0 {
		return nil, ErrEmptyFlow
	}

	seen := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		if step.Value == "" {
			return nil, ErrBlankStepValue
		}
		if _, ok := seen[step.Value]; ok {
			return nil, ErrDuplicateStepValue
		}
		seen[step.Value] = struct{}{}
	}

	return &Flow{Steps: steps}, nil
}

// LabelFor returns the display label for a status, falling back to the raw
// status string when the flow does not know it.
func (f *Flow) LabelFor(status string) string {
	for _, step := range f.Steps {
		if step.Value == status {
			return step.Label
		}
	}
	return status
}

// ColorFor returns the badge color for a status, falling back to gray.
func (f *Flow) ColorFor(status string) string {
	for _, step := range f.Steps {
		if step.Value == status {
			return step.Color
		}
	}
	return DefaultColor
}

// Default returns the built-in procurement fulfillment flow, used until a
// deployment replaces it.
func Default() *Flow {
	return &Flow{Steps: []Step{
		{Value: "draft", Label: "Draft", Icon: "file", Color: "gray"},
		{Value: "payment_confirmed", Label: "Payment Confirmed", Icon: "credit-card", Color: "blue"},
		{Value: "supplier_dispatched", Label: "Supplier Dispatched", Icon: "truck", Color: "indigo"},
		{Value: "warehouse_received", Label: "Warehouse Received", Icon: "building-warehouse", Color: "cyan"},
		{Value: "shipped_bd", Label: "Shipped to BD", Icon: "ship", Color: "teal"},
		{Value: "arrived_bd", Label: "Arrived in BD", Icon: "plane-arrival", Color: "lime"},
		{Value: "in_transit_bogura", Label: "In Transit to Bogura", Icon: "route", Color: "yellow"},
		{Value: "received_hub", Label: "Received at Hub", Icon: "circle-check", Color: "green"},
	}}
}
