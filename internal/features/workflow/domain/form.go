package domain

import "strings"

// OrderSnapshot is a read-only projection of the upstream order, limited to
// what the workflow engine needs: the current status, completion flags and
// the transition-relevant fields already captured on the order.
type OrderSnapshot struct {
	// ID is the upstream order identifier.
	ID string `json:"order_id"`
	// Status is the order's current position in the fulfillment chain.
	Status Status `json:"status"`
	// Completed marks fully finished orders; their history is frozen.
	Completed bool `json:"is_completed"`
	// PartiallyCompleted marks orders with partial receiving done.
	PartiallyCompleted bool `json:"is_partially_completed"`

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

// FormState is the caller-owned, per-edit-session union of all fields across
// all transitions. The dashboard serialises it in camelCase; the engine
// projects it into snake_case wire names on submit.
type FormState struct {
	Comments          string  `json:"comments"`
	ExchangeRate      float64 `json:"exchangeRate"`
	PaymentAccountID  *int64  `json:"paymentAccountId"`
	CourierName       string  `json:"courierName"`
	TrackingNumber    string  `json:"trackingNumber"`
	LotNumber         string  `json:"lotNumber"`
	TransportType     string  `json:"transportType"`
	TotalWeight       float64 `json:"totalWeight"`
	ShippingCostPerKg float64 `json:"shippingCostPerKg"`
	BDCourierTracking string  `json:"bdCourierTracking"`
}

// NewFormState seeds a fresh FormState from the order's current values, so an
// edit session starts from what the server already knows.
func NewFormState(order OrderSnapshot) FormState {
	return FormState{
		ExchangeRate:      order.ExchangeRate,
		PaymentAccountID:  order.PaymentAccountID,
		CourierName:       order.CourierName,
		TrackingNumber:    order.TrackingNumber,
		LotNumber:         order.LotNumber,
		TransportType:     order.TransportType,
		TotalWeight:       order.TotalWeight,
		ShippingCostPerKg: order.ShippingCostPerKg,
		BDCourierTracking: order.BDCourierTracking,
	}
}

// TrimmedComments returns the comment with surrounding whitespace removed.
func (f FormState) TrimmedComments() string {
	return strings.TrimSpace(f.Comments)
}

// ValidationResult reports the outcome of validating a transition. Errors
// accumulate so the caller can show every violation at once.
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors,omitempty"`
}
