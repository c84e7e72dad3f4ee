package domain

import "strings"

// edge identifies a directed transition in the fulfillment chain.
type edge struct {
	From Status
	To   Status
}

// textField describes a free-text form field: its snake_case wire name, the
// label used in validation messages, and how to read it off the form.
type textField struct {
	wire  string
	label string
	get   func(FormState) string
}

// numberField is the numeric counterpart of textField. A value is only
// considered present when it is strictly positive.
type numberField struct {
	wire  string
	label string
	get   func(FormState) float64
}

var (
	courierNameField       = textField{"courier_name", "courier name", func(f FormState) string { return f.CourierName }}
	trackingNumberField    = textField{"tracking_number", "tracking number", func(f FormState) string { return f.TrackingNumber }}
	lotNumberField         = textField{"lot_number", "lot number", func(f FormState) string { return f.LotNumber }}
	transportTypeField     = textField{"transport_type", "transport type", func(f FormState) string { return f.TransportType }}
	bdCourierTrackingField = textField{"bd_courier_tracking", "BD courier tracking number", func(f FormState) string { return f.BDCourierTracking }}

	exchangeRateField      = numberField{"exchange_rate", "exchange rate", func(f FormState) float64 { return f.ExchangeRate }}
	totalWeightField       = numberField{"total_weight", "total weight", func(f FormState) float64 { return f.TotalWeight }}
	shippingCostPerKgField = numberField{"shipping_cost_per_kg", "shipping cost per kg", func(f FormState) float64 { return f.ShippingCostPerKg }}
)

// TransitionRule captures everything the engine knows about one edge: which
// fields must be present, which are merely carried into the payload when
// filled, and whether the edge needs the separate receiving flow.
type TransitionRule struct {
	RequiredText           []textField
	OptionalText           []textField
	RequiredPositive       []numberField
	RequiresPaymentAccount bool
	DerivesShippingCost    bool
	RequiresReceiving      bool
}

// transitionRules is the single source of truth for per-edge policy. Edges
// not listed here are permissive: only the status (and trimmed comments, if
// any) are sent.
var transitionRules = map[edge]TransitionRule{
	{StatusDraft, StatusPaymentConfirmed}: {
		RequiredPositive:       []numberField{exchangeRateField},
		RequiresPaymentAccount: true,
	},
	{StatusPaymentConfirmed, StatusSupplierDispatched}: {
		RequiredText: []textField{courierNameField, trackingNumberField},
	},
	{StatusWarehouseReceived, StatusShippedBD}: {
		RequiredText: []textField{lotNumberField},
	},
	{StatusShippedBD, StatusArrivedBD}: {
		RequiredText:        []textField{transportTypeField},
		RequiredPositive:    []numberField{totalWeightField, shippingCostPerKgField},
		DerivesShippingCost: true,
	},
	// The BD courier tracking number became optional for this edge; it is
	// carried into the payload when present but never blocks submission.
	{StatusArrivedBD, StatusInTransitBogura}: {
		OptionalText: []textField{bdCourierTrackingField},
	},
	{StatusInTransitBogura, StatusReceivedHub}: {
		RequiresReceiving: true,
	},
}

// ValidateTransition checks the form against the rule for the (from, to)
// edge. Every violation is collected so the dashboard can show the full list;
// edges without a rule are always valid.
func ValidateTransition(from, to Status, form FormState) ValidationResult {
	rule, ok := transitionRules[edge{from, to}]
	if !ok {
		return ValidationResult{IsValid: true}
	}

	var errs []string
	for _, f := range rule.RequiredText {
		if strings.TrimSpace(f.get(form)) == "" {
			errs = append(errs, f.label+" is required")
		}
	}
	for _, f := range rule.RequiredPositive {
		if f.get(form) <= 0 {
			errs = append(errs, f.label+" must be greater than zero")
		}
	}
	if rule.RequiresPaymentAccount && form.PaymentAccountID == nil {
		errs = append(errs, "payment account is required")
	}
	if rule.DerivesShippingCost && form.TotalWeight*form.ShippingCostPerKg <= 0 {
		errs = append(errs, "total shipping cost must be greater than zero")
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// BuildPayload projects the form into the minimal PATCH body for the
// (from, to) edge: snake_case wire names, only fields relevant to this edge,
// empty and zero values omitted so the server never receives stale data.
func BuildPayload(from, to Status, form FormState) map[string]interface{} {
	payload := map[string]interface{}{
		"status": string(to),
	}

	if rule, ok := transitionRules[edge{from, to}]; ok {
		for _, f := range rule.RequiredText {
			if v := strings.TrimSpace(f.get(form)); v != "" {
				payload[f.wire] = v
			}
		}
		for _, f := range rule.OptionalText {
			if v := strings.TrimSpace(f.get(form)); v != "" {
				payload[f.wire] = v
			}
		}
		for _, f := range rule.RequiredPositive {
			if v := f.get(form); v > 0 {
				payload[f.wire] = v
			}
		}
		if rule.RequiresPaymentAccount && form.PaymentAccountID != nil {
			payload["payment_account_id"] = *form.PaymentAccountID
		}
		if rule.DerivesShippingCost {
			if cost := form.TotalWeight * form.ShippingCostPerKg; cost > 0 {
				payload["total_shipping_cost"] = cost
			}
		}
	}

	if comments := form.TrimmedComments(); comments != "" {
		payload["comments"] = comments
	}

	return payload
}

// RequiresReceivingConfirmation reports whether the edge needs the item-level
// receiving flow before its payload is sufficient. True only for
// in_transit_bogura -> received_hub.
func RequiresReceivingConfirmation(from, to Status) bool {
	rule, ok := transitionRules[edge{from, to}]
	return ok && rule.RequiresReceiving
}
