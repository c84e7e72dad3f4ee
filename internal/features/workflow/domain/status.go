package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Status represents a purchase order's position in the fulfillment chain.
type Status string

const (
	// StatusDraft indicates the order has been created but payment is pending.
	StatusDraft Status = "draft"
	// StatusPaymentConfirmed indicates the supplier payment has been confirmed.
	StatusPaymentConfirmed Status = "payment_confirmed"
	// StatusSupplierDispatched indicates the supplier handed the goods to a courier.
	StatusSupplierDispatched Status = "supplier_dispatched"
	// StatusWarehouseReceived indicates the goods arrived at the sourcing warehouse.
	StatusWarehouseReceived Status = "warehouse_received"
	// StatusShippedBD indicates the lot has been shipped to Bangladesh.
	StatusShippedBD Status = "shipped_bd"
	// StatusArrivedBD indicates the lot cleared into Bangladesh.
	StatusArrivedBD Status = "arrived_bd"
	// StatusInTransitBogura indicates the goods are on domestic transport to the hub.
	StatusInTransitBogura Status = "in_transit_bogura"
	// StatusReceivedHub indicates the goods were received at the Bogura hub.
	StatusReceivedHub Status = "received_hub"
)

// ErrUnknownStatus is returned when a status string is not part of the chain.
var ErrUnknownStatus = errors.New("unknown order status")

var knownStatuses = map[Status]struct{}{
	StatusDraft:              {},
	StatusPaymentConfirmed:   {},
	StatusSupplierDispatched: {},
	StatusWarehouseReceived:  {},
	StatusShippedBD:          {},
	StatusArrivedBD:          {},
	StatusInTransitBogura:    {},
	StatusReceivedHub:        {},
}

// Chain is the fulfillment chain in order. The engine itself keys rules by
// (from, to) edge and never indexes into this; it exists for display and
// tooling.
var Chain = []Status{
	StatusDraft,
	StatusPaymentConfirmed,
	StatusSupplierDispatched,
	StatusWarehouseReceived,
	StatusShippedBD,
	StatusArrivedBD,
	StatusInTransitBogura,
	StatusReceivedHub,
}

// ParseStatus normalises and validates an incoming status string.
// Unknown strings are rejected here, at the boundary, so the rest of the
// engine can stay total over known values.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := knownStatuses[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return s, nil
}

// Known reports whether the status is part of the fulfillment chain.
func (s Status) Known() bool {
	_, ok := knownStatuses[s]
	return ok
}

// editableStatuses are the statuses whose history entries back-office users
// may amend, provided the order is not finished.
var editableStatuses = map[Status]struct{}{
	StatusPaymentConfirmed:   {},
	StatusSupplierDispatched: {},
	StatusWarehouseReceived:  {},
	StatusShippedBD:          {},
	StatusArrivedBD:          {},
	StatusInTransitBogura:    {},
}

// CanEditStatus reports whether the history entry for the given status may be
// edited. Completed and partially completed orders are frozen regardless of
// status.
func CanEditStatus(status Status, completed, partiallyCompleted bool) bool {
	if completed || partiallyCompleted {
		return false
	}
	_, ok := editableStatuses[status]
	return ok
}

// editableFieldsByStatus maps a status to the form fields captured when the
// order entered it. Field names use the dashboard's camelCase convention.
var editableFieldsByStatus = map[Status][]string{
	StatusPaymentConfirmed:   {"exchangeRate", "comments"},
	StatusSupplierDispatched: {"courierName", "trackingNumber", "comments"},
	StatusWarehouseReceived:  {"comments"},
	StatusShippedBD:          {"lotNumber", "comments"},
	StatusArrivedBD:          {"transportType", "totalWeight", "shippingCostPerKg", "comments"},
	StatusInTransitBogura:    {"bdCourierTracking", "comments"},
}

// EditableFields returns the form fields relevant when editing the history
// entry for the given status. Statuses without a dedicated entry only allow
// the comment to change.
func EditableFields(status Status) []string {
	if fields, ok := editableFieldsByStatus[status]; ok {
		out := make([]string, len(fields))
		copy(out, fields)
		return out
	}
	return []string{"comments"}
}
