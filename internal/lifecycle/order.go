// Package lifecycle holds the order, production and stock derivation rules.
// Every function is pure; services own persistence and call into here.
package lifecycle

import (
	"github.com/alanhoffer/hf-dashboard/pkg/enums"
	pkgerrors "github.com/alanhoffer/hf-dashboard/pkg/errors"
)

var orderSuccessors = map[enums.OrderStatus]enums.OrderStatus{
	enums.OrderStatusInProduction: enums.OrderStatusReady,
	enums.OrderStatusReady:        enums.OrderStatusDelivered,
	enums.OrderStatusPartial:      enums.OrderStatusReady,
	enums.OrderStatusInsufficient: enums.OrderStatusInProduction,
}

// NextOrderStatus returns the status an operator may advance an order to.
func NextOrderStatus(current enums.OrderStatus) (enums.OrderStatus, bool) {
	next, ok := orderSuccessors[current]
	return next, ok
}

// CanAdvance reports whether current has a successor.
func CanAdvance(current enums.OrderStatus) bool {
	_, ok := orderSuccessors[current]
	return ok
}

// ValidateTransition allows only the single successor of current.
// Callers treat target == current as a no-op before calling.
func ValidateTransition(current, target enums.OrderStatus) error {
	if !target.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "invalid order status %q", target)
	}
	next, ok := NextOrderStatus(current)
	if !ok {
		return pkgerrors.Newf(pkgerrors.CodeStateConflict, "order in status %s cannot be advanced", current).
			WithDetails(map[string]any{"current": current, "requested": target})
	}
	if next != target {
		return pkgerrors.Newf(pkgerrors.CodeStateConflict, "order in status %s can only move to %s", current, next).
			WithDetails(map[string]any{"current": current, "requested": target, "allowed": next})
	}
	return nil
}

// OrderStatusForProduction is the status a linked order takes once a
// production is recorded against it.
func OrderStatusForProduction(orderCells, cellsProduced int) enums.OrderStatus {
	switch {
	case cellsProduced >= orderCells:
		return enums.OrderStatusInProduction
	case cellsProduced > 0:
		return enums.OrderStatusPartial
	default:
		return enums.OrderStatusInsufficient
	}
}

// CanLinkProduction reports whether a new production may be recorded
// against an order in the given status.
func CanLinkProduction(status enums.OrderStatus) bool {
	return status == enums.OrderStatusPending || status == enums.OrderStatusInsufficient
}
