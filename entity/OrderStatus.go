package entity

type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusReady          OrderStatus = "ready"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"

	StatusRefunded         OrderStatus = "refunded"
	StatusDisputeResolved  OrderStatus = "dispute_resolved"
	StatusDisputeEscalated OrderStatus = "dispute_escalated"
	StatusDisputeClosed    OrderStatus = "dispute_closed"
)

func (s OrderStatus) String() string { return string(s) }

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusOutForDelivery, StatusDelivered, StatusCancelled,
		StatusRefunded, StatusDisputeResolved, StatusDisputeEscalated, StatusDisputeClosed:
		return true
	}
	return false
}

func (s OrderStatus) IsDisputeOutcome() bool {
	return s == StatusDisputeResolved || s == StatusDisputeEscalated || s == StatusDisputeClosed
}

// allowedTransitions is the explicit state machine for status updates.
// Forward stages may be skipped, any non-terminal state may cancel,
// refunds only follow delivery.
var allowedTransitions = map[OrderStatus]map[OrderStatus]bool{
	StatusPending: {
		StatusConfirmed: true, StatusPreparing: true, StatusReady: true,
		StatusOutForDelivery: true, StatusDelivered: true, StatusCancelled: true,
	},
	StatusConfirmed: {
		StatusPreparing: true, StatusReady: true,
		StatusOutForDelivery: true, StatusDelivered: true, StatusCancelled: true,
	},
	StatusPreparing: {
		StatusReady: true, StatusOutForDelivery: true,
		StatusDelivered: true, StatusCancelled: true,
	},
	StatusReady: {
		StatusOutForDelivery: true, StatusDelivered: true, StatusCancelled: true,
	},
	StatusOutForDelivery: {
		StatusDelivered: true, StatusCancelled: true,
	},
	StatusDelivered: {
		StatusRefunded: true,
	},
	StatusCancelled:        {},
	StatusRefunded:         {},
	StatusDisputeResolved:  {},
	StatusDisputeEscalated: {},
	StatusDisputeClosed:    {},
}

// CanTransition reports whether moving from s to next is legal.
// Dispute outcomes are reachable from any state.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if !next.Valid() {
		return false
	}
	if next.IsDisputeOutcome() {
		return true
	}
	return allowedTransitions[s][next]
}

// Cancellable reports whether an order in status s may still be cancelled.
func (s OrderStatus) Cancellable() bool {
	return s != StatusDelivered && s != StatusCancelled
}
