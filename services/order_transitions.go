package services

import (
	"strings"
	"time"

	"backend/entity"
	"backend/pkg/apperr"

	"gorm.io/gorm"
)

const minReasonLen = 10

// ----- Status lifecycle -----

// UpdateStatus moves an order to newStatus. The move is checked against the
// transition table, then applied compare-and-swap on the predecessor
// status, so two racing writers cannot both win.
func (s *OrderService) UpdateStatus(orderID uint, newStatus entity.OrderStatus) error {
	if !newStatus.Valid() {
		return apperr.Validation("unknown status %q", newStatus)
	}

	o, err := s.GetOrder(orderID)
	if err != nil {
		return err
	}
	if o.Status == newStatus {
		return nil
	}
	if !o.Status.CanTransition(newStatus) {
		return apperr.State("cannot move order from %s to %s", o.Status, newStatus)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.Repo.UpdateStatusGuard(tx, o.ID, o.Status, newStatus, nil)
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperr.State("order status changed concurrently, retry")
		}
		return nil
	})
	if err != nil {
		if apperr.KindOf(err) != apperr.KindUnknown {
			return err
		}
		return apperr.Persistence("update status", err)
	}

	s.Log.Info().
		Uint("order_id", o.ID).
		Str("order_number", o.OrderNumber).
		Str("from", o.Status.String()).
		Str("to", newStatus.String()).
		Msg("order status updated")
	s.publish(o.ID, o.OrderNumber, newStatus)
	return nil
}

// Cancel is allowed from any state except delivered and cancelled.
func (s *OrderService) Cancel(orderID uint, reason, cancelledBy string) error {
	reason = strings.TrimSpace(reason)
	if len(reason) < minReasonLen {
		return apperr.Validation("cancellation reason must be at least %d characters", minReasonLen)
	}
	if !entity.ValidCancelActor(cancelledBy) {
		return apperr.Validation("cancelledBy must be customer, restaurant or system")
	}

	o, err := s.GetOrder(orderID)
	if err != nil {
		return err
	}
	if !o.Status.Cancellable() {
		return apperr.State("order is already %s and cannot be cancelled", o.Status)
	}

	now := time.Now()
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.Repo.UpdateStatusGuard(tx, o.ID, o.Status, entity.StatusCancelled, map[string]any{
			"cancellation_reason": reason,
			"cancelled_by":        cancelledBy,
			"cancelled_at":        now,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperr.State("order status changed concurrently, retry")
		}
		return nil
	})
	if err != nil {
		if apperr.KindOf(err) != apperr.KindUnknown {
			return err
		}
		return apperr.Persistence("cancel order", err)
	}

	s.Log.Info().
		Uint("order_id", o.ID).
		Str("order_number", o.OrderNumber).
		Str("cancelled_by", cancelledBy).
		Msg("order cancelled")
	s.publish(o.ID, o.OrderNumber, entity.StatusCancelled)
	return nil
}

// ProcessRefund is only legal on delivered orders and never refunds more
// than was charged.
func (s *OrderService) ProcessRefund(orderID uint, refundAmount int64, reason, refundedBy, note string) error {
	reason = strings.TrimSpace(reason)
	if len(reason) < minReasonLen {
		return apperr.Validation("refund reason must be at least %d characters", minReasonLen)
	}

	o, err := s.GetOrder(orderID)
	if err != nil {
		return err
	}
	if o.Status != entity.StatusDelivered {
		return apperr.State("refunds require a delivered order, order is %s", o.Status)
	}
	if refundAmount <= 0 {
		return apperr.Validation("refund amount must be positive")
	}
	if refundAmount > o.TotalAmount {
		return apperr.Validation("refund amount %d exceeds order total %d", refundAmount, o.TotalAmount)
	}

	now := time.Now()
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.Repo.UpdateStatusGuard(tx, o.ID, entity.StatusDelivered, entity.StatusRefunded, map[string]any{
			"refund_amount": refundAmount,
			"refund_reason": reason,
			"refund_note":   strings.TrimSpace(note),
			"refunded_by":   refundedBy,
			"refunded_at":   now,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperr.State("order status changed concurrently, retry")
		}
		return nil
	})
	if err != nil {
		if apperr.KindOf(err) != apperr.KindUnknown {
			return err
		}
		return apperr.Persistence("process refund", err)
	}

	s.Log.Info().
		Uint("order_id", o.ID).
		Str("order_number", o.OrderNumber).
		Int64("refund_amount", refundAmount).
		Msg("order refunded")
	s.publish(o.ID, o.OrderNumber, entity.StatusRefunded)
	return nil
}

var disputeOutcomes = map[string]entity.OrderStatus{
	"resolve":  entity.StatusDisputeResolved,
	"escalate": entity.StatusDisputeEscalated,
	"close":    entity.StatusDisputeClosed,
}

// HandleDispute records a dispute outcome; outcomes are reachable from any
// state.
func (s *OrderService) HandleDispute(orderID uint, action, resolution, resolvedBy, note string) error {
	outcome, ok := disputeOutcomes[action]
	if !ok {
		return apperr.Validation("dispute action must be resolve, escalate or close")
	}
	resolution = strings.TrimSpace(resolution)
	if len(resolution) < minReasonLen {
		return apperr.Validation("dispute resolution must be at least %d characters", minReasonLen)
	}

	o, err := s.GetOrder(orderID)
	if err != nil {
		return err
	}

	now := time.Now()
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.Repo.UpdateStatusGuard(tx, o.ID, o.Status, outcome, map[string]any{
			"dispute_status":      string(outcome),
			"dispute_resolution":  resolution,
			"dispute_note":        strings.TrimSpace(note),
			"dispute_resolved_by": resolvedBy,
			"dispute_resolved_at": now,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperr.State("order status changed concurrently, retry")
		}
		return nil
	})
	if err != nil {
		if apperr.KindOf(err) != apperr.KindUnknown {
			return err
		}
		return apperr.Persistence("handle dispute", err)
	}

	s.Log.Info().
		Uint("order_id", o.ID).
		Str("order_number", o.OrderNumber).
		Str("action", action).
		Msg("order dispute handled")
	s.publish(o.ID, o.OrderNumber, outcome)
	return nil
}

func (s *OrderService) publish(orderID uint, orderNumber string, status entity.OrderStatus) {
	if s.Pub != nil {
		s.Pub.PublishStatus(orderID, orderNumber, status)
	}
}
