package services_test

import (
	"testing"

	"backend/entity"
	"backend/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishRecorder struct {
	events []entity.OrderStatus
}

func (p *publishRecorder) PublishStatus(orderID uint, orderNumber string, status entity.OrderStatus) {
	p.events = append(p.events, status)
}

func TestUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	rec := &publishRecorder{}
	svc.Pub = rec
	r := seedRestaurant(t, db, "Spice Villa", "villa@example.com")
	o := seedOrder(t, svc, db, r.ID, entity.StatusPending, 500)

	require.NoError(t, svc.UpdateStatus(o.ID, entity.StatusConfirmed))
	require.NoError(t, svc.UpdateStatus(o.ID, entity.StatusPreparing))

	// Skipping intermediate stages forward is legal.
	require.NoError(t, svc.UpdateStatus(o.ID, entity.StatusDelivered))

	got, err := svc.GetOrder(o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDelivered, got.Status)
	assert.Equal(t, []entity.OrderStatus{
		entity.StatusConfirmed, entity.StatusPreparing, entity.StatusDelivered,
	}, rec.events)

	// Every committed write bumps the version.
	assert.Equal(t, o.Version+3, got.Version)
}

func TestUpdateStatusRejections(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	r := seedRestaurant(t, db, "Spice Villa", "villa@example.com")

	tests := []struct {
		name string
		from entity.OrderStatus
		to   entity.OrderStatus
		want func(error) bool
	}{
		{"backwards", entity.StatusPreparing, entity.StatusPending, apperr.IsState},
		{"delivered_is_terminal", entity.StatusDelivered, entity.StatusPreparing, apperr.IsState},
		{"cancelled_is_terminal", entity.StatusCancelled, entity.StatusConfirmed, apperr.IsState},
		{"refund_needs_delivery", entity.StatusPending, entity.StatusRefunded, apperr.IsState},
		{"unknown_status", entity.StatusPending, entity.OrderStatus("lost"), apperr.IsValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := seedOrder(t, svc, db, r.ID, tt.from, 500)
			err := svc.UpdateStatus(o.ID, tt.to)
			require.Error(t, err)
			assert.True(t, tt.want(err), "got %v", err)

			got, err := svc.GetOrder(o.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.from, got.Status, "rejected move must not change the row")
		})
	}
}

func TestUpdateStatusSameStatusIsNoop(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	rec := &publishRecorder{}
	svc.Pub = rec
	r := seedRestaurant(t, db, "Spice Villa", "villa@example.com")
	o := seedOrder(t, svc, db, r.ID, entity.StatusConfirmed, 500)

	require.NoError(t, svc.UpdateStatus(o.ID, entity.StatusConfirmed))
	assert.Empty(t, rec.events)

	got, err := svc.GetOrder(o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.Version, got.Version, "no-op must not bump the version")
}

func TestCancel(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	rec := &publishRecorder{}
	svc.Pub = rec
	r := seedRestaurant(t, db, "Spice Villa", "villa@example.com")
	o := seedOrder(t, svc, db, r.ID, entity.StatusConfirmed, 500)

	require.NoError(t, svc.Cancel(o.ID, "customer changed their mind", entity.ActorCustomer))

	got, err := svc.GetOrder(o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, got.Status)
	assert.Equal(t, "customer changed their mind", got.CancellationReason)
	assert.Equal(t, entity.ActorCustomer, got.CancelledBy)
	require.NotNil(t, got.CancelledAt)
	assert.Equal(t, []entity.OrderStatus{entity.StatusCancelled}, rec.events)

	// Cancelling again fails, the first cancellation stands.
	err = svc.Cancel(o.ID, "second attempt at cancelling", entity.ActorSystem)
	require.Error(t, err)
	assert.True(t, apperr.IsState(err), "got %v", err)

	again, err := svc.GetOrder(o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ActorCustomer, again.CancelledBy)
}

func TestCancelValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	r := seedRestaurant(t, db, "Spice Villa", "villa@example.com")

	t.Run("short_reason", func(t *testing.T) {
		o := seedOrder(t, svc, db, r.ID, entity.StatusPending, 500)
		err := svc.Cancel(o.ID, "too short", entity.ActorCustomer)
		assert.True(t, apperr.IsValidation(err), "got %v", err)
	})
	t.Run("bad_actor", func(t *testing.T) {
		o := seedOrder(t, svc, db, r.ID, entity.StatusPending, 500)
		err := svc.Cancel(o.ID, "a perfectly valid reason", "driver")
		assert.True(t, apperr.IsValidation(err), "got %v", err)
	})
	t.Run("delivered_not_cancellable", func(t *testing.T) {
		o := seedOrder(t, svc, db, r.ID, entity.StatusDelivered, 500)
		err := svc.Cancel(o.ID, "a perfectly valid reason", entity.ActorSystem)
		assert.True(t, apperr.IsState(err), "got %v", err)
	})
}

func TestProcessRefund(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	r := seedRestaurant(t, db, "Spice Villa", "villa@example.com")

	t.Run("full_refund", func(t *testing.T) {
		o := seedOrder(t, svc, db, r.ID, entity.StatusDelivered, 500)
		require.NoError(t, svc.ProcessRefund(o.ID, 500, "order arrived cold", "admin:1", "approved by support lead"))

		got, err := svc.GetOrder(o.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusRefunded, got.Status)
		assert.Equal(t, int64(500), got.RefundAmount)
		assert.Equal(t, "admin:1", got.RefundedBy, "the note stays out of the actor label")
		assert.Equal(t, "approved by support lead", got.RefundNote)
		require.NotNil(t, got.RefundedAt)
	})
	t.Run("partial_refund", func(t *testing.T) {
		o := seedOrder(t, svc, db, r.ID, entity.StatusDelivered, 500)
		require.NoError(t, svc.ProcessRefund(o.ID, 200, "one item was missing", "admin:1", ""))

		got, err := svc.GetOrder(o.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(200), got.RefundAmount)
	})
	t.Run("exceeds_total", func(t *testing.T) {
		o := seedOrder(t, svc, db, r.ID, entity.StatusDelivered, 500)
		err := svc.ProcessRefund(o.ID, 501, "order arrived cold", "admin:1", "")
		assert.True(t, apperr.IsValidation(err), "got %v", err)
	})
	t.Run("zero_amount", func(t *testing.T) {
		o := seedOrder(t, svc, db, r.ID, entity.StatusDelivered, 500)
		err := svc.ProcessRefund(o.ID, 0, "order arrived cold", "admin:1", "")
		assert.True(t, apperr.IsValidation(err), "got %v", err)
	})
	t.Run("not_delivered", func(t *testing.T) {
		o := seedOrder(t, svc, db, r.ID, entity.StatusPreparing, 500)
		err := svc.ProcessRefund(o.ID, 100, "order arrived cold", "admin:1", "")
		assert.True(t, apperr.IsState(err), "got %v", err)
	})
	t.Run("no_double_refund", func(t *testing.T) {
		o := seedOrder(t, svc, db, r.ID, entity.StatusDelivered, 500)
		require.NoError(t, svc.ProcessRefund(o.ID, 500, "order arrived cold", "admin:1", ""))
		err := svc.ProcessRefund(o.ID, 500, "trying to refund again", "admin:1", "")
		assert.True(t, apperr.IsState(err), "got %v", err)
	})
}

func TestHandleDispute(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	r := seedRestaurant(t, db, "Spice Villa", "villa@example.com")

	tests := []struct {
		action string
		from   entity.OrderStatus
		want   entity.OrderStatus
	}{
		{"resolve", entity.StatusPreparing, entity.StatusDisputeResolved},
		{"escalate", entity.StatusDelivered, entity.StatusDisputeEscalated},
		{"close", entity.StatusCancelled, entity.StatusDisputeClosed},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			o := seedOrder(t, svc, db, r.ID, tt.from, 500)
			require.NoError(t, svc.HandleDispute(o.ID, tt.action, "dispute reviewed in full", "admin:2", "ticket 4411"))

			got, err := svc.GetOrder(o.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)
			assert.Equal(t, string(tt.want), got.DisputeStatus)
			assert.Equal(t, "dispute reviewed in full", got.DisputeResolution)
			assert.Equal(t, "ticket 4411", got.DisputeNote)
			assert.Equal(t, "admin:2", got.DisputeResolvedBy)
			require.NotNil(t, got.DisputeResolvedAt)
		})
	}

	t.Run("unknown_action", func(t *testing.T) {
		o := seedOrder(t, svc, db, r.ID, entity.StatusPending, 500)
		err := svc.HandleDispute(o.ID, "ignore", "dispute reviewed in full", "admin:2", "")
		assert.True(t, apperr.IsValidation(err), "got %v", err)
	})
	t.Run("short_resolution", func(t *testing.T) {
		o := seedOrder(t, svc, db, r.ID, entity.StatusPending, 500)
		err := svc.HandleDispute(o.ID, "resolve", "ok", "admin:2", "")
		assert.True(t, apperr.IsValidation(err), "got %v", err)
	})
}

func TestTransitionOnMissingOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)

	assert.True(t, apperr.IsNotFound(svc.UpdateStatus(42, entity.StatusConfirmed)))
	assert.True(t, apperr.IsNotFound(svc.Cancel(42, "a perfectly valid reason", entity.ActorSystem)))
	assert.True(t, apperr.IsNotFound(svc.ProcessRefund(42, 100, "order arrived cold", "admin:1", "")))
	assert.True(t, apperr.IsNotFound(svc.HandleDispute(42, "resolve", "dispute reviewed in full", "admin:2", "")))
}
