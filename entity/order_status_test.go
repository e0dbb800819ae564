package entity_test

import (
	"testing"

	"backend/entity"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusValid(t *testing.T) {
	valid := []entity.OrderStatus{
		entity.StatusPending, entity.StatusConfirmed, entity.StatusPreparing,
		entity.StatusReady, entity.StatusOutForDelivery, entity.StatusDelivered,
		entity.StatusCancelled, entity.StatusRefunded,
		entity.StatusDisputeResolved, entity.StatusDisputeEscalated, entity.StatusDisputeClosed,
	}
	for _, s := range valid {
		assert.True(t, s.Valid(), "expected %s to be valid", s)
	}

	assert.False(t, entity.OrderStatus("").Valid())
	assert.False(t, entity.OrderStatus("shipped").Valid())
	assert.False(t, entity.OrderStatus("Pending").Valid())
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from entity.OrderStatus
		to   entity.OrderStatus
		want bool
	}{
		{"forward_step", entity.StatusPending, entity.StatusConfirmed, true},
		{"skip_ahead", entity.StatusPending, entity.StatusOutForDelivery, true},
		{"confirmed_to_preparing", entity.StatusConfirmed, entity.StatusPreparing, true},
		{"out_for_delivery_to_delivered", entity.StatusOutForDelivery, entity.StatusDelivered, true},
		{"no_backwards", entity.StatusPreparing, entity.StatusConfirmed, false},
		{"delivered_to_preparing", entity.StatusDelivered, entity.StatusPreparing, false},
		{"delivered_to_refunded", entity.StatusDelivered, entity.StatusRefunded, true},
		{"pending_to_refunded", entity.StatusPending, entity.StatusRefunded, false},
		{"cancel_from_pending", entity.StatusPending, entity.StatusCancelled, true},
		{"cancel_from_out_for_delivery", entity.StatusOutForDelivery, entity.StatusCancelled, true},
		{"cancel_from_delivered", entity.StatusDelivered, entity.StatusCancelled, false},
		{"cancel_from_cancelled", entity.StatusCancelled, entity.StatusCancelled, false},
		{"dispute_from_pending", entity.StatusPending, entity.StatusDisputeEscalated, true},
		{"dispute_from_delivered", entity.StatusDelivered, entity.StatusDisputeResolved, true},
		{"dispute_from_cancelled", entity.StatusCancelled, entity.StatusDisputeClosed, true},
		{"dispute_from_refunded", entity.StatusRefunded, entity.StatusDisputeResolved, true},
		{"unknown_target", entity.StatusPending, entity.OrderStatus("shipped"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestCancellable(t *testing.T) {
	assert.True(t, entity.StatusPending.Cancellable())
	assert.True(t, entity.StatusOutForDelivery.Cancellable())
	assert.False(t, entity.StatusDelivered.Cancellable())
	assert.False(t, entity.StatusCancelled.Cancellable())
}
