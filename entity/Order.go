package entity

import (
	"time"

	"gorm.io/gorm"
)

// Order is the aggregate root of the order subsystem. Customer and
// restaurant display names are snapshots taken at assembly time. Orders are
// never physically deleted; Archived hides them instead. Version is bumped
// on every status write so concurrent principals cannot silently overwrite
// each other.
type Order struct {
	gorm.Model
	OrderNumber string `json:"orderNumber" gorm:"uniqueIndex;not null"`

	CustomerID   uint   `json:"customerId"`
	CustomerName string `json:"customerName"`

	RestaurantID   uint   `json:"restaurantId"`
	RestaurantName string `json:"restaurantName"`

	Items []OrderItem `json:"items" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	Subtotal    int64 `json:"subtotal"`
	TotalAmount int64 `json:"totalAmount"`

	DeliveryAddress     DeliveryAddress `json:"deliveryAddress" gorm:"embedded;embeddedPrefix:address_"`
	SpecialInstructions string          `json:"specialInstructions,omitempty"`

	Status            OrderStatus `json:"status" gorm:"type:text;default:pending;index"`
	EstimatedDelivery *time.Time  `json:"estimatedDelivery,omitempty"`

	CancellationReason string     `json:"cancellationReason,omitempty"`
	CancelledBy        string     `json:"cancelledBy,omitempty"` // customer | restaurant | system
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`

	RefundAmount int64      `json:"refundAmount,omitempty"`
	RefundReason string     `json:"refundReason,omitempty"`
	RefundNote   string     `json:"refundNote,omitempty"`
	RefundedBy   string     `json:"refundedBy,omitempty"`
	RefundedAt   *time.Time `json:"refundedAt,omitempty"`

	DisputeStatus     string     `json:"disputeStatus,omitempty"`
	DisputeResolution string     `json:"disputeResolution,omitempty"`
	DisputeNote       string     `json:"disputeNote,omitempty"`
	DisputeResolvedBy string     `json:"disputeResolvedBy,omitempty"`
	DisputeResolvedAt *time.Time `json:"disputeResolvedAt,omitempty"`

	Archived bool  `json:"-" gorm:"default:false;index"`
	Version  int64 `json:"version" gorm:"default:0"`

	itemsChanged bool `gorm:"-"`
}

// SetItems replaces the snapshot list and marks it dirty so totals get
// recomputed on the next save.
func (o *Order) SetItems(items []OrderItem) {
	o.Items = items
	o.itemsChanged = true
}

// RecomputeTotals rebuilds each line's ItemTotal plus Subtotal and
// TotalAmount from the current item list. Idempotent. TotalAmount stays
// equal to Subtotal; no delivery fee is modeled.
func (o *Order) RecomputeTotals() {
	var subtotal int64
	for i := range o.Items {
		o.Items[i].ItemTotal = o.Items[i].Price * int64(o.Items[i].Quantity)
		subtotal += o.Items[i].ItemTotal
	}
	o.Subtotal = subtotal
	o.TotalAmount = subtotal
}

// BeforeSave recomputes totals only when the item list changed or totals
// were never set. A fully-formed order persisted with divergent pre-set
// totals is not auto-corrected; that matches the historical behavior.
func (o *Order) BeforeSave(tx *gorm.DB) error {
	if o.itemsChanged || (o.Subtotal == 0 && o.TotalAmount == 0) {
		o.RecomputeTotals()
	}
	o.itemsChanged = false
	return nil
}
