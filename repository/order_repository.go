package repository

import (
	"time"

	"backend/entity"

	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

func (r *OrderRepository) CreateOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Create(o).Error
}

// GetOrder loads one order with its item snapshots; archived orders are
// invisible to every caller.
func (r *OrderRepository) GetOrder(orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.Where("archived = ?", false).Preload("Items").First(&o, orderID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) OrderNumberExists(number string) (bool, error) {
	var cnt int64
	if err := r.DB.Model(&entity.Order{}).Where("order_number = ?", number).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

type OrderSummary struct {
	ID          uint               `json:"id"`
	OrderNumber string             `json:"orderNumber"`
	Restaurant  string             `json:"restaurantName"`
	TotalAmount int64              `json:"totalAmount"`
	Status      entity.OrderStatus `json:"status"`
	CreatedAt   time.Time          `json:"createdAt"`
}

func (r *OrderRepository) ListOrdersForCustomer(customerID uint, limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []OrderSummary
	err := r.DB.Model(&entity.Order{}).
		Select("id, order_number, restaurant_name AS restaurant, total_amount, status, created_at").
		Where("customer_id = ? AND archived = ?", customerID, false).
		Order("id DESC").Limit(limit).
		Scan(&out).Error
	return out, err
}

type RestaurantOrderSummary struct {
	ID           uint               `json:"id"`
	OrderNumber  string             `json:"orderNumber"`
	CustomerName string             `json:"customerName"`
	TotalAmount  int64              `json:"totalAmount"`
	Status       entity.OrderStatus `json:"status"`
	CreatedAt    time.Time          `json:"createdAt"`
}

// ListOrdersForRestaurant expects page and limit already normalized by the
// caller.
func (r *OrderRepository) ListOrdersForRestaurant(restaurantID uint, status *entity.OrderStatus, page, limit int) ([]RestaurantOrderSummary, int64, error) {
	offset := (page - 1) * limit

	q := r.DB.Model(&entity.Order{}).
		Where("restaurant_id = ? AND archived = ?", restaurantID, false)
	if status != nil && *status != "" {
		q = q.Where("status = ?", *status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []RestaurantOrderSummary
	err := q.Select("id, order_number, customer_name, total_amount, status, created_at").
		Order("id DESC").Limit(limit).Offset(offset).
		Scan(&out).Error
	return out, total, err
}

// UpdateStatusGuard writes the new status compare-and-swap style: the row
// is touched only when it still carries the expected predecessor status.
// Every hit also bumps the version column. Extra columns (cancellation,
// refund, dispute metadata) ride along in the same write.
func (r *OrderRepository) UpdateStatusGuard(tx *gorm.DB, orderID uint, from, to entity.OrderStatus, extra map[string]any) (int64, error) {
	updates := map[string]any{
		"status":  to,
		"version": gorm.Expr("version + 1"),
	}
	for k, v := range extra {
		updates[k] = v
	}
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status = ? AND archived = ?", orderID, from, false).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// Archive soft-deletes: the order stays in the store but no read path
// returns it anymore.
func (r *OrderRepository) Archive(orderID uint) (int64, error) {
	res := r.DB.Model(&entity.Order{}).
		Where("id = ? AND archived = ?", orderID, false).
		Update("archived", true)
	return res.RowsAffected, res.Error
}
