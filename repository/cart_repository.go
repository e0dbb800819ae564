package repository

import (
	"errors"

	"backend/entity"

	"gorm.io/gorm"
)

type CartRepository struct{ DB *gorm.DB }

func NewCartRepository(db *gorm.DB) *CartRepository { return &CartRepository{DB: db} }

// FindActiveCart returns the cart for (customer, restaurant) with its
// lines, or nil when none exists.
func (r *CartRepository) FindActiveCart(customerID, restaurantID uint) (*entity.Cart, error) {
	var c entity.Cart
	err := r.DB.Where("customer_id = ? AND restaurant_id = ?", customerID, restaurantID).
		Preload("Items").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CartRepository) GetOrCreateCart(customerID, restaurantID uint) (*entity.Cart, error) {
	var c entity.Cart
	err := r.DB.Where("customer_id = ? AND restaurant_id = ?", customerID, restaurantID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c = entity.Cart{CustomerID: customerID, RestaurantID: restaurantID}
		if err := r.DB.Create(&c).Error; err != nil {
			return nil, err
		}
		return &c, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpsertItem merges same-item lines by accumulating quantity; the stored
// name/price snapshot of the first add wins.
func (r *CartRepository) UpsertItem(tx *gorm.DB, cartID uint, row *entity.CartItem) error {
	var exist entity.CartItem
	err := tx.Where("cart_id = ? AND menu_item_id = ?", cartID, row.MenuItemID).
		First(&exist).Error
	if err == nil {
		exist.Quantity += row.Quantity
		return tx.Save(&exist).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	row.CartID = cartID
	return tx.Create(row).Error
}

func (r *CartRepository) RemoveItem(tx *gorm.DB, cartID, menuItemID uint) error {
	return tx.Where("cart_id = ? AND menu_item_id = ?", cartID, menuItemID).
		Delete(&entity.CartItem{}).Error
}

// ClearCart drops the cart and all of its lines. Called by the assembler
// inside the order-creation transaction so a failed persist leaves the cart
// intact.
func (r *CartRepository) ClearCart(tx *gorm.DB, cartID uint) error {
	if err := tx.Where("cart_id = ?", cartID).Delete(&entity.CartItem{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Delete(&entity.Cart{}, cartID).Error
}
