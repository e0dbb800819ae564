package services

import (
	"errors"

	"backend/entity"
	"backend/pkg/apperr"
	"backend/repository"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type CartService struct {
	DB       *gorm.DB
	CartRepo *repository.CartRepository
	ItemRepo *repository.ItemRepository
	Log      zerolog.Logger
}

func NewCartService(db *gorm.DB, cr *repository.CartRepository, ir *repository.ItemRepository, log zerolog.Logger) *CartService {
	return &CartService{DB: db, CartRepo: cr, ItemRepo: ir, Log: log}
}

type AddToCartIn struct {
	RestaurantID uint `json:"restaurantId" binding:"required"`
	ItemID       uint `json:"itemId" binding:"required"`
	Quantity     int  `json:"quantity" binding:"min=1"`
}

// Get returns the (customer, restaurant) cart; an empty cart is returned
// rather than an error so the client can always render it.
func (s *CartService) Get(customerID, restaurantID uint) (*entity.Cart, int64, error) {
	c, err := s.CartRepo.FindActiveCart(customerID, restaurantID)
	if err != nil {
		return nil, 0, apperr.Persistence("load cart", err)
	}
	if c == nil {
		c = &entity.Cart{CustomerID: customerID, RestaurantID: restaurantID}
	}
	return c, c.Subtotal(), nil
}

// Add snapshots the catalog row's name and price into the cart line, so
// later menu edits never change what the customer agreed to pay.
func (s *CartService) Add(customerID uint, in *AddToCartIn) error {
	if in.Quantity <= 0 {
		in.Quantity = 1
	}

	m, err := s.ItemRepo.FindByID(in.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("menu item not found")
		}
		return apperr.Persistence("load menu item", err)
	}
	if m.RestaurantID != in.RestaurantID {
		return apperr.Validation("menu item does not belong to this restaurant")
	}
	if !m.Available {
		return apperr.State("menu item is not available")
	}

	c, err := s.CartRepo.GetOrCreateCart(customerID, in.RestaurantID)
	if err != nil {
		return apperr.Persistence("load cart", err)
	}

	line := &entity.CartItem{
		MenuItemID: m.ID,
		Name:       m.Name,
		Price:      m.Price,
		Quantity:   in.Quantity,
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		return s.CartRepo.UpsertItem(tx, c.ID, line)
	})
	if err != nil {
		return apperr.Persistence("add cart item", err)
	}
	s.Log.Info().Uint("cart_id", c.ID).Uint("item_id", m.ID).Int("quantity", in.Quantity).Msg("cart item added")
	return nil
}

func (s *CartService) RemoveItem(customerID, restaurantID, menuItemID uint) error {
	c, err := s.CartRepo.FindActiveCart(customerID, restaurantID)
	if err != nil {
		return apperr.Persistence("load cart", err)
	}
	if c == nil {
		return apperr.NotFound("cart not found")
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		return s.CartRepo.RemoveItem(tx, c.ID, menuItemID)
	})
	if err != nil {
		return apperr.Persistence("remove cart item", err)
	}
	return nil
}

func (s *CartService) Clear(customerID, restaurantID uint) error {
	c, err := s.CartRepo.FindActiveCart(customerID, restaurantID)
	if err != nil {
		return apperr.Persistence("load cart", err)
	}
	if c == nil {
		return nil
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		return s.CartRepo.ClearCart(tx, c.ID)
	})
	if err != nil {
		return apperr.Persistence("clear cart", err)
	}
	return nil
}
