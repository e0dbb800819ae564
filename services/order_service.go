package services

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"backend/entity"
	"backend/pkg/apperr"
	"backend/repository"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// StatusPublisher receives every committed status change; the websocket
// watch hub implements it. A nil publisher is fine.
type StatusPublisher interface {
	PublishStatus(orderID uint, orderNumber string, status entity.OrderStatus)
}

type OrderService struct {
	DB       *gorm.DB
	Repo     *repository.OrderRepository
	CartRepo *repository.CartRepository
	Dir      *repository.DirectoryRepository
	Log      zerolog.Logger
	Pub      StatusPublisher
}

func NewOrderService(db *gorm.DB, repo *repository.OrderRepository, cartRepo *repository.CartRepository, dir *repository.DirectoryRepository, log zerolog.Logger) *OrderService {
	return &OrderService{DB: db, Repo: repo, CartRepo: cartRepo, Dir: dir, Log: log}
}

// ----- DTOs from Controller -----

type AssembleFromCartIn struct {
	RestaurantID        uint                   `json:"restaurantId" binding:"required"`
	DeliveryAddress     entity.DeliveryAddress `json:"deliveryAddress"`
	SpecialInstructions string                 `json:"specialInstructions"`
}

type CustomItemIn struct {
	ItemID      uint   `json:"itemId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
	Image       string `json:"image"`
	Category    string `json:"category"`
}

type AssembleCustomIn struct {
	CustomerID          uint                   `json:"customerId"`
	CustomerName        string                 `json:"customerName"`
	RestaurantID        uint                   `json:"restaurantId" binding:"required"`
	RestaurantName      string                 `json:"restaurantName"`
	Items               []CustomItemIn         `json:"items" binding:"required,min=1"`
	DeliveryAddress     entity.DeliveryAddress `json:"deliveryAddress"`
	SpecialInstructions string                 `json:"specialInstructions"`
	EstimatedDelivery   *time.Time             `json:"estimatedDelivery"`
}

type OrderSummaryOut struct {
	OrderID     uint               `json:"orderId"`
	OrderNumber string             `json:"orderNumber"`
	Status      entity.OrderStatus `json:"status"`
	TotalAmount int64              `json:"totalAmount"`
}

// ----- Assembly -----

// AssembleFromCart converts the customer's cart for one restaurant into a
// persisted order. The order insert and the cart clear run in a single
// transaction: either both happen or neither does.
func (s *OrderService) AssembleFromCart(customerID uint, in *AssembleFromCartIn) (*OrderSummaryOut, error) {
	if !in.DeliveryAddress.Complete() {
		return nil, apperr.Validation("delivery address must include street and city")
	}

	customer, err := s.Dir.FindUserByID(customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("customer not found")
		}
		return nil, apperr.Persistence("load customer", err)
	}
	restaurant, err := s.Dir.FindRestaurantByID(in.RestaurantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("restaurant not found")
		}
		return nil, apperr.Persistence("load restaurant", err)
	}

	customerName := customerDisplayName(customer)
	restaurantName := restaurantDisplayName(restaurant)
	if restaurantName == "" {
		return nil, apperr.State("restaurant has no usable display name")
	}

	cart, err := s.CartRepo.FindActiveCart(customerID, in.RestaurantID)
	if err != nil {
		return nil, apperr.Persistence("load cart", err)
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, apperr.Validation("cart is empty")
	}
	if err := validateCartLines(cart.Items); err != nil {
		return nil, err
	}

	items := make([]entity.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, entity.OrderItem{
			MenuItemID: line.MenuItemID,
			Name:       line.Name,
			Price:      line.Price,
			Quantity:   line.Quantity,
		})
	}

	order := &entity.Order{
		CustomerID:          customerID,
		CustomerName:        customerName,
		RestaurantID:        restaurant.ID,
		RestaurantName:      restaurantName,
		DeliveryAddress:     in.DeliveryAddress,
		SpecialInstructions: strings.TrimSpace(in.SpecialInstructions),
		Status:              entity.StatusPending,
	}
	order.SetItems(items)
	order.RecomputeTotals()
	if order.Subtotal <= 0 {
		return nil, apperr.Validation("order total must be positive")
	}

	number, err := s.generateOrderNumber()
	if err != nil {
		return nil, err
	}
	order.OrderNumber = number

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.CreateOrder(tx, order); err != nil {
			return err
		}
		// Clearing inside the tx keeps "order exists, cart not cleared"
		// unrepresentable.
		return s.CartRepo.ClearCart(tx, cart.ID)
	})
	if err != nil {
		s.Log.Error().Err(err).Uint("customer_id", customerID).Msg("order assembly failed")
		return nil, apperr.Persistence("persist order", err)
	}

	s.Log.Info().
		Uint("order_id", order.ID).
		Str("order_number", order.OrderNumber).
		Uint("customer_id", customerID).
		Uint("restaurant_id", restaurant.ID).
		Int64("total_amount", order.TotalAmount).
		Msg("order assembled from cart")

	return &OrderSummaryOut{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
	}, nil
}

// AssembleCustom is the privileged variant: the caller supplies the item
// list directly and no cart is involved.
func (s *OrderService) AssembleCustom(in *AssembleCustomIn) (*OrderSummaryOut, error) {
	if !in.DeliveryAddress.Complete() {
		return nil, apperr.Validation("delivery address must include street and city")
	}
	if len(in.Items) == 0 {
		return nil, apperr.Validation("items are required")
	}

	customerName := strings.TrimSpace(in.CustomerName)
	if in.CustomerID != 0 {
		customer, err := s.Dir.FindUserByID(in.CustomerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("customer not found")
			}
			return nil, apperr.Persistence("load customer", err)
		}
		if customerName == "" {
			customerName = customerDisplayName(customer)
		}
	}
	if customerName == "" {
		customerName = "Unknown Customer"
	}

	restaurantName := strings.TrimSpace(in.RestaurantName)
	restaurant, err := s.Dir.FindRestaurantByID(in.RestaurantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("restaurant not found")
		}
		return nil, apperr.Persistence("load restaurant", err)
	}
	if restaurantName == "" {
		restaurantName = restaurantDisplayName(restaurant)
	}
	if restaurantName == "" {
		return nil, apperr.State("restaurant has no usable display name")
	}

	items := make([]entity.OrderItem, 0, len(in.Items))
	for i, it := range in.Items {
		if it.ItemID == 0 || strings.TrimSpace(it.Name) == "" {
			return nil, apperr.Validation("item %d is missing id or name", i)
		}
		if it.Price <= 0 {
			return nil, apperr.Validation("item %q must have a positive price", it.Name)
		}
		if it.Quantity < 1 {
			return nil, apperr.Validation("item %q must have quantity of at least 1", it.Name)
		}
		items = append(items, entity.OrderItem{
			MenuItemID:  it.ItemID,
			Name:        strings.TrimSpace(it.Name),
			Description: it.Description,
			Price:       it.Price,
			Quantity:    it.Quantity,
			Image:       it.Image,
			Category:    it.Category,
		})
	}

	order := &entity.Order{
		CustomerID:          in.CustomerID,
		CustomerName:        customerName,
		RestaurantID:        restaurant.ID,
		RestaurantName:      restaurantName,
		DeliveryAddress:     in.DeliveryAddress,
		SpecialInstructions: strings.TrimSpace(in.SpecialInstructions),
		EstimatedDelivery:   in.EstimatedDelivery,
		Status:              entity.StatusPending,
	}
	order.SetItems(items)
	order.RecomputeTotals()
	if order.Subtotal <= 0 {
		return nil, apperr.Validation("order total must be positive")
	}

	number, err := s.generateOrderNumber()
	if err != nil {
		return nil, err
	}
	order.OrderNumber = number

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		return s.Repo.CreateOrder(tx, order)
	})
	if err != nil {
		s.Log.Error().Err(err).Uint("restaurant_id", restaurant.ID).Msg("custom order assembly failed")
		return nil, apperr.Persistence("persist order", err)
	}

	s.Log.Info().
		Uint("order_id", order.ID).
		Str("order_number", order.OrderNumber).
		Int64("total_amount", order.TotalAmount).
		Msg("custom order assembled")

	return &OrderSummaryOut{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
	}, nil
}

// ----- Reads / archive -----

func (s *OrderService) GetOrder(orderID uint) (*entity.Order, error) {
	o, err := s.Repo.GetOrder(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, apperr.Persistence("load order", err)
	}
	return o, nil
}

func (s *OrderService) ListForCustomer(customerID uint, limit int) ([]repository.OrderSummary, error) {
	out, err := s.Repo.ListOrdersForCustomer(customerID, limit)
	if err != nil {
		return nil, apperr.Persistence("list orders", err)
	}
	return out, nil
}

type RestaurantOrderListOut struct {
	Items []repository.RestaurantOrderSummary `json:"items"`
	Total int64                               `json:"total"`
	Page  int                                 `json:"page"`
	Limit int                                 `json:"limit"`
}

func (s *OrderService) ListForRestaurant(restaurantID uint, status *entity.OrderStatus, page, limit int) (*RestaurantOrderListOut, error) {
	if status != nil && *status != "" && !status.Valid() {
		return nil, apperr.Validation("unknown status %q", *status)
	}
	// Normalized here, once, so the echoed page/limit always match the query.
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	items, total, err := s.Repo.ListOrdersForRestaurant(restaurantID, status, page, limit)
	if err != nil {
		return nil, apperr.Persistence("list restaurant orders", err)
	}
	return &RestaurantOrderListOut{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *OrderService) Archive(orderID uint) error {
	affected, err := s.Repo.Archive(orderID)
	if err != nil {
		return apperr.Persistence("archive order", err)
	}
	if affected == 0 {
		return apperr.NotFound("order not found")
	}
	s.Log.Info().Uint("order_id", orderID).Msg("order archived")
	return nil
}

// ----- Helpers -----

func customerDisplayName(u *entity.User) string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		name = u.Email
	}
	if name == "" {
		name = "Unknown Customer"
	}
	return name
}

func restaurantDisplayName(r *entity.Restaurant) string {
	name := strings.TrimSpace(r.BusinessName)
	if name == "" {
		name = strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
	}
	return name
}

func validateCartLines(items []entity.CartItem) error {
	for _, it := range items {
		if it.MenuItemID == 0 || strings.TrimSpace(it.Name) == "" {
			return apperr.Validation("cart line is missing item id or name")
		}
		if it.Price <= 0 {
			return apperr.Validation("cart line %q has a non-positive price", it.Name)
		}
		if it.Quantity < 1 {
			return apperr.Validation("cart line %q has quantity below 1", it.Name)
		}
	}
	return nil
}

const orderNumberAttempts = 5

// generateOrderNumber builds ORD-<date>-<time>-<3 random digits>. The
// suffix is not collision-proof, so the candidate is probed against the
// store and regenerated on a hit.
func (s *OrderService) generateOrderNumber() (string, error) {
	for i := 0; i < orderNumberAttempts; i++ {
		candidate := fmt.Sprintf("ORD-%s-%03d", time.Now().Format("20060102-150405"), rand.IntN(1000))
		exists, err := s.Repo.OrderNumberExists(candidate)
		if err != nil {
			return "", apperr.Persistence("probe order number", err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", apperr.Persistence("order number space exhausted", nil)
}
