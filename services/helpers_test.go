package services_test

import (
	"fmt"
	"strings"
	"testing"

	"backend/entity"
	"backend/repository"
	"backend/services"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique shared-cache DSN per test so the pool's connections all see
	// the same in-memory database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.User{}, &entity.Admin{}, &entity.Driver{}, &entity.Restaurant{},
		&entity.MenuItem{},
		&entity.Cart{}, &entity.CartItem{},
		&entity.Order{}, &entity.OrderItem{},
	))
	return db
}

func newOrderService(t *testing.T, db *gorm.DB) *services.OrderService {
	t.Helper()
	return services.NewOrderService(
		db,
		repository.NewOrderRepository(db),
		repository.NewCartRepository(db),
		repository.NewDirectoryRepository(db),
		zerolog.Nop(),
	)
}

func seedCustomer(t *testing.T, db *gorm.DB, first, last, email string) *entity.User {
	t.Helper()
	u := &entity.User{FirstName: first, LastName: last, Email: email}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedRestaurant(t *testing.T, db *gorm.DB, business, email string) *entity.Restaurant {
	t.Helper()
	r := &entity.Restaurant{BusinessName: business, Email: email, Approved: true}
	require.NoError(t, db.Create(r).Error)
	return r
}

func seedCart(t *testing.T, db *gorm.DB, customerID, restaurantID uint, items ...entity.CartItem) *entity.Cart {
	t.Helper()
	c := &entity.Cart{CustomerID: customerID, RestaurantID: restaurantID, Items: items}
	require.NoError(t, db.Create(c).Error)
	return c
}

// seedOrder builds a persisted order in the given status without going
// through the transition engine.
func seedOrder(t *testing.T, svc *services.OrderService, db *gorm.DB, restaurantID uint, status entity.OrderStatus, price int64) *entity.Order {
	t.Helper()
	out, err := svc.AssembleCustom(&services.AssembleCustomIn{
		CustomerName:    "Test Customer",
		RestaurantID:    restaurantID,
		Items:           []services.CustomItemIn{{ItemID: 1, Name: "Thali", Price: price, Quantity: 1}},
		DeliveryAddress: entity.DeliveryAddress{Street: "MG Road", City: "Pune"},
	})
	require.NoError(t, err)
	if status != entity.StatusPending {
		require.NoError(t, db.Model(&entity.Order{}).Where("id = ?", out.OrderID).
			Update("status", status).Error)
	}
	o, err := svc.GetOrder(out.OrderID)
	require.NoError(t, err)
	return o
}
