package ws_test

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"backend/entity"
	"backend/repository"
	"backend/services"
	"backend/utils"
	"backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type hubFixture struct {
	hub   *ws.OrderHub
	srv   *httptest.Server
	order *entity.Order
}

func newHubFixture(t *testing.T) *hubFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.Order{}, &entity.OrderItem{}))

	o := &entity.Order{
		OrderNumber:    "ORD-20260101-120000-001",
		CustomerID:     1,
		CustomerName:   "Asha Rao",
		RestaurantID:   1,
		RestaurantName: "Spice Villa",
		Status:         entity.StatusPending,
	}
	o.SetItems([]entity.OrderItem{{MenuItemID: 1, Name: "Thali", Price: 120, Quantity: 2}})
	require.NoError(t, db.Create(o).Error)

	orders := services.NewOrderService(db,
		repository.NewOrderRepository(db),
		repository.NewCartRepository(db),
		repository.NewDirectoryRepository(db),
		zerolog.Nop(),
	)
	hub := ws.NewOrderHub(orders, zerolog.Nop())
	go hub.Run()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws/orders/:orderId", func(c *gin.Context) {
		utils.SetPrincipal(c, entity.Principal{Kind: entity.PrincipalAdmin, ID: 1})
		hub.HandleWebSocket(c)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &hubFixture{hub: hub, srv: srv, order: o}
}

func (f *hubFixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.srv.URL, "http") + fmt.Sprintf("/ws/orders/%d", f.order.ID)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	return conn
}

func TestHandleWebSocketSnapshotThenBroadcast(t *testing.T) {
	f := newHubFixture(t)
	conn := f.dial(t)
	defer conn.Close()

	var ev ws.StatusEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, f.order.ID, ev.OrderID)
	assert.Equal(t, f.order.OrderNumber, ev.OrderNumber)
	assert.Equal(t, entity.StatusPending, ev.Status)

	// Let the registration land before publishing.
	time.Sleep(50 * time.Millisecond)

	f.hub.PublishStatus(f.order.ID, f.order.OrderNumber, entity.StatusConfirmed)
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, entity.StatusConfirmed, ev.Status)
}

// Subscribers joining while the hub is broadcasting to the same order must
// still receive an intact snapshot; the hub goroutine owns all writes to a
// registered conn.
func TestHandleWebSocketSnapshotUnderBroadcastLoad(t *testing.T) {
	f := newHubFixture(t)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				f.hub.PublishStatus(f.order.ID, f.order.OrderNumber, entity.StatusConfirmed)
			}
		}
	}()

	for i := 0; i < 20; i++ {
		conn := f.dial(t)
		var ev ws.StatusEvent
		require.NoError(t, conn.ReadJSON(&ev))
		assert.Equal(t, f.order.OrderNumber, ev.OrderNumber)
		conn.Close()
	}

	close(stop)
	wg.Wait()
}
