package ws

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"backend/entity"
	"backend/pkg/resp"
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// OrderHub fans order status changes out to websocket subscribers, one
// room per order.
type OrderHub struct {
	clients    map[uint]map[*websocket.Conn]bool // orderID -> set of clients
	broadcast  chan StatusEvent
	register   chan subscription
	unregister chan subscription
	mu         sync.Mutex
	orders     *services.OrderService
	log        zerolog.Logger
}

type subscription struct {
	conn    *websocket.Conn
	orderID uint
}

type StatusEvent struct {
	OrderID     uint               `json:"orderId"`
	OrderNumber string             `json:"orderNumber"`
	Status      entity.OrderStatus `json:"status"`
	At          time.Time          `json:"at"`
}

func NewOrderHub(orders *services.OrderService, log zerolog.Logger) *OrderHub {
	return &OrderHub{
		clients:    make(map[uint]map[*websocket.Conn]bool),
		broadcast:  make(chan StatusEvent, 16),
		register:   make(chan subscription),
		unregister: make(chan subscription),
		orders:     orders,
		log:        log,
	}
}

// PublishStatus lets the transition engine hand a committed status change
// to the hub without blocking on slow subscribers.
func (h *OrderHub) PublishStatus(orderID uint, orderNumber string, status entity.OrderStatus) {
	select {
	case h.broadcast <- StatusEvent{OrderID: orderID, OrderNumber: orderNumber, Status: status, At: time.Now()}:
	default:
		h.log.Warn().Uint("order_id", orderID).Msg("ws broadcast queue full, event dropped")
	}
}

func (h *OrderHub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			if h.clients[sub.orderID] == nil {
				h.clients[sub.orderID] = make(map[*websocket.Conn]bool)
			}
			h.clients[sub.orderID][sub.conn] = true
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[sub.orderID][sub.conn]; ok {
				delete(h.clients[sub.orderID], sub.conn)
				sub.conn.Close()
			}
			h.mu.Unlock()

		case ev := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients[ev.OrderID] {
				if err := conn.WriteJSON(ev); err != nil {
					h.log.Warn().Err(err).Msg("ws write error")
					conn.Close()
					delete(h.clients[ev.OrderID], conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GET /ws/orders/:orderId: the customer who placed the order, its
// restaurant, or an admin may watch.
func (h *OrderHub) HandleWebSocket(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("orderId"))
	if id <= 0 {
		resp.BadRequest(c, "invalid order id")
		return
	}
	orderID := uint(id)

	o, err := h.orders.GetOrder(orderID)
	if err != nil {
		resp.Error(c, err)
		return
	}

	p, _ := utils.CurrentPrincipal(c)
	allowed := p.Kind == entity.PrincipalAdmin ||
		(p.Kind == entity.PrincipalUser && o.CustomerID == p.ID) ||
		(p.Kind == entity.PrincipalRestaurant && o.RestaurantID == p.ID)
	if !allowed {
		resp.Forbidden(c, "no access")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws upgrade error")
		return
	}

	// Snapshot of the current status so the watcher starts in sync. Written
	// before registering: once the conn is registered, the hub goroutine is
	// its only writer.
	_ = conn.WriteJSON(StatusEvent{OrderID: o.ID, OrderNumber: o.OrderNumber, Status: o.Status, At: time.Now()})

	sub := subscription{conn: conn, orderID: orderID}
	h.register <- sub

	go func() {
		defer func() { h.unregister <- sub }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
