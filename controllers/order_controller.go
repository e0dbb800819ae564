package controllers

import (
	"strconv"

	"backend/entity"
	"backend/pkg/resp"
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

type OrderController struct{ Svc *services.OrderService }

func NewOrderController(s *services.OrderService) *OrderController {
	return &OrderController{Svc: s}
}

// POST /orders/create-from-cart
func (oc *OrderController) CreateFromCart(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}

	var req services.AssembleFromCartIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	out, err := oc.Svc.AssembleFromCart(uid, &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, out)
}

// GET /orders/:orderId for the customer who placed it, the restaurant it
// belongs to, or an admin.
func (oc *OrderController) Detail(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("orderId"))
	if id <= 0 {
		resp.BadRequest(c, "invalid order id")
		return
	}

	o, err := oc.Svc.GetOrder(uint(id))
	if err != nil {
		resp.Error(c, err)
		return
	}

	p, _ := utils.CurrentPrincipal(c)
	switch p.Kind {
	case entity.PrincipalAdmin:
	case entity.PrincipalUser:
		if o.CustomerID != p.ID {
			resp.Forbidden(c, "forbidden")
			return
		}
	case entity.PrincipalRestaurant:
		if o.RestaurantID != p.ID {
			resp.Forbidden(c, "forbidden")
			return
		}
	default:
		resp.Forbidden(c, "forbidden")
		return
	}

	resp.OK(c, o)
}

// GET /profile/orders
func (oc *OrderController) ListForMe(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	items, err := oc.Svc.ListForCustomer(uid, limit)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"items": items})
}

// GET /partner/orders?status=&page=&limit=
func (oc *OrderController) ListForRestaurant(c *gin.Context) {
	p, ok := utils.CurrentPrincipal(c)
	if !ok || p.Kind != entity.PrincipalRestaurant {
		resp.Forbidden(c, "forbidden")
		return
	}

	var status *entity.OrderStatus
	if raw := c.Query("status"); raw != "" {
		st := entity.OrderStatus(raw)
		status = &st
	}
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	out, err := oc.Svc.ListForRestaurant(p.ID, status, page, limit)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

type CancelRequest struct {
	Reason      string `json:"reason" binding:"required"`
	CancelledBy string `json:"cancelledBy"`
}

// PATCH /orders/:orderId/cancel
func (oc *OrderController) Cancel(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("orderId"))
	if id <= 0 {
		resp.BadRequest(c, "invalid order id")
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	p, _ := utils.CurrentPrincipal(c)
	actor := req.CancelledBy
	switch p.Kind {
	case entity.PrincipalUser:
		// Customers only ever cancel as themselves.
		actor = entity.ActorCustomer
		o, err := oc.Svc.GetOrder(uint(id))
		if err != nil {
			resp.Error(c, err)
			return
		}
		if o.CustomerID != p.ID {
			resp.Forbidden(c, "forbidden")
			return
		}
	case entity.PrincipalRestaurant:
		actor = entity.ActorRestaurant
		o, err := oc.Svc.GetOrder(uint(id))
		if err != nil {
			resp.Error(c, err)
			return
		}
		if o.RestaurantID != p.ID {
			resp.Forbidden(c, "forbidden")
			return
		}
	case entity.PrincipalAdmin:
		if actor == "" {
			actor = entity.ActorSystem
		}
	default:
		resp.Forbidden(c, "forbidden")
		return
	}

	if err := oc.Svc.Cancel(uint(id), req.Reason, actor); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"status": entity.StatusCancelled})
}
