package controllers

import (
	"fmt"
	"strconv"

	"backend/entity"
	"backend/pkg/resp"
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

// AdminOrderController hosts the privileged order operations: custom
// assembly, status updates, refunds, disputes and archival.
type AdminOrderController struct{ Svc *services.OrderService }

func NewAdminOrderController(s *services.OrderService) *AdminOrderController {
	return &AdminOrderController{Svc: s}
}

// POST /orders, admin or restaurant supplies the item list directly.
func (ac *AdminOrderController) CreateCustom(c *gin.Context) {
	var req services.AssembleCustomIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	p, _ := utils.CurrentPrincipal(c)
	if p.Kind == entity.PrincipalRestaurant && p.ID != req.RestaurantID {
		resp.Forbidden(c, "restaurant may only create orders for itself")
		return
	}

	out, err := ac.Svc.AssembleCustom(&req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, out)
}

type UpdateStatusRequest struct {
	Status entity.OrderStatus `json:"status" binding:"required"`
}

// PATCH /orders/:orderId/status
func (ac *AdminOrderController) UpdateStatus(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("orderId"))
	if id <= 0 {
		resp.BadRequest(c, "invalid order id")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	p, _ := utils.CurrentPrincipal(c)
	if p.Kind == entity.PrincipalRestaurant {
		o, err := ac.Svc.GetOrder(uint(id))
		if err != nil {
			resp.Error(c, err)
			return
		}
		if o.RestaurantID != p.ID {
			resp.Forbidden(c, "forbidden")
			return
		}
	}

	if err := ac.Svc.UpdateStatus(uint(id), req.Status); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"status": req.Status})
}

type RefundRequest struct {
	RefundAmount int64  `json:"refundAmount" binding:"required"`
	Reason       string `json:"reason" binding:"required"`
	AdminNote    string `json:"adminNote"`
}

// PUT /orders/:orderId/refund, admin only.
func (ac *AdminOrderController) Refund(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("orderId"))
	if id <= 0 {
		resp.BadRequest(c, "invalid order id")
		return
	}

	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	p, _ := utils.CurrentPrincipal(c)
	refundedBy := fmt.Sprintf("admin:%d", p.ID)

	if err := ac.Svc.ProcessRefund(uint(id), req.RefundAmount, req.Reason, refundedBy, req.AdminNote); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"status": entity.StatusRefunded, "refundAmount": req.RefundAmount})
}

type DisputeRequest struct {
	Action     string `json:"action" binding:"required"`
	Resolution string `json:"resolution" binding:"required"`
	AdminNote  string `json:"adminNote"`
}

// PATCH /orders/:orderId/dispute, admin only.
func (ac *AdminOrderController) Dispute(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("orderId"))
	if id <= 0 {
		resp.BadRequest(c, "invalid order id")
		return
	}

	var req DisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	p, _ := utils.CurrentPrincipal(c)
	resolvedBy := fmt.Sprintf("admin:%d", p.ID)

	if err := ac.Svc.HandleDispute(uint(id), req.Action, req.Resolution, resolvedBy, req.AdminNote); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"action": req.Action})
}

// DELETE /orders/:orderId soft-archives, admin only.
func (ac *AdminOrderController) Archive(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("orderId"))
	if id <= 0 {
		resp.BadRequest(c, "invalid order id")
		return
	}

	if err := ac.Svc.Archive(uint(id)); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"archived": true})
}
