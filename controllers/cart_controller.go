package controllers

import (
	"strconv"

	"backend/pkg/resp"
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

type CartController struct{ Svc *services.CartService }

func NewCartController(s *services.CartService) *CartController { return &CartController{Svc: s} }

// GET /cart?restaurantId=
func (h *CartController) Get(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	restID, _ := strconv.Atoi(c.Query("restaurantId"))
	if restID <= 0 {
		resp.BadRequest(c, "restaurantId is required")
		return
	}

	cart, subtotal, err := h.Svc.Get(uid, uint(restID))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"cart": cart, "subtotal": subtotal})
}

// POST /cart/items
func (h *CartController) Add(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}

	var req services.AddToCartIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := h.Svc.Add(uid, &req); err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, gin.H{"added": true})
}

// DELETE /cart/items/:itemId?restaurantId=
func (h *CartController) RemoveItem(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	itemID, _ := strconv.Atoi(c.Param("itemId"))
	restID, _ := strconv.Atoi(c.Query("restaurantId"))
	if itemID <= 0 || restID <= 0 {
		resp.BadRequest(c, "itemId and restaurantId are required")
		return
	}

	if err := h.Svc.RemoveItem(uid, uint(restID), uint(itemID)); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"removed": true})
}

// DELETE /cart?restaurantId=
func (h *CartController) Clear(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	restID, _ := strconv.Atoi(c.Query("restaurantId"))
	if restID <= 0 {
		resp.BadRequest(c, "restaurantId is required")
		return
	}

	if err := h.Svc.Clear(uid, uint(restID)); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"cleared": true})
}
