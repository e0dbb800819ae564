package controllers

import (
	"strconv"

	"backend/pkg/resp"
	"backend/repository"

	"github.com/gin-gonic/gin"
)

type MenuController struct{ Items *repository.ItemRepository }

func NewMenuController(items *repository.ItemRepository) *MenuController {
	return &MenuController{Items: items}
}

// GET /restaurants/:id/menu
func (mc *MenuController) List(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	if id <= 0 {
		resp.BadRequest(c, "invalid restaurant id")
		return
	}

	items, err := mc.Items.ListForRestaurant(uint(id))
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"items": items})
}
