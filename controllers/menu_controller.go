package controllers

import (
	"net/http"
	"strconv"

	"github.com/roymathewwww/canteen-rush-ai/services"

	"github.com/gin-gonic/gin"
)

type MenuController struct {
	Menu *services.MenuService
}

func NewMenuController(m *services.MenuService) *MenuController {
	return &MenuController{Menu: m}
}

// GET /menu?category=Wraps&available=true
func (mc *MenuController) List(c *gin.Context) {
	availableOnly, _ := strconv.ParseBool(c.DefaultQuery("available", "false"))
	items, err := mc.Menu.List(c.Request.Context(), c.Query("category"), availableOnly)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}
