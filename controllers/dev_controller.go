// controllers/dev_controller.go
package controllers

import (
	"net/http"

	"github.com/roymathewwww/canteen-rush-ai/services"

	"github.com/gin-gonic/gin"
)

type DevController struct {
	Menu   *services.MenuService
	Orders *services.OrderService
}

func NewDevController(m *services.MenuService, o *services.OrderService) *DevController {
	return &DevController{Menu: m, Orders: o}
}

// GET /healthz
func (d *DevController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"offline": d.Orders.Offline(),
	})
}

// POST /dev/seed - load the default menu into an empty store
func (d *DevController) Seed(c *gin.Context) {
	if err := d.Menu.SeedIfEmpty(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
