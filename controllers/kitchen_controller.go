package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/roymathewwww/canteen-rush-ai/models"
	"github.com/roymathewwww/canteen-rush-ai/services"

	"github.com/gin-gonic/gin"
)

type KitchenController struct {
	Orders *services.OrderService
}

func NewKitchenController(o *services.OrderService) *KitchenController {
	return &KitchenController{Orders: o}
}

type kitchenOrder struct {
	models.Order
	ShortID string `json:"short_id"`
	Urgency string `json:"urgency"`
	Total   int    `json:"total"`
}

// GET /kitchen/orders
//
// The display wants columns, so active orders come back grouped by
// status with urgency already classified.
func (kc *KitchenController) ListActive(c *gin.Context) {
	orders, err := kc.Orders.ListActive(c.Request.Context())
	if err != nil {
		writeOrderError(c, err)
		return
	}

	now := time.Now()
	grouped := map[models.OrderStatus][]kitchenOrder{
		models.StatusOrdered:   {},
		models.StatusPreparing: {},
		models.StatusReady:     {},
	}
	for _, o := range orders {
		ko := kitchenOrder{
			Order:   o,
			ShortID: shortOrderID(o.ID),
			Urgency: services.Urgency(&o, now),
			Total:   o.Total(),
		}
		grouped[o.Status] = append(grouped[o.Status], ko)
	}

	c.JSON(http.StatusOK, gin.H{
		"ordered":   grouped[models.StatusOrdered],
		"preparing": grouped[models.StatusPreparing],
		"ready":     grouped[models.StatusReady],
		"offline":   kc.Orders.Offline(),
	})
}

type transitionReq struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// POST /kitchen/orders/:id/transition
func (kc *KitchenController) Transition(c *gin.Context) {
	var body transitionReq
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), writeTimeout)
	defer cancel()

	order, err := kc.Orders.Transition(ctx, c.Param("id"), body.Status)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// GET /kitchen/summary
func (kc *KitchenController) Summary(c *gin.Context) {
	summary, err := kc.Orders.Summary(c.Request.Context(), time.Now())
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func shortOrderID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
