package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/roymathewwww/canteen-rush-ai/services"
	"github.com/roymathewwww/canteen-rush-ai/utils"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Transition and create calls are not allowed to hang on the store
// forever; the staff terminal needs an answer either way.
const writeTimeout = 5 * time.Second

type OrderController struct {
	Orders *services.OrderService
	Menu   *services.MenuService
}

func NewOrderController(o *services.OrderService, m *services.MenuService) *OrderController {
	return &OrderController{Orders: o, Menu: m}
}

type createOrderReq struct {
	StudentID       string                      `json:"student_id"`
	BreakSlot       string                      `json:"break_slot"`
	PredictedPickup string                      `json:"predicted_pickup"`
	Items           []services.OrderItemRequest `json:"items"`
}

// POST /orders
func (oc *OrderController) Create(c *gin.Context) {
	var body createOrderReq
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), writeTimeout)
	defer cancel()

	// If the client didn't carry its estimate over, compute one from
	// the cart plus the current kitchen backlog.
	if body.PredictedPickup == "" {
		if cart, err := oc.Menu.CartFor(ctx, body.Items); err == nil {
			queue := oc.Orders.QueueLoadMinutes(ctx)
			est := services.EstimateWithQueue(cart, time.Now(), oc.Orders.ChefCount(), queue)
			body.PredictedPickup = est.PredictedClock
		}
	}

	order, err := oc.Orders.CreateOrder(ctx, body.StudentID, body.BreakSlot, body.PredictedPickup, body.Items)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	// best-effort receipt for students who sign with an email address
	if strings.Contains(order.StudentID, "@") {
		go func() {
			if err := utils.SendOrderReceipt(order.StudentID, order); err != nil {
				log.WithError(err).Debug("receipt mail skipped")
			}
		}()
	}

	c.JSON(http.StatusCreated, gin.H{
		"order":    order,
		"subtotal": order.Subtotal(),
		"total":    order.Total(),
	})
}

// GET /orders/:id
func (oc *OrderController) Get(c *gin.Context) {
	order, err := oc.Orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order":   order,
		"total":   order.Total(),
		"offline": oc.Orders.Offline(),
	})
}

type estimateReq struct {
	Items     []services.OrderItemRequest `json:"items"`
	ChefCount int                         `json:"chef_count"`
}

// POST /orders/estimate
func (oc *OrderController) Estimate(c *gin.Context) {
	var body estimateReq
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart, err := oc.Menu.CartFor(c.Request.Context(), body.Items)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	chefs := body.ChefCount
	if chefs <= 0 {
		chefs = oc.Orders.ChefCount()
	}
	queue := oc.Orders.QueueLoadMinutes(c.Request.Context())
	c.JSON(http.StatusOK, services.EstimateWithQueue(cart, time.Now(), chefs, queue))
}

// writeOrderError maps the service error taxonomy onto HTTP codes.
func writeOrderError(c *gin.Context, err error) {
	switch {
	case services.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case services.IsInvalidTransition(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case services.IsPersistence(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
