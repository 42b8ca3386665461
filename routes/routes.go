package routes

import (
	"github.com/roymathewwww/canteen-rush-ai/controllers"
	"github.com/roymathewwww/canteen-rush-ai/middlewares"
	"github.com/roymathewwww/canteen-rush-ai/services"

	"github.com/gin-gonic/gin"
)

func SetupRouter(orders *services.OrderService, menu *services.MenuService, hub *services.RealtimeHub, push *services.PushService) *gin.Engine {
	r := gin.Default()

	mc := controllers.NewMenuController(menu)
	oc := controllers.NewOrderController(orders, menu)
	kc := controllers.NewKitchenController(orders)
	rc := controllers.NewRealtimeController(hub, orders.VendorID())
	dc := controllers.NewDevController(menu, orders)
	dvc := controllers.NewDeviceController(push)

	r.GET("/healthz", dc.Health)
	r.POST("/dev/seed", dc.Seed)

	// Student-facing routes
	r.GET("/menu", mc.List)
	order := r.Group("/orders")
	{
		order.POST("", oc.Create)
		order.POST("/estimate", oc.Estimate)
		order.GET("/:id", oc.Get)
	}
	r.POST("/devices", dvc.Register)

	// Staff-only kitchen routes
	kitchen := r.Group("/kitchen")
	kitchen.Use(middlewares.StaffOnly())
	{
		kitchen.GET("/orders", kc.ListActive)
		kitchen.POST("/orders/:id/transition", kc.Transition)
		kitchen.GET("/summary", kc.Summary)
	}

	// Live feeds
	r.GET("/ws/orders/:id", rc.OrderWS)
	r.GET("/ws/kitchen", rc.KitchenWS)

	return r
}
