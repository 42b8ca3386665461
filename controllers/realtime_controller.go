package controllers

import (
	"net/http"
	"time"

	"github.com/roymathewwww/canteen-rush-ai/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type RealtimeController struct {
	RT       *services.RealtimeHub
	VendorID string
}

// constructor
func NewRealtimeController(rt *services.RealtimeHub, vendorID string) *RealtimeController {
	return &RealtimeController{RT: rt, VendorID: vendorID}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // tighten behind ALB/CloudFront if needed
}

// GET /ws/orders/:id - live status for one order (student token page)
func (rc *RealtimeController) OrderWS(c *gin.Context) {
	rc.serve(c, services.OrderScope(c.Param("id")))
}

// GET /ws/kitchen - every change on the vendor's active queue
func (rc *RealtimeController) KitchenWS(c *gin.Context) {
	rc.serve(c, services.VendorScope(rc.VendorID))
}

func (rc *RealtimeController) serve(c *gin.Context, scope string) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	cl := &services.WSClient{Scope: scope, Conn: conn}
	rc.RT.Register(cl)

	// optional: ping to keep connections alive through some proxies
	go func() {
		t := time.NewTicker(25 * time.Second)
		defer t.Stop()
		for range t.C {
			if err := cl.WriteMessage(websocket.PingMessage, nil); err != nil {
				rc.RT.Unregister(cl)
				return
			}
		}
	}()

	// read loop ends on client close/error, then unregister
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			rc.RT.Unregister(cl)
			return
		}
	}
}
