package services

import (
	"github.com/roymathewwww/canteen-rush-ai/models"
)

type notifyDeps struct {
	hub  *RealtimeHub
	push *PushService
}

var _notify notifyDeps

// InitNotifyDeps wires the fan-out targets once at startup. Push may
// be nil when SNS is not configured; events still reach the hub.
func InitNotifyDeps(hub *RealtimeHub, push *PushService) {
	_notify = notifyDeps{hub: hub, push: push}
}

// EmitOrderEvent broadcasts an order change to the order's own
// subscribers and the vendor's kitchen feed. Safe to call anywhere.
func EmitOrderEvent(kind string, order *models.Order) {
	if _notify.hub == nil {
		return // not initialized
	}
	payload := map[string]any{
		"kind":  kind,
		"order": order,
	}
	_notify.hub.Broadcast(OrderScope(order.ID), payload)
	_notify.hub.Broadcast(VendorScope(order.VendorID), payload)

	if _notify.push != nil && order.Status == models.StatusReady {
		_notify.push.PushOrderReady(order)
	}
}
