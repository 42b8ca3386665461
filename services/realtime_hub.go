package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// Subscription scopes. A client watches either a single order or the
// whole active queue for a vendor.
func OrderScope(orderID string) string   { return "order:" + orderID }
func VendorScope(vendorID string) string { return "vendor:" + vendorID }

type WSClient struct {
	Scope string
	Conn  *websocket.Conn

	// gorilla/websocket allows at most one concurrent writer per
	// connection; every write (broadcasts and keepalive pings alike)
	// must go through WriteMessage.
	writeMu sync.Mutex
}

func (c *WSClient) WriteMessage(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteMessage(messageType, data)
}

// Subscription is an in-process change feed for one scope. Each
// consumer holds its own handle and must Close it on teardown so the
// hub does not leak channels.
type Subscription struct {
	C chan []byte

	hub   *RealtimeHub
	scope string
	once  sync.Once
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.unsubscribe(s)
		close(s.C)
	})
}

// RealtimeHub fans order-change events out to websocket clients and
// in-process subscribers, keyed by scope.
type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[string]map[*WSClient]struct{}
	subs    map[string]map[*Subscription]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{
		clients: make(map[string]map[*WSClient]struct{}),
		subs:    make(map[string]map[*Subscription]struct{}),
	}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.Scope] == nil {
		h.clients[c.Scope] = make(map[*WSClient]struct{})
	}
	h.clients[c.Scope][c] = struct{}{}
	h.mu.Unlock()
}

func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.Scope]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.Scope)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

func (h *RealtimeHub) Subscribe(scope string) *Subscription {
	sub := &Subscription{
		C:     make(chan []byte, 16),
		hub:   h,
		scope: scope,
	}
	h.mu.Lock()
	if h.subs[scope] == nil {
		h.subs[scope] = make(map[*Subscription]struct{})
	}
	h.subs[scope][sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

func (h *RealtimeHub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	if set := h.subs[sub.scope]; set != nil {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, sub.scope)
		}
	}
	h.mu.Unlock()
}

// Broadcast pushes a payload to every watcher of a scope. Slow
// in-process subscribers are skipped rather than blocking the caller.
func (h *RealtimeHub) Broadcast(scope string, payload any) {
	msg, _ := json.Marshal(payload)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[scope] {
		_ = c.WriteMessage(websocket.TextMessage, msg)
	}
	for sub := range h.subs[scope] {
		select {
		case sub.C <- msg:
		default:
		}
	}
}
