package services

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/roymathewwww/canteen-rush-ai/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Urgency buckets for the kitchen display. Derived on every read,
// never stored.
const (
	UrgencyLow  = "low"
	UrgencyMed  = "med"
	UrgencyHigh = "high"
)

// OrderItemRequest is one requested line of a new order.
type OrderItemRequest struct {
	MenuItemID uint `json:"menu_item_id" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required"`
}

// OrderService owns the order lifecycle: it is the only mutation path
// for an order's status, and every successful change is broadcast to
// subscribers. When the store becomes unreachable it degrades to a
// read-only snapshot and queues writes for a best-effort replay.
type OrderService struct {
	store     Store
	vendorID  string
	chefCount int

	mu       sync.RWMutex
	snapshot []models.Order // last good active list, served while offline
	offline  bool
	pending  []pendingStatus // queued transitions, replay not guaranteed
}

type pendingStatus struct {
	orderID string
	status  models.OrderStatus
}

func NewOrderService(store Store, vendorID string, chefCount int) *OrderService {
	if chefCount <= 0 {
		chefCount = DefaultChefCount
	}
	return &OrderService{store: store, vendorID: vendorID, chefCount: chefCount}
}

func (s *OrderService) VendorID() string { return s.vendorID }
func (s *OrderService) ChefCount() int   { return s.chefCount }

// Offline reports whether reads are currently served from the cached
// snapshot instead of the store.
func (s *OrderService) Offline() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.offline
}

// CreateOrder validates the request, snapshots catalog prices onto
// the items, and persists order plus items as one atomic unit. Nothing
// is persisted when validation or the write fails.
func (s *OrderService) CreateOrder(ctx context.Context, studentID, breakSlot, predictedPickup string, items []OrderItemRequest) (*models.Order, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, newValidationError("student id is required")
	}
	if len(items) == 0 {
		return nil, newValidationError("order must contain at least one item")
	}
	if !models.ValidBreakSlot(breakSlot) {
		return nil, newValidationError("unknown break slot %q", breakSlot)
	}
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, newValidationError("quantity must be at least 1 for menu item %d", it.MenuItemID)
		}
		ids = append(ids, it.MenuItemID)
	}

	catalog, err := s.store.MenuItemsByID(ctx, ids)
	if err != nil {
		return nil, s.persistenceFailure("create", err)
	}

	now := time.Now()
	order := &models.Order{
		ID:              uuid.NewString(),
		StudentID:       studentID,
		VendorID:        s.vendorID,
		BreakSlot:       breakSlot,
		Status:          models.StatusOrdered,
		OrderTime:       now,
		PredictedPickup: predictedPickup,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, it := range items {
		mi, ok := catalog[it.MenuItemID]
		if !ok {
			return nil, newValidationError("menu item %d does not exist", it.MenuItemID)
		}
		order.Items = append(order.Items, models.OrderItem{
			OrderID:     order.ID,
			MenuItemID:  mi.ID,
			Quantity:    it.Quantity,
			PriceAtTime: mi.Price, // fixed here, never recomputed
		})
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		return nil, s.persistenceFailure("create", err)
	}

	s.rememberActive(order)
	EmitOrderEvent("order.created", order)
	log.WithFields(log.Fields{
		"order":   order.ID,
		"student": order.StudentID,
		"slot":    order.BreakSlot,
		"total":   order.Total(),
	}).Info("order created")
	return order, nil
}

// Transition moves an order along a forward lifecycle edge. Illegal
// edges and unknown ids fail immediately; a transient store failure
// keeps the optimistic local change queued for later reconciliation.
func (s *OrderService) Transition(ctx context.Context, orderID string, target models.OrderStatus) (*models.Order, error) {
	if !target.Valid() {
		return nil, newValidationError("unknown status %q", target)
	}

	current, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransition(target) {
		return nil, InvalidTransitionError{From: current.Status, To: target}
	}

	updated, err := s.store.UpdateOrderStatus(ctx, orderID, target)
	if errors.Is(err, ErrNoRow) {
		return nil, NotFoundError{OrderID: orderID}
	}
	if err != nil {
		perr := s.persistenceFailure("transition", err)
		var p PersistenceError
		if errors.As(perr, &p) && p.Transient {
			// last write wins: keep the optimistic change locally and
			// queue it; the replay is best-effort only.
			current.Status = target
			current.UpdatedAt = time.Now()
			s.mu.Lock()
			s.applySnapshotLocked(current)
			s.pending = append(s.pending, pendingStatus{orderID: orderID, status: target})
			s.offline = true
			s.mu.Unlock()
			EmitOrderEvent("order.updated", current)
		}
		return nil, perr
	}

	s.rememberActive(updated)
	EmitOrderEvent("order.updated", updated)
	log.WithFields(log.Fields{
		"order": updated.ID,
		"from":  current.Status,
		"to":    updated.Status,
	}).Info("order transitioned")
	return updated, nil
}

// GetOrder fetches one order with its items and menu names. While
// offline it answers from the snapshot.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if errors.Is(err, ErrNoRow) {
		return nil, NotFoundError{OrderID: orderID}
	}
	if err != nil {
		if o := s.snapshotOrder(orderID); o != nil {
			s.enterOffline("get", err)
			return o, nil
		}
		return nil, s.persistenceFailure("get", err)
	}
	s.recoverIfOffline(ctx)
	return order, nil
}

// ListActive returns the vendor's outstanding orders, oldest first.
// Completed and cancelled orders never appear here but are kept in the
// store as an audit trail. A store failure degrades to the last good
// snapshot instead of a hard error.
func (s *OrderService) ListActive(ctx context.Context) ([]models.Order, error) {
	orders, err := s.store.ListActive(ctx, s.vendorID)
	if err != nil {
		s.enterOffline("list", err)
		s.mu.RLock()
		defer s.mu.RUnlock()
		out := make([]models.Order, len(s.snapshot))
		copy(out, s.snapshot)
		return out, nil
	}

	s.mu.Lock()
	s.snapshot = orders
	s.mu.Unlock()
	s.recoverIfOffline(ctx)

	out := make([]models.Order, len(orders))
	copy(out, orders)
	return out, nil
}

// Urgency classifies how long an order has been waiting for staff
// action. Display-only.
func Urgency(order *models.Order, now time.Time) string {
	wait := now.Sub(order.CreatedAt).Minutes()
	switch {
	case wait > 10:
		return UrgencyHigh
	case wait > 5:
		return UrgencyMed
	default:
		return UrgencyLow
	}
}

// QueueLoadMinutes estimates the per-chef backlog of orders not yet
// ready, so a new cart's estimate can account for kitchen load.
func (s *OrderService) QueueLoadMinutes(ctx context.Context) int {
	orders, err := s.ListActive(ctx)
	if err != nil {
		return 0
	}
	total := 0
	for _, o := range orders {
		if o.Status == models.StatusReady {
			continue
		}
		for _, it := range o.Items {
			if it.MenuItem != nil {
				total += it.MenuItem.PrepTime * it.Quantity
			}
		}
	}
	return (total + s.chefCount - 1) / s.chefCount
}

// VendorSummary aggregates the kitchen display header numbers.
type VendorSummary struct {
	Ordered        int     `json:"ordered"`
	Preparing      int     `json:"preparing"`
	Ready          int     `json:"ready"`
	AvgWaitMinutes float64 `json:"avg_wait_minutes"`
	CompletedToday int64   `json:"completed_today"`
	Offline        bool    `json:"offline"`
}

func (s *OrderService) Summary(ctx context.Context, now time.Time) (*VendorSummary, error) {
	orders, err := s.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := &VendorSummary{Offline: s.Offline()}
	totalWait := 0.0
	for _, o := range orders {
		switch o.Status {
		case models.StatusOrdered:
			out.Ordered++
		case models.StatusPreparing:
			out.Preparing++
		case models.StatusReady:
			out.Ready++
		}
		totalWait += now.Sub(o.CreatedAt).Minutes()
	}
	if len(orders) > 0 {
		out.AvgWaitMinutes = totalWait / float64(len(orders))
	}
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if n, err := s.store.CountCompletedSince(ctx, s.vendorID, dayStart); err == nil {
		out.CompletedToday = n
	}
	return out, nil
}

// ---- offline bookkeeping ----

func (s *OrderService) persistenceFailure(op string, err error) error {
	perr := PersistenceError{Op: op, Err: err, Transient: transientErr(err)}
	log.WithError(err).WithField("op", op).Warn("store failure")
	return perr
}

func (s *OrderService) enterOffline(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.offline {
		log.WithError(err).WithField("op", op).Warn("store unreachable, serving cached snapshot")
		s.offline = true
	}
}

// recoverIfOffline replays queued writes after the store starts
// answering again. Replays that fail are logged and dropped.
func (s *OrderService) recoverIfOffline(ctx context.Context) {
	s.mu.Lock()
	if !s.offline {
		s.mu.Unlock()
		return
	}
	s.offline = false
	queued := s.pending
	s.pending = nil
	s.mu.Unlock()

	log.WithField("queued", len(queued)).Info("store reachable again")
	for _, w := range queued {
		if _, err := s.store.UpdateOrderStatus(ctx, w.orderID, w.status); err != nil {
			log.WithError(err).WithField("order", w.orderID).Warn("dropping queued transition")
		}
	}
}

func (s *OrderService) snapshotOrder(orderID string) *models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.snapshot {
		if s.snapshot[i].ID == orderID {
			o := s.snapshot[i]
			return &o
		}
	}
	return nil
}

// rememberActive merges a fresh order state into the snapshot so the
// offline view stays as current as possible.
func (s *OrderService) rememberActive(order *models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applySnapshotLocked(order)
}

func (s *OrderService) applySnapshotLocked(order *models.Order) {
	for i := range s.snapshot {
		if s.snapshot[i].ID == order.ID {
			if order.Status.Active() {
				s.snapshot[i] = *order
			} else {
				s.snapshot = append(s.snapshot[:i], s.snapshot[i+1:]...)
			}
			return
		}
	}
	if order.Status.Active() {
		s.snapshot = append(s.snapshot, *order)
	}
}

// transientErr classifies failures worth keeping optimistic state
// for: network-level errors and deadline hits, not constraint or
// query bugs.
func transientErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
