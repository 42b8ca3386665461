package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/roymathewwww/canteen-rush-ai/models"
)

// MemoryStore is the offline adapter: the same capability surface as
// the live store, held in process memory. Selected at startup when no
// database is configured, and used as the fixture backend in tests.
type MemoryStore struct {
	mu         sync.RWMutex
	menu       map[uint]models.MenuItem
	orders     map[string]*models.Order
	nextItemID uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		menu:   make(map[uint]models.MenuItem),
		orders: make(map[string]*models.Order),
	}
}

func (s *MemoryStore) UpsertMenuItems(_ context.Context, items []models.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		s.menu[it.ID] = it
	}
	return nil
}

func (s *MemoryStore) ListMenu(_ context.Context, category string) ([]models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.MenuItem, 0, len(s.menu))
	for _, it := range s.menu {
		if category == "" || it.Category == category {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) MenuItemsByID(_ context.Context, ids []uint) (map[uint]models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[uint]models.MenuItem, len(ids))
	for _, id := range ids {
		if it, ok := s.menu[id]; ok {
			out[id] = it
		}
	}
	return out, nil
}

func (s *MemoryStore) CountMenuItems(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.menu)), nil
}

func (s *MemoryStore) CreateOrder(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := cloneOrder(order)
	for i := range stored.Items {
		s.nextItemID++
		stored.Items[i].ID = s.nextItemID
		stored.Items[i].OrderID = stored.ID
	}
	s.orders[stored.ID] = stored
	s.attachMenuLocked(stored)
	// reflect assigned ids back to the caller, like the live store does
	*order = *cloneOrder(stored)
	return nil
}

func (s *MemoryStore) GetOrder(_ context.Context, id string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.orders[id]
	if !ok {
		return nil, ErrNoRow
	}
	return cloneOrder(stored), nil
}

func (s *MemoryStore) UpdateOrderStatus(_ context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.orders[id]
	if !ok {
		return nil, ErrNoRow
	}
	stored.Status = status
	stored.UpdatedAt = time.Now()
	return cloneOrder(stored), nil
}

func (s *MemoryStore) ListActive(_ context.Context, vendorID string) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Order
	for _, o := range s.orders {
		if o.VendorID == vendorID && o.Status.Active() {
			out = append(out, *cloneOrder(o))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) CountCompletedSince(_ context.Context, vendorID string, since time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, o := range s.orders {
		if o.VendorID == vendorID && o.Status == models.StatusCompleted && !o.UpdatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

// attachMenuLocked joins current catalog rows onto the order items so
// reads carry menu names, mirroring the live store's preload.
func (s *MemoryStore) attachMenuLocked(o *models.Order) {
	for i := range o.Items {
		if it, ok := s.menu[o.Items[i].MenuItemID]; ok {
			snapshot := it
			o.Items[i].MenuItem = &snapshot
		}
	}
}

func cloneOrder(o *models.Order) *models.Order {
	c := *o
	c.Items = make([]models.OrderItem, len(o.Items))
	copy(c.Items, o.Items)
	for i := range c.Items {
		if c.Items[i].MenuItem != nil {
			mi := *c.Items[i].MenuItem
			c.Items[i].MenuItem = &mi
		}
	}
	return &c
}
