package services

import (
	"context"
	"errors"
	"time"

	"github.com/roymathewwww/canteen-rush-ai/models"
)

// ErrNoRow is returned by store adapters when a lookup matches
// nothing. The order service maps it onto NotFoundError.
var ErrNoRow = errors.New("store: no matching row")

// Store is the persistence capability the order and menu services
// depend on. Two implementations exist: a live GORM/Postgres adapter
// and an in-memory adapter used for offline mode and tests. The
// adapter is selected once at startup, never branched on per call.
type Store interface {
	// Catalog. UpsertMenuItems inserts-or-replaces by id; the order
	// flow only reads the catalog.
	UpsertMenuItems(ctx context.Context, items []models.MenuItem) error
	ListMenu(ctx context.Context, category string) ([]models.MenuItem, error)
	MenuItemsByID(ctx context.Context, ids []uint) (map[uint]models.MenuItem, error)
	CountMenuItems(ctx context.Context) (int64, error)

	// Orders. CreateOrder persists the order and all its items as one
	// atomic unit; on failure no partial state may remain.
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
	ListActive(ctx context.Context, vendorID string) ([]models.Order, error)
	CountCompletedSince(ctx context.Context, vendorID string, since time.Time) (int64, error)
}
