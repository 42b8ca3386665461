package services

import (
	"context"
	"errors"
	"time"

	"github.com/roymathewwww/canteen-rush-ai/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is the live persistence adapter backed by Postgres.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) UpsertMenuItems(ctx context.Context, items []models.MenuItem) error {
	if len(items) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&items).Error
}

func (s *GormStore) ListMenu(ctx context.Context, category string) ([]models.MenuItem, error) {
	var items []models.MenuItem
	q := s.db.WithContext(ctx).Order("category, id")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Find(&items).Error
	return items, err
}

func (s *GormStore) MenuItemsByID(ctx context.Context, ids []uint) (map[uint]models.MenuItem, error) {
	var items []models.MenuItem
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]models.MenuItem, len(items))
	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}

func (s *GormStore) CountMenuItems(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.MenuItem{}).Count(&n).Error
	return n, err
}

// CreateOrder writes the order and its items in one transaction so a
// reader can never observe an order without items or vice versa.
func (s *GormStore) CreateOrder(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
}

func (s *GormStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items.MenuItem").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoRow
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *GormStore) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNoRow
	}
	return s.GetOrder(ctx, id)
}

func (s *GormStore) ListActive(ctx context.Context, vendorID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items.MenuItem").
		Where("vendor_id = ? AND status IN ?", vendorID,
			[]models.OrderStatus{models.StatusOrdered, models.StatusPreparing, models.StatusReady}).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

func (s *GormStore) CountCompletedSince(ctx context.Context, vendorID string, since time.Time) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("vendor_id = ? AND status = ? AND updated_at >= ?", vendorID, models.StatusCompleted, since).
		Count(&n).Error
	return n, err
}
