package services

import (
	"context"

	"github.com/roymathewwww/canteen-rush-ai/models"

	log "github.com/sirupsen/logrus"
)

// DefaultMenu is the vendor's starter catalog, loaded when the store
// holds no menu yet.
var DefaultMenu = []models.MenuItem{
	{ID: 1, Name: "Chicken Wrap", Price: 120, PrepTime: 3, Complexity: models.ComplexityLow, Category: "Wraps", Description: "Grilled chicken with fresh veggies.", IsAvailable: true},
	{ID: 2, Name: "Veg Burger", Price: 90, PrepTime: 5, Complexity: models.ComplexityMed, Category: "Burgers", Description: "Crispy patty with cheese slice.", IsAvailable: true},
	{ID: 3, Name: "Spicy Paneer Wrap", Price: 110, PrepTime: 4, Complexity: models.ComplexityMed, Category: "Wraps", Description: "Cottage cheese in spicy marinade.", IsAvailable: true},
	{ID: 4, Name: "Cold Coffee", Price: 60, PrepTime: 2, Complexity: models.ComplexityLow, Category: "Drinks", Description: "Chilled brewed coffee with milk.", IsAvailable: true},
	{ID: 5, Name: "Grilled Sandwich", Price: 80, PrepTime: 6, Complexity: models.ComplexityHigh, Category: "Sandwiches", Description: "Bombay style vegetable grill.", IsAvailable: true},
	{ID: 6, Name: "Cheese Omelette", Price: 50, PrepTime: 4, Complexity: models.ComplexityLow, Category: "Special", Description: "Three egg omelette with cheddar.", IsAvailable: true},
	{ID: 7, Name: "Masala Chai", Price: 20, PrepTime: 2, Complexity: models.ComplexityLow, Category: "Drinks", Description: "Hot spiced tea.", IsAvailable: true},
}

// MenuService reads the catalog. Menu mutation belongs to the admin
// surface; the only write here is the first-run seed.
type MenuService struct {
	store Store
}

func NewMenuService(store Store) *MenuService {
	return &MenuService{store: store}
}

func (s *MenuService) List(ctx context.Context, category string, availableOnly bool) ([]models.MenuItem, error) {
	items, err := s.store.ListMenu(ctx, category)
	if err != nil {
		return nil, err
	}
	if !availableOnly {
		return items, nil
	}
	out := items[:0]
	for _, it := range items {
		if it.IsAvailable {
			out = append(out, it)
		}
	}
	return out, nil
}

// CartFor resolves item requests against the catalog for estimation.
// Unknown ids are skipped; the estimator is best-effort by contract.
func (s *MenuService) CartFor(ctx context.Context, items []OrderItemRequest) ([]CartEntry, error) {
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.MenuItemID)
	}
	catalog, err := s.store.MenuItemsByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	cart := make([]CartEntry, 0, len(items))
	for _, it := range items {
		if mi, ok := catalog[it.MenuItemID]; ok {
			cart = append(cart, CartEntry{Item: mi, Quantity: it.Quantity})
		}
	}
	return cart, nil
}

// SeedIfEmpty loads the default menu on a fresh store.
func (s *MenuService) SeedIfEmpty(ctx context.Context) error {
	n, err := s.store.CountMenuItems(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if err := s.store.UpsertMenuItems(ctx, DefaultMenu); err != nil {
		return err
	}
	log.WithField("items", len(DefaultMenu)).Info("seeded default menu")
	return nil
}
