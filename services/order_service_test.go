package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/roymathewwww/canteen-rush-ai/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVendor = "canteen_1"

func newTestService(t *testing.T) (*OrderService, *MemoryStore, *RealtimeHub) {
	t.Helper()
	store := NewMemoryStore()
	require.NoError(t, store.UpsertMenuItems(context.Background(), DefaultMenu))
	hub := NewRealtimeHub()
	InitNotifyDeps(hub, nil)
	return NewOrderService(store, testVendor, 2), store, hub
}

// failingStore injects errors around the in-memory adapter.
type failingStore struct {
	Store
	failCreate error
	failGet    error
	failUpdate error
	failList   error
}

func (f *failingStore) CreateOrder(ctx context.Context, o *models.Order) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	return f.Store.CreateOrder(ctx, o)
}

func (f *failingStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	if f.failGet != nil {
		return nil, f.failGet
	}
	return f.Store.GetOrder(ctx, id)
}

func (f *failingStore) UpdateOrderStatus(ctx context.Context, id string, st models.OrderStatus) (*models.Order, error) {
	if f.failUpdate != nil {
		return nil, f.failUpdate
	}
	return f.Store.UpdateOrderStatus(ctx, id, st)
}

func (f *failingStore) ListActive(ctx context.Context, vendorID string) ([]models.Order, error) {
	if f.failList != nil {
		return nil, f.failList
	}
	return f.Store.ListActive(ctx, vendorID)
}

func wrapAndSandwich() []OrderItemRequest {
	return []OrderItemRequest{
		{MenuItemID: 1, Quantity: 2}, // Chicken Wrap, 120
		{MenuItemID: 5, Quantity: 1}, // Grilled Sandwich, 80
	}
}

func TestCreateOrder(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, "21BCE1045", "10:45-11:05", "10:38", wrapAndSandwich())
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, models.StatusOrdered, order.Status)
	assert.Equal(t, testVendor, order.VendorID)
	assert.Equal(t, "10:38", order.PredictedPickup)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 120, order.Items[0].PriceAtTime)
	assert.Equal(t, 80, order.Items[1].PriceAtTime)
	// 320 subtotal + floor(16) tax
	assert.Equal(t, 336, order.Total())
}

func TestCreateOrderValidation(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name      string
		studentID string
		breakSlot string
		items     []OrderItemRequest
	}{
		{"empty student id", "", "10:45-11:05", wrapAndSandwich()},
		{"whitespace student id", "   ", "10:45-11:05", wrapAndSandwich()},
		{"no items", "21BCE1045", "10:45-11:05", nil},
		{"zero quantity", "21BCE1045", "10:45-11:05", []OrderItemRequest{{MenuItemID: 1, Quantity: 0}}},
		{"unknown menu item", "21BCE1045", "10:45-11:05", []OrderItemRequest{{MenuItemID: 99, Quantity: 1}}},
		{"unknown break slot", "21BCE1045", "09:00-09:20", wrapAndSandwich()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateOrder(ctx, tc.studentID, tc.breakSlot, "", tc.items)
			assert.True(t, IsValidation(err), "expected validation error, got %v", err)
		})
	}

	// nothing may have been persisted by any failed attempt
	active, err := store.ListActive(ctx, testVendor)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestCreateOrderPersistenceFailureLeavesNoState(t *testing.T) {
	svc, store, _ := newTestService(t)
	flaky := &failingStore{Store: store, failCreate: errors.New("connection refused")}
	svc = NewOrderService(flaky, testVendor, 2)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, "21BCE1045", "10:45-11:05", "", wrapAndSandwich())
	assert.True(t, IsPersistence(err))

	active, listErr := store.ListActive(ctx, testVendor)
	require.NoError(t, listErr)
	assert.Empty(t, active)
}

func TestTransitionHappyPath(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, "21BCE1045", "10:45-11:05", "", wrapAndSandwich())
	require.NoError(t, err)

	for _, next := range []models.OrderStatus{models.StatusPreparing, models.StatusReady, models.StatusCompleted} {
		updated, err := svc.Transition(ctx, order.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestTransitionRejectsIllegalEdges(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		prepare []models.OrderStatus // edges to walk first
		target  models.OrderStatus
	}{
		{"ordered skips to ready", nil, models.StatusReady},
		{"ordered skips to completed", nil, models.StatusCompleted},
		{"preparing skips to completed", []models.OrderStatus{models.StatusPreparing}, models.StatusCompleted},
		{"ready goes back to preparing", []models.OrderStatus{models.StatusPreparing, models.StatusReady}, models.StatusPreparing},
		{"completed is terminal", []models.OrderStatus{models.StatusPreparing, models.StatusReady, models.StatusCompleted}, models.StatusCancelled},
		{"cancelled is terminal", []models.OrderStatus{models.StatusCancelled}, models.StatusPreparing},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order, err := svc.CreateOrder(ctx, "21BCE1045", "10:45-11:05", "", wrapAndSandwich())
			require.NoError(t, err)
			for _, step := range tc.prepare {
				_, err := svc.Transition(ctx, order.ID, step)
				require.NoError(t, err)
			}

			_, err = svc.Transition(ctx, order.ID, tc.target)
			assert.True(t, IsInvalidTransition(err), "expected invalid transition, got %v", err)
		})
	}
}

func TestTransitionUnknownStatusAndOrder(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Transition(ctx, "nope", models.StatusPreparing)
	assert.True(t, IsNotFound(err))

	order, err := svc.CreateOrder(ctx, "21BCE1045", "10:45-11:05", "", wrapAndSandwich())
	require.NoError(t, err)
	_, err = svc.Transition(ctx, order.ID, models.OrderStatus("collected"))
	assert.True(t, IsValidation(err))
}

func TestCancelReachableFromEveryActiveState(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, prepare := range [][]models.OrderStatus{
		nil,
		{models.StatusPreparing},
		{models.StatusPreparing, models.StatusReady},
	} {
		order, err := svc.CreateOrder(ctx, "21BCE1045", "10:45-11:05", "", wrapAndSandwich())
		require.NoError(t, err)
		for _, step := range prepare {
			_, err := svc.Transition(ctx, order.ID, step)
			require.NoError(t, err)
		}

		updated, err := svc.Transition(ctx, order.ID, models.StatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, updated.Status)
	}
}

func TestListActiveExcludesTerminalAndSortsOldestFirst(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateOrder(ctx, "s1", "10:45-11:05", "", wrapAndSandwich())
	require.NoError(t, err)
	second, err := svc.CreateOrder(ctx, "s2", "10:45-11:05", "", wrapAndSandwich())
	require.NoError(t, err)
	third, err := svc.CreateOrder(ctx, "s3", "10:45-11:05", "", wrapAndSandwich())
	require.NoError(t, err)
	fourth, err := svc.CreateOrder(ctx, "s4", "10:45-11:05", "", wrapAndSandwich())
	require.NoError(t, err)

	// finish one, cancel another; both must disappear but stay stored
	for _, step := range []models.OrderStatus{models.StatusPreparing, models.StatusReady, models.StatusCompleted} {
		_, err := svc.Transition(ctx, second.ID, step)
		require.NoError(t, err)
	}
	_, err = svc.Transition(ctx, third.ID, models.StatusCancelled)
	require.NoError(t, err)

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, first.ID, active[0].ID)
	assert.Equal(t, fourth.ID, active[1].ID)

	// terminal orders remain readable, audit trail intact
	done, err := svc.GetOrder(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, done.Status)
	assert.Len(t, done.Items, 2)
}

func TestTransitionBroadcastsToOrderAndVendorScopes(t *testing.T) {
	svc, _, hub := newTestService(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, "21BCE1045", "10:45-11:05", "", wrapAndSandwich())
	require.NoError(t, err)

	orderSub := hub.Subscribe(OrderScope(order.ID))
	defer orderSub.Close()
	vendorSub := hub.Subscribe(VendorScope(testVendor))
	defer vendorSub.Close()

	_, err = svc.Transition(ctx, order.ID, models.StatusPreparing)
	require.NoError(t, err)

	for _, sub := range []*Subscription{orderSub, vendorSub} {
		select {
		case msg := <-sub.C:
			var event struct {
				Kind  string       `json:"kind"`
				Order models.Order `json:"order"`
			}
			require.NoError(t, json.Unmarshal(msg, &event))
			assert.Equal(t, "order.updated", event.Kind)
			assert.Equal(t, order.ID, event.Order.ID)
			assert.Equal(t, models.StatusPreparing, event.Order.Status)
		case <-time.After(time.Second):
			t.Fatal("no broadcast received")
		}
	}
}

func TestCreateBroadcastsToVendorScope(t *testing.T) {
	svc, _, hub := newTestService(t)
	ctx := context.Background()

	vendorSub := hub.Subscribe(VendorScope(testVendor))
	defer vendorSub.Close()

	order, err := svc.CreateOrder(ctx, "21BCE1045", "10:45-11:05", "", wrapAndSandwich())
	require.NoError(t, err)

	select {
	case msg := <-vendorSub.C:
		var event struct {
			Kind  string       `json:"kind"`
			Order models.Order `json:"order"`
		}
		require.NoError(t, json.Unmarshal(msg, &event))
		assert.Equal(t, "order.created", event.Kind)
		assert.Equal(t, order.ID, event.Order.ID)
	case <-time.After(time.Second):
		t.Fatal("no broadcast received")
	}
}

func TestPriceSnapshotSurvivesCatalogEdits(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, "21BCE1045", "10:45-11:05", "", []OrderItemRequest{{MenuItemID: 1, Quantity: 2}})
	require.NoError(t, err)
	require.Equal(t, 252, order.Total()) // 240 + floor(12)

	repriced := DefaultMenu[0]
	repriced.Price = 999
	require.NoError(t, store.UpsertMenuItems(ctx, []models.MenuItem{repriced}))

	fetched, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, fetched.Items[0].PriceAtTime)
	assert.Equal(t, 252, fetched.Total())
}

func TestUrgencyClassification(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)

	cases := []struct {
		waitMinutes int
		want        string
	}{
		{0, UrgencyLow},
		{3, UrgencyLow},
		{5, UrgencyLow},
		{6, UrgencyMed},
		{10, UrgencyMed},
		{12, UrgencyHigh},
	}

	for _, tc := range cases {
		order := &models.Order{CreatedAt: now.Add(-time.Duration(tc.waitMinutes) * time.Minute)}
		assert.Equalf(t, tc.want, Urgency(order, now), "wait of %d minutes", tc.waitMinutes)
	}
}

func TestListActiveFallsBackToSnapshotWhileOffline(t *testing.T) {
	svc, store, _ := newTestService(t)
	flaky := &failingStore{Store: store}
	svc = NewOrderService(flaky, testVendor, 2)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, "21BCE1045", "10:45-11:05", "", wrapAndSandwich())
	require.NoError(t, err)
	_, err = svc.ListActive(ctx) // warm the snapshot
	require.NoError(t, err)
	require.False(t, svc.Offline())

	flaky.failList = errors.New("connection refused")

	active, err := svc.ListActive(ctx)
	require.NoError(t, err, "reads must degrade, not fail")
	require.Len(t, active, 1)
	assert.Equal(t, order.ID, active[0].ID)
	assert.True(t, svc.Offline())

	flaky.failList = nil

	_, err = svc.ListActive(ctx)
	require.NoError(t, err)
	assert.False(t, svc.Offline())
}

func TestTransientTransitionFailureKeepsOptimisticState(t *testing.T) {
	svc, store, _ := newTestService(t)
	flaky := &failingStore{Store: store}
	svc = NewOrderService(flaky, testVendor, 2)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, "21BCE1045", "10:45-11:05", "", wrapAndSandwich())
	require.NoError(t, err)

	flaky.failUpdate = context.DeadlineExceeded

	_, err = svc.Transition(ctx, order.ID, models.StatusPreparing)
	require.True(t, IsPersistence(err))
	assert.True(t, svc.Offline())

	// the optimistic change is visible in the degraded view
	flaky.failList = errors.New("still down")
	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, models.StatusPreparing, active[0].Status)

	// once the store answers again the queued write is replayed
	flaky.failUpdate = nil
	flaky.failList = nil
	_, err = svc.ListActive(ctx)
	require.NoError(t, err)

	stored, err := store.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, stored.Status)
}

func TestNonTransientTransitionFailureIsSurfaced(t *testing.T) {
	svc, store, _ := newTestService(t)
	flaky := &failingStore{Store: store, failUpdate: errors.New("constraint violation")}
	svc = NewOrderService(flaky, testVendor, 2)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, "21BCE1045", "10:45-11:05", "", wrapAndSandwich())
	require.NoError(t, err)

	_, err = svc.Transition(ctx, order.ID, models.StatusPreparing)
	require.True(t, IsPersistence(err))

	// no optimistic state kept for a non-transient failure
	stored, err := store.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOrdered, stored.Status)
	assert.False(t, svc.Offline())
}

func TestQueueLoadMinutes(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	// 2x wrap (3m) = 6 prep minutes over 2 chefs
	_, err := svc.CreateOrder(ctx, "s1", "10:45-11:05", "", []OrderItemRequest{{MenuItemID: 1, Quantity: 2}})
	require.NoError(t, err)
	assert.Equal(t, 3, svc.QueueLoadMinutes(ctx))

	// ready orders no longer occupy the kitchen
	ready, err := svc.CreateOrder(ctx, "s2", "10:45-11:05", "", []OrderItemRequest{{MenuItemID: 5, Quantity: 2}})
	require.NoError(t, err)
	assert.Equal(t, 9, svc.QueueLoadMinutes(ctx)) // (6+12)/2

	for _, step := range []models.OrderStatus{models.StatusPreparing, models.StatusReady} {
		_, err := svc.Transition(ctx, ready.ID, step)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, svc.QueueLoadMinutes(ctx))
}

func TestSummary(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now()

	a, err := svc.CreateOrder(ctx, "s1", "10:45-11:05", "", wrapAndSandwich())
	require.NoError(t, err)
	_, err = svc.CreateOrder(ctx, "s2", "11:30-11:50", "", wrapAndSandwich())
	require.NoError(t, err)

	_, err = svc.Transition(ctx, a.ID, models.StatusPreparing)
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Ordered)
	assert.Equal(t, 1, summary.Preparing)
	assert.Equal(t, 0, summary.Ready)
	assert.Equal(t, int64(0), summary.CompletedToday)
	assert.False(t, summary.Offline)

	for _, step := range []models.OrderStatus{models.StatusReady, models.StatusCompleted} {
		_, err := svc.Transition(ctx, a.ID, step)
		require.NoError(t, err)
	}

	summary, err = svc.Summary(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Preparing)
	assert.Equal(t, int64(1), summary.CompletedToday)
}
