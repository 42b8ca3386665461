package models

import "time"

type OrderStatus string

const (
	StatusOrdered   OrderStatus = "ordered"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// Tax applied on the item subtotal, floor-rounded.
const TaxRatePercent = 5

// The break windows a student can reserve a pickup for.
var BreakSlots = []string{
	"10:45-11:05",
	"11:30-11:50",
	"12:15-12:35",
	"13:00-13:20",
}

func ValidBreakSlot(slot string) bool {
	for _, s := range BreakSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// forwardEdges defines the only legal lifecycle moves. Cancelled is
// reachable from every non-terminal state; terminals have no exits.
var forwardEdges = map[OrderStatus][]OrderStatus{
	StatusOrdered:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

func (s OrderStatus) Valid() bool {
	_, ok := forwardEdges[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Active reports whether the order still belongs on the kitchen display.
func (s OrderStatus) Active() bool {
	return s == StatusOrdered || s == StatusPreparing || s == StatusReady
}

func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, next := range forwardEdges[s] {
		if next == to {
			return true
		}
	}
	return false
}

// A pre-order placed by a student. Owned by the order service once
// created; cancelling is a status change, items are never deleted.
type Order struct {
	ID              string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	StudentID       string      `gorm:"not null;index" json:"student_id"`
	VendorID        string      `gorm:"not null;index" json:"vendor_id"`
	BreakSlot       string      `json:"break_slot"`
	Status          OrderStatus `gorm:"size:20;index" json:"status"`
	OrderTime       time.Time   `json:"order_time"`
	PredictedPickup string      `json:"predicted_pickup,omitempty"` // clock time, "15:04"
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	Items           []OrderItem `json:"items,omitempty"`
}

// One line of an order. PriceAtTime is copied from the catalog at
// submission so later price edits never change a placed order's total.
type OrderItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     string    `gorm:"type:varchar(36);index" json:"order_id"`
	MenuItemID  uint      `json:"menu_item_id"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	PriceAtTime int       `gorm:"not null" json:"price_at_time"`
	MenuItem    *MenuItem `gorm:"foreignKey:MenuItemID" json:"menu_item,omitempty"`
}

// Subtotal sums the line totals at their captured prices.
func (o *Order) Subtotal() int {
	sum := 0
	for _, it := range o.Items {
		sum += it.PriceAtTime * it.Quantity
	}
	return sum
}

// Total is the payable amount: subtotal plus floor-rounded tax.
// Not persisted; always reproducible from the items.
func (o *Order) Total() int {
	sub := o.Subtotal()
	return sub + sub*TaxRatePercent/100
}
