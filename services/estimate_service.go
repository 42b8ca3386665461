package services

import (
	"time"

	"github.com/roymathewwww/canteen-rush-ai/models"
)

const (
	// DefaultChefCount models the canteen's usual two-cook kitchen.
	DefaultChefCount = 2

	// Fixed penalty per distinct high-complexity dish in the cart,
	// regardless of its quantity.
	highComplexityPenalty = 2
)

// CartEntry pairs a menu item with a requested quantity. Carts exist
// only client-side; they are never persisted.
type CartEntry struct {
	Item     models.MenuItem
	Quantity int
}

// EstimateBreakdown is the estimator output: the minute arithmetic
// plus the resulting clock time. Returned whole so the UI can show
// where the number came from.
type EstimateBreakdown struct {
	BaseMinutes     int       `json:"base_minutes"`
	ParallelMinutes int       `json:"parallel_minutes"`
	PenaltyMinutes  int       `json:"penalty_minutes"`
	QueueMinutes    int       `json:"queue_minutes"`
	TotalMinutes    int       `json:"total_minutes"`
	Predicted       time.Time `json:"-"`
	PredictedClock  string    `json:"predicted_pickup"`
}

// Estimate computes the predicted pickup time for a cart assuming the
// kitchen is otherwise idle. Pure: no I/O, deterministic for identical
// inputs, safe to recompute on every cart mutation.
func Estimate(cart []CartEntry, now time.Time, chefCount int) EstimateBreakdown {
	return EstimateWithQueue(cart, now, chefCount, 0)
}

// EstimateWithQueue additionally accounts for outstanding kitchen
// load: queueMinutes is the per-chef backlog of already-queued orders
// and delays the estimate verbatim. An empty cart always estimates
// zero minutes; callers should disable submission in that case.
func EstimateWithQueue(cart []CartEntry, now time.Time, chefCount, queueMinutes int) EstimateBreakdown {
	if chefCount <= 0 {
		chefCount = DefaultChefCount
	}
	if queueMinutes < 0 {
		queueMinutes = 0
	}

	base := 0
	penalty := 0
	for _, entry := range cart {
		if entry.Quantity <= 0 {
			continue
		}
		// Missing prep/complexity data degrades to zero minutes and
		// "low" rather than failing; this is a UX estimate, not billing.
		if entry.Item.PrepTime > 0 {
			base += entry.Item.PrepTime * entry.Quantity
		}
		if entry.Item.Complexity == models.ComplexityHigh {
			penalty += highComplexityPenalty
		}
	}

	out := EstimateBreakdown{BaseMinutes: base}
	if base == 0 && penalty == 0 {
		out.Predicted = now.Truncate(time.Minute)
		out.PredictedClock = clockTime(out.Predicted)
		return out
	}

	out.ParallelMinutes = (base + chefCount - 1) / chefCount
	out.PenaltyMinutes = penalty
	out.QueueMinutes = queueMinutes
	out.TotalMinutes = out.ParallelMinutes + out.PenaltyMinutes + out.QueueMinutes
	out.Predicted = now.Truncate(time.Minute).Add(time.Duration(out.TotalMinutes) * time.Minute)
	out.PredictedClock = clockTime(out.Predicted)
	return out
}

// clockTime renders minute-granularity wall time; seconds are never
// surfaced to students.
func clockTime(t time.Time) string {
	return t.Format("15:04")
}
