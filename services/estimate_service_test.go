package services

import (
	"testing"
	"time"

	"github.com/roymathewwww/canteen-rush-ai/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	chickenWrap     = models.MenuItem{ID: 1, Name: "Chicken Wrap", Price: 120, PrepTime: 3, Complexity: models.ComplexityLow}
	grilledSandwich = models.MenuItem{ID: 5, Name: "Grilled Sandwich", Price: 80, PrepTime: 6, Complexity: models.ComplexityHigh}
)

func at1030() time.Time {
	return time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
}

func TestEstimateKnownScenario(t *testing.T) {
	// 2x wrap (3m, low) + 1x sandwich (6m, high), two chefs, 10:30:
	// base 12, parallel 6, penalty 2, pickup 10:38.
	cart := []CartEntry{
		{Item: chickenWrap, Quantity: 2},
		{Item: grilledSandwich, Quantity: 1},
	}

	out := Estimate(cart, at1030(), 2)

	assert.Equal(t, 12, out.BaseMinutes)
	assert.Equal(t, 6, out.ParallelMinutes)
	assert.Equal(t, 2, out.PenaltyMinutes)
	assert.Equal(t, 8, out.TotalMinutes)
	assert.Equal(t, "10:38", out.PredictedClock)
}

func TestEstimateEmptyCart(t *testing.T) {
	out := Estimate(nil, at1030(), 2)

	assert.Equal(t, 0, out.TotalMinutes)
	assert.Equal(t, "10:30", out.PredictedClock)
	assert.True(t, out.Predicted.Equal(at1030()))
}

func TestEstimateSingleChefHasNoDivisionEffect(t *testing.T) {
	cart := []CartEntry{
		{Item: chickenWrap, Quantity: 3},
		{Item: grilledSandwich, Quantity: 2},
	}

	out := Estimate(cart, at1030(), 1)

	require.Equal(t, 21, out.BaseMinutes)
	assert.Equal(t, out.BaseMinutes, out.ParallelMinutes)
}

func TestEstimateCeilsPartialMinutes(t *testing.T) {
	cart := []CartEntry{{Item: chickenWrap, Quantity: 3}} // 9 minutes over 2 chefs

	out := Estimate(cart, at1030(), 2)

	assert.Equal(t, 5, out.ParallelMinutes)
}

func TestEstimateIsDeterministic(t *testing.T) {
	cart := []CartEntry{
		{Item: grilledSandwich, Quantity: 2},
		{Item: chickenWrap, Quantity: 1},
	}

	first := Estimate(cart, at1030(), 2)
	second := Estimate(cart, at1030(), 2)

	assert.Equal(t, first, second)
}

func TestEstimatePenaltyPerDistinctItemNotPerUnit(t *testing.T) {
	cart := []CartEntry{{Item: grilledSandwich, Quantity: 4}}

	out := Estimate(cart, at1030(), 2)

	assert.Equal(t, 2, out.PenaltyMinutes)
}

func TestEstimateDefaultsMissingFieldsToZero(t *testing.T) {
	mystery := models.MenuItem{ID: 9, Name: "Mystery Special"}
	cart := []CartEntry{
		{Item: mystery, Quantity: 2},
		{Item: chickenWrap, Quantity: 1},
	}

	out := Estimate(cart, at1030(), 2)

	assert.Equal(t, 3, out.BaseMinutes)
	assert.Equal(t, 0, out.PenaltyMinutes)
}

func TestEstimateInvalidChefCountFallsBackToDefault(t *testing.T) {
	cart := []CartEntry{{Item: chickenWrap, Quantity: 4}} // 12 minutes

	out := Estimate(cart, at1030(), 0)

	assert.Equal(t, 6, out.ParallelMinutes)
}

func TestEstimateSkipsNonPositiveQuantities(t *testing.T) {
	cart := []CartEntry{
		{Item: grilledSandwich, Quantity: 0},
		{Item: chickenWrap, Quantity: 2},
	}

	out := Estimate(cart, at1030(), 2)

	assert.Equal(t, 6, out.BaseMinutes)
	assert.Equal(t, 0, out.PenaltyMinutes)
}

func TestEstimateWithQueueDelaysPickup(t *testing.T) {
	cart := []CartEntry{{Item: chickenWrap, Quantity: 2}} // 6 base, 3 parallel

	out := EstimateWithQueue(cart, at1030(), 2, 10)

	assert.Equal(t, 10, out.QueueMinutes)
	assert.Equal(t, 13, out.TotalMinutes)
	assert.Equal(t, "10:43", out.PredictedClock)
}

func TestEstimateWithQueueIgnoresEmptyCart(t *testing.T) {
	out := EstimateWithQueue(nil, at1030(), 2, 30)

	assert.Equal(t, 0, out.TotalMinutes)
	assert.Equal(t, "10:30", out.PredictedClock)
}
