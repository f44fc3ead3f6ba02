package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakudeals/deal-scout/internal/models"
)

func TestTripStore(t *testing.T) {
	t.Run("empty store has no last trip", func(t *testing.T) {
		store := NewTripStore()
		_, ok := store.Last()
		assert.False(t, ok)
	})

	t.Run("save then read back decorated", func(t *testing.T) {
		store := NewTripStore()
		tripID := store.Save(&models.SaveTripRequest{
			TotalSavings: 3.40,
			TimeSpent:    "18 mins",
			DealsScouted: 4,
		})
		require.NotEmpty(t, tripID)

		last, ok := store.Last()
		require.True(t, ok)
		assert.InDelta(t, 3.40, last.TotalSavings, 1e-9)
		assert.Equal(t, "18 mins", last.TimeSpent)
		assert.InDelta(t, 123.90, last.LifetimeEarnings, 1e-9)
		assert.Equal(t, 1254, last.DealsScouted)
		assert.InDelta(t, 35.00, last.WagePerHour, 1e-9)
		assert.Equal(t, tripID, last.TripID)
	})

	t.Run("a new trip replaces the slot", func(t *testing.T) {
		store := NewTripStore()
		store.Save(&models.SaveTripRequest{TotalSavings: 1.0})
		store.Save(&models.SaveTripRequest{TotalSavings: 2.0})

		last, ok := store.Last()
		require.True(t, ok)
		assert.InDelta(t, 2.0, last.TotalSavings, 1e-9)
	})

	t.Run("missing time spent defaults", func(t *testing.T) {
		store := NewTripStore()
		store.Save(&models.SaveTripRequest{TotalSavings: 1.0})
		last, _ := store.Last()
		assert.Equal(t, "0 mins", last.TimeSpent)
	})
}
