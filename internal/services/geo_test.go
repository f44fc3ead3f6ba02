package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakudeals/deal-scout/internal/models"
)

var testLocations = []StoreLocation{
	{Name: "Bravo Koroglu", Aliases: []string{"bravo supermarket", "bravo"}, Lat: 40.4204, Lon: 49.9171},
	{Name: "Bravo Express Nizami", Aliases: []string{"bravo express"}, Lat: 40.3791, Lon: 49.8469},
	{Name: "Araz Supermarket Sumgait 9 Microdistrict", Aliases: []string{"araz"}, Lat: 40.5897, Lon: 49.6686},
}

func TestHaversineKm(t *testing.T) {
	t.Run("zero distance to itself", func(t *testing.T) {
		assert.Equal(t, 0.0, HaversineKm(40.4204, 49.9171, 40.4204, 49.9171))
	})

	t.Run("symmetric", func(t *testing.T) {
		a := HaversineKm(40.4204, 49.9171, 40.5897, 49.6686)
		b := HaversineKm(40.5897, 49.6686, 40.4204, 49.9171)
		assert.InDelta(t, a, b, 1e-9)
	})

	t.Run("baku to sumgait is roughly 24km", func(t *testing.T) {
		d := HaversineKm(40.4093, 49.8157, 40.5897, 49.6686)
		assert.InDelta(t, 23.5, d, 3.0)
	})
}

func TestGeoFilterResolve(t *testing.T) {
	g := NewGeoFilter(testLocations)

	t.Run("exact alias wins", func(t *testing.T) {
		loc, ok := g.Resolve("BRAVO EXPRESS")
		require.True(t, ok)
		assert.Equal(t, "Bravo Express Nizami", loc.Name)
	})

	t.Run("longest containment wins over shorter alias", func(t *testing.T) {
		loc, ok := g.Resolve("BRAVO EXPRESS NIZAMI KUC 12")
		require.True(t, ok)
		assert.Equal(t, "Bravo Express Nizami", loc.Name)
	})

	t.Run("short alias still resolves its own stores", func(t *testing.T) {
		loc, ok := g.Resolve("BRAVO MARKET GANJA")
		require.True(t, ok)
		assert.Equal(t, "Bravo Koroglu", loc.Name)
	})

	t.Run("unregistered store does not resolve", func(t *testing.T) {
		_, ok := g.Resolve("TAMSTORE")
		assert.False(t, ok)
	})
}

func TestGeoFilterWithinRange(t *testing.T) {
	g := NewGeoFilter(testLocations)

	t.Run("store at exactly range km is included", func(t *testing.T) {
		userLat, userLon := 40.4093, 49.8157
		d := HaversineKm(userLat, userLon, 40.4204, 49.9171)
		assert.True(t, g.WithinRange(userLat, userLon, "Bravo Koroglu", d))
	})

	t.Run("store beyond range is excluded", func(t *testing.T) {
		assert.False(t, g.WithinRange(40.4093, 49.8157, "Araz Supermarket Sumgait 9 Microdistrict", 5.0))
	})

	t.Run("unregistered store fails closed under an active filter", func(t *testing.T) {
		assert.False(t, g.WithinRange(40.4093, 49.8157, "TAMSTORE", 1000))
	})
}

func TestGeoFilterProducts(t *testing.T) {
	g := NewGeoFilter(testLocations)

	products := []models.Product{
		{ID: "1", Store: "BRAVO KOROGLU"},
		{ID: "2", Store: "ARAZ SUPERMARKET SUMGAIT 9 MICRODISTRICT"},
		{ID: "3", Store: "TAMSTORE"},
	}

	filtered := g.FilterProducts(products, 40.4204, 49.9171, 5.0)
	require.Len(t, filtered, 1)
	assert.Equal(t, "1", filtered[0].ID)
}
