package services

import (
	"math"
	"sort"
	"strings"

	"github.com/bakudeals/deal-scout/internal/models"
)

const earthRadiusKm = 6371.0

// DefaultRangeKm is the search radius used when the caller supplies
// coordinates without a range.
const DefaultRangeKm = 5.0

// DefaultStoreLocations registers the Baku-area branches present in the
// price feed. Feed store strings are inconsistent, so each location also
// carries the aliases it has been seen under.
var DefaultStoreLocations = []StoreLocation{
	{Name: "Araz Supermarket Sumgait 9 Microdistrict", Aliases: []string{"araz supermarket", "araz"}, Lat: 40.5897, Lon: 49.6686},
	{Name: "Neptun Supermarket Tbilisi Prospekti", Aliases: []string{"neptun supermarket", "neptun"}, Lat: 40.4093, Lon: 49.8157},
	{Name: "Bravo Koroglu", Aliases: []string{"bravo supermarket", "bravo"}, Lat: 40.4204, Lon: 49.9171},
	{Name: "OBA Market Yasamal", Aliases: []string{"oba market", "oba"}, Lat: 40.3772, Lon: 49.8152},
	{Name: "Bazarstore Nizami", Aliases: []string{"bazarstore"}, Lat: 40.3791, Lon: 49.8469},
	{Name: "Spar Khatai", Aliases: []string{"spar"}, Lat: 40.3831, Lon: 49.8722},
	{Name: "Grandmart Ahmedli", Aliases: []string{"grandmart"}, Lat: 40.3855, Lon: 49.9533},
	{Name: "Favorit Market Ganjlik", Aliases: []string{"favorit market", "favorit"}, Lat: 40.4009, Lon: 49.8505},
}

// StoreLocation is a registered store branch with its coordinate.
type StoreLocation struct {
	Name    string
	Aliases []string
	Lat     float64
	Lon     float64
}

// GeoFilter resolves feed store strings to registered locations and
// filters products by distance from the user.
type GeoFilter struct {
	locations []StoreLocation
	// byAlias maps each normalized alias (canonical name included) to its
	// location index.
	byAlias map[string]int
	// aliases holds all normalized aliases, longest first, for the
	// containment fallback.
	aliases []string
}

// NewGeoFilter builds a filter over the given registry. Nil falls back to
// the default Baku registry.
func NewGeoFilter(locations []StoreLocation) *GeoFilter {
	if locations == nil {
		locations = DefaultStoreLocations
	}

	g := &GeoFilter{
		locations: locations,
		byAlias:   map[string]int{},
	}
	for i, loc := range locations {
		names := append([]string{loc.Name}, loc.Aliases...)
		for _, name := range names {
			norm := Normalize(name)
			if _, exists := g.byAlias[norm]; !exists {
				g.byAlias[norm] = i
				g.aliases = append(g.aliases, norm)
			}
		}
	}
	// Longest alias first, then lexicographic, so "bravo supermarket"
	// always beats "bravo" and resolution never depends on map order.
	sort.Slice(g.aliases, func(i, j int) bool {
		if len(g.aliases[i]) != len(g.aliases[j]) {
			return len(g.aliases[i]) > len(g.aliases[j])
		}
		return g.aliases[i] < g.aliases[j]
	})
	return g
}

// Resolve maps a feed store string to its registered location. Exact
// normalized match wins; otherwise the longest registered alias contained
// in the store text. Returns false for unregistered stores.
func (g *GeoFilter) Resolve(storeText string) (StoreLocation, bool) {
	norm := Normalize(strings.TrimSpace(storeText))
	if norm == "" {
		return StoreLocation{}, false
	}

	if i, ok := g.byAlias[norm]; ok {
		return g.locations[i], true
	}
	for _, alias := range g.aliases {
		if strings.Contains(norm, alias) {
			return g.locations[g.byAlias[alias]], true
		}
	}
	return StoreLocation{}, false
}

// WithinRange reports whether the named store sits within rangeKm of the
// user. Stores without a registered coordinate are out of range whenever a
// filter is active.
func (g *GeoFilter) WithinRange(userLat, userLon float64, storeText string, rangeKm float64) bool {
	loc, ok := g.Resolve(storeText)
	if !ok {
		return false
	}
	return HaversineKm(userLat, userLon, loc.Lat, loc.Lon) <= rangeKm
}

// FilterProducts keeps products whose store is within rangeKm of the user.
// Callers only invoke this when a location filter is active; without one
// the full list passes through untouched upstream.
func (g *GeoFilter) FilterProducts(products []models.Product, userLat, userLon, rangeKm float64) []models.Product {
	filtered := []models.Product{}
	for _, p := range products {
		if g.WithinRange(userLat, userLon, p.Store, rangeKm) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// HaversineKm is the great-circle distance between two coordinates.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const degToRad = math.Pi / 180

	dLat := (lat2 - lat1) * degToRad
	dLon := (lon2 - lon1) * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
