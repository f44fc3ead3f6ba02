package models

import "time"

// Trip is a completed shopping run. Only the most recent one is kept, in a
// single shared in-memory slot.
type Trip struct {
	TotalSavings float64   `json:"totalSavings"`
	TimeSpent    string    `json:"timeSpent"`
	DealsScouted int       `json:"dealsScouted"`
	SavedAt      time.Time `json:"-"`
}

// SaveTripRequest is the POST /trips body.
type SaveTripRequest struct {
	TotalSavings float64 `json:"totalSavings"`
	TimeSpent    string  `json:"timeSpent"`
	DealsScouted int     `json:"dealsScouted"`
}

// SaveTripResponse acknowledges a stored trip.
type SaveTripResponse struct {
	Success bool   `json:"success"`
	TripID  string `json:"tripId"`
}

// LastTripResponse is the GET /trips/last payload.
type LastTripResponse struct {
	TotalSavings     float64   `json:"totalSavings"`
	TimeSpent        string    `json:"timeSpent"`
	LifetimeEarnings float64   `json:"lifetimeEarnings"`
	ChartData        []float64 `json:"chartData"`
	DealsScouted     int       `json:"dealsScouted"`
	WagePerHour      float64   `json:"wagePerHour"`
	TripID           string    `json:"tripId"`
}

// WatchlistResponse is the static GET /watchlist payload.
type WatchlistResponse struct {
	Items             []string `json:"items"`
	PopularEssentials []string `json:"popularEssentials"`
}
