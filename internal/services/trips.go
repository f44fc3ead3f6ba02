package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/bakudeals/deal-scout/internal/models"
)

// Lifetime figures shown alongside a saved trip. Real accumulation lives
// client-side; the server only decorates the last trip.
const (
	lifetimeEarningsBase = 120.50
	dealsScoutedBase     = 1250
	wagePerHour          = 35.00
)

var defaultChartData = []float64{0.3, 0.45, 0.6, 0.4, 0.75, 0.5, 0.9}

type tripRecord struct {
	totalSavings float64
	timeSpent    string
	dealsScouted int
	savedAt      time.Time
}

// TripStore keeps the last completed trip. A single slot, not per-user.
type TripStore struct {
	mu   sync.RWMutex
	last *tripRecord
	now  func() time.Time
}

func NewTripStore() *TripStore {
	return &TripStore{now: time.Now}
}

// Save records a completed trip and returns its id.
func (s *TripStore) Save(req *models.SaveTripRequest) string {
	timeSpent := req.TimeSpent
	if timeSpent == "" {
		timeSpent = "0 mins"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = &tripRecord{
		totalSavings: req.TotalSavings,
		timeSpent:    timeSpent,
		dealsScouted: req.DealsScouted,
		savedAt:      s.now(),
	}
	return tripID(s.last.savedAt)
}

// Last returns the last saved trip decorated with lifetime figures, or
// false when no trip has been saved this process lifetime.
func (s *TripStore) Last() (*models.LastTripResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil, false
	}

	return &models.LastTripResponse{
		TotalSavings:     s.last.totalSavings,
		TimeSpent:        s.last.timeSpent,
		LifetimeEarnings: roundMoney(lifetimeEarningsBase + s.last.totalSavings),
		ChartData:        defaultChartData,
		DealsScouted:     dealsScoutedBase + s.last.dealsScouted,
		WagePerHour:      wagePerHour,
		TripID:           tripID(s.last.savedAt),
	}, true
}

func tripID(t time.Time) string {
	return fmt.Sprintf("trip_%d", t.UnixMilli())
}
