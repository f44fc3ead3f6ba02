package services

import (
	"sync"
	"time"

	"github.com/bakudeals/deal-scout/internal/models"
)

type scanEntry struct {
	items     []models.ConfirmedItem
	updatedAt time.Time
}

// ScanStore holds confirmed scan items per scan session, in memory only.
// Entries expire after the configured TTL; the most recent live entry
// backs the "last scan" fallbacks.
type ScanStore struct {
	mu      sync.RWMutex
	entries map[string]scanEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewScanStore(ttl time.Duration) *ScanStore {
	return &ScanStore{
		entries: make(map[string]scanEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put stores the confirmed items for a scan id, stamping the write time.
func (s *ScanStore) Put(scanID string, items []models.ConfirmedItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[scanID] = scanEntry{items: items, updatedAt: s.now()}
	s.evictExpiredLocked()
}

// Get returns the confirmed items for a scan id, or false if the id is
// unknown or expired.
func (s *ScanStore) Get(scanID string) ([]models.ConfirmedItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[scanID]
	if !ok || s.expired(entry) {
		return nil, false
	}
	return entry.items, true
}

// MostRecent returns the live entry with the latest write timestamp.
func (s *ScanStore) MostRecent() (scanID string, items []models.ConfirmedItem, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest time.Time
	for id, entry := range s.entries {
		if s.expired(entry) {
			continue
		}
		if entry.updatedAt.After(latest) {
			latest = entry.updatedAt
			scanID = id
			items = entry.items
			ok = true
		}
	}
	return scanID, items, ok
}

func (s *ScanStore) expired(entry scanEntry) bool {
	return s.ttl > 0 && s.now().Sub(entry.updatedAt) > s.ttl
}

func (s *ScanStore) evictExpiredLocked() {
	for id, entry := range s.entries {
		if s.expired(entry) {
			delete(s.entries, id)
		}
	}
}
