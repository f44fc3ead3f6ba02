package services

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bakudeals/deal-scout/internal/models"
)

var (
	ErrSessionInvalid = errors.New("plan session invalid or expired")
	ErrRouteNotFound  = errors.New("route option not found")
)

type planSessionEntry struct {
	routes    map[string]models.RouteDetails
	updatedAt time.Time
}

// PlanSessionStore caches computed route details per optimize call. Each
// call gets its own session so concurrent users never clobber each
// other's options. The session travels as a signed token; the routes
// themselves stay server-side.
type PlanSessionStore struct {
	mu       sync.RWMutex
	sessions map[string]planSessionEntry
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

func NewPlanSessionStore(secret string, ttl time.Duration) *PlanSessionStore {
	return &PlanSessionStore{
		sessions: make(map[string]planSessionEntry),
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Save stores the computed options under a fresh session and returns the
// session token to hand back to the client.
func (s *PlanSessionStore) Save(routes map[string]models.RouteDetails) (string, error) {
	sid := uuid.New().String()

	s.mu.Lock()
	s.sessions[sid] = planSessionEntry{routes: routes, updatedAt: s.now()}
	s.evictExpiredLocked()
	s.mu.Unlock()

	claims := jwt.MapClaims{
		"sid": sid,
		"exp": s.now().Add(s.ttl).Unix(),
		"iat": s.now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Route resolves one option id within the session identified by token.
// An unknown or expired session yields ErrSessionInvalid; a live session
// without the option yields ErrRouteNotFound.
func (s *PlanSessionStore) Route(token, optionID string) (models.RouteDetails, error) {
	sid, err := s.verify(token)
	if err != nil {
		return models.RouteDetails{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.sessions[sid]
	if !ok || s.expired(entry) {
		return models.RouteDetails{}, ErrSessionInvalid
	}
	details, ok := entry.routes[optionID]
	if !ok {
		return models.RouteDetails{}, ErrRouteNotFound
	}
	return details, nil
}

func (s *PlanSessionStore) verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrSessionInvalid
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrSessionInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrSessionInvalid
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", ErrSessionInvalid
	}
	return sid, nil
}

func (s *PlanSessionStore) expired(entry planSessionEntry) bool {
	return s.ttl > 0 && s.now().Sub(entry.updatedAt) > s.ttl
}

func (s *PlanSessionStore) evictExpiredLocked() {
	for sid, entry := range s.sessions {
		if s.expired(entry) {
			delete(s.sessions, sid)
		}
	}
}
