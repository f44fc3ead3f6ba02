package models

import (
	"encoding/json"
	"time"
)

// Plan statuses.
const (
	PlanStatusActive    = "active"
	PlanStatusCompleted = "completed"
)

// Plan is a persisted shopping plan owned by a user. Deletion is a soft
// hide, never a hard delete.
type Plan struct {
	ID           int             `json:"id"`
	UserID       int             `json:"userId"`
	RouteDetails json.RawMessage `json:"route"`
	Status       string          `json:"status"`
	IsHidden     bool            `json:"-"`
	CreatedAt    time.Time       `json:"date"`
	CompletedAt  *time.Time      `json:"completedAt,omitempty"`
}

// SavePlanRequest is the POST /plans body.
type SavePlanRequest struct {
	UserID       int             `json:"userId"`
	RouteDetails json.RawMessage `json:"routeDetails"`
	Status       string          `json:"status"`
}

// CompletePlanRequest optionally overwrites the stored route on completion.
type CompletePlanRequest struct {
	RouteDetails json.RawMessage `json:"routeDetails"`
}

// AddPlanItemRequest appends one item to a stop of a stored plan.
type AddPlanItemRequest struct {
	StopIndex int       `json:"stopIndex"`
	Item      RouteItem `json:"item"`
}

// PlanStats aggregates a user's completed plans, hidden ones included.
type PlanStats struct {
	TotalTrips   int     `json:"totalTrips"`
	TotalSavings float64 `json:"totalSavings"`
}
