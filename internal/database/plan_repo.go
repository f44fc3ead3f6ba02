package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bakudeals/deal-scout/internal/models"
)

var (
	ErrPlanNotFound = errors.New("plan not found")
)

// CreatePlan stores a new plan for a user.
func (db *DB) CreatePlan(ctx context.Context, req *models.SavePlanRequest) (*models.Plan, error) {
	status := req.Status
	if status == "" {
		status = models.PlanStatusActive
	}

	plan := &models.Plan{
		UserID:       req.UserID,
		RouteDetails: req.RouteDetails,
		Status:       status,
	}

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO plans (user_id, route_details, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, status
	`, req.UserID, req.RouteDetails, status).Scan(&plan.ID, &plan.CreatedAt, &plan.Status)
	if err != nil {
		return nil, err
	}

	return plan, nil
}

// ListPlans returns a user's visible plans, newest first.
func (db *DB) ListPlans(ctx context.Context, userID int) ([]models.Plan, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, user_id, route_details, status, is_hidden, created_at, completed_at
		FROM plans
		WHERE user_id = $1 AND is_hidden = FALSE
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := []models.Plan{}
	for rows.Next() {
		var p models.Plan
		if err := rows.Scan(&p.ID, &p.UserID, &p.RouteDetails, &p.Status, &p.IsHidden, &p.CreatedAt, &p.CompletedAt); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}

	return plans, rows.Err()
}

// CompletePlan marks a plan completed, optionally overwriting the stored
// route details.
func (db *DB) CompletePlan(ctx context.Context, planID int, routeDetails json.RawMessage) (*models.Plan, error) {
	var details interface{}
	if len(routeDetails) > 0 {
		details = routeDetails
	}

	plan := &models.Plan{}
	err := db.Pool.QueryRow(ctx, `
		UPDATE plans
		SET status = 'completed', completed_at = NOW(),
		    route_details = COALESCE($2, route_details)
		WHERE id = $1
		RETURNING id, user_id, route_details, status, is_hidden, created_at, completed_at
	`, planID, details).Scan(
		&plan.ID, &plan.UserID, &plan.RouteDetails, &plan.Status,
		&plan.IsHidden, &plan.CreatedAt, &plan.CompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}

	return plan, nil
}

// HidePlan soft-deletes a plan. The row is kept for stats aggregation.
func (db *DB) HidePlan(ctx context.Context, planID int) error {
	result, err := db.Pool.Exec(ctx, `
		UPDATE plans SET is_hidden = TRUE WHERE id = $1
	`, planID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// AddPlanItem appends one item to a stop of a stored plan's route details.
// Single-row read-modify-write, last writer wins.
func (db *DB) AddPlanItem(ctx context.Context, planID int, req *models.AddPlanItemRequest) (*models.Plan, error) {
	var raw json.RawMessage
	err := db.Pool.QueryRow(ctx, `
		SELECT route_details FROM plans WHERE id = $1
	`, planID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}

	var details models.RouteDetails
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil, fmt.Errorf("stored route details are not decodable: %w", err)
	}

	idx := req.StopIndex
	if idx < 0 {
		idx = 0
	}
	if len(details.Stops) == 0 {
		details.Stops = append(details.Stops, models.RouteStop{Sequence: 1, Store: "Unassigned"})
	}
	if idx >= len(details.Stops) {
		idx = len(details.Stops) - 1
	}
	details.Stops[idx].Items = append(details.Stops[idx].Items, req.Item)
	details.TotalSavings += req.Item.Savings

	updated, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}

	plan := &models.Plan{}
	err = db.Pool.QueryRow(ctx, `
		UPDATE plans SET route_details = $2 WHERE id = $1
		RETURNING id, user_id, route_details, status, is_hidden, created_at, completed_at
	`, planID, updated).Scan(
		&plan.ID, &plan.UserID, &plan.RouteDetails, &plan.Status,
		&plan.IsHidden, &plan.CreatedAt, &plan.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	return plan, nil
}

// GetPlanStats aggregates completed plans for a user, hidden ones included.
func (db *DB) GetPlanStats(ctx context.Context, userID int) (*models.PlanStats, error) {
	stats := &models.PlanStats{}
	err := db.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM((route_details->>'totalSavings')::numeric), 0)
		FROM plans
		WHERE user_id = $1 AND status = 'completed'
	`, userID).Scan(&stats.TotalTrips, &stats.TotalSavings)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
