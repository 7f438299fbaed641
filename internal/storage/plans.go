package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Veraticus/medplan/internal/model"
	"github.com/Veraticus/medplan/internal/service"
)

var _ service.Storage = (*SQLiteStorage)(nil)

// SavePlan stores a generated plan. Saving the same ID again replaces it.
func (s *SQLiteStorage) SavePlan(ctx context.Context, plan *model.PlanningResult) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePlan(plan); err != nil {
		return err
	}

	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO plans (id, client_id, jurisdiction, status, result, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			client_id = excluded.client_id,
			jurisdiction = excluded.jurisdiction,
			status = excluded.status,
			result = excluded.result,
			created_at = excluded.created_at
	`, plan.ID, plan.ClientID, plan.Jurisdiction, string(plan.Status), string(data), plan.GeneratedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	return nil
}

// GetPlan loads a stored plan by ID.
func (s *SQLiteStorage) GetPlan(ctx context.Context, id string) (*model.PlanningResult, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var data string
	err := s.db.QueryRowContext(ctx, `SELECT result FROM plans WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	return decodePlan(data)
}

// ListPlans returns plan summaries, newest first. An empty clientID lists all
// clients; a limit of zero or less means no limit.
func (s *SQLiteStorage) ListPlans(ctx context.Context, clientID string, limit int) ([]service.PlanSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, client_id, jurisdiction, status, created_at
		FROM plans
		WHERE ? = '' OR client_id = ?
		ORDER BY created_at DESC, id
		LIMIT ?
	`, clientID, clientID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []service.PlanSummary
	for rows.Next() {
		var ps service.PlanSummary
		var status string
		if err := rows.Scan(&ps.ID, &ps.ClientID, &ps.Jurisdiction, &status, &ps.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		ps.Status = model.PlanStatus(status)
		summaries = append(summaries, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plans: %w", err)
	}

	return summaries, nil
}

func decodePlan(data string) (*model.PlanningResult, error) {
	var plan model.PlanningResult
	if err := json.Unmarshal([]byte(data), &plan); err != nil {
		return nil, fmt.Errorf("failed to decode plan: %w", err)
	}
	return &plan, nil
}
