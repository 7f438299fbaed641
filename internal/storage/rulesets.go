package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Veraticus/medplan/internal/model"
)

// SaveRuleSets upserts rule sets in one transaction, keyed by jurisdiction and
// effective date.
func (s *SQLiteStorage) SaveRuleSets(ctx context.Context, sets []model.JurisdictionRuleSet, source string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRuleSets(sets); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i := range sets {
		if err := s.saveRuleSetTx(ctx, tx, &sets[i], source); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveRuleSet upserts a single rule set.
func (s *SQLiteStorage) SaveRuleSet(ctx context.Context, rs *model.JurisdictionRuleSet, source string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRuleSet(rs); err != nil {
		return err
	}
	return s.saveRuleSetTx(ctx, s.db, rs, source)
}

func (s *SQLiteStorage) saveRuleSetTx(ctx context.Context, q queryable, rs *model.JurisdictionRuleSet, source string) error {
	data, err := json.Marshal(rs)
	if err != nil {
		return fmt.Errorf("failed to encode rule set %s: %w", rs.Key, err)
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO rule_sets (jurisdiction, effective_date, display_name, data, source, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(jurisdiction, effective_date) DO UPDATE SET
			display_name = excluded.display_name,
			data = excluded.data,
			source = excluded.source,
			updated_at = excluded.updated_at
	`, rs.Key, rs.EffectiveDate.String(), rs.DisplayName, string(data), source)
	if err != nil {
		return fmt.Errorf("failed to save rule set %s: %w", rs.Key, err)
	}
	return nil
}

// ListRuleSets returns every stored rule set ordered by jurisdiction and date.
func (s *SQLiteStorage) ListRuleSets(ctx context.Context) ([]model.JurisdictionRuleSet, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT data
		FROM rule_sets
		ORDER BY jurisdiction, effective_date
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rule sets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sets []model.JurisdictionRuleSet
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan rule set: %w", err)
		}
		var rs model.JurisdictionRuleSet
		if err := json.Unmarshal([]byte(data), &rs); err != nil {
			return nil, fmt.Errorf("failed to decode rule set: %w", err)
		}
		sets = append(sets, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rule sets: %w", err)
	}

	return sets, nil
}

// DeleteRuleSet removes one rule set version.
func (s *SQLiteStorage) DeleteRuleSet(ctx context.Context, jurisdiction string, effective model.Date) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(jurisdiction, "jurisdiction"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM rule_sets WHERE jurisdiction = ? AND effective_date = ?
	`, jurisdiction, effective.String())
	if err != nil {
		return fmt.Errorf("failed to delete rule set: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("rule set %s@%s: %w", jurisdiction, effective, ErrNotFound)
	}
	return nil
}

// CountRuleSets returns how many rule set versions are stored.
func (s *SQLiteStorage) CountRuleSets(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rule_sets`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rule sets: %w", err)
	}
	return n, nil
}
