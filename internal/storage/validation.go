// Package storage provides the data persistence layer for rule sets and plans.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/medplan/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrEmptySlice     = errors.New("slice cannot be empty")
	ErrInvalidRuleSet = errors.New("invalid rule set")
	ErrInvalidPlan    = errors.New("invalid plan")
	ErrNotFound       = errors.New("not found")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateRuleSets(sets []model.JurisdictionRuleSet) error {
	if sets == nil {
		return fmt.Errorf("%w: rule sets", ErrNilParameter)
	}
	if len(sets) == 0 {
		return fmt.Errorf("%w: rule sets", ErrEmptySlice)
	}
	for i := range sets {
		if err := validateRuleSet(&sets[i]); err != nil {
			return fmt.Errorf("rule set at index %d: %w", i, err)
		}
	}
	return nil
}

func validateRuleSet(rs *model.JurisdictionRuleSet) error {
	if rs == nil {
		return fmt.Errorf("%w: rule set", ErrNilParameter)
	}
	if strings.TrimSpace(rs.Key) == "" {
		return fmt.Errorf("%w: missing key", ErrInvalidRuleSet)
	}
	if rs.EffectiveDate.IsZero() {
		return fmt.Errorf("%w: %s missing effective date", ErrInvalidRuleSet, rs.Key)
	}
	return nil
}

func validatePlan(plan *model.PlanningResult) error {
	if plan == nil {
		return fmt.Errorf("%w: plan", ErrNilParameter)
	}
	if plan.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidPlan)
	}
	if plan.ClientID == "" {
		return fmt.Errorf("%w: missing client ID", ErrInvalidPlan)
	}
	switch plan.Status {
	case model.PlanSuccess, model.PlanPartial, model.PlanError:
	default:
		return fmt.Errorf("%w: status %q", ErrInvalidPlan, plan.Status)
	}
	if plan.GeneratedAt.IsZero() {
		return fmt.Errorf("%w: missing generation time", ErrInvalidPlan)
	}
	return nil
}
