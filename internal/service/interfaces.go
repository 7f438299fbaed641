// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/medplan/internal/model"
)

// PlanSummary is the listing view of a stored plan.
type PlanSummary struct {
	CreatedAt    time.Time        `json:"created_at"`
	ID           string           `json:"id"`
	ClientID     string           `json:"client_id"`
	Jurisdiction string           `json:"jurisdiction"`
	Status       model.PlanStatus `json:"status"`
}

// RuleStore persists jurisdiction rule sets.
type RuleStore interface {
	SaveRuleSets(ctx context.Context, sets []model.JurisdictionRuleSet, source string) error
	ListRuleSets(ctx context.Context) ([]model.JurisdictionRuleSet, error)
	DeleteRuleSet(ctx context.Context, jurisdiction string, effective model.Date) error
}

// PlanStore persists generated plans.
type PlanStore interface {
	SavePlan(ctx context.Context, plan *model.PlanningResult) error
	GetPlan(ctx context.Context, id string) (*model.PlanningResult, error)
	ListPlans(ctx context.Context, clientID string, limit int) ([]PlanSummary, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	RuleStore
	PlanStore

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
