// Package planner sequences rule resolution, eligibility, spousal allowances and
// the strategy domains into one composite plan.
package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/medplan/internal/common"
	"github.com/Veraticus/medplan/internal/eligibility"
	"github.com/Veraticus/medplan/internal/model"
	"github.com/Veraticus/medplan/internal/spousal"
	"github.com/Veraticus/medplan/internal/strategy"
	"github.com/google/uuid"
)

// ErrModulePanic wraps a recovered panic from a strategy module.
var ErrModulePanic = errors.New("module panicked")

// RuleResolver finds the rule set in force for a jurisdiction.
type RuleResolver interface {
	Resolve(key string, asOf *time.Time) (*model.JurisdictionRuleSet, error)
}

// Request is one planning run's input.
type Request struct {
	AsOf         *time.Time
	Jurisdiction string
	Profile      model.ClientProfile
	Snapshot     model.FinancialSnapshot
}

// Planner runs planning requests. It holds no per-request state and is safe for
// concurrent use.
type Planner struct {
	rules      RuleResolver
	assessor   *eligibility.Assessor
	calculator *spousal.Calculator
	metrics    *Metrics
	now        func() time.Time
	newID      func() string
	modules    []strategy.Module
}

// Option configures a Planner.
type Option func(*Planner)

// WithMetrics records run outcomes to m.
func WithMetrics(m *Metrics) Option {
	return func(p *Planner) { p.metrics = m }
}

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

// WithIDGenerator replaces the plan ID generator.
func WithIDGenerator(newID func() string) Option {
	return func(p *Planner) { p.newID = newID }
}

// WithModules replaces the strategy modules.
func WithModules(modules ...strategy.Module) Option {
	return func(p *Planner) { p.modules = modules }
}

// New creates a Planner over the given rule source.
func New(rules RuleResolver, opts ...Option) *Planner {
	p := &Planner{
		rules:      rules,
		assessor:   eligibility.NewAssessor(),
		calculator: spousal.NewCalculator(),
		now:        time.Now,
		newID:      uuid.NewString,
		modules:    strategy.Modules(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run produces a plan. The result is never nil. When rule resolution, eligibility
// or the spousal allowance fails, the result has status error and carries no
// partial output, and the error is returned as well. A failing strategy module is
// recorded in ModuleErrors and the run continues with status partial.
func (p *Planner) Run(req Request) (*model.PlanningResult, error) {
	start := p.now()
	result := &model.PlanningResult{
		ID:           p.newID(),
		ClientID:     req.Profile.ID,
		Jurisdiction: req.Jurisdiction,
		GeneratedAt:  start.UTC(),
	}

	err := p.run(req, result)
	switch {
	case err != nil:
		p.abort(result, err)
	case len(result.ModuleErrors) > 0:
		result.Status = model.PlanPartial
	default:
		result.Status = model.PlanSuccess
	}

	p.metrics.IncrementRun(string(result.Status))
	p.metrics.ObserveDuration(p.now().Sub(start))
	return result, err
}

func (p *Planner) run(req Request, result *model.PlanningResult) error {
	ctx := context.Background()

	asOf := asOfOrNow(req.AsOf, p.now)
	rules, err := p.rules.Resolve(req.Jurisdiction, &asOf)
	if err != nil {
		return err
	}
	result.Jurisdiction = rules.Key
	result.EffectiveDate = rules.EffectiveDate

	elig, err := p.assessor.Assess(req.Profile, req.Snapshot, rules)
	if err != nil {
		return err
	}
	result.Eligibility = elig

	in := strategy.Inputs{
		AsOf:        asOf,
		Eligibility: elig,
		Profile:     req.Profile,
		Snapshot:    req.Snapshot,
	}
	if req.Profile.HasCommunitySpouse() {
		allowance, err := p.calculator.Calculate(req.Profile, req.Snapshot, rules)
		if err != nil {
			return err
		}
		result.SpousalAllowance = allowance
		in.Allowance = allowance
	}

	result.Domains = make(map[model.Domain]*model.DomainResult, len(p.modules))
	for _, m := range p.modules {
		domainResult, err := derive(m, in, rules)
		if err != nil {
			pe := common.ModuleFailed(string(m.Domain()), err)
			if result.ModuleErrors == nil {
				result.ModuleErrors = make(map[model.Domain]*common.PlanError)
			}
			result.ModuleErrors[m.Domain()] = pe
			p.metrics.IncrementModuleFailure(string(m.Domain()))
			common.LogWarn(ctx, "strategy module failed", common.Fields{
				"plan_id": result.ID,
				"domain":  m.Domain(),
				"error":   err.Error(),
			})
			continue
		}
		result.Domains[m.Domain()] = domainResult
	}

	common.LogDebug(ctx, "plan complete", common.Fields{
		"plan_id":      result.ID,
		"jurisdiction": result.Jurisdiction,
		"domains":      len(result.Domains),
		"failures":     len(result.ModuleErrors),
	})
	return nil
}

// abort discards partial output so an error result never looks half-computed.
func (p *Planner) abort(result *model.PlanningResult, err error) {
	result.Status = model.PlanError
	result.Error = err.Error()
	result.Eligibility = nil
	result.SpousalAllowance = nil
	result.Domains = nil
	result.ModuleErrors = nil
	result.EffectiveDate = model.Date{}
}

// derive runs one module and converts a panic into an error.
func derive(m strategy.Module, in strategy.Inputs, rules *model.JurisdictionRuleSet) (result *model.DomainResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %v", ErrModulePanic, r)
		}
	}()
	return m.Derive(in, rules)
}

// asOfOrNow defaults to today's local calendar date, expressed as UTC midnight
// so it compares cleanly against rule set effective dates.
func asOfOrNow(asOf *time.Time, now func() time.Time) time.Time {
	if asOf != nil {
		return *asOf
	}
	y, m, d := now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
