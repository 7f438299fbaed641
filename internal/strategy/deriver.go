// Package strategy derives ranked remediation strategies for each planning domain.
//
// Every domain follows the same three steps: project the household into a
// domain-specific situation, walk an ordered condition table to pick strategies,
// then assemble a narrative. Deriver implements the steps once; each domain
// supplies only its situation projector, condition table and narration.
package strategy

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/medplan/internal/model"
	"github.com/shopspring/decimal"
)

// ErrMissingInput is returned when a deriver runs without the eligibility result.
var ErrMissingInput = errors.New("required planning input missing")

// Inputs is everything a domain may look at. All fields are read-only.
type Inputs struct {
	AsOf        time.Time
	Eligibility *model.EligibilityResult
	Allowance   *model.SpousalAllowance
	Profile     model.ClientProfile
	Snapshot    model.FinancialSnapshot
}

// SpendDown is the amount of countable assets that must be reduced. With a
// community spouse the CSRA is protected first.
func (in Inputs) SpendDown() decimal.Decimal {
	if in.Eligibility == nil {
		return decimal.Zero
	}
	if in.Allowance != nil {
		return decimal.Max(decimal.Zero, in.Allowance.RemainingAssets.Sub(in.Eligibility.ResourceLimit))
	}
	return in.Eligibility.ExcessResources
}

// HasCommunitySpouse reports whether the spousal allowance applies.
func (in Inputs) HasCommunitySpouse() bool {
	return in.Profile.HasCommunitySpouse()
}

// Condition recommends a strategy when its predicate holds.
type Condition[S any] struct {
	When     func(S) bool
	Strategy model.StrategyID
}

// Module is a planning domain as seen by the planner.
type Module interface {
	Domain() model.Domain
	Derive(in Inputs, rules *model.JurisdictionRuleSet) (*model.DomainResult, error)
}

// Deriver is a planning domain parameterized by its situation type.
type Deriver[S any] struct {
	// gate short-circuits domains that do not apply to the household.
	gate       func(Inputs) *model.DomainResult
	assess     func(Inputs, *model.JurisdictionRuleSet) (S, error)
	summary    func(S) string
	steps      map[model.StrategyID]func(S) string
	domain     model.Domain
	conditions []Condition[S]
}

// Domain returns the domain tag.
func (d *Deriver[S]) Domain() model.Domain {
	return d.domain
}

// Strategies lists every strategy the condition table can produce, in table order.
func (d *Deriver[S]) Strategies() []model.StrategyID {
	ids := make([]model.StrategyID, 0, len(d.conditions))
	seen := make(map[model.StrategyID]bool, len(d.conditions))
	for _, c := range d.conditions {
		if !seen[c.Strategy] {
			seen[c.Strategy] = true
			ids = append(ids, c.Strategy)
		}
	}
	return ids
}

// AssessSituation projects the inputs onto the domain's situation.
func (d *Deriver[S]) AssessSituation(in Inputs, rules *model.JurisdictionRuleSet) (S, error) {
	if in.Eligibility == nil {
		var zero S
		return zero, fmt.Errorf("%w: eligibility result", ErrMissingInput)
	}
	return d.assess(in, rules)
}

// DetermineStrategies evaluates every condition in table order. Each match appends
// its strategy unless that strategy is already present.
func (d *Deriver[S]) DetermineStrategies(s S) []model.StrategyRecommendation {
	seen := make(map[model.StrategyID]bool, len(d.conditions))
	out := make([]model.StrategyRecommendation, 0, len(d.conditions))
	for _, c := range d.conditions {
		if seen[c.Strategy] || !c.When(s) {
			continue
		}
		seen[c.Strategy] = true
		out = append(out, model.StrategyRecommendation{
			Domain:   d.domain,
			ID:       c.Strategy,
			Text:     Describe(c.Strategy),
			Priority: len(out) + 1,
		})
	}
	return out
}

// PlanApproach renders the narrative for the selected strategies.
func (d *Deriver[S]) PlanApproach(strategies []model.StrategyRecommendation, s S) string {
	return renderApproach(d.summary(s), strategies, func(st model.StrategyRecommendation) string {
		if step, ok := d.steps[st.ID]; ok {
			return step(s)
		}
		return st.Text
	})
}

// renderApproach writes the summary followed by one numbered line per strategy.
func renderApproach(summary string, strategies []model.StrategyRecommendation, line func(model.StrategyRecommendation) string) string {
	var b strings.Builder
	b.WriteString(summary)

	if len(strategies) == 0 {
		b.WriteString(" No action is needed in this area.")
		return b.String()
	}

	b.WriteString("\nRecommended approach:")
	for _, st := range strategies {
		fmt.Fprintf(&b, "\n%d. %s", st.Priority, line(st))
	}
	return b.String()
}

// Derive runs the three steps and packages the result.
func (d *Deriver[S]) Derive(in Inputs, rules *model.JurisdictionRuleSet) (*model.DomainResult, error) {
	if d.gate != nil {
		if result := d.gate(in); result != nil {
			return result, nil
		}
	}

	situation, err := d.AssessSituation(in, rules)
	if err != nil {
		return nil, err
	}
	strategies := d.DetermineStrategies(situation)

	return &model.DomainResult{
		Domain:     d.domain,
		Status:     model.DomainComputed,
		Situation:  situation,
		Strategies: strategies,
		Narrative:  d.PlanApproach(strategies, situation),
	}, nil
}

// Modules returns one deriver per planning domain, in report order.
func Modules() []Module {
	return []Module{
		NewAssetDeriver(),
		NewIncomeDeriver(),
		NewTrustDeriver(),
		NewAnnuityDeriver(),
		NewDivestmentDeriver(),
		NewCommunitySpouseDeriver(),
		NewEstateRecoveryDeriver(),
		NewTimingDeriver(),
		NewPostEligibilityDeriver(),
	}
}
