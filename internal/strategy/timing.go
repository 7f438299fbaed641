package strategy

import (
	"fmt"

	"github.com/Veraticus/medplan/internal/model"
	"github.com/shopspring/decimal"
)

// Spend-down above this amount is better handled with advance planning than an immediate application.
var advancePlanningExcess = decimal.NewFromInt(100000)

// TimingSituation decides when the application should be filed.
type TimingSituation struct {
	ExcessResources decimal.Decimal `json:"excess_resources"`
	ExcessIncome    decimal.Decimal `json:"excess_income"`
	Penalty         Penalty         `json:"penalty"`
	LookbackMonths  int             `json:"lookback_months"`
	EligibleNow     bool            `json:"eligible_now"`
	IncomeCapState  bool            `json:"income_cap_state"`
}

// NewTimingDeriver builds the application timing domain.
func NewTimingDeriver() *Deriver[TimingSituation] {
	return &Deriver[TimingSituation]{
		domain: model.DomainApplicationTiming,
		assess: assessTiming,
		conditions: []Condition[TimingSituation]{
			{Strategy: ApplyNow, When: func(s TimingSituation) bool { return s.EligibleNow && s.Penalty.IsZero() }},
			{Strategy: RequestRetroactive, When: func(s TimingSituation) bool { return s.EligibleNow && s.Penalty.IsZero() }},
			{Strategy: ApplyAfterSpendDown, When: func(s TimingSituation) bool { return s.ExcessResources.IsPositive() }},
			{Strategy: FundTrustBeforeApplying, When: func(s TimingSituation) bool {
				return s.IncomeCapState && s.ExcessIncome.IsPositive()
			}},
			{Strategy: StartPenaltyClock, When: func(s TimingSituation) bool { return s.Penalty.Months > 0 }},
			{Strategy: WaitOutLookback, When: func(s TimingSituation) bool {
				return s.ExcessResources.GreaterThan(advancePlanningExcess)
			}},
		},
		summary: func(s TimingSituation) string {
			if s.EligibleNow {
				return "The applicant currently meets the financial tests."
			}
			return fmt.Sprintf("The applicant must address %s of excess resources and %s of excess income before coverage begins.",
				Money(s.ExcessResources), Money(s.ExcessIncome))
		},
		steps: map[model.StrategyID]func(TimingSituation) string{
			StartPenaltyClock: func(s TimingSituation) string {
				return fmt.Sprintf("Apply as soon as the applicant is otherwise eligible so the %s penalty starts running.", s.Penalty)
			},
			WaitOutLookback: func(s TimingSituation) string {
				return fmt.Sprintf("Transfers made now clear the lookback after %d months; plan private payment until then.",
					s.LookbackMonths)
			},
		},
	}
}

func assessTiming(in Inputs, rules *model.JurisdictionRuleSet) (TimingSituation, error) {
	s := TimingSituation{
		ExcessResources: in.SpendDown(),
		ExcessIncome:    in.Eligibility.ExcessIncome,
		LookbackMonths:  rules.LookbackMonths,
		IncomeCapState:  rules.IncomeCapState,
	}
	if s.LookbackMonths <= 0 {
		s.LookbackMonths = defaultLookbackMonths
	}
	s.EligibleNow = s.ExcessResources.IsZero() && in.Eligibility.IsIncomeEligible

	_, _, penalty, err := lookbackExposure(in, rules)
	if err != nil {
		return s, err
	}
	s.Penalty = penalty
	return s, nil
}
