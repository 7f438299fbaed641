package strategy

import (
	"fmt"

	"github.com/Veraticus/medplan/internal/model"
	"github.com/shopspring/decimal"
)

// A resource buffer below this amount can be wiped out by one interest payment or refund.
var minimumResourceBuffer = decimal.NewFromInt(500)

// PostEligibilitySituation is what the household owes and keeps once covered.
type PostEligibilitySituation struct {
	MonthlyIncome          decimal.Decimal `json:"monthly_income"`
	PersonalNeedsAllowance decimal.Decimal `json:"personal_needs_allowance"`
	SpousalDeduction       decimal.Decimal `json:"spousal_deduction"`
	HealthPremiums         decimal.Decimal `json:"health_premiums"`
	PatientLiability       decimal.Decimal `json:"patient_liability"`
	ResourceBuffer         decimal.Decimal `json:"resource_buffer"`
	CommunitySpouse        bool            `json:"community_spouse"`
}

// NewPostEligibilityDeriver builds the post-eligibility domain.
func NewPostEligibilityDeriver() *Deriver[PostEligibilitySituation] {
	return &Deriver[PostEligibilitySituation]{
		domain: model.DomainPostEligibility,
		assess: assessPostEligibility,
		conditions: []Condition[PostEligibilitySituation]{
			{Strategy: AnnualRedetermination, When: func(PostEligibilitySituation) bool { return true }},
			{Strategy: PatientLiability, When: func(s PostEligibilitySituation) bool { return s.PatientLiability.IsPositive() }},
			{Strategy: MonitorResourceBuffer, When: func(s PostEligibilitySituation) bool {
				return s.ResourceBuffer.LessThan(minimumResourceBuffer)
			}},
			{Strategy: RetitleAssets, When: func(s PostEligibilitySituation) bool { return s.CommunitySpouse }},
			{Strategy: SpousalIncomeAllowance, When: func(s PostEligibilitySituation) bool {
				return s.CommunitySpouse && s.SpousalDeduction.IsPositive()
			}},
			{Strategy: DeductHealthPremiums, When: func(s PostEligibilitySituation) bool { return s.HealthPremiums.IsPositive() }},
		},
		summary: func(s PostEligibilitySituation) string {
			return fmt.Sprintf("After eligibility the applicant keeps a %s personal needs allowance and pays an estimated %s a month toward care.",
				Money(s.PersonalNeedsAllowance), Money(s.PatientLiability))
		},
		steps: map[model.StrategyID]func(PostEligibilitySituation) string{
			PatientLiability: func(s PostEligibilitySituation) string {
				return fmt.Sprintf("Pay the facility an estimated %s each month.", Money(s.PatientLiability))
			},
			MonitorResourceBuffer: func(s PostEligibilitySituation) string {
				return fmt.Sprintf("Only %s separates countable assets from the limit; spend accumulated income each month.",
					Money(s.ResourceBuffer))
			},
		},
	}
}

func assessPostEligibility(in Inputs, rules *model.JurisdictionRuleSet) (PostEligibilitySituation, error) {
	pna, err := rules.Require(model.FieldPersonalNeedsAllowance, rules.PersonalNeedsAllowance)
	if err != nil {
		return PostEligibilitySituation{}, err
	}

	s := PostEligibilitySituation{
		MonthlyIncome:          in.Eligibility.TotalIncome,
		PersonalNeedsAllowance: pna,
		HealthPremiums:         in.Snapshot.Expense(model.ExpenseHealthInsurancePremium),
		CommunitySpouse:        in.HasCommunitySpouse(),
	}
	if in.Allowance != nil {
		s.SpousalDeduction = in.Allowance.IncomeShortfall
	}

	liability := s.MonthlyIncome.Sub(pna).Sub(s.SpousalDeduction).Sub(s.HealthPremiums)
	s.PatientLiability = decimal.Max(decimal.Zero, liability)

	countable := in.Eligibility.CountableAssets
	if in.Allowance != nil {
		countable = decimal.Min(countable, in.Allowance.RemainingAssets)
	}
	s.ResourceBuffer = decimal.Max(decimal.Zero, in.Eligibility.ResourceLimit.Sub(countable))
	return s, nil
}
