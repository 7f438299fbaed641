package strategy

import (
	"fmt"

	"github.com/Veraticus/medplan/internal/model"
	"github.com/shopspring/decimal"
)

// In an income cap state, income this close to the cap is at risk from the next COLA.
var incomeCapMargin = decimal.NewFromInt(100)

// IncomeSituation is the monthly income picture of the applicant.
type IncomeSituation struct {
	TotalIncome     decimal.Decimal `json:"total_income"`
	IncomeLimit     decimal.Decimal `json:"income_limit"`
	ExcessIncome    decimal.Decimal `json:"excess_income"`
	SpouseShortfall decimal.Decimal `json:"spouse_shortfall"`
	IncomeCapState  bool            `json:"income_cap_state"`
	NearCap         bool            `json:"near_cap"`
	CommunitySpouse bool            `json:"community_spouse"`
}

// NewIncomeDeriver builds the income domain.
func NewIncomeDeriver() *Deriver[IncomeSituation] {
	return &Deriver[IncomeSituation]{
		domain: model.DomainIncome,
		assess: assessIncome,
		conditions: []Condition[IncomeSituation]{
			{Strategy: QualifiedIncomeTrust, When: func(s IncomeSituation) bool {
				return s.IncomeCapState && s.ExcessIncome.IsPositive()
			}},
			{Strategy: QualifiedIncomeTrust, When: func(s IncomeSituation) bool {
				return s.IncomeCapState && s.NearCap
			}},
			{Strategy: MedicallyNeedySpendDown, When: func(s IncomeSituation) bool {
				return !s.IncomeCapState && s.ExcessIncome.IsPositive()
			}},
			{Strategy: SpousalIncomeAllowance, When: func(s IncomeSituation) bool {
				return s.CommunitySpouse && s.SpouseShortfall.IsPositive()
			}},
			{Strategy: IncomeWithinLimit, When: func(s IncomeSituation) bool { return s.ExcessIncome.IsZero() }},
		},
		summary: func(s IncomeSituation) string {
			if s.ExcessIncome.IsZero() {
				return fmt.Sprintf("Monthly income of %s is within the %s income limit.",
					Money(s.TotalIncome), Money(s.IncomeLimit))
			}
			return fmt.Sprintf("Monthly income of %s exceeds the %s income limit by %s.",
				Money(s.TotalIncome), Money(s.IncomeLimit), Money(s.ExcessIncome))
		},
		steps: map[model.StrategyID]func(IncomeSituation) string{
			QualifiedIncomeTrust: func(s IncomeSituation) string {
				if s.ExcessIncome.IsZero() {
					return fmt.Sprintf("Income is within %s of the cap; prepare a Qualified Income Trust before the next cost-of-living increase.",
						Money(incomeCapMargin))
				}
				return fmt.Sprintf("Establish a Qualified Income Trust and deposit at least %s each month.", Money(s.ExcessIncome))
			},
			MedicallyNeedySpendDown: func(s IncomeSituation) string {
				return fmt.Sprintf("Incur %s in medical expenses each month to qualify as medically needy.", Money(s.ExcessIncome))
			},
			SpousalIncomeAllowance: func(s IncomeSituation) string {
				return fmt.Sprintf("Allocate up to %s a month to the community spouse.", Money(s.SpouseShortfall))
			},
		},
	}
}

func assessIncome(in Inputs, rules *model.JurisdictionRuleSet) (IncomeSituation, error) {
	s := IncomeSituation{
		TotalIncome:     in.Eligibility.TotalIncome,
		IncomeLimit:     in.Eligibility.IncomeLimit,
		ExcessIncome:    in.Eligibility.ExcessIncome,
		IncomeCapState:  rules.IncomeCapState,
		CommunitySpouse: in.HasCommunitySpouse(),
	}
	s.NearCap = s.TotalIncome.GreaterThanOrEqual(s.IncomeLimit.Sub(incomeCapMargin))
	if in.Allowance != nil {
		s.SpouseShortfall = in.Allowance.IncomeShortfall
	}
	return s, nil
}
