// Package eligibility applies the resource and income tests to an applicant.
package eligibility

import (
	"github.com/Veraticus/medplan/internal/model"
	"github.com/shopspring/decimal"
)

// Assessor runs the eligibility tests. It holds no state and is safe for concurrent use.
type Assessor struct{}

// NewAssessor creates an Assessor.
func NewAssessor() *Assessor {
	return &Assessor{}
}

// Assess compares countable assets and total income against the limits for the
// applicant's marital status. A limit missing from the rule set is a fatal
// MissingRuleValue error.
func (a *Assessor) Assess(profile model.ClientProfile, snapshot model.FinancialSnapshot, rules *model.JurisdictionRuleSet) (*model.EligibilityResult, error) {
	resourceLimit, err := rules.ResourceLimit(profile.MaritalStatus)
	if err != nil {
		return nil, err
	}
	incomeLimit, err := rules.IncomeLimit(profile.MaritalStatus)
	if err != nil {
		return nil, err
	}

	countable := snapshot.CountableAssets()
	income := snapshot.TotalIncome()

	return &model.EligibilityResult{
		CountableAssets:    countable,
		TotalIncome:        income,
		ResourceLimit:      resourceLimit,
		IncomeLimit:        incomeLimit,
		ExcessResources:    Excess(countable, resourceLimit),
		ExcessIncome:       Excess(income, incomeLimit),
		MaritalStatus:      profile.MaritalStatus,
		IsResourceEligible: countable.LessThanOrEqual(resourceLimit),
		IsIncomeEligible:   income.LessThanOrEqual(incomeLimit),
	}, nil
}

// Excess returns how far amount is above limit, floored at zero.
func Excess(amount, limit decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, amount.Sub(limit))
}
