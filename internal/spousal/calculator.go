// Package spousal computes the resource and income allowances protected for a
// community spouse.
package spousal

import (
	"github.com/Veraticus/medplan/internal/model"
	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Calculator computes the CSRA and MMNA. It holds no state.
type Calculator struct{}

// NewCalculator creates a Calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// CalculateCSRA protects half of the couple's countable assets, clamped to the
// jurisdiction's minimum and maximum allowance.
func (c *Calculator) CalculateCSRA(totalAssets decimal.Decimal, rules *model.JurisdictionRuleSet) (*model.CSRAResult, error) {
	minimum, err := rules.Require(model.FieldCSRAMin, rules.CSRAMin)
	if err != nil {
		return nil, err
	}
	maximum, err := rules.Require(model.FieldCSRAMax, rules.CSRAMax)
	if err != nil {
		return nil, err
	}

	half := totalAssets.Div(two)
	amount := clamp(half, minimum, maximum)
	remaining := decimal.Max(decimal.Zero, totalAssets.Sub(amount))

	return &model.CSRAResult{
		TotalAssets:        totalAssets,
		HalfOfAssets:       half,
		CSRAAmount:         amount,
		RemainingAssets:    remaining,
		AllAssetsProtected: remaining.IsZero(),
	}, nil
}

// CalculateMMNA adds the excess shelter allowance to the minimum needs allowance,
// capped at the maximum. A court-ordered support amount replaces the result
// without regard to the cap.
func (c *Calculator) CalculateMMNA(needs model.SpouseNeeds, rules *model.JurisdictionRuleSet) (*model.MMNAResult, error) {
	result := &model.MMNAResult{
		HousingCosts: needs.HousingCosts,
		SpouseIncome: needs.MonthlyIncome,
	}

	if needs.CourtOrderedSupport != nil {
		result.MMNAAmount = *needs.CourtOrderedSupport
		result.CourtOrderOverride = true
		result.IncomeShortfall = decimal.Max(decimal.Zero, result.MMNAAmount.Sub(needs.MonthlyIncome))
		return result, nil
	}

	minimum, err := rules.Require(model.FieldMMNAMin, rules.MMNAMin)
	if err != nil {
		return nil, err
	}
	maximum, err := rules.Require(model.FieldMMNAMax, rules.MMNAMax)
	if err != nil {
		return nil, err
	}
	standard, err := rules.Require(model.FieldExcessShelterStandard, rules.ExcessShelterStandard)
	if err != nil {
		return nil, err
	}

	result.ExcessShelterAllowance = decimal.Max(decimal.Zero, needs.HousingCosts.Sub(standard))
	total := minimum.Add(result.ExcessShelterAllowance)
	if total.GreaterThan(maximum) {
		total = maximum
		result.IsCapped = true
	}
	result.MMNAAmount = total
	result.IncomeShortfall = decimal.Max(decimal.Zero, total.Sub(needs.MonthlyIncome))

	return result, nil
}

// Calculate computes both allowances for a household with a community spouse.
func (c *Calculator) Calculate(profile model.ClientProfile, snapshot model.FinancialSnapshot, rules *model.JurisdictionRuleSet) (*model.SpousalAllowance, error) {
	csra, err := c.CalculateCSRA(snapshot.CountableAssets(), rules)
	if err != nil {
		return nil, err
	}

	mmna, err := c.CalculateMMNA(NeedsFor(profile, snapshot), rules)
	if err != nil {
		return nil, err
	}

	return &model.SpousalAllowance{CSRAResult: *csra, MMNAResult: *mmna}, nil
}

// NeedsFor derives the community spouse's monthly needs from the household data.
func NeedsFor(profile model.ClientProfile, snapshot model.FinancialSnapshot) model.SpouseNeeds {
	needs := model.SpouseNeeds{HousingCosts: snapshot.HousingCosts()}
	if profile.Spouse != nil {
		needs.MonthlyIncome = profile.Spouse.MonthlyIncome
		needs.CourtOrderedSupport = profile.Spouse.CourtOrderedSupport
	}
	return needs
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
