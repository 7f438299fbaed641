package spousal

import (
	"testing"
	"time"

	"github.com/Veraticus/medplan/internal/common"
	"github.com/Veraticus/medplan/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testRules() *model.JurisdictionRuleSet {
	return &model.JurisdictionRuleSet{
		Key:                   "testland",
		EffectiveDate:         model.NewDate(2023, time.January, 1),
		CSRAMin:               model.NewRuleValue(d("27480")),
		CSRAMax:               model.NewRuleValue(d("137400")),
		MMNAMin:               model.NewRuleValue(d("2288.75")),
		MMNAMax:               model.NewRuleValue(d("3435")),
		ExcessShelterStandard: model.NewRuleValue(d("687")),
	}
}

func TestCalculator_CalculateCSRA(t *testing.T) {
	tests := []struct {
		name          string
		total         string
		wantHalf      string
		wantCSRA      string
		wantRemaining string
		wantProtected bool
	}{
		{name: "half above maximum", total: "350000", wantHalf: "175000", wantCSRA: "137400", wantRemaining: "212600"},
		{name: "half below minimum", total: "40000", wantHalf: "20000", wantCSRA: "27480", wantRemaining: "12520"},
		{name: "half between bounds", total: "100000", wantHalf: "50000", wantCSRA: "50000", wantRemaining: "50000"},
		{name: "all assets protected", total: "20000", wantHalf: "10000", wantCSRA: "27480", wantRemaining: "0", wantProtected: true},
		{name: "no assets", total: "0", wantHalf: "0", wantCSRA: "27480", wantRemaining: "0", wantProtected: true},
	}

	c := NewCalculator()
	rules := testRules()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := c.CalculateCSRA(d(tt.total), rules)
			require.NoError(t, err)
			assert.True(t, result.HalfOfAssets.Equal(d(tt.wantHalf)), "half: %s", result.HalfOfAssets)
			assert.True(t, result.CSRAAmount.Equal(d(tt.wantCSRA)), "csra: %s", result.CSRAAmount)
			assert.True(t, result.RemainingAssets.Equal(d(tt.wantRemaining)), "remaining: %s", result.RemainingAssets)
			assert.Equal(t, tt.wantProtected, result.AllAssetsProtected)

			assert.True(t, result.CSRAAmount.GreaterThanOrEqual(rules.CSRAMin.Value))
			assert.True(t, result.CSRAAmount.LessThanOrEqual(rules.CSRAMax.Value))
		})
	}
}

func TestCalculator_CalculateMMNA(t *testing.T) {
	courtOrder := d("2000")
	bigOrder := d("5000")

	tests := []struct {
		name           string
		needs          model.SpouseNeeds
		wantShelter    string
		wantTotal      string
		wantShortfall  string
		wantCapped     bool
		wantCourtOrder bool
	}{
		{
			name:          "capped at maximum",
			needs:         model.SpouseNeeds{HousingCosts: d("2100")},
			wantShelter:   "1413",
			wantTotal:     "3435",
			wantShortfall: "3435",
			wantCapped:    true,
		},
		{
			name:          "housing below standard",
			needs:         model.SpouseNeeds{HousingCosts: d("500"), MonthlyIncome: d("1000")},
			wantShelter:   "0",
			wantTotal:     "2288.75",
			wantShortfall: "1288.75",
		},
		{
			name:          "between bounds",
			needs:         model.SpouseNeeds{HousingCosts: d("1000"), MonthlyIncome: d("3000")},
			wantShelter:   "313",
			wantTotal:     "2601.75",
			wantShortfall: "0",
		},
		{
			name:           "court order below formula",
			needs:          model.SpouseNeeds{HousingCosts: d("2100"), CourtOrderedSupport: &courtOrder},
			wantShelter:    "0",
			wantTotal:      "2000",
			wantShortfall:  "2000",
			wantCourtOrder: true,
		},
		{
			name:           "court order above cap",
			needs:          model.SpouseNeeds{HousingCosts: d("100"), MonthlyIncome: d("1500"), CourtOrderedSupport: &bigOrder},
			wantShelter:    "0",
			wantTotal:      "5000",
			wantShortfall:  "3500",
			wantCourtOrder: true,
		},
	}

	c := NewCalculator()
	rules := testRules()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := c.CalculateMMNA(tt.needs, rules)
			require.NoError(t, err)
			assert.True(t, result.ExcessShelterAllowance.Equal(d(tt.wantShelter)), "shelter: %s", result.ExcessShelterAllowance)
			assert.True(t, result.MMNAAmount.Equal(d(tt.wantTotal)), "total: %s", result.MMNAAmount)
			assert.True(t, result.IncomeShortfall.Equal(d(tt.wantShortfall)), "shortfall: %s", result.IncomeShortfall)
			assert.Equal(t, tt.wantCapped, result.IsCapped)
			assert.Equal(t, tt.wantCourtOrder, result.CourtOrderOverride)

			if !tt.wantCourtOrder {
				assert.True(t, result.MMNAAmount.GreaterThanOrEqual(rules.MMNAMin.Value))
				assert.True(t, result.MMNAAmount.LessThanOrEqual(rules.MMNAMax.Value))
			}
		})
	}
}

func TestCalculator_CourtOrderIgnoresMissingValues(t *testing.T) {
	rules := testRules()
	rules.MMNAMax = model.RuleValue{}
	order := d("2500")

	result, err := NewCalculator().CalculateMMNA(model.SpouseNeeds{CourtOrderedSupport: &order}, rules)
	require.NoError(t, err)
	assert.True(t, result.MMNAAmount.Equal(order))
}

func TestCalculator_MissingValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *model.JurisdictionRuleSet)
		field  string
	}{
		{name: "csra min", mutate: func(r *model.JurisdictionRuleSet) { r.CSRAMin = model.RuleValue{} }, field: model.FieldCSRAMin},
		{name: "csra max", mutate: func(r *model.JurisdictionRuleSet) { r.CSRAMax = model.RuleValueOf("tbd") }, field: model.FieldCSRAMax},
		{name: "mmna min", mutate: func(r *model.JurisdictionRuleSet) { r.MMNAMin = model.RuleValue{} }, field: model.FieldMMNAMin},
		{name: "mmna max", mutate: func(r *model.JurisdictionRuleSet) { r.MMNAMax = model.RuleValue{} }, field: model.FieldMMNAMax},
		{name: "shelter standard", mutate: func(r *model.JurisdictionRuleSet) { r.ExcessShelterStandard = model.RuleValue{} }, field: model.FieldExcessShelterStandard},
	}

	profile := model.ClientProfile{ID: "c1", MaritalStatus: model.MaritalMarried, Spouse: &model.SpouseProfile{Age: 80}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := testRules()
			tt.mutate(rules)
			_, err := NewCalculator().Calculate(profile, model.FinancialSnapshot{}, rules)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrMissingRuleValue)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestCalculator_Calculate(t *testing.T) {
	profile := model.ClientProfile{
		ID:            "c1",
		MaritalStatus: model.MaritalMarried,
		Spouse:        &model.SpouseProfile{Age: 78, MonthlyIncome: d("1200")},
	}
	snapshot := model.FinancialSnapshot{
		Assets: map[model.AssetCategory]decimal.Decimal{
			model.AssetSavings:          d("300000"),
			model.AssetStocks:           d("50000"),
			model.AssetPrimaryResidence: d("400000"),
		},
		Expenses: map[model.ExpenseCategory]decimal.Decimal{
			model.ExpenseMortgage:    d("1500"),
			model.ExpensePropertyTax: d("400"),
			model.ExpenseUtilities:   d("200"),
			model.ExpenseMedical:     d("900"),
		},
	}

	allowance, err := NewCalculator().Calculate(profile, snapshot, testRules())
	require.NoError(t, err)
	assert.True(t, allowance.CSRAAmount.Equal(d("137400")))
	assert.True(t, allowance.RemainingAssets.Equal(d("212600")))
	assert.True(t, allowance.HousingCosts.Equal(d("2100")))
	assert.True(t, allowance.MMNAAmount.Equal(d("3435")))
	assert.True(t, allowance.IsCapped)
	assert.True(t, allowance.IncomeShortfall.Equal(d("2235")))
}
