package strategy

import (
	"fmt"

	"github.com/Veraticus/medplan/internal/model"
	"github.com/shopspring/decimal"
)

// Excess resources above this amount justify the cost of an asset protection trust.
var largeTrustExcess = decimal.NewFromInt(100000)

// Special needs trusts are only available to applicants under this age.
const specialNeedsTrustAgeLimit = 65

// TrustSituation is what determines which trusts are worth using.
type TrustSituation struct {
	ExcessResources       decimal.Decimal `json:"excess_resources"`
	ExcessIncome          decimal.Decimal `json:"excess_income"`
	HomeValue             decimal.Decimal `json:"home_value"`
	Age                   int             `json:"age"`
	LookbackMonths        int             `json:"lookback_months"`
	IncomeCapState        bool            `json:"income_cap_state"`
	EstateRecoveryApplies bool            `json:"estate_recovery_applies"`
	CommunitySpouse       bool            `json:"community_spouse"`
}

// NewTrustDeriver builds the trust domain.
func NewTrustDeriver() *Deriver[TrustSituation] {
	return &Deriver[TrustSituation]{
		domain: model.DomainTrusts,
		assess: assessTrusts,
		conditions: []Condition[TrustSituation]{
			{Strategy: QualifiedIncomeTrust, When: func(s TrustSituation) bool {
				return s.IncomeCapState && s.ExcessIncome.IsPositive()
			}},
			{Strategy: AssetProtectionTrust, When: func(s TrustSituation) bool {
				return s.ExcessResources.GreaterThan(largeTrustExcess)
			}},
			{Strategy: SpecialNeedsTrust, When: func(s TrustSituation) bool {
				return s.ExcessResources.IsPositive() && s.Age < specialNeedsTrustAgeLimit
			}},
			{Strategy: PooledTrust, When: func(s TrustSituation) bool {
				return s.ExcessResources.IsPositive() && s.Age >= specialNeedsTrustAgeLimit
			}},
			{Strategy: IrrevocableHomeTrust, When: func(s TrustSituation) bool {
				return s.HomeValue.IsPositive() && s.EstateRecoveryApplies && !s.CommunitySpouse
			}},
		},
		summary: func(s TrustSituation) string {
			return fmt.Sprintf("Trust planning considers %s of excess resources and %s of excess monthly income.",
				Money(s.ExcessResources), Money(s.ExcessIncome))
		},
		steps: map[model.StrategyID]func(TrustSituation) string{
			AssetProtectionTrust: func(s TrustSituation) string {
				return fmt.Sprintf("Fund an irrevocable asset protection trust; transfers clear after the %d-month lookback period.",
					s.LookbackMonths)
			},
			PooledTrust: func(s TrustSituation) string {
				return fmt.Sprintf("Place %s in a pooled trust; some jurisdictions penalize transfers to pooled trusts after age 65.",
					Money(s.ExcessResources))
			},
		},
	}
}

func assessTrusts(in Inputs, rules *model.JurisdictionRuleSet) (TrustSituation, error) {
	return TrustSituation{
		ExcessResources:       in.SpendDown(),
		ExcessIncome:          in.Eligibility.ExcessIncome,
		HomeValue:             in.Snapshot.Asset(model.AssetPrimaryResidence),
		Age:                   in.Profile.Age,
		LookbackMonths:        rules.LookbackMonths,
		IncomeCapState:        rules.IncomeCapState,
		EstateRecoveryApplies: rules.EstateRecovery.Applies,
		CommunitySpouse:       in.HasCommunitySpouse(),
	}, nil
}
