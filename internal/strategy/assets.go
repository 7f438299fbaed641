package strategy

import (
	"fmt"

	"github.com/Veraticus/medplan/internal/model"
	"github.com/shopspring/decimal"
)

// Excess above this amount calls for crisis planning rather than plain spend-down.
var largeAssetExcess = decimal.NewFromInt(50000)

// AssetSituation is the resource picture of the household.
type AssetSituation struct {
	CountableAssets  decimal.Decimal `json:"countable_assets"`
	ResourceLimit    decimal.Decimal `json:"resource_limit"`
	ExcessResources  decimal.Decimal `json:"excess_resources"`
	HomeEquity       decimal.Decimal `json:"home_equity"`
	HomeEquityLimit  decimal.Decimal `json:"home_equity_limit"`
	HomeEquityExcess decimal.Decimal `json:"home_equity_excess"`
	CommunitySpouse  bool            `json:"community_spouse"`
}

// NewAssetDeriver builds the asset domain.
func NewAssetDeriver() *Deriver[AssetSituation] {
	return &Deriver[AssetSituation]{
		domain: model.DomainAssets,
		assess: assessAssets,
		conditions: []Condition[AssetSituation]{
			{Strategy: SpendDownExempt, When: func(s AssetSituation) bool { return s.ExcessResources.IsPositive() }},
			{Strategy: ConvertCountableAssets, When: func(s AssetSituation) bool { return s.ExcessResources.IsPositive() }},
			{Strategy: TransferToCommunitySpouse, When: func(s AssetSituation) bool {
				return s.CommunitySpouse && s.ExcessResources.IsPositive()
			}},
			{Strategy: CrisisAssetProtection, When: func(s AssetSituation) bool {
				return s.ExcessResources.GreaterThan(largeAssetExcess)
			}},
			{Strategy: ReduceHomeEquity, When: func(s AssetSituation) bool { return s.HomeEquityExcess.IsPositive() }},
			{Strategy: DocumentResourceEligibility, When: func(s AssetSituation) bool {
				return s.ExcessResources.IsZero() && s.HomeEquityExcess.IsZero()
			}},
		},
		summary: func(s AssetSituation) string {
			if s.ExcessResources.IsZero() {
				return fmt.Sprintf("Countable assets of %s are within the %s resource limit.",
					Money(s.CountableAssets), Money(s.ResourceLimit))
			}
			return fmt.Sprintf("Countable assets of %s exceed the %s resource limit by %s.",
				Money(s.CountableAssets), Money(s.ResourceLimit), Money(s.ExcessResources))
		},
		steps: map[model.StrategyID]func(AssetSituation) string{
			SpendDownExempt: func(s AssetSituation) string {
				return fmt.Sprintf("Spend down %s on exempt purchases such as home repairs, a replacement vehicle or medical equipment.",
					Money(s.ExcessResources))
			},
			ReduceHomeEquity: func(s AssetSituation) string {
				return fmt.Sprintf("Home equity of %s is %s over the %s limit; reduce it with a reverse mortgage, home equity loan or sale.",
					Money(s.HomeEquity), Money(s.HomeEquityExcess), Money(s.HomeEquityLimit))
			},
		},
	}
}

func assessAssets(in Inputs, rules *model.JurisdictionRuleSet) (AssetSituation, error) {
	s := AssetSituation{
		CountableAssets: in.Eligibility.CountableAssets,
		ResourceLimit:   in.Eligibility.ResourceLimit,
		ExcessResources: in.SpendDown(),
		HomeEquity:      in.Snapshot.Asset(model.AssetPrimaryResidence),
		CommunitySpouse: in.HasCommunitySpouse(),
	}

	// The equity limit does not apply while a spouse lives in the home.
	if s.HomeEquity.IsPositive() && !s.CommunitySpouse {
		limit, err := rules.Require(model.FieldHomeEquityLimit, rules.HomeEquityLimit)
		if err != nil {
			return s, err
		}
		s.HomeEquityLimit = limit
		s.HomeEquityExcess = decimal.Max(decimal.Zero, s.HomeEquity.Sub(limit))
	}

	return s, nil
}
