package strategy

import (
	"fmt"

	"github.com/Veraticus/medplan/internal/model"
	"github.com/shopspring/decimal"
)

// Below this excess an annuity's setup cost outweighs the benefit.
var annuityMinimumExcess = decimal.NewFromInt(25000)

// Applicants at or above this age have life expectancies short enough for a short-term annuity.
const shortTermAnnuityAge = 90

// AnnuitySituation is what determines whether an annuity helps.
type AnnuitySituation struct {
	ExcessResources    decimal.Decimal `json:"excess_resources"`
	RevocableAnnuities decimal.Decimal `json:"revocable_annuities"`
	Age                int             `json:"age"`
	CommunitySpouse    bool            `json:"community_spouse"`
}

// NewAnnuityDeriver builds the annuity domain.
func NewAnnuityDeriver() *Deriver[AnnuitySituation] {
	return &Deriver[AnnuitySituation]{
		domain: model.DomainAnnuities,
		assess: assessAnnuities,
		conditions: []Condition[AnnuitySituation]{
			{Strategy: SpousalCompliantAnnuity, When: func(s AnnuitySituation) bool {
				return s.CommunitySpouse && s.ExcessResources.IsPositive()
			}},
			{Strategy: CompliantAnnuity, When: func(s AnnuitySituation) bool {
				return s.ExcessResources.GreaterThan(annuityMinimumExcess)
			}},
			{Strategy: AnnuitizeExisting, When: func(s AnnuitySituation) bool { return s.RevocableAnnuities.IsPositive() }},
			{Strategy: ShortTermAnnuity, When: func(s AnnuitySituation) bool {
				return s.ExcessResources.IsPositive() && s.Age >= shortTermAnnuityAge
			}},
		},
		summary: func(s AnnuitySituation) string {
			return fmt.Sprintf("Annuity planning considers %s of excess resources.", Money(s.ExcessResources))
		},
		steps: map[model.StrategyID]func(AnnuitySituation) string{
			SpousalCompliantAnnuity: func(s AnnuitySituation) string {
				return fmt.Sprintf("Convert %s into a Medicaid-compliant annuity naming the community spouse as payee.",
					Money(s.ExcessResources))
			},
			CompliantAnnuity: func(s AnnuitySituation) string {
				return fmt.Sprintf("Convert %s into an irrevocable, actuarially sound single premium immediate annuity naming the state as remainder beneficiary.",
					Money(s.ExcessResources))
			},
			AnnuitizeExisting: func(s AnnuitySituation) string {
				return fmt.Sprintf("Annuitize %s of revocable annuities so they become an income stream.", Money(s.RevocableAnnuities))
			},
		},
	}
}

func assessAnnuities(in Inputs, _ *model.JurisdictionRuleSet) (AnnuitySituation, error) {
	return AnnuitySituation{
		ExcessResources:    in.SpendDown(),
		RevocableAnnuities: in.Snapshot.Asset(model.AssetRevocableAnnuities),
		Age:                in.Profile.Age,
		CommunitySpouse:    in.HasCommunitySpouse(),
	}, nil
}
