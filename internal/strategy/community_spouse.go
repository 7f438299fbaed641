package strategy

import (
	"errors"
	"fmt"

	"github.com/Veraticus/medplan/internal/model"
	"github.com/shopspring/decimal"
)

// ErrMissingAllowance is returned when a married household reaches this domain without a spousal allowance.
var ErrMissingAllowance = errors.New("spousal allowance not computed")

// CommunitySpouseSituation restates the spousal allowance for planning.
type CommunitySpouseSituation struct {
	CSRAAmount         decimal.Decimal `json:"csra_amount"`
	RemainingAssets    decimal.Decimal `json:"remaining_assets"`
	MMNAAmount         decimal.Decimal `json:"mmna_amount"`
	IncomeShortfall    decimal.Decimal `json:"income_shortfall"`
	AllAssetsProtected bool            `json:"all_assets_protected"`
	IsCapped           bool            `json:"is_capped"`
	CourtOrderOverride bool            `json:"court_order_override"`
}

// NewCommunitySpouseDeriver builds the community spouse domain.
func NewCommunitySpouseDeriver() *Deriver[CommunitySpouseSituation] {
	return &Deriver[CommunitySpouseSituation]{
		domain: model.DomainCommunitySpouse,
		gate:   gateCommunitySpouse,
		assess: assessCommunitySpouse,
		conditions: []Condition[CommunitySpouseSituation]{
			{Strategy: SpendDownAboveCSRA, When: func(s CommunitySpouseSituation) bool { return !s.AllAssetsProtected }},
			{Strategy: FairHearingCSRA, When: func(s CommunitySpouseSituation) bool {
				return s.RemainingAssets.IsPositive() && s.IncomeShortfall.IsPositive()
			}},
			{Strategy: IncomeFirstAllocation, When: func(s CommunitySpouseSituation) bool {
				return s.IncomeShortfall.IsPositive()
			}},
			{Strategy: SeekCourtOrder, When: func(s CommunitySpouseSituation) bool { return s.IsCapped }},
			{Strategy: CourtOrderOnFile, When: func(s CommunitySpouseSituation) bool { return s.CourtOrderOverride }},
			{Strategy: AllAssetsProtected, When: func(s CommunitySpouseSituation) bool { return s.AllAssetsProtected }},
		},
		summary: func(s CommunitySpouseSituation) string {
			return fmt.Sprintf("The community spouse may keep %s in resources and %s in monthly income.",
				Money(s.CSRAAmount), Money(s.MMNAAmount))
		},
		steps: map[model.StrategyID]func(CommunitySpouseSituation) string{
			SpendDownAboveCSRA: func(s CommunitySpouseSituation) string {
				return fmt.Sprintf("Spend down or restructure the %s held above the resource allowance.", Money(s.RemainingAssets))
			},
			IncomeFirstAllocation: func(s CommunitySpouseSituation) string {
				return fmt.Sprintf("Allocate %s of the applicant's monthly income to the community spouse.", Money(s.IncomeShortfall))
			},
		},
	}
}

// gateCommunitySpouse handles households where the spousal allowance does not apply.
func gateCommunitySpouse(in Inputs) *model.DomainResult {
	switch {
	case !in.Profile.IsMarried():
		return &model.DomainResult{
			Domain:     model.DomainCommunitySpouse,
			Status:     model.DomainNotApplicable,
			Narrative:  "The applicant is not married, so no community spouse protections apply.",
			Strategies: []model.StrategyRecommendation{},
		}
	case in.Profile.SpouseNeedsCare():
		ids := []model.StrategyID{JointApplication, SeparateCareAssessment}
		strategies := make([]model.StrategyRecommendation, 0, len(ids))
		for i, id := range ids {
			strategies = append(strategies, model.StrategyRecommendation{
				Domain:   model.DomainCommunitySpouse,
				ID:       id,
				Text:     Describe(id),
				Priority: i + 1,
			})
		}
		narrative := renderApproach(
			"Both spouses need long-term care, so there is no community spouse to protect.",
			strategies,
			func(st model.StrategyRecommendation) string { return st.Text },
		)
		return &model.DomainResult{
			Domain:     model.DomainCommunitySpouse,
			Status:     model.DomainModified,
			Narrative:  narrative,
			Strategies: strategies,
		}
	}
	return nil
}

func assessCommunitySpouse(in Inputs, _ *model.JurisdictionRuleSet) (CommunitySpouseSituation, error) {
	if in.Allowance == nil {
		return CommunitySpouseSituation{}, ErrMissingAllowance
	}
	a := in.Allowance
	return CommunitySpouseSituation{
		CSRAAmount:         a.CSRAAmount,
		RemainingAssets:    a.RemainingAssets,
		MMNAAmount:         a.MMNAAmount,
		IncomeShortfall:    a.IncomeShortfall,
		AllAssetsProtected: a.AllAssetsProtected,
		IsCapped:           a.IsCapped,
		CourtOrderOverride: a.CourtOrderOverride,
	}, nil
}
