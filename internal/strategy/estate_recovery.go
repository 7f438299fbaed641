package strategy

import (
	"fmt"

	"github.com/Veraticus/medplan/internal/model"
	"github.com/shopspring/decimal"
)

// RecoveryExposure grades how much of the estate is at risk.
type RecoveryExposure string

// Exposure tiers.
const (
	ExposureNone   RecoveryExposure = "none"
	ExposureLow    RecoveryExposure = "low"
	ExposureMedium RecoveryExposure = "medium"
	ExposureHigh   RecoveryExposure = "high"
)

var (
	highExposureEstate   = decimal.NewFromInt(250000)
	mediumExposureEstate = decimal.NewFromInt(50000)
)

// EstateRecoverySituation is the estate left exposed after death.
type EstateRecoverySituation struct {
	EstateValue        decimal.Decimal  `json:"estate_value"`
	HomeValue          decimal.Decimal  `json:"home_value"`
	Exposure           RecoveryExposure `json:"exposure"`
	ExpandedNonProbate bool             `json:"expanded_non_probate"`
	DefersForSpouse    bool             `json:"defers_for_spouse"`
	Married            bool             `json:"married"`
}

func (s EstateRecoverySituation) significant() bool {
	return s.Exposure == ExposureHigh || s.Exposure == ExposureMedium
}

// NewEstateRecoveryDeriver builds the estate recovery domain.
func NewEstateRecoveryDeriver() *Deriver[EstateRecoverySituation] {
	return &Deriver[EstateRecoverySituation]{
		domain: model.DomainEstateRecovery,
		assess: assessEstateRecovery,
		conditions: []Condition[EstateRecoverySituation]{
			{Strategy: EnhancedLifeEstateDeed, When: func(s EstateRecoverySituation) bool {
				return s.significant() && s.HomeValue.IsPositive() && !s.ExpandedNonProbate
			}},
			{Strategy: IrrevocableHomeTrust, When: func(s EstateRecoverySituation) bool {
				return s.significant() && s.HomeValue.IsPositive() && s.ExpandedNonProbate
			}},
			{Strategy: EstatePlanReview, When: func(s EstateRecoverySituation) bool { return s.Exposure == ExposureHigh }},
			{Strategy: SpousalDeferral, When: func(s EstateRecoverySituation) bool {
				return s.Exposure != ExposureNone && s.Married && s.DefersForSpouse
			}},
			{Strategy: NonProbateExposure, When: func(s EstateRecoverySituation) bool {
				return s.Exposure != ExposureNone && s.ExpandedNonProbate
			}},
			{Strategy: NoEstateRecovery, When: func(s EstateRecoverySituation) bool { return s.Exposure == ExposureNone }},
		},
		summary: func(s EstateRecoverySituation) string {
			if s.Exposure == ExposureNone {
				return "The jurisdiction does not recover long-term care costs from the estate."
			}
			return fmt.Sprintf("An estate of %s, including a home worth %s, has %s exposure to estate recovery.",
				Money(s.EstateValue), Money(s.HomeValue), s.Exposure)
		},
	}
}

func assessEstateRecovery(in Inputs, rules *model.JurisdictionRuleSet) (EstateRecoverySituation, error) {
	s := EstateRecoverySituation{
		EstateValue:        decimal.Zero,
		HomeValue:          in.Snapshot.Asset(model.AssetPrimaryResidence),
		ExpandedNonProbate: rules.EstateRecovery.ExpandedNonProbate,
		DefersForSpouse:    rules.EstateRecovery.DefersForSpouse,
		Married:            in.Profile.IsMarried(),
	}
	for _, amount := range in.Snapshot.Assets {
		s.EstateValue = s.EstateValue.Add(amount)
	}

	switch {
	case !rules.EstateRecovery.Applies:
		s.Exposure = ExposureNone
	case s.EstateValue.GreaterThanOrEqual(highExposureEstate):
		s.Exposure = ExposureHigh
	case s.EstateValue.GreaterThanOrEqual(mediumExposureEstate):
		s.Exposure = ExposureMedium
	default:
		s.Exposure = ExposureLow
	}
	return s, nil
}
