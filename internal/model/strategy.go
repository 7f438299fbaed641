package model

// Domain is a planning area with its own strategy table.
type Domain string

// Planning domains.
const (
	DomainAssets            Domain = "assets"
	DomainIncome            Domain = "income"
	DomainTrusts            Domain = "trusts"
	DomainAnnuities         Domain = "annuities"
	DomainDivestment        Domain = "divestment"
	DomainCommunitySpouse   Domain = "community_spouse"
	DomainEstateRecovery    Domain = "estate_recovery"
	DomainApplicationTiming Domain = "application_timing"
	DomainPostEligibility   Domain = "post_eligibility"
)

// AllDomains lists every domain in report order.
var AllDomains = []Domain{
	DomainAssets,
	DomainIncome,
	DomainTrusts,
	DomainAnnuities,
	DomainDivestment,
	DomainCommunitySpouse,
	DomainEstateRecovery,
	DomainApplicationTiming,
	DomainPostEligibility,
}

// StrategyID is the stable identifier of a recommendation.
type StrategyID string

// StrategyRecommendation is one ranked remediation step.
type StrategyRecommendation struct {
	Domain   Domain     `json:"domain"`
	ID       StrategyID `json:"id"`
	Text     string     `json:"text"`
	Priority int        `json:"priority"`
}

// DomainStatus says how a domain result was produced.
type DomainStatus string

// Domain statuses.
const (
	DomainComputed      DomainStatus = "computed"
	DomainNotApplicable DomainStatus = "not_applicable"
	DomainModified      DomainStatus = "modified"
)

// DomainResult is the output of one planning domain.
type DomainResult struct {
	Situation  any                      `json:"situation,omitempty"`
	Domain     Domain                   `json:"domain"`
	Status     DomainStatus             `json:"status"`
	Narrative  string                   `json:"narrative"`
	Strategies []StrategyRecommendation `json:"strategies"`
}

// HasStrategy reports whether the result recommends the given strategy.
func (r *DomainResult) HasStrategy(id StrategyID) bool {
	for _, s := range r.Strategies {
		if s.ID == id {
			return true
		}
	}
	return false
}
