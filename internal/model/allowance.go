package model

import "github.com/shopspring/decimal"

// SpouseNeeds are the community spouse's monthly figures used for the MMNA.
type SpouseNeeds struct {
	CourtOrderedSupport *decimal.Decimal
	HousingCosts        decimal.Decimal
	MonthlyIncome       decimal.Decimal
}

// CSRAResult is the resource half of the spousal allowance.
type CSRAResult struct {
	TotalAssets        decimal.Decimal `json:"total_assets"`
	HalfOfAssets       decimal.Decimal `json:"half_of_assets"`
	CSRAAmount         decimal.Decimal `json:"csra_amount"`
	RemainingAssets    decimal.Decimal `json:"remaining_assets"`
	AllAssetsProtected bool            `json:"all_assets_protected"`
}

// MMNAResult is the income half of the spousal allowance.
type MMNAResult struct {
	HousingCosts           decimal.Decimal `json:"housing_costs"`
	ExcessShelterAllowance decimal.Decimal `json:"excess_shelter_allowance"`
	MMNAAmount             decimal.Decimal `json:"mmna_amount"`
	SpouseIncome           decimal.Decimal `json:"spouse_income"`
	IncomeShortfall        decimal.Decimal `json:"income_shortfall"`
	IsCapped               bool            `json:"is_capped"`
	CourtOrderOverride     bool            `json:"court_order_override"`
}

// SpousalAllowance combines the resource and income allowances for a community spouse.
type SpousalAllowance struct {
	CSRAResult
	MMNAResult
}
