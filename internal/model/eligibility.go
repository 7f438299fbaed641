package model

import "github.com/shopspring/decimal"

// EligibilityResult is the outcome of the resource and income tests.
type EligibilityResult struct {
	CountableAssets    decimal.Decimal `json:"countable_assets"`
	TotalIncome        decimal.Decimal `json:"total_income"`
	ResourceLimit      decimal.Decimal `json:"resource_limit"`
	IncomeLimit        decimal.Decimal `json:"income_limit"`
	ExcessResources    decimal.Decimal `json:"excess_resources"`
	ExcessIncome       decimal.Decimal `json:"excess_income"`
	MaritalStatus      MaritalStatus   `json:"marital_status"`
	IsResourceEligible bool            `json:"is_resource_eligible"`
	IsIncomeEligible   bool            `json:"is_income_eligible"`
}

// IsEligible reports whether both tests pass.
func (r EligibilityResult) IsEligible() bool {
	return r.IsResourceEligible && r.IsIncomeEligible
}
