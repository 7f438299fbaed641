package model

import (
	"fmt"
	"time"

	"github.com/Veraticus/medplan/internal/common"
	"github.com/shopspring/decimal"
)

// AssetCategory names a kind of asset.
type AssetCategory string

// Asset categories. Countable categories are counted against the resource limit.
const (
	AssetCash                   AssetCategory = "cash"
	AssetChecking               AssetCategory = "checking"
	AssetSavings                AssetCategory = "savings"
	AssetMoneyMarket            AssetCategory = "money_market"
	AssetCertificatesOfDeposit  AssetCategory = "certificates_of_deposit"
	AssetStocks                 AssetCategory = "stocks"
	AssetBonds                  AssetCategory = "bonds"
	AssetMutualFunds            AssetCategory = "mutual_funds"
	AssetRetirementAccounts     AssetCategory = "retirement_accounts"
	AssetCashValueLifeInsurance AssetCategory = "cash_value_life_insurance"
	AssetAdditionalRealEstate   AssetCategory = "additional_real_estate"
	AssetAdditionalVehicles     AssetCategory = "additional_vehicles"
	AssetRevocableAnnuities     AssetCategory = "annuities_revocable"

	AssetPrimaryResidence     AssetCategory = "primary_residence"
	AssetPrimaryVehicle       AssetCategory = "primary_vehicle"
	AssetPersonalProperty     AssetCategory = "personal_property"
	AssetBurialFunds          AssetCategory = "burial_funds"
	AssetPrepaidFuneral       AssetCategory = "prepaid_funeral"
	AssetIrrevocableAnnuities AssetCategory = "irrevocable_annuities"
)

var countableAssets = map[AssetCategory]bool{
	AssetCash:                   true,
	AssetChecking:               true,
	AssetSavings:                true,
	AssetMoneyMarket:            true,
	AssetCertificatesOfDeposit:  true,
	AssetStocks:                 true,
	AssetBonds:                  true,
	AssetMutualFunds:            true,
	AssetRetirementAccounts:     true,
	AssetCashValueLifeInsurance: true,
	AssetAdditionalRealEstate:   true,
	AssetAdditionalVehicles:     true,
	AssetRevocableAnnuities:     true,
}

// IsCountable reports whether the category counts against the resource limit.
func (c AssetCategory) IsCountable() bool {
	return countableAssets[c]
}

// IncomeSource names a kind of monthly income.
type IncomeSource string

// Income sources.
const (
	IncomeSocialSecurity    IncomeSource = "social_security"
	IncomePension           IncomeSource = "pension"
	IncomeAnnuity           IncomeSource = "annuity"
	IncomeWages             IncomeSource = "wages"
	IncomeRental            IncomeSource = "rental"
	IncomeInterestDividends IncomeSource = "interest_dividends"
	IncomeVeteransBenefits  IncomeSource = "veterans_benefits"
	IncomeOther             IncomeSource = "other"
)

// ExpenseCategory names a kind of monthly expense.
type ExpenseCategory string

// Expense categories. Housing categories feed the excess shelter allowance.
const (
	ExpenseRent                   ExpenseCategory = "rent"
	ExpenseMortgage               ExpenseCategory = "mortgage"
	ExpensePropertyTax            ExpenseCategory = "property_tax"
	ExpenseHomeownersInsurance    ExpenseCategory = "homeowners_insurance"
	ExpenseCondoFees              ExpenseCategory = "condo_fees"
	ExpenseUtilities              ExpenseCategory = "utilities"
	ExpenseHealthInsurancePremium ExpenseCategory = "health_insurance_premiums"
	ExpenseMedical                ExpenseCategory = "medical"
)

var housingExpenses = []ExpenseCategory{
	ExpenseRent,
	ExpenseMortgage,
	ExpensePropertyTax,
	ExpenseHomeownersInsurance,
	ExpenseCondoFees,
	ExpenseUtilities,
}

// AssetTransfer records a gift or sale of an asset before application.
type AssetTransfer struct {
	Date                    Date            `json:"date"`
	Recipient               string          `json:"recipient"`
	Amount                  decimal.Decimal `json:"amount"`
	FairMarketValueReceived decimal.Decimal `json:"fair_market_value_received"`
}

// Uncompensated returns the part of the transfer not matched by value received.
func (t AssetTransfer) Uncompensated() decimal.Decimal {
	return decimal.Max(decimal.Zero, t.Amount.Sub(t.FairMarketValueReceived))
}

// FinancialSnapshot is the applicant household's finances at one point in time.
type FinancialSnapshot struct {
	Assets    map[AssetCategory]decimal.Decimal   `json:"assets"`
	Income    map[IncomeSource]decimal.Decimal    `json:"income"`
	Expenses  map[ExpenseCategory]decimal.Decimal `json:"expenses"`
	Transfers []AssetTransfer                     `json:"transfers,omitempty"`
}

// Asset returns the amount held in one category.
func (s FinancialSnapshot) Asset(c AssetCategory) decimal.Decimal {
	return s.Assets[c]
}

// Expense returns the monthly amount for one expense category.
func (s FinancialSnapshot) Expense(c ExpenseCategory) decimal.Decimal {
	return s.Expenses[c]
}

// CountableAssets sums the categories counted against the resource limit.
func (s FinancialSnapshot) CountableAssets() decimal.Decimal {
	total := decimal.Zero
	for category, amount := range s.Assets {
		if category.IsCountable() {
			total = total.Add(amount)
		}
	}
	return total
}

// TotalIncome sums every income source.
func (s FinancialSnapshot) TotalIncome() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range s.Income {
		total = total.Add(amount)
	}
	return total
}

// HousingCosts sums the housing expense categories.
func (s FinancialSnapshot) HousingCosts() decimal.Decimal {
	total := decimal.Zero
	for _, c := range housingExpenses {
		total = total.Add(s.Expenses[c])
	}
	return total
}

// UncompensatedTransfersSince sums uncompensated transfers made on or after since.
func (s FinancialSnapshot) UncompensatedTransfersSince(since time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, t := range s.Transfers {
		if !t.Date.Before(since) {
			total = total.Add(t.Uncompensated())
		}
	}
	return total
}

// Validate checks that no amount is negative. It is called once at the input boundary.
func (s FinancialSnapshot) Validate() error {
	for c, amount := range s.Assets {
		if amount.IsNegative() {
			return common.Invalid(fmt.Sprintf("assets.%s", c), "cannot be negative")
		}
	}
	for c, amount := range s.Income {
		if amount.IsNegative() {
			return common.Invalid(fmt.Sprintf("income.%s", c), "cannot be negative")
		}
	}
	for c, amount := range s.Expenses {
		if amount.IsNegative() {
			return common.Invalid(fmt.Sprintf("expenses.%s", c), "cannot be negative")
		}
	}
	for i, t := range s.Transfers {
		if t.Date.IsZero() {
			return common.Invalid(fmt.Sprintf("transfers[%d].date", i), "is required")
		}
		if t.Amount.IsNegative() || t.FairMarketValueReceived.IsNegative() {
			return common.Invalid(fmt.Sprintf("transfers[%d]", i), "amounts cannot be negative")
		}
	}
	return nil
}
