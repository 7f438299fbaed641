package testutil

import (
	"time"

	"github.com/Veraticus/medplan/internal/model"
	"github.com/shopspring/decimal"
)

// HouseholdBuilder constructs a client profile and financial snapshot together.
//
// Example:
//
//	profile, snapshot := testutil.NewHousehold("c1").
//		Married("1200").
//		Asset(model.AssetSavings, "100000").
//		Build()
type HouseholdBuilder struct {
	profile  model.ClientProfile
	snapshot model.FinancialSnapshot
}

// NewHousehold starts a single 80-year-old applicant with no finances.
func NewHousehold(id string) *HouseholdBuilder {
	return &HouseholdBuilder{
		profile: model.ClientProfile{
			ID:            id,
			Name:          "Test Client",
			MaritalStatus: model.MaritalSingle,
			Age:           80,
		},
		snapshot: model.FinancialSnapshot{
			Assets:   map[model.AssetCategory]decimal.Decimal{},
			Income:   map[model.IncomeSource]decimal.Decimal{},
			Expenses: map[model.ExpenseCategory]decimal.Decimal{},
		},
	}
}

// Status sets the marital status without adding a spouse.
func (b *HouseholdBuilder) Status(status model.MaritalStatus) *HouseholdBuilder {
	b.profile.MaritalStatus = status
	return b
}

// Age sets the applicant's age.
func (b *HouseholdBuilder) Age(age int) *HouseholdBuilder {
	b.profile.Age = age
	return b
}

// Married adds a community spouse with the given monthly income.
func (b *HouseholdBuilder) Married(spouseIncome string) *HouseholdBuilder {
	b.profile.MaritalStatus = model.MaritalMarried
	b.profile.Spouse = &model.SpouseProfile{
		MonthlyIncome: Dec(spouseIncome),
		Age:           78,
	}
	return b
}

// SpouseInCare marks the spouse as also needing long-term care.
func (b *HouseholdBuilder) SpouseInCare() *HouseholdBuilder {
	b.ensureSpouse()
	b.profile.Spouse.NeedsLongTermCare = true
	return b
}

// CourtOrder records court-ordered spousal support.
func (b *HouseholdBuilder) CourtOrder(amount string) *HouseholdBuilder {
	b.ensureSpouse()
	v := Dec(amount)
	b.profile.Spouse.CourtOrderedSupport = &v
	return b
}

// Asset sets an asset category amount.
func (b *HouseholdBuilder) Asset(c model.AssetCategory, amount string) *HouseholdBuilder {
	b.snapshot.Assets[c] = Dec(amount)
	return b
}

// Income sets a monthly income source.
func (b *HouseholdBuilder) Income(src model.IncomeSource, amount string) *HouseholdBuilder {
	b.snapshot.Income[src] = Dec(amount)
	return b
}

// Expense sets a monthly expense.
func (b *HouseholdBuilder) Expense(c model.ExpenseCategory, amount string) *HouseholdBuilder {
	b.snapshot.Expenses[c] = Dec(amount)
	return b
}

// Transfer records an asset transfer.
func (b *HouseholdBuilder) Transfer(on time.Time, amount, received string) *HouseholdBuilder {
	b.snapshot.Transfers = append(b.snapshot.Transfers, model.AssetTransfer{
		Date:                    model.Date{Time: on},
		Recipient:               "family member",
		Amount:                  Dec(amount),
		FairMarketValueReceived: Dec(received),
	})
	return b
}

// Profile returns the client profile.
func (b *HouseholdBuilder) Profile() model.ClientProfile {
	return b.profile
}

// Snapshot returns the financial snapshot.
func (b *HouseholdBuilder) Snapshot() model.FinancialSnapshot {
	return b.snapshot
}

// Build returns both halves.
func (b *HouseholdBuilder) Build() (model.ClientProfile, model.FinancialSnapshot) {
	return b.profile, b.snapshot
}

func (b *HouseholdBuilder) ensureSpouse() {
	if b.profile.Spouse == nil {
		b.Married("0")
	}
}
