package testutil

import (
	"time"

	"github.com/Veraticus/medplan/internal/model"
	"github.com/shopspring/decimal"
)

// Dec parses a decimal literal and panics on malformed input.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// RuleSetBuilder provides a fluent interface for constructing rule sets.
// It starts from complete 2025 Florida figures so tests only state what they change.
type RuleSetBuilder struct {
	rs model.JurisdictionRuleSet
}

// NewRuleSetBuilder returns a builder seeded with a complete rule set.
func NewRuleSetBuilder() *RuleSetBuilder {
	return &RuleSetBuilder{rs: model.JurisdictionRuleSet{
		Key:                    "florida",
		DisplayName:            "Florida",
		EffectiveDate:          model.NewDate(2025, time.January, 1),
		ResourceLimitSingle:    model.NewRuleValue(Dec("2000")),
		ResourceLimitMarried:   model.NewRuleValue(Dec("3000")),
		IncomeLimitSingle:      model.NewRuleValue(Dec("2901")),
		IncomeLimitMarried:     model.NewRuleValue(Dec("5802")),
		CSRAMin:                model.NewRuleValue(Dec("31584")),
		CSRAMax:                model.NewRuleValue(Dec("157920")),
		MMNAMin:                model.NewRuleValue(Dec("2643.75")),
		MMNAMax:                model.NewRuleValue(Dec("3948")),
		ExcessShelterStandard:  model.NewRuleValue(Dec("793.13")),
		HomeEquityLimit:        model.NewRuleValue(Dec("730000")),
		PersonalNeedsAllowance: model.NewRuleValue(Dec("160")),
		PenaltyDivisor:         model.NewRuleValue(Dec("10438")),
		LookbackMonths:         60,
		IncomeCapState:         true,
		EstateRecovery:         model.EstateRecoveryRules{Applies: true},
	}}
}

// WithKey sets the jurisdiction key and display name.
func (b *RuleSetBuilder) WithKey(key, name string) *RuleSetBuilder {
	b.rs.Key = key
	b.rs.DisplayName = name
	return b
}

// WithAliases sets the declared aliases.
func (b *RuleSetBuilder) WithAliases(aliases ...string) *RuleSetBuilder {
	b.rs.Aliases = aliases
	return b
}

// EffectiveFrom sets the effective date.
func (b *RuleSetBuilder) EffectiveFrom(year int, month time.Month, day int) *RuleSetBuilder {
	b.rs.EffectiveDate = model.NewDate(year, month, day)
	return b
}

// With sets a numeric field by name.
func (b *RuleSetBuilder) With(field, amount string) *RuleSetBuilder {
	if v := b.rs.Field(field); v != nil {
		*v = model.NewRuleValue(Dec(amount))
	}
	return b
}

// Without clears a numeric field, as if the source data had no value for it.
func (b *RuleSetBuilder) Without(field string) *RuleSetBuilder {
	if v := b.rs.Field(field); v != nil {
		*v = model.RuleValue{}
	}
	return b
}

// WithIncomeCap toggles the income cap flag.
func (b *RuleSetBuilder) WithIncomeCap(capped bool) *RuleSetBuilder {
	b.rs.IncomeCapState = capped
	return b
}

// WithLookback sets the lookback period in months.
func (b *RuleSetBuilder) WithLookback(months int) *RuleSetBuilder {
	b.rs.LookbackMonths = months
	return b
}

// WithEstateRecovery replaces the estate recovery rules.
func (b *RuleSetBuilder) WithEstateRecovery(er model.EstateRecoveryRules) *RuleSetBuilder {
	b.rs.EstateRecovery = er
	return b
}

// Build returns a copy of the rule set.
func (b *RuleSetBuilder) Build() *model.JurisdictionRuleSet {
	return b.rs.Clone()
}
