package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/medplan/internal/common"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used in rule data and client files.
const DateLayout = "2006-01-02"

// Date is a calendar date serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON writes the date as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts YYYY-MM-DD or RFC 3339 strings.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		*d = Date{Time: t.UTC()}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// RuleValue is a numeric threshold as published by a jurisdiction. Source data is
// not always complete, so a value may be missing (null) or non-numeric ("varies").
type RuleValue struct {
	Value decimal.Decimal
	Raw   string
	Valid bool
}

// NewRuleValue wraps a known amount.
func NewRuleValue(d decimal.Decimal) RuleValue {
	return RuleValue{Value: d, Valid: true}
}

// RuleValueOf parses a textual amount such as "2000", "$2,000.00" or "varies".
// Text that is not a number produces an invalid value that keeps the raw text.
func RuleValueOf(s string) RuleValue {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return RuleValue{Raw: s}
	}
	return RuleValue{Value: d, Raw: s, Valid: true}
}

// MarshalJSON writes numbers unquoted, and invalid values as their raw text or null.
func (v RuleValue) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		if v.Raw == "" {
			return []byte("null"), nil
		}
		return json.Marshal(v.Raw)
	}
	return []byte(v.Value.String()), nil
}

// UnmarshalJSON accepts numbers, numeric strings, null and free text.
func (v *RuleValue) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*v = RuleValue{}
		return nil
	}

	if s[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("invalid rule value %s: %w", s, err)
		}
		*v = RuleValueOf(text)
		return nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid rule value %s: %w", s, err)
	}
	*v = RuleValue{Value: d, Valid: true}
	return nil
}

// EstateRecoveryRules describes how a jurisdiction recovers benefits from estates.
type EstateRecoveryRules struct {
	Applies            bool `json:"applies"`
	ExpandedNonProbate bool `json:"expanded_non_probate"`
	DefersForSpouse    bool `json:"defers_for_spouse"`
}

// JurisdictionRuleSet holds the numeric program rules for one jurisdiction as of
// one effective date. Instances are never mutated after loading.
type JurisdictionRuleSet struct {
	EffectiveDate          Date                `json:"effective_date"`
	Key                    string              `json:"key"`
	DisplayName            string              `json:"display_name"`
	Aliases                []string            `json:"aliases,omitempty"`
	ResourceLimitSingle    RuleValue           `json:"resource_limit_single"`
	ResourceLimitMarried   RuleValue           `json:"resource_limit_married"`
	IncomeLimitSingle      RuleValue           `json:"income_limit_single"`
	IncomeLimitMarried     RuleValue           `json:"income_limit_married"`
	CSRAMin                RuleValue           `json:"csra_min"`
	CSRAMax                RuleValue           `json:"csra_max"`
	MMNAMin                RuleValue           `json:"mmna_min"`
	MMNAMax                RuleValue           `json:"mmna_max"`
	ExcessShelterStandard  RuleValue           `json:"excess_shelter_standard"`
	HomeEquityLimit        RuleValue           `json:"home_equity_limit"`
	PersonalNeedsAllowance RuleValue           `json:"personal_needs_allowance"`
	PenaltyDivisor         RuleValue           `json:"penalty_divisor"`
	LookbackMonths         int                 `json:"lookback_months"`
	IncomeCapState         bool                `json:"income_cap_state"`
	EstateRecovery         EstateRecoveryRules `json:"estate_recovery"`
}

// Rule field names used in error messages.
const (
	FieldResourceLimitSingle    = "resource_limit_single"
	FieldResourceLimitMarried   = "resource_limit_married"
	FieldIncomeLimitSingle      = "income_limit_single"
	FieldIncomeLimitMarried     = "income_limit_married"
	FieldCSRAMin                = "csra_min"
	FieldCSRAMax                = "csra_max"
	FieldMMNAMin                = "mmna_min"
	FieldMMNAMax                = "mmna_max"
	FieldExcessShelterStandard  = "excess_shelter_standard"
	FieldHomeEquityLimit        = "home_equity_limit"
	FieldPersonalNeedsAllowance = "personal_needs_allowance"
	FieldPenaltyDivisor         = "penalty_divisor"
)

// FieldNames lists every numeric rule field in display order.
var FieldNames = []string{
	FieldResourceLimitSingle,
	FieldResourceLimitMarried,
	FieldIncomeLimitSingle,
	FieldIncomeLimitMarried,
	FieldCSRAMin,
	FieldCSRAMax,
	FieldMMNAMin,
	FieldMMNAMax,
	FieldExcessShelterStandard,
	FieldHomeEquityLimit,
	FieldPersonalNeedsAllowance,
	FieldPenaltyDivisor,
}

// Field returns a pointer to the named rule value, or nil for an unknown name.
func (r *JurisdictionRuleSet) Field(name string) *RuleValue {
	switch name {
	case FieldResourceLimitSingle:
		return &r.ResourceLimitSingle
	case FieldResourceLimitMarried:
		return &r.ResourceLimitMarried
	case FieldIncomeLimitSingle:
		return &r.IncomeLimitSingle
	case FieldIncomeLimitMarried:
		return &r.IncomeLimitMarried
	case FieldCSRAMin:
		return &r.CSRAMin
	case FieldCSRAMax:
		return &r.CSRAMax
	case FieldMMNAMin:
		return &r.MMNAMin
	case FieldMMNAMax:
		return &r.MMNAMax
	case FieldExcessShelterStandard:
		return &r.ExcessShelterStandard
	case FieldHomeEquityLimit:
		return &r.HomeEquityLimit
	case FieldPersonalNeedsAllowance:
		return &r.PersonalNeedsAllowance
	case FieldPenaltyDivisor:
		return &r.PenaltyDivisor
	}
	return nil
}

// String renders a value for display.
func (v RuleValue) String() string {
	if v.Valid {
		return v.Value.StringFixed(2)
	}
	if v.Raw != "" {
		return v.Raw
	}
	return "n/a"
}

// Require returns the numeric value of a rule field or a MissingRuleValue error.
func (r *JurisdictionRuleSet) Require(field string, v RuleValue) (decimal.Decimal, error) {
	if !v.Valid {
		return decimal.Zero, common.MissingRuleValue(r.Key, field)
	}
	return v.Value, nil
}

// ResourceLimit selects the resource limit for a marital status.
func (r *JurisdictionRuleSet) ResourceLimit(status MaritalStatus) (decimal.Decimal, error) {
	if status.IsMarried() {
		return r.Require(FieldResourceLimitMarried, r.ResourceLimitMarried)
	}
	return r.Require(FieldResourceLimitSingle, r.ResourceLimitSingle)
}

// IncomeLimit selects the income limit for a marital status.
func (r *JurisdictionRuleSet) IncomeLimit(status MaritalStatus) (decimal.Decimal, error) {
	if status.IsMarried() {
		return r.Require(FieldIncomeLimitMarried, r.IncomeLimitMarried)
	}
	return r.Require(FieldIncomeLimitSingle, r.IncomeLimitSingle)
}

// Clone returns a copy that shares no slices with the receiver.
func (r *JurisdictionRuleSet) Clone() *JurisdictionRuleSet {
	c := *r
	if r.Aliases != nil {
		c.Aliases = append([]string(nil), r.Aliases...)
	}
	return &c
}
