package model

import (
	"strings"

	"github.com/Veraticus/medplan/internal/common"
	"github.com/shopspring/decimal"
)

// MaritalStatus is the applicant's marital status for limit selection.
type MaritalStatus string

// Marital status constants.
const (
	MaritalSingle   MaritalStatus = "single"
	MaritalMarried  MaritalStatus = "married"
	MaritalWidowed  MaritalStatus = "widowed"
	MaritalDivorced MaritalStatus = "divorced"
)

// IsMarried reports whether married limits apply.
func (m MaritalStatus) IsMarried() bool {
	return m == MaritalMarried
}

// Valid reports whether the status is one of the known values.
func (m MaritalStatus) Valid() bool {
	switch m {
	case MaritalSingle, MaritalMarried, MaritalWidowed, MaritalDivorced:
		return true
	}
	return false
}

// SpouseProfile describes the applicant's spouse.
type SpouseProfile struct {
	CourtOrderedSupport *decimal.Decimal `json:"court_ordered_support,omitempty"`
	MonthlyIncome       decimal.Decimal  `json:"monthly_income"`
	Age                 int              `json:"age"`
	NeedsLongTermCare   bool             `json:"needs_long_term_care"`
}

// ClientProfile identifies the applicant.
type ClientProfile struct {
	Spouse        *SpouseProfile `json:"spouse,omitempty"`
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	MaritalStatus MaritalStatus  `json:"marital_status"`
	Age           int            `json:"age"`
}

// IsMarried reports whether the applicant is married.
func (p ClientProfile) IsMarried() bool {
	return p.MaritalStatus.IsMarried()
}

// HasCommunitySpouse reports whether the spouse stays at home, which is the only
// case where the standard spousal allowance calculation applies.
func (p ClientProfile) HasCommunitySpouse() bool {
	return p.IsMarried() && (p.Spouse == nil || !p.Spouse.NeedsLongTermCare)
}

// SpouseNeedsCare reports whether both spouses require long-term care.
func (p ClientProfile) SpouseNeedsCare() bool {
	return p.IsMarried() && p.Spouse != nil && p.Spouse.NeedsLongTermCare
}

// Validate checks the profile shape. It is called once at the input boundary.
func (p ClientProfile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return common.Invalid("id", "is required")
	}
	if p.Age < 0 || p.Age > 130 {
		return common.Invalid("age", "must be between 0 and 130")
	}
	if !p.MaritalStatus.Valid() {
		return common.Invalid("marital_status", "must be single, married, widowed or divorced")
	}
	if p.Spouse != nil {
		if !p.IsMarried() {
			return common.Invalid("spouse", "only allowed when marital_status is married")
		}
		if p.Spouse.Age < 0 || p.Spouse.Age > 130 {
			return common.Invalid("spouse.age", "must be between 0 and 130")
		}
		if p.Spouse.MonthlyIncome.IsNegative() {
			return common.Invalid("spouse.monthly_income", "cannot be negative")
		}
		if p.Spouse.CourtOrderedSupport != nil && p.Spouse.CourtOrderedSupport.IsNegative() {
			return common.Invalid("spouse.court_ordered_support", "cannot be negative")
		}
	}
	return nil
}
