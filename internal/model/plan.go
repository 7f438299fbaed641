package model

import (
	"time"

	"github.com/Veraticus/medplan/internal/common"
)

// PlanStatus is the terminal state of a planning run.
type PlanStatus string

// Plan statuses.
const (
	PlanSuccess PlanStatus = "success"
	PlanPartial PlanStatus = "partial"
	PlanError   PlanStatus = "error"
)

// PlanningResult is the composite output of one planning run.
type PlanningResult struct {
	GeneratedAt      time.Time                    `json:"generated_at"`
	EffectiveDate    Date                         `json:"effective_date"`
	Eligibility      *EligibilityResult           `json:"eligibility,omitempty"`
	SpousalAllowance *SpousalAllowance            `json:"spousal_allowance,omitempty"`
	Domains          map[Domain]*DomainResult     `json:"domains,omitempty"`
	ModuleErrors     map[Domain]*common.PlanError `json:"module_errors,omitempty"`
	ID               string                       `json:"id"`
	ClientID         string                       `json:"client_id"`
	Jurisdiction     string                       `json:"jurisdiction"`
	Status           PlanStatus                   `json:"status"`
	Error            string                       `json:"error,omitempty"`
}

// Domain returns the result for one domain, or nil when it is absent.
func (r *PlanningResult) Domain(d Domain) *DomainResult {
	if r.Domains == nil {
		return nil
	}
	return r.Domains[d]
}
