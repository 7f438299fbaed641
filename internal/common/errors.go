// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Planning errors. PlanError values unwrap to one of these so callers can use errors.Is.
var (
	// Rule errors.
	ErrRuleNotFound     = errors.New("rule set not found")
	ErrMissingRuleValue = errors.New("missing rule value")

	// Input errors, raised only at the boundary.
	ErrValidation = errors.New("validation failed")

	// Orchestration errors.
	ErrModuleExecution = errors.New("module execution failed")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ErrorKind classifies a PlanError.
type ErrorKind string

// Error kinds.
const (
	KindRuleNotFound     ErrorKind = "rule_not_found"
	KindMissingRuleValue ErrorKind = "missing_rule_value"
	KindValidation       ErrorKind = "validation"
	KindModuleExecution  ErrorKind = "module_execution"
)

// PlanError is the single error type returned by the planning core.
type PlanError struct {
	Err     error     `json:"-"`
	Kind    ErrorKind `json:"kind"`
	Domain  string    `json:"domain,omitempty"`
	Message string    `json:"message"`
	Cause   string    `json:"cause,omitempty"`
}

// Error falls back to Cause when Err is gone, as it is after a JSON round trip.
func (e *PlanError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Cause != "" {
		return e.Message + ": " + e.Cause
	}
	return e.Message
}

// Unwrap exposes the sentinel for the error kind, and the cause when there is one.
func (e *PlanError) Unwrap() []error {
	errs := []error{kindSentinel(e.Kind)}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Fatal reports whether the error must abort a planning run.
func (e *PlanError) Fatal() bool {
	return e.Kind == KindRuleNotFound || e.Kind == KindMissingRuleValue
}

func kindSentinel(kind ErrorKind) error {
	switch kind {
	case KindRuleNotFound:
		return ErrRuleNotFound
	case KindMissingRuleValue:
		return ErrMissingRuleValue
	case KindValidation:
		return ErrValidation
	default:
		return ErrModuleExecution
	}
}

// RuleNotFound reports an unknown jurisdiction key.
func RuleNotFound(key string) error {
	return &PlanError{
		Kind:    KindRuleNotFound,
		Message: fmt.Sprintf("no rule set for jurisdiction %q", key),
	}
}

// MissingRuleValue reports a rule set that lacks a required numeric field.
func MissingRuleValue(jurisdiction, field string) error {
	return &PlanError{
		Kind:    KindMissingRuleValue,
		Message: fmt.Sprintf("jurisdiction %q has no numeric value for %s", jurisdiction, field),
	}
}

// Invalid reports malformed client input.
func Invalid(field, reason string) error {
	return &PlanError{
		Kind:    KindValidation,
		Message: fmt.Sprintf("%s: %s", field, reason),
	}
}

// ModuleFailed wraps a failure inside a single planning domain.
func ModuleFailed(domain string, err error) *PlanError {
	return &PlanError{
		Kind:    KindModuleExecution,
		Domain:  domain,
		Message: fmt.Sprintf("%s module failed", domain),
		Cause:   err.Error(),
		Err:     err,
	}
}

// AsPlanError extracts a PlanError from an error chain.
func AsPlanError(err error) (*PlanError, bool) {
	var pe *PlanError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
