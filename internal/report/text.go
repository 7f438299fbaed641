package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/medplan/internal/cli"
	"github.com/Veraticus/medplan/internal/model"
	"github.com/Veraticus/medplan/internal/strategy"
	"github.com/shopspring/decimal"
)

// TextFormatter renders results for terminal display.
type TextFormatter struct {
	styles *Styles
}

// NewTextFormatter creates a TextFormatter with default styles.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{
		styles: NewStyles(),
	}
}

// Format implements Formatter. It never fails for a non-nil result.
func (f *TextFormatter) Format(result *model.PlanningResult) (string, error) {
	if result == nil {
		return f.styles.Error.Render("No plan available"), nil
	}

	sections := []string{f.formatHeader(result)}

	if result.Status == model.PlanError {
		sections = append(sections, f.styles.ErrorBox.Render(
			cli.FormatError("Planning failed: "+result.Error)))
		return strings.Join(sections, "\n\n") + "\n", nil
	}

	if result.Eligibility != nil {
		sections = append(sections, f.formatEligibility(result.Eligibility))
	}

	if result.SpousalAllowance != nil {
		sections = append(sections, f.formatAllowance(result.SpousalAllowance))
	}

	for _, d := range model.AllDomains {
		if dr := result.Domain(d); dr != nil {
			sections = append(sections, f.formatDomain(dr))
		}
	}

	if len(result.ModuleErrors) > 0 {
		sections = append(sections, f.formatModuleErrors(result))
	}

	return strings.Join(sections, "\n\n") + "\n", nil
}

func (f *TextFormatter) formatHeader(result *model.PlanningResult) string {
	title := cli.FormatTitle("Eligibility Plan")

	lines := []string{title}
	lines = append(lines, f.styles.Subtitle.Render(fmt.Sprintf("Client: %s", result.ClientID)))

	jurisdiction := result.Jurisdiction
	if !result.EffectiveDate.IsZero() {
		jurisdiction += fmt.Sprintf(" (rules effective %s)", result.EffectiveDate)
	}
	lines = append(lines, fmt.Sprintf("Jurisdiction: %s", jurisdiction))

	status := f.styles.StatusStyle(string(result.Status)).Render(strings.ToUpper(string(result.Status)))
	lines = append(lines, fmt.Sprintf("Status: %s", status))

	meta := fmt.Sprintf("Plan %s | Generated %s", result.ID, result.GeneratedAt.Format(time.RFC3339))
	lines = append(lines, f.styles.Subtle.Render(meta))

	return strings.Join(lines, "\n")
}

func (f *TextFormatter) formatEligibility(e *model.EligibilityResult) string {
	title := f.styles.Subtitle.Render("Eligibility:")

	rows := []string{
		f.testLine("Resources", e.CountableAssets, e.ResourceLimit, e.ExcessResources, e.IsResourceEligible),
		f.testLine("Income", e.TotalIncome, e.IncomeLimit, e.ExcessIncome, e.IsIncomeEligible),
	}

	var verdict string
	if e.IsEligible() {
		verdict = cli.FormatSuccess("Eligible today")
	} else {
		verdict = cli.FormatWarning("Not yet eligible")
	}

	return title + "\n" + strings.Join(rows, "\n") + "\n" + verdict
}

func (f *TextFormatter) testLine(label string, amount, limit, excess decimal.Decimal, passed bool) string {
	line := fmt.Sprintf("%-10s %14s of %14s", label, strategy.Money(amount), strategy.Money(limit))
	if passed {
		return f.styles.Success.Render(cli.SuccessIcon) + " " + line
	}
	over := f.styles.Error.Render(fmt.Sprintf("over by %s", strategy.Money(excess)))
	return f.styles.Error.Render(cli.ErrorIcon) + " " + line + "  " + over
}

func (f *TextFormatter) formatAllowance(a *model.SpousalAllowance) string {
	title := f.styles.Subtitle.Render("Community Spouse Allowances:")

	lines := []string{
		f.amountLine("Resource allowance (CSRA)", a.CSRAAmount),
		f.amountLine("Assets above allowance", a.RemainingAssets),
		f.amountLine("Needs allowance (MMNA)", a.MMNAAmount),
		f.amountLine("Income shortfall", a.IncomeShortfall),
	}

	var notes []string
	if a.AllAssetsProtected {
		notes = append(notes, "all countable assets protected")
	}
	if a.IsCapped {
		notes = append(notes, "MMNA capped at maximum")
	}
	if a.CourtOrderOverride {
		notes = append(notes, "MMNA set by court order")
	}
	if len(notes) > 0 {
		lines = append(lines, f.styles.Subtle.Render("("+strings.Join(notes, ", ")+")"))
	}

	return title + "\n" + f.styles.Box.Render(strings.Join(lines, "\n"))
}

func (f *TextFormatter) amountLine(label string, amount decimal.Decimal) string {
	return fmt.Sprintf("%-28s %s", label, f.styles.Amount.Render(strategy.Money(amount)))
}

func (f *TextFormatter) formatDomain(dr *model.DomainResult) string {
	header := f.styles.Subtitle.Render(DomainTitle(dr.Domain))
	switch dr.Status {
	case model.DomainNotApplicable:
		header += " " + f.styles.Subtle.Render("(not applicable)")
	case model.DomainModified:
		header += " " + f.styles.Warning.Render("(modified)")
	}

	return header + "\n" + f.styles.Narrative.Render(dr.Narrative)
}

func (f *TextFormatter) formatModuleErrors(result *model.PlanningResult) string {
	title := f.styles.Warning.Render(cli.WarningIcon + " Incomplete Areas:")

	domains := make([]model.Domain, 0, len(result.ModuleErrors))
	for d := range result.ModuleErrors {
		domains = append(domains, d)
	}
	sort.Slice(domains, func(i, j int) bool { return domains[i] < domains[j] })

	lines := make([]string, 0, len(domains))
	for _, d := range domains {
		lines = append(lines, fmt.Sprintf("• %s: %s",
			f.styles.Info.Render(DomainTitle(d)),
			result.ModuleErrors[d].Error()))
	}
	return title + "\n" + strings.Join(lines, "\n")
}
