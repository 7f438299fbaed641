package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/medplan/internal/model"
	"github.com/Veraticus/medplan/internal/service"
)

// FormatRuleSets renders a one-line-per-set listing of loaded rule sets.
func (f *TextFormatter) FormatRuleSets(sets []model.JurisdictionRuleSet) string {
	if len(sets) == 0 {
		return f.styles.Subtle.Render("No rule sets loaded")
	}

	keyWidth := 16
	nameWidth := 22
	dateWidth := 12

	header := fmt.Sprintf("%-*s %-*s %-*s", keyWidth, "Jurisdiction", nameWidth, "Name", dateWidth, "Effective")
	rows := []string{
		f.styles.Subtle.Bold(true).Render(header),
		f.styles.Subtle.Render(strings.Repeat("─", len(header))),
	}

	for _, rs := range sets {
		rows = append(rows, fmt.Sprintf("%-*s %-*s %-*s",
			keyWidth, rs.Key,
			nameWidth, truncate(rs.DisplayName, nameWidth),
			dateWidth, rs.EffectiveDate))
	}
	return strings.Join(rows, "\n")
}

// FormatRuleSet renders every numeric field of one rule set. Missing or
// unparseable values are highlighted.
func (f *TextFormatter) FormatRuleSet(rs *model.JurisdictionRuleSet) string {
	title := f.styles.Title.UnsetMargins().Render(fmt.Sprintf("%s (%s)", rs.DisplayName, rs.Key))
	effective := f.styles.Subtle.Render(fmt.Sprintf("Effective %s", rs.EffectiveDate))

	lines := []string{title, effective, ""}
	for _, name := range model.FieldNames {
		v := rs.Field(name)
		value := v.String()
		if !v.Valid {
			value = f.styles.Warning.Render(value)
		}
		lines = append(lines, fmt.Sprintf("%-26s %s", name, value))
	}

	lines = append(lines,
		fmt.Sprintf("%-26s %d", "lookback_months", rs.LookbackMonths),
		fmt.Sprintf("%-26s %t", "income_cap_state", rs.IncomeCapState),
		fmt.Sprintf("%-26s %t", "estate_recovery", rs.EstateRecovery.Applies),
	)
	if len(rs.Aliases) > 0 {
		lines = append(lines, fmt.Sprintf("%-26s %s", "aliases", strings.Join(rs.Aliases, ", ")))
	}
	return strings.Join(lines, "\n")
}

// FormatPlans renders stored plan summaries, newest first as given.
func (f *TextFormatter) FormatPlans(plans []service.PlanSummary) string {
	if len(plans) == 0 {
		return f.styles.Subtle.Render("No saved plans")
	}

	idWidth := 36
	clientWidth := 16
	jurWidth := 14
	statusWidth := 8

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %s",
		idWidth, "Plan", clientWidth, "Client", jurWidth, "Jurisdiction", statusWidth, "Status", "Created")
	rows := []string{
		f.styles.Subtle.Bold(true).Render(header),
		f.styles.Subtle.Render(strings.Repeat("─", len(header))),
	}

	for _, p := range plans {
		status := fmt.Sprintf("%-*s", statusWidth, p.Status)
		rows = append(rows, fmt.Sprintf("%-*s %-*s %-*s %s %s",
			idWidth, p.ID,
			clientWidth, truncate(p.ClientID, clientWidth),
			jurWidth, p.Jurisdiction,
			f.styles.StatusStyle(string(p.Status)).Render(status),
			p.CreatedAt.Format(time.DateTime)))
	}
	return strings.Join(rows, "\n")
}

func truncate(s string, width int) string {
	if len(s) <= width-1 {
		return s
	}
	return s[:width-4] + "..."
}
