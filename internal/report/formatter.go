// Package report renders planning results for terminals and machines.
package report

import (
	"fmt"
	"strings"

	"github.com/Veraticus/medplan/internal/common"
	"github.com/Veraticus/medplan/internal/model"
)

// Formatter renders a planning result.
type Formatter interface {
	Format(result *model.PlanningResult) (string, error)
}

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New returns the formatter for a configured format name.
func New(format string) (Formatter, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		return NewTextFormatter(), nil
	case FormatJSON:
		return NewJSONFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: report format %q", common.ErrInvalidConfig, format)
	}
}

// DomainTitle turns a domain key such as application_timing into "Application Timing".
func DomainTitle(d model.Domain) string {
	words := strings.Split(string(d), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
