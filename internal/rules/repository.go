// Package rules resolves jurisdiction keys to immutable program rule sets.
package rules

import (
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/Veraticus/medplan/internal/common"
	"github.com/Veraticus/medplan/internal/model"
)

// Repository resolves jurisdiction keys to rule sets. Lookups never take a lock:
// the index is built once and swapped whole by Replace.
type Repository struct {
	index atomic.Pointer[ruleIndex]
}

type ruleIndex struct {
	// sets holds each jurisdiction's rule sets ordered by effective date, oldest first.
	sets    map[string][]*model.JurisdictionRuleSet
	aliases map[string]string
}

// NewRepository builds a repository from loaded rule sets.
func NewRepository(sets []model.JurisdictionRuleSet) (*Repository, error) {
	r := &Repository{}
	if err := r.Replace(sets); err != nil {
		return nil, err
	}
	return r, nil
}

// Replace swaps in a new set of rules. In-flight lookups keep the index they started with.
func (r *Repository) Replace(sets []model.JurisdictionRuleSet) error {
	idx, err := buildIndex(sets)
	if err != nil {
		return err
	}
	r.index.Store(idx)
	return nil
}

func buildIndex(sets []model.JurisdictionRuleSet) (*ruleIndex, error) {
	idx := &ruleIndex{
		sets:    make(map[string][]*model.JurisdictionRuleSet),
		aliases: make(map[string]string, len(postalCodes)),
	}
	for code, canonical := range postalCodes {
		idx.aliases[code] = canonical
	}
	declared := make(map[string]string)

	for i := range sets {
		canonical := Normalize(sets[i].Key)
		if canonical == "" {
			return nil, fmt.Errorf("rule set at index %d: missing key", i)
		}
		if sets[i].EffectiveDate.IsZero() {
			return nil, fmt.Errorf("rule set %q: missing effective date", sets[i].Key)
		}

		rs := sets[i].Clone()
		rs.Key = canonical
		for _, existing := range idx.sets[canonical] {
			if existing.EffectiveDate.Equal(rs.EffectiveDate.Time) {
				return nil, fmt.Errorf("rule set %q: duplicate effective date %s", canonical, rs.EffectiveDate)
			}
		}
		idx.sets[canonical] = append(idx.sets[canonical], rs)

		for _, alias := range rs.Aliases {
			a := Normalize(alias)
			if a == "" || a == canonical {
				continue
			}
			if target, ok := declared[a]; ok && target != canonical {
				return nil, fmt.Errorf("alias %q maps to both %q and %q", alias, target, canonical)
			}
			declared[a] = canonical
			idx.aliases[a] = canonical
		}
	}

	for _, list := range idx.sets {
		sort.Slice(list, func(i, j int) bool {
			return list[i].EffectiveDate.Before(list[j].EffectiveDate.Time)
		})
	}

	return idx, nil
}

// Canonical maps a raw key to its canonical jurisdiction name.
func (r *Repository) Canonical(key string) string {
	normalized := Normalize(key)
	if target, ok := r.index.Load().aliases[normalized]; ok {
		return target
	}
	return normalized
}

// Resolve returns the rule set in force for the jurisdiction on asOf. A nil asOf
// selects the most recent rule set. The returned value is a private copy.
func (r *Repository) Resolve(key string, asOf *time.Time) (*model.JurisdictionRuleSet, error) {
	canonical := r.Canonical(key)
	list := r.index.Load().sets[canonical]
	if len(list) == 0 {
		return nil, common.RuleNotFound(key)
	}

	if asOf == nil {
		return list[len(list)-1].Clone(), nil
	}

	for i := len(list) - 1; i >= 0; i-- {
		if !list[i].EffectiveDate.After(*asOf) {
			return list[i].Clone(), nil
		}
	}

	return nil, &common.PlanError{
		Kind:    common.KindRuleNotFound,
		Message: fmt.Sprintf("no rule set for jurisdiction %q effective on %s", key, asOf.Format(model.DateLayout)),
	}
}

// Jurisdictions lists canonical keys in alphabetical order.
func (r *Repository) Jurisdictions() []string {
	idx := r.index.Load()
	keys := make([]string, 0, len(idx.sets))
	for k := range idx.sets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// History returns every rule set for a jurisdiction, oldest first.
func (r *Repository) History(key string) ([]model.JurisdictionRuleSet, error) {
	list := r.index.Load().sets[r.Canonical(key)]
	if len(list) == 0 {
		return nil, common.RuleNotFound(key)
	}
	out := make([]model.JurisdictionRuleSet, len(list))
	for i, rs := range list {
		out[i] = *rs.Clone()
	}
	return out, nil
}

// All returns every rule set across all jurisdictions.
func (r *Repository) All() []model.JurisdictionRuleSet {
	var out []model.JurisdictionRuleSet
	for _, key := range r.Jurisdictions() {
		history, _ := r.History(key)
		out = append(out, history...)
	}
	return out
}
