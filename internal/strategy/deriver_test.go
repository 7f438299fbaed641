package strategy

import (
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/medplan/internal/eligibility"
	"github.com/Veraticus/medplan/internal/model"
	"github.com/Veraticus/medplan/internal/spousal"
	"github.com/Veraticus/medplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var asOf = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

// inputsFor runs the eligibility and spousal calculations the planner would run.
func inputsFor(t *testing.T, h *testutil.HouseholdBuilder, rules *model.JurisdictionRuleSet) Inputs {
	t.Helper()

	profile, snapshot := h.Build()
	elig, err := eligibility.NewAssessor().Assess(profile, snapshot, rules)
	require.NoError(t, err)

	in := Inputs{AsOf: asOf, Eligibility: elig, Profile: profile, Snapshot: snapshot}
	if profile.HasCommunitySpouse() {
		in.Allowance, err = spousal.NewCalculator().Calculate(profile, snapshot, rules)
		require.NoError(t, err)
	}
	return in
}

func ids(recs []model.StrategyRecommendation) []model.StrategyID {
	out := make([]model.StrategyID, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}

func testDeriver() *Deriver[int] {
	return &Deriver[int]{
		domain: model.DomainAssets,
		assess: func(Inputs, *model.JurisdictionRuleSet) (int, error) { return 7, nil },
		conditions: []Condition[int]{
			{Strategy: "first", When: func(n int) bool { return n > 5 }},
			{Strategy: "skipped", When: func(n int) bool { return n > 100 }},
			{Strategy: "first", When: func(n int) bool { return n > 0 }},
			{Strategy: "second", When: func(n int) bool { return n%7 == 0 }},
		},
		summary: func(n int) string { return "Value is high." },
		steps: map[model.StrategyID]func(int) string{
			"second": func(n int) string { return "Handle the value." },
		},
	}
}

func TestDeriver_DetermineStrategies(t *testing.T) {
	d := testDeriver()

	got := d.DetermineStrategies(7)

	require.Len(t, got, 2)
	assert.Equal(t, []model.StrategyID{"first", "second"}, ids(got))
	for i, rec := range got {
		assert.Equal(t, i+1, rec.Priority)
		assert.Equal(t, model.DomainAssets, rec.Domain)
	}
	assert.Empty(t, d.DetermineStrategies(-1))
}

func TestDeriver_PlanApproach(t *testing.T) {
	d := testDeriver()

	t.Run("with strategies", func(t *testing.T) {
		narrative := d.PlanApproach(d.DetermineStrategies(7), 7)
		lines := strings.Split(narrative, "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "Value is high.", lines[0])
		assert.Equal(t, "Recommended approach:", lines[1])
		assert.Equal(t, "1. first", lines[2])
		assert.Equal(t, "2. Handle the value.", lines[3])
	})

	t.Run("without strategies", func(t *testing.T) {
		narrative := d.PlanApproach(nil, 7)
		assert.Equal(t, "Value is high. No action is needed in this area.", narrative)
	})
}

func TestDeriver_Derive(t *testing.T) {
	d := testDeriver()
	in := inputsFor(t, testutil.NewHousehold("c1"), testutil.NewRuleSetBuilder().Build())

	result, err := d.Derive(in, testutil.NewRuleSetBuilder().Build())
	require.NoError(t, err)
	assert.Equal(t, model.DomainComputed, result.Status)
	assert.Equal(t, 7, result.Situation)
	assert.True(t, result.HasStrategy("second"))
}

func TestDeriver_MissingEligibility(t *testing.T) {
	_, err := NewAssetDeriver().Derive(Inputs{AsOf: asOf}, testutil.NewRuleSetBuilder().Build())
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestModules(t *testing.T) {
	modules := Modules()
	require.Len(t, modules, len(model.AllDomains))

	for i, m := range modules {
		assert.Equal(t, model.AllDomains[i], m.Domain())
	}
}

func TestCatalog_CoversEveryStrategy(t *testing.T) {
	type lister interface {
		Strategies() []model.StrategyID
	}

	for _, m := range Modules() {
		l, ok := m.(lister)
		require.True(t, ok, "%s does not list its strategies", m.Domain())
		for _, id := range l.Strategies() {
			_, ok := catalog[id]
			assert.True(t, ok, "%s: no catalog text for %s", m.Domain(), id)
		}
	}
	for _, id := range []model.StrategyID{JointApplication, SeparateCareAssessment} {
		assert.Contains(t, catalog, id)
	}
}

func TestDescribe_Unknown(t *testing.T) {
	assert.Equal(t, "made_up", Describe("made_up"))
}

func TestMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"160", "$160.00"},
		{"2643.75", "$2,643.75"},
		{"137400", "$137,400.00"},
		{"1234567.891", "$1,234,567.89"},
		{"-1500", "-$1,500.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Money(testutil.Dec(tt.in)))
		})
	}
}
