package planner

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/medplan/internal/common"
	"github.com/Veraticus/medplan/internal/model"
	"github.com/Veraticus/medplan/internal/rules"
	"github.com/Veraticus/medplan/internal/strategy"
	"github.com/Veraticus/medplan/internal/testutil"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

type mockModule struct {
	mock.Mock
	domain model.Domain
}

func (m *mockModule) Domain() model.Domain {
	return m.domain
}

func (m *mockModule) Derive(in strategy.Inputs, rs *model.JurisdictionRuleSet) (*model.DomainResult, error) {
	args := m.Called(in, rs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DomainResult), args.Error(1)
}

type panicModule struct{}

func (panicModule) Domain() model.Domain { return model.DomainTrusts }

func (panicModule) Derive(strategy.Inputs, *model.JurisdictionRuleSet) (*model.DomainResult, error) {
	var m map[string]int
	m["boom"]++
	return nil, nil
}

func newRepo(t *testing.T, builders ...*testutil.RuleSetBuilder) *rules.Repository {
	t.Helper()
	if len(builders) == 0 {
		builders = []*testutil.RuleSetBuilder{testutil.NewRuleSetBuilder()}
	}
	sets := make([]model.JurisdictionRuleSet, 0, len(builders))
	for _, b := range builders {
		sets = append(sets, *b.Build())
	}
	repo, err := rules.NewRepository(sets)
	require.NoError(t, err)
	return repo
}

func newPlanner(t *testing.T, repo *rules.Repository, opts ...Option) *Planner {
	t.Helper()
	base := []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { return "plan-1" }),
	}
	return New(repo, append(base, opts...)...)
}

func request(h *testutil.HouseholdBuilder, jurisdiction string) Request {
	profile, snapshot := h.Build()
	return Request{Profile: profile, Snapshot: snapshot, Jurisdiction: jurisdiction}
}

func TestPlanner_Run_Success(t *testing.T) {
	p := newPlanner(t, newRepo(t))
	h := testutil.NewHousehold("client-1").
		Asset(model.AssetSavings, "5000").
		Income(model.IncomeSocialSecurity, "1500")

	result, err := p.Run(request(h, "FL"))
	require.NoError(t, err)

	assert.Equal(t, model.PlanSuccess, result.Status)
	assert.Equal(t, "plan-1", result.ID)
	assert.Equal(t, "client-1", result.ClientID)
	assert.Equal(t, "florida", result.Jurisdiction)
	assert.Equal(t, "2025-01-01", result.EffectiveDate.String())
	assert.Equal(t, fixedNow, result.GeneratedAt)
	assert.Empty(t, result.ModuleErrors)
	assert.Nil(t, result.SpousalAllowance)
	require.NotNil(t, result.Eligibility)
	assert.False(t, result.Eligibility.IsResourceEligible)

	require.Len(t, result.Domains, len(model.AllDomains))
	for _, d := range model.AllDomains {
		require.NotNil(t, result.Domain(d), "missing %s", d)
	}
	assert.Equal(t, model.DomainNotApplicable, result.Domain(model.DomainCommunitySpouse).Status)
	assert.True(t, result.Domain(model.DomainAssets).HasStrategy(strategy.SpendDownExempt))
}

func TestPlanner_Run_CommunitySpouse(t *testing.T) {
	p := newPlanner(t, newRepo(t))
	h := testutil.NewHousehold("client-2").
		Married("1000").
		Asset(model.AssetSavings, "100000").
		Income(model.IncomeSocialSecurity, "2000")

	result, err := p.Run(request(h, "florida"))
	require.NoError(t, err)

	assert.Equal(t, model.PlanSuccess, result.Status)
	require.NotNil(t, result.SpousalAllowance)
	assert.True(t, result.SpousalAllowance.CSRAAmount.Equal(testutil.Dec("50000")))
	assert.Equal(t, model.DomainComputed, result.Domain(model.DomainCommunitySpouse).Status)
}

func TestPlanner_Run_SpouseInCare(t *testing.T) {
	p := newPlanner(t, newRepo(t))
	h := testutil.NewHousehold("client-3").Married("1000").SpouseInCare()

	result, err := p.Run(request(h, "florida"))
	require.NoError(t, err)

	assert.Nil(t, result.SpousalAllowance)
	assert.Equal(t, model.DomainModified, result.Domain(model.DomainCommunitySpouse).Status)
}

func TestPlanner_Run_FatalErrors(t *testing.T) {
	tests := []struct {
		name      string
		rules     *testutil.RuleSetBuilder
		household *testutil.HouseholdBuilder
		key       string
		wantErr   error
	}{
		{
			name:      "unknown jurisdiction",
			household: testutil.NewHousehold("c1"),
			key:       "atlantis",
			wantErr:   common.ErrRuleNotFound,
		},
		{
			name:      "missing resource limit",
			rules:     testutil.NewRuleSetBuilder().Without(model.FieldResourceLimitSingle),
			household: testutil.NewHousehold("c1"),
			key:       "florida",
			wantErr:   common.ErrMissingRuleValue,
		},
		{
			name:      "missing CSRA minimum for a married applicant",
			rules:     testutil.NewRuleSetBuilder().Without(model.FieldCSRAMin),
			household: testutil.NewHousehold("c1").Married("1000"),
			key:       "florida",
			wantErr:   common.ErrMissingRuleValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb := tt.rules
			if rb == nil {
				rb = testutil.NewRuleSetBuilder()
			}
			p := newPlanner(t, newRepo(t, rb))

			result, err := p.Run(request(tt.household, tt.key))
			require.ErrorIs(t, err, tt.wantErr)
			require.NotNil(t, result)

			assert.Equal(t, model.PlanError, result.Status)
			assert.Equal(t, err.Error(), result.Error)
			assert.Nil(t, result.Eligibility)
			assert.Nil(t, result.SpousalAllowance)
			assert.Nil(t, result.Domains)
			assert.Nil(t, result.ModuleErrors)
		})
	}
}

func TestPlanner_Run_MissingCSRAIgnoredForSingle(t *testing.T) {
	p := newPlanner(t, newRepo(t, testutil.NewRuleSetBuilder().Without(model.FieldCSRAMin)))

	result, err := p.Run(request(testutil.NewHousehold("c1"), "florida"))
	require.NoError(t, err)
	assert.Equal(t, model.PlanSuccess, result.Status)
}

func TestPlanner_Run_PartialOnMissingModuleValue(t *testing.T) {
	p := newPlanner(t, newRepo(t, testutil.NewRuleSetBuilder().Without(model.FieldPersonalNeedsAllowance)))

	result, err := p.Run(request(testutil.NewHousehold("c1").Asset(model.AssetSavings, "1000"), "florida"))
	require.NoError(t, err)

	assert.Equal(t, model.PlanPartial, result.Status)
	require.Contains(t, result.ModuleErrors, model.DomainPostEligibility)
	failure := result.ModuleErrors[model.DomainPostEligibility]
	assert.ErrorIs(t, failure, common.ErrModuleExecution)
	assert.ErrorIs(t, failure, common.ErrMissingRuleValue)
	assert.Equal(t, "post_eligibility", failure.Domain)

	assert.Nil(t, result.Domain(model.DomainPostEligibility))
	assert.Len(t, result.Domains, len(model.AllDomains)-1)
}

func TestPlanner_Run_IsolatesModuleFailures(t *testing.T) {
	failing := &mockModule{domain: model.DomainIncome}
	failing.On("Derive", mock.Anything, mock.Anything).Return(nil, errors.New("bad income data"))

	working := &mockModule{domain: model.DomainAssets}
	working.On("Derive", mock.Anything, mock.Anything).Return(&model.DomainResult{
		Domain: model.DomainAssets,
		Status: model.DomainComputed,
	}, nil)

	p := newPlanner(t, newRepo(t), WithModules(failing, panicModule{}, working))

	result, err := p.Run(request(testutil.NewHousehold("c1"), "florida"))
	require.NoError(t, err)

	assert.Equal(t, model.PlanPartial, result.Status)
	require.Len(t, result.ModuleErrors, 2)
	assert.Contains(t, result.ModuleErrors[model.DomainIncome].Cause, "bad income data")
	assert.ErrorIs(t, result.ModuleErrors[model.DomainTrusts], ErrModulePanic)

	require.Len(t, result.Domains, 1)
	assert.NotNil(t, result.Domain(model.DomainAssets))

	failing.AssertExpectations(t)
	working.AssertExpectations(t)
}

func TestPlanner_Run_PassesInputsToModules(t *testing.T) {
	m := &mockModule{domain: model.DomainAssets}
	m.On("Derive", mock.MatchedBy(func(in strategy.Inputs) bool {
		return in.Eligibility != nil && in.Allowance != nil && in.AsOf.Equal(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))
	}), mock.MatchedBy(func(rs *model.JurisdictionRuleSet) bool {
		return rs.Key == "florida"
	})).Return(&model.DomainResult{Domain: model.DomainAssets}, nil)

	p := newPlanner(t, newRepo(t), WithModules(m))
	_, err := p.Run(request(testutil.NewHousehold("c1").Married("500"), "florida"))
	require.NoError(t, err)
	m.AssertExpectations(t)
}

func TestPlanner_Run_AsOfSelectsRuleSet(t *testing.T) {
	repo := newRepo(t,
		testutil.NewRuleSetBuilder().EffectiveFrom(2024, time.January, 1).With(model.FieldResourceLimitSingle, "1500"),
		testutil.NewRuleSetBuilder(),
	)
	p := newPlanner(t, repo)

	asOf := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
	req := request(testutil.NewHousehold("c1").Asset(model.AssetSavings, "1800"), "florida")
	req.AsOf = &asOf

	result, err := p.Run(req)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", result.EffectiveDate.String())
	assert.True(t, result.Eligibility.ResourceLimit.Equal(testutil.Dec("1500")))
	assert.False(t, result.Eligibility.IsResourceEligible)
}

func TestPlanner_Run_DefaultAsOfUsesLocalDate(t *testing.T) {
	repo := newRepo(t,
		testutil.NewRuleSetBuilder().EffectiveFrom(2024, time.January, 1),
		testutil.NewRuleSetBuilder(),
	)

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{
			name: "ahead of UTC just after midnight",
			now:  time.Date(2025, time.January, 1, 0, 30, 0, 0, time.FixedZone("UTC+5", 5*3600)),
			want: "2025-01-01",
		},
		{
			name: "behind UTC late on new year's eve",
			now:  time.Date(2024, time.December, 31, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600)),
			want: "2024-01-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPlanner(t, repo, WithClock(func() time.Time { return tt.now }))

			result, err := p.Run(request(testutil.NewHousehold("c1"), "florida"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.EffectiveDate.String())
		})
	}
}

func TestPlanner_Run_NonPositiveDivisorIsPartial(t *testing.T) {
	p := newPlanner(t, newRepo(t, testutil.NewRuleSetBuilder().With(model.FieldPenaltyDivisor, "0")))
	h := testutil.NewHousehold("c1").Transfer(time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), "50000", "0")

	result, err := p.Run(request(h, "florida"))
	require.NoError(t, err)

	assert.Equal(t, model.PlanPartial, result.Status)
	for _, domain := range []model.Domain{model.DomainDivestment, model.DomainApplicationTiming} {
		require.Contains(t, result.ModuleErrors, domain)
		assert.ErrorIs(t, result.ModuleErrors[domain], common.ErrMissingRuleValue)
		assert.Nil(t, result.Domain(domain))
	}
}

func TestPlanner_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	p := newPlanner(t, newRepo(t, testutil.NewRuleSetBuilder().Without(model.FieldPersonalNeedsAllowance)), WithMetrics(metrics))

	_, err := p.Run(request(testutil.NewHousehold("c1"), "florida"))
	require.NoError(t, err)
	_, err = p.Run(request(testutil.NewHousehold("c2"), "atlantis"))
	require.Error(t, err)

	assert.InDelta(t, 1, promtest.ToFloat64(metrics.Runs.WithLabelValues("partial")), 0)
	assert.InDelta(t, 1, promtest.ToFloat64(metrics.Runs.WithLabelValues("error")), 0)
	assert.InDelta(t, 0, promtest.ToFloat64(metrics.Runs.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, promtest.ToFloat64(metrics.ModuleFailures.WithLabelValues("post_eligibility")), 0)
	assert.Equal(t, 1, promtest.CollectAndCount(metrics.Duration))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementRun("success")
		m.IncrementModuleFailure("assets")
		m.ObserveDuration(time.Second)
	})
}

func TestPlanner_Run_Concurrent(t *testing.T) {
	p := New(newRepo(t))
	h := testutil.NewHousehold("c1").Married("1000").Asset(model.AssetSavings, "100000")

	var wg sync.WaitGroup
	results := make([]*model.PlanningResult, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = p.Run(request(h, "florida"))
		}(i)
	}
	wg.Wait()

	ids := make(map[string]bool)
	for _, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, model.PlanSuccess, r.Status)
		ids[r.ID] = true
	}
	assert.Len(t, ids, len(results))
}
