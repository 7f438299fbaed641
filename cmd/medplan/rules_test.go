package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/medplan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const ohioRules = `{
  "version": "test",
  "jurisdictions": [
    {"key": "Ohio", "display_name": "Ohio", "effective_date": "2025-01-01",
     "resource_limit_single": 2000, "resource_limit_married": 3000,
     "income_limit_single": 2901, "income_limit_married": 5802,
     "csra_min": 31584, "csra_max": 157920, "mmna_min": 2643.75, "mmna_max": 3948,
     "excess_shelter_standard": 793.13, "home_equity_limit": 730000,
     "personal_needs_allowance": 50, "penalty_divisor": 7453, "lookback_months": 60,
     "income_cap_state": true, "estate_recovery": {"applies": true}}
  ]
}`

type mockRuleStore struct {
	mock.Mock
}

func (m *mockRuleStore) SaveRuleSets(ctx context.Context, sets []model.JurisdictionRuleSet, source string) error {
	return m.Called(ctx, sets, source).Error(0)
}

func (m *mockRuleStore) ListRuleSets(ctx context.Context) ([]model.JurisdictionRuleSet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.JurisdictionRuleSet), args.Error(1)
}

func (m *mockRuleStore) DeleteRuleSet(ctx context.Context, jurisdiction string, effective model.Date) error {
	return m.Called(ctx, jurisdiction, effective).Error(0)
}

func TestImportRuleSets(t *testing.T) {
	path := writeClientFile(t, "ohio.json", ohioRules)

	store := &mockRuleStore{}
	store.On("SaveRuleSets", mock.Anything, mock.MatchedBy(func(sets []model.JurisdictionRuleSet) bool {
		return len(sets) == 1 && sets[0].Key == "ohio"
	}), path).Return(nil)

	repo, err := importRuleSets(context.Background(), store, path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ohio"}, repo.Jurisdictions())
	store.AssertExpectations(t)
}

func TestImportRuleSets_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		saveErr error
		want    string
	}{
		{name: "malformed file", body: `{"jurisdictions": [`},
		{name: "no jurisdictions", body: `{"version": "test", "jurisdictions": []}`, want: "contains no jurisdictions"},
		{name: "missing effective date", body: `{"version": "test", "jurisdictions": [{"key": "ohio"}]}`, want: "invalid rule data"},
		{name: "store failure", body: ohioRules, saveErr: errors.New("disk full"), want: "failed to import rule sets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeClientFile(t, "rules.json", tt.body)

			store := &mockRuleStore{}
			if tt.saveErr != nil {
				store.On("SaveRuleSets", mock.Anything, mock.Anything, path).Return(tt.saveErr)
			}

			_, err := importRuleSets(context.Background(), store, path)
			require.Error(t, err)
			if tt.want != "" {
				assert.Contains(t, err.Error(), tt.want)
			}
			if tt.saveErr != nil {
				assert.ErrorIs(t, err, tt.saveErr)
			} else {
				store.AssertNotCalled(t, "SaveRuleSets", mock.Anything, mock.Anything, mock.Anything)
			}
			store.AssertExpectations(t)
		})
	}
}

func TestDeleteRuleSet(t *testing.T) {
	effective := model.NewDate(2025, time.January, 1)
	missing := errors.New("rule set not stored")

	tests := []struct {
		name         string
		jurisdiction string
		storeErr     error
	}{
		{name: "normalizes the key", jurisdiction: "Ohio"},
		{name: "wraps store failures", jurisdiction: " OHIO ", storeErr: missing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockRuleStore{}
			store.On("DeleteRuleSet", mock.Anything, "ohio", effective).Return(tt.storeErr)

			key, err := deleteRuleSet(context.Background(), store, tt.jurisdiction, effective)
			assert.Equal(t, "ohio", key)
			if tt.storeErr != nil {
				require.ErrorIs(t, err, tt.storeErr)
				assert.Contains(t, err.Error(), "failed to delete ohio 2025-01-01")
			} else {
				require.NoError(t, err)
			}
			store.AssertExpectations(t)
		})
	}
}
